package ddns

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// DefaultEndpoints are public IP echo services tried by the default resolver.
//
// I'm not vouching for these services, but they do return the IP of the client connection.
// If possible, run your own and configure its URL instead.
var DefaultEndpoints = []string{
	"https://api.ipify.org",
	"https://ifconfig.me/ip",
	"https://icanhazip.com",
}

// WebResolver constructs a resolver which uses external web services to look up a "public" IP address.
//
// Each serviceURL must speak http and return status "200 OK",
// with a dotted-quad IPv4 address as the first line of the response body.
// All other responses are considered an error.
//
// Endpoints are tried strictly in list order and the first valid address
// wins; there is no retry within a single endpoint. Each request is bounded
// by a short timeout so a hung endpoint only delays, never blocks, the
// fall-through to the next one.
func WebResolver(serviceURL ...string) (Resolver, error) {
	var URLs []*url.URL
	for _, u := range serviceURL {
		pu, err := url.Parse(u)
		if err != nil {
			return nil, fmt.Errorf("error parsing URL: %w", err)
		}
		URLs = append(URLs, pu)
	}
	return &webResolver{serviceURLs: URLs}, nil
}

type webResolver struct {
	httpClient  *http.Client
	serviceURLs []*url.URL

	// timeout bounds each endpoint request; zero means lookupTimeout.
	timeout time.Duration
}

const lookupTimeout = 5 * time.Second

// Resolve implements ddns.Resolver.
func (wr *webResolver) Resolve(ctx context.Context) (Addr, error) {
	if len(wr.serviceURLs) == 0 {
		return "", errors.New("no external IP lookup services were provided")
	}

	var errs []error
	for _, u := range wr.serviceURLs {
		addr, err := wr.lookup(ctx, u)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", u.Host, err))
			continue
		}
		return addr, nil
	}
	return "", fmt.Errorf("%w: %s", ErrNoAddressResolved, errors.Join(errs...))
}

func (wr *webResolver) lookup(ctx context.Context, url *url.URL) (Addr, error) {
	timeout := wr.timeout
	if timeout == 0 {
		timeout = lookupTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url.String(), nil)
	if err != nil {
		return "", fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Cache-Control", "no-cache")

	httpclient := wr.httpClient
	if httpclient == nil {
		httpclient = http.DefaultClient
	}

	resp, err := httpclient.Do(req)
	if err != nil {
		return "", fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("http request returned %s", resp.Status)
	}

	scanner := bufio.NewReader(resp.Body)
	ipstring, _ := scanner.ReadString('\n')
	addr, err := ParseAddr(ipstring)
	if err != nil {
		return "", fmt.Errorf("error parsing IP address from response body: %w", err)
	}
	return addr, nil
}
