package ddns

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/cloudflare/cloudflare-go"
)

// Logger accepts log lines from the client.
// Both *log.Logger and *logrus.Logger satisfy it.
type Logger interface {
	Printf(format string, v ...any)
}

var discard Logger = nopLogger{}

type nopLogger struct{}

func (nopLogger) Printf(string, ...any) {}

// DefaultCacheFile is the well-known cache file location used
// when no cache is configured explicitly.
func DefaultCacheFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".cloudflare_ddns_ip.txt")
}

// New returns a DDNSClient that keeps the DNS record named record pointed
// at this host's current public IPv4 address.
//
// With no resolver option the default web resolver over [DefaultEndpoints]
// is used, and with no cache option a file cache at [DefaultCacheFile] is used.
// A provider option such as [UsingCloudflare] is required.
func New(record string, options ...clientOption) (DDNSClient, error) {
	if record == "" {
		return nil, fmt.Errorf("ddns.New: record name cannot be empty")
	}
	c := &client{
		record: record,
		logger: discard,
	}
	for i, opt := range options {
		if err := opt(c); err != nil {
			return nil, fmt.Errorf("ddns.New: option %d returned an error: %s", i, err)
		}
	}

	if c.Provider == nil {
		return nil, fmt.Errorf("ddns.New: no DNS provider was registered and there is no default option - use ddns.UsingCloudflare or similar")
	}
	if c.Resolver == nil {
		r, err := WebResolver(DefaultEndpoints...)
		if err != nil {
			return nil, fmt.Errorf("ddns.New: error building default resolver: %s", err)
		}
		c.Resolver = r
	}
	if c.Cache == nil {
		c.Cache = NewFileCache(DefaultCacheFile())
	}

	// this lets us propagate the logger to dependencies that use one if WithLogger was called before all of the dependencies were registered
	withLogger(c.logger)(c)
	return c, nil
}

type clientOption func(*client) error

func UsingCloudflare(token string, zoneID string) clientOption {
	return func(c *client) (err error) {
		if c.Provider, err = newCloudflareProvider(token, zoneID); err != nil {
			return fmt.Errorf("ddns.UsingCloudflare: error creating cloudflare DNS provider: %w", err)
		}
		return nil
	}
}

func UsingProvider(provider Provider) clientOption {
	return func(c *client) error {
		c.Provider = provider
		return nil
	}
}

func UsingResolver(resolver Resolver) clientOption {
	return func(c *client) error {
		c.Resolver = resolver
		return nil
	}
}

func UsingWebResolver(serviceURL ...string) clientOption {
	return func(c *client) error {
		r, err := WebResolver(serviceURL...)
		if err != nil {
			return err
		}
		c.Resolver = r
		return nil
	}
}

func UsingCache(cache Cache) clientOption {
	return func(c *client) error {
		c.Cache = cache
		return nil
	}
}

func WithCacheFile(path string) clientOption {
	return func(c *client) error {
		if path == "" {
			path = DefaultCacheFile()
		}
		c.Cache = NewFileCache(path)
		return nil
	}
}

func withLogger(logger Logger) clientOption {
	return func(c *client) error {
		if logger == nil {
			logger = discard
		}
		type setLogger interface {
			SetLogger(Logger)
		}

		switch p := c.Provider.(type) {
		case *cloudflareProvider:
			p.logger = logger
		case setLogger:
			p.SetLogger(logger)
		}

		switch r := c.Resolver.(type) {
		case setLogger:
			r.SetLogger(logger)
		}

		return nil
	}
}

func WithLogger(logger Logger) clientOption {
	return func(c *client) error {
		c.logger = logger
		return nil
	}
}

func UsingHTTPClient(httpclient *http.Client) clientOption {
	return func(c *client) error {
		if httpclient == nil {
			httpclient = http.DefaultClient
		}
		type setHTTPClient interface {
			SetHTTPClient(*http.Client)
		}
		switch hc := c.Resolver.(type) {
		case *webResolver:
			hc.httpClient = httpclient
		case setHTTPClient:
			hc.SetHTTPClient(httpclient)
		}
		switch p := c.Provider.(type) {
		case *cloudflareProvider:
			cloudflare.HTTPClient(httpclient)(p.api)
		case setHTTPClient:
			p.SetHTTPClient(httpclient)
		}
		return nil
	}
}

type DDNSClient interface {
	RunDDNS(ctx context.Context) error
}

type client struct {
	Resolver
	Provider
	Cache
	logger Logger
	record string
}

// RunDDNS runs one reconciliation cycle:
// resolve the current public address, compare it to the cached one,
// and only when they differ fetch the DNS record, rewrite its content,
// and persist the new address.
func (c *client) RunDDNS(ctx context.Context) error {
	current, err := c.Resolve(ctx)
	if err != nil {
		return fmt.Errorf("error resolving public IP: %w", err)
	}
	c.logger.Printf("current public IP: %s", current)

	cached, found, err := c.Load()
	if err != nil {
		// A failed cache read is treated as an absent cache so the cycle
		// still converges the remote record.
		c.logger.Printf("cache read failed, treating as absent: %s", err)
		found = false
	}
	if found && current == cached {
		c.logger.Printf("IP address unchanged, no update needed")
		return nil
	}
	if found {
		c.logger.Printf("IP address changed: %s -> %s", cached, current)
	} else {
		c.logger.Printf("no cached IP, updating %s to %s", c.record, current)
	}

	record, err := c.FetchRecord(ctx, c.record)
	if err != nil {
		return fmt.Errorf("error fetching DNS record %s: %w", c.record, err)
	}
	record.Content = current.String()
	if err := c.UpdateRecord(ctx, record); err != nil {
		return fmt.Errorf("error updating DNS record %s: %w", c.record, err)
	}
	c.logger.Printf("DNS record updated: %s -> %s", c.record, current)

	if err := c.Store(current); err != nil {
		// The remote record is already updated; losing the cache write only
		// costs a redundant update on the next cycle.
		c.logger.Printf("error storing cached IP: %s", err)
	}
	return nil
}

type logf interface {
	Printf(string, ...any)
}

// RunDaemon starts ddnsClient as a goroutine.
// One cycle runs immediately, then one per interval until ctx is done.
//
// A nil logger for the DDNSClient supplied by this library indicates that the daemon should send error logs to the logger configured in the client.
// Otherwise the default is to discard log messages.
func RunDaemon(ddnsClient DDNSClient, ctx context.Context, interval time.Duration, logger logf) {
	if interval < 1*time.Minute {
		interval = 1 * time.Minute
	}
	if logger == nil {
		if c, ok := ddnsClient.(*client); ok && c.logger != nil {
			logger = c.logger
		} else {
			logger = discard
		}
	}
	go func() {
		if err := ddnsClient.RunDDNS(ctx); err != nil {
			logger.Printf("ddns.RunDaemon: %s", err)
		}

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				err := ddnsClient.RunDDNS(ctx)
				if err != nil {
					logger.Printf("ddns.RunDaemon: %s", err)
				}
			}
		}
	}()
}
