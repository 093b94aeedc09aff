package ddns_test

import (
	"context"
	"log"
	"os"
	"time"

	ddns "github.com/AhmedDS10/CF-DNS"
)

func ExampleNew() {
	c, err := ddns.New(
		"dynamic-ip.example.com",
		ddns.UsingCloudflare(os.Getenv("CF_API_TOKEN"), os.Getenv("CF_ZONE_ID")),
	)
	if err != nil {
		log.Fatalf("error creating ddns client: %s", err)
	}
	// run one reconciliation cycle:
	err = c.RunDDNS(context.Background())
	if err != nil {
		log.Fatalf("ddns update failed: %s", err)
	}
}

func ExampleUsingWebResolver() {
	// I'm not vouching for these services, but they do return the IP of the client connection.
	// If possible, run your own and provide the URL here instead.
	ddnsClient, err := ddns.New(
		"dynamic-ip.example.com",
		ddns.UsingCloudflare(os.Getenv("CF_API_TOKEN"), os.Getenv("CF_ZONE_ID")),
		ddns.UsingWebResolver(
			"https://checkip.amazonaws.com/",
			"https://icanhazip.com/", // operated by Cloudflare since ~2021
			"https://ipinfo.io/ip",
		),
	)
	if err != nil {
		log.Fatalf("error creating ddns client: %s", err)
	}
	err = ddnsClient.RunDDNS(context.Background())
	if err != nil {
		log.Fatalf("ddns update failed: %s", err)
	}
}

func ExampleRunDaemon() {
	ddnsClient, err := ddns.New("dynamic-ip.example.com",
		ddns.UsingCloudflare(os.Getenv("CF_API_TOKEN"), os.Getenv("CF_ZONE_ID")),
	)
	if err != nil {
		log.Fatalf("error creating ddns client: %s", err)
	}

	// check every 5 minutes and stop after an hour:
	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Hour)
	defer cancel()
	ddns.RunDaemon(ddnsClient, ctx, 5*time.Minute, nil)
	<-ctx.Done()
}

func ExampleResolverFunc() {
	fn := func(ctx context.Context) (ddns.Addr, error) {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(100 * time.Millisecond): // simulating some lookup method
			return ddns.ParseAddr("203.0.113.5")
		}
	}
	ddnsClient, err := ddns.New("dynamic-ip.example.com",
		ddns.UsingCloudflare(os.Getenv("CF_API_TOKEN"), os.Getenv("CF_ZONE_ID")),
		ddns.UsingResolver(ddns.ResolverFunc(fn)),
	)
	if err != nil {
		log.Fatalf("error creating ddns client: %s", err)
	}
	err = ddnsClient.RunDDNS(context.Background())
	if err != nil {
		log.Fatalf("ddns update failed: %s", err)
	}
}
