package ddns

import (
	"context"
	"fmt"

	"github.com/cloudflare/cloudflare-go"
)

func newCloudflareProvider(token string, zoneID string, opts ...cloudflare.Option) (cf *cloudflareProvider, err error) {
	cf = new(cloudflareProvider)
	cf.api, err = cloudflare.NewWithAPIToken(token, opts...)
	if err != nil {
		return nil, fmt.Errorf("error creating cloudflare api client: %w", err)
	}
	cf.zone = cloudflare.ZoneIdentifier(zoneID)
	cf.logger = discard
	return cf, nil
}

// cloudflareProvider implements ddns.Provider against the Cloudflare v4 API.
type cloudflareProvider struct {
	api    *cloudflare.API
	zone   *cloudflare.ResourceContainer
	logger Logger
}

// FetchRecord implements ddns.Provider.
//
// Cloudflare may return several records under the same name
// (an A and an AAAA, for instance); the first in response order is used.
func (cf *cloudflareProvider) FetchRecord(ctx context.Context, name string) (Record, error) {
	records, _, err := cf.api.ListDNSRecords(ctx, cf.zone, cloudflare.ListDNSRecordsParams{
		Name: name,
	})
	if err != nil {
		return Record{}, fmt.Errorf("error listing DNS records for %s: %w", name, err)
	}
	cf.logger.Printf("found %d records matching %s", len(records), name)
	if len(records) == 0 {
		return Record{}, fmt.Errorf("%w: %s", ErrRecordNotFound, name)
	}

	r := records[0]
	record := Record{
		ID:      r.ID,
		Type:    r.Type,
		Name:    r.Name,
		Content: r.Content,
		TTL:     r.TTL,
		Comment: r.Comment,
	}
	if r.Proxied != nil {
		record.Proxied = *r.Proxied
	}
	// Fall back to provider defaults when the fetched record omits fields.
	// TTL 1 is Cloudflare's sentinel for "automatic".
	if record.Type == "" {
		record.Type = "A"
	}
	if record.TTL == 0 {
		record.TTL = 1
	}
	return record, nil
}

// UpdateRecord implements ddns.Provider.
// The full record representation is sent even though only the content changed,
// because the Cloudflare API replaces the record wholesale on PUT.
func (cf *cloudflareProvider) UpdateRecord(ctx context.Context, record Record) error {
	proxied := record.Proxied
	// Comment is resent too: the params marshal it unconditionally,
	// so leaving it unset would clear any comment on the record.
	_, err := cf.api.UpdateDNSRecord(ctx, cf.zone, cloudflare.UpdateDNSRecordParams{
		ID:      record.ID,
		Type:    record.Type,
		Name:    record.Name,
		Content: record.Content,
		TTL:     record.TTL,
		Proxied: &proxied,
		Comment: record.Comment,
	})
	if err != nil {
		return fmt.Errorf("error updating DNS record %s: %w", record.ID, err)
	}
	return nil
}
