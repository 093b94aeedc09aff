package ddns

import "context"

// Resolver determines the host's current public IPv4 address.
type Resolver interface {
	Resolve(context.Context) (Addr, error)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(context.Context) (Addr, error)

func (f ResolverFunc) Resolve(ctx context.Context) (Addr, error) {
	return f(ctx)
}

// Provider is a DNS provider that can look up and rewrite a single record.
type Provider interface {
	// FetchRecord returns the record matching name.
	// If the provider holds several records under the same name,
	// the first in response order is used.
	FetchRecord(ctx context.Context, name string) (Record, error)

	// UpdateRecord replaces the remote record with the given representation.
	// Providers typically require the full record even for a content-only change.
	UpdateRecord(ctx context.Context, record Record) error
}

// Cache is a single-slot store for the last confirmed address.
type Cache interface {
	// Load returns the cached address.
	// A missing cache is reported as found == false with a nil error.
	Load() (addr Addr, found bool, err error)
	Store(Addr) error
}

// Record is a DNS record as held by the provider.
type Record struct {
	ID      string
	Type    string
	Name    string
	Content string
	TTL     int
	Proxied bool
	Comment string
}
