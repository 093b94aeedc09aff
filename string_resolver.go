package ddns

import "context"

// FromString constructs a resolver that parses an IP from the string addr.
func FromString(addr string) (Resolver, error) {
	return stringResolver(addr), nil
}

type stringResolver string

func (s stringResolver) Resolve(context.Context) (Addr, error) {
	return ParseAddr(string(s))
}
