package ddns

import "errors"

var (
	// ErrNoAddressResolved is returned when no IP echo endpoint produced a usable address.
	ErrNoAddressResolved = errors.New("no IP echo endpoint returned a valid address")

	// ErrRecordNotFound is returned when the provider holds no record under the configured name.
	ErrRecordNotFound = errors.New("DNS record not found")
)
