package ddns

import (
	"fmt"
	"regexp"
	"strings"
)

// Addr is an IPv4 address in dotted-quad text form.
//
// Validation is purely syntactic: four groups of one to three digits.
// Octet ranges are not checked, so a string like "999.999.999.999"
// passes — matching the behavior of the IP echo contract,
// which only promises a dotted-quad shaped body.
type Addr string

var dottedQuad = regexp.MustCompile(`^\d{1,3}(\.\d{1,3}){3}$`)

// ParseAddr trims surrounding whitespace from s and validates it
// against the dotted-quad pattern.
func ParseAddr(s string) (Addr, error) {
	s = strings.TrimSpace(s)
	if !dottedQuad.MatchString(s) {
		return "", fmt.Errorf("%q is not a dotted-quad IPv4 address", s)
	}
	return Addr(s), nil
}

func (a Addr) String() string { return string(a) }
