/*
Package ddns keeps a DNS record pointed at the host's current public IPv4 address.

Usage will always start with [New],
which returns the DDNSClient implementation.
New requires the name of the DNS record to keep updated and a [Provider]
implementation for a DNS provider.
Additional client configuration options are listed in the docs for New.

A cycle only contacts the DNS provider when the resolved address differs
from the cached one. The fetch-then-update against the remote record is a
read-modify-write with no concurrency guard; a racing edit by another
client between the two calls can be silently overwritten.
*/
package ddns
