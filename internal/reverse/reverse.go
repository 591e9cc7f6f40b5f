// Package reverse builds the in-addr.arpa / ip6.arpa query names used for
// PTR lookups from ordinary IP literals.
package reverse

import (
	"fmt"
	"net/netip"
	"strings"
)

// Name returns the PTR query name for an IPv4 or IPv6 literal, dispatching
// to the appropriate address-family encoding.
func Name(literal string) (string, error) {
	addr, err := netip.ParseAddr(literal)
	if err != nil {
		return "", fmt.Errorf("reverse: %q is not an IP literal: %w", literal, err)
	}
	if addr.Is4() || addr.Is4In6() {
		return v4Name(addr), nil
	}
	return v6Name(addr), nil
}

// v4Name formats the classic dotted-quad-reversed in-addr.arpa name, e.g.
// 8.8.8.8 -> 8.8.8.8.in-addr.arpa.
func v4Name(addr netip.Addr) string {
	b := addr.As4()
	return fmt.Sprintf("%d.%d.%d.%d.in-addr.arpa.", b[3], b[2], b[1], b[0])
}

// v6Name formats the nibble-reversed ip6.arpa name: every hex nibble of the
// 128-bit address, reversed, dot-separated.
func v6Name(addr netip.Addr) string {
	b := addr.As16()
	var nibbles []string
	for i := len(b) - 1; i >= 0; i-- {
		hi := b[i] >> 4
		lo := b[i] & 0x0F
		nibbles = append(nibbles, fmt.Sprintf("%x", lo), fmt.Sprintf("%x", hi))
	}
	return strings.Join(nibbles, ".") + ".ip6.arpa."
}
