package config

import (
	"fmt"
	"net/netip"
	"strings"
)

// ParsePrefixes parses IP addresses and CIDR ranges into prefixes.
//
// A single address becomes a /32 (IPv4) or /128 (IPv6) prefix. Blank entries
// are skipped. Any invalid entry fails the whole list so a typo cannot
// silently widen or narrow what is trusted.
//
// Example:
//
//	prefixes, err := ParsePrefixes([]string{"10.0.0.0/8", "192.168.1.1", "2001:db8::/32"})
func ParsePrefixes(values []string) ([]netip.Prefix, error) {
	prefixes := make([]netip.Prefix, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}

		prefix, err := netip.ParsePrefix(v)
		if err != nil {
			addr, addrErr := netip.ParseAddr(v)
			if addrErr != nil {
				return nil, fmt.Errorf("invalid IP or CIDR format '%s': must be valid IP address or CIDR notation (e.g., '192.168.1.1' or '10.0.0.0/8')", v)
			}
			prefix = netip.PrefixFrom(addr, addr.BitLen())
		}
		prefixes = append(prefixes, prefix.Masked())
	}
	return prefixes, nil
}
