// Package hints loads the root server hint file (the "named.root" style
// master file distributed by IANA) and seeds the resolver's cache and
// starting nameserver list from it.
package hints

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/dnsscience/dnswalker/internal/cache"
	"github.com/dnsscience/dnswalker/internal/wire"
)

// RootServers holds the addresses to seed an iterative resolution with,
// split by address family.
type RootServers struct {
	V4 []string
	V6 []string
}

// Load reads a root hints file at path, inserts every A, AAAA and NS record
// it contains into c (other types are skipped), and returns the IPv4/IPv6 addresses of the servers named by its
// NS records so the resolver has somewhere to start.
//
// The file format is one record per non-blank, non-comment line:
//
//	<name> <ttl> <type> <rdata>
//
// matching the shape IANA publishes for named.root. Lines that don't split
// into exactly four whitespace-separated fields, or whose comment marker
// (";") starts the line, are skipped rather than treated as a fatal error —
// the hint file is allowed to carry free-text banner comments.
func Load(path string, c *cache.Cache) (RootServers, error) {
	f, err := os.Open(path)
	if err != nil {
		return RootServers{}, fmt.Errorf("open hints file: %w", err)
	}
	defer f.Close()

	nsNames := make(map[string]bool)

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, ";") || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) != 4 {
			continue
		}

		name := wire.Sanitize(fields[0])
		ttl, err := strconv.ParseUint(fields[1], 10, 32)
		if err != nil {
			continue
		}
		typ, ok := wire.ParseType(fields[2])
		if !ok {
			continue
		}
		rdata := fields[3]

		rr, err := buildRecord(name, typ, uint32(ttl), rdata)
		if err != nil {
			continue
		}
		c.Insert(rr)

		if typ == wire.TypeNS {
			if ns, ok := rr.RData.(wire.NS); ok {
				nsNames[wire.Sanitize(ns.Name)] = true
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return RootServers{}, fmt.Errorf("scan hints file: %w", err)
	}

	var roots RootServers
	for name := range nsNames {
		for _, rr := range c.Lookup(name, wire.TypeA) {
			if a, ok := rr.RData.(wire.A); ok {
				roots.V4 = append(roots.V4, a.String())
			}
		}
		for _, rr := range c.Lookup(name, wire.TypeAAAA) {
			if aaaa, ok := rr.RData.(wire.AAAA); ok {
				roots.V6 = append(roots.V6, aaaa.String())
			}
		}
	}

	if len(roots.V4) == 0 && len(roots.V6) == 0 {
		return roots, fmt.Errorf("hints file %s named no resolvable root servers", path)
	}
	return roots, nil
}

func buildRecord(name string, typ wire.RRType, ttl uint32, rdata string) (wire.Record, error) {
	var rd wire.RData
	var err error

	switch typ {
	case wire.TypeA:
		rd, err = wire.NewA(rdata)
	case wire.TypeAAAA:
		rd, err = wire.NewAAAA(rdata)
	case wire.TypeNS:
		rd, err = wire.NewNS(rdata)
	default:
		return wire.Record{}, fmt.Errorf("unsupported hint record type %s", typ)
	}
	if err != nil {
		return wire.Record{}, err
	}

	return wire.Record{Name: name, Type: typ, Class: wire.ClassIN, TTL: ttl, RData: rd}, nil
}
