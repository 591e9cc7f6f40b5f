// Package wire implements the DNS message wire format: header bit-field
// packing, domain-name label encoding with pointer compression, and
// per-record-type RDATA handling for the supported record kinds (RFC 1035,
// with the AD/CD bits of RFC 2535).
package wire

import "fmt"

// RRType is a DNS query/record type, using the on-the-wire integer values.
type RRType uint16

const (
	TypeA     RRType = 1
	TypeNS    RRType = 2
	TypeCNAME RRType = 5
	TypeSOA   RRType = 6
	TypePTR   RRType = 12
	TypeAAAA  RRType = 28
)

var typeNames = map[RRType]string{
	TypeA:     "A",
	TypeNS:    "NS",
	TypeCNAME: "CNAME",
	TypeSOA:   "SOA",
	TypePTR:   "PTR",
	TypeAAAA:  "AAAA",
}

func (t RRType) String() string {
	if n, ok := typeNames[t]; ok {
		return n
	}
	return fmt.Sprintf("TYPE%d", uint16(t))
}

// ParseType maps a case-insensitive type mnemonic to its RRType. Only the
// supported types are known: an unknown mnemonic and a real but unsupported
// type (e.g. MX) both return ok=false.
func ParseType(s string) (RRType, bool) {
	for t, n := range typeNames {
		if len(n) == len(s) && equalFold(n, s) {
			return t, true
		}
	}
	return 0, false
}

func equalFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if 'A' <= ca && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if 'A' <= cb && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}

// Class is a DNS record class. Only IN is supported.
type Class uint16

const ClassIN Class = 1

func (c Class) String() string {
	if c == ClassIN {
		return "IN"
	}
	return fmt.Sprintf("CLASS%d", uint16(c))
}

// Opcode is the DNS header OPCODE sub-field.
type Opcode uint8

const (
	OpcodeQuery  Opcode = 0
	OpcodeIQuery Opcode = 1
	OpcodeStatus Opcode = 2
)

// Rcode is the DNS header RCODE sub-field.
type Rcode uint8

const (
	RcodeNoError        Rcode = 0
	RcodeFormatError    Rcode = 1
	RcodeServerFailure  Rcode = 2
	RcodeNameError      Rcode = 3
	RcodeNotImplemented Rcode = 4
	RcodeRefused        Rcode = 5
)

var rcodeNames = map[Rcode]string{
	RcodeNoError:        "NOERROR",
	RcodeFormatError:    "FORMERR",
	RcodeServerFailure:  "SERVFAIL",
	RcodeNameError:      "NXDOMAIN",
	RcodeNotImplemented: "NOTIMP",
	RcodeRefused:        "REFUSED",
}

func (r Rcode) String() string {
	if n, ok := rcodeNames[r]; ok {
		return n
	}
	return fmt.Sprintf("RCODE%d", uint8(r))
}
