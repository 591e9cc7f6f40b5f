package wire

import (
	"fmt"
	"net"
)

// RData is the tagged-variant RDATA payload: one concrete type per supported
// record kind, replacing the "polymorphic field of mixed shape" the classic
// implementation used.
type RData interface {
	Type() RRType
	encode(buf []byte) ([]byte, error)
	fmt.Stringer
}

// A is the RDATA of an A record: a raw 4-byte IPv4 address.
type A struct{ Addr [4]byte }

func (A) Type() RRType { return TypeA }
func (r A) String() string {
	return fmt.Sprintf("%d.%d.%d.%d", r.Addr[0], r.Addr[1], r.Addr[2], r.Addr[3])
}
func (r A) encode(buf []byte) ([]byte, error) { return append(buf, r.Addr[:]...), nil }

// NewA builds an A RDATA from a dotted-quad string.
func NewA(dotted string) (A, error) {
	ip := net.ParseIP(dotted)
	if ip == nil {
		return A{}, fmt.Errorf("wire: invalid IPv4 literal %q", dotted)
	}
	v4 := ip.To4()
	if v4 == nil {
		return A{}, fmt.Errorf("wire: %q is not an IPv4 literal", dotted)
	}
	var a A
	copy(a.Addr[:], v4)
	return a, nil
}

// AAAA is the RDATA of an AAAA record: a raw 16-byte IPv6 address.
type AAAA struct{ Addr [16]byte }

func (AAAA) Type() RRType { return TypeAAAA }
func (r AAAA) String() string {
	return net.IP(r.Addr[:]).String()
}
func (r AAAA) encode(buf []byte) ([]byte, error) { return append(buf, r.Addr[:]...), nil }

// NewAAAA builds an AAAA RDATA from IPv6 text (compressed or expanded).
func NewAAAA(text string) (AAAA, error) {
	ip := net.ParseIP(text)
	if ip == nil || ip.To4() != nil {
		return AAAA{}, fmt.Errorf("wire: invalid IPv6 literal %q", text)
	}
	var a AAAA
	copy(a.Addr[:], ip.To16())
	return a, nil
}

// nameRData is shared by NS, CNAME and PTR, whose RDATA is a single
// (possibly compressed, on decode) domain name.
type nameRData struct {
	Name string
	typ  RRType
}

func (n nameRData) Type() RRType   { return n.typ }
func (n nameRData) String() string { return n.Name }
func (n nameRData) encode(buf []byte) ([]byte, error) {
	return EncodeName(buf, n.Name)
}

// NS is the RDATA of an NS record.
type NS struct{ nameRData }

// NewNS builds an NS RDATA, rejecting a name that can't be encoded as
// labels (e.g. one with a label over 63 bytes).
func NewNS(name string) (NS, error) {
	if _, err := EncodeName(nil, name); err != nil {
		return NS{}, err
	}
	return NS{nameRData{Name: name, typ: TypeNS}}, nil
}

// CNAME is the RDATA of a CNAME record.
type CNAME struct{ nameRData }

// NewCNAME builds a CNAME RDATA, rejecting a name that can't be encoded.
func NewCNAME(name string) (CNAME, error) {
	if _, err := EncodeName(nil, name); err != nil {
		return CNAME{}, err
	}
	return CNAME{nameRData{Name: name, typ: TypeCNAME}}, nil
}

// PTR is the RDATA of a PTR record.
type PTR struct{ nameRData }

// NewPTR builds a PTR RDATA, rejecting a name that can't be encoded.
func NewPTR(name string) (PTR, error) {
	if _, err := EncodeName(nil, name); err != nil {
		return PTR{}, err
	}
	return PTR{nameRData{Name: name, typ: TypePTR}}, nil
}

// SOA is the RDATA of an SOA record: two names followed by five 32-bit
// unsigned integers, preserved verbatim per the spec's invariant.
type SOA struct {
	MName   string
	RName   string
	Serial  uint32
	Refresh uint32
	Retry   uint32
	Expire  uint32
	Minimum uint32
}

func (SOA) Type() RRType { return TypeSOA }
func (r SOA) String() string {
	return fmt.Sprintf("%s %s %d %d %d %d %d", r.MName, r.RName, r.Serial, r.Refresh, r.Retry, r.Expire, r.Minimum)
}
func (r SOA) encode(buf []byte) ([]byte, error) {
	var err error
	buf, err = EncodeName(buf, r.MName)
	if err != nil {
		return nil, err
	}
	buf, err = EncodeName(buf, r.RName)
	if err != nil {
		return nil, err
	}
	buf = appendUint32(buf, r.Serial)
	buf = appendUint32(buf, r.Refresh)
	buf = appendUint32(buf, r.Retry)
	buf = appendUint32(buf, r.Expire)
	buf = appendUint32(buf, r.Minimum)
	return buf, nil
}

func appendUint32(buf []byte, v uint32) []byte {
	return append(buf, byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
}

// RawRData is the decode result for a record type outside the supported
// set (§6): the raw RDATA bytes are preserved so the record can still be
// cached and re-encoded, rather than failing the whole message.
type RawRData struct {
	RRType RRType
	Data   []byte
}

func (r RawRData) Type() RRType     { return r.RRType }
func (r RawRData) String() string   { return fmt.Sprintf("\\# %d", len(r.Data)) }
func (r RawRData) encode(buf []byte) ([]byte, error) {
	return append(buf, r.Data...), nil
}

// decodeRData parses the RDATA of a record whose wire-format RDATA bytes
// span d.buf[start:start+rdlength]. NS/CNAME/PTR/SOA names may use
// compression pointers into the rest of the message, so decoding is done
// through d (positioned at start) rather than the isolated rdata slice.
func decodeRData(d *Decoder, typ RRType, rdlength int) (RData, error) {
	start := d.Offset()
	end := start + rdlength
	if end > len(d.buf) {
		return nil, ErrMessageTooShort
	}

	switch typ {
	case TypeA:
		if rdlength != 4 {
			return nil, fmt.Errorf("wire: A rdata must be 4 bytes, got %d", rdlength)
		}
		b, err := d.readBytes(4)
		if err != nil {
			return nil, err
		}
		var a A
		copy(a.Addr[:], b)
		return a, nil

	case TypeAAAA:
		if rdlength != 16 {
			return nil, fmt.Errorf("wire: AAAA rdata must be 16 bytes, got %d", rdlength)
		}
		b, err := d.readBytes(16)
		if err != nil {
			return nil, err
		}
		var a AAAA
		copy(a.Addr[:], b)
		return a, nil

	case TypeNS, TypeCNAME, TypePTR:
		name, err := d.NameLimited(rdlength)
		if err != nil {
			return nil, err
		}
		d.SetOffset(end)
		switch typ {
		case TypeNS:
			return NS{nameRData{Name: name, typ: TypeNS}}, nil
		case TypeCNAME:
			return CNAME{nameRData{Name: name, typ: TypeCNAME}}, nil
		default:
			return PTR{nameRData{Name: name, typ: TypePTR}}, nil
		}

	case TypeSOA:
		mname, err := d.Name()
		if err != nil {
			return nil, err
		}
		rname, err := d.Name()
		if err != nil {
			return nil, err
		}
		serial, err := d.readUint32()
		if err != nil {
			return nil, err
		}
		refresh, err := d.readUint32()
		if err != nil {
			return nil, err
		}
		retry, err := d.readUint32()
		if err != nil {
			return nil, err
		}
		expire, err := d.readUint32()
		if err != nil {
			return nil, err
		}
		minimum, err := d.readUint32()
		if err != nil {
			return nil, err
		}
		if d.Offset() > end {
			return nil, ErrRDataBounds
		}
		d.SetOffset(end)
		return SOA{mname, rname, serial, refresh, retry, expire, minimum}, nil

	default:
		data, err := d.readBytes(rdlength)
		if err != nil {
			return nil, err
		}
		return RawRData{RRType: typ, Data: data}, nil
	}
}
