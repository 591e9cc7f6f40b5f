package wire

import "testing"

func TestARoundTrip(t *testing.T) {
	a, err := NewA("93.184.216.34")
	if err != nil {
		t.Fatal(err)
	}
	if a.String() != "93.184.216.34" {
		t.Errorf("String() = %q", a.String())
	}

	buf, err := a.encode(nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(buf) != 4 {
		t.Fatalf("encoded A rdata len = %d, want 4", len(buf))
	}
}

func TestAInvalidLiteral(t *testing.T) {
	if _, err := NewA("not-an-ip"); err == nil {
		t.Fatal("expected error for invalid A literal")
	}
	if _, err := NewA("::1"); err == nil {
		t.Fatal("expected error for IPv6 literal passed to NewA")
	}
}

func TestAAAARoundTrip(t *testing.T) {
	aaaa, err := NewAAAA("2001:4860:4860::8888")
	if err != nil {
		t.Fatal(err)
	}
	if aaaa.String() != "2001:4860:4860::8888" {
		t.Errorf("String() = %q, want compressed canonical form", aaaa.String())
	}
}

func TestDecodeRDataA(t *testing.T) {
	msg := make([]byte, 12)
	msg = append(msg, 8, 8, 8, 8)
	d := NewDecoder(msg)
	d.SetOffset(12)

	rd, err := decodeRData(d, TypeA, 4)
	if err != nil {
		t.Fatalf("decodeRData() error: %v", err)
	}
	a, ok := rd.(A)
	if !ok {
		t.Fatalf("got %T, want A", rd)
	}
	if a.String() != "8.8.8.8" {
		t.Errorf("rdata = %q, want 8.8.8.8", a.String())
	}
}

func TestDecodeRDataCompressedName(t *testing.T) {
	msg := make([]byte, 12)
	nsNameOffset := len(msg)
	var err error
	msg, err = EncodeName(msg, "a.gtld-servers.net")
	if err != nil {
		t.Fatal(err)
	}

	rdataStart := len(msg)
	msg = append(msg, 0xC0, byte(nsNameOffset)) // pointer into the name above

	d := NewDecoder(msg)
	d.SetOffset(rdataStart)
	rd, err := decodeRData(d, TypeNS, 2)
	if err != nil {
		t.Fatalf("decodeRData() error: %v", err)
	}
	ns, ok := rd.(NS)
	if !ok {
		t.Fatalf("got %T, want NS", rd)
	}
	if ns.Name != "a.gtld-servers.net." {
		t.Errorf("ns.Name = %q", ns.Name)
	}
	if d.Offset() != rdataStart+2 {
		t.Errorf("offset after rdata = %d, want %d", d.Offset(), rdataStart+2)
	}
}

func TestSOARoundTrip(t *testing.T) {
	soa := SOA{
		MName: "ns1.example.com.", RName: "hostmaster.example.com.",
		Serial: 2024010101, Refresh: 7200, Retry: 3600, Expire: 1209600, Minimum: 3600,
	}
	buf, err := soa.encode(nil)
	if err != nil {
		t.Fatal(err)
	}

	d := NewDecoder(buf)
	rd, err := decodeRData(d, TypeSOA, len(buf))
	if err != nil {
		t.Fatalf("decodeRData() error: %v", err)
	}
	got, ok := rd.(SOA)
	if !ok {
		t.Fatalf("got %T, want SOA", rd)
	}
	if got != soa {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, soa)
	}
}

func TestDecodeRDataUnknownTypePreservesRaw(t *testing.T) {
	msg := make([]byte, 12)
	msg = append(msg, 1, 2, 3, 4, 5)
	d := NewDecoder(msg)
	d.SetOffset(12)

	rd, err := decodeRData(d, RRType(99), 5)
	if err != nil {
		t.Fatalf("decodeRData() error: %v", err)
	}
	raw, ok := rd.(RawRData)
	if !ok {
		t.Fatalf("got %T, want RawRData", rd)
	}
	if len(raw.Data) != 5 {
		t.Errorf("raw data len = %d, want 5", len(raw.Data))
	}
}
