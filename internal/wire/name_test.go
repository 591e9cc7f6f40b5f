package wire

import "testing"

func TestEncodeDecodeNameSimple(t *testing.T) {
	buf, err := EncodeName(nil, "example.com")
	if err != nil {
		t.Fatalf("EncodeName() error: %v", err)
	}

	d := NewDecoder(buf)
	name, err := d.Name()
	if err != nil {
		t.Fatalf("Name() error: %v", err)
	}
	if name != "example.com." {
		t.Errorf("name = %q, want %q", name, "example.com.")
	}
	if d.Offset() != len(buf) {
		t.Errorf("offset = %d, want %d", d.Offset(), len(buf))
	}
}

func TestEncodeDecodeNameTrailingDot(t *testing.T) {
	a, err := EncodeName(nil, "example.com.")
	if err != nil {
		t.Fatal(err)
	}
	b, err := EncodeName(nil, "example.com")
	if err != nil {
		t.Fatal(err)
	}
	if string(a) != string(b) {
		t.Errorf("trailing dot should not change wire form: % x vs % x", a, b)
	}
}

func TestEncodeDecodeRootName(t *testing.T) {
	buf, err := EncodeName(nil, ".")
	if err != nil {
		t.Fatal(err)
	}
	if len(buf) != 1 || buf[0] != 0 {
		t.Fatalf("root name should encode to a single zero byte, got % x", buf)
	}

	d := NewDecoder(buf)
	name, err := d.Name()
	if err != nil {
		t.Fatal(err)
	}
	if name != "." {
		t.Errorf("name = %q, want \".\"", name)
	}
}

func TestDecodeNameWithPointer(t *testing.T) {
	// "example.com" at offset 12, then a second name at a later offset
	// pointing back to it.
	msg := []byte{}
	msg = append(msg, make([]byte, 12)...) // fake header region
	exampleComOffset := len(msg)
	var err error
	msg, err = EncodeName(msg, "example.com")
	if err != nil {
		t.Fatal(err)
	}

	wwwOffset := len(msg)
	msg = append(msg, 3, 'w', 'w', 'w')
	msg = append(msg, 0xC0, byte(exampleComOffset))

	d := NewDecoder(msg)
	d.SetOffset(wwwOffset)
	name, err := d.Name()
	if err != nil {
		t.Fatalf("Name() error: %v", err)
	}
	if name != "www.example.com." {
		t.Errorf("name = %q, want www.example.com.", name)
	}
	// Pointer bytes count as two; the pointed-to bytes don't advance cursor.
	if want := wwwOffset + 4 + 2; d.Offset() != want {
		t.Errorf("offset = %d, want %d", d.Offset(), want)
	}
}

func TestDecodeNameForwardPointerRejected(t *testing.T) {
	msg := make([]byte, 14)
	msg[12] = 0xC0
	msg[13] = 0x20 // points forward, past the message

	d := NewDecoder(msg)
	d.SetOffset(12)
	if _, err := d.Name(); err == nil {
		t.Fatal("expected error for forward-pointing compression pointer")
	}
}

func TestDecodeNameLabelTooLong(t *testing.T) {
	msg := append([]byte{64}, make([]byte, 64)...)
	d := NewDecoder(msg)
	if _, err := d.Name(); err != ErrLabelTooLong {
		t.Errorf("err = %v, want ErrLabelTooLong", err)
	}
}

func TestNameLimitedBounds(t *testing.T) {
	buf, _ := EncodeName(nil, "toolong.example.com")
	d := NewDecoder(buf)
	if _, err := d.NameLimited(3); err != ErrRDataBounds {
		t.Errorf("err = %v, want ErrRDataBounds", err)
	}
}

func TestSanitize(t *testing.T) {
	cases := map[string]string{
		"Example.COM":  "example.com.",
		"example.com.": "example.com.",
		"...":          ".",
		"":              ".",
	}
	for in, want := range cases {
		if got := Sanitize(in); got != want {
			t.Errorf("Sanitize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSanitizeIdempotent(t *testing.T) {
	for _, in := range []string{"Example.COM", "a.b.c.", "ROOT."} {
		once := Sanitize(in)
		twice := Sanitize(once)
		if once != twice {
			t.Errorf("Sanitize not idempotent for %q: %q vs %q", in, once, twice)
		}
	}
}
