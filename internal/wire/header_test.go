package wire

import "testing"

func TestHeaderEncodeQuery(t *testing.T) {
	h := Header{
		ID:      0x1234,
		QR:      false,
		Opcode:  OpcodeQuery,
		RD:      true,
		QDCount: 1,
	}

	got := h.Encode(nil)
	want := []byte{0x12, 0x34, 0x01, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}
	if string(got) != string(want) {
		t.Errorf("Encode() = % x, want % x", got, want)
	}
}

func TestHeaderDecodeResponse(t *testing.T) {
	buf := []byte{0x12, 0x34, 0x81, 0x80, 0x00, 0x01, 0x00, 0x02, 0x00, 0x00, 0x00, 0x00}

	h, err := DecodeHeader(buf)
	if err != nil {
		t.Fatalf("DecodeHeader() error: %v", err)
	}

	if h.ID != 0x1234 {
		t.Errorf("ID = %#x, want 0x1234", h.ID)
	}
	if !h.QR {
		t.Error("QR should be true (RESPONSE)")
	}
	if !h.RD {
		t.Error("RD should be true")
	}
	if !h.RA {
		t.Error("RA should be true")
	}
	if h.Rcode != RcodeNoError {
		t.Errorf("Rcode = %d, want NoError", h.Rcode)
	}
	if h.QDCount != 1 {
		t.Errorf("QDCount = %d, want 1", h.QDCount)
	}
	if h.ANCount != 2 {
		t.Errorf("ANCount = %d, want 2", h.ANCount)
	}
}

func TestHeaderRoundTrip(t *testing.T) {
	h := Header{
		ID: 0xBEEF, QR: true, Opcode: OpcodeStatus, AA: true, TC: false,
		RD: true, RA: true, Z: false, AD: true, CD: true, Rcode: RcodeRefused,
		QDCount: 1, ANCount: 2, NSCount: 3, ARCount: 4,
	}

	buf := h.Encode(nil)
	got, err := DecodeHeader(buf)
	if err != nil {
		t.Fatalf("DecodeHeader() error: %v", err)
	}
	if got != h {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, h)
	}
}

func TestDecodeHeaderTooShort(t *testing.T) {
	_, err := DecodeHeader([]byte{0x01, 0x02})
	if err != ErrMessageTooShort {
		t.Errorf("err = %v, want ErrMessageTooShort", err)
	}
}
