package wire

import (
	"encoding/binary"
	"strings"
)

const (
	maxLabelLength  = 63
	maxDomainLength = 255
	// maxPointerHops bounds the number of compression jumps a single name
	// may take; combined with the backwards-only pointer rule this makes an
	// infinite loop impossible, but the bound still exists as a cheap
	// circuit breaker against pathological chains.
	maxPointerHops = 128
)

// Decoder is an explicit read cursor over a DNS message buffer. Modeling the
// cursor this way (rather than a package-level or receiver-mutated offset
// threaded invisibly through nested calls) keeps decode state local and
// inspectable, per the "hidden mutable state during decoding" rework.
type Decoder struct {
	buf []byte
	off int
}

// NewDecoder creates a Decoder positioned at the start of buf.
func NewDecoder(buf []byte) *Decoder {
	return &Decoder{buf: buf}
}

// Offset returns the current read position.
func (d *Decoder) Offset() int { return d.off }

// SetOffset repositions the cursor, e.g. to resume after an RDATA decode
// that used a bounded name read.
func (d *Decoder) SetOffset(off int) { d.off = off }

// Remaining returns the number of unread bytes.
func (d *Decoder) Remaining() int { return len(d.buf) - d.off }

func (d *Decoder) readUint16() (uint16, error) {
	if d.Remaining() < 2 {
		return 0, ErrMessageTooShort
	}
	v := binary.BigEndian.Uint16(d.buf[d.off : d.off+2])
	d.off += 2
	return v, nil
}

func (d *Decoder) readUint32() (uint32, error) {
	if d.Remaining() < 4 {
		return 0, ErrMessageTooShort
	}
	v := binary.BigEndian.Uint32(d.buf[d.off : d.off+4])
	d.off += 4
	return v, nil
}

func (d *Decoder) readBytes(n int) ([]byte, error) {
	if d.Remaining() < n {
		return nil, ErrMessageTooShort
	}
	b := make([]byte, n)
	copy(b, d.buf[d.off:d.off+n])
	d.off += n
	return b, nil
}

// Name decodes a domain name starting at the cursor, following compression
// pointers as needed, and advances the cursor past the bytes consumed at
// the *current* position (a pointer counts as its two bytes; the labels it
// points to do not advance the cursor, since they live elsewhere in the
// message).
func (d *Decoder) Name() (string, error) {
	return d.name(-1)
}

// NameLimited decodes a name the same way as Name, but additionally bounds
// how many bytes may be consumed from the current position before a
// terminator or pointer is seen. It exists for fixed-length RDATA (bounded
// by RDLENGTH) that embeds a compressed name.
func (d *Decoder) NameLimited(limit int) (string, error) {
	return d.name(limit)
}

func (d *Decoder) name(limit int) (string, error) {
	var labels []string
	origOffset := d.off
	offset := d.off
	jumped := false
	hops := 0
	consumedAtOrigin := 0

	for {
		if offset >= len(d.buf) {
			return "", ErrInvalidPointer
		}

		b := d.buf[offset]

		// Compression pointer: top two bits set.
		if b&0xC0 == 0xC0 {
			if offset+1 >= len(d.buf) {
				return "", ErrMessageTooShort
			}
			if !jumped {
				consumedAtOrigin += 2
				if limit >= 0 && consumedAtOrigin > limit {
					return "", ErrRDataBounds
				}
			}

			ptr := int(binary.BigEndian.Uint16(d.buf[offset:offset+2]) & 0x3FFF)

			// Pointers must strictly go backwards: this, combined with the
			// hop counter, makes a cycle structurally impossible.
			if ptr >= origOffset {
				return "", ErrInvalidPointer
			}

			hops++
			if hops > maxPointerHops {
				return "", ErrCompressionLoop
			}

			if !jumped {
				d.off = offset + 2
				jumped = true
			}
			offset = ptr
			origOffset = offset // tighten the backwards bound for the next hop
			continue
		}

		// Root label (terminator).
		if b == 0 {
			if !jumped {
				consumedAtOrigin++
				if limit >= 0 && consumedAtOrigin > limit {
					return "", ErrRDataBounds
				}
				d.off = offset + 1
			}
			break
		}

		length := int(b)
		if length > maxLabelLength {
			return "", ErrLabelTooLong
		}

		if !jumped {
			consumedAtOrigin += length + 1
			if limit >= 0 && consumedAtOrigin > limit {
				return "", ErrRDataBounds
			}
		}

		offset++
		if offset+length > len(d.buf) {
			return "", ErrMessageTooShort
		}
		labels = append(labels, string(d.buf[offset:offset+length]))
		offset += length
	}

	if len(labels) == 0 {
		return ".", nil
	}

	name := strings.Join(labels, ".") + "."
	if len(name) > maxDomainLength {
		return "", ErrNameTooLong
	}
	return name, nil
}

// EncodeName appends the wire form of name (dot-separated labels, trailing
// dot optional) to buf. The encoder never compresses output, so names are
// always written in full label form (spec-mandated, matches the classic
// implementation's encoder behavior).
func EncodeName(buf []byte, name string) ([]byte, error) {
	name = strings.TrimSuffix(name, ".")
	if name == "" {
		return append(buf, 0), nil
	}

	total := 0
	for _, label := range strings.Split(name, ".") {
		if len(label) == 0 {
			continue
		}
		if len(label) > maxLabelLength {
			return nil, ErrLabelTooLong
		}
		buf = append(buf, byte(len(label)))
		buf = append(buf, label...)
		total += len(label) + 1
	}
	buf = append(buf, 0)
	if total+1 > maxDomainLength {
		return nil, ErrNameTooLong
	}
	return buf, nil
}

// Sanitize reduces a name to its canonical cache-key form: lowercased, all
// leading/trailing dots stripped, then a single trailing dot appended.
func Sanitize(name string) string {
	name = strings.ToLower(name)
	name = strings.Trim(name, ".")
	if name == "" {
		return "."
	}
	return name + "."
}
