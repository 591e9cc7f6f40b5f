package wire

import "fmt"

// Question is a single entry of a message's question section.
type Question struct {
	Name  string
	Type  RRType
	Class Class
}

// Record is a single resource record, as stored both in the cache and in a
// message's answer/authority/additional sections. CreatedAt is process-local
// bookkeeping (used for TTL-on-read expiry) and is intentionally excluded
// from Equal, matching the spec's cache dedup semantics.
type Record struct {
	Name      string
	Type      RRType
	Class     Class
	TTL       uint32
	RData     RData
	CreatedAt int64 // unix seconds; 0 if not cache-tracked
}

// Equal reports structural equality: name, type, class, ttl and rdata, but
// not CreatedAt.
func (r Record) Equal(o Record) bool {
	return r.Name == o.Name &&
		r.Type == o.Type &&
		r.Class == o.Class &&
		r.TTL == o.TTL &&
		r.RData.String() == o.RData.String()
}

// Message is a full DNS message: header plus the four ordered record
// vectors. The zero value has empty (nil) sections, making "no records" the
// unambiguous default rather than a source-language mutable-default-arg
// pitfall.
type Message struct {
	Header     Header
	Question   []Question
	Answer     []Record
	Authority  []Record
	Additional []Record
}

// Encode serializes m to wire format. The header's count fields are
// recomputed from the section lengths, enforcing the spec's invariant that
// they always agree. Encoding never compresses names.
func (m Message) Encode() ([]byte, error) {
	m.Header.QDCount = uint16(len(m.Question))
	m.Header.ANCount = uint16(len(m.Answer))
	m.Header.NSCount = uint16(len(m.Authority))
	m.Header.ARCount = uint16(len(m.Additional))

	buf := make([]byte, 0, 512)
	buf = m.Header.Encode(buf)

	for _, q := range m.Question {
		var err error
		buf, err = EncodeName(buf, q.Name)
		if err != nil {
			return nil, fmt.Errorf("encode question %q: %w", q.Name, err)
		}
		buf = appendUint16(buf, uint16(q.Type))
		buf = appendUint16(buf, uint16(q.Class))
	}

	for _, section := range [][]Record{m.Answer, m.Authority, m.Additional} {
		var err error
		buf, err = encodeRecords(buf, section)
		if err != nil {
			return nil, err
		}
	}

	return buf, nil
}

func encodeRecords(buf []byte, records []Record) ([]byte, error) {
	for _, rr := range records {
		var err error
		buf, err = EncodeName(buf, rr.Name)
		if err != nil {
			return nil, fmt.Errorf("encode record %q: %w", rr.Name, err)
		}
		buf = appendUint16(buf, uint16(rr.Type))
		buf = appendUint16(buf, uint16(rr.Class))
		buf = appendUint32(buf, rr.TTL)

		rdataStart := len(buf)
		buf = append(buf, 0, 0) // RDLENGTH placeholder
		var err2 error
		buf, err2 = rr.RData.encode(buf)
		if err2 != nil {
			return nil, fmt.Errorf("encode rdata for %q: %w", rr.Name, err2)
		}
		rdlen := len(buf) - rdataStart - 2
		buf[rdataStart] = byte(rdlen >> 8)
		buf[rdataStart+1] = byte(rdlen)
	}
	return buf, nil
}

func appendUint16(buf []byte, v uint16) []byte {
	return append(buf, byte(v>>8), byte(v))
}

// Decode parses a complete DNS message from buf.
func Decode(buf []byte) (Message, error) {
	var m Message

	d := NewDecoder(buf)
	header, err := DecodeHeader(buf)
	if err != nil {
		return Message{}, err
	}
	m.Header = header
	d.SetOffset(HeaderSize)

	m.Question = make([]Question, 0, header.QDCount)
	for i := 0; i < int(header.QDCount); i++ {
		q, err := decodeQuestion(d)
		if err != nil {
			return Message{}, fmt.Errorf("decode question %d: %w", i, err)
		}
		m.Question = append(m.Question, q)
	}

	if m.Answer, err = decodeRecords(d, int(header.ANCount)); err != nil {
		return Message{}, fmt.Errorf("decode answer section: %w", err)
	}
	if m.Authority, err = decodeRecords(d, int(header.NSCount)); err != nil {
		return Message{}, fmt.Errorf("decode authority section: %w", err)
	}
	if m.Additional, err = decodeRecords(d, int(header.ARCount)); err != nil {
		return Message{}, fmt.Errorf("decode additional section: %w", err)
	}

	return m, nil
}

func decodeQuestion(d *Decoder) (Question, error) {
	name, err := d.Name()
	if err != nil {
		return Question{}, err
	}
	typ, err := d.readUint16()
	if err != nil {
		return Question{}, err
	}
	class, err := d.readUint16()
	if err != nil {
		return Question{}, err
	}
	return Question{Name: name, Type: RRType(typ), Class: Class(class)}, nil
}

func decodeRecords(d *Decoder, count int) ([]Record, error) {
	if count == 0 {
		return nil, nil
	}
	records := make([]Record, 0, count)
	for i := 0; i < count; i++ {
		rr, err := decodeRecord(d)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		records = append(records, rr)
	}
	return records, nil
}

func decodeRecord(d *Decoder) (Record, error) {
	name, err := d.Name()
	if err != nil {
		return Record{}, err
	}
	typ, err := d.readUint16()
	if err != nil {
		return Record{}, err
	}
	class, err := d.readUint16()
	if err != nil {
		return Record{}, err
	}
	ttl, err := d.readUint32()
	if err != nil {
		return Record{}, err
	}
	rdlength, err := d.readUint16()
	if err != nil {
		return Record{}, err
	}

	rdata, err := decodeRData(d, RRType(typ), int(rdlength))
	if err != nil {
		return Record{}, fmt.Errorf("rdata: %w", err)
	}

	return Record{
		Name:  name,
		Type:  RRType(typ),
		Class: Class(class),
		TTL:   ttl,
		RData: rdata,
	}, nil
}
