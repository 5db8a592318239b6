// Package serialize implements the "variables" byte-blob codec spec.md
// §6 describes: a versioned header followed by a length-prefixed
// sequence of (name, value) pairs, each value recursively tagged, with
// an encoding stable across 32- and 64-bit platforms (everything is
// little-endian fixed-width integers plus explicit-length byte runs,
// never a native int/uint).
//
// New ground relative to the teacher, which never persists state
// across runs; the wire shape (magic + version byte + count + TLV
// records) follows the same "explicit header, explicit lengths, no
// native-width types" discipline internal/unitdb.Cache's SQLite schema
// and database.go's quotes table both already apply to on-disk state.
package serialize

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math/big"

	"github.com/mikecarlton/qcalc/internal/approx"
	"github.com/mikecarlton/qcalc/internal/bignum"
	"github.com/mikecarlton/qcalc/internal/dateutil"
	"github.com/mikecarlton/qcalc/internal/units"
	"github.com/mikecarlton/qcalc/internal/value"
)

const (
	magic        = "QVAR"
	version byte = 1
)

// Value tag bytes.
const (
	tagNumber byte = 0x00
	tagString byte = 0x01
	tagDate   byte = 0x02
)

// Encode serialises frame's bindings (spec.md §6's "opaque serialisation
// of the user scope") into a self-describing byte blob. Bindings whose
// value cannot be round-tripped (lambdas, distributions, built-ins) are
// skipped rather than erroring, since they are reconstructible only
// within the evaluating process's lifetime.
func Encode(frame value.Frame) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(magic)
	buf.WriteByte(version)

	names := make([]string, 0, len(frame))
	for name, v := range frame {
		if _, ok := encodableTag(v); ok {
			names = append(names, name)
		}
	}
	if err := writeUint32(&buf, uint32(len(names))); err != nil {
		return nil, err
	}
	for _, name := range names {
		if err := writeString(&buf, name); err != nil {
			return nil, err
		}
		v := frame[name]
		tag, _ := encodableTag(v)
		buf.WriteByte(tag)
		if err := encodeValue(&buf, tag, v); err != nil {
			return nil, fmt.Errorf("serialize: encoding %q: %w", name, err)
		}
	}
	return buf.Bytes(), nil
}

func encodableTag(v value.Value) (byte, bool) {
	switch v.Kind {
	case value.KindNumber:
		return tagNumber, true
	case value.KindString:
		return tagString, true
	case value.KindDate:
		return tagDate, true
	}
	return 0, false
}

// Decode parses a blob produced by Encode. An empty blob denotes an
// empty scope, per spec.md §6.
func Decode(blob []byte) (value.Frame, error) {
	frame := value.Frame{}
	if len(blob) == 0 {
		return frame, nil
	}
	r := bytes.NewReader(blob)
	magicBuf := make([]byte, len(magic))
	if _, err := r.Read(magicBuf); err != nil || string(magicBuf) != magic {
		return nil, fmt.Errorf("serialize: not a qcalc variables blob")
	}
	ver, err := r.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("serialize: truncated header")
	}
	if ver != version {
		return nil, fmt.Errorf("serialize: unsupported version %d", ver)
	}
	count, err := readUint32(r)
	if err != nil {
		return nil, err
	}
	for i := uint32(0); i < count; i++ {
		name, err := readString(r)
		if err != nil {
			return nil, err
		}
		tag, err := r.ReadByte()
		if err != nil {
			return nil, fmt.Errorf("serialize: truncated record for %q", name)
		}
		v, err := decodeValue(r, tag)
		if err != nil {
			return nil, fmt.Errorf("serialize: decoding %q: %w", name, err)
		}
		frame[name] = v
	}
	return frame, nil
}

func encodeValue(buf *bytes.Buffer, tag byte, v value.Value) error {
	switch tag {
	case tagNumber:
		return encodeNumber(buf, v.Num)
	case tagString:
		return writeString(buf, v.Str)
	case tagDate:
		return encodeDate(buf, v.Date)
	}
	return fmt.Errorf("unsupported tag 0x%02x", tag)
}

func decodeValue(r *bytes.Reader, tag byte) (value.Value, error) {
	switch tag {
	case tagNumber:
		n, err := decodeNumber(r)
		if err != nil {
			return value.Value{}, err
		}
		return value.Value{Kind: value.KindNumber, Num: n}, nil
	case tagString:
		s, err := readString(r)
		if err != nil {
			return value.Value{}, err
		}
		return value.FromString(s), nil
	case tagDate:
		d, err := decodeDate(r)
		if err != nil {
			return value.Value{}, err
		}
		return value.FromDate(d), nil
	}
	return value.Value{}, fmt.Errorf("unsupported tag 0x%02x", tag)
}

func encodeNumber(buf *bytes.Buffer, n *value.Number) error {
	if err := writeRat(buf, n.Magnitude.Re.Rat); err != nil {
		return err
	}
	if err := writeRat(buf, n.Magnitude.Im.Rat); err != nil {
		return err
	}
	if err := writeUnit(buf, n.Unit); err != nil {
		return err
	}
	if err := writeRat(buf, n.Scale); err != nil {
		return err
	}
	hasOffset := byte(0)
	if n.Offset != nil {
		hasOffset = 1
	}
	buf.WriteByte(hasOffset)
	if n.Offset != nil {
		if err := writeRat(buf, n.Offset); err != nil {
			return err
		}
	}
	if err := writeString(buf, n.UnitName); err != nil {
		return err
	}
	if err := writeUint32(buf, uint32(int32(n.BaseHint))); err != nil {
		return err
	}
	return writeUint32(buf, uint32(int32(n.FormatHint)))
}

func decodeNumber(r *bytes.Reader) (*value.Number, error) {
	re, err := readRat(r)
	if err != nil {
		return nil, err
	}
	im, err := readRat(r)
	if err != nil {
		return nil, err
	}
	unit, err := readUnit(r)
	if err != nil {
		return nil, err
	}
	scale, err := readRat(r)
	if err != nil {
		return nil, err
	}
	hasOffset, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	var offset *bignum.BigRat
	if hasOffset == 1 {
		offset, err = readRat(r)
		if err != nil {
			return nil, err
		}
	}
	name, err := readString(r)
	if err != nil {
		return nil, err
	}
	baseHint, err := readUint32(r)
	if err != nil {
		return nil, err
	}
	formatHint, err := readUint32(r)
	if err != nil {
		return nil, err
	}
	mag := &approx.Complex{Re: approx.Exact(re), Im: approx.Exact(im)}
	return &value.Number{
		Magnitude: mag, Unit: unit, Scale: scale, Offset: offset,
		UnitName: name, BaseHint: int(int32(baseHint)), FormatHint: bignum.FormatKind(int32(formatHint)),
	}, nil
}

func encodeDate(buf *bytes.Buffer, d dateutil.Date) error {
	if err := writeUint32(buf, uint32(int32(d.Year))); err != nil {
		return err
	}
	if err := writeUint32(buf, uint32(d.Month)); err != nil {
		return err
	}
	return writeUint32(buf, uint32(d.Day))
}

func decodeDate(r *bytes.Reader) (dateutil.Date, error) {
	year, err := readUint32(r)
	if err != nil {
		return dateutil.Date{}, err
	}
	month, err := readUint32(r)
	if err != nil {
		return dateutil.Date{}, err
	}
	day, err := readUint32(r)
	if err != nil {
		return dateutil.Date{}, err
	}
	return dateutil.Date{Year: int(int32(year)), Month: int(month), Day: int(day)}, nil
}

func writeUnit(buf *bytes.Buffer, u units.Exponents) error {
	if err := writeUint32(buf, uint32(len(u))); err != nil {
		return err
	}
	for base, exp := range u {
		if err := writeString(buf, string(base)); err != nil {
			return err
		}
		if err := writeRat(buf, exp); err != nil {
			return err
		}
	}
	return nil
}

func readUnit(r *bytes.Reader) (units.Exponents, error) {
	n, err := readUint32(r)
	if err != nil {
		return nil, err
	}
	u := make(units.Exponents, n)
	for i := uint32(0); i < n; i++ {
		base, err := readString(r)
		if err != nil {
			return nil, err
		}
		exp, err := readRat(r)
		if err != nil {
			return nil, err
		}
		u[units.BaseUnit(base)] = exp
	}
	return u, nil
}

func writeRat(buf *bytes.Buffer, r *bignum.BigRat) error {
	exact := byte(0)
	if r.Exact {
		exact = 1
	}
	buf.WriteByte(exact)
	if err := writeBigInt(buf, r.Rat.Num()); err != nil {
		return err
	}
	return writeBigInt(buf, r.Rat.Denom())
}

func readRat(r *bytes.Reader) (*bignum.BigRat, error) {
	exactByte, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	num, err := readBigInt(r)
	if err != nil {
		return nil, err
	}
	den, err := readBigInt(r)
	if err != nil {
		return nil, err
	}
	br := &bignum.BigRat{Rat: new(big.Rat).SetFrac(num, den), Exact: exactByte == 1, BaseHint: 10}
	return br, nil
}

func writeBigInt(buf *bytes.Buffer, v *big.Int) error {
	sign := byte(0)
	if v.Sign() < 0 {
		sign = 1
	}
	mag := new(big.Int).Abs(v).Bytes()
	buf.WriteByte(sign)
	if err := writeUint32(buf, uint32(len(mag))); err != nil {
		return err
	}
	buf.Write(mag)
	return nil
}

func readBigInt(r *bytes.Reader) (*big.Int, error) {
	sign, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	n, err := readUint32(r)
	if err != nil {
		return nil, err
	}
	mag := make([]byte, n)
	if _, err := r.Read(mag); err != nil && n > 0 {
		return nil, err
	}
	v := new(big.Int).SetBytes(mag)
	if sign == 1 {
		v.Neg(v)
	}
	return v, nil
}

func writeUint32(buf *bytes.Buffer, v uint32) error {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	_, err := buf.Write(b[:])
	return err
}

func readUint32(r *bytes.Reader) (uint32, error) {
	var b [4]byte
	if _, err := r.Read(b[:]); err != nil {
		return 0, fmt.Errorf("serialize: truncated uint32: %w", err)
	}
	return binary.LittleEndian.Uint32(b[:]), nil
}

func writeString(buf *bytes.Buffer, s string) error {
	if err := writeUint32(buf, uint32(len(s))); err != nil {
		return err
	}
	_, err := buf.WriteString(s)
	return err
}

func readString(r *bytes.Reader) (string, error) {
	n, err := readUint32(r)
	if err != nil {
		return "", err
	}
	b := make([]byte, n)
	if n > 0 {
		if _, err := r.Read(b); err != nil {
			return "", fmt.Errorf("serialize: truncated string: %w", err)
		}
	}
	return string(b), nil
}
