package clarity

import (
	"encoding/binary"
	"fmt"
	"math/big"
	"strings"
	"unicode/utf8"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"
)

// maxDepth bounds nesting of lists, tuples and wrappers.
const maxDepth = 64

// DecodeError reports a malformed serialized value.
type DecodeError struct {
	Offset int
	Reason string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("clarity decode at offset %d: %s", e.Offset, e.Reason)
}

// DecodeHex decodes a hex-encoded value, with or without the 0x prefix.
func DecodeHex(s string) (Value, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		s = "0x" + s
	}
	raw, err := hexutil.Decode(s)
	if err != nil {
		return nil, &DecodeError{Reason: fmt.Sprintf("invalid hex: %v", err)}
	}
	return Decode(raw)
}

// Decode parses exactly one serialized value. Trailing bytes are an error.
func Decode(data []byte) (Value, error) {
	d := &decoder{data: data}
	v, err := d.value(0)
	if err != nil {
		return nil, err
	}
	if d.pos != len(d.data) {
		return nil, d.fail("%d trailing bytes", len(d.data)-d.pos)
	}
	return v, nil
}

type decoder struct {
	data []byte
	pos  int
}

func (d *decoder) fail(format string, args ...interface{}) error {
	return &DecodeError{Offset: d.pos, Reason: fmt.Sprintf(format, args...)}
}

func (d *decoder) take(n int) ([]byte, error) {
	if n < 0 || len(d.data)-d.pos < n {
		return nil, d.fail("need %d bytes, have %d", n, len(d.data)-d.pos)
	}
	b := d.data[d.pos : d.pos+n]
	d.pos += n
	return b, nil
}

func (d *decoder) u8() (byte, error) {
	b, err := d.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (d *decoder) u32() (int, error) {
	b, err := d.take(4)
	if err != nil {
		return 0, err
	}
	n := binary.BigEndian.Uint32(b)
	if int64(n) > int64(len(d.data)-d.pos) {
		return 0, d.fail("length %d exceeds remaining %d bytes", n, len(d.data)-d.pos)
	}
	return int(n), nil
}

func (d *decoder) value(depth int) (Value, error) {
	if depth > maxDepth {
		return nil, d.fail("nesting deeper than %d", maxDepth)
	}
	tag, err := d.u8()
	if err != nil {
		return nil, err
	}

	switch Type(tag) {
	case TypeInt:
		b, err := d.take(16)
		if err != nil {
			return nil, err
		}
		v := new(big.Int).SetBytes(b)
		if b[0]&0x80 != 0 {
			v.Sub(v, new(big.Int).Lsh(big.NewInt(1), 128))
		}
		return Int{V: v}, nil
	case TypeUInt:
		b, err := d.take(16)
		if err != nil {
			return nil, err
		}
		return UInt{V: new(uint256.Int).SetBytes(b)}, nil
	case TypeBuffer:
		n, err := d.u32()
		if err != nil {
			return nil, err
		}
		b, err := d.take(n)
		if err != nil {
			return nil, err
		}
		return Buffer(append([]byte(nil), b...)), nil
	case TypeTrue:
		return Bool(true), nil
	case TypeFalse:
		return Bool(false), nil
	case TypeStandardPrincipal:
		return d.standardPrincipal()
	case TypeContractPrincipal:
		issuer, err := d.standardPrincipal()
		if err != nil {
			return nil, err
		}
		name, err := d.name()
		if err != nil {
			return nil, err
		}
		return ContractPrincipal{Issuer: issuer, Name: name}, nil
	case TypeResponseOk, TypeResponseErr, TypeSome:
		inner, err := d.value(depth + 1)
		if err != nil {
			return nil, err
		}
		switch Type(tag) {
		case TypeResponseOk:
			return ResponseOk{Inner: inner}, nil
		case TypeResponseErr:
			return ResponseErr{Inner: inner}, nil
		default:
			return Some{Inner: inner}, nil
		}
	case TypeNone:
		return None{}, nil
	case TypeList:
		n, err := d.u32()
		if err != nil {
			return nil, err
		}
		items := make(List, 0, n)
		for i := 0; i < n; i++ {
			item, err := d.value(depth + 1)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		return items, nil
	case TypeTuple:
		n, err := d.u32()
		if err != nil {
			return nil, err
		}
		tuple := make(Tuple, n)
		for i := 0; i < n; i++ {
			name, err := d.name()
			if err != nil {
				return nil, err
			}
			if _, dup := tuple[name]; dup {
				return nil, d.fail("duplicate tuple field %q", name)
			}
			field, err := d.value(depth + 1)
			if err != nil {
				return nil, err
			}
			tuple[name] = field
		}
		return tuple, nil
	case TypeStringASCII:
		s, err := d.str()
		if err != nil {
			return nil, err
		}
		for i := 0; i < len(s); i++ {
			if s[i] > 0x7f {
				return nil, d.fail("non-ascii byte in string-ascii")
			}
		}
		return StringASCII(s), nil
	case TypeStringUTF8:
		s, err := d.str()
		if err != nil {
			return nil, err
		}
		if !utf8.ValidString(s) {
			return nil, d.fail("invalid utf-8 in string-utf8")
		}
		return StringUTF8(s), nil
	default:
		d.pos--
		return nil, d.fail("unknown type prefix 0x%02x", tag)
	}
}

func (d *decoder) standardPrincipal() (StandardPrincipal, error) {
	version, err := d.u8()
	if err != nil {
		return StandardPrincipal{}, err
	}
	if version > 31 {
		return StandardPrincipal{}, d.fail("address version %d out of range", version)
	}
	hash, err := d.take(20)
	if err != nil {
		return StandardPrincipal{}, err
	}
	p := StandardPrincipal{Version: version}
	copy(p.Hash160[:], hash)
	return p, nil
}

// name reads a one-byte length-prefixed contract or field name.
func (d *decoder) name() (string, error) {
	n, err := d.u8()
	if err != nil {
		return "", err
	}
	b, err := d.take(int(n))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (d *decoder) str() (string, error) {
	n, err := d.u32()
	if err != nil {
		return "", err
	}
	b, err := d.take(n)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
