package clarity

import (
	"math/big"
	"sort"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"
)

// Type is the one-byte wire prefix of a serialized Clarity value.
type Type byte

const (
	TypeInt               Type = 0x00
	TypeUInt              Type = 0x01
	TypeBuffer            Type = 0x02
	TypeTrue              Type = 0x03
	TypeFalse             Type = 0x04
	TypeStandardPrincipal Type = 0x05
	TypeContractPrincipal Type = 0x06
	TypeResponseOk        Type = 0x07
	TypeResponseErr       Type = 0x08
	TypeNone              Type = 0x09
	TypeSome              Type = 0x0a
	TypeList              Type = 0x0b
	TypeTuple             Type = 0x0c
	TypeStringASCII       Type = 0x0d
	TypeStringUTF8        Type = 0x0e
)

// Value is a decoded Clarity value. String returns the Clarity repr.
type Value interface {
	Type() Type
	String() string
}

// Int is a signed 128-bit integer.
type Int struct {
	V *big.Int
}

// UInt is an unsigned 128-bit integer.
type UInt struct {
	V *uint256.Int
}

type Bool bool

type Buffer []byte

// StandardPrincipal is an account principal: address version plus hash160.
type StandardPrincipal struct {
	Version byte
	Hash160 [20]byte
}

// ContractPrincipal is a contract deployed by Issuer.
type ContractPrincipal struct {
	Issuer StandardPrincipal
	Name   string
}

type ResponseOk struct {
	Inner Value
}

type ResponseErr struct {
	Inner Value
}

type None struct{}

type Some struct {
	Inner Value
}

type List []Value

// Tuple maps field names to values. Field order on the wire is lexicographic.
type Tuple map[string]Value

type StringASCII string

type StringUTF8 string

// NewUInt builds a UInt from a uint64.
func NewUInt(v uint64) UInt {
	return UInt{V: uint256.NewInt(v)}
}

func (Int) Type() Type               { return TypeInt }
func (UInt) Type() Type              { return TypeUInt }
func (Buffer) Type() Type            { return TypeBuffer }
func (StandardPrincipal) Type() Type { return TypeStandardPrincipal }
func (ContractPrincipal) Type() Type { return TypeContractPrincipal }
func (ResponseOk) Type() Type        { return TypeResponseOk }
func (ResponseErr) Type() Type       { return TypeResponseErr }
func (None) Type() Type              { return TypeNone }
func (Some) Type() Type              { return TypeSome }
func (List) Type() Type              { return TypeList }
func (Tuple) Type() Type             { return TypeTuple }
func (StringASCII) Type() Type       { return TypeStringASCII }
func (StringUTF8) Type() Type        { return TypeStringUTF8 }

func (v Int) String() string {
	if v.V == nil {
		return "0"
	}
	return v.V.String()
}

func (v UInt) String() string {
	if v.V == nil {
		return "u0"
	}
	return "u" + v.V.ToBig().String()
}

func (b Bool) Type() Type {
	if b {
		return TypeTrue
	}
	return TypeFalse
}

func (b Bool) String() string { return strconv.FormatBool(bool(b)) }

func (b Buffer) String() string { return hexutil.Encode(b) }

// Address returns the c32check address, e.g. ST33Y8...
func (p StandardPrincipal) Address() string {
	return c32Address(p.Version, p.Hash160[:])
}

func (p StandardPrincipal) String() string { return "'" + p.Address() }

// ID returns the contract identifier in issuer.name form.
func (p ContractPrincipal) ID() string { return p.Issuer.Address() + "." + p.Name }

func (p ContractPrincipal) String() string { return "'" + p.ID() }

func (r ResponseOk) String() string  { return "(ok " + r.Inner.String() + ")" }
func (r ResponseErr) String() string { return "(err " + r.Inner.String() + ")" }
func (None) String() string          { return "none" }
func (s Some) String() string        { return "(some " + s.Inner.String() + ")" }

func (l List) String() string {
	var sb strings.Builder
	sb.WriteString("(list")
	for _, item := range l {
		sb.WriteByte(' ')
		sb.WriteString(item.String())
	}
	sb.WriteByte(')')
	return sb.String()
}

func (t Tuple) String() string {
	var sb strings.Builder
	sb.WriteString("(tuple")
	for _, name := range t.Keys() {
		sb.WriteString(" (")
		sb.WriteString(name)
		sb.WriteByte(' ')
		sb.WriteString(t[name].String())
		sb.WriteByte(')')
	}
	sb.WriteByte(')')
	return sb.String()
}

// Keys returns the field names in wire order.
func (t Tuple) Keys() []string {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (s StringASCII) String() string { return strconv.Quote(string(s)) }
func (s StringUTF8) String() string  { return "u" + strconv.Quote(string(s)) }

// Unwrap strips ok and some wrappers until a non-wrapper value is reached.
// Errors and none are returned as-is so callers can tell them apart.
func Unwrap(v Value) Value {
	for {
		switch w := v.(type) {
		case ResponseOk:
			v = w.Inner
		case Some:
			v = w.Inner
		default:
			return v
		}
	}
}
