package clarity

import (
	"encoding/binary"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"
)

var (
	maxInt128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1))
	minInt128 = new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 127))
	twoTo128  = new(big.Int).Lsh(big.NewInt(1), 128)
)

// EncodeUInt serializes v as a uint: tag 0x01 and 16 big-endian bytes.
func EncodeUInt(v *uint256.Int) ([]byte, error) {
	if v == nil {
		v = new(uint256.Int)
	}
	if v.BitLen() > 128 {
		return nil, fmt.Errorf("uint %s exceeds 128 bits", v.ToBig())
	}
	full := v.Bytes32()
	out := make([]byte, 0, 17)
	out = append(out, byte(TypeUInt))
	return append(out, full[16:]...), nil
}

// EncodeUIntHex returns the 0x-prefixed serialization of a uint64 argument.
func EncodeUIntHex(v uint64) string {
	b, _ := EncodeUInt(uint256.NewInt(v))
	return hexutil.Encode(b)
}

// Encode serializes any value. Tuple fields are written in lexicographic order.
func Encode(v Value) ([]byte, error) {
	var out []byte
	if err := appendValue(&out, v); err != nil {
		return nil, err
	}
	return out, nil
}

// EncodeHex serializes v and returns it 0x-prefixed.
func EncodeHex(v Value) (string, error) {
	b, err := Encode(v)
	if err != nil {
		return "", err
	}
	return hexutil.Encode(b), nil
}

func appendValue(out *[]byte, v Value) error {
	switch val := v.(type) {
	case Int:
		n := val.V
		if n == nil {
			n = new(big.Int)
		}
		if n.Cmp(maxInt128) > 0 || n.Cmp(minInt128) < 0 {
			return fmt.Errorf("int %s out of 128-bit range", n)
		}
		if n.Sign() < 0 {
			n = new(big.Int).Add(n, twoTo128)
		}
		var buf [16]byte
		n.FillBytes(buf[:])
		*out = append(*out, byte(TypeInt))
		*out = append(*out, buf[:]...)
	case UInt:
		b, err := EncodeUInt(val.V)
		if err != nil {
			return err
		}
		*out = append(*out, b...)
	case Bool:
		*out = append(*out, byte(val.Type()))
	case Buffer:
		*out = append(*out, byte(TypeBuffer))
		*out = appendLen(*out, len(val))
		*out = append(*out, val...)
	case StandardPrincipal:
		*out = append(*out, byte(TypeStandardPrincipal), val.Version)
		*out = append(*out, val.Hash160[:]...)
	case ContractPrincipal:
		if len(val.Name) > 128 {
			return fmt.Errorf("contract name %q too long", val.Name)
		}
		*out = append(*out, byte(TypeContractPrincipal), val.Issuer.Version)
		*out = append(*out, val.Issuer.Hash160[:]...)
		*out = append(*out, byte(len(val.Name)))
		*out = append(*out, val.Name...)
	case ResponseOk:
		*out = append(*out, byte(TypeResponseOk))
		return appendValue(out, val.Inner)
	case ResponseErr:
		*out = append(*out, byte(TypeResponseErr))
		return appendValue(out, val.Inner)
	case None:
		*out = append(*out, byte(TypeNone))
	case Some:
		*out = append(*out, byte(TypeSome))
		return appendValue(out, val.Inner)
	case List:
		*out = append(*out, byte(TypeList))
		*out = appendLen(*out, len(val))
		for _, item := range val {
			if err := appendValue(out, item); err != nil {
				return err
			}
		}
	case Tuple:
		*out = append(*out, byte(TypeTuple))
		*out = appendLen(*out, len(val))
		for _, name := range val.Keys() {
			if len(name) > 128 {
				return fmt.Errorf("tuple field %q too long", name)
			}
			*out = append(*out, byte(len(name)))
			*out = append(*out, name...)
			if err := appendValue(out, val[name]); err != nil {
				return err
			}
		}
	case StringASCII:
		*out = append(*out, byte(TypeStringASCII))
		*out = appendLen(*out, len(val))
		*out = append(*out, string(val)...)
	case StringUTF8:
		*out = append(*out, byte(TypeStringUTF8))
		*out = appendLen(*out, len(val))
		*out = append(*out, string(val)...)
	default:
		return fmt.Errorf("unsupported value %T", v)
	}
	return nil
}

func appendLen(out []byte, n int) []byte {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], uint32(n))
	return append(out, buf[:]...)
}
