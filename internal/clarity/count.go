package clarity

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// okUIntPrefix is the serialized (ok u...) prefix returned by counter getters.
const okUIntPrefix = "0x0701"

// DecodeCount parses a read-only call result holding a counter.
//
// Results starting with 0x0701 have the prefix stripped and the remaining hex read as a
// big-endian magnitude of any length. Anything else goes through the full decoder and
// must unwrap to a uint.
func DecodeCount(result string) (uint64, error) {
	result = strings.TrimSpace(result)
	if !strings.HasPrefix(strings.ToLower(result), okUIntPrefix) {
		return decodeWrappedCount(result)
	}

	digits := result[len(okUIntPrefix):]
	if digits == "" {
		return 0, &DecodeError{Offset: 2, Reason: "missing uint magnitude"}
	}
	if len(digits)%2 == 1 {
		digits = "0" + digits
	}
	raw, err := hexutil.Decode("0x" + digits)
	if err != nil {
		return 0, &DecodeError{Offset: 2, Reason: fmt.Sprintf("invalid hex: %v", err)}
	}

	for len(raw) > 0 && raw[0] == 0 {
		raw = raw[1:]
	}
	if len(raw) > 8 {
		return 0, &DecodeError{Offset: 2, Reason: "count does not fit in uint64"}
	}
	var n uint64
	for _, b := range raw {
		n = n<<8 | uint64(b)
	}
	return n, nil
}

func decodeWrappedCount(result string) (uint64, error) {
	v, err := DecodeHex(result)
	if err != nil {
		return 0, err
	}
	switch inner := Unwrap(v).(type) {
	case UInt:
		if inner.V == nil {
			return 0, nil
		}
		if !inner.V.IsUint64() {
			return 0, &DecodeError{Reason: "count does not fit in uint64"}
		}
		return inner.V.Uint64(), nil
	case ResponseErr:
		return 0, &DecodeError{Reason: "contract returned " + inner.String()}
	default:
		return 0, &DecodeError{Reason: fmt.Sprintf("expected uint, got %s", v)}
	}
}
