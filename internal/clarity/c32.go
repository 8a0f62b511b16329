package clarity

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"math/big"
	"strings"
)

const c32Alphabet = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

// Address versions used by the Stacks network.
const (
	VersionMainnetSingleSig byte = 22
	VersionMainnetMultiSig  byte = 20
	VersionTestnetSingleSig byte = 26
	VersionTestnetMultiSig  byte = 21
)

func c32Checksum(version byte, data []byte) []byte {
	first := sha256.Sum256(append([]byte{version}, data...))
	second := sha256.Sum256(first[:])
	return second[:4]
}

func c32Address(version byte, hash160 []byte) string {
	payload := append(append([]byte(nil), hash160...), c32Checksum(version, hash160)...)
	return "S" + string(c32Alphabet[version&31]) + c32Encode(payload)
}

// c32Encode is base32 over the big-endian integer, keeping one '0' per leading zero byte.
func c32Encode(data []byte) string {
	zeros := 0
	for zeros < len(data) && data[zeros] == 0 {
		zeros++
	}

	n := new(big.Int).SetBytes(data)
	mod := new(big.Int)
	base := big.NewInt(32)
	var digits []byte
	for n.Sign() > 0 {
		n.DivMod(n, base, mod)
		digits = append(digits, c32Alphabet[mod.Int64()])
	}
	for i := 0; i < zeros; i++ {
		digits = append(digits, '0')
	}
	for i, j := 0, len(digits)-1; i < j; i, j = i+1, j-1 {
		digits[i], digits[j] = digits[j], digits[i]
	}
	return string(digits)
}

func c32Normalize(s string) string {
	s = strings.ToUpper(s)
	s = strings.NewReplacer("O", "0", "L", "1", "I", "1").Replace(s)
	return s
}

func c32Decode(s string) ([]byte, error) {
	s = c32Normalize(s)
	zeros := 0
	for zeros < len(s) && s[zeros] == '0' {
		zeros++
	}

	n := new(big.Int)
	base := big.NewInt(32)
	for i := zeros; i < len(s); i++ {
		idx := strings.IndexByte(c32Alphabet, s[i])
		if idx < 0 {
			return nil, fmt.Errorf("invalid c32 character %q", s[i])
		}
		n.Mul(n, base)
		n.Add(n, big.NewInt(int64(idx)))
	}
	return append(make([]byte, zeros), n.Bytes()...), nil
}

// ParseAddress decodes a c32check address such as ST33Y8RCP74098JCSPW5QHHCD6QN4H3XS9E4PVW1G.
func ParseAddress(addr string) (StandardPrincipal, error) {
	addr = strings.TrimSpace(addr)
	if len(addr) < 3 || (addr[0] != 'S' && addr[0] != 's') {
		return StandardPrincipal{}, fmt.Errorf("invalid address %q: must start with S", addr)
	}
	version := strings.IndexByte(c32Alphabet, c32Normalize(addr[1:2])[0])
	if version < 0 {
		return StandardPrincipal{}, fmt.Errorf("invalid address %q: bad version character", addr)
	}

	payload, err := c32Decode(addr[2:])
	if err != nil {
		return StandardPrincipal{}, fmt.Errorf("invalid address %q: %w", addr, err)
	}
	if len(payload) > 24 {
		return StandardPrincipal{}, fmt.Errorf("invalid address %q: payload too long", addr)
	}
	if len(payload) < 24 {
		payload = append(make([]byte, 24-len(payload)), payload...)
	}

	hash, checksum := payload[:20], payload[20:]
	if !bytes.Equal(checksum, c32Checksum(byte(version), hash)) {
		return StandardPrincipal{}, fmt.Errorf("invalid address %q: checksum mismatch", addr)
	}

	p := StandardPrincipal{Version: byte(version)}
	copy(p.Hash160[:], hash)
	return p, nil
}

// ParsePrincipal accepts either an address or an address.contract-name identifier.
func ParsePrincipal(s string) (Value, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "'")
	addr, name, isContract := strings.Cut(s, ".")
	issuer, err := ParseAddress(addr)
	if err != nil {
		return nil, err
	}
	if !isContract {
		return issuer, nil
	}
	if name == "" || len(name) > 128 {
		return nil, fmt.Errorf("invalid contract name %q", name)
	}
	return ContractPrincipal{Issuer: issuer, Name: name}, nil
}
