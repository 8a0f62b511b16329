package clarity

import (
	"errors"
	"math/big"
	"reflect"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"
)

func maxUInt128() *uint256.Int {
	v := new(uint256.Int).Lsh(uint256.NewInt(1), 128)
	return v.Sub(v, uint256.NewInt(1))
}

func TestEncodeUIntRoundTrip(t *testing.T) {
	values := []*uint256.Int{
		uint256.NewInt(0),
		uint256.NewInt(1),
		uint256.NewInt(5),
		uint256.NewInt(1 << 63),
		new(uint256.Int).Lsh(uint256.NewInt(1), 100),
		maxUInt128(),
	}

	for _, want := range values {
		encoded, err := EncodeUInt(want)
		if err != nil {
			t.Fatalf("encode %s: %v", want.ToBig(), err)
		}
		if len(encoded) != 17 || encoded[0] != 0x01 {
			t.Fatalf("unexpected encoding for %s: %x", want.ToBig(), encoded)
		}

		decoded, err := Decode(encoded)
		if err != nil {
			t.Fatalf("decode %x: %v", encoded, err)
		}
		got, ok := decoded.(UInt)
		if !ok {
			t.Fatalf("decoded type mismatch: %T", decoded)
		}
		if !got.V.Eq(want) {
			t.Fatalf("round-trip mismatch: %s != %s", got.V.ToBig(), want.ToBig())
		}
	}
}

func TestEncodeUIntRejectsWideValues(t *testing.T) {
	tooBig := new(uint256.Int).Lsh(uint256.NewInt(1), 128)
	if _, err := EncodeUInt(tooBig); err == nil {
		t.Fatalf("expected error for 2^128")
	}
}

func TestEncodeUIntHex(t *testing.T) {
	if got := EncodeUIntHex(3); got != "0x0100000000000000000000000000000003" {
		t.Fatalf("unexpected hex: %s", got)
	}
}

func TestDecodeCount(t *testing.T) {
	cases := []struct {
		in   string
		want uint64
	}{
		{"0x0701000000000000000000000000000005", 5},
		{"0x070100000000000000000000000000000005", 5},
		{"0x0701000000000000000000000000000000ff", 255},
		{"0x07010000000000000000000000000000000000", 0},
	}
	for _, tc := range cases {
		got, err := DecodeCount(tc.in)
		if err != nil {
			t.Fatalf("decode %s: %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("decode %s: got %d want %d", tc.in, got, tc.want)
		}
	}
}

func TestDecodeCountInvalid(t *testing.T) {
	for _, in := range []string{"0x0701", "0x0701zz", "0x0701010000000000000000", "0x0801"} {
		_, err := DecodeCount(in)
		var decErr *DecodeError
		if !errors.As(err, &decErr) {
			t.Fatalf("expected DecodeError for %q, got %v", in, err)
		}
	}
}

func TestDecodeCountFallsBackToFullDecoder(t *testing.T) {
	raw, err := Encode(NewUInt(42))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := DecodeCount(hexutil.Encode(raw))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != 42 {
		t.Fatalf("count mismatch: %d", got)
	}

	errResult, _ := EncodeHex(ResponseErr{Inner: NewUInt(1)})
	if _, err := DecodeCount(errResult); err == nil {
		t.Fatalf("expected error for (err u1)")
	}
}

func TestDecodeUnknownPrefix(t *testing.T) {
	_, err := Decode([]byte{0x0f, 0x00})
	var decErr *DecodeError
	if !errors.As(err, &decErr) {
		t.Fatalf("expected DecodeError, got %v", err)
	}
	if decErr.Offset != 0 || !strings.Contains(decErr.Reason, "0x0f") {
		t.Fatalf("unexpected error: %+v", decErr)
	}

	// The inner prefix is checked after unwrapping ok.
	_, err = Decode([]byte{0x07, 0x10})
	if !errors.As(err, &decErr) || decErr.Offset != 1 {
		t.Fatalf("expected DecodeError at offset 1, got %v", err)
	}
}

func TestDecodeTruncatedAndTrailing(t *testing.T) {
	if _, err := Decode([]byte{0x01, 0x00, 0x00}); err == nil {
		t.Fatalf("expected error for truncated uint")
	}
	if _, err := Decode([]byte{0x03, 0x03}); err == nil {
		t.Fatalf("expected error for trailing bytes")
	}
	if _, err := Decode([]byte{0x0e, 0xff, 0xff, 0xff, 0xff}); err == nil {
		t.Fatalf("expected error for oversized length")
	}
}

func TestTupleRoundTrip(t *testing.T) {
	creator := StandardPrincipal{Version: VersionTestnetSingleSig}
	for i := range creator.Hash160 {
		creator.Hash160[i] = byte(i + 1)
	}

	poll := Tuple{
		"creator":     creator,
		"title":       StringUTF8("Vote A"),
		"description": StringASCII("plain"),
		"yes-votes":   NewUInt(10),
		"no-votes":    NewUInt(3),
		"end-block":   NewUInt(150000),
		"is-active":   Bool(true),
		"tags":        List{Buffer{0xde, 0xad}, None{}},
		"owner":       ContractPrincipal{Issuer: creator, Name: "vote"},
	}
	original := ResponseOk{Inner: Some{Inner: poll}}

	encoded, err := Encode(original)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded, err := Decode(encoded)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !reflect.DeepEqual(decoded, original) {
		t.Fatalf("round-trip mismatch: %s != %s", decoded, original)
	}

	tuple, ok := Unwrap(decoded).(Tuple)
	if !ok {
		t.Fatalf("unwrap type mismatch: %T", Unwrap(decoded))
	}
	if tuple["title"] != StringUTF8("Vote A") {
		t.Fatalf("title mismatch: %v", tuple["title"])
	}
}

func TestIntEncoding(t *testing.T) {
	for _, n := range []int64{0, 7, -5, -1 << 40} {
		encoded, err := Encode(Int{V: big.NewInt(n)})
		if err != nil {
			t.Fatalf("encode %d: %v", n, err)
		}
		decoded, err := Decode(encoded)
		if err != nil {
			t.Fatalf("decode %d: %v", n, err)
		}
		if decoded.String() != big.NewInt(n).String() {
			t.Fatalf("int mismatch: %s != %d", decoded, n)
		}
	}
}

func TestRepr(t *testing.T) {
	v := ResponseOk{Inner: Tuple{
		"title":     StringUTF8("hi"),
		"yes-votes": NewUInt(2),
		"is-active": Bool(false),
		"next":      None{},
	}}
	want := `(ok (tuple (is-active false) (next none) (title u"hi") (yes-votes u2)))`
	if got := v.String(); got != want {
		t.Fatalf("repr mismatch:\n got %s\nwant %s", got, want)
	}
}

func TestAddressRoundTrip(t *testing.T) {
	hashes := [][20]byte{
		{},
		{0x00, 0x01, 0x02},
		{0xff, 0xee, 0xdd, 0xcc, 0xbb, 0xaa, 0x99, 0x88, 0x77, 0x66, 0x55, 0x44, 0x33, 0x22, 0x11, 0x00, 0x01, 0x02, 0x03, 0x04},
	}
	for _, hash := range hashes {
		p := StandardPrincipal{Version: VersionTestnetSingleSig, Hash160: hash}
		addr := p.Address()
		if !strings.HasPrefix(addr, "ST") {
			t.Fatalf("testnet address should start with ST: %s", addr)
		}
		parsed, err := ParseAddress(addr)
		if err != nil {
			t.Fatalf("parse %s: %v", addr, err)
		}
		if parsed != p {
			t.Fatalf("address round-trip mismatch: %+v != %+v", parsed, p)
		}
	}

	mainnet := StandardPrincipal{Version: VersionMainnetSingleSig, Hash160: hashes[2]}
	if !strings.HasPrefix(mainnet.Address(), "SP") {
		t.Fatalf("mainnet address should start with SP: %s", mainnet.Address())
	}
}

func TestParseAddressChecksum(t *testing.T) {
	p := StandardPrincipal{Version: VersionTestnetSingleSig, Hash160: [20]byte{9, 8, 7}}
	addr := p.Address()
	last := addr[len(addr)-1]
	replacement := byte('1')
	if last == '1' {
		replacement = '2'
	}
	tampered := addr[:len(addr)-1] + string(replacement)
	if _, err := ParseAddress(tampered); err == nil {
		t.Fatalf("expected checksum error for %s", tampered)
	}
}

func TestParsePrincipalContract(t *testing.T) {
	issuer := StandardPrincipal{Version: VersionTestnetSingleSig, Hash160: [20]byte{1}}
	v, err := ParsePrincipal(issuer.Address() + ".Blackadam-vote-contract")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	cp, ok := v.(ContractPrincipal)
	if !ok {
		t.Fatalf("type mismatch: %T", v)
	}
	if cp.Name != "Blackadam-vote-contract" || cp.Issuer != issuer {
		t.Fatalf("contract principal mismatch: %+v", cp)
	}
}
