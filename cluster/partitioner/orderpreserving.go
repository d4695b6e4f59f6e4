package partitioner

import (
	"fmt"
	"math/big"
	"math/rand"
	"unicode/utf16"
	"unicode/utf8"
)

// OrderPreserving is the plain order-preserving partitioner: the token of a
// key is the key itself.
type OrderPreserving struct{}

// NewOrderPreserving constructs the plain order-preserving partitioner.
func NewOrderPreserving() *OrderPreserving { return &OrderPreserving{} }

func (p *OrderPreserving) DecorateKey(key string) DecoratedKey {
	return DecoratedKey{Token: Token(key), Key: key}
}

func (p *OrderPreserving) Token(key string) Token { return Token(key) }

func (p *OrderPreserving) MinimumToken() Token { return MinToken }

const randomTokenAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

func (p *OrderPreserving) RandomToken() Token {
	buf := make([]byte, 16)
	for i := range buf {
		buf[i] = randomTokenAlphabet[rand.Intn(len(randomTokenAlphabet))]
	}
	return Token(buf)
}

func (p *OrderPreserving) Midpoint(left, right Token) Token {
	return midpoint(left, right)
}

func (p *OrderPreserving) PreservesOrder() bool { return true }

func (p *OrderPreserving) ValidateToken(t Token) error {
	if !utf8.ValidString(string(t)) {
		return fmt.Errorf("token is not valid UTF-8")
	}
	return nil
}

func (p *OrderPreserving) DescribeOwnership(sorted []Token) map[Token]float64 {
	// Sample the single-unit prefix space below the surrogate block; keys
	// beginning with rarer prefixes contribute to the arc they land in.
	const sampleCount = 4096
	samples := make([]Token, 0, sampleCount)
	for i := range sampleCount {
		unit := uint16(uint64(i) * 0xD800 / sampleCount)
		samples = append(samples, Token(utf16.Decode([]uint16{unit})))
	}
	return ownershipFromSamples(sorted, samples)
}

func (p *OrderPreserving) TokenFactory() TokenFactory { return utf8TokenFactory{} }

// utf8TokenFactory serializes tokens as their UTF-8 bytes.
type utf8TokenFactory struct{}

func (utf8TokenFactory) ToBytes(t Token) []byte   { return []byte(t) }
func (utf8TokenFactory) FromBytes(b []byte) Token { return Token(b) }
func (utf8TokenFactory) ToString(t Token) string  { return string(t) }

func (utf8TokenFactory) FromString(s string) (Token, error) {
	if !utf8.ValidString(s) {
		return MinToken, fmt.Errorf("token string is not valid UTF-8")
	}
	return Token(s), nil
}

// midpoint averages two tokens interpreted as unsigned big integers packed
// from 16-bit code units, left-aligned to the longer of the two. A remainder
// appends a half code unit (0x8000) to the result.
func midpoint(left, right Token) Token {
	ul := utf16.Encode([]rune(string(left)))
	ur := utf16.Encode([]rune(string(right)))

	n := max(len(ul), len(ur))
	sum := new(big.Int).Add(packUnits(ul, n), packUnits(ur, n))

	odd := sum.Bit(0) == 1
	mid := sum.Rsh(sum, 1)

	units := unpackUnits(mid, n)
	if odd {
		units = append(units, 0x8000)
	}

	// Lone UTF-16 surrogates cannot survive a Go string round-trip; nudge
	// any such unit just below the surrogate block.
	for i, u := range units {
		if u >= 0xD800 && u <= 0xDFFF {
			units[i] = 0xD7FF
		}
	}

	return Token(utf16.Decode(units))
}

func packUnits(units []uint16, n int) *big.Int {
	v := new(big.Int)
	for i := range n {
		v.Lsh(v, 16)
		if i < len(units) {
			v.Or(v, big.NewInt(int64(units[i])))
		}
	}
	return v
}

func unpackUnits(v *big.Int, n int) []uint16 {
	units := make([]uint16, n)
	tmp := new(big.Int).Set(v)
	mask := big.NewInt(0xFFFF)
	for i := n - 1; i >= 0; i-- {
		units[i] = uint16(new(big.Int).And(tmp, mask).Uint64())
		tmp.Rsh(tmp, 16)
	}
	return units
}
