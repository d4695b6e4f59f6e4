package partitioner

import (
	"fmt"
	"math/rand"
)

// OdklDomain is the domain-sharded order-preserving partitioner. The first
// two characters of every key are a hexadecimal domain byte (0..255), which
// carves the ring into 256 shards and keeps rows of one domain together.
type OdklDomain struct {
	inner OrderPreserving
}

// NewOdklDomain constructs the domain-sharded partitioner.
func NewOdklDomain() *OdklDomain { return &OdklDomain{} }

// StringToken builds a token for a key within the given domain by prepending
// the hex-encoded domain byte.
func StringToken(domain byte, key string) Token {
	return Token(fmt.Sprintf("%02x%s", domain, key))
}

// DomainOf extracts the domain byte from a token's two-character hex prefix.
func DomainOf(t Token) (byte, error) {
	if len(t) < 2 {
		return 0, fmt.Errorf("token %q is shorter than a domain prefix", string(t))
	}
	hi, ok1 := hexNibble(t[0])
	lo, ok2 := hexNibble(t[1])
	if !ok1 || !ok2 {
		return 0, fmt.Errorf("token %q does not start with a hex domain", string(t))
	}
	return hi<<4 | lo, nil
}

func hexNibble(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

func (p *OdklDomain) DecorateKey(key string) DecoratedKey {
	return DecoratedKey{Token: Token(key), Key: key}
}

func (p *OdklDomain) Token(key string) Token { return Token(key) }

func (p *OdklDomain) MinimumToken() Token { return MinToken }

func (p *OdklDomain) RandomToken() Token {
	return StringToken(byte(rand.Intn(256)), string(p.inner.RandomToken()))
}

func (p *OdklDomain) Midpoint(left, right Token) Token {
	return midpoint(left, right)
}

func (p *OdklDomain) PreservesOrder() bool { return true }

func (p *OdklDomain) ValidateToken(t Token) error {
	if err := p.inner.ValidateToken(t); err != nil {
		return err
	}
	if t == MinToken {
		return nil
	}
	if _, err := DomainOf(t); err != nil {
		return err
	}
	return nil
}

// DescribeOwnership samples split points uniformly across all 256 domains
// and attributes each to the arc containing it.
func (p *OdklDomain) DescribeOwnership(sorted []Token) map[Token]float64 {
	const splitsPerDomain = 16
	samples := make([]Token, 0, 256*splitsPerDomain)
	for domain := range 256 {
		for s := range splitsPerDomain {
			samples = append(samples, StringToken(byte(domain), fmt.Sprintf("%04x", s<<12)))
		}
	}
	return ownershipFromSamples(sorted, samples)
}

func (p *OdklDomain) TokenFactory() TokenFactory { return utf8TokenFactory{} }
