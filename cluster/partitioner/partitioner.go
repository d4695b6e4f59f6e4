package partitioner

// Partitioner derives ring positions from row keys.
type Partitioner interface {
	// DecorateKey binds a row key to its ring position.
	DecorateKey(key string) DecoratedKey
	// Token returns the ring position of a row key.
	Token(key string) Token
	// MinimumToken returns the smallest possible token.
	MinimumToken() Token
	// RandomToken returns a token drawn uniformly from the token space.
	// Intended for test fixtures; production token selection goes through
	// the balancer.
	RandomToken() Token
	// Midpoint returns a token halfway between the two given tokens.
	Midpoint(left, right Token) Token
	// PreservesOrder reports whether token order follows key order.
	PreservesOrder() bool
	// ValidateToken rejects tokens that cannot occur in this token space.
	ValidateToken(t Token) error
	// DescribeOwnership estimates the fraction of the ring owned by each
	// token of the sorted token vector. The result is unspecified for an
	// empty ring.
	DescribeOwnership(sorted []Token) map[Token]float64
	// TokenFactory returns the codec for this partitioner's tokens.
	TokenFactory() TokenFactory
}

// TokenFactory converts tokens to and from their transportable forms.
type TokenFactory interface {
	ToBytes(t Token) []byte
	FromBytes(b []byte) Token
	ToString(t Token) string
	FromString(s string) (Token, error)
}

// ownershipFromSamples attributes each sample token to the arc
// (sorted[i-1], sorted[i]] that contains it and normalizes the per-arc
// counts to fractions.
func ownershipFromSamples(sorted []Token, samples []Token) map[Token]float64 {
	ownership := make(map[Token]float64, len(sorted))
	if len(sorted) == 0 {
		return ownership
	}

	counts := make([]int, len(sorted))
	for _, sample := range samples {
		counts[firstTokenIndex(sorted, sample)]++
	}

	total := float64(len(samples))
	for i, t := range sorted {
		ownership[t] = float64(counts[i]) / total
	}
	return ownership
}

// firstTokenIndex returns the index of the smallest token >= key, wrapping
// to 0 past the end of the vector.
func firstTokenIndex(sorted []Token, key Token) int {
	lo, hi := 0, len(sorted)
	for lo < hi {
		mid := (lo + hi) / 2
		if sorted[mid].Less(key) {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo == len(sorted) {
		return 0
	}
	return lo
}
