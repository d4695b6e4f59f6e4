package partitioner

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTokenCompare(t *testing.T) {
	require.Equal(t, 0, Token("abc").Compare(Token("abc")))
	require.Negative(t, Token("abc").Compare(Token("abd")))
	require.Positive(t, Token("b").Compare(Token("abc")))
	require.True(t, MinToken.Less(Token("\x00")))

	// Supplementary-plane runes are surrogate pairs in UTF-16 and order
	// below the top of the BMP.
	require.Negative(t, Token("\U00010000").Compare(Token("�")))
}

func TestDecoratedKeyOrder(t *testing.T) {
	p := NewOrderPreserving()

	a := p.DecorateKey("apple")
	b := p.DecorateKey("banana")
	require.Negative(t, a.Compare(b))
	require.Equal(t, 0, a.Compare(p.DecorateKey("apple")))
}

func TestOrderPreservingBasics(t *testing.T) {
	p := NewOrderPreserving()

	require.True(t, p.PreservesOrder())
	require.Equal(t, MinToken, p.MinimumToken())
	require.Equal(t, Token("key"), p.Token("key"))
	require.NoError(t, p.ValidateToken(Token("anything")))
	require.Error(t, p.ValidateToken(Token([]byte{0xff, 0xfe})))
}

func TestTokenFactoryRoundTrip(t *testing.T) {
	for name, p := range map[string]Partitioner{
		"order_preserving": NewOrderPreserving(),
		"odkl_domain":      NewOdklDomain(),
	} {
		t.Run(name, func(t *testing.T) {
			f := p.TokenFactory()
			for range 100 {
				tok := p.RandomToken()
				require.NoError(t, p.ValidateToken(tok))

				fromString, err := f.FromString(f.ToString(tok))
				require.NoError(t, err)
				require.Equal(t, tok, fromString)

				require.Equal(t, tok, f.FromBytes(f.ToBytes(tok)))
			}
		})
	}
}

func TestMidpoint(t *testing.T) {
	p := NewOrderPreserving()

	t.Run("between neighbors", func(t *testing.T) {
		mid := p.Midpoint(Token("a"), Token("c"))
		require.Equal(t, Token("b"), mid)
	})

	t.Run("odd sum appends half unit", func(t *testing.T) {
		mid := p.Midpoint(Token("a"), Token("b"))
		require.Equal(t, Token("a耀"), mid)
	})

	t.Run("stays inside the interval", func(t *testing.T) {
		cases := [][2]Token{
			{"0000", "8000"},
			{"aa", "ab"},
			{"key1", "key2345"},
		}
		for _, c := range cases {
			mid := p.Midpoint(c[0], c[1])
			require.True(t, c[0].Less(mid), "midpoint(%q,%q)=%q", c[0], c[1], mid)
			require.True(t, mid.Less(c[1]) || mid.Compare(c[1]) == 0)
		}
	})
}

func TestDomainToken(t *testing.T) {
	require.Equal(t, Token("2auser:42"), StringToken(0x2a, "user:42"))

	d, err := DomainOf(Token("ff000"))
	require.NoError(t, err)
	require.Equal(t, byte(0xff), d)

	_, err = DomainOf(Token("g0"))
	require.Error(t, err)
	_, err = DomainOf(Token("a"))
	require.Error(t, err)
}

func TestOdklDomainValidate(t *testing.T) {
	p := NewOdklDomain()

	require.NoError(t, p.ValidateToken(Token("00rest")))
	require.NoError(t, p.ValidateToken(MinToken))
	require.Error(t, p.ValidateToken(Token("zz")))
}

func TestDescribeOwnership(t *testing.T) {
	t.Run("odkl domains split evenly", func(t *testing.T) {
		p := NewOdklDomain()
		sorted := []Token{"00", "40", "80", "c0"}

		ownership := p.DescribeOwnership(sorted)
		require.Len(t, ownership, 4)

		total := 0.0
		for _, frac := range ownership {
			require.InDelta(t, 0.25, frac, 0.02)
			total += frac
		}
		require.InDelta(t, 1.0, total, 1e-9)
	})

	t.Run("empty ring", func(t *testing.T) {
		p := NewOrderPreserving()
		require.Empty(t, p.DescribeOwnership(nil))
	})
}
