// Package bloom implements the double-hashing Bloom filter used on the read
// path to avoid touching storage for keys a replica has never seen.
package bloom

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"unicode/utf16"

	"github.com/spaolacci/murmur3"

	"github.com/ringstore-platform/ringstore/common/go/bitset"
)

// excessBits pads the bucket count so that the filter never degenerates for
// tiny element counts.
const excessBits = 20

// maxBucketsPerElement is the largest supported bucket density.
const maxBucketsPerElement = 20

// optHashCount[b] is the hash count minimizing the false-positive rate at b
// buckets per element.
var optHashCount = [maxBucketsPerElement + 1]int{
	1,  // 0
	1,  // 1
	1,  // 2
	2,  // 3
	3,  // 4
	3,  // 5
	4,  // 6
	5,  // 7
	6,  // 8
	6,  // 9
	7,  // 10
	8,  // 11
	8,  // 12
	9,  // 13
	10, // 14
	10, // 15
	11, // 16
	12, // 17
	12, // 18
	13, // 19
	14, // 20
}

// Filter is a double-hashing Bloom filter over a paged bitset.
type Filter struct {
	hashCount int
	bits      *bitset.Paged
}

// New constructs a filter sized for the given number of elements at the
// given bucket density, picking the optimal hash count.
func New(elements uint64, bucketsPerElement int) *Filter {
	if bucketsPerElement < 1 {
		bucketsPerElement = 1
	}
	if bucketsPerElement > maxBucketsPerElement {
		bucketsPerElement = maxBucketsPerElement
	}

	return &Filter{
		hashCount: optHashCount[bucketsPerElement],
		bits:      bitset.NewPaged(elements*uint64(bucketsPerElement) + excessBits),
	}
}

// NewWithTargetFP constructs a filter for the given number of elements using
// the minimum bucket density whose expected false-positive rate does not
// exceed maxFalsePositive.
func NewWithTargetFP(elements uint64, maxFalsePositive float64) (*Filter, error) {
	for b := 1; b <= maxBucketsPerElement; b++ {
		if falsePositiveRate(b, optHashCount[b]) <= maxFalsePositive {
			return New(elements, b), nil
		}
	}
	return nil, fmt.Errorf(
		"false-positive rate %g is not achievable with at most %d buckets per element",
		maxFalsePositive, maxBucketsPerElement,
	)
}

// falsePositiveRate is the textbook estimate (1 - e^(-k/b))^k for k hashes
// at b buckets per element.
func falsePositiveRate(bucketsPerElement, hashCount int) float64 {
	k := float64(hashCount)
	return math.Pow(1-math.Exp(-k/float64(bucketsPerElement)), k)
}

// AlwaysMatching returns a filter that reports every key as present.
func AlwaysMatching() *Filter {
	f := &Filter{hashCount: 1, bits: bitset.NewPaged(64)}
	f.bits.SetRange(0, 64)
	return f
}

// HashCount returns the number of hash functions the filter applies per key.
func (f *Filter) HashCount() int { return f.hashCount }

// buckets returns the bucket index sequence for the key. The second hash is
// derived by re-hashing with the first as seed, and bucket i is
// |h1 + i*h2| mod m.
func (f *Filter) buckets(key []byte, out []uint64) []uint64 {
	h1 := murmur3.Sum64(key)
	h2 := murmur3.Sum64WithSeed(key, uint32(h1))
	// Modulo the word-aligned bit length so that the mapping survives a
	// serialization round-trip, which preserves words only.
	m := f.bits.NumWords() * 64

	for i := 0; i < f.hashCount; i++ {
		v := int64(h1 + uint64(i)*h2)
		if v < 0 {
			v = -v
		}
		out = append(out, uint64(v)%m)
	}
	return out
}

// Add records the key in the filter.
func (f *Filter) Add(key []byte) {
	var buf [maxBucketsPerElement]uint64
	for _, idx := range f.buckets(key, buf[:0]) {
		f.bits.Set(idx)
	}
}

// Contains reports whether the key may have been added. False positives are
// possible; false negatives are not.
func (f *Filter) Contains(key []byte) bool {
	var buf [maxBucketsPerElement]uint64
	for _, idx := range f.buckets(key, buf[:0]) {
		if !f.bits.Get(idx) {
			return false
		}
	}
	return true
}

// AddString records a string key in the filter.
func (f *Filter) AddString(key string) { f.Add(stringKeyBytes(key)) }

// ContainsString reports whether a string key may have been added.
func (f *Filter) ContainsString(key string) bool { return f.Contains(stringKeyBytes(key)) }

// stringKeyBytes converts a string key to its hashable byte form: the
// (low byte, high byte) pairs of its UTF-16 code units, in reverse code-unit
// order. The layout is preserved from the original on-disk format.
func stringKeyBytes(key string) []byte {
	units := utf16.Encode([]rune(key))
	b := make([]byte, 0, len(units)*2)
	for i := len(units) - 1; i >= 0; i-- {
		b = append(b, byte(units[i]), byte(units[i]>>8))
	}
	return b
}

// MarshalBinary serializes the filter as
// (hashCount:i32, words:i32, big-endian u64 words).
func (f *Filter) MarshalBinary() ([]byte, error) {
	words := f.bits.NumWords()
	if words > math.MaxInt32 {
		return nil, fmt.Errorf("filter of %d words does not fit the serialized form", words)
	}

	var buf bytes.Buffer
	buf.Grow(8 + int(words)*8)

	binary.Write(&buf, binary.BigEndian, int32(f.hashCount))
	binary.Write(&buf, binary.BigEndian, int32(words))
	for w := uint64(0); w < words; w++ {
		binary.Write(&buf, binary.BigEndian, f.bits.Word(w))
	}

	return buf.Bytes(), nil
}

// UnmarshalBinary restores a filter serialized by MarshalBinary.
func (f *Filter) UnmarshalBinary(data []byte) error {
	r := bytes.NewReader(data)

	var hashCount, words int32
	if err := binary.Read(r, binary.BigEndian, &hashCount); err != nil {
		return fmt.Errorf("failed to read hash count: %w", err)
	}
	if err := binary.Read(r, binary.BigEndian, &words); err != nil {
		return fmt.Errorf("failed to read word count: %w", err)
	}
	if hashCount < 1 || words < 1 {
		return fmt.Errorf("corrupt filter header: hashCount=%d words=%d", hashCount, words)
	}

	bs := bitset.NewPaged(uint64(words) * 64)
	for w := uint64(0); w < uint64(words); w++ {
		var word uint64
		if err := binary.Read(r, binary.BigEndian, &word); err != nil {
			return fmt.Errorf("failed to read word %d: %w", w, err)
		}
		bs.SetWord(w, word)
	}

	f.hashCount = int(hashCount)
	f.bits = bs
	return nil
}
