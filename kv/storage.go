package kv

import (
	"iter"
	"slices"
)

// Pair is a single header field.
type Pair struct {
	Key, Value string
}

// Storage keeps header fields in the order they were added. Keys are matched byte by byte:
// no case folding, no merging of repeated fields. A slice with linear lookups beats a map on
// the dozen or so fields a request usually carries.
type Storage struct {
	pairs []Pair
}

func New() *Storage {
	return new(Storage)
}

// NewPrealloc reserves room for n pairs upfront.
func NewPrealloc(n int) *Storage {
	return &Storage{pairs: make([]Pair, 0, n)}
}

// Add appends the pair, even if the key is already present.
func (s *Storage) Add(key, value string) *Storage {
	s.pairs = append(s.pairs, Pair{Key: key, Value: value})
	return s
}

// Get looks up the earliest pair with the key.
func (s *Storage) Get(key string) (string, bool) {
	i := s.index(key)
	if i == -1 {
		return "", false
	}

	return s.pairs[i].Value, true
}

// Value is Get without the presence flag.
func (s *Storage) Value(key string) string {
	value, _ := s.Get(key)
	return value
}

func (s *Storage) Has(key string) bool {
	return s.index(key) != -1
}

// Values yields every value stored under the key, earliest first.
func (s *Storage) Values(key string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, p := range s.pairs {
			if p.Key == key && !yield(p.Value) {
				return
			}
		}
	}
}

// Pairs yields all the fields in insertion order.
func (s *Storage) Pairs() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for _, p := range s.pairs {
			if !yield(p.Key, p.Value) {
				return
			}
		}
	}
}

func (s *Storage) Len() int {
	return len(s.pairs)
}

func (s *Storage) Empty() bool {
	return len(s.pairs) == 0
}

// Expose returns the backing slice. It must not be modified.
func (s *Storage) Expose() []Pair {
	return s.pairs
}

func (s *Storage) index(key string) int {
	return slices.IndexFunc(s.pairs, func(p Pair) bool {
		return p.Key == key
	})
}
