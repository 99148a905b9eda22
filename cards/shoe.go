package cards

import (
	crypto_rand "crypto/rand"
	"encoding/binary"
	"math/rand"
	"strings"
)

const (
	// NumRanks is the number of distinct card ranks in a faro layout.
	NumRanks = 13
	// ShoeSize is the number of cards in a fresh shoe (13 ranks x 4 suits,
	// suits collapsed to rank).
	ShoeSize = 52
)

var rankSymbols = []string{"A", "2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K"}

// RankSymbol returns the display symbol for a rank value 0..12.
func RankSymbol(rank int) string {
	if rank < 0 || rank >= NumRanks {
		return ""
	}
	return rankSymbols[rank]
}

// RankIndex maps a rank symbol (case-insensitive) to its value 0..12.
// Returns -1 for an unknown symbol.
func RankIndex(symbol string) int {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	for i, s := range rankSymbols {
		if s == symbol {
			return i
		}
	}
	return -1
}

func newSeed() rand.Source {
	var b [8]byte
	_, err := crypto_rand.Read(b[:])
	if err != nil {
		panic("cannot seed math/rand package with cryptographically secure random number generator")
	}
	return rand.NewSource(int64(binary.LittleEndian.Uint64(b[:])))
}

// Shoe is a shuffled sequence of rank values with a draw cursor.
// Drawing from an exhausted shoe transparently regenerates a fresh
// shuffled shoe and clears the burn flag. Draw never fails.
type Shoe struct {
	ranks   []int
	idx     int
	burned  bool
	randGen *rand.Rand
}

// NewShoe returns a freshly shuffled 52-card shoe.
func NewShoe() *Shoe {
	s := &Shoe{randGen: rand.New(newSeed())}
	s.reshuffle()
	return s
}

// NewShoeFromRanks returns a shoe that deals the given ranks in order.
// Used by tests that need deterministic draws.
func NewShoeFromRanks(ranks []int) *Shoe {
	s := &Shoe{randGen: rand.New(newSeed())}
	s.ranks = make([]int, len(ranks))
	copy(s.ranks, ranks)
	return s
}

func (s *Shoe) reshuffle() {
	s.ranks = make([]int, 0, ShoeSize)
	for r := 0; r < NumRanks; r++ {
		for c := 0; c < 4; c++ {
			s.ranks = append(s.ranks, r)
		}
	}
	s.randGen.Shuffle(len(s.ranks), func(i, j int) {
		s.ranks[i], s.ranks[j] = s.ranks[j], s.ranks[i]
	})
	s.idx = 0
	s.burned = false
}

// Draw returns the next rank value, regenerating the shoe when exhausted.
func (s *Shoe) Draw() int {
	if len(s.ranks)-s.idx < 1 {
		s.reshuffle()
	}
	v := s.ranks[s.idx]
	s.idx++
	return v
}

// Burn discards the ceremonial first card of the shoe and marks the
// shoe as burned. Returns the discarded rank.
func (s *Shoe) Burn() int {
	v := s.Draw()
	s.burned = true
	return v
}

// Burned reports whether the burn card has been discarded from the
// current shoe lifetime.
func (s *Shoe) Burned() bool {
	return s.burned
}

// Remaining returns the number of cards left before a reshuffle.
func (s *Shoe) Remaining() int {
	return len(s.ranks) - s.idx
}
