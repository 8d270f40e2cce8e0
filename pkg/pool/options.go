package pool

import (
	"fmt"
	"math"
)

// DefaultArenaSize is the arena size used when none is configured.
const DefaultArenaSize = 2048

// DefaultClasses is the class table used when none is configured.
var DefaultClasses = []int{1024, 512, 256, 128, 64, 32}

type settings struct {
	arenaSize int
	classes   []int
	initLens  []int
	coalesce  bool
	index     bool
}

func defaultSettings() settings {
	return settings{
		arenaSize: DefaultArenaSize,
		classes:   DefaultClasses,
	}
}

func (s *settings) validate() error {
	if s.arenaSize <= 0 {
		return fmt.Errorf("fixedarena: arena size %d must be positive", s.arenaSize)
	}

	if uint64(s.arenaSize) > math.MaxUint32 {
		return fmt.Errorf("fixedarena: arena size %d does not fit offset addressing", s.arenaSize)
	}

	if err := checkClasses(s.classes); err != nil {
		return err
	}

	if s.initLens == nil {
		return nil
	}

	if len(s.initLens) != len(s.classes) {
		return fmt.Errorf("fixedarena: %d initial lengths for %d classes", len(s.initLens), len(s.classes))
	}

	total := 0
	for i, n := range s.initLens {
		if n < 0 {
			return fmt.Errorf("fixedarena: negative initial length for class %d", s.classes[i])
		}

		if n > s.arenaSize/s.classes[i]+1 {
			return fmt.Errorf("fixedarena: initial length %d exceeds class %d capacity", n, s.classes[i])
		}

		total += n * s.classes[i]
	}

	if total > s.arenaSize {
		return fmt.Errorf("fixedarena: initial lengths cover %d bytes, arena has %d", total, s.arenaSize)
	}

	return nil
}

// Option is a configuration setting for [New] and [Pool.Init].
type Option struct{ apply func(*settings) }

// WithArenaSize sets the total size of the arena in bytes.
func WithArenaSize(n int) Option {
	return Option{func(s *settings) { s.arenaSize = n }}
}

// WithClasses replaces the default class table. Sizes must be given in
// strictly descending order, each a power of two and each exactly twice the
// next.
func WithClasses(sizes ...int) Option {
	return Option{func(s *settings) { s.classes = sizes }}
}

// WithInitialLengths replaces the greedy initial partition with an explicit
// per-class block count, in class order. The blocks are laid out
// contiguously from offset zero, largest class first; bytes not covered are
// unusable.
func WithInitialLengths(lens ...int) Option {
	return Option{func(s *settings) { s.initLens = lens }}
}

// WithCoalescing enables the defragmentation capability: adjacent free
// buddies may be merged back into the next larger class by
// [Pool.Defragment].
func WithCoalescing(enabled bool) Option {
	return Option{func(s *settings) { s.coalesce = enabled }}
}

// WithAddressIndex replaces the linear address-to-descriptor scan with a
// hashed index, sized once at Init. Worth it when the smallest class divides
// the arena into many blocks.
func WithAddressIndex(enabled bool) Option {
	return Option{func(s *settings) { s.index = enabled }}
}
