package sampling

import (
	"math/rand/v2"
	"slices"

	"github.com/YuminosukeSato/landcover/pkg/errors"
)

// Generator draws the per-class permutations used by Sample.
// Implementations are not safe for concurrent use; give each goroutine its own.
type Generator interface {
	// Permute returns a uniformly random permutation of indices. The input is not modified.
	Permute(indices []int) []int
	// State serializes the current position of the generator.
	State() ([]byte, error)
	// SetState restores a position previously returned by State.
	SetState(state []byte) error
}

// PCGGenerator is a Generator backed by the math/rand/v2 PCG source.
type PCGGenerator struct {
	src *rand.PCG
	rng *rand.Rand
}

// NewGenerator returns a PCG generator seeded with seed. Equal seeds give equal permutation sequences.
func NewGenerator(seed uint64) *PCGGenerator {
	src := rand.NewPCG(seed, seed)
	return &PCGGenerator{src: src, rng: rand.New(src)}
}

// Permute implements Generator.
func (g *PCGGenerator) Permute(indices []int) []int {
	out := slices.Clone(indices)
	g.rng.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}

// State implements Generator.
func (g *PCGGenerator) State() ([]byte, error) {
	b, err := g.src.MarshalBinary()
	if err != nil {
		return nil, errors.Wrap(err, "failed to save generator state")
	}
	return b, nil
}

// SetState implements Generator.
func (g *PCGGenerator) SetState(state []byte) error {
	if err := g.src.UnmarshalBinary(state); err != nil {
		return errors.Wrap(err, "failed to restore generator state")
	}
	return nil
}
