package photoshoot

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllocateKeepsSuppliedSeed(t *testing.T) {
	a := NewSeedAllocator()
	seed := int64(482913)
	assert.Equal(t, int64(482913), a.Allocate(&seed))
}

func TestAllocateGeneratesWhenMissingOrZero(t *testing.T) {
	a := NewSeedAllocatorWithSource(rand.NewPCG(1, 2))
	zero := int64(0)

	for _, supplied := range []*int64{nil, &zero} {
		got := a.Allocate(supplied)
		assert.GreaterOrEqual(t, got, int64(0))
		assert.LessOrEqual(t, got, int64(maxSeed))
	}
}

func TestAllocateDeterministicWithInjectedSource(t *testing.T) {
	a := NewSeedAllocatorWithSource(rand.NewPCG(7, 7))
	b := NewSeedAllocatorWithSource(rand.NewPCG(7, 7))
	assert.Equal(t, a.Allocate(nil), b.Allocate(nil))
}
