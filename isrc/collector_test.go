package isrc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func collect(votes map[string]int) []candidate {
	c := newCollector()
	for value, n := range votes {
		for i := 0; i < n; i++ {
			c.add(value)
		}
	}
	return c.candidates
}

func TestConsensusAcceptsFiveVsTwo(t *testing.T) {
	t.Parallel()

	value, ok := consensus(collect(map[string]int{"A": 5, "B": 2}))
	assert.True(t, ok)
	assert.Equal(t, "A", value)
}

func TestConsensusRejectsThreeVsTwo(t *testing.T) {
	t.Parallel()

	_, ok := consensus(collect(map[string]int{"A": 3, "B": 2}))
	assert.False(t, ok)
}

func TestConsensusAcceptsTwoVsOne(t *testing.T) {
	t.Parallel()

	value, ok := consensus(collect(map[string]int{"A": 2, "B": 1}))
	assert.True(t, ok)
	assert.Equal(t, "A", value)
}

func TestConsensusRejectsSingleFrame(t *testing.T) {
	t.Parallel()

	_, ok := consensus(collect(map[string]int{"A": 1}))
	assert.False(t, ok)
}

func TestCollectorBoundedAtMaxCandidates(t *testing.T) {
	t.Parallel()

	c := newCollector()
	for i := 0; i < MaxCandidates+5; i++ {
		c.add(string(rune('A' + i)))
	}
	assert.Len(t, c.candidates, MaxCandidates)
}
