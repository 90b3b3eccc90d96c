package isrc

// candidate is one distinct ISRC value seen during a track scan, with its
// vote count.
type candidate struct {
	value string
	count int
}

// collector is a bounded, insertion-ordered vote tally: up to MaxCandidates
// distinct ISRC values. Once full, further distinct values are dropped —
// by that point the read is too noisy to salvage.
type collector struct {
	candidates []candidate
	index      map[string]int // value -> index into candidates
}

func newCollector() *collector {
	return &collector{index: make(map[string]int)}
}

// add registers one valid ISRC frame observation.
func (c *collector) add(value string) {
	if i, ok := c.index[value]; ok {
		c.candidates[i].count++
		return
	}
	if len(c.candidates) >= MaxCandidates {
		return
	}
	c.index[value] = len(c.candidates)
	c.candidates = append(c.candidates, candidate{value: value, count: 1})
}

func (c *collector) total() int {
	n := 0
	for _, cand := range c.candidates {
		n += cand.count
	}
	return n
}

// consensus applies the acceptance rule exactly: winner = argmax(count);
// second = max over all others (0 if none); accept iff count(winner) >= 2
// AND (second == 0 OR count(winner) >= 2*second). Ties for winner resolve
// to whichever candidate was observed first.
func consensus(candidates []candidate) (value string, ok bool) {
	if len(candidates) == 0 {
		return "", false
	}
	winnerIdx := 0
	for i, cand := range candidates {
		if cand.count > candidates[winnerIdx].count {
			winnerIdx = i
		}
	}
	winner := candidates[winnerIdx]

	second := 0
	for i, cand := range candidates {
		if i == winnerIdx {
			continue
		}
		if cand.count > second {
			second = cand.count
		}
	}

	if winner.count < 2 {
		return "", false
	}
	if second != 0 && winner.count < 2*second {
		return "", false
	}
	return winner.value, true
}
