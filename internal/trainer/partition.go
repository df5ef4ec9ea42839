package trainer

import "fmt"

// ChildBlock assigns population slots [Start, End) to be replaced by the parent at index Parent.
type ChildBlock struct {
	Parent int
	Start  int
	End    int
}

// Len returns the number of children in the block.
func (b ChildBlock) Len() int { return b.End - b.Start }

// AssignChildBlocks partitions the child slots [parentCount, populationSize) into one contiguous
// block per parent. Blocks differ in size by at most one; the top-ranked parents take the
// larger ones.
func AssignChildBlocks(populationSize, parentCount int) ([]ChildBlock, error) {
	if parentCount < 1 {
		return nil, fmt.Errorf("parent count must be > 0, got %d", parentCount)
	}
	children := populationSize - parentCount
	if children < parentCount {
		return nil, fmt.Errorf("%d parents need at least as many child slots, population is %d", parentCount, populationSize)
	}
	per, extra := children/parentCount, children%parentCount
	blocks := make([]ChildBlock, parentCount)
	start := parentCount
	for p := range blocks {
		n := per
		if p < extra {
			n++
		}
		blocks[p] = ChildBlock{Parent: p, Start: start, End: start + n}
		start += n
	}
	return blocks, nil
}
