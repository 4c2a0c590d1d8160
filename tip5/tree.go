package tip5

import "fmt"

// Leaf returns the digest stored at index i of a benchmark tree: the word
// [i, 0, 0, 0, 0].
func Leaf(i uint64) Digest {
	return FromValues(i)
}

// Tree is a complete binary Merkle tree. levels[0] holds the leaves and the
// last level holds the root.
type Tree struct {
	depth  uint32
	levels [][]Digest
}

// NewTree builds a tree with 2^depth leaves produced by leaf.
func NewTree(depth uint32, leaf func(i uint64) Digest) (*Tree, error) {
	if depth > MaxDepth {
		return nil, fmt.Errorf("tree depth %d exceeds maximum %d", depth, MaxDepth)
	}

	n := uint64(1) << depth
	leaves := make([]Digest, n)
	for i := range leaves {
		leaves[i] = leaf(uint64(i))
	}

	levels := [][]Digest{leaves}
	for cur := leaves; len(cur) > 1; {
		next := make([]Digest, len(cur)/2)
		for i := range next {
			next[i] = Merge(cur[2*i], cur[2*i+1])
		}

		levels = append(levels, next)
		cur = next
	}

	return &Tree{depth: depth, levels: levels}, nil
}

// Depth returns the number of levels above the leaves.
func (t *Tree) Depth() uint32 {
	return t.depth
}

// Root returns the tree root.
func (t *Tree) Root() Digest {
	return t.levels[len(t.levels)-1][0]
}

// Path returns the sibling digests from the leaf at index up to the root.
func (t *Tree) Path(index uint64) ([]Digest, error) {
	if index >= uint64(len(t.levels[0])) {
		return nil, fmt.Errorf("leaf index %d outside tree of depth %d", index, t.depth)
	}

	path := make([]Digest, 0, t.depth)
	for lvl := uint32(0); lvl < t.depth; lvl++ {
		path = append(path, t.levels[lvl][index^1])
		index >>= 1
	}

	return path, nil
}

// RootFromPath recomputes the root from a leaf, its index and its path.
func RootFromPath(leaf Digest, index uint64, path []Digest) Digest {
	cur := leaf
	for _, sibling := range path {
		if index&1 == 0 {
			cur = Merge(cur, sibling)
		} else {
			cur = Merge(sibling, cur)
		}

		index >>= 1
	}

	return cur
}
