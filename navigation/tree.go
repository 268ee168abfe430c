package navigation

import (
	"sort"

	"github.com/maruel/natural"
)

// Tree indexes units by their content hierarchy. Units live in a flat arena
// and every relation is an index into it, so walks are plain loops bounded by
// the arena size.
type Tree struct {
	units    []Unit
	index    map[string]int
	parent   []int   // -1 for roots and orphans
	children [][]int // published children only, in reading order
	roots    []int   // published top level units, in reading order
}

// NewTree builds the hierarchy. Duplicate ids keep their first occurrence.
func NewTree(units []Unit) *Tree {
	t := &Tree{
		units: make([]Unit, 0, len(units)),
		index: make(map[string]int, len(units)),
	}
	for _, u := range units {
		if u.ID == "" {
			continue
		}
		if _, dup := t.index[u.ID]; dup {
			continue
		}
		t.index[u.ID] = len(t.units)
		t.units = append(t.units, u)
	}

	t.parent = make([]int, len(t.units))
	t.children = make([][]int, len(t.units))
	for i, u := range t.units {
		t.parent[i] = -1
		if u.ParentID == "" {
			if u.Published() {
				t.roots = append(t.roots, i)
			}
			continue
		}
		p, ok := t.index[u.ParentID]
		if !ok || p == i {
			continue
		}
		t.parent[i] = p
		if u.Published() {
			t.children[p] = append(t.children[p], i)
		}
	}

	t.sortIndexes(t.roots)
	for _, c := range t.children {
		t.sortIndexes(c)
	}
	return t
}

func (t *Tree) sortIndexes(idx []int) {
	sort.SliceStable(idx, func(a, b int) bool {
		return t.less(idx[a], idx[b])
	})
}

// less orders siblings by order rank, then title, then id.
func (t *Tree) less(a, b int) bool {
	ua, ub := t.units[a], t.units[b]
	if ua.Order != ub.Order {
		return ua.Order < ub.Order
	}
	if natural.Less(ua.Title, ub.Title) {
		return true
	}
	if natural.Less(ub.Title, ua.Title) {
		return false
	}
	return ua.ID < ub.ID
}

// Unit looks up a unit of any status.
func (t *Tree) Unit(id string) (Unit, bool) {
	i, ok := t.index[id]
	if !ok {
		return Unit{}, false
	}
	return t.units[i], true
}

// HasPublishedChildren reports whether id is a chapter in the content tree.
func (t *Tree) HasPublishedChildren(id string) bool {
	i, ok := t.index[id]
	return ok && len(t.children[i]) > 0
}

// Flatten produces the pre-order reading sequence. Units for which excluded
// returns true are dropped together with their whole subtree.
func (t *Tree) Flatten(mode Mode, chaptersArePages bool, excluded func(Unit) bool) Sequence {
	if excluded == nil {
		excluded = func(Unit) bool { return false }
	}
	units := make([]Unit, 0, len(t.units))
	visited := make([]bool, len(t.units))

	stack := make([]int, 0, len(t.roots))
	for i := len(t.roots) - 1; i >= 0; i-- {
		stack = append(stack, t.roots[i])
	}
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[i] {
			continue
		}
		visited[i] = true

		u := t.units[i]
		if excluded(u) {
			continue
		}
		if mode == ModeStructural || chaptersArePages || len(t.children[i]) == 0 {
			units = append(units, u)
		}
		kids := t.children[i]
		for k := len(kids) - 1; k >= 0; k-- {
			stack = append(stack, kids[k])
		}
	}
	return newSequence(mode, SourceTree, units)
}

// FirstPublishedLeaf descends from id through the first published child at
// every level and returns the unit it ends on, which is id itself for
// childless units.
func (t *Tree) FirstPublishedLeaf(id string) (string, bool) {
	i, ok := t.index[id]
	if !ok {
		return "", false
	}
	return t.firstLeaf(i, nil)
}

// FirstLeafBelow is FirstPublishedLeaf skipping children for which excluded
// returns true.
func (t *Tree) FirstLeafBelow(id string, excluded func(Unit) bool) (string, bool) {
	i, ok := t.index[id]
	if !ok {
		return "", false
	}
	return t.firstLeaf(i, excluded)
}

// FirstLeaf is FirstPublishedLeaf of the whole book: the first top level unit
// that is not excluded, followed down to its first leaf.
func (t *Tree) FirstLeaf(excluded func(Unit) bool) (string, bool) {
	for _, r := range t.roots {
		if excluded != nil && excluded(t.units[r]) {
			continue
		}
		return t.firstLeaf(r, excluded)
	}
	return "", false
}

func (t *Tree) firstLeaf(i int, excluded func(Unit) bool) (string, bool) {
	for steps := 0; steps <= len(t.units); steps++ {
		next := -1
		for _, c := range t.children[i] {
			if excluded != nil && excluded(t.units[c]) {
				continue
			}
			next = c
			break
		}
		if next < 0 {
			return t.units[i].ID, true
		}
		i = next
	}
	// parent links form a cycle
	return "", false
}

// TopmostAncestor walks parent links up to a top level unit. A unit without a
// parent is its own topmost ancestor. Broken chains and cycles yield false.
func (t *Tree) TopmostAncestor(id string) (string, bool) {
	i, ok := t.index[id]
	if !ok {
		return "", false
	}
	for steps := 0; steps <= len(t.units); steps++ {
		u := t.units[i]
		if u.ParentID == "" {
			return u.ID, true
		}
		p := t.parent[i]
		if p < 0 {
			return "", false
		}
		i = p
	}
	return "", false
}

// Ancestors lists the units above id, top level unit first. The chain stops at
// the first missing parent or repeated unit.
func (t *Tree) Ancestors(id string) []Unit {
	i, ok := t.index[id]
	if !ok {
		return nil
	}
	var chain []Unit
	visited := map[int]bool{i: true}
	for {
		p := t.parent[i]
		if p < 0 || visited[p] {
			break
		}
		visited[p] = true
		chain = append(chain, t.units[p])
		i = p
	}
	for l, r := 0, len(chain)-1; l < r; l, r = l+1, r-1 {
		chain[l], chain[r] = chain[r], chain[l]
	}
	return chain
}

// FlattenTree is a convenience for one-off flattening without exclusions.
func FlattenTree(units []Unit, mode Mode, chaptersArePages bool) Sequence {
	return NewTree(units).Flatten(mode, chaptersArePages, nil)
}
