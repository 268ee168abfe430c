package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTreeFlattenStructural(t *testing.T) {
	seq := FlattenTree(book(), ModeStructural, false)
	assert.Equal(t, []string{"intro", "part1", "ch1", "p1", "p2", "ch2", "p3", "part2", "p4"}, seq.IDs())
	assert.Equal(t, SourceTree, seq.Source)
	for i, e := range seq.Entries {
		assert.Equal(t, i, e.Position)
	}
}

func TestTreeFlattenReadable(t *testing.T) {
	seq := FlattenTree(book(), ModeReadable, false)
	assert.Equal(t, []string{"intro", "p1", "p2", "p3", "p4"}, seq.IDs())
}

func TestTreeFlattenChaptersArePages(t *testing.T) {
	structural := FlattenTree(book(), ModeStructural, true)
	readable := FlattenTree(book(), ModeReadable, true)
	assert.Equal(t, structural.IDs(), readable.IDs())
}

func TestTreeReadableHasNoParents(t *testing.T) {
	units := book()
	units = append(units,
		page("ch3", "part2", 2),
		draft(page("p5", "ch3", 1)),
		page("p6", "p4", 1),
	)
	tree := NewTree(units)
	for _, e := range tree.Flatten(ModeReadable, false, nil).Entries {
		assert.False(t, tree.HasPublishedChildren(e.Unit.ID), "%s has published children", e.Unit.ID)
	}
	// ch3 only has a draft child, so it reads as a page
	assert.True(t, tree.Flatten(ModeReadable, false, nil).Contains("ch3"))
	assert.False(t, tree.Flatten(ModeReadable, false, nil).Contains("p4"))
}

func TestTreeSiblingOrder(t *testing.T) {
	units := []Unit{
		{ID: "c", Title: "Chapter 10", Status: StatusPublish},
		{ID: "b", Title: "Chapter 2", Status: StatusPublish},
		{ID: "a", Title: "Appendix", Status: StatusPublish, Order: 1},
		{ID: "d", Title: "Chapter 2", Status: StatusPublish},
	}
	seq := FlattenTree(units, ModeStructural, false)
	assert.Equal(t, []string{"b", "d", "c", "a"}, seq.IDs())
}

func TestTreeDropsUnpublishedBranches(t *testing.T) {
	units := []Unit{
		page("a", "", 1),
		draft(page("b", "", 2)),
		page("b1", "b", 1),
		page("orphan", "missing", 1),
	}
	seq := FlattenTree(units, ModeStructural, false)
	assert.Equal(t, []string{"a"}, seq.IDs())
}

func TestTreeExcludedSubtree(t *testing.T) {
	tree := NewTree(book())
	seq := tree.Flatten(ModeStructural, false, func(u Unit) bool { return u.ID == "ch1" })
	assert.Equal(t, []string{"intro", "part1", "ch2", "p3", "part2", "p4"}, seq.IDs())
}

func TestTreeParentCycleTerminates(t *testing.T) {
	units := []Unit{
		page("root", "", 1),
		page("x", "y", 1),
		page("y", "x", 1),
	}
	tree := NewTree(units)
	assert.Equal(t, []string{"root"}, tree.Flatten(ModeStructural, false, nil).IDs())

	_, ok := tree.TopmostAncestor("x")
	assert.False(t, ok)
	_, ok = tree.FirstPublishedLeaf("x")
	assert.False(t, ok)
}

func TestFirstPublishedLeafChain(t *testing.T) {
	tree := NewTree([]Unit{
		page("A", "", 1),
		page("B", "A", 1),
		page("C", "B", 1),
	})
	id, ok := tree.FirstPublishedLeaf("A")
	require.True(t, ok)
	assert.Equal(t, "C", id)
}

func TestFirstPublishedLeafPrefersFirstSibling(t *testing.T) {
	tree := NewTree([]Unit{
		page("root", "", 1),
		page("second", "root", 2),
		page("deep", "second", 1),
		page("first", "root", 1),
	})
	id, ok := tree.FirstPublishedLeaf("root")
	require.True(t, ok)
	assert.Equal(t, "first", id)
}

func TestFirstPublishedLeafSelf(t *testing.T) {
	tree := NewTree(book())
	id, ok := tree.FirstPublishedLeaf("p3")
	require.True(t, ok)
	assert.Equal(t, "p3", id)

	_, ok = tree.FirstPublishedLeaf("nope")
	assert.False(t, ok)
}

func TestFirstPublishedLeafSkipsDrafts(t *testing.T) {
	tree := NewTree([]Unit{
		page("ch", "", 1),
		draft(page("d", "ch", 1)),
		page("p", "ch", 2),
	})
	id, ok := tree.FirstPublishedLeaf("ch")
	require.True(t, ok)
	assert.Equal(t, "p", id)
}

func TestFirstLeafOfBook(t *testing.T) {
	tree := NewTree(book())
	id, ok := tree.FirstLeaf(func(u Unit) bool { return u.ID == "intro" })
	require.True(t, ok)
	assert.Equal(t, "p1", id)

	_, ok = NewTree(nil).FirstLeaf(nil)
	assert.False(t, ok)
}

func TestTopmostAncestor(t *testing.T) {
	tree := NewTree(book())
	for id, want := range map[string]string{
		"p2":    "part1",
		"ch2":   "part1",
		"part2": "part2",
		"p4":    "part2",
	} {
		got, ok := tree.TopmostAncestor(id)
		require.True(t, ok, id)
		assert.Equal(t, want, got, id)
	}
}

func TestTopmostAncestorThroughDraft(t *testing.T) {
	tree := NewTree([]Unit{
		page("top", "", 1),
		draft(page("mid", "top", 1)),
		page("leaf", "mid", 1),
	})
	got, ok := tree.TopmostAncestor("leaf")
	require.True(t, ok)
	assert.Equal(t, "top", got)
}

func TestAncestors(t *testing.T) {
	tree := NewTree(book())
	var ids []string
	for _, u := range tree.Ancestors("p2") {
		ids = append(ids, u.ID)
	}
	assert.Equal(t, []string{"part1", "ch1"}, ids)
	assert.Empty(t, tree.Ancestors("intro"))
	assert.Nil(t, tree.Ancestors("missing"))

	cyclic := NewTree([]Unit{page("a", "b", 1), page("b", "a", 1)})
	assert.Len(t, cyclic.Ancestors("a"), 1)

	// x hangs off a loop it is not part of
	loop := NewTree([]Unit{page("x", "a", 1), page("a", "b", 1), page("b", "a", 1)})
	ids = nil
	for _, u := range loop.Ancestors("x") {
		ids = append(ids, u.ID)
	}
	assert.Equal(t, []string{"b", "a"}, ids)
}

func TestFirstLeafBelow(t *testing.T) {
	tree := NewTree([]Unit{page("part", "", 1), page("skip", "part", 1), page("keep", "part", 2)})
	skip := func(u Unit) bool { return u.ID == "skip" }

	id, ok := tree.FirstLeafBelow("part", skip)
	require.True(t, ok)
	assert.Equal(t, "keep", id)

	id, ok = tree.FirstLeafBelow("part", nil)
	require.True(t, ok)
	assert.Equal(t, "skip", id)

	_, ok = tree.FirstLeafBelow("nope", skip)
	assert.False(t, ok)
}
