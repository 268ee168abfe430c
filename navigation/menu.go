package navigation

// Menu indexes a curated menu. Parentage comes from MenuParentID only; which
// unit a proxy points at plays no part in the structure, so a unit listed
// twice simply occupies two positions.
type Menu struct {
	proxies     []MenuItemProxy
	index       map[string]int
	parent      []int // -1 for top level items and dangling parents
	hasChildren []bool
}

// NewMenu keeps the order the proxies are given in, which is the curated order.
func NewMenu(proxies []MenuItemProxy) *Menu {
	m := &Menu{
		proxies: make([]MenuItemProxy, 0, len(proxies)),
		index:   make(map[string]int, len(proxies)),
	}
	for _, p := range proxies {
		if p.MenuItemID == "" {
			continue
		}
		if _, dup := m.index[p.MenuItemID]; dup {
			continue
		}
		m.index[p.MenuItemID] = len(m.proxies)
		m.proxies = append(m.proxies, p)
	}

	m.parent = make([]int, len(m.proxies))
	m.hasChildren = make([]bool, len(m.proxies))
	for i, p := range m.proxies {
		m.parent[i] = -1
		if p.MenuParentID == "" {
			continue
		}
		if pi, ok := m.index[p.MenuParentID]; ok {
			m.parent[i] = pi
			m.hasChildren[pi] = true
		}
	}
	return m
}

func (m *Menu) Len() int {
	return len(m.proxies)
}

// IsLeaf reports whether no other item names menuItemID as its menu parent.
func (m *Menu) IsLeaf(menuItemID string) bool {
	i, ok := m.index[menuItemID]
	return ok && !m.hasChildren[i]
}

// Flatten builds the menu sequence. lookup resolves the referenced unit;
// items pointing at unknown or unpublished units are skipped, as are items
// whose unit is excluded.
func (m *Menu) Flatten(mode Mode, chaptersArePages bool, lookup func(id string) (Unit, bool), excluded func(Unit) bool) Sequence {
	seq := Sequence{Mode: mode, Source: SourceMenu, Entries: make([]Entry, 0, len(m.proxies))}
	for _, p := range m.proxies {
		if mode == ModeReadable && !chaptersArePages && !m.IsLeaf(p.MenuItemID) {
			continue
		}
		u, ok := lookup(p.UnitID)
		if !ok || !u.Published() {
			continue
		}
		if excluded != nil && excluded(u) {
			continue
		}
		u.CommentCount = p.CommentCount
		seq.Entries = append(seq.Entries, Entry{
			Position:   len(seq.Entries),
			Unit:       u,
			MenuItemID: p.MenuItemID,
		})
	}
	return seq
}

// TopmostAncestor follows menu parents to a top level item. The walk is
// bounded by the number of items, so a cyclic menu ends in "not found" just
// like a dangling parent reference does.
func (m *Menu) TopmostAncestor(menuItemID string) (MenuItemProxy, bool) {
	i, ok := m.index[menuItemID]
	if !ok {
		return MenuItemProxy{}, false
	}
	for steps := 0; steps <= len(m.proxies); steps++ {
		p := m.proxies[i]
		if p.MenuParentID == "" {
			return p, true
		}
		if m.parent[i] < 0 {
			return MenuItemProxy{}, false
		}
		i = m.parent[i]
	}
	return MenuItemProxy{}, false
}
