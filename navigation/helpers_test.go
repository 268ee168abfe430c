package navigation

func page(id, parent string, order int) Unit {
	return Unit{ID: id, ParentID: parent, Order: order, Title: id, Status: StatusPublish, Kind: KindPage}
}

func withComments(u Unit, n int) Unit {
	u.CommentCount = n
	return u
}

func withFormat(u Unit, f NumberFormat) Unit {
	u.NumberFormat = f
	return u
}

func draft(u Unit) Unit {
	u.Status = StatusDraft
	return u
}

func proxy(id, unitID, parent string) MenuItemProxy {
	return MenuItemProxy{MenuItemID: id, UnitID: unitID, MenuParentID: parent}
}

// book builds:
//
//	intro
//	part1
//	  ch1
//	    p1
//	    p2
//	  ch2
//	    p3
//	part2
//	  p4
func book() []Unit {
	return []Unit{
		page("part2", "", 3),
		page("p4", "part2", 1),
		page("ch2", "part1", 2),
		page("p3", "ch2", 1),
		page("intro", "", 1),
		page("part1", "", 2),
		page("ch1", "part1", 1),
		page("p2", "ch1", 2),
		page("p1", "ch1", 1),
	}
}

func seqOf(source Source, ids ...string) Sequence {
	units := make([]Unit, len(ids))
	for i, id := range ids {
		units[i] = page(id, "", i)
	}
	return newSequence(ModeReadable, source, units)
}
