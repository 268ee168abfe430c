package navigation

import (
	"sort"

	"go.uber.org/zap"
)

// NextOf returns the entry after currentID, or with requireComments the first
// later entry that has comments. Unknown ids have no next entry.
func NextOf(seq Sequence, currentID string, requireComments bool) (Entry, bool) {
	return firstOf(seq.After(currentID), requireComments)
}

// PreviousOf mirrors NextOf, scanning backwards.
func PreviousOf(seq Sequence, currentID string, requireComments bool) (Entry, bool) {
	return firstOf(seq.Before(currentID), requireComments)
}

func firstOf(entries []Entry, requireComments bool) (Entry, bool) {
	for _, e := range entries {
		if !requireComments || e.CommentCount() > 0 {
			return e, true
		}
	}
	return Entry{}, false
}

func IsFirst(seq Sequence, currentID string) bool {
	return !seq.Empty() && seq.IndexOf(currentID) == 0
}

func IsLast(seq Sequence, currentID string) bool {
	return !seq.Empty() && seq.IndexOf(currentID) == len(seq.Entries)-1
}

// NextOf is the package level NextOf plus the title page rules: on the front
// page, when nothing follows, the reader is sent to the first page of the
// book.
func (r *Resolver) NextOf(seq Sequence, currentID string, requireComments bool) (Entry, bool) {
	if seq.Source == SourcePosts {
		return NextOf(seq, currentID, requireComments)
	}
	if r.settings.PageNavDisabled {
		return Entry{}, false
	}
	if e, ok := NextOf(seq, currentID, requireComments); ok {
		return e, true
	}
	if !r.onFrontPage || !r.TitleIsHomepage() {
		return Entry{}, false
	}
	e, ok := r.bookStart(seq)
	if ok {
		r.logger.Debug("next falls back to first page", zap.String("unit", e.Unit.ID))
	}
	return e, ok
}

// PreviousOf is the package level PreviousOf plus the title page rule: the
// first page of the book leads back to the title page when that page is the
// front page and the reader is not already on it.
func (r *Resolver) PreviousOf(seq Sequence, currentID string, requireComments bool) (Entry, bool) {
	if seq.Source == SourcePosts {
		return PreviousOf(seq, currentID, requireComments)
	}
	if r.settings.PageNavDisabled {
		return Entry{}, false
	}
	if e, ok := PreviousOf(seq, currentID, requireComments); ok {
		return e, true
	}
	if r.onFrontPage || !r.TitleIsHomepage() || !IsFirst(seq, currentID) {
		return Entry{}, false
	}
	title, ok := r.tree.Unit(r.settings.TitlePageID)
	if !ok {
		return Entry{}, false
	}
	return Entry{Position: -1, Unit: title}, true
}

// bookStart is the first page a reader sees after the title page. In the
// content tree that is the first leaf of the book, unless exclusions left
// that leaf out of the readable sequence, in which case the sequence's own
// first entry is used.
func (r *Resolver) bookStart(seq Sequence) (Entry, bool) {
	if r.settings.HasMenu {
		return r.FirstReadable()
	}
	readable := r.Resolve(ModeReadable)
	if readable.Empty() {
		return Entry{}, false
	}
	target := readable.Entries[0].Unit.ID
	if id, ok := r.tree.FirstLeaf(r.exclusion.Excludes); ok && readable.Contains(id) {
		target = id
	}
	idx := seq.IndexOf(target)
	if idx < 0 {
		return Entry{}, false
	}
	return seq.Entries[idx], true
}

// FlattenPosts orders published posts newest first, so "next" moves to an
// older post.
func FlattenPosts(posts []Unit) Sequence {
	published := make([]Unit, 0, len(posts))
	seen := make(map[string]struct{}, len(posts))
	for _, p := range posts {
		if !p.Published() {
			continue
		}
		if _, dup := seen[p.ID]; dup {
			continue
		}
		seen[p.ID] = struct{}{}
		published = append(published, p)
	}
	sort.SliceStable(published, func(i, j int) bool {
		if !published[i].Date.Equal(published[j].Date) {
			return published[i].Date.After(published[j].Date)
		}
		return published[i].ID < published[j].ID
	})
	return newSequence(ModeReadable, SourcePosts, published)
}
