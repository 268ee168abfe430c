package navigation

type Mode string

const (
	ModeStructural Mode = "structural"
	ModeReadable   Mode = "readable"
)

// ParseMode defaults to readable, which is what readers navigate.
func ParseMode(s string) Mode {
	if Mode(s) == ModeStructural {
		return ModeStructural
	}
	return ModeReadable
}

type Source string

const (
	SourceTree  Source = "tree"
	SourceMenu  Source = "menu"
	SourcePosts Source = "posts"
)

// Entry is one position of a Sequence. MenuItemID is only set for menu
// sequences.
type Entry struct {
	Position   int    `json:"position"`
	Unit       Unit   `json:"unit"`
	MenuItemID string `json:"menuItemId,omitempty"`
}

// CommentCount is the count the with-comments queries look at. For menu
// entries the flattener has already copied the proxy count onto the unit.
func (e Entry) CommentCount() int {
	return e.Unit.CommentCount
}

// Sequence is the flattened, deterministic reading order of a book.
type Sequence struct {
	Mode    Mode    `json:"mode"`
	Source  Source  `json:"source"`
	Entries []Entry `json:"entries"`
}

func (s Sequence) Len() int {
	return len(s.Entries)
}

func (s Sequence) Empty() bool {
	return len(s.Entries) == 0
}

// IndexOf returns the index of the first entry referencing unitID, or -1.
func (s Sequence) IndexOf(unitID string) int {
	if unitID == "" {
		return -1
	}
	for i, e := range s.Entries {
		if e.Unit.ID == unitID {
			return i
		}
	}
	return -1
}

// Contains reports whether unitID is part of the sequence.
func (s Sequence) Contains(unitID string) bool {
	return s.IndexOf(unitID) >= 0
}

// IDs lists the unit ids in sequence order.
func (s Sequence) IDs() []string {
	ids := make([]string, len(s.Entries))
	for i, e := range s.Entries {
		ids[i] = e.Unit.ID
	}
	return ids
}

// Before returns the entries preceding unitID, nearest first. Unknown ids
// yield nil.
func (s Sequence) Before(unitID string) []Entry {
	idx := s.IndexOf(unitID)
	if idx <= 0 {
		return nil
	}
	before := make([]Entry, 0, idx)
	for i := idx - 1; i >= 0; i-- {
		before = append(before, s.Entries[i])
	}
	return before
}

// After returns the entries following unitID, nearest first. Unknown ids
// yield nil.
func (s Sequence) After(unitID string) []Entry {
	idx := s.IndexOf(unitID)
	if idx < 0 || idx == len(s.Entries)-1 {
		return nil
	}
	after := make([]Entry, len(s.Entries)-idx-1)
	copy(after, s.Entries[idx+1:])
	return after
}

func newSequence(mode Mode, source Source, units []Unit) Sequence {
	seq := Sequence{Mode: mode, Source: source, Entries: make([]Entry, 0, len(units))}
	for _, u := range units {
		seq.Entries = append(seq.Entries, Entry{Position: len(seq.Entries), Unit: u})
	}
	return seq
}

// renumber rewrites positions after entries were dropped.
func (s Sequence) renumber() Sequence {
	for i := range s.Entries {
		s.Entries[i].Position = i
	}
	return s
}
