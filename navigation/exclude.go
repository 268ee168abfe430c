package navigation

import "strings"

// DefaultLoginShortcode is the body a login plugin puts into the page it
// generates for itself.
const DefaultLoginShortcode = "[theme-my-login]"

// Detector flags units that exist for the site machinery rather than for
// readers.
type Detector func(u Unit) bool

// LoginPageDetector matches a page called "login" whose body is nothing but
// the given shortcode.
func LoginPageDetector(shortcode string) Detector {
	if shortcode == "" {
		shortcode = DefaultLoginShortcode
	}
	return func(u Unit) bool {
		return u.SlugOrTitle() == "login" && strings.TrimSpace(u.Content) == shortcode
	}
}

// Exclusion removes special units from every view.
type Exclusion struct {
	ids       map[string]struct{}
	detectors []Detector
}

func NewExclusion(ids []string, detectors ...Detector) *Exclusion {
	e := &Exclusion{
		ids:       make(map[string]struct{}, len(ids)),
		detectors: detectors,
	}
	for _, id := range ids {
		e.Add(id)
	}
	return e
}

func (e *Exclusion) Add(id string) {
	if id != "" {
		e.ids[id] = struct{}{}
	}
}

// Excludes reports whether u must not appear in any sequence.
func (e *Exclusion) Excludes(u Unit) bool {
	if e == nil {
		return false
	}
	if _, ok := e.ids[u.ID]; ok {
		return true
	}
	for _, detect := range e.detectors {
		if detect(u) {
			return true
		}
	}
	return false
}

// Filter returns a copy of seq without excluded entries.
func (e *Exclusion) Filter(seq Sequence) Sequence {
	out := Sequence{Mode: seq.Mode, Source: seq.Source, Entries: make([]Entry, 0, len(seq.Entries))}
	for _, entry := range seq.Entries {
		if e.Excludes(entry.Unit) {
			continue
		}
		out.Entries = append(out.Entries, entry)
	}
	return out.renumber()
}
