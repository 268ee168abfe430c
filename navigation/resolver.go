package navigation

import (
	"go.uber.org/zap"
)

// Resolver answers navigation questions for a single request. It is cheap to
// build and must not be shared across requests: the front page context and
// the memoised title page check belong to the request that created it.
type Resolver struct {
	settings    Settings
	tree        *Tree
	menu        *Menu
	posts       []Unit
	exclusion   *Exclusion
	detectors   []Detector
	onFrontPage bool
	logger      *zap.Logger

	titleIsHomepage *bool
}

type Option func(*Resolver)

func WithLogger(l *zap.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithFrontPage tells the resolver the request is for the site front page.
func WithFrontPage(on bool) Option {
	return func(r *Resolver) {
		r.onFrontPage = on
	}
}

// WithDetectors replaces the default login page detector.
func WithDetectors(detectors ...Detector) Option {
	return func(r *Resolver) {
		r.detectors = detectors
	}
}

func NewResolver(book Book, settings Settings, opts ...Option) *Resolver {
	r := &Resolver{
		settings:  settings,
		tree:      NewTree(book.Units),
		menu:      NewMenu(book.Menu),
		posts:     book.Posts,
		detectors: []Detector{LoginPageDetector(settings.LoginShortcode)},
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}

	r.exclusion = NewExclusion(settings.SpecialPages, r.detectors...)
	// the title page is shown as the front page, so it is not part of the book
	if r.TitleIsHomepage() {
		r.exclusion.Add(settings.TitlePageID)
	}
	return r
}

func (r *Resolver) Settings() Settings {
	return r.settings
}

// Source tells which topology Resolve reads from.
func (r *Resolver) Source() Source {
	if r.settings.HasMenu {
		return SourceMenu
	}
	return SourceTree
}

// TitleIsHomepage reports whether the configured title page exists and is the
// site front page. Computed once per resolver.
func (r *Resolver) TitleIsHomepage() bool {
	if r.titleIsHomepage == nil {
		id := r.settings.TitlePageID
		_, exists := r.tree.Unit(id)
		v := id != "" && exists && id == r.settings.FrontPageID
		r.titleIsHomepage = &v
	}
	return *r.titleIsHomepage
}

// Unit looks up any unit of the book.
func (r *Resolver) Unit(id string) (Unit, bool) {
	return r.tree.Unit(id)
}

// Ancestors is the breadcrumb trail of id in the page hierarchy.
func (r *Resolver) Ancestors(id string) []Unit {
	return r.tree.Ancestors(id)
}

// Excluded reports whether the unit is kept out of navigation.
func (r *Resolver) Excluded(u Unit) bool {
	return r.exclusion.Excludes(u)
}

// Resolve flattens the book in the given mode. An empty sequence is a normal
// result.
func (r *Resolver) Resolve(mode Mode) Sequence {
	var seq Sequence
	if r.settings.HasMenu {
		seq = r.menu.Flatten(mode, r.settings.ChaptersArePages, r.tree.Unit, r.exclusion.Excludes)
	} else {
		seq = r.tree.Flatten(mode, r.settings.ChaptersArePages, r.exclusion.Excludes)
	}
	seq = r.exclusion.Filter(seq)
	r.logger.Debug("resolved sequence",
		zap.String("mode", string(mode)),
		zap.String("source", string(seq.Source)),
		zap.Int("entries", seq.Len()),
	)
	return seq
}

// Posts is the blog sequence, newest first.
func (r *Resolver) Posts() Sequence {
	return r.exclusion.Filter(FlattenPosts(r.posts))
}

// Number assigns display numbers to seq. Units inherit the format of their
// topmost ancestor unless they carry their own.
func (r *Resolver) Number(seq Sequence) PageNumberMap {
	return Numberer{
		Start:    r.settings.StartNumber,
		FormatOf: r.formatOf,
		Logger:   r.logger,
	}.Number(seq)
}

func (r *Resolver) formatOf(e Entry) NumberFormat {
	if e.Unit.NumberFormat != NumberFormatNone {
		return e.Unit.NumberFormat
	}
	var topID string
	if e.MenuItemID != "" {
		top, ok := r.menu.TopmostAncestor(e.MenuItemID)
		if !ok {
			r.logger.Debug("no top level menu item", zap.String("menuItem", e.MenuItemID))
			return NumberFormatNone
		}
		topID = top.UnitID
	} else {
		id, ok := r.tree.TopmostAncestor(e.Unit.ID)
		if !ok {
			r.logger.Debug("no top level unit", zap.String("unit", e.Unit.ID))
			return NumberFormatNone
		}
		topID = id
	}
	if top, ok := r.tree.Unit(topID); ok {
		return top.NumberFormat
	}
	return NumberFormatNone
}

// PageNumbers numbers the readable sequence. Chapters only get a number when
// chapters are pages. Nil when page navigation is disabled.
func (r *Resolver) PageNumbers() PageNumberMap {
	if r.settings.PageNavDisabled {
		return nil
	}
	return r.Number(r.Resolve(ModeReadable))
}

// FirstReadable is the unit a reader starts the book with.
func (r *Resolver) FirstReadable() (Entry, bool) {
	seq := r.Resolve(ModeReadable)
	if seq.Empty() {
		return Entry{}, false
	}
	return seq.Entries[0], true
}

// RedirectTarget returns where a reader landing on a chapter should be sent.
// Only applies to the page hierarchy when chapters are not pages.
func (r *Resolver) RedirectTarget(id string) (string, bool) {
	if r.settings.HasMenu || r.settings.ChaptersArePages {
		return "", false
	}
	if !r.tree.HasPublishedChildren(id) {
		return "", false
	}
	target, ok := r.tree.FirstLeafBelow(id, r.exclusion.Excludes)
	if !ok || target == id || !r.Resolve(ModeReadable).Contains(target) {
		return "", false
	}
	return target, true
}
