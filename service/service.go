package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/foomo/contentserver-booknav/navigation"
	"github.com/foomo/contentserver-booknav/scrape"
	"github.com/foomo/contentserver-booknav/service/vo"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

var ErrNotFound = errors.New("not found")

// Store is where units, menus and site options come from.
type Store interface {
	ListPublishedUnits(ctx context.Context) ([]navigation.Unit, error)
	ListPublishedPosts(ctx context.Context) ([]navigation.Unit, error)
	ListMenuProxies(ctx context.Context) ([]navigation.MenuItemProxy, error)
	Settings(ctx context.Context) (navigation.Settings, error)
	CommentCount(ctx context.Context, unitID string) (int, error)
}

type Service interface {
	GetPage(ctx context.Context, id string, opts PageOptions) (*vo.Page, error)
	GetTOC(ctx context.Context, mode navigation.Mode) (*vo.TOC, error)
	GetPosts(ctx context.Context) (*vo.TOC, error)
	Navigate(ctx context.Context, id string, opts NavigateOptions) (*vo.PageSummary, error)
}

type PageOptions struct {
	// FrontPage marks a request for the site front page. An empty id with
	// FrontPage set loads the configured front page.
	FrontPage bool
	// Render fills in the page markdown.
	Render bool
}

type NavigateOptions struct {
	Direction    vo.Direction
	WithComments bool
	FrontPage    bool
}

type ContentRenderer func(ctx context.Context, httpClient *http.Client, siteSettings SiteSettings, unit navigation.Unit) (vo.Markdown, error)

type SiteSettings struct {
	BaseURL         string
	ContentSelector string
	// DetectLoginForms also hides login pages that render their form inline.
	DetectLoginForms bool
}

type service struct {
	store            Store
	httpClient       *http.Client
	siteSettings     SiteSettings
	contentRenderers map[vo.MimeType]ContentRenderer
	logger           *zap.Logger
}

func NewService(
	logger *zap.Logger,
	store Store,
	siteSettings SiteSettings,
	httpClient *http.Client,
	contentRenderers map[vo.MimeType]ContentRenderer,
) Service {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &service{
		store:            store,
		httpClient:       httpClient,
		siteSettings:     siteSettings,
		contentRenderers: contentRenderers,
		logger:           logger,
	}
}

// isValidURI checks if a URI is valid for processing
func isValidURI(uri string) bool {
	return uri != "" && strings.HasPrefix(uri, "/")
}

type loaded struct {
	resolver *navigation.Resolver
	posts    map[string]navigation.Unit
}

func (s *service) load(ctx context.Context, frontPage bool) (*loaded, error) {
	settings, err := s.store.Settings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	var (
		book                        navigation.Book
		errUnits, errMenu, errPosts error
	)
	book.Units, errUnits = s.store.ListPublishedUnits(ctx)
	if settings.HasMenu {
		book.Menu, errMenu = s.store.ListMenuProxies(ctx)
	}
	book.Posts, errPosts = s.store.ListPublishedPosts(ctx)
	if err := multierr.Combine(errUnits, errMenu, errPosts); err != nil {
		return nil, fmt.Errorf("failed to load book: %w", err)
	}

	detectors := []navigation.Detector{navigation.LoginPageDetector(settings.LoginShortcode)}
	if s.siteSettings.DetectLoginForms {
		detectors = append(detectors, scrape.LoginFormDetector())
	}

	l := &loaded{
		resolver: navigation.NewResolver(book, settings,
			navigation.WithLogger(s.logger),
			navigation.WithFrontPage(frontPage),
			navigation.WithDetectors(detectors...),
		),
		posts: make(map[string]navigation.Unit, len(book.Posts)),
	}
	for _, p := range book.Posts {
		l.posts[p.ID] = p
	}
	return l, nil
}

// lookup finds a page or post and the sequence it is navigated in.
func (l *loaded) lookup(id string) (navigation.Unit, navigation.Sequence, bool) {
	if u, ok := l.resolver.Unit(id); ok && u.Kind != navigation.KindPost {
		return u, l.resolver.Resolve(navigation.ModeReadable), true
	}
	if p, ok := l.posts[id]; ok && p.Published() {
		return p, l.resolver.Posts(), true
	}
	return navigation.Unit{}, navigation.Sequence{}, false
}

func (s *service) GetPage(ctx context.Context, id string, opts PageOptions) (*vo.Page, error) {
	l, err := s.load(ctx, opts.FrontPage)
	if err != nil {
		return nil, err
	}
	r := l.resolver
	if id == "" && opts.FrontPage {
		id = r.Settings().FrontPageID
	}

	unit, seq, ok := l.lookup(id)
	if !ok {
		return nil, fmt.Errorf("page %q: %w", id, ErrNotFound)
	}
	if count, err := s.store.CommentCount(ctx, unit.ID); err != nil {
		s.logger.Warn("failed to count comments", zap.String("unit", unit.ID), zap.Error(err))
	} else {
		unit.CommentCount = count
	}

	var numbers navigation.PageNumberMap
	if seq.Source != navigation.SourcePosts {
		numbers = r.PageNumbers()
	}

	page := &vo.Page{
		PageSummary: s.summary(unit, numbers),
		IsFirst:     navigation.IsFirst(seq, unit.ID),
		IsLast:      navigation.IsLast(seq, unit.ID),
	}

	if seq.Source != navigation.SourcePosts {
		for _, ancestor := range r.Ancestors(unit.ID) {
			page.Breadcrumb = append(page.Breadcrumb, s.summary(ancestor, numbers))
		}
		if target, ok := r.RedirectTarget(unit.ID); ok {
			if u, ok := r.Unit(target); ok {
				summary := s.summary(u, numbers)
				page.RedirectTo = &summary
			}
		}
	}

	if e, ok := r.PreviousOf(seq, unit.ID, false); ok {
		page.Previous = s.entrySummary(e, numbers)
	}
	if e, ok := r.NextOf(seq, unit.ID, false); ok {
		page.Next = s.entrySummary(e, numbers)
	}
	if e, ok := r.PreviousOf(seq, unit.ID, true); ok {
		page.PreviousWithComments = s.entrySummary(e, numbers)
	}
	if e, ok := r.NextOf(seq, unit.ID, true); ok {
		page.NextWithComments = s.entrySummary(e, numbers)
	}

	if opts.Render {
		summary, markdown, err := s.render(ctx, unit)
		if err != nil {
			return nil, err
		}
		page.Markdown = markdown
		if summary != nil {
			page.PageSummary.Description = summary.Description
			page.PageSummary.Keywords = summary.Keywords
		}
	}
	return page, nil
}

func (s *service) GetTOC(ctx context.Context, mode navigation.Mode) (*vo.TOC, error) {
	l, err := s.load(ctx, false)
	if err != nil {
		return nil, err
	}
	r := l.resolver
	seq := r.Resolve(mode)

	// only readable units carry a number
	return s.toc(seq, r.PageNumbers()), nil
}

func (s *service) GetPosts(ctx context.Context) (*vo.TOC, error) {
	l, err := s.load(ctx, false)
	if err != nil {
		return nil, err
	}
	return s.toc(l.resolver.Posts(), nil), nil
}

// Navigate returns the neighbour of id in the requested direction, or nil
// when there is none.
func (s *service) Navigate(ctx context.Context, id string, opts NavigateOptions) (*vo.PageSummary, error) {
	l, err := s.load(ctx, opts.FrontPage)
	if err != nil {
		return nil, err
	}
	r := l.resolver

	unit, seq, found := l.lookup(id)
	if !found {
		// an unknown id can still lead into the book from the front page
		unit = navigation.Unit{ID: id}
		seq = r.Resolve(navigation.ModeReadable)
	}

	var numbers navigation.PageNumberMap
	if seq.Source != navigation.SourcePosts {
		numbers = r.PageNumbers()
	}

	var (
		e  navigation.Entry
		ok bool
	)
	switch opts.Direction {
	case vo.DirectionNext:
		e, ok = r.NextOf(seq, unit.ID, opts.WithComments)
	case vo.DirectionPrevious:
		e, ok = r.PreviousOf(seq, unit.ID, opts.WithComments)
	default:
		return nil, fmt.Errorf("unknown direction %q", opts.Direction)
	}
	if !ok {
		return nil, nil
	}
	return s.entrySummary(e, numbers), nil
}

func (s *service) toc(seq navigation.Sequence, numbers navigation.PageNumberMap) *vo.TOC {
	toc := &vo.TOC{
		Mode:    string(seq.Mode),
		Source:  string(seq.Source),
		Entries: make([]vo.TOCEntry, 0, seq.Len()),
	}
	for _, e := range seq.Entries {
		unit := e.Unit
		unit.CommentCount = e.CommentCount()
		toc.Entries = append(toc.Entries, vo.TOCEntry{
			PageSummary: s.summary(unit, numbers),
			Position:    e.Position,
			MenuItemID:  e.MenuItemID,
		})
	}
	return toc
}

func (s *service) entrySummary(e navigation.Entry, numbers navigation.PageNumberMap) *vo.PageSummary {
	unit := e.Unit
	unit.CommentCount = e.CommentCount()
	summary := s.summary(unit, numbers)
	return &summary
}

func (s *service) summary(u navigation.Unit, numbers navigation.PageNumberMap) vo.PageSummary {
	summary := vo.PageSummary{
		ID:             u.ID,
		MimeType:       vo.MimeType(u.MimeType),
		ContentSummary: vo.ContentSummary{Title: u.Title},
		CommentCount:   u.CommentCount,
	}
	if isValidURI(u.URI) {
		summary.URL = s.siteSettings.BaseURL + u.URI
	}
	if n, ok := numbers[u.ID]; ok {
		summary.Number = n.String()
		summary.NumberLabel = n.Label()
	}
	return summary
}

// render converts the unit body to markdown. Registered renderers win, then
// the stored body, then the live page.
func (s *service) render(ctx context.Context, unit navigation.Unit) (*vo.ContentSummary, vo.Markdown, error) {
	if renderer, ok := s.contentRenderers[vo.MimeType(unit.MimeType)]; ok {
		markdown, err := renderer(ctx, s.httpClient, s.siteSettings, unit)
		if err != nil {
			return nil, "", fmt.Errorf("failed to render %q: %w", unit.ID, err)
		}
		return nil, markdown, nil
	}
	if strings.TrimSpace(unit.Content) != "" {
		markdown, err := scrape.Convert(unit.Content, "")
		if err != nil {
			return nil, "", fmt.Errorf("failed to convert %q: %w", unit.ID, err)
		}
		return nil, markdown, nil
	}
	if s.siteSettings.BaseURL == "" || !isValidURI(unit.URI) {
		s.logger.Debug("nothing to render", zap.String("unit", unit.ID))
		return nil, "", nil
	}
	summary, markdown, err := scrape.Scrape(ctx, s.httpClient, s.siteSettings.BaseURL+unit.URI, s.siteSettings.ContentSelector)
	if err != nil {
		return nil, "", fmt.Errorf("failed to scrape %q: %w", unit.ID, err)
	}
	return summary, markdown, nil
}
