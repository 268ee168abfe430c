// Package contentserver reads a book out of a foomo content server repo.
package contentserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/foomo/contentserver-booknav/navigation"
	contentserverclient "github.com/foomo/contentserver/client"
	"github.com/foomo/contentserver/content"
	"github.com/foomo/contentserver/requests"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"
)

// Item data keys read from content server nodes.
const (
	DataCommentCount = "commentCount"
	DataNumberFormat = "numberFormat"
	DataDate         = "date"
	DataStatus       = "status"
	DataSlug         = "slug"
	DataUnitID       = "unitId" // menu items only
)

const snapshotKey = "book"

var ErrUnknownUnit = errors.New("unknown unit")

type NodesGetter interface {
	GetNodes(ctx context.Context, env *requests.Env, nodes map[string]*requests.Node) (map[string]*content.Node, error)
}

type Config struct {
	// RootID is the node whose children are the top level units.
	RootID string
	// MenuRootID is the node whose subtree is the curated menu.
	MenuRootID    string
	Env           *requests.Env
	Dimension     string
	PageMimeTypes []string
	PostMimeTypes []string
	MenuMimeTypes []string
	CacheTTL      time.Duration
	CacheSize     int
}

type Store struct {
	client   NodesGetter
	config   Config
	settings navigation.Settings
	cache    *expirable.LRU[string, *snapshot]
	logger   *zap.Logger
}

type snapshot struct {
	units    []navigation.Unit
	posts    []navigation.Unit
	menu     []navigation.MenuItemProxy
	comments map[string]int
}

// NewClient talks to the content server at url.
func NewClient(url string, httpClient *http.Client) *contentserverclient.Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return contentserverclient.New(
		contentserverclient.NewHTTPTransport(
			url,
			contentserverclient.HTTPTransportWithHTTPClient(httpClient),
		))
}

func New(logger *zap.Logger, client NodesGetter, config Config, settings navigation.Settings) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.CacheSize <= 0 {
		config.CacheSize = 1
	}
	if config.CacheTTL <= 0 {
		config.CacheTTL = time.Minute
	}
	if config.Env == nil {
		config.Env = &requests.Env{}
	}
	return &Store{
		client:   client,
		config:   config,
		settings: settings,
		cache:    expirable.NewLRU[string, *snapshot](config.CacheSize, nil, config.CacheTTL),
		logger:   logger,
	}
}

func (s *Store) ListPublishedUnits(ctx context.Context) ([]navigation.Unit, error) {
	snap, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return snap.units, nil
}

func (s *Store) ListPublishedPosts(ctx context.Context) ([]navigation.Unit, error) {
	snap, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return snap.posts, nil
}

func (s *Store) ListMenuProxies(ctx context.Context) ([]navigation.MenuItemProxy, error) {
	snap, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return snap.menu, nil
}

func (s *Store) Settings(ctx context.Context) (navigation.Settings, error) {
	return s.settings, nil
}

func (s *Store) CommentCount(ctx context.Context, unitID string) (int, error) {
	snap, err := s.load(ctx)
	if err != nil {
		return 0, err
	}
	n, ok := snap.comments[unitID]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownUnit, unitID)
	}
	return n, nil
}

// Invalidate drops the cached book so the next call refetches it.
func (s *Store) Invalidate() {
	s.cache.Purge()
}

func (s *Store) load(ctx context.Context) (*snapshot, error) {
	if snap, ok := s.cache.Get(snapshotKey); ok {
		return snap, nil
	}

	query := map[string]*requests.Node{
		s.config.RootID: {
			ID:        s.config.RootID,
			Dimension: s.config.Dimension,
			MimeTypes: append(append([]string{}, s.config.PageMimeTypes...), s.config.PostMimeTypes...),
			Expand:    true,
		},
	}
	if s.config.MenuRootID != "" {
		mimeTypes := s.config.MenuMimeTypes
		if len(mimeTypes) == 0 {
			mimeTypes = s.config.PageMimeTypes
		}
		query[s.config.MenuRootID] = &requests.Node{
			ID:        s.config.MenuRootID,
			Dimension: s.config.Dimension,
			MimeTypes: mimeTypes,
			Expand:    true,
		}
	}

	nodes, err := s.client.GetNodes(ctx, s.config.Env, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get nodes: %w", err)
	}
	root, ok := nodes[s.config.RootID]
	if !ok || root == nil {
		return nil, fmt.Errorf("root node %q not found", s.config.RootID)
	}

	snap := &snapshot{comments: map[string]int{}}
	s.collectUnits(root, snap)
	if menuRoot, ok := nodes[s.config.MenuRootID]; ok && menuRoot != nil {
		s.collectMenu(menuRoot, snap)
	}

	s.logger.Debug("loaded book",
		zap.Int("units", len(snap.units)),
		zap.Int("posts", len(snap.posts)),
		zap.Int("menuItems", len(snap.menu)),
	)
	s.cache.Add(snapshotKey, snap)
	return snap, nil
}

type visit struct {
	node     *content.Node
	parentID string
	order    int
}

// collectUnits walks the tree below root. Sibling order is the node index.
func (s *Store) collectUnits(root *content.Node, snap *snapshot) {
	posts := toSet(s.config.PostMimeTypes)
	stack := children(root, "")
	for len(stack) > 0 {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		item := v.node.Item
		if item == nil {
			continue
		}
		if _, seen := snap.comments[item.ID]; seen {
			s.logger.Warn("node listed twice", zap.String("id", item.ID))
			continue
		}

		u := unitFromItem(item, v.parentID, v.order)
		snap.comments[u.ID] = u.CommentCount
		if _, ok := posts[item.MimeType]; ok {
			u.Kind = navigation.KindPost
			u.ParentID = ""
			if u.Published() {
				snap.posts = append(snap.posts, u)
			}
			continue
		}
		if u.Published() {
			snap.units = append(snap.units, u)
		}
		stack = append(stack, children(v.node, item.ID)...)
	}
}

func (s *Store) collectMenu(root *content.Node, snap *snapshot) {
	// menu items keep index order, so walk depth first in order
	stack := children(root, "")
	seen := map[string]struct{}{}
	for len(stack) > 0 {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		item := v.node.Item
		if item == nil {
			continue
		}
		if _, dup := seen[item.ID]; dup {
			continue
		}
		seen[item.ID] = struct{}{}

		unitID := dataString(item.Data, DataUnitID)
		if unitID == "" {
			unitID = item.ID
		}
		snap.menu = append(snap.menu, navigation.MenuItemProxy{
			MenuItemID:   item.ID,
			UnitID:       unitID,
			MenuParentID: v.parentID,
			Title:        item.Name,
			CommentCount: snap.comments[unitID],
		})
		stack = append(stack, children(v.node, item.ID)...)
	}
}

// children returns the child visits of n reversed, ready to be pushed.
func children(n *content.Node, parentID string) []visit {
	out := make([]visit, 0, len(n.Index))
	for i := len(n.Index) - 1; i >= 0; i-- {
		child, ok := n.Nodes[n.Index[i]]
		if !ok || child == nil {
			continue
		}
		out = append(out, visit{node: child, parentID: parentID, order: i})
	}
	return out
}

func unitFromItem(item *content.Item, parentID string, order int) navigation.Unit {
	u := navigation.Unit{
		ID:           item.ID,
		ParentID:     parentID,
		Order:        order,
		Title:        item.Name,
		Slug:         dataString(item.Data, DataSlug),
		URI:          item.URI,
		MimeType:     item.MimeType,
		Kind:         navigation.KindPage,
		Status:       navigation.StatusPublish,
		CommentCount: dataInt(item.Data, DataCommentCount),
		NumberFormat: navigation.ParseNumberFormat(dataString(item.Data, DataNumberFormat)),
	}
	if status := dataString(item.Data, DataStatus); status != "" {
		u.Status = navigation.Status(status)
	}
	if date := dataString(item.Data, DataDate); date != "" {
		if t, err := time.Parse(time.RFC3339, date); err == nil {
			u.Date = t
		}
	}
	return u
}

func dataString(data map[string]interface{}, key string) string {
	if v, ok := data[key].(string); ok {
		return v
	}
	return ""
}

func dataInt(data map[string]interface{}, key string) int {
	switch v := data[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case int64:
		return int(v)
	case string:
		n, _ := strconv.Atoi(v)
		return n
	}
	return 0
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
