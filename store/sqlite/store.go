// Package sqlite keeps units, menu items, comments and site options in a
// SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/foomo/contentserver-booknav/navigation"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS units (
	id TEXT PRIMARY KEY,
	parent_id TEXT NOT NULL DEFAULT '',
	menu_order INTEGER NOT NULL DEFAULT 0,
	title TEXT NOT NULL DEFAULT '',
	slug TEXT NOT NULL DEFAULT '',
	uri TEXT NOT NULL DEFAULT '',
	mime_type TEXT NOT NULL DEFAULT '',
	kind TEXT NOT NULL DEFAULT 'page',
	status TEXT NOT NULL DEFAULT 'draft',
	number_format TEXT NOT NULL DEFAULT '',
	published_at INTEGER,
	content TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_units_kind_status ON units(kind, status);

CREATE TABLE IF NOT EXISTS comments (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	unit_id TEXT NOT NULL,
	approved INTEGER NOT NULL DEFAULT 1
);
CREATE INDEX IF NOT EXISTS idx_comments_unit ON comments(unit_id, approved);

CREATE TABLE IF NOT EXISTS menu_items (
	id TEXT PRIMARY KEY,
	unit_id TEXT NOT NULL,
	parent_id TEXT NOT NULL DEFAULT '',
	position INTEGER NOT NULL DEFAULT 0,
	title TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS settings (
	name TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

// Setting keys.
const (
	KeyHasMenu          = "has_menu"
	KeyChaptersArePages = "chapters_are_pages"
	KeySpecialPages     = "special_pages" // comma separated unit ids
	KeyTitlePage        = "title_page"
	KeyFrontPage        = "front_page"
	KeyStartNumber      = "start_number"
	KeyPageNavEnabled   = "page_nav_enabled" // "n" turns page navigation off
	KeyLoginShortcode   = "login_shortcode"
)

const approvedCount = `(SELECT COUNT(*) FROM comments c WHERE c.unit_id = %s AND c.approved = 1)`

type Store struct {
	db     *sql.DB
	logger *zap.Logger
}

// Open opens dsn and creates the schema if needed.
func Open(dsn string, logger *zap.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dsn, err)
	}
	// every connection to :memory: is a new database
	if strings.Contains(dsn, ":memory:") {
		db.SetMaxOpenConns(1)
	}
	s, err := New(db, logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an open database.
func New(db *sql.DB, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db, logger: logger}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ListPublishedUnits(ctx context.Context) ([]navigation.Unit, error) {
	return s.listUnits(ctx, navigation.KindPage)
}

func (s *Store) ListPublishedPosts(ctx context.Context) ([]navigation.Unit, error) {
	return s.listUnits(ctx, navigation.KindPost)
}

func (s *Store) listUnits(ctx context.Context, kind navigation.Kind) ([]navigation.Unit, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT u.id, u.parent_id, u.menu_order, u.title, u.slug, u.uri, u.mime_type,
			u.kind, u.status, u.number_format, u.published_at, u.content, `+fmt.Sprintf(approvedCount, "u.id")+`
		FROM units u
		WHERE u.kind = ? AND u.status = ?
		ORDER BY u.id`, string(kind), string(navigation.StatusPublish))
	if err != nil {
		return nil, fmt.Errorf("list %s units: %w", kind, err)
	}
	defer func() { _ = rows.Close() }()

	var units []navigation.Unit
	for rows.Next() {
		var (
			u                 navigation.Unit
			k, status, format string
			date              sql.NullInt64
		)
		if err := rows.Scan(&u.ID, &u.ParentID, &u.Order, &u.Title, &u.Slug, &u.URI, &u.MimeType,
			&k, &status, &format, &date, &u.Content, &u.CommentCount); err != nil {
			return nil, fmt.Errorf("scan unit: %w", err)
		}
		u.Kind = navigation.Kind(k)
		u.Status = navigation.Status(status)
		u.NumberFormat = navigation.ParseNumberFormat(format)
		if date.Valid {
			u.Date = time.Unix(date.Int64, 0).UTC()
		}
		units = append(units, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list %s units: %w", kind, err)
	}
	s.logger.Debug("listed units", zap.String("kind", string(kind)), zap.Int("count", len(units)))
	return units, nil
}

// ListMenuProxies returns the menu in stored order.
func (s *Store) ListMenuProxies(ctx context.Context) ([]navigation.MenuItemProxy, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT m.id, m.unit_id, m.parent_id, m.title, `+fmt.Sprintf(approvedCount, "m.unit_id")+`
		FROM menu_items m
		ORDER BY m.position, m.id`)
	if err != nil {
		return nil, fmt.Errorf("list menu items: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var proxies []navigation.MenuItemProxy
	for rows.Next() {
		var p navigation.MenuItemProxy
		if err := rows.Scan(&p.MenuItemID, &p.UnitID, &p.MenuParentID, &p.Title, &p.CommentCount); err != nil {
			return nil, fmt.Errorf("scan menu item: %w", err)
		}
		proxies = append(proxies, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list menu items: %w", err)
	}
	return proxies, nil
}

func (s *Store) CommentCount(ctx context.Context, unitID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT `+fmt.Sprintf(approvedCount, "?"), unitID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count comments of %s: %w", unitID, err)
	}
	return n, nil
}

// Settings reads the site options. Missing keys keep their zero value.
func (s *Store) Settings(ctx context.Context) (navigation.Settings, error) {
	var settings navigation.Settings
	rows, err := s.db.QueryContext(ctx, `SELECT name, value FROM settings`)
	if err != nil {
		return settings, fmt.Errorf("read settings: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return settings, fmt.Errorf("scan setting: %w", err)
		}
		switch key {
		case KeyHasMenu:
			settings.HasMenu = parseBool(value)
		case KeyChaptersArePages:
			settings.ChaptersArePages = parseBool(value)
		case KeySpecialPages:
			settings.SpecialPages = splitIDs(value)
		case KeyTitlePage:
			settings.TitlePageID = strings.TrimSpace(value)
		case KeyFrontPage:
			settings.FrontPageID = strings.TrimSpace(value)
		case KeyStartNumber:
			n, err := strconv.Atoi(strings.TrimSpace(value))
			if err != nil {
				s.logger.Warn("ignoring start number", zap.String("value", value), zap.Error(err))
				continue
			}
			settings.StartNumber = n
		case KeyPageNavEnabled:
			settings.PageNavDisabled = strings.EqualFold(strings.TrimSpace(value), "n")
		case KeyLoginShortcode:
			settings.LoginShortcode = strings.TrimSpace(value)
		}
	}
	return settings, rows.Err()
}

func parseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "y", "yes", "true", "on":
		return true
	}
	return false
}

func splitIDs(v string) []string {
	var ids []string
	for _, id := range strings.Split(v, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
