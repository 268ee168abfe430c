package sqlite

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/foomo/contentserver-booknav/navigation"
)

// PutUnit inserts or replaces a page or post.
func (s *Store) PutUnit(ctx context.Context, u navigation.Unit) error {
	kind := u.Kind
	if kind == "" {
		kind = navigation.KindPage
	}
	var date any
	if !u.Date.IsZero() {
		date = u.Date.Unix()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO units (id, parent_id, menu_order, title, slug, uri, mime_type, kind, status, number_format, published_at, content)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.ParentID, u.Order, u.Title, u.Slug, u.URI, u.MimeType,
		string(kind), string(u.Status), string(u.NumberFormat), date, u.Content)
	if err != nil {
		return fmt.Errorf("put unit %s: %w", u.ID, err)
	}
	return nil
}

// PutMenuItem stores p at position in the menu.
func (s *Store) PutMenuItem(ctx context.Context, p navigation.MenuItemProxy, position int) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO menu_items (id, unit_id, parent_id, position, title)
		VALUES (?, ?, ?, ?, ?)`,
		p.MenuItemID, p.UnitID, p.MenuParentID, position, p.Title)
	if err != nil {
		return fmt.Errorf("put menu item %s: %w", p.MenuItemID, err)
	}
	return nil
}

func (s *Store) AddComment(ctx context.Context, unitID string, approved bool) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO comments (unit_id, approved) VALUES (?, ?)`, unitID, approved)
	if err != nil {
		return fmt.Errorf("add comment to %s: %w", unitID, err)
	}
	return nil
}

func (s *Store) PutSetting(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `INSERT OR REPLACE INTO settings (name, value) VALUES (?, ?)`, key, value)
	if err != nil {
		return fmt.Errorf("put setting %s: %w", key, err)
	}
	return nil
}

// PutSettings writes every option of settings.
func (s *Store) PutSettings(ctx context.Context, settings navigation.Settings) error {
	pageNav := "y"
	if settings.PageNavDisabled {
		pageNav = "n"
	}
	values := map[string]string{
		KeyHasMenu:          strconv.FormatBool(settings.HasMenu),
		KeyChaptersArePages: strconv.FormatBool(settings.ChaptersArePages),
		KeySpecialPages:     strings.Join(settings.SpecialPages, ","),
		KeyTitlePage:        settings.TitlePageID,
		KeyFrontPage:        settings.FrontPageID,
		KeyStartNumber:      strconv.Itoa(settings.StartNumber),
		KeyPageNavEnabled:   pageNav,
		KeyLoginShortcode:   settings.LoginShortcode,
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin settings transaction: %w", err)
	}
	for key, value := range values {
		if _, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO settings (name, value) VALUES (?, ?)`, key, value); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("put setting %s: %w", key, err)
		}
	}
	return tx.Commit()
}
