package navigation

import (
	"time"

	"github.com/gosimple/slug"
)

type Status string

const (
	StatusPublish Status = "publish"
	StatusDraft   Status = "draft"
)

type Kind string

const (
	KindPage Kind = "page"
	KindPost Kind = "post"
)

// NumberFormat is the optional numbering override attached to a unit.
// The zero value means "no override".
type NumberFormat string

const (
	NumberFormatNone   NumberFormat = ""
	NumberFormatArabic NumberFormat = "arabic"
	NumberFormatRoman  NumberFormat = "roman"
)

// ParseNumberFormat maps a stored value onto a NumberFormat. Unknown values
// are treated as no override.
func ParseNumberFormat(s string) NumberFormat {
	switch NumberFormat(s) {
	case NumberFormatArabic:
		return NumberFormatArabic
	case NumberFormatRoman:
		return NumberFormatRoman
	default:
		return NumberFormatNone
	}
}

// Unit is a content node of a book or blog.
type Unit struct {
	ID           string       `json:"id"`
	ParentID     string       `json:"parentId,omitempty"` // empty for top level units
	Order        int          `json:"order"`
	Title        string       `json:"title"`
	Slug         string       `json:"slug,omitempty"`
	URI          string       `json:"uri,omitempty"`
	MimeType     string       `json:"mimeType,omitempty"`
	Kind         Kind         `json:"kind,omitempty"`
	Status       Status       `json:"status"`
	CommentCount int          `json:"commentCount"`
	NumberFormat NumberFormat `json:"numberFormat,omitempty"`
	Date         time.Time    `json:"date,omitempty"`
	Content      string       `json:"-"`
}

func (u Unit) Published() bool {
	return u.Status == StatusPublish
}

// SlugOrTitle returns the unit slug, deriving one from the title if none is set.
func (u Unit) SlugOrTitle() string {
	if u.Slug != "" {
		return u.Slug
	}
	return slug.Make(u.Title)
}

// MenuItemProxy stands in for a unit inside a curated menu. Its parent is
// another menu item, never a unit.
type MenuItemProxy struct {
	MenuItemID   string `json:"menuItemId"`
	UnitID       string `json:"unitId"`
	MenuParentID string `json:"menuParentId,omitempty"`
	Title        string `json:"title,omitempty"`
	CommentCount int    `json:"commentCount"`
}
