package vo

type Markdown string

type MimeType string

type Direction string

const (
	DirectionNext     Direction = "next"
	DirectionPrevious Direction = "previous"
)

type ContentSummary struct {
	Title       string   `json:"title"`                 // Page title
	Description string   `json:"description,omitempty"` // 2-3 sentence abstract
	Keywords    []string `json:"keywords,omitempty"`    // Keywords
}

type PageSummary struct {
	ID             string   `json:"id"`
	URL            string   `json:"url,omitempty"`
	MimeType       MimeType `json:"mimeType,omitempty"`
	ContentSummary `json:"contentSummary"`
	Number         string `json:"number,omitempty"`      // "3" or "iv"
	NumberLabel    string `json:"numberLabel,omitempty"` // running header, "page 3"
	CommentCount   int    `json:"commentCount"`
}

type Page struct {
	PageSummary PageSummary `json:"summary"`
	Markdown    Markdown    `json:"markdown,omitempty"` // Full content in markdown

	// RedirectTo is set when the page is a chapter readers should skip.
	RedirectTo *PageSummary `json:"redirectTo,omitempty"`

	Breadcrumb           []PageSummary `json:"breadcrumb,omitempty"`
	Previous             *PageSummary  `json:"previous,omitempty"`
	Next                 *PageSummary  `json:"next,omitempty"`
	PreviousWithComments *PageSummary  `json:"previousWithComments,omitempty"`
	NextWithComments     *PageSummary  `json:"nextWithComments,omitempty"`
	IsFirst              bool          `json:"isFirst"`
	IsLast               bool          `json:"isLast"`
}

type TOCEntry struct {
	PageSummary
	Position   int    `json:"position"`
	MenuItemID string `json:"menuItemId,omitempty"`
}

type TOC struct {
	Mode    string     `json:"mode"`
	Source  string     `json:"source"`
	Entries []TOCEntry `json:"entries"`
}
