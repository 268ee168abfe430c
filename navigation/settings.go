package navigation

// Settings are the site options navigation depends on.
type Settings struct {
	// HasMenu selects the curated menu over the page hierarchy.
	HasMenu bool `json:"hasMenu" yaml:"hasMenu"`
	// ChaptersArePages makes chapters readable units in their own right.
	ChaptersArePages bool `json:"chaptersArePages" yaml:"chaptersArePages"`
	// SpecialPages never show up in navigation.
	SpecialPages []string `json:"specialPages,omitempty" yaml:"specialPages,omitempty"`
	TitlePageID  string   `json:"titlePageId,omitempty" yaml:"titlePage,omitempty"`
	FrontPageID  string   `json:"frontPageId,omitempty" yaml:"frontPage,omitempty"`
	// StartNumber defaults to 1.
	StartNumber     int    `json:"startNumber,omitempty" yaml:"startNumber,omitempty"`
	PageNavDisabled bool   `json:"pageNavDisabled,omitempty" yaml:"pageNavDisabled,omitempty"`
	LoginShortcode  string `json:"loginShortcode,omitempty" yaml:"loginShortcode,omitempty"`
}

// Book is everything the resolver reads for one request.
type Book struct {
	Units []Unit
	Menu  []MenuItemProxy
	Posts []Unit
}
