package scrape

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/foomo/contentserver-booknav/navigation"
	"github.com/foomo/contentserver-booknav/service/vo"
	"golang.org/x/net/html"
)

// Scrape downloads a rendered page and converts the node matched by selector
// to markdown. A nil client uses http.DefaultClient.
func Scrape(ctx context.Context, client *http.Client, url, selector string) (*vo.ContentSummary, vo.Markdown, error) {
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("failed to download HTML: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("HTTP request failed with status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read response body: %w", err)
	}

	doc, err := html.Parse(strings.NewReader(string(body)))
	if err != nil {
		return nil, "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	summary := &vo.ContentSummary{
		Title:       extractTitle(doc),
		Description: extractMeta(doc, "description"),
		Keywords:    extractMetaKeywords(doc),
	}

	md, err := convertNode(doc, selector)
	if err != nil {
		return summary, "", err
	}
	return summary, md, nil
}

// Convert turns a stored HTML body into markdown. An empty selector converts
// the whole fragment.
func Convert(body, selector string) (vo.Markdown, error) {
	doc, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}
	return convertNode(doc, selector)
}

func convertNode(doc *html.Node, selector string) (vo.Markdown, error) {
	node := doc
	if selector != "" {
		selected, err := extractNodeBySelector(doc, selector)
		if err != nil {
			return "", fmt.Errorf("failed to extract node with selector '%s': %w", selector, err)
		}
		node = selected
	}

	markdownBytes, err := htmltomarkdown.ConvertNode(node)
	if err != nil {
		return "", fmt.Errorf("failed to convert HTML to markdown: %w", err)
	}
	return vo.Markdown(strings.TrimSpace(string(markdownBytes))), nil
}

// IsLoginForm reports whether an HTML body renders a password form.
func IsLoginForm(body string) bool {
	if !strings.Contains(body, "<form") {
		return false
	}
	doc, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return false
	}
	return hasPasswordForm(doc)
}

// LoginFormDetector flags login pages that carry the rendered form in their
// body instead of a plugin shortcode.
func LoginFormDetector() navigation.Detector {
	return func(u navigation.Unit) bool {
		return u.SlugOrTitle() == "login" && IsLoginForm(u.Content)
	}
}
