package scrape

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// extractNodeBySelector finds a node in the HTML document using a CSS selector
// Supports "#id", ".class" and plain tag selectors
func extractNodeBySelector(doc *html.Node, selector string) (*html.Node, error) {
	switch {
	case strings.HasPrefix(selector, "#"):
		id := strings.TrimPrefix(selector, "#")
		return findNode(doc, fmt.Sprintf("element with id '%s'", id), func(n *html.Node) bool {
			return n.Type == html.ElementNode && attr(n, "id") == id
		})
	case strings.HasPrefix(selector, "."):
		class := strings.TrimPrefix(selector, ".")
		return findNode(doc, fmt.Sprintf("element with class '%s'", class), func(n *html.Node) bool {
			return n.Type == html.ElementNode && hasClass(n, class)
		})
	default:
		return findNode(doc, fmt.Sprintf("element with tag '%s'", selector), func(n *html.Node) bool {
			return n.Type == html.ElementNode && n.Data == selector
		})
	}
}

// findNode returns the first node in document order matching fn
func findNode(root *html.Node, what string, fn func(*html.Node) bool) (*html.Node, error) {
	stack := []*html.Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if fn(n) {
			return n, nil
		}
		for c := n.LastChild; c != nil; c = c.PrevSibling {
			stack = append(stack, c)
		}
	}
	return nil, fmt.Errorf("%s not found", what)
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

// extractTitle extracts the title from the HTML document
func extractTitle(doc *html.Node) string {
	n, err := findNode(doc, "title", func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == "title"
	})
	if err != nil || n.FirstChild == nil || n.FirstChild.Type != html.TextNode {
		return ""
	}
	return strings.TrimSpace(n.FirstChild.Data)
}

// extractMeta returns the content of <meta name="...">
func extractMeta(doc *html.Node, name string) string {
	n, err := findNode(doc, "meta "+name, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == "meta" && attr(n, "name") == name && attr(n, "content") != ""
	})
	if err != nil {
		return ""
	}
	return attr(n, "content")
}

// extractMetaKeywords splits the meta keywords by comma
func extractMetaKeywords(doc *html.Node) []string {
	var keywords []string
	for _, keyword := range strings.Split(extractMeta(doc, "keywords"), ",") {
		if trimmed := strings.TrimSpace(keyword); trimmed != "" {
			keywords = append(keywords, trimmed)
		}
	}
	return keywords
}

// hasPasswordForm reports whether the document contains a form with a password field
func hasPasswordForm(doc *html.Node) bool {
	form, err := findNode(doc, "form", func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == "form"
	})
	if err != nil {
		return false
	}
	_, err = findNode(form, "password input", func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == "input" && strings.EqualFold(attr(n, "type"), "password")
	})
	return err == nil
}
