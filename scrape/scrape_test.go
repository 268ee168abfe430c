package scrape

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/foomo/contentserver-booknav/navigation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const chapterHTML = `<!DOCTYPE html>
<html>
<head>
  <title> Chapter One </title>
  <meta name="description" content="Where the argument starts.">
  <meta name="keywords" content="method, reading , ,commentary">
</head>
<body>
  <nav class="menu">Contents</nav>
  <main id="content" class="entry-content wide">
    <h1>Chapter One</h1>
    <p>The text is read <strong>in order</strong>.</p>
  </main>
</body>
</html>`

func TestScrape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chapter-one" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(chapterHTML))
	}))
	defer srv.Close()

	summary, md, err := Scrape(context.Background(), srv.Client(), srv.URL+"/chapter-one", "#content")
	require.NoError(t, err)
	require.NotNil(t, summary)
	assert.Equal(t, "Chapter One", summary.Title)
	assert.Equal(t, "Where the argument starts.", summary.Description)
	assert.Equal(t, []string{"method", "reading", "commentary"}, summary.Keywords)
	assert.Contains(t, string(md), "# Chapter One")
	assert.Contains(t, string(md), "**in order**")
	assert.NotContains(t, string(md), "Contents")

	_, _, err = Scrape(context.Background(), srv.Client(), srv.URL+"/missing", "main")
	require.Error(t, err)

	summary, _, err = Scrape(context.Background(), srv.Client(), srv.URL+"/chapter-one", "#nope")
	require.Error(t, err)
	assert.Equal(t, "Chapter One", summary.Title)
}

func TestConvert(t *testing.T) {
	md, err := Convert(`<div class="a entry"><p>first</p></div><div class="entry-x"><p>second</p></div>`, ".entry")
	require.NoError(t, err)
	assert.Equal(t, "first", string(md))

	md, err = Convert(`<p>plain <em>body</em></p>`, "")
	require.NoError(t, err)
	assert.Equal(t, "plain *body*", string(md))
}

func TestLoginFormDetector(t *testing.T) {
	form := `<form method="post"><input type="text" name="log"><input type="PASSWORD" name="pwd"></form>`
	assert.True(t, IsLoginForm(form))
	assert.False(t, IsLoginForm(`<form><input type="search"></form>`))
	assert.False(t, IsLoginForm(`<p>no form</p>`))

	detect := LoginFormDetector()
	assert.True(t, detect(navigation.Unit{Slug: "login", Content: form}))
	assert.True(t, detect(navigation.Unit{Title: "Login", Content: form}))
	assert.False(t, detect(navigation.Unit{Slug: "account", Content: form}))
}
