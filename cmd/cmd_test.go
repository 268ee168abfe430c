package cmd

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foomo/contentserver-booknav/navigation"
	"github.com/foomo/contentserver-booknav/store/sqlite"
)

func seedBook(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "book.db")

	s, err := sqlite.Open(dbPath, nil)
	require.NoError(t, err)
	ctx := context.Background()
	for _, u := range []navigation.Unit{
		{ID: "cover", Title: "Cover", Order: 0, Status: navigation.StatusPublish},
		{ID: "p1", Title: "First", Order: 1, Status: navigation.StatusPublish, NumberFormat: navigation.NumberFormatRoman},
		{ID: "p2", Title: "Second", Order: 2, Status: navigation.StatusPublish},
	} {
		require.NoError(t, s.PutUnit(ctx, u))
	}
	require.NoError(t, s.AddComment(ctx, "p2", true))
	require.NoError(t, s.PutSettings(ctx, navigation.Settings{TitlePageID: "cover", FrontPageID: "cover", StartNumber: 1}))
	require.NoError(t, s.Close())

	configFile := filepath.Join(dir, "booknav.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte(fmt.Sprintf(`
logging:
  level: none
store:
  driver: sqlite
  dsn: %q
`, dbPath)), 0o600))
	return configFile
}

func run(t *testing.T, args ...string) string {
	t.Helper()
	tocMode, tocDump = string(navigation.ModeReadable), false
	navPrevious, navComments, navFrontPage, pageRender = false, false, false, false

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func TestTOCCommand(t *testing.T) {
	configFile := seedBook(t)

	out := run(t, "toc", "--config", configFile)
	assert.Contains(t, out, "i ")
	assert.Contains(t, out, "First")
	assert.Contains(t, out, "Second")
	assert.NotContains(t, out, "Cover")

	out = run(t, "toc", "--config", configFile, "--mode", "structural", "--dump")
	assert.Contains(t, out, "vo.TOC")
}

func TestNavCommand(t *testing.T) {
	configFile := seedBook(t)

	out := run(t, "nav", "p1", "--config", configFile)
	assert.Contains(t, out, `"id": "p2"`)

	out = run(t, "nav", "p1", "--config", configFile, "--previous")
	assert.Contains(t, out, `"id": "cover"`)

	out = run(t, "page", "--config", configFile, "--front-page")
	assert.Contains(t, out, `"id": "cover"`)
	assert.Contains(t, out, `"next"`)
}
