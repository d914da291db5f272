package page_test

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/maxviazov/recent-repos/internal/config"
	"github.com/maxviazov/recent-repos/internal/model"
	"github.com/maxviazov/recent-repos/internal/page"
)

var pageCfg = config.PageConfig{
	MarkerTag:   "repos",
	UserAttr:    "data-user",
	CutoffAttr:  "data-update",
	ContainerID: "repos",
}

func parse(t *testing.T, src string) *page.Document {
	t.Helper()
	doc, err := page.Parse(strings.NewReader(src), pageCfg)
	require.NoError(t, err)
	return doc
}

func TestMarkers_InDocumentOrder(t *testing.T) {
	doc := parse(t, `<html><body><div id="repos">
		<repos data-user="alice" data-update="2024-01-01"></repos>
		<repos data-user="bob" data-update="2023-06-01T10:00:00Z"></repos>
	</div></body></html>`)

	got := doc.Markers(zerolog.Nop())

	assert.Equal(t, []model.Marker{
		{User: "alice", Cutoff: "2024-01-01"},
		{User: "bob", Cutoff: "2023-06-01T10:00:00Z"},
	}, got)
}

func TestMarkers_DuplicateUserLastWins(t *testing.T) {
	doc := parse(t, `<div id="repos">
		<repos data-user="alice" data-update="2020-01-01"></repos>
		<repos data-user="bob" data-update="2021-01-01"></repos>
		<repos data-user="alice" data-update="2024-01-01"></repos>
	</div>`)

	got := doc.Markers(zerolog.Nop())

	assert.Equal(t, []model.Marker{
		{User: "alice", Cutoff: "2024-01-01"},
		{User: "bob", Cutoff: "2021-01-01"},
	}, got)
}

func TestMarkers_MissingAttributesSkippedAndLogged(t *testing.T) {
	doc := parse(t, `<div id="repos">
		<repos data-update="2020-01-01"></repos>
		<repos data-user="carol"></repos>
		<repos data-user="  " data-update="2020-01-01"></repos>
		<repos data-user="dave" data-update="2022-02-02"></repos>
	</div>`)

	var logs bytes.Buffer
	got := doc.Markers(zerolog.New(&logs))

	assert.Equal(t, []model.Marker{{User: "dave", Cutoff: "2022-02-02"}}, got)
	assert.Equal(t, 3, strings.Count(logs.String(), "marker skipped"))
}

func TestMarkers_UserKeptVerbatim(t *testing.T) {
	doc := parse(t, `<div id="repos">
		<repos data-user=" alice " data-update=" 2024-01-01 "></repos>
		<repos data-user="alice" data-update="2020-01-01"></repos>
	</div>`)

	got := doc.Markers(zerolog.Nop())

	assert.Equal(t, []model.Marker{
		{User: " alice ", Cutoff: "2024-01-01"},
		{User: "alice", Cutoff: "2020-01-01"},
	}, got)
}

func TestMarkers_EmptyPage(t *testing.T) {
	doc := parse(t, `<html><body><div id="repos"></div></body></html>`)
	got := doc.Markers(zerolog.Nop())
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestContainer_NotFound(t *testing.T) {
	doc := parse(t, `<html><body><div id="other"></div></body></html>`)
	_, err := doc.Container()
	assert.True(t, errors.Is(err, page.ErrContainerNotFound), "got %v", err)

	_, err = doc.RenderContainer()
	assert.True(t, errors.Is(err, page.ErrContainerNotFound), "got %v", err)
}

func TestContainer_ClearIsIdempotent(t *testing.T) {
	doc := parse(t, `<div id="repos"><repos data-user="a" data-update="2020-01-01"></repos> text</div><p>kept</p>`)
	c, err := doc.Container()
	require.NoError(t, err)
	require.False(t, c.IsEmpty())

	c.Clear()
	assert.True(t, c.IsEmpty())
	c.Clear()
	assert.True(t, c.IsEmpty())

	inner, err := c.HTML()
	require.NoError(t, err)
	assert.Equal(t, "", inner)

	var out bytes.Buffer
	require.NoError(t, doc.Render(&out))
	assert.Contains(t, out.String(), `<div id="repos"></div>`)
	assert.Contains(t, out.String(), "<p>kept</p>")
}

func TestContainer_AppendSerializes(t *testing.T) {
	doc := parse(t, `<div id="repos"></div>`)
	c, err := doc.Container()
	require.NoError(t, err)

	hr := &html.Node{Type: html.ElementNode, DataAtom: atom.Hr, Data: "hr"}
	c.Append(hr)
	assert.False(t, c.IsEmpty())

	inner, err := c.HTML()
	require.NoError(t, err)
	assert.Equal(t, "<hr/>", inner)
}

func TestContainer_CustomID(t *testing.T) {
	cfg := pageCfg
	cfg.ContainerID = "my.projects"
	doc, err := page.Parse(strings.NewReader(`<section id="my.projects">x</section>`), cfg)
	require.NoError(t, err)

	c, err := doc.Container()
	require.NoError(t, err)
	assert.False(t, c.IsEmpty())
}

func TestParse_ReaderError(t *testing.T) {
	_, err := page.Parse(io.MultiReader(strings.NewReader("<p>"), errReader{}), pageCfg)
	assert.True(t, errors.Is(err, page.ErrInvalidDocument), "got %v", err)
}

type errReader struct{}

func (errReader) Read([]byte) (int, error) { return 0, errors.New("disk on fire") }

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<p>hi</p>"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))

	f, err := page.Open(dir, "index.html")
	require.NoError(t, err)
	_ = f.Close()

	for _, name := range []string{"", "missing.html", "../index.html", "sub", ".hidden", `a\b`} {
		t.Run(name, func(t *testing.T) {
			_, err := page.Open(dir, name)
			assert.True(t, errors.Is(err, page.ErrNotFound), "got %v", err)
		})
	}
}
