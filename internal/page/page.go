// Package page wraps a parsed HTML document: it reads the <repos> markers and
// exposes the render container the tables are written into.
package page

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"
	"golang.org/x/net/html"

	"github.com/maxviazov/recent-repos/internal/config"
	"github.com/maxviazov/recent-repos/internal/model"
	"github.com/maxviazov/recent-repos/internal/render"
)

var (
	ErrInvalidDocument   = errors.New("invalid html document")
	ErrContainerNotFound = errors.New("render container not found")
	ErrTooLarge          = errors.New("html document too large")
)

// Document is one parsed page. It is not safe for concurrent mutation.
type Document struct {
	doc *goquery.Document
	cfg config.PageConfig
}

// Parse reads a whole HTML document from r.
func Parse(r io.Reader, cfg config.PageConfig) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	return &Document{doc: doc, cfg: cfg}, nil
}

// Markers returns one (user, cutoff) pair per distinct user, ordered by the
// user's first marker. A later marker for the same user replaces the cutoff.
// Markers missing either attribute are logged and skipped.
func (d *Document) Markers(log zerolog.Logger) []model.Marker {
	markers := make([]model.Marker, 0)
	seen := make(map[string]int)

	d.doc.Find(d.cfg.MarkerTag).Each(func(i int, s *goquery.Selection) {
		user, _ := s.Attr(d.cfg.UserAttr)
		cutoff, _ := s.Attr(d.cfg.CutoffAttr)
		cutoff = strings.TrimSpace(cutoff)

		// user is opaque: blank counts as missing, anything else is kept verbatim
		var missing []string
		if strings.TrimSpace(user) == "" {
			missing = append(missing, d.cfg.UserAttr)
		}
		if cutoff == "" {
			missing = append(missing, d.cfg.CutoffAttr)
		}
		if len(missing) > 0 {
			log.Warn().Int("marker_index", i).Strs("missing", missing).Msg("marker skipped")
			return
		}

		if pos, ok := seen[user]; ok {
			log.Debug().Str("user", user).Str("previous_cutoff", markers[pos].Cutoff).Str("cutoff", cutoff).Msg("duplicate marker overrides cutoff")
			markers[pos].Cutoff = cutoff
			return
		}
		seen[user] = len(markers)
		markers = append(markers, model.Marker{User: user, Cutoff: cutoff})
	})

	return markers
}

// Container looks up the render container by its id attribute.
func (d *Document) Container() (*Container, error) {
	want := d.cfg.ContainerID
	sel := d.doc.Find("[id]").FilterFunction(func(_ int, s *goquery.Selection) bool {
		id, _ := s.Attr("id")
		return id == want
	}).First()
	if sel.Length() == 0 {
		return nil, fmt.Errorf("%w: #%s", ErrContainerNotFound, want)
	}
	return &Container{sel: sel}, nil
}

// RenderContainer is Container behind the render.Container port.
func (d *Document) RenderContainer() (render.Container, error) {
	c, err := d.Container()
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Render serializes the whole document, including any rendered tables.
func (d *Document) Render(w io.Writer) error {
	for _, n := range d.doc.Nodes {
		if err := html.Render(w, n); err != nil {
			return err
		}
	}
	return nil
}

// Container is the goquery-backed render container.
type Container struct {
	sel *goquery.Selection
}

func (c *Container) IsEmpty() bool {
	return c.sel.Nodes[0].FirstChild == nil
}

// Clear removes every child node. Clearing an empty container is a no-op.
func (c *Container) Clear() {
	c.sel.Empty()
}

func (c *Container) Append(nodes ...*html.Node) {
	c.sel.AppendNodes(nodes...)
}

// HTML returns the container's inner HTML.
func (c *Container) HTML() (string, error) {
	return c.sel.Html()
}
