// Package render turns filtered repository sets into HTML tables and appends
// them to a render container.
package render

import (
	"fmt"
	"sync"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/maxviazov/recent-repos/internal/model"
)

// Container is the page region that owns all rendered output.
// Implementations don't need to be safe for concurrent use; Renderer serializes access.
type Container interface {
	IsEmpty() bool
	Clear()
	Append(nodes ...*html.Node)
}

// Column headers of every table, in order.
var Columns = [...]string{"Repo Name", "Repo Description", "Last Update", "Link"}

const cloneLinkLabel = "Clone link"

// Renderer appends tables to one container. It is shared by all chains of a run.
type Renderer struct {
	mu        sync.Mutex
	container Container
	users     []string
}

func New(c Container) *Renderer {
	return &Renderer{container: c}
}

// Render appends the table for t, preceded by a separator when the container
// already holds content. Separator and table land in one critical section.
func (r *Renderer) Render(t model.UserTable) {
	section := Section(t)

	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.container.IsEmpty() {
		r.container.Append(Separator()...)
	}
	r.container.Append(section)
	r.users = append(r.users, t.User)
}

// Users returns the users whose tables were appended, in container order.
func (r *Renderer) Users() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.users...)
}

// Separator is the visual break inserted between consecutive tables.
func Separator() []*html.Node {
	return []*html.Node{element(atom.Br, nil), element(atom.Hr, nil)}
}

// Section builds <div><h4>label</h4><table>…</table></div> for one user.
func Section(t model.UserTable) *html.Node {
	header := element(atom.Tr, nil)
	for _, col := range Columns {
		header.AppendChild(element(atom.Th, nil, text(col)))
	}

	tbody := element(atom.Tbody, attrs("id", "tbody"+t.User), header)
	for _, repo := range t.Repositories {
		tbody.AppendChild(Row(repo))
	}

	return element(atom.Div, nil,
		element(atom.H4, nil, text(fmt.Sprintf("Repos by: %s, updated later than %s:", t.User, t.Cutoff))),
		element(atom.Table, attrs("id", "table"+t.User), tbody),
	)
}

// Row renders a single repository: name, description, update date and clone link.
func Row(repo model.Repository) *html.Node {
	return element(atom.Tr, nil,
		element(atom.Td, nil, text(repo.Name)),
		element(atom.Td, nil, text(repo.DescriptionText())),
		element(atom.Td, nil, text(DateOnly(repo.UpdatedAt))),
		element(atom.Td, nil, element(atom.A, attrs("href", repo.CloneURL), text(cloneLinkLabel))),
	)
}

// DateOnly keeps the calendar-date part (YYYY-MM-DD) of an ISO-8601 timestamp.
func DateOnly(ts string) string {
	if len(ts) > 10 {
		return ts[:10]
	}
	return ts
}

func element(a atom.Atom, attr []html.Attribute, children ...*html.Node) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String(), Attr: attr}
	for _, c := range children {
		n.AppendChild(c)
	}
	return n
}

func attrs(kv ...string) []html.Attribute {
	out := make([]html.Attribute, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		out = append(out, html.Attribute{Key: kv[i], Val: kv[i+1]})
	}
	return out
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}
