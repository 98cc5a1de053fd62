package view

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	goBlog "github.com/MrEthical07/goBlog"
	"github.com/charmbracelet/lipgloss"
)

// Styles groups the lipgloss styles used by the terminal front-end.
type Styles struct {
	Title   lipgloss.Style
	Muted   lipgloss.Style
	Label   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Border  lipgloss.Style
}

// NewStyles builds styles bound to r so color output follows r's writer.
func NewStyles(r *lipgloss.Renderer) Styles {
	return Styles{
		Title:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("63")),
		Muted:   r.NewStyle().Foreground(lipgloss.Color("241")),
		Label:   r.NewStyle().Bold(true),
		Success: r.NewStyle().Foreground(lipgloss.Color("42")),
		Warning: r.NewStyle().Foreground(lipgloss.Color("214")),
		Error:   r.NewStyle().Foreground(lipgloss.Color("196")),
		Border: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1),
	}
}

// Printer renders pages to a writer.
type Printer struct {
	out    io.Writer
	styles Styles
}

func NewPrinter(w io.Writer) *Printer {
	return &Printer{out: w, styles: NewStyles(lipgloss.NewRenderer(w))}
}

func (p *Printer) Styles() Styles { return p.styles }

// List renders the home screen.
func (p *Printer) List(page ListPage) {
	var b strings.Builder
	b.WriteString(p.styles.Title.Render("Welcome to the Blog"))
	b.WriteString("\n")
	b.WriteString(p.session(page.Session))
	b.WriteString("\n\n")

	if len(page.Posts) == 0 {
		b.WriteString(p.styles.Muted.Render("No posts yet."))
		b.WriteString("\n")
	}
	for _, post := range page.Posts {
		b.WriteString(p.styles.Label.Render("#" + strconv.FormatInt(post.ID, 10) + " " + post.Title))
		b.WriteString("\n")
		b.WriteString("  Author: " + post.Author)
		if !post.CreatedAt.IsZero() {
			b.WriteString(p.styles.Muted.Render("  " + post.CreatedAt.Format("2006-01-02")))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(p.actions(page.Actions))
	b.WriteString("\n")
	fmt.Fprint(p.out, b.String())
}

// Detail renders a single post.
func (p *Printer) Detail(page DetailPage) {
	if page.Post == nil {
		fmt.Fprintln(p.out, p.styles.Muted.Render("Post unavailable."))
		return
	}
	post := page.Post

	var body strings.Builder
	body.WriteString(p.styles.Title.Render(post.Title))
	body.WriteString("\n")
	body.WriteString(p.styles.Muted.Render(fmt.Sprintf("#%d by %s", post.ID, post.Author)))
	body.WriteString("\n\n")
	body.WriteString(post.Content)

	fmt.Fprintln(p.out, p.styles.Border.Render(body.String()))
	fmt.Fprintln(p.out, p.session(page.Session))
	fmt.Fprintln(p.out, p.actions(page.Actions))
}

// Session renders the session line alone.
func (p *Printer) Session(state goBlog.SessionState) {
	fmt.Fprintln(p.out, p.session(state))
}

func (p *Printer) session(state goBlog.SessionState) string {
	user, ok := state.User()
	if !ok {
		return p.styles.Muted.Render("Not logged in.")
	}
	return "Logged in as " + p.styles.Label.Render(user.Username) + p.styles.Muted.Render(" <"+user.Email+">")
}

func (p *Printer) actions(a Actions) string {
	entries := []struct {
		name string
		vis  Visibility
	}{
		{"login", a.Login},
		{"register", a.Register},
		{"create", a.Create},
		{"edit", a.Edit},
		{"delete", a.Delete},
		{"logout", a.Logout},
	}

	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		switch e.vis {
		case Visible:
			parts = append(parts, e.name)
		case Gated:
			parts = append(parts, p.styles.Muted.Render(e.name+" (login required)"))
		}
	}
	return p.styles.Muted.Render("Actions: ") + strings.Join(parts, ", ")
}

// Metrics renders counters by name, sorted as given.
func (p *Printer) Metrics(rows []MetricRow) {
	width := 0
	for _, r := range rows {
		width = max(width, len(r.Name))
	}
	for _, r := range rows {
		pad := strings.Repeat(" ", width-len(r.Name))
		fmt.Fprintf(p.out, "%s%s %s\n", p.styles.Label.Render(r.Name), pad, r.Value)
	}
}

// MetricRow is one rendered metric.
type MetricRow struct {
	Name  string
	Value string
}
