package dashboard

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/CharlesIC/fourth-wall/internal/domain"
	"github.com/CharlesIC/fourth-wall/internal/pulls"
)

// Renderer handles rendering responses to HTTP clients.
type Renderer interface {
	RenderList(w io.Writer, page Page) error
	RenderHealth(w io.Writer) error
	RenderJSON(w io.Writer, v any) error
}

// Page is what the list view needs for one render.
type Page struct {
	Items          []domain.ListItem
	Stylesheet     string
	Policy         pulls.Policy
	RefreshSeconds int
}

// HTMLRenderer implements Renderer for HTML responses.
type HTMLRenderer struct{}

// NewHTMLRenderer creates a new HTML renderer.
func NewHTMLRenderer() *HTMLRenderer {
	return &HTMLRenderer{}
}

// RenderList writes the wall. Items missing their payload are skipped.
func (r *HTMLRenderer) RenderList(w io.Writer, page Page) error {
	var b strings.Builder
	b.WriteString(htmlHead("Fourth Wall", page.Stylesheet, page.RefreshSeconds))
	b.WriteString("\n<body>\n\t<ul id=\"pulls\">\n")

	rendered := 0
	for _, item := range page.Items {
		var li string
		switch item.Kind {
		case domain.ItemMaster:
			li = r.masterItem(item.Master)
		case domain.ItemPull:
			li = r.pullItem(item.Pull, page.Policy)
		}
		if li == "" {
			continue
		}
		b.WriteString(li)
		rendered++
	}
	b.WriteString("\t</ul>\n")

	if rendered == 0 {
		b.WriteString("\t<p id=\"all-quiet\">All quiet</p>\n")
	}
	b.WriteString(htmlFooter())

	_, err := io.WriteString(w, b.String())
	return err
}

func (r *HTMLRenderer) masterItem(m *domain.MasterStatus) string {
	if m == nil {
		return ""
	}
	title := escapeHTML(fmt.Sprintf("%s is %s", m.Branch, m.State))
	if m.TargetURL != "" {
		title = externalLink(m.TargetURL, title)
	}
	return fmt.Sprintf(`		<li class="master">
			<p class="status %s">Status: %s</p>
			<h2 class="repo-name">%s</h2>
			<p class="pr-url">%s</p>
		</li>
`, escapeHTML(string(m.State)), escapeHTML(string(m.State)), escapeHTML(m.Repo), title)
}

func (r *HTMLRenderer) pullItem(p *domain.PullRequest, policy pulls.Policy) string {
	if p == nil || p.User == nil || policy.IsHidden(p) {
		return ""
	}

	statusClass, statusText := pulls.StatusLine(p)
	elapsed := ""
	if p.ElapsedTime != nil {
		elapsed = pulls.FormatElapsed(*p.ElapsedTime)
	}
	assignee := ""
	if p.Assignee != nil {
		assignee = " under review by " + escapeHTML(p.Assignee.Login)
	}

	link := externalLink(p.HTMLURL, fmt.Sprintf(`<span class="username">%s</span>: %s (#%d)`,
		escapeHTML(p.User.Login), escapeHTML(p.Title), p.Number))

	return fmt.Sprintf(`		<li class="%s">
			<img class="avatar" src="%s" alt="">
			<p class="status %s">%s</p>
			<h2 class="repo-name">%s</h2>
			<div class="elapsed-time" data-created-at="%s">%s</div>
			<p class="pr-url">%s%s</p>
			<p class="reviews">%s</p>
		</li>
`,
		strings.Join(policy.Classes(p), " "),
		escapeHTML(p.User.AvatarURL),
		escapeHTML(statusClass), escapeHTML(statusText),
		escapeHTML(p.Repo),
		p.CreatedAt.Format("2006-01-02T15:04:05Z07:00"), elapsed,
		link, assignee,
		reviewMarkers(p.Reviews))
}

func reviewMarkers(s domain.ReviewSummary) string {
	var b strings.Builder
	if s.Comments > 0 {
		fmt.Fprintf(&b, `<span class="review-marker">&#x1F4AC;%d</span>`, s.Comments)
	}
	if s.Approvals > 0 {
		fmt.Fprintf(&b, `<span class="review-marker">&#x2705;%d</span>`, s.Approvals)
	}
	if s.ChangesRequested > 0 {
		fmt.Fprintf(&b, `<span class="review-marker">&#x274C;%d</span>`, s.ChangesRequested)
	}
	return b.String()
}

func (r *HTMLRenderer) RenderHealth(w io.Writer) error {
	_, err := w.Write([]byte(`{"status":"ok"}`))
	return err
}

func (r *HTMLRenderer) RenderJSON(w io.Writer, v any) error {
	return json.NewEncoder(w).Encode(v)
}
