// Package bodytext accumulates checklist-style relationship text (epics,
// blocking issues, linked issues and pull requests) per target document
// and flushes each document's body exactly once at the end of a run. Only
// a single delimited region of the body is rewritten; everything before it
// and any unrelated trailing headings are preserved.
package bodytext

import (
	"context"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/pretagov/projectsmigrator/pkg/logging"
	"github.com/pretagov/projectsmigrator/pkg/projects"
)

// DefaultHeading is the top-level heading delimiting the managed region.
const DefaultHeading = "Dependencies"

// BodyReadWriter is the slice of the target system the aggregator needs:
// a fresh body read and a body write.
type BodyReadWriter interface {
	IssueOrPullRequest(ctx context.Context, id projects.Identity) (*projects.Content, error)
	UpdateBody(ctx context.Context, content *projects.Content, body string) error
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithHeading overrides the heading delimiting the managed body region.
func WithHeading(heading string) Option {
	return func(a *Aggregator) { a.heading = heading }
}

// WithDryRun makes Flush report what it would write without writing.
func WithDryRun(dryRun bool) Option {
	return func(a *Aggregator) { a.dryRun = dryRun }
}

// Aggregator buffers relationship lines per document until Flush.
type Aggregator struct {
	heading string
	owner   string // organization performing the sync; cross-org guard
	dryRun  bool
	titler  cases.Caser
	docs    map[string]*buffer // keyed by content URL
	order   []string
}

// buffer holds one document's pending sections in insertion order.
type buffer struct {
	content *projects.Content
	titles  []string
	lines   map[string][]string
}

// New returns an aggregator for documents owned by the given organization.
func New(owner string, opts ...Option) *Aggregator {
	a := &Aggregator{
		heading: DefaultHeading,
		owner:   owner,
		titler:  cases.Title(language.English),
		docs:    make(map[string]*buffer),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Add appends a checklist line under a relationship title for the given
// document. Lines are deduplicated exactly; documents owned by a different
// organization are never touched. Reports whether the line was recorded.
func (a *Aggregator) Add(content *projects.Content, title, line string) bool {
	if content == nil {
		return false
	}
	if !projects.SameOwner(content.Identity.Owner, a.owner) {
		logging.Info().
			Str("item", content.Identity.String()).
			Str("url", content.URL).
			Msg("SKIP text update, different organization")
		return false
	}
	buf, ok := a.docs[content.URL]
	if !ok {
		buf = &buffer{content: content, lines: make(map[string][]string)}
		a.docs[content.URL] = buf
		a.order = append(a.order, content.URL)
	}
	title = a.titler.String(title)
	existing, seen := buf.lines[title]
	if !seen {
		buf.titles = append(buf.titles, title)
	}
	for _, l := range existing {
		if l == line {
			// linked PRs in particular are reachable twice
			return false
		}
	}
	buf.lines[title] = append(existing, line)
	return true
}

// Pending returns the number of documents with buffered lines.
func (a *Aggregator) Pending() int { return len(a.docs) }

// Flush rewrites each buffered document's managed region exactly once, in
// the order documents were first touched. The current body is re-read so
// concurrent edits outside the region survive, and a write is issued only
// when the spliced body differs. Per-document failures are reported and
// skipped; Flush itself never aborts the run.
func (a *Aggregator) Flush(ctx context.Context, rw BodyReadWriter) (updated int) {
	for _, url := range a.order {
		buf := a.docs[url]
		fresh, err := rw.IssueOrPullRequest(ctx, buf.content.Identity)
		if err != nil {
			logging.Err(err).Str("item", buf.content.Identity.String()).Msg("body read failed")
			continue
		}
		newBody := Splice(fresh.Body, a.heading, buf.sections())
		if newBody == fresh.Body {
			logging.Info().Str("title", fresh.Title).Msg("body SKIPPED, no change")
			continue
		}
		if a.dryRun {
			logging.Info().Str("title", fresh.Title).Msg("body UPDATE (dry run)")
			updated++
			continue
		}
		if err := rw.UpdateBody(ctx, fresh, newBody); err != nil {
			logging.Err(err).Str("item", buf.content.Identity.String()).Msg("body write failed")
			continue
		}
		logging.Info().Str("title", fresh.Title).Msg("body UPDATED")
		updated++
	}
	return updated
}

// sections returns the buffered sections in insertion order.
func (b *buffer) sections() []Section {
	out := make([]Section, 0, len(b.titles))
	for _, title := range b.titles {
		out = append(out, Section{Title: title, Lines: b.lines[title]})
	}
	return out
}

// Section is one titled list of checklist lines.
type Section struct {
	Title string
	Lines []string
}

// Render produces the managed region's text, including its top-level
// heading, with CRLF line endings as GitHub stores them. Empty sections
// are omitted; no sections at all renders as "".
func Render(heading string, sections []Section) string {
	var sb strings.Builder
	for _, s := range sections {
		if len(s.Lines) == 0 {
			continue
		}
		sb.WriteString("\n## " + s.Title + "\n")
		for _, line := range s.Lines {
			sb.WriteString("\n" + line)
		}
	}
	if sb.Len() == 0 {
		return ""
	}
	text := "\n# " + heading + "\n" + sb.String()
	return strings.ReplaceAll(text, "\n", "\r\n")
}

// Splice replaces the managed region of body with the rendered sections.
// The region starts at the heading and runs to the next top-level heading
// or the end of the body; content on either side is preserved.
func Splice(body, heading string, sections []Section) string {
	sep := "\r\n# " + heading + "\r\n"
	prefix, rest, found := strings.Cut(body, sep)
	if !found {
		rest = ""
	} else if at := strings.Index(rest, "\r\n# "); at >= 0 {
		rest = rest[at:]
	} else {
		rest = ""
	}
	return prefix + Render(heading, sections) + rest
}
