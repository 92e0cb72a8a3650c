package usecase

import (
	"fmt"
	"html"
	"regexp"
	"strings"
	"time"
)

// Meta holds the SEO and Open Graph values injected into a snapshot.
type Meta struct {
	Description string
	Keywords    string
	Author      string
	Title       string
	URL         string
}

// PostProcessOptions controls how a captured page becomes a standalone file.
type PostProcessOptions struct {
	// BaseHref replaces the page's <base href>; empty leaves it alone.
	BaseHref string
	// Stylesheet is CSS inlined in place of the first stylesheet link.
	Stylesheet  string
	Meta        Meta
	GeneratedAt time.Time
}

const (
	doctype         = "<!DOCTYPE html>"
	generatorMarker = `<meta name="generator" content="cv-site">`
)

var (
	baseHrefRe   = regexp.MustCompile(`(?i)<base\s+href="[^"]*"\s*/?>`)
	stylesheetRe = regexp.MustCompile(`(?i)<link\s+rel="stylesheet"\s+href="[^"]*"\s*/?>`)
	headCloseRe  = regexp.MustCompile(`(?i)</head>`)
)

// PostProcess turns a rendered page into a deployable static document.
// Running it twice yields the same result as running it once.
func PostProcess(page string, o PostProcessOptions) string {
	out := strings.TrimLeft(page, " \t\r\n")
	if !hasDoctype(out) {
		out = doctype + "\n" + out
	}

	if o.BaseHref != "" {
		out = baseHrefRe.ReplaceAllLiteralString(out, fmt.Sprintf(`<base href="%s">`, html.EscapeString(o.BaseHref)))
	}

	if o.Stylesheet != "" {
		if loc := stylesheetRe.FindStringIndex(out); loc != nil {
			out = out[:loc[0]] + "<style>\n" + o.Stylesheet + "\n</style>" + out[loc[1]:]
		}
	}

	if strings.Contains(out, generatorMarker) {
		return out
	}
	if loc := headCloseRe.FindStringIndex(out); loc != nil {
		out = out[:loc[0]] + metaTags(o.Meta) + out[loc[0]:]
	}

	generated := o.GeneratedAt
	if generated.IsZero() {
		generated = time.Now()
	}
	comment := fmt.Sprintf("\n<!--\n  Statically generated snapshot of the CV page.\n  Generated on: %s\n-->", generated.UTC().Format(time.RFC3339))
	i := len(doctypePrefix(out))
	return out[:i] + comment + out[i:]
}

func hasDoctype(s string) bool {
	return len(s) >= 9 && strings.EqualFold(s[:9], "<!doctype")
}

// doctypePrefix returns the doctype declaration at the start of s.
func doctypePrefix(s string) string {
	if !hasDoctype(s) {
		return ""
	}
	if end := strings.IndexByte(s, '>'); end >= 0 {
		return s[:end+1]
	}
	return ""
}

func metaTags(m Meta) string {
	var b strings.Builder
	b.WriteString("\n  " + generatorMarker)
	tag := func(attr, key, value string) {
		if value == "" {
			return
		}
		fmt.Fprintf(&b, "\n  <meta %s=\"%s\" content=\"%s\">", attr, key, html.EscapeString(value))
	}
	tag("name", "description", m.Description)
	tag("name", "keywords", m.Keywords)
	tag("name", "author", m.Author)
	tag("property", "og:title", m.Title)
	tag("property", "og:description", m.Description)
	if m.Title != "" || m.Description != "" {
		tag("property", "og:type", "website")
	}
	tag("property", "og:url", m.URL)
	b.WriteString("\n")
	return b.String()
}
