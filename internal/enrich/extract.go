// Package enrich fills in product descriptions from the product's own web page.
package enrich

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	// MaxDescription caps an extracted description, in characters.
	MaxDescription = 2000

	// metaGoodEnough is the length at which a meta description is used as-is.
	metaGoodEnough = 100
	minFragment    = 60
	maxFragment    = 500
	fragmentJoiner = ". "
)

var (
	metaDescRe = regexp.MustCompile(`(?is)<meta\s+name=["']description["']\s+content=["'](.*?)["']`)
	ogDescRe   = regexp.MustCompile(`(?is)<meta\s+property=["']og:description["']\s+content=["'](.*?)["']`)
	mainRe     = regexp.MustCompile(`(?is)<main[^>]*>(.*?)</main>`)
	articleRe  = regexp.MustCompile(`(?is)<article[^>]*>(.*?)</article>`)
	blockRe    = regexp.MustCompile(`(?is)<p[^>]*>([^<]+?)</p>|<div[^>]*>([^<]+?)</div>|<li[^>]*>([^<]+?)</li>`)
	tagRe      = regexp.MustCompile(`<[^>]+>`)
	spaceRe    = regexp.MustCompile(`\s+`)
)

// ExtractDescription pulls a human-readable description out of an HTML page.
// The meta description (or og:description) wins when it is at least 100
// characters; otherwise text blocks from <main>, <article> or the whole page
// are joined, and the longer of the two is kept. The result has entities
// &nbsp; and &amp; decoded, whitespace collapsed, and is capped at 2000
// characters. It returns "" when nothing usable is found.
func ExtractDescription(html string) string {
	var desc string
	if m := metaDescRe.FindStringSubmatch(html); m != nil {
		desc = m[1]
	} else if m := ogDescRe.FindStringSubmatch(html); m != nil {
		desc = m[1]
	}

	if utf8.RuneCountInString(desc) < metaGoodEnough {
		if body := bodyText(html); utf8.RuneCountInString(body) > utf8.RuneCountInString(desc) {
			desc = body
		}
	}

	desc = strings.ReplaceAll(desc, "&nbsp;", " ")
	desc = strings.ReplaceAll(desc, "&amp;", "&")
	desc = strings.TrimSpace(spaceRe.ReplaceAllString(desc, " "))
	return truncate(desc, MaxDescription)
}

func bodyText(html string) string {
	source := html
	if m := mainRe.FindStringSubmatch(html); m != nil {
		source = m[1]
	} else if m := articleRe.FindStringSubmatch(html); m != nil {
		source = m[1]
	}

	var parts []string
	for _, m := range blockRe.FindAllStringSubmatch(source, -1) {
		text := m[1] + m[2] + m[3]
		text = strings.TrimSpace(tagRe.ReplaceAllString(text, ""))
		if n := utf8.RuneCountInString(text); n > minFragment && n < maxFragment {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, fragmentJoiner)
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n])
}
