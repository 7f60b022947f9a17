package parser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

type HTMLParser struct {
	tagPattern   *regexp.Regexp
	spacePattern *regexp.Regexp
	blockTags    string
	dropTags     string
}

func NewHTMLParser() *HTMLParser {
	return &HTMLParser{
		tagPattern:   regexp.MustCompile(`(?i)<\s*/?\s*[a-z][a-z0-9]*(\s[^>]*)?/?>`),
		spacePattern: regexp.MustCompile(`\s+`),
		blockTags:    "p, div, br, li, ul, ol, tr, td, th, h1, h2, h3, h4, h5, h6, section, article",
		dropTags:     "script, style, noscript, iframe",
	}
}

// LooksLikeHTML reports whether s contains at least one tag.
func (p *HTMLParser) LooksLikeHTML(s string) bool {
	return p.tagPattern.MatchString(s)
}

// Text strips markup, keeping block boundaries as single spaces.
func (p *HTMLParser) Text(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find(p.dropTags).Remove()
	doc.Find(p.blockTags).Each(func(i int, s *goquery.Selection) {
		s.AfterHtml("\n")
	})

	text := p.spacePattern.ReplaceAllString(doc.Text(), " ")
	return strings.TrimSpace(text), nil
}

// CleanText returns plain text for s when it holds markup, otherwise s.
// Parse failures keep the input.
func CleanText(p Parser, s string) string {
	if p == nil || !p.LooksLikeHTML(s) {
		return s
	}
	text, err := p.Text(s)
	if err != nil {
		return s
	}
	return text
}
