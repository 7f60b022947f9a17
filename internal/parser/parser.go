package parser

// Parser turns markup found in product payloads into plain values.
type Parser interface {
	LooksLikeHTML(s string) bool
	Text(html string) (string, error)
}
