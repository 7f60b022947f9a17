package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestText(t *testing.T) {
	p := NewHTMLParser()

	tests := []struct {
		name     string
		html     string
		expected string
	}{
		{
			name:     "shopify body",
			html:     `<p>Soft <strong>cotton</strong> tee.</p><ul><li>Breathable</li><li>Machine wash</li></ul>`,
			expected: "Soft cotton tee. Breathable Machine wash",
		},
		{
			name:     "line breaks and entities",
			html:     `Fits true<br>to size &amp; stretches`,
			expected: "Fits true to size & stretches",
		},
		{
			name:     "scripts are dropped",
			html:     `<div>Visible</div><script>alert(1)</script><style>p{}</style>`,
			expected: "Visible",
		},
		{
			name:     "plain text",
			html:     "  just   words ",
			expected: "just words",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.Text(tt.html)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestLooksLikeHTML(t *testing.T) {
	p := NewHTMLParser()

	assert.True(t, p.LooksLikeHTML("<p>x</p>"))
	assert.True(t, p.LooksLikeHTML("line<br/>break"))
	assert.True(t, p.LooksLikeHTML(`<img src="a.jpg">`))
	assert.False(t, p.LooksLikeHTML("5 < 6 and 7 > 3"))
	assert.False(t, p.LooksLikeHTML("plain description"))
}

func TestCleanText(t *testing.T) {
	p := NewHTMLParser()

	assert.Equal(t, "Bold claim", CleanText(p, "<b>Bold</b> claim"))
	assert.Equal(t, "no markup", CleanText(p, "no markup"))
	assert.Equal(t, "<b>kept</b>", CleanText(nil, "<b>kept</b>"))
}
