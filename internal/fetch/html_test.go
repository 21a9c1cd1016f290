package fetch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTMLToText(t *testing.T) {
	tests := []struct {
		name     string
		html     string
		expected string
	}{
		{
			name:     "empty",
			html:     "   ",
			expected: "",
		},
		{
			name:     "paragraphs",
			html:     "<p>Build   APIs</p><p>Ship\n features</p>",
			expected: "Build APIs\nShip features",
		},
		{
			name:     "source newlines are whitespace",
			html:     "<p>Strong knowledge of\n  Go and\r\n\tPostgreSQL</p>\n<ul>\n  <li>Remote\n work</li>\n</ul>",
			expected: "Strong knowledge of Go and PostgreSQL\n• Remote work",
		},
		{
			name:     "list items get bullets",
			html:     "<ul><li>Laptop</li><li>13th month salary</li></ul>",
			expected: "• Laptop\n• 13th month salary",
		},
		{
			name:     "scripts removed",
			html:     "<p>Visible</p><script>alert(1)</script><style>p{}</style>",
			expected: "Visible",
		},
		{
			name:     "line breaks",
			html:     "Go<br>SQL<br/>Docker",
			expected: "Go\nSQL\nDocker",
		},
		{
			name:     "plain text passes through",
			html:     "No markup at all",
			expected: "No markup at all",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, err := HTMLToText(tt.html)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, text)
		})
	}
}

func TestCleanWhitespace(t *testing.T) {
	input := "  Hello   World  \n\n\n  Another   line  \n   \n"
	assert.Equal(t, "Hello World\nAnother line", cleanWhitespace(input))
}
