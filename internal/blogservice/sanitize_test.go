package blogservice

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeBody(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "no script tag",
			input: "A perfectly ordinary blog body.",
			want:  "A perfectly ordinary blog body.",
		},
		{
			name:  "script tag",
			input: "<script>alert('hi');</script>",
			want:  "",
		},
		{
			name:  "script tag with attributes",
			input: `before <SCRIPT SRC="evil.js"></SCRIPT> after`,
			want:  "before  after",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, sanitizeBody(tc.input))
		})
	}
}
