package sanitizex

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanSingleLine(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain", input: "hello", want: "hello"},
		{name: "trims", input: "  hello  ", want: "hello"},
		{name: "collapses whitespace", input: "a  \t b", want: "a b"},
		{name: "strips control chars", input: "a\x00b", want: "a b"},
		{name: "newlines become spaces", input: "a\nb", want: "a b"},
		{name: "empty", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, CleanSingleLine(tt.input))
		})
	}
}

func TestEmail(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "lowercases domain", input: "John@EXAMPLE.Com", want: "John@example.com"},
		{name: "keeps local part case", input: "John.Doe@example.com", want: "John.Doe@example.com"},
		{name: "trims", input: " a@example.com ", want: "a@example.com"},
		{name: "no at sign untouched", input: "plainstring", want: "plainstring"},
		{name: "empty", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Email(tt.input))
		})
	}
}
