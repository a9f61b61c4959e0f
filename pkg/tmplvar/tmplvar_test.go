package tmplvar_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mailway/pkg/tmplvar"
)

func TestSubstitute(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		vars map[string]string
		want string
	}{
		{
			name: "single token",
			text: "Hi {{name}}",
			vars: map[string]string{"name": "Sam"},
			want: "Hi Sam",
		},
		{
			name: "repeated token",
			text: "{{name}} and {{name}} again",
			vars: map[string]string{"name": "Sam"},
			want: "Sam and Sam again",
		},
		{
			name: "missing identifier keeps literal token",
			text: "Hi {{name}}, your code is {{code}}",
			vars: map[string]string{"name": "Sam"},
			want: "Hi Sam, your code is {{code}}",
		},
		{
			name: "empty value is substituted",
			text: "Hi {{name}}!",
			vars: map[string]string{"name": ""},
			want: "Hi !",
		},
		{
			name: "no tokens",
			text: "plain text",
			vars: map[string]string{"name": "Sam"},
			want: "plain text",
		},
		{
			name: "malformed token untouched",
			text: "Hi {{first name}}",
			vars: map[string]string{"first name": "Sam"},
			want: "Hi {{first name}}",
		},
		{
			name: "no recursion through values",
			text: "{{a}}",
			vars: map[string]string{"a": "{{b}}", "b": "x"},
			want: "{{b}}",
		},
		{
			name: "empty text",
			text: "",
			vars: map[string]string{"name": "Sam"},
			want: "",
		},
		{
			name: "nil vars",
			text: "Hi {{name}}",
			vars: nil,
			want: "Hi {{name}}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			require.Equal(t, tt.want, tmplvar.Substitute(tt.text, tt.vars))
		})
	}
}

func TestSubstituteCoversAllTokens(t *testing.T) {
	t.Parallel()

	text := "Hello {{name}}, visit {{link}} before {{deadline}}"
	vars := map[string]string{"name": "Ada", "link": "https://x.test", "deadline": "Friday"}

	out := tmplvar.Substitute(text, vars)
	require.Empty(t, tmplvar.Extract(out), "fully covered substitution must leave no tokens")
}

func TestExtract(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "first seen order with duplicates",
			text: "{{b}} {{a}} {{b}} {{c}} {{a}}",
			want: []string{"b", "a", "c"},
		},
		{
			name: "no tokens",
			text: "nothing here",
			want: nil,
		},
		{
			name: "empty string",
			text: "",
			want: nil,
		},
		{
			name: "underscores and digits",
			text: "{{user_name}} {{item2}}",
			want: []string{"user_name", "item2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			require.Equal(t, tt.want, tmplvar.Extract(tt.text))
		})
	}
}

func TestExtractAll(t *testing.T) {
	t.Parallel()

	got := tmplvar.ExtractAll(
		"Hi {{name}}",
		"Dear {{name}}, see {{link}}",
		"<p>{{link}} expires {{deadline}}</p>",
	)
	require.Equal(t, []string{"name", "link", "deadline"}, got)
}

func TestExtractAllEmptyBodies(t *testing.T) {
	t.Parallel()

	require.Equal(t, []string{"name"}, tmplvar.ExtractAll("Hi {{name}}", "", ""))
	require.Empty(t, tmplvar.ExtractAll("", "", ""))
}
