package dispatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBareAddress(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"noreply@acme.com", "noreply@acme.com"},
		{"Acme <noreply@acme.com>", "noreply@acme.com"},
		{`"Acme, Inc." <noreply@acme.com>`, "noreply@acme.com"},
		{"  spaced@acme.com  ", "spaced@acme.com"},
		{"Broken < noreply@acme.com >", "noreply@acme.com"},
		{"not an address", "not an address"},
		{"", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, bareAddress(tc.in), "input %q", tc.in)
	}
}
