package dispatch

import (
	"net/mail"
	"strings"
)

// bareAddress extracts the plain address from a from header that may
// carry a display name, e.g. `Acme <noreply@acme.com>`. Strings that do
// not parse as an address are matched against the allow-list as-is.
func bareAddress(from string) string {
	if addr, err := mail.ParseAddress(from); err == nil {
		return addr.Address
	}

	from = strings.TrimSpace(from)
	if open := strings.LastIndex(from, "<"); open >= 0 {
		if end := strings.Index(from[open:], ">"); end > 0 {
			return strings.TrimSpace(from[open+1 : open+end])
		}
	}
	return from
}
