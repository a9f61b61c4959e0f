package tmplvar

import "regexp"

// tokenRe matches substitution tokens of the form {{identifier}}.
// Identifiers are limited to word characters; anything else is left alone.
var tokenRe = regexp.MustCompile(`\{\{([A-Za-z0-9_]+)\}\}`)

// Substitute replaces every {{identifier}} token in text with its value
// from vars. Tokens whose identifier is not present in vars are kept
// byte-for-byte unchanged. An empty string is a valid value and is
// substituted. There is no recursion and no escaping syntax.
func Substitute(text string, vars map[string]string) string {
	if text == "" || len(vars) == 0 {
		return text
	}

	return tokenRe.ReplaceAllStringFunc(text, func(match string) string {
		name := match[2 : len(match)-2]
		if value, ok := vars[name]; ok {
			return value
		}
		return match
	})
}

// Extract returns the de-duplicated list of identifiers referenced by
// {{identifier}} tokens in text, in first-seen order.
func Extract(text string) []string {
	if text == "" {
		return nil
	}

	var names []string
	seen := make(map[string]struct{})
	for _, match := range tokenRe.FindAllStringSubmatch(text, -1) {
		name := match[1]
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}

// ExtractAll returns the union of identifiers referenced across a subject
// and up to two body variants, de-duplicated in first-seen order with the
// scan proceeding subject, then text, then html.
func ExtractAll(subject, text, html string) []string {
	var names []string
	seen := make(map[string]struct{})
	for _, src := range []string{subject, text, html} {
		for _, name := range Extract(src) {
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			names = append(names, name)
		}
	}
	return names
}
