// Package tmplvar implements {{variable}} token substitution and
// extraction for reusable email templates.
//
// Tokens use mustache-style double braces with identifiers limited to
// [A-Za-z0-9_]+. Substitution is a pure function over immutable inputs:
// identifiers missing from the variable map leave the literal token in
// place so operators can spot unresolved placeholders in sent mail.
package tmplvar
