// Package fileval validates email attachments before they are handed to
// a mail provider: a fixed size ceiling, a declared-MIME allow-list and
// an executable-extension blocklist that is enforced regardless of the
// declared type. It also sanitizes filenames for storage.
package fileval
