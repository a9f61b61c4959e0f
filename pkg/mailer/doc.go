// Package mailer defines the provider abstraction for outbound
// transactional email.
//
// A Sender delivers one fully-prepared Email to a single recipient and
// reports the transport's own message identifier on success. Two
// implementations exist: resend (HTTP API) and smtp (direct SMTP via
// gomail). Senders convert every transport failure into a returned
// error so callers can record the outcome unconditionally; they never
// panic past their boundary.
package mailer
