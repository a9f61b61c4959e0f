// Package store persists send attempts, their attachments and reusable
// message templates in PostgreSQL.
//
// Email records are insert-only: one row is written per dispatch
// attempt, success or failure, and never updated afterwards. Attachment
// payloads are stored inline (BYTEA) so a record's files remain
// retrievable without an external blob store.
package store
