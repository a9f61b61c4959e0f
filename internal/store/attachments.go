package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/mailway/pkg/db"
)

// AttachmentStore persists attachment metadata and payloads.
type AttachmentStore struct {
	pool *pgxpool.Pool
}

// NewAttachmentStore creates an AttachmentStore backed by the given pool.
func NewAttachmentStore(pool *pgxpool.Pool) *AttachmentStore {
	return &AttachmentStore{pool: pool}
}

// CreateAttachmentParams describes one file to persist for an email.
type CreateAttachmentParams struct {
	Filename         string // sanitized storage name
	OriginalFilename string // as uploaded, kept for display/download
	MimeType         string
	Size             int64
	Content          []byte
}

// CreateBatch inserts all attachments for one email in a single
// transaction, so a storage failure never leaves a partial set behind.
func (s *AttachmentStore) CreateBatch(ctx context.Context, emailID int64, attachments []CreateAttachmentParams) error {
	if len(attachments) == 0 {
		return nil
	}

	return db.InTx(ctx, s.pool, func(tx pgx.Tx) error {
		for _, a := range attachments {
			_, err := tx.Exec(ctx, `
				INSERT INTO attachments (email_id, filename, original_filename, mime_type, size, content)
				VALUES ($1, $2, $3, $4, $5, $6)`,
				emailID, a.Filename, a.OriginalFilename, a.MimeType, a.Size, a.Content,
			)
			if err != nil {
				return fmt.Errorf("store: insert attachment %q: %w", a.OriginalFilename, err)
			}
		}
		return nil
	})
}

// GetByID returns one attachment including its payload, or ErrNotFound.
func (s *AttachmentStore) GetByID(ctx context.Context, id int64) (*Attachment, error) {
	var a Attachment
	err := s.pool.QueryRow(ctx, `
		SELECT id, email_id, filename, original_filename, mime_type, size, content, created_at
		FROM attachments WHERE id = $1`, id,
	).Scan(&a.ID, &a.EmailID, &a.Filename, &a.OriginalFilename, &a.MimeType, &a.Size, &a.Content, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get attachment: %w", err)
	}
	return &a, nil
}

// ListByEmail returns the attachment metadata for one email. Payloads
// are intentionally not loaded to keep list responses small.
func (s *AttachmentStore) ListByEmail(ctx context.Context, emailID int64) ([]Attachment, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, email_id, filename, original_filename, mime_type, size, created_at
		FROM attachments WHERE email_id = $1
		ORDER BY id`, emailID)
	if err != nil {
		return nil, fmt.Errorf("store: list attachments: %w", err)
	}
	defer rows.Close()

	attachments := make([]Attachment, 0, 4)
	for rows.Next() {
		var a Attachment
		if err := rows.Scan(&a.ID, &a.EmailID, &a.Filename, &a.OriginalFilename, &a.MimeType, &a.Size, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("store: scan attachment: %w", err)
		}
		attachments = append(attachments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: list attachments: %w", err)
	}

	return attachments, nil
}
