package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Pagination bounds for email listings. The HTTP layer rejects
// out-of-range values with a client error; the store clamps defensively
// in case it is called directly.
const (
	DefaultPerPage = 50
	MaxPerPage     = 100
)

// EmailStore persists send attempt records.
type EmailStore struct {
	pool *pgxpool.Pool
}

// NewEmailStore creates an EmailStore backed by the given pool.
func NewEmailStore(pool *pgxpool.Pool) *EmailStore {
	return &EmailStore{pool: pool}
}

// CreateEmailParams holds the outcome of one dispatch attempt.
type CreateEmailParams struct {
	FromAddress       string
	ToAddress         string
	Subject           string
	BodyText          string
	BodyHTML          string
	Status            EmailStatus
	ProviderMessageID string
	ErrorMessage      string
}

// Create inserts one immutable email record and returns its id.
func (s *EmailStore) Create(ctx context.Context, p CreateEmailParams) (int64, error) {
	var id int64
	err := s.pool.QueryRow(ctx, `
		INSERT INTO emails (from_address, to_address, subject, body_text, body_html, status, provider_message_id, error_message)
		VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), $6, NULLIF($7, ''), NULLIF($8, ''))
		RETURNING id`,
		p.FromAddress, p.ToAddress, p.Subject, p.BodyText, p.BodyHTML, p.Status, p.ProviderMessageID, p.ErrorMessage,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("store: insert email: %w", err)
	}
	return id, nil
}

// EmailFilter narrows a listing. All predicates are optional and
// combined with AND; substring matches are case-insensitive.
type EmailFilter struct {
	Recipient string
	Subject   string
	Sender    string
	Status    EmailStatus
	DateFrom  *time.Time
	DateTo    *time.Time
	Page      int
	PerPage   int
}

// List returns one page of email records ordered by creation time
// descending (newest first, id as tiebreaker) plus the total row count
// under the same filter.
func (s *EmailStore) List(ctx context.Context, f EmailFilter) ([]EmailRecord, int, error) {
	page := max(f.Page, 1)
	perPage := f.PerPage
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	perPage = min(perPage, MaxPerPage)

	where, args := buildEmailFilter(f)

	var total int
	if err := s.pool.QueryRow(ctx, "SELECT count(*) FROM emails"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("store: count emails: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT id, from_address, to_address, subject,
		       COALESCE(body_text, ''), COALESCE(body_html, ''),
		       status, COALESCE(provider_message_id, ''), COALESCE(error_message, ''),
		       created_at
		FROM emails%s
		ORDER BY created_at DESC, id DESC
		LIMIT $%d OFFSET $%d`,
		where, len(args)+1, len(args)+2)
	args = append(args, perPage, (page-1)*perPage)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("store: list emails: %w", err)
	}
	defer rows.Close()

	records := make([]EmailRecord, 0, perPage)
	for rows.Next() {
		var rec EmailRecord
		if err := rows.Scan(
			&rec.ID, &rec.FromAddress, &rec.ToAddress, &rec.Subject,
			&rec.BodyText, &rec.BodyHTML,
			&rec.Status, &rec.ProviderMessageID, &rec.ErrorMessage,
			&rec.CreatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("store: scan email: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("store: list emails: %w", err)
	}

	return records, total, nil
}

// GetByID returns one email record, or ErrNotFound.
func (s *EmailStore) GetByID(ctx context.Context, id int64) (*EmailRecord, error) {
	var rec EmailRecord
	err := s.pool.QueryRow(ctx, `
		SELECT id, from_address, to_address, subject,
		       COALESCE(body_text, ''), COALESCE(body_html, ''),
		       status, COALESCE(provider_message_id, ''), COALESCE(error_message, ''),
		       created_at
		FROM emails WHERE id = $1`, id,
	).Scan(
		&rec.ID, &rec.FromAddress, &rec.ToAddress, &rec.Subject,
		&rec.BodyText, &rec.BodyHTML,
		&rec.Status, &rec.ProviderMessageID, &rec.ErrorMessage,
		&rec.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get email: %w", err)
	}
	return &rec, nil
}

// buildEmailFilter renders the optional predicates into a WHERE clause
// and its positional arguments.
func buildEmailFilter(f EmailFilter) (string, []any) {
	var (
		clauses []string
		args    []any
	)

	add := func(clause string, arg any) {
		args = append(args, arg)
		clauses = append(clauses, fmt.Sprintf(clause, len(args)))
	}

	if f.Recipient != "" {
		add("to_address ILIKE '%%' || $%d || '%%'", f.Recipient)
	}
	if f.Subject != "" {
		add("subject ILIKE '%%' || $%d || '%%'", f.Subject)
	}
	if f.Sender != "" {
		add("from_address ILIKE '%%' || $%d || '%%'", f.Sender)
	}
	if f.Status != "" {
		add("status = $%d", f.Status)
	}
	if f.DateFrom != nil {
		add("created_at >= $%d", *f.DateFrom)
	}
	if f.DateTo != nil {
		add("created_at <= $%d", *f.DateTo)
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}
