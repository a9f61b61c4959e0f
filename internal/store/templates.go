package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TemplateStore provides CRUD persistence for reusable templates.
type TemplateStore struct {
	pool *pgxpool.Pool
}

// NewTemplateStore creates a TemplateStore backed by the given pool.
func NewTemplateStore(pool *pgxpool.Pool) *TemplateStore {
	return &TemplateStore{pool: pool}
}

// CreateTemplateParams holds the fields of a new template.
type CreateTemplateParams struct {
	Name      string
	Subject   string
	BodyText  string
	BodyHTML  string
	Variables []string
}

// Create inserts a template and returns its id.
// Returns ErrDuplicateTemplateName when the name is already taken.
func (s *TemplateStore) Create(ctx context.Context, p CreateTemplateParams) (int64, error) {
	vars, err := marshalVariables(p.Variables)
	if err != nil {
		return 0, err
	}

	var id int64
	err = s.pool.QueryRow(ctx, `
		INSERT INTO templates (name, subject, body_text, body_html, variables)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), $5)
		RETURNING id`,
		p.Name, p.Subject, p.BodyText, p.BodyHTML, vars,
	).Scan(&id)
	if isUniqueViolation(err) {
		return 0, ErrDuplicateTemplateName
	}
	if err != nil {
		return 0, fmt.Errorf("store: insert template: %w", err)
	}
	return id, nil
}

// List returns all templates ordered by creation time descending.
func (s *TemplateStore) List(ctx context.Context) ([]Template, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, subject, COALESCE(body_text, ''), COALESCE(body_html, ''),
		       COALESCE(variables, '[]'), created_at, updated_at
		FROM templates
		ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("store: list templates: %w", err)
	}
	defer rows.Close()

	templates := make([]Template, 0, 16)
	for rows.Next() {
		tmpl, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		templates = append(templates, *tmpl)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: list templates: %w", err)
	}

	return templates, nil
}

// GetByID returns one template, or ErrNotFound.
func (s *TemplateStore) GetByID(ctx context.Context, id int64) (*Template, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, name, subject, COALESCE(body_text, ''), COALESCE(body_html, ''),
		       COALESCE(variables, '[]'), created_at, updated_at
		FROM templates WHERE id = $1`, id)

	tmpl, err := scanTemplate(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return tmpl, nil
}

// UpdateTemplateParams holds a partial template update. Nil fields keep
// their previous value; supplied fields replace it.
type UpdateTemplateParams struct {
	Name      *string
	Subject   *string
	BodyText  *string
	BodyHTML  *string
	Variables *[]string
}

// Update applies a partial update and bumps updated_at.
// Returns ErrNotFound when the template does not exist and
// ErrDuplicateTemplateName when the new name is already taken.
func (s *TemplateStore) Update(ctx context.Context, id int64, p UpdateTemplateParams) error {
	var vars *string
	if p.Variables != nil {
		encoded, err := marshalVariables(*p.Variables)
		if err != nil {
			return err
		}
		vars = &encoded
	}

	// Supplied fields replace the stored value (an empty body clears
	// it); absent fields keep the previous value.
	tag, err := s.pool.Exec(ctx, `
		UPDATE templates SET
			name = COALESCE($2, name),
			subject = COALESCE($3, subject),
			body_text = CASE WHEN $4::bool THEN NULLIF($5, '') ELSE body_text END,
			body_html = CASE WHEN $6::bool THEN NULLIF($7, '') ELSE body_html END,
			variables = COALESCE($8, variables),
			updated_at = now()
		WHERE id = $1`,
		id, p.Name, p.Subject,
		p.BodyText != nil, orEmpty(p.BodyText),
		p.BodyHTML != nil, orEmpty(p.BodyHTML),
		vars,
	)
	if isUniqueViolation(err) {
		return ErrDuplicateTemplateName
	}
	if err != nil {
		return fmt.Errorf("store: update template: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a template. Returns ErrNotFound when no row was removed.
func (s *TemplateStore) Delete(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM templates WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("store: delete template: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// marshalVariables serializes the variable name list for storage.
// A nil slice serializes as an empty array so reads round-trip cleanly.
func marshalVariables(vars []string) (string, error) {
	if vars == nil {
		vars = []string{}
	}
	encoded, err := json.Marshal(vars)
	if err != nil {
		return "", fmt.Errorf("store: marshal template variables: %w", err)
	}
	return string(encoded), nil
}

func scanTemplate(row pgx.Row) (*Template, error) {
	var (
		tmpl Template
		vars string
	)
	if err := row.Scan(
		&tmpl.ID, &tmpl.Name, &tmpl.Subject, &tmpl.BodyText, &tmpl.BodyHTML,
		&vars, &tmpl.CreatedAt, &tmpl.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, pgx.ErrNoRows
		}
		return nil, fmt.Errorf("store: scan template: %w", err)
	}

	if err := json.Unmarshal([]byte(vars), &tmpl.Variables); err != nil {
		return nil, fmt.Errorf("store: parse template variables: %w", err)
	}
	if tmpl.Variables == nil {
		tmpl.Variables = []string{}
	}
	return &tmpl, nil
}

func orEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
