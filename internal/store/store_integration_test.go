//go:build integration

package store_test

import (
	"context"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mailway/internal/store"
	"github.com/dmitrymomot/mailway/pkg/db"
)

func newTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL is not set")
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, db.Config{
		ConnectionString: url,
		RetryAttempts:    1,
		RetryInterval:    time.Second,
		MaxOpenConns:     4,
		MinConns:         1,
	})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	require.NoError(t, db.Migrate(ctx, pool, store.Migrations(), log))

	_, err = pool.Exec(ctx, "TRUNCATE emails, attachments, templates RESTART IDENTITY CASCADE")
	require.NoError(t, err)

	return pool
}

func TestEmailStore_CreateAndGet(t *testing.T) {
	pool := newTestPool(t)
	emails := store.NewEmailStore(pool)
	ctx := context.Background()

	id, err := emails.Create(ctx, store.CreateEmailParams{
		FromAddress:       "noreply@x.com",
		ToAddress:         "a@b.com",
		Subject:           "Hi",
		BodyText:          "hello",
		Status:            store.StatusSent,
		ProviderMessageID: "m1",
	})
	require.NoError(t, err)
	require.Equal(t, int64(1), id)

	rec, err := emails.GetByID(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "a@b.com", rec.ToAddress)
	require.Equal(t, store.StatusSent, rec.Status)
	require.Equal(t, "m1", rec.ProviderMessageID)
	require.Empty(t, rec.ErrorMessage)
	require.False(t, rec.CreatedAt.IsZero())

	_, err = emails.GetByID(ctx, 9999)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestEmailStore_ListFilterAndPagination(t *testing.T) {
	pool := newTestPool(t)
	emails := store.NewEmailStore(pool)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		status := store.StatusSent
		if i%2 == 1 {
			status = store.StatusFailed
		}
		_, err := emails.Create(ctx, store.CreateEmailParams{
			FromAddress: "noreply@x.com",
			ToAddress:   "user@example.com",
			Subject:     "Report",
			Status:      status,
		})
		require.NoError(t, err)
	}

	records, total, err := emails.List(ctx, store.EmailFilter{Status: store.StatusFailed, Page: 1, PerPage: 10})
	require.NoError(t, err)
	require.Equal(t, 2, total)
	require.Len(t, records, 2)

	// Newest first: the last inserted id leads.
	records, total, err = emails.List(ctx, store.EmailFilter{Page: 1, PerPage: 2})
	require.NoError(t, err)
	require.Equal(t, 5, total)
	require.Len(t, records, 2)
	require.Equal(t, int64(5), records[0].ID)

	records, _, err = emails.List(ctx, store.EmailFilter{Page: 2, PerPage: 2})
	require.NoError(t, err)
	require.Equal(t, int64(3), records[0].ID)

	records, total, err = emails.List(ctx, store.EmailFilter{Recipient: "EXAMPLE", Page: 1, PerPage: 10})
	require.NoError(t, err)
	require.Equal(t, 5, total)

	records, total, err = emails.List(ctx, store.EmailFilter{Recipient: "nobody", Page: 1, PerPage: 10})
	require.NoError(t, err)
	require.Zero(t, total)
	require.Empty(t, records)
}

func TestAttachmentStore_BatchAndRetrieve(t *testing.T) {
	pool := newTestPool(t)
	emails := store.NewEmailStore(pool)
	attachments := store.NewAttachmentStore(pool)
	ctx := context.Background()

	emailID, err := emails.Create(ctx, store.CreateEmailParams{
		FromAddress: "noreply@x.com",
		ToAddress:   "a@b.com",
		Subject:     "Hi",
		Status:      store.StatusSent,
	})
	require.NoError(t, err)

	err = attachments.CreateBatch(ctx, emailID, []store.CreateAttachmentParams{
		{Filename: "report.pdf", OriginalFilename: "report (final).pdf", MimeType: "application/pdf", Size: 4, Content: []byte("%PDF")},
		{Filename: "notes.txt", OriginalFilename: "notes.txt", MimeType: "text/plain", Size: 5, Content: []byte("notes")},
	})
	require.NoError(t, err)

	metas, err := attachments.ListByEmail(ctx, emailID)
	require.NoError(t, err)
	require.Len(t, metas, 2)
	require.Nil(t, metas[0].Content, "listing must not load payloads")

	full, err := attachments.GetByID(ctx, metas[0].ID)
	require.NoError(t, err)
	require.Equal(t, []byte("%PDF"), full.Content)
	require.Equal(t, "report (final).pdf", full.OriginalFilename)

	_, err = attachments.GetByID(ctx, 9999)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestTemplateStore_CRUD(t *testing.T) {
	pool := newTestPool(t)
	templates := store.NewTemplateStore(pool)
	ctx := context.Background()

	id, err := templates.Create(ctx, store.CreateTemplateParams{
		Name:      "welcome",
		Subject:   "Hi {{name}}",
		BodyText:  "Hello {{name}}",
		Variables: []string{"name"},
	})
	require.NoError(t, err)

	_, err = templates.Create(ctx, store.CreateTemplateParams{Name: "welcome", Subject: "dup"})
	require.ErrorIs(t, err, store.ErrDuplicateTemplateName)

	tmpl, err := templates.GetByID(ctx, id)
	require.NoError(t, err)
	require.Equal(t, []string{"name"}, tmpl.Variables)

	// Partial update: only the subject changes, the body stays.
	newSubject := "Welcome {{name}}!"
	err = templates.Update(ctx, id, store.UpdateTemplateParams{Subject: &newSubject})
	require.NoError(t, err)

	updated, err := templates.GetByID(ctx, id)
	require.NoError(t, err)
	require.Equal(t, newSubject, updated.Subject)
	require.Equal(t, "Hello {{name}}", updated.BodyText)
	require.True(t, updated.UpdatedAt.After(tmpl.UpdatedAt) || updated.UpdatedAt.Equal(tmpl.UpdatedAt))

	err = templates.Update(ctx, 9999, store.UpdateTemplateParams{Subject: &newSubject})
	require.ErrorIs(t, err, store.ErrNotFound)

	list, err := templates.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, templates.Delete(ctx, id))
	require.ErrorIs(t, templates.Delete(ctx, id), store.ErrNotFound)
}
