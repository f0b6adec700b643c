package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"docqa/internal/model"
	"docqa/internal/repository"
	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

var documentTestColumns = []string{
	"id", "user_id", "title", "filename", "storage_path", "size", "content_type",
	"description", "tags", "remote_file_id", "remote_uri", "upload_version", "expires_at",
	"created_at", "updated_at",
}

func documentRow(id string, now time.Time) []driver.Value {
	return []driver.Value{
		id, "user-1", "Notes", "file.txt", "documents/" + id + ".txt", 100, "text/plain",
		nil, "ai,nlp", nil, nil, 1, nil,
		now, now,
	}
}

func TestDocumentPostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	now := time.Now().UTC()
	tags := "ai,nlp"
	doc := &model.Document{
		ID:            "test-uuid",
		UserID:        "user-1",
		Title:         "Notes",
		Filename:      "test.txt",
		StoragePath:   "documents/test.txt",
		Size:          123,
		ContentType:   "text/plain",
		Tags:          &tags,
		UploadVersion: 1,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	rows := sqlmock.NewRows(documentTestColumns).
		AddRow(doc.ID, doc.UserID, doc.Title, doc.Filename, doc.StoragePath, doc.Size, doc.ContentType,
			nil, tags, nil, nil, 1, nil, now, now)

	mock.ExpectQuery("INSERT INTO documents").
		WithArgs(doc.ID, doc.UserID, doc.Title, doc.Filename, doc.StoragePath, doc.Size,
			doc.ContentType, nil, &tags, doc.UploadVersion, doc.CreatedAt, doc.UpdatedAt).
		WillReturnRows(rows)

	result, err := repo.Create(ctx, doc)

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, doc.ID, result.ID)
	assert.Equal(t, 1, result.UploadVersion)
	assert.Nil(t, result.RemoteFileID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentPostgres_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		rows := sqlmock.NewRows(documentTestColumns).AddRow(documentRow("test-id", time.Now())...)

		mock.ExpectQuery("SELECT (.+) FROM documents WHERE id = ?").
			WithArgs("test-id").
			WillReturnRows(rows)

		doc, err := repo.FindByID(ctx, "test-id")

		assert.NoError(t, err)
		assert.NotNil(t, doc)
		assert.Equal(t, "test-id", doc.ID)
		assert.Equal(t, "ai,nlp", *doc.Tags)
		assert.Nil(t, doc.Description)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM documents WHERE id = ?").
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		doc, err := repo.FindByID(ctx, "missing")

		assert.Error(t, err)
		assert.True(t, IsNoRowsError(err))
		assert.Nil(t, doc)
	})
}

func TestDocumentPostgres_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM documents").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		rows := sqlmock.NewRows(documentTestColumns).AddRow(documentRow("test-id", time.Now())...)

		mock.ExpectQuery("SELECT (.+) FROM documents ORDER BY").
			WithArgs(10, 0).
			WillReturnRows(rows)

		res, err := repo.List(ctx, repository.PageQuery{Limit: 10, Offset: 0})

		assert.NoError(t, err)
		assert.Equal(t, 1, res.Total)
		assert.Len(t, res.Items, 1)
	})
}

func TestDocumentPostgres_ListTagged(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	now := time.Now()
	rows := sqlmock.NewRows(documentTestColumns).
		AddRow(documentRow("a", now)...).
		AddRow(documentRow("b", now.Add(time.Minute))...)

	mock.ExpectQuery("SELECT (.+) FROM documents WHERE tags IS NOT NULL AND id <> ?").
		WithArgs("src").
		WillReturnRows(rows)

	items, err := repo.ListTagged(ctx, "src")

	assert.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, "a", items[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentPostgres_UpdateRemoteSync(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	uri := "https://files.example/abc"
	expires := time.Now().Add(23 * time.Hour)
	sync := repository.RemoteSync{FileID: "files/abc", URI: &uri, ExpiresAt: expires}

	t.Run("version matches", func(t *testing.T) {
		mock.ExpectExec("UPDATE documents SET remote_file_id").
			WithArgs("doc-1", 1, "files/abc", &uri, expires).
			WillReturnResult(sqlmock.NewResult(0, 1))

		ok, err := repo.UpdateRemoteSync(ctx, "doc-1", 1, sync)

		assert.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("version mismatch affects no rows", func(t *testing.T) {
		mock.ExpectExec("UPDATE documents SET remote_file_id").
			WithArgs("doc-1", 1, "files/abc", &uri, expires).
			WillReturnResult(sqlmock.NewResult(0, 0))

		ok, err := repo.UpdateRemoteSync(ctx, "doc-1", 1, sync)

		assert.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("exec error", func(t *testing.T) {
		mock.ExpectExec("UPDATE documents SET remote_file_id").
			WithArgs("doc-1", 1, "files/abc", &uri, expires).
			WillReturnError(errors.New("db fail"))

		ok, err := repo.UpdateRemoteSync(ctx, "doc-1", 1, sync)

		assert.Error(t, err)
		assert.False(t, ok)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentPostgres_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM documents WHERE id = ?").
			WithArgs("test-id").
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Delete(ctx, "test-id")
		assert.NoError(t, err)
	})

	t.Run("missing row is not an error", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM documents WHERE id = ?").
			WithArgs("missing").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Delete(ctx, "missing")
		assert.NoError(t, err)
	})
}

func IsNoRowsError(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
