package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"docqa/internal/model"
	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

var userTestColumns = []string{"id", "name", "email", "password_hash", "role", "created_at"}

func TestUserPostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewUserPostgres(db)
	ctx := context.Background()

	now := time.Now().UTC()
	u := &model.User{
		ID:           "user-1",
		Name:         "Ana",
		Email:        "ana@example.com",
		PasswordHash: "hashed",
		Role:         model.RoleStudent,
		CreatedAt:    now,
	}

	rows := sqlmock.NewRows(userTestColumns).
		AddRow(u.ID, u.Name, u.Email, u.PasswordHash, u.Role, u.CreatedAt)

	mock.ExpectQuery("INSERT INTO users").
		WithArgs(u.ID, u.Name, u.Email, u.PasswordHash, u.Role, u.CreatedAt).
		WillReturnRows(rows)

	result, err := repo.Create(ctx, u)

	assert.NoError(t, err)
	assert.Equal(t, "user-1", result.ID)
	assert.Equal(t, model.RoleStudent, result.Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserPostgres_FindByEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewUserPostgres(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		rows := sqlmock.NewRows(userTestColumns).
			AddRow("user-1", "Ana", "ana@example.com", "hashed", model.RoleAdmin, time.Now())

		mock.ExpectQuery("SELECT (.+) FROM users WHERE email = ?").
			WithArgs("ana@example.com").
			WillReturnRows(rows)

		u, err := repo.FindByEmail(ctx, "ana@example.com")

		assert.NoError(t, err)
		assert.Equal(t, model.RoleAdmin, u.Role)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM users WHERE email = ?").
			WithArgs("ghost@example.com").
			WillReturnError(sql.ErrNoRows)

		u, err := repo.FindByEmail(ctx, "ghost@example.com")

		assert.Error(t, err)
		assert.True(t, IsNoRowsError(err))
		assert.Nil(t, u)
	})
}

func TestUserPostgres_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewUserPostgres(db)
	ctx := context.Background()

	rows := sqlmock.NewRows(userTestColumns).
		AddRow("user-1", "Ana", "ana@example.com", "hashed", model.RoleStudent, time.Now())

	mock.ExpectQuery("SELECT (.+) FROM users WHERE id = ?").
		WithArgs("user-1").
		WillReturnRows(rows)

	u, err := repo.FindByID(ctx, "user-1")

	assert.NoError(t, err)
	assert.Equal(t, "Ana", u.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}
