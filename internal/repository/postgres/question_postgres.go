package postgres

import (
	"context"
	"database/sql"

	"docqa/internal/model"
	"docqa/internal/repository"
)

// QuestionPostgres is a PostgreSQL implementation of repository.QuestionRepository.
type QuestionPostgres struct {
	db *sql.DB
}

// NewQuestionPostgres creates a new QuestionPostgres repository.
func NewQuestionPostgres(db *sql.DB) *QuestionPostgres {
	return &QuestionPostgres{db: db}
}

var _ repository.QuestionRepository = (*QuestionPostgres)(nil)

const questionColumns = `id, user_id, document_id, question, answer, created_at, updated_at`

func scanQuestion(row interface{ Scan(...any) error }) (*model.Question, error) {
	var q model.Question
	if err := row.Scan(
		&q.ID,
		&q.UserID,
		&q.DocumentID,
		&q.Question,
		&q.Answer,
		&q.CreatedAt,
		&q.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *QuestionPostgres) Create(ctx context.Context, q *model.Question) (*model.Question, error) {
	const query = `
		INSERT INTO questions (id, user_id, document_id, question, answer, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + questionColumns
	row := r.db.QueryRowContext(ctx, query,
		q.ID,
		q.UserID,
		q.DocumentID,
		q.Question,
		q.Answer,
		q.CreatedAt,
		q.UpdatedAt,
	)
	return scanQuestion(row)
}

func (r *QuestionPostgres) FindByID(ctx context.Context, id string) (*model.Question, error) {
	const query = `
		SELECT ` + questionColumns + `
		FROM questions
		WHERE id = $1
	`
	return scanQuestion(r.db.QueryRowContext(ctx, query, id))
}

func (r *QuestionPostgres) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.Question], error) {
	const qCount = `SELECT COUNT(*) FROM questions`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount).Scan(&total); err != nil {
		return nil, err
	}

	const qList = `
		SELECT ` + questionColumns + `
		FROM questions
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.QueryContext(ctx, qList, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Question, 0)
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *q)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &repository.PageResult[model.Question]{Items: items, Total: total}, nil
}

func (r *QuestionPostgres) ListByDocument(ctx context.Context, documentID string) ([]model.Question, error) {
	const query = `
		SELECT ` + questionColumns + `
		FROM questions
		WHERE document_id = $1
		ORDER BY created_at DESC, id DESC
	`
	return r.queryList(ctx, query, documentID)
}

func (r *QuestionPostgres) ListByUserAndDocument(ctx context.Context, userID, documentID string) ([]model.Question, error) {
	const query = `
		SELECT ` + questionColumns + `
		FROM questions
		WHERE user_id = $1 AND document_id = $2
		ORDER BY created_at DESC, id DESC
	`
	return r.queryList(ctx, query, userID, documentID)
}

func (r *QuestionPostgres) queryList(ctx context.Context, query string, args ...any) ([]model.Question, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Question, 0)
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *q)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *QuestionPostgres) Update(ctx context.Context, q *model.Question) (*model.Question, error) {
	const query = `
		UPDATE questions
		SET question = $2, answer = $3, updated_at = $4
		WHERE id = $1
		RETURNING ` + questionColumns
	row := r.db.QueryRowContext(ctx, query, q.ID, q.Question, q.Answer, q.UpdatedAt)
	return scanQuestion(row)
}

func (r *QuestionPostgres) SetAnswer(ctx context.Context, id string, answer string) error {
	const query = `
		UPDATE questions
		SET answer = $2, updated_at = now()
		WHERE id = $1
	`
	_, err := r.db.ExecContext(ctx, query, id, answer)
	return err
}

// Delete removes a question by ID. It does not return an error if the row does not exist.
func (r *QuestionPostgres) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM questions WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	_, _ = res.RowsAffected()
	return nil
}
