// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"ethicsadmin/internal/models"
)

var (
	// ErrUnknownCategory is returned when a row names a category key that
	// is not seeded.
	ErrUnknownCategory = errors.New("unknown category")

	// ErrUnknownQuestion is returned when an option names a question key
	// that neither the request nor the database has.
	ErrUnknownQuestion = errors.New("unknown question")

	// ErrNotFound is returned when an update targets an id that does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateKey is returned when a write collides with an existing
	// question or option key.
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrValueTooLong is returned when a key or label exceeds its column.
	ErrValueTooLong = errors.New("value too long")
)

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// CatalogStore manages the ethics catalog tables.
type CatalogStore struct {
	db *sql.DB
}

// NewCatalogStore returns a new CatalogStore.
func NewCatalogStore(db *sql.DB) *CatalogStore {
	return &CatalogStore{db: db}
}

// Load returns the whole catalog, archived rows included, in display order.
func (s *CatalogStore) Load(ctx context.Context) (*models.Catalog, error) {
	return loadCatalog(ctx, s.db)
}

func loadCatalog(ctx context.Context, q queryer) (*models.Catalog, error) {
	c := &models.Catalog{
		Categories: []models.Category{},
		Questions:  []models.Question{},
		Options:    []models.Option{},
	}

	rows, err := q.QueryContext(ctx, `
		SELECT id, key, label, sort_order, is_active
		FROM ethics_categories
		ORDER BY sort_order, id
	`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	for rows.Next() {
		var cat models.Category
		if err := rows.Scan(&cat.ID, &cat.Key, &cat.Label, &cat.Order, &cat.IsActive); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan category: %w", err)
		}
		c.Categories = append(c.Categories, cat)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	rows, err = q.QueryContext(ctx, `
		SELECT q.id, q.category_id, c.key, q.key, q.label, q.sort_order, q.answer_type, q.is_active
		FROM ethics_questions q
		JOIN ethics_categories c ON c.id = q.category_id
		ORDER BY q.category_id, q.sort_order, q.id
	`)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	for rows.Next() {
		var qu models.Question
		var answerType string
		err := rows.Scan(&qu.ID, &qu.CategoryID, &qu.CategoryKey, &qu.Key, &qu.Label,
			&qu.Order, &answerType, &qu.IsActive)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan question: %w", err)
		}
		qu.AnswerType = models.AnswerType(answerType)
		c.Questions = append(c.Questions, qu)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}

	rows, err = q.QueryContext(ctx, `
		SELECT o.id, o.question_id, q.key, o.key, o.label, o.sort_order, o.score, o.is_active
		FROM ethics_options o
		JOIN ethics_questions q ON q.id = o.question_id
		ORDER BY o.question_id, o.sort_order, o.id
	`)
	if err != nil {
		return nil, fmt.Errorf("list options: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var o models.Option
		err := rows.Scan(&o.ID, &o.QuestionID, &o.QuestionKey, &o.Key, &o.Label,
			&o.Order, &o.Score, &o.IsActive)
		if err != nil {
			return nil, fmt.Errorf("scan option: %w", err)
		}
		c.Options = append(c.Options, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list options: %w", err)
	}

	return c, nil
}

// Upsert writes the full catalog in one transaction and records a revision.
// Rows with a nil id are inserted; rows with an id are updated in place.
// Categories are only ever updated. Options find their question by key,
// so an option may point at a question inserted by the same request.
func (s *CatalogStore) Upsert(ctx context.Context, req *models.UpsertRequest, actor string) (*models.Catalog, *models.CatalogRevision, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	categoryIDs, err := keyIndex(ctx, tx, `SELECT id, key FROM ethics_categories`)
	if err != nil {
		return nil, nil, fmt.Errorf("index categories: %w", err)
	}

	for _, c := range req.Categories {
		if _, ok := categoryIDs[strings.ToLower(c.Key)]; !ok {
			return nil, nil, fmt.Errorf("category %q: %w", c.Key, ErrUnknownCategory)
		}
		_, err := tx.ExecContext(ctx, `
			UPDATE ethics_categories SET label = $1, sort_order = $2, is_active = $3, updated_at = NOW()
			WHERE LOWER(key) = LOWER($4)
		`, c.Label, c.Order, c.IsActive, c.Key)
		if err != nil {
			return nil, nil, fmt.Errorf("update category %q: %w", c.Key, err)
		}
	}

	for _, q := range req.Questions {
		categoryID, ok := categoryIDs[strings.ToLower(q.CategoryKey)]
		if !ok {
			return nil, nil, fmt.Errorf("question %q: category %q: %w", q.Key, q.CategoryKey, ErrUnknownCategory)
		}
		if q.ID == nil {
			_, err = tx.ExecContext(ctx, `
				INSERT INTO ethics_questions (category_id, key, label, sort_order, answer_type, is_active)
				VALUES ($1, $2, $3, $4, $5, $6)
			`, categoryID, q.Key, q.Label, q.Order, string(q.AnswerType), q.IsActive)
			if err != nil {
				return nil, nil, writeErr("insert question", q.Key, err)
			}
			continue
		}
		res, err := tx.ExecContext(ctx, `
			UPDATE ethics_questions SET
				category_id = $1, key = $2, label = $3, sort_order = $4,
				answer_type = $5, is_active = $6, updated_at = NOW()
			WHERE id = $7
		`, categoryID, q.Key, q.Label, q.Order, string(q.AnswerType), q.IsActive, *q.ID)
		if err != nil {
			return nil, nil, writeErr("update question", q.Key, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return nil, nil, fmt.Errorf("question id %d: %w", *q.ID, ErrNotFound)
		}
	}

	questionIDs, err := keyIndex(ctx, tx, `SELECT id, key FROM ethics_questions`)
	if err != nil {
		return nil, nil, fmt.Errorf("index questions: %w", err)
	}

	for _, o := range req.Options {
		questionID, ok := questionIDs[strings.ToLower(o.QuestionKey)]
		if !ok {
			return nil, nil, fmt.Errorf("option %q: question %q: %w", o.Key, o.QuestionKey, ErrUnknownQuestion)
		}
		if o.ID == nil {
			_, err = tx.ExecContext(ctx, `
				INSERT INTO ethics_options (question_id, key, label, sort_order, score, is_active)
				VALUES ($1, $2, $3, $4, $5, $6)
			`, questionID, o.Key, o.Label, o.Order, o.Score, o.IsActive)
			if err != nil {
				return nil, nil, writeErr("insert option", o.Key, err)
			}
			continue
		}
		res, err := tx.ExecContext(ctx, `
			UPDATE ethics_options SET
				question_id = $1, key = $2, label = $3, sort_order = $4,
				score = $5, is_active = $6, updated_at = NOW()
			WHERE id = $7
		`, questionID, o.Key, o.Label, o.Order, o.Score, o.IsActive, *o.ID)
		if err != nil {
			return nil, nil, writeErr("update option", o.Key, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return nil, nil, fmt.Errorf("option id %d: %w", *o.ID, ErrNotFound)
		}
	}

	saved, err := loadCatalog(ctx, tx)
	if err != nil {
		return nil, nil, err
	}

	snapshot, err := json.Marshal(saved)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	rev := &models.CatalogRevision{
		Actor:         actor,
		QuestionCount: len(saved.Questions),
		OptionCount:   len(saved.Options),
		Snapshot:      snapshot,
	}
	err = tx.QueryRowContext(ctx, `
		INSERT INTO catalog_revisions (actor, question_count, option_count, snapshot)
		VALUES ($1, $2, $3, $4::jsonb)
		RETURNING id, created_at
	`, rev.Actor, rev.QuestionCount, rev.OptionCount, string(snapshot)).Scan(&rev.ID, &rev.CreatedAt)
	if err != nil {
		return nil, nil, fmt.Errorf("insert revision: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("commit catalog: %w", err)
	}
	return saved, rev, nil
}

// writeErr wraps a row write failure, surfacing key collisions as
// ErrDuplicateKey and oversized values as ErrValueTooLong.
func writeErr(op, key string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("%s %q: %w", op, key, ErrDuplicateKey)
		case "22001": // string_data_right_truncation
			return fmt.Errorf("%s %q: %w", op, key, ErrValueTooLong)
		}
	}
	return fmt.Errorf("%s %q: %w", op, key, err)
}

// keyIndex maps lower-cased keys to ids for a two-column id, key query.
func keyIndex(ctx context.Context, q queryer, query string) (map[string]int64, error) {
	rows, err := q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	index := make(map[string]int64)
	for rows.Next() {
		var id int64
		var key string
		if err := rows.Scan(&id, &key); err != nil {
			return nil, err
		}
		index[strings.ToLower(key)] = id
	}
	return index, rows.Err()
}
