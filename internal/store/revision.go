// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"ethicsadmin/internal/models"
)

// RevisionStore provides access to catalog revisions in PostgreSQL.
type RevisionStore struct {
	db *sql.DB
}

// NewRevisionStore creates a new RevisionStore backed by the given database.
func NewRevisionStore(db *sql.DB) *RevisionStore {
	return &RevisionStore{db: db}
}

// List returns the most recent revisions, newest first, without snapshots.
func (s *RevisionStore) List(ctx context.Context, limit int) ([]models.CatalogRevision, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, actor, question_count, option_count, COALESCE(archive_key, ''), created_at
		FROM catalog_revisions
		ORDER BY created_at DESC, id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list revisions: %w", err)
	}
	defer rows.Close()

	revisions := []models.CatalogRevision{}
	for rows.Next() {
		var r models.CatalogRevision
		if err := rows.Scan(&r.ID, &r.Actor, &r.QuestionCount, &r.OptionCount, &r.ArchiveKey, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan revision: %w", err)
		}
		revisions = append(revisions, r)
	}
	return revisions, rows.Err()
}

// FindByID retrieves a revision with its snapshot. Returns nil if not found.
func (s *RevisionStore) FindByID(ctx context.Context, id int64) (*models.CatalogRevision, error) {
	var r models.CatalogRevision
	var snapshot []byte
	err := s.db.QueryRowContext(ctx, `
		SELECT id, actor, question_count, option_count, snapshot, COALESCE(archive_key, ''), created_at
		FROM catalog_revisions
		WHERE id = $1
	`, id).Scan(&r.ID, &r.Actor, &r.QuestionCount, &r.OptionCount, &snapshot, &r.ArchiveKey, &r.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find revision by id: %w", err)
	}
	r.Snapshot = snapshot
	return &r, nil
}

// SetArchiveKey records where the revision's snapshot was archived.
func (s *RevisionStore) SetArchiveKey(ctx context.Context, id int64, key string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE catalog_revisions SET archive_key = $1 WHERE id = $2`, key, id)
	if err != nil {
		return fmt.Errorf("set revision archive key: %w", err)
	}
	return nil
}
