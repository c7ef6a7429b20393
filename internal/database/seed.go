package database

import (
	"database/sql"
	"fmt"
	"log/slog"
)

// Seed populates the database with a sample question for development.
// It does nothing when any question exists. Categories come from the
// migrations, so Seed must run after Migrate.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM ethics_questions").Scan(&count); err != nil {
		return fmt.Errorf("seed check questions: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed begin tx: %w", err)
	}
	defer tx.Rollback()

	var questionID int64
	err = tx.QueryRow(`
		INSERT INTO ethics_questions (category_id, key, label, sort_order, answer_type)
		SELECT id, $1, $2, 10, 'Single' FROM ethics_categories WHERE LOWER(key) = LOWER($3)
		RETURNING id
	`, "transport_mode", "How are finished goods shipped to customers?", "Transport").Scan(&questionID)
	if err != nil {
		return fmt.Errorf("seed insert question: %w", err)
	}

	options := []struct {
		key, label string
		score      float64
	}{
		{"sea_or_rail", "Mostly by sea or rail", 2},
		{"road", "Mostly by road", 1},
		{"air", "Mostly by air", 0},
	}
	for i, o := range options {
		_, err := tx.Exec(`
			INSERT INTO ethics_options (question_id, key, label, sort_order, score)
			VALUES ($1, $2, $3, $4, $5)
		`, questionID, o.key, o.label, (i+1)*10, o.score)
		if err != nil {
			return fmt.Errorf("seed insert option %s: %w", o.key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed commit: %w", err)
	}

	slog.Info("database seeded with sample ethics question", "key", "transport_mode", "options", len(options))
	return nil
}
