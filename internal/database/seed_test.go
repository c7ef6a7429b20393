package database

import (
	"testing"
)

func TestSeedIdempotent(t *testing.T) {
	db, err := Connect(testDSN())
	if err != nil {
		t.Skipf("skipping: DB not available: %v", err)
	}
	defer db.Close()

	if err := Migrate(db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}

	// Seed only writes when no question exists, so calling it twice must
	// succeed. The database is not cleared first because other test
	// packages may be running against it concurrently.
	if err := Seed(db); err != nil {
		t.Fatalf("first Seed: %v", err)
	}
	if err := Seed(db); err != nil {
		t.Fatalf("second Seed: %v", err)
	}

	var questions int
	if err := db.QueryRow("SELECT COUNT(*) FROM ethics_questions").Scan(&questions); err != nil {
		t.Fatalf("count questions: %v", err)
	}
	if questions < 1 {
		t.Errorf("expected at least 1 question, got %d", questions)
	}

	// The sample question, when present, carries enough options to pass
	// catalog validation.
	var options int
	err = db.QueryRow(`
		SELECT COUNT(*) FROM ethics_options o
		JOIN ethics_questions q ON q.id = o.question_id
		WHERE q.key = 'transport_mode' AND o.is_active
	`).Scan(&options)
	if err != nil {
		t.Fatalf("count options: %v", err)
	}
	if options != 0 && options < 2 {
		t.Errorf("sample question has %d active options, want at least 2", options)
	}
}
