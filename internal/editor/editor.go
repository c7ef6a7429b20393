// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package editor implements the ethics catalog editing model: it loads the
// remote catalog, hands out client ids so rows can be addressed before the
// server assigns ids, tracks unsaved changes against the last synced
// baseline, validates and saves. All methods are safe for concurrent use.
package editor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/google/uuid"

	"ethicsadmin/internal/catalog"
	"ethicsadmin/internal/models"
)

var (
	// ErrBusy is returned when a load or save is already in flight.
	ErrBusy = errors.New("editor: a load or save is already in progress")

	// ErrClosed is returned when a response arrives after Close.
	ErrClosed = errors.New("editor: closed")

	// ErrNotLoaded is returned by Reset before any catalog was loaded.
	ErrNotLoaded = errors.New("editor: no catalog loaded")
)

// Remote is the catalog backend. Both calls return the decoded response
// body in whatever shape the server produced; the editor normalizes it.
type Remote interface {
	FetchCatalog(ctx context.Context) (any, error)
	UpsertCatalog(ctx context.Context, req models.UpsertRequest) (any, error)
}

// RowState is the tagged soft-delete state of an editable row.
type RowState int

const (
	RowActive RowState = iota
	RowArchived
)

func (s RowState) String() string {
	if s == RowArchived {
		return "archived"
	}
	return "active"
}

// QuestionRow is an editable question. ClientID is assigned once, never
// sent to the server and never derived from server data.
type QuestionRow struct {
	models.Question
	ClientID string `json:"clientId"`
}

// State reports whether the row is active or archived.
func (r QuestionRow) State() RowState {
	if r.IsActive {
		return RowActive
	}
	return RowArchived
}

// OptionRow is an editable option.
type OptionRow struct {
	models.Option
	ClientID string `json:"clientId"`
}

// State reports whether the row is active or archived.
func (r OptionRow) State() RowState {
	if r.IsActive {
		return RowActive
	}
	return RowArchived
}

// Editor holds the in-memory editable catalog.
type Editor struct {
	mu     sync.Mutex
	remote Remote
	newID  func() string

	// synced is the last catalog successfully loaded or saved.
	synced *models.Catalog

	categories []models.Category
	questions  []QuestionRow
	options    []OptionRow

	baseQuestions []models.Question
	baseOptions   []models.Option

	// keyOnFocus maps a question's client id to its key when editing began.
	keyOnFocus map[string]string

	loading bool
	saving  bool
	errMsg  string
	closed  bool
}

// New creates an editor backed by remote. newID generates client ids and
// defaults to random UUIDs when nil.
func New(remote Remote, newID func() string) *Editor {
	if newID == nil {
		newID = uuid.NewString
	}
	return &Editor{
		remote:     remote,
		newID:      newID,
		keyOnFocus: make(map[string]string),
	}
}

// Load fetches the catalog and hydrates the editor with it. On failure the
// previous state is kept and Err reports a readable message.
func (e *Editor) Load(ctx context.Context) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrClosed
	}
	if e.loading || e.saving {
		e.mu.Unlock()
		return ErrBusy
	}
	e.loading = true
	e.errMsg = ""
	e.mu.Unlock()

	raw, err := e.remote.FetchCatalog(ctx)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.loading = false
	if e.closed {
		return ErrClosed
	}
	if err != nil {
		e.errMsg = "Failed to load the ethics catalog: " + err.Error()
		slog.Warn("catalog load failed", "error", err)
		return fmt.Errorf("load catalog: %w", err)
	}

	e.hydrate(catalog.Normalize(raw))
	slog.Debug("catalog loaded", "questions", len(e.questions), "options", len(e.options))
	return nil
}

// Hydrate replaces the editable state with c. Every row gets a new client
// id, so ids handed out earlier no longer resolve.
func (e *Editor) Hydrate(c models.Catalog) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.hydrate(c)
}

func (e *Editor) hydrate(c models.Catalog) {
	snapshot := models.Catalog{
		Categories: slices.Clone(c.Categories),
		Questions:  slices.Clone(c.Questions),
		Options:    slices.Clone(c.Options),
	}
	e.synced = &snapshot

	e.categories = slices.Clone(c.Categories)

	e.questions = make([]QuestionRow, 0, len(c.Questions))
	for _, q := range c.Questions {
		e.questions = append(e.questions, QuestionRow{Question: q, ClientID: e.newID()})
	}
	e.options = make([]OptionRow, 0, len(c.Options))
	for _, o := range c.Options {
		e.options = append(e.options, OptionRow{Option: o, ClientID: e.newID()})
	}

	e.baseQuestions = slices.Clone(c.Questions)
	e.baseOptions = slices.Clone(c.Options)
	e.keyOnFocus = make(map[string]string)
}

// Dirty reports whether the editable rows differ from the baseline. Rows
// are compared field by field with client ids left out.
func (e *Editor) Dirty() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dirty()
}

func (e *Editor) dirty() bool {
	return !slices.Equal(stripQuestions(e.questions), e.baseQuestions) ||
		!slices.Equal(stripOptions(e.options), e.baseOptions)
}

// Close detaches the editor; responses still in flight are discarded.
func (e *Editor) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
}

// Loading reports whether a fetch is in flight.
func (e *Editor) Loading() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loading
}

// Saving reports whether an upsert is in flight.
func (e *Editor) Saving() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.saving
}

// Err returns the last user-facing error message, or "".
func (e *Editor) Err() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.errMsg
}

// Loaded reports whether a catalog has been loaded or hydrated.
func (e *Editor) Loaded() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.synced != nil
}

// Categories returns the loaded categories. They are read-only.
func (e *Editor) Categories() []models.Category {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.categories)
}

// Questions returns a copy of the editable questions.
func (e *Editor) Questions() []QuestionRow {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.questions)
}

// Options returns a copy of the editable options.
func (e *Editor) Options() []OptionRow {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.options)
}

// QuestionsByCategoryKey groups questions by category key, ordered by
// their order field. Archived rows keep their slots.
func (e *Editor) QuestionsByCategoryKey() map[string][]QuestionRow {
	e.mu.Lock()
	defer e.mu.Unlock()
	return catalog.GroupBy(e.questions,
		func(q QuestionRow) string { return q.CategoryKey },
		func(q QuestionRow) int { return q.Order },
	)
}

// OptionsByQuestionKey groups options by question key, ordered by their
// order field.
func (e *Editor) OptionsByQuestionKey() map[string][]OptionRow {
	e.mu.Lock()
	defer e.mu.Unlock()
	return catalog.GroupBy(e.options,
		func(o OptionRow) string { return o.QuestionKey },
		func(o OptionRow) int { return o.Order },
	)
}

func stripQuestions(rows []QuestionRow) []models.Question {
	out := make([]models.Question, len(rows))
	for i, r := range rows {
		out[i] = r.Question
	}
	return out
}

func stripOptions(rows []OptionRow) []models.Option {
	out := make([]models.Option, len(rows))
	for i, r := range rows {
		out[i] = r.Option
	}
	return out
}
