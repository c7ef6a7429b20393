// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package editor

import (
	"context"
	"fmt"
	"log/slog"

	"ethicsadmin/internal/catalog"
	"ethicsadmin/internal/models"
)

// Validate returns the first rule the editable rows violate, or nil.
func (e *Editor) Validate() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return catalog.Validate(stripQuestions(e.questions), stripOptions(e.options))
}

// BuildPayload translates the editable rows into the save contract.
func (e *Editor) BuildPayload() models.UpsertRequest {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.buildPayload()
}

func (e *Editor) buildPayload() models.UpsertRequest {
	return catalog.BuildUpsert(e.categories, stripQuestions(e.questions), stripOptions(e.options))
}

// Save validates the rows and sends them to the server. Validation
// failures never reach the network. On success the editor is re-hydrated
// from the server's response, so new rows pick up their server ids and the
// baseline resets. On failure local edits are kept for a retry.
func (e *Editor) Save(ctx context.Context) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrClosed
	}
	if e.loading || e.saving {
		e.mu.Unlock()
		return ErrBusy
	}
	if err := catalog.Validate(stripQuestions(e.questions), stripOptions(e.options)); err != nil {
		e.errMsg = err.Error()
		e.mu.Unlock()
		return err
	}
	payload := e.buildPayload()
	e.saving = true
	e.errMsg = ""
	e.mu.Unlock()

	raw, err := e.remote.UpsertCatalog(ctx, payload)
	var saved models.Catalog
	if err == nil {
		saved = catalog.Normalize(raw)
		if saved.Empty() {
			// Some backends answer a save with an empty body; read it back.
			slog.Debug("upsert response was empty, refetching catalog")
			raw, err = e.remote.FetchCatalog(ctx)
			saved = catalog.Normalize(raw)
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.saving = false
	if e.closed {
		return ErrClosed
	}
	if err != nil {
		e.errMsg = "Failed to save the ethics catalog: " + err.Error()
		slog.Warn("catalog save failed", "error", err)
		return fmt.Errorf("save catalog: %w", err)
	}

	e.hydrate(saved)
	slog.Info("catalog saved", "questions", len(e.questions), "options", len(e.options))
	return nil
}

// Reset discards local edits by re-hydrating from the last synced catalog.
// No network call is made.
func (e *Editor) Reset() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.loading || e.saving {
		return ErrBusy
	}
	if e.synced == nil {
		return ErrNotLoaded
	}
	e.hydrate(*e.synced)
	e.errMsg = ""
	return nil
}
