// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the HTTP handlers of the ethics catalog admin API.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"ethicsadmin/internal/catalog"
	"ethicsadmin/internal/middleware"
	"ethicsadmin/internal/models"
	"ethicsadmin/internal/store"
)

// archiveLinkTTL is how long a presigned snapshot link stays valid.
const archiveLinkTTL = 15 * time.Minute

// CatalogStore loads and saves the whole catalog.
type CatalogStore interface {
	Load(ctx context.Context) (*models.Catalog, error)
	Upsert(ctx context.Context, req *models.UpsertRequest, actor string) (*models.Catalog, *models.CatalogRevision, error)
}

// RevisionStore reads the save history.
type RevisionStore interface {
	List(ctx context.Context, limit int) ([]models.CatalogRevision, error)
	FindByID(ctx context.Context, id int64) (*models.CatalogRevision, error)
	SetArchiveKey(ctx context.Context, id int64, key string) error
}

// Cache is the read-through catalog cache.
type Cache interface {
	Get(ctx context.Context) (*models.Catalog, bool)
	Set(ctx context.Context, c *models.Catalog)
	Invalidate(ctx context.Context)
}

// Archiver copies revision snapshots to object storage.
type Archiver interface {
	ArchiveSnapshot(ctx context.Context, rev *models.CatalogRevision) (string, error)
	PresignedURL(ctx context.Context, key string, expires time.Duration) (string, error)
}

// Catalog serves the ethics catalog endpoints. cache and archiver are
// optional and may be nil.
type Catalog struct {
	store     CatalogStore
	revisions RevisionStore
	cache     Cache
	archiver  Archiver
}

// NewCatalog creates the catalog handler group.
func NewCatalog(catalogStore CatalogStore, revisions RevisionStore, cache Cache, archiver Archiver) *Catalog {
	return &Catalog{
		store:     catalogStore,
		revisions: revisions,
		cache:     cache,
		archiver:  archiver,
	}
}

// Get returns the whole catalog, archived rows included.
func (h *Catalog) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if h.cache != nil {
		if c, ok := h.cache.Get(ctx); ok {
			writeData(w, http.StatusOK, c)
			return
		}
	}

	c, err := h.store.Load(ctx)
	if err != nil {
		slog.Error("load catalog failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to load catalog.")
		return
	}
	if h.cache != nil {
		h.cache.Set(ctx, c)
	}
	writeData(w, http.StatusOK, c)
}

// Upsert validates and saves the full catalog, then answers with the
// catalog as stored so the editor can reconcile ids.
func (h *Catalog) Upsert(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor := middleware.ActorFromCtx(ctx)

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var req models.UpsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "Request body is too large.")
			return
		}
		writeError(w, http.StatusBadRequest, "Request body is not a valid catalog.")
		return
	}

	if msg := checkLimits(&req); msg != "" {
		writeError(w, http.StatusUnprocessableEntity, msg)
		return
	}
	if err := catalog.ValidateUpsert(&req); err != nil {
		var verr *catalog.ValidationError
		if errors.As(err, &verr) {
			writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: verr.Message, Code: verr.Code})
			return
		}
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	saved, rev, err := h.store.Upsert(ctx, &req, actor)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrUnknownCategory), errors.Is(err, store.ErrUnknownQuestion),
			errors.Is(err, store.ErrValueTooLong):
			writeError(w, http.StatusUnprocessableEntity, err.Error())
		case errors.Is(err, store.ErrNotFound), errors.Is(err, store.ErrDuplicateKey):
			// The editor worked from a stale catalog; drop ours too.
			if h.cache != nil {
				h.cache.Invalidate(ctx)
			}
			writeError(w, http.StatusConflict, err.Error())
		default:
			slog.Error("save catalog failed", "error", err, "actor", actor)
			writeError(w, http.StatusInternalServerError, "Failed to save catalog.")
		}
		return
	}

	slog.Info("catalog saved",
		"actor", actor,
		"revision", rev.ID,
		"questions", rev.QuestionCount,
		"options", rev.OptionCount,
	)

	if h.cache != nil {
		h.cache.Set(ctx, saved)
	}
	h.archive(ctx, rev)

	w.Header().Set("X-Catalog-Revision", strconv.FormatInt(rev.ID, 10))
	writeData(w, http.StatusOK, saved)
}

// archive copies the revision snapshot to object storage. Failures are
// logged; the save itself has already committed.
func (h *Catalog) archive(ctx context.Context, rev *models.CatalogRevision) {
	if h.archiver == nil {
		return
	}
	key, err := h.archiver.ArchiveSnapshot(ctx, rev)
	if err != nil {
		slog.Warn("archive snapshot failed", "error", err, "revision", rev.ID)
		return
	}
	if err := h.revisions.SetArchiveKey(ctx, rev.ID, key); err != nil {
		slog.Warn("record archive key failed", "error", err, "revision", rev.ID)
		return
	}
	rev.ArchiveKey = key
}

// ListRevisions returns the most recent saves, newest first.
func (h *Catalog) ListRevisions(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer.")
			return
		}
		limit = n
	}

	revs, err := h.revisions.List(r.Context(), limit)
	if err != nil {
		slog.Error("list revisions failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to list revisions.")
		return
	}
	writeData(w, http.StatusOK, revs)
}

// GetRevision returns one revision with its catalog snapshot.
func (h *Catalog) GetRevision(w http.ResponseWriter, r *http.Request) {
	rev, ok := h.findRevision(w, r)
	if !ok {
		return
	}
	writeData(w, http.StatusOK, rev)
}

// RevisionArchive answers with a short-lived download link for the
// revision's archived snapshot.
func (h *Catalog) RevisionArchive(w http.ResponseWriter, r *http.Request) {
	if h.archiver == nil {
		writeError(w, http.StatusServiceUnavailable, "Object storage is not configured.")
		return
	}
	rev, ok := h.findRevision(w, r)
	if !ok {
		return
	}
	if rev.ArchiveKey == "" {
		writeError(w, http.StatusNotFound, "Revision has not been archived.")
		return
	}

	url, err := h.archiver.PresignedURL(r.Context(), rev.ArchiveKey, archiveLinkTTL)
	if err != nil {
		slog.Error("presign archive failed", "error", err, "revision", rev.ID)
		writeError(w, http.StatusBadGateway, "Failed to sign archive link.")
		return
	}
	writeData(w, http.StatusOK, map[string]any{
		"key":       rev.ArchiveKey,
		"url":       url,
		"expiresAt": time.Now().Add(archiveLinkTTL).UTC(),
	})
}

func (h *Catalog) findRevision(w http.ResponseWriter, r *http.Request) (*models.CatalogRevision, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 1 {
		writeError(w, http.StatusBadRequest, "Invalid revision id.")
		return nil, false
	}
	rev, err := h.revisions.FindByID(r.Context(), id)
	if err != nil {
		slog.Error("find revision failed", "error", err, "id", id)
		writeError(w, http.StatusInternalServerError, "Failed to load revision.")
		return nil, false
	}
	if rev == nil {
		writeError(w, http.StatusNotFound, "Revision not found.")
		return nil, false
	}
	return rev, true
}
