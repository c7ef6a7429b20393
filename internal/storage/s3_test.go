// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"ethicsadmin/internal/models"
)

// fakeS3 is a minimal path-style object store.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: map[string][]byte{}, types: map[string]string{}}
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch r.Method {
	case http.MethodPut:
		body, _ := io.ReadAll(r.Body)
		f.objects[r.URL.Path] = body
		f.types[r.URL.Path] = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusOK)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func testClient(t *testing.T) (*Client, *fakeS3) {
	t.Helper()
	fake := newFakeS3()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	c, err := New(srv.URL, "us-east-1", "AKIATEST", "secret", "snapshots")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c, fake
}

func testRevision() *models.CatalogRevision {
	return &models.CatalogRevision{
		ID:        7,
		Actor:     "alice",
		Snapshot:  []byte(`{"categories":[],"questions":[],"options":[]}`),
		CreatedAt: time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC),
	}
}

func TestNewWithoutConfig(t *testing.T) {
	tests := []struct {
		name     string
		endpoint string
		access   string
		secret   string
		bucket   string
	}{
		{"no endpoint", "", "a", "s", "b"},
		{"no bucket", "http://x", "a", "s", ""},
		{"no access key", "http://x", "", "s", "b"},
		{"no secret", "http://x", "a", "", "b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(tt.endpoint, "us-east-1", tt.access, tt.secret, tt.bucket)
			if c != nil || err != nil {
				t.Errorf("New = %v, %v; want nil, nil", c, err)
			}
		})
	}
}

func TestSnapshotKey(t *testing.T) {
	got := SnapshotKey(testRevision())
	want := "catalog-snapshots/20260304T050607Z-7.json"
	if got != want {
		t.Errorf("SnapshotKey = %q, want %q", got, want)
	}
}

func TestArchiveSnapshot(t *testing.T) {
	c, fake := testClient(t)
	ctx := context.Background()
	rev := testRevision()

	key, err := c.ArchiveSnapshot(ctx, rev)
	if err != nil {
		t.Fatalf("ArchiveSnapshot: %v", err)
	}

	path := "/snapshots/" + key
	fake.mu.Lock()
	body, ok := fake.objects[path]
	contentType := fake.types[path]
	fake.mu.Unlock()
	if !ok {
		t.Fatalf("object %s not stored", path)
	}
	if !strings.Contains(string(body), `"questions"`) {
		t.Errorf("stored body = %q", body)
	}
	if contentType != "application/json" {
		t.Errorf("Content-Type = %q", contentType)
	}
}

func TestArchiveSnapshotEmpty(t *testing.T) {
	c, _ := testClient(t)
	rev := testRevision()
	rev.Snapshot = nil
	if _, err := c.ArchiveSnapshot(context.Background(), rev); err == nil {
		t.Error("expected error for empty snapshot")
	}
}

func TestPresignedURL(t *testing.T) {
	c, _ := testClient(t)

	url, err := c.PresignedURL(context.Background(), "catalog-snapshots/a.json", 15*time.Minute)
	if err != nil {
		t.Fatalf("PresignedURL: %v", err)
	}
	if !strings.Contains(url, "/snapshots/catalog-snapshots/a.json") || !strings.Contains(url, "X-Amz-Signature=") {
		t.Errorf("url = %q", url)
	}
	if c.Bucket() != "snapshots" {
		t.Errorf("Bucket() = %q", c.Bucket())
	}
}
