// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"encoding/json"
	"time"
)

// CatalogRevision records one successful catalog save. Snapshot holds the
// catalog as it stood right after the save.
type CatalogRevision struct {
	ID            int64           `json:"id"`
	Actor         string          `json:"actor"`
	QuestionCount int             `json:"questionCount"`
	OptionCount   int             `json:"optionCount"`
	Snapshot      json.RawMessage `json:"snapshot,omitempty"`
	ArchiveKey    string          `json:"archiveKey,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
}
