// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package catalog

import (
	"strings"

	"ethicsadmin/internal/models"
)

// BuildUpsert translates catalog rows into the save contract. Rows that
// were never persisted get a nil ID; string fields are trimmed. Categories
// come from the loaded catalog rather than a fixed list.
func BuildUpsert(categories []models.Category, questions []models.Question, options []models.Option) models.UpsertRequest {
	req := models.UpsertRequest{
		Categories: make([]models.UpsertCategory, 0, len(categories)),
		Questions:  make([]models.UpsertQuestion, 0, len(questions)),
		Options:    make([]models.UpsertOption, 0, len(options)),
	}

	for _, c := range categories {
		req.Categories = append(req.Categories, models.UpsertCategory{
			ID:       persistedID(c.ID),
			Key:      strings.TrimSpace(c.Key),
			Label:    strings.TrimSpace(c.Label),
			Order:    c.Order,
			IsActive: c.IsActive,
		})
	}

	for _, q := range questions {
		answerType := q.AnswerType
		if !answerType.Valid() {
			answerType = models.AnswerSingle
		}
		req.Questions = append(req.Questions, models.UpsertQuestion{
			ID:          persistedID(q.ID),
			CategoryKey: strings.TrimSpace(q.CategoryKey),
			Key:         strings.TrimSpace(q.Key),
			Label:       strings.TrimSpace(q.Label),
			Order:       q.Order,
			AnswerType:  answerType,
			IsActive:    q.IsActive,
		})
	}

	for _, o := range options {
		req.Options = append(req.Options, models.UpsertOption{
			ID:          persistedID(o.ID),
			QuestionKey: strings.TrimSpace(o.QuestionKey),
			Key:         strings.TrimSpace(o.Key),
			Label:       strings.TrimSpace(o.Label),
			Order:       o.Order,
			Score:       o.Score,
			IsActive:    o.IsActive,
		})
	}

	return req
}

// persistedID returns nil for rows without a server id.
func persistedID(id int64) *int64 {
	if id <= 0 {
		return nil
	}
	return &id
}
