// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package catalog holds the pure functions of the ethics catalog: payload
// normalization, validation, upsert payload building and grouping.
package catalog

import (
	"bytes"
	"cmp"
	"encoding/json"
	"slices"
	"strings"

	"ethicsadmin/internal/models"
	"ethicsadmin/internal/slug"
)

// maxUnwrap bounds how many response envelopes are peeled off.
const maxUnwrap = 3

// Alternate field names, in priority order. Lookups are case-insensitive.
var (
	envelopeFields = []string{"data", "result", "value"}
	categoryFields = []string{"categories", "ethicsCategories", "categoryEntities", "items"}
	questionFields = []string{"questions", "ethicsQuestions", "questionEntities"}
	optionFields   = []string{"options", "ethicsOptions", "optionEntities", "answers"}
)

// Normalize coerces an API payload of unknown shape (wrapped or not, nested
// or flat, loosely typed) into the canonical flat catalog. It never panics;
// unusable input yields an empty catalog with non-nil slices.
func Normalize(raw any) models.Catalog {
	out := models.Catalog{
		Categories: []models.Category{},
		Questions:  []models.Question{},
		Options:    []models.Option{},
	}

	root := unwrap(raw)
	var m map[string]any
	switch t := root.(type) {
	case map[string]any:
		m = t
	case []any:
		// A bare array is taken to be the category list.
		m = map[string]any{"categories": t}
	default:
		return out
	}

	rawCats, _ := extractArray(m, categoryFields)
	rawQuestions, flatQuestions := extractArray(m, questionFields)
	rawOptions, flatOptions := extractArray(m, optionFields)

	var (
		categories []models.Category
		questions  []models.Question
		options    []models.Option
		nestedOpts []models.Option
	)

	for _, rc := range rawCats {
		cm, ok := rc.(map[string]any)
		if !ok {
			continue
		}
		c := parseCategory(cm)
		categories = append(categories, c)

		if flatQuestions {
			continue
		}
		nested, _ := extractArray(cm, questionFields)
		for _, rq := range nested {
			qm, ok := rq.(map[string]any)
			if !ok {
				continue
			}
			q := parseQuestion(qm, &c)
			questions = append(questions, q)
			nestedOpts = append(nestedOpts, nestedOptions(qm, q)...)
		}
	}

	if flatQuestions {
		for _, rq := range rawQuestions {
			qm, ok := rq.(map[string]any)
			if !ok {
				continue
			}
			q := parseQuestion(qm, nil)
			questions = append(questions, q)
			nestedOpts = append(nestedOpts, nestedOptions(qm, q)...)
		}
	}

	if flatOptions {
		for _, ro := range rawOptions {
			om, ok := ro.(map[string]any)
			if !ok {
				continue
			}
			options = append(options, parseOption(om, nil))
		}
	} else {
		options = nestedOpts
	}

	resolveCategoryRefs(categories, questions)
	resolveQuestionRefs(questions, options)

	for _, c := range categories {
		if c.ID > 0 && c.Label != "" {
			out.Categories = append(out.Categories, c)
		}
	}
	for _, q := range questions {
		if q.ID > 0 && q.Label != "" && q.CategoryKey != "" {
			out.Questions = append(out.Questions, q)
		}
	}
	for _, o := range options {
		if o.ID > 0 && o.Label != "" && o.QuestionKey != "" {
			out.Options = append(out.Options, o)
		}
	}

	sortCatalog(&out)
	return out
}

// NormalizeJSON decodes body and normalizes it. Undecodable input yields an
// empty catalog.
func NormalizeJSON(body []byte) models.Catalog {
	var raw any
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		raw = nil
	}
	return Normalize(raw)
}

// unwrap descends into common envelope fields ("data", "result", "value").
func unwrap(v any) any {
	for i := 0; i < maxUnwrap; i++ {
		m, ok := v.(map[string]any)
		if !ok {
			return v
		}
		next, found := field(m, envelopeFields...)
		if !found {
			return v
		}
		switch next.(type) {
		case map[string]any, []any:
			v = next
		default:
			return v
		}
	}
	return v
}

// extractArray returns the first array found under names, also accepting an
// object wrapping the array in an "items" field.
func extractArray(m map[string]any, names []string) ([]any, bool) {
	for _, name := range names {
		v, ok := field(m, name)
		if !ok {
			continue
		}
		switch t := v.(type) {
		case []any:
			return t, true
		case map[string]any:
			if items, ok := field(t, "items"); ok {
				if arr, ok := items.([]any); ok {
					return arr, true
				}
			}
		}
	}
	return nil, false
}

func parseCategory(m map[string]any) models.Category {
	c := models.Category{
		ID:       toInt(value(m, "id"), 0),
		Key:      cleanText(value(m, "key", "code")),
		Label:    cleanText(value(m, "label", "name", "title")),
		Order:    int(toInt(value(m, "order", "sortOrder", "displayOrder", "position"), 0)),
		IsActive: toBool(value(m, "isActive", "active", "enabled"), true),
	}
	if c.Key == "" && c.Label != "" {
		c.Key = slug.Key(c.Label)
	}
	return c
}

func parseQuestion(m map[string]any, parent *models.Category) models.Question {
	q := models.Question{
		ID:          toInt(value(m, "id"), 0),
		CategoryID:  toInt(value(m, "categoryId", "ethicsCategoryId"), 0),
		CategoryKey: cleanText(value(m, "categoryKey", "ethicsCategoryKey")),
		Key:         cleanText(value(m, "key", "code")),
		Label:       cleanText(value(m, "label", "text", "title", "question")),
		Order:       int(toInt(value(m, "order", "sortOrder", "displayOrder", "position"), 0)),
		AnswerType:  models.AnswerType(toAnswerType(value(m, "answerType", "selectionType", "type"))),
		IsActive:    toBool(value(m, "isActive", "active", "enabled"), true),
	}
	if q.Key == "" && q.Label != "" {
		q.Key = slug.Key(q.Label)
	}
	if parent != nil {
		if q.CategoryKey == "" {
			q.CategoryKey = parent.Key
		}
		if q.CategoryID == 0 {
			q.CategoryID = parent.ID
		}
	}
	return q
}

func parseOption(m map[string]any, parent *models.Question) models.Option {
	o := models.Option{
		ID:          toInt(value(m, "id"), 0),
		QuestionID:  toInt(value(m, "questionId", "ethicsQuestionId"), 0),
		QuestionKey: cleanText(value(m, "questionKey", "ethicsQuestionKey")),
		Key:         cleanText(value(m, "key", "code")),
		Label:       cleanText(value(m, "label", "text", "title", "name")),
		Order:       int(toInt(value(m, "order", "sortOrder", "displayOrder", "position"), 0)),
		Score:       toFloat(value(m, "score", "points", "weight"), 0),
		IsActive:    toBool(value(m, "isActive", "active", "enabled"), true),
	}
	if o.Key == "" && o.Label != "" {
		o.Key = slug.Key(o.Label)
	}
	if parent != nil {
		if o.QuestionKey == "" {
			o.QuestionKey = parent.Key
		}
		if o.QuestionID == 0 {
			o.QuestionID = parent.ID
		}
	}
	return o
}

// nestedOptions parses options embedded in a question row.
func nestedOptions(qm map[string]any, q models.Question) []models.Option {
	raw, _ := extractArray(qm, optionFields)
	var out []models.Option
	for _, ro := range raw {
		om, ok := ro.(map[string]any)
		if !ok {
			continue
		}
		out = append(out, parseOption(om, &q))
	}
	return out
}

// value is field without the presence flag.
func value(m map[string]any, names ...string) any {
	v, _ := field(m, names...)
	return v
}

// resolveCategoryRefs fills whichever half of a question's category
// reference is missing from the other half.
func resolveCategoryRefs(categories []models.Category, questions []models.Question) {
	byID := make(map[int64]models.Category, len(categories))
	byKey := make(map[string]models.Category, len(categories))
	for _, c := range categories {
		if c.ID > 0 {
			byID[c.ID] = c
		}
		if c.Key != "" {
			byKey[strings.ToLower(c.Key)] = c
		}
	}
	for i := range questions {
		q := &questions[i]
		if q.CategoryKey == "" {
			if c, ok := byID[q.CategoryID]; ok {
				q.CategoryKey = c.Key
			}
		}
		if q.CategoryID == 0 {
			if c, ok := byKey[strings.ToLower(q.CategoryKey)]; ok {
				q.CategoryID = c.ID
			}
		}
	}
}

// resolveQuestionRefs does the same for option → question references.
func resolveQuestionRefs(questions []models.Question, options []models.Option) {
	byID := make(map[int64]models.Question, len(questions))
	byKey := make(map[string]models.Question, len(questions))
	for _, q := range questions {
		if q.ID > 0 {
			byID[q.ID] = q
		}
		if q.Key != "" {
			byKey[strings.ToLower(q.Key)] = q
		}
	}
	for i := range options {
		o := &options[i]
		if o.QuestionKey == "" {
			if q, ok := byID[o.QuestionID]; ok {
				o.QuestionKey = q.Key
			}
		}
		if o.QuestionID == 0 {
			if q, ok := byKey[strings.ToLower(o.QuestionKey)]; ok {
				o.QuestionID = q.ID
			}
		}
	}
}

func sortCatalog(c *models.Catalog) {
	slices.SortStableFunc(c.Categories, func(a, b models.Category) int {
		return cmp.Or(cmp.Compare(a.Order, b.Order), cmp.Compare(a.ID, b.ID))
	})
	slices.SortStableFunc(c.Questions, func(a, b models.Question) int {
		return cmp.Or(
			cmp.Compare(a.CategoryID, b.CategoryID),
			cmp.Compare(a.Order, b.Order),
			cmp.Compare(a.ID, b.ID),
		)
	})
	slices.SortStableFunc(c.Options, func(a, b models.Option) int {
		return cmp.Or(
			cmp.Compare(a.QuestionID, b.QuestionID),
			cmp.Compare(a.Order, b.Order),
			cmp.Compare(a.ID, b.ID),
		)
	})
}
