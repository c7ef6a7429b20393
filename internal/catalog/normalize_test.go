// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package catalog

import (
	"encoding/json"
	"testing"

	"ethicsadmin/internal/models"
)

const flatPayload = `{
	"categories": [
		{"id": 2, "key": "Transport", "label": "Transport", "order": 20, "isActive": true},
		{"id": 1, "key": "MaterialsManufacturing", "label": "Materials", "order": 10, "isActive": true}
	],
	"questions": [
		{"id": 11, "categoryId": 2, "categoryKey": "Transport", "key": "shipping", "label": "Shipping", "order": 10, "answerType": "Single", "isActive": true},
		{"id": 10, "categoryId": 1, "categoryKey": "MaterialsManufacturing", "key": "packaging", "label": "Packaging", "order": 10, "answerType": "Multiple", "isActive": true}
	],
	"options": [
		{"id": 101, "questionId": 10, "questionKey": "packaging", "key": "recycled", "label": "Recycled", "order": 20, "score": 4, "isActive": true},
		{"id": 100, "questionId": 10, "questionKey": "packaging", "key": "plastic", "label": "Plastic", "order": 10, "score": 0.5, "isActive": true}
	]
}`

const nestedPayload = `{
	"data": {
		"result": {
			"categories": [
				{"id": 1, "key": "MaterialsManufacturing", "label": "Materials", "order": 10,
				 "questions": [
					{"id": 10, "key": "packaging", "label": "Packaging", "order": 10,
					 "options": [
						{"id": 100, "key": "plastic", "label": "Plastic", "order": 10, "score": "1.5"},
						{"id": 101, "key": "recycled", "label": "Recycled", "order": 20, "score": 4}
					 ]}
				 ]}
			]
		}
	}
}`

func decode(t *testing.T, s string) any {
	t.Helper()
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return v
}

func TestNormalize_Flat(t *testing.T) {
	c := Normalize(decode(t, flatPayload))

	if len(c.Categories) != 2 || len(c.Questions) != 2 || len(c.Options) != 2 {
		t.Fatalf("counts = %d/%d/%d, want 2/2/2", len(c.Categories), len(c.Questions), len(c.Options))
	}
	if c.Categories[0].Key != "MaterialsManufacturing" {
		t.Errorf("categories not sorted by order: first = %q", c.Categories[0].Key)
	}
	if c.Questions[0].Key != "packaging" {
		t.Errorf("questions not sorted by categoryId: first = %q", c.Questions[0].Key)
	}
	if c.Questions[0].AnswerType != models.AnswerMultiple {
		t.Errorf("answerType = %q, want Multiple", c.Questions[0].AnswerType)
	}
	if c.Options[0].Key != "plastic" || c.Options[0].Score != 0.5 {
		t.Errorf("first option = %+v, want plastic with score 0.5", c.Options[0])
	}
}

func TestNormalize_NestedAndWrapped(t *testing.T) {
	c := Normalize(decode(t, nestedPayload))

	if len(c.Categories) != 1 || len(c.Questions) != 1 || len(c.Options) != 2 {
		t.Fatalf("counts = %d/%d/%d, want 1/1/2", len(c.Categories), len(c.Questions), len(c.Options))
	}
	q := c.Questions[0]
	if q.CategoryKey != "MaterialsManufacturing" || q.CategoryID != 1 {
		t.Errorf("question did not inherit parent category: %+v", q)
	}
	o := c.Options[0]
	if o.QuestionKey != "packaging" || o.QuestionID != 10 {
		t.Errorf("option did not inherit parent question: %+v", o)
	}
	if o.Score != 1.5 {
		t.Errorf("numeric-string score = %v, want 1.5", o.Score)
	}
	if !q.IsActive || !o.IsActive {
		t.Error("missing isActive should default to true")
	}
}

func TestNormalize_FlatTakesPrecedenceOverNested(t *testing.T) {
	payload := `{
		"categories": [{"id": 1, "key": "Transport", "label": "Transport",
			"questions": [{"id": 99, "key": "nested", "label": "Nested"}]}],
		"questions": [{"id": 10, "categoryKey": "Transport", "key": "flat", "label": "Flat"}],
		"options": []
	}`
	c := Normalize(decode(t, payload))
	if len(c.Questions) != 1 || c.Questions[0].Key != "flat" {
		t.Fatalf("questions = %+v, want only the flat one", c.Questions)
	}
	if c.Questions[0].CategoryID != 1 {
		t.Errorf("categoryId not resolved from categoryKey: %d", c.Questions[0].CategoryID)
	}
}

func TestNormalize_AlternateFieldNames(t *testing.T) {
	payload := `{
		"value": {
			"EthicsCategories": {"Items": [{"Id": 1, "Key": "Transport", "Label": "Transport"}]},
			"ethicsQuestions": [{"id": 5, "categoryId": 1, "key": "q", "label": "Q"}],
			"ethicsOptions": {"items": [{"id": 7, "questionId": 5, "key": "o", "label": "O"}]}
		}
	}`
	c := Normalize(decode(t, payload))
	if len(c.Categories) != 1 || len(c.Questions) != 1 || len(c.Options) != 1 {
		t.Fatalf("counts = %d/%d/%d, want 1/1/1", len(c.Categories), len(c.Questions), len(c.Options))
	}
	if c.Questions[0].CategoryKey != "Transport" {
		t.Errorf("categoryKey not resolved from categoryId: %q", c.Questions[0].CategoryKey)
	}
	if c.Options[0].QuestionKey != "q" {
		t.Errorf("questionKey not resolved from questionId: %q", c.Options[0].QuestionKey)
	}
}

func TestNormalize_RowCoercion(t *testing.T) {
	payload := `{
		"categories": [{"id": "3", "key": "Transport", "label": "  <b>Road</b>   &amp; rail ", "order": "x", "isActive": "no"}],
		"questions": [
			{"id": 1, "categoryKey": "Transport", "label": "Électricité verte?", "isActive": 0},
			{"id": 2, "categoryKey": "Transport", "label": "<i></i>", "key": "empty_label"},
			{"id": -4, "categoryKey": "Transport", "label": "Negative id"},
			{"id": 5, "label": "No category"}
		],
		"options": [{"id": 8, "questionKey": "electricite_verte", "label": "Yes", "score": "abc", "isActive": "Y"}]
	}`
	c := Normalize(decode(t, payload))

	if len(c.Categories) != 1 {
		t.Fatalf("categories = %d, want 1", len(c.Categories))
	}
	cat := c.Categories[0]
	if cat.ID != 3 || cat.Label != "Road & rail" || cat.Order != 0 || cat.IsActive {
		t.Errorf("category coercion = %+v", cat)
	}

	if len(c.Questions) != 1 {
		t.Fatalf("questions = %+v, want only the valid one", c.Questions)
	}
	q := c.Questions[0]
	if q.Key != "electricite_verte" {
		t.Errorf("derived key = %q, want electricite_verte", q.Key)
	}
	if q.IsActive {
		t.Error("isActive 0 should coerce to false")
	}
	if q.AnswerType != models.AnswerSingle {
		t.Errorf("default answerType = %q, want Single", q.AnswerType)
	}

	if len(c.Options) != 1 {
		t.Fatalf("options = %d, want 1", len(c.Options))
	}
	o := c.Options[0]
	if o.Score != 0 || !o.IsActive || o.Key != "yes" || o.QuestionID != 1 {
		t.Errorf("option coercion = %+v", o)
	}
}

// TestNormalize_NeverPanics feeds malformed payloads and expects three
// non-nil (possibly empty) slices back.
func TestNormalize_NeverPanics(t *testing.T) {
	inputs := []any{
		nil,
		42,
		"catalog",
		true,
		[]any{1, "x", nil},
		map[string]any{},
		map[string]any{"data": nil},
		map[string]any{"data": "oops"},
		map[string]any{"data": map[string]any{"data": map[string]any{"data": map[string]any{"data": map[string]any{}}}}},
		map[string]any{"categories": "nope", "questions": 3, "options": map[string]any{"items": "x"}},
		map[string]any{"categories": []any{map[string]any{"questions": []any{nil, 1, map[string]any{"options": []any{"x"}}}}}},
		map[string]any{"questions": []any{map[string]any{"id": map[string]any{}, "label": []any{}}}},
	}
	for i, in := range inputs {
		c := Normalize(in)
		if c.Categories == nil || c.Questions == nil || c.Options == nil {
			t.Errorf("input %d: got nil slice in %+v", i, c)
		}
	}
}

func TestNormalize_BareArrayIsCategoryList(t *testing.T) {
	c := Normalize(decode(t, `[{"id": 1, "key": "Transport", "label": "Transport",
		"questions": [{"id": 2, "key": "q", "label": "Q"}]}]`))
	if len(c.Categories) != 1 || len(c.Questions) != 1 {
		t.Fatalf("counts = %d/%d, want 1/1", len(c.Categories), len(c.Questions))
	}
}

func TestNormalize_UnwrapIsBounded(t *testing.T) {
	deep := map[string]any{"data": map[string]any{"data": map[string]any{"data": map[string]any{"data": map[string]any{
		"categories": []any{map[string]any{"id": 1, "key": "k", "label": "L"}},
	}}}}}
	if c := Normalize(deep); len(c.Categories) != 0 {
		t.Errorf("four envelopes should not be unwrapped, got %+v", c.Categories)
	}
}

func TestNormalizeJSON(t *testing.T) {
	c := NormalizeJSON([]byte(flatPayload))
	if len(c.Questions) != 2 {
		t.Errorf("questions = %d, want 2", len(c.Questions))
	}

	empty := NormalizeJSON([]byte("{not json"))
	if !empty.Empty() || empty.Questions == nil {
		t.Errorf("invalid JSON should give an empty catalog, got %+v", empty)
	}
}

func TestNormalizeJSON_LargeIDsSurviveUseNumber(t *testing.T) {
	c := NormalizeJSON([]byte(`{"categories":[{"id": 9007199254740993, "key": "k", "label": "L"}]}`))
	if len(c.Categories) != 1 || c.Categories[0].ID != 9007199254740993 {
		t.Fatalf("categories = %+v", c.Categories)
	}
}
