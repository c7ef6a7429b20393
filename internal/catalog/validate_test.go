// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package catalog

import (
	"errors"
	"testing"

	"ethicsadmin/internal/models"
)

func question(key string) models.Question {
	return models.Question{CategoryKey: "Transport", Key: key, Label: "Label " + key, AnswerType: models.AnswerSingle, IsActive: true}
}

func option(questionKey, key string) models.Option {
	return models.Option{QuestionKey: questionKey, Key: key, Label: "Label " + key, IsActive: true}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		questions []models.Question
		options   []models.Option
		wantCode  string
	}{
		{
			name:      "valid catalog",
			questions: []models.Question{question("q1")},
			options:   []models.Option{option("q1", "a"), option("q1", "b")},
		},
		{
			name:      "empty catalog",
			questions: nil,
			options:   nil,
		},
		{
			name:      "question without label",
			questions: []models.Question{{CategoryKey: "Transport", Key: "q1", Label: "  ", IsActive: true}},
			wantCode:  CodeQuestionIncomplete,
		},
		{
			name:      "question without category",
			questions: []models.Question{{Key: "q1", Label: "Q", IsActive: true}},
			wantCode:  CodeQuestionIncomplete,
		},
		{
			name:      "option without question key",
			questions: []models.Question{question("q1")},
			options:   []models.Option{option("q1", "a"), {Key: "b", Label: "B", IsActive: true}},
			wantCode:  CodeOptionIncomplete,
		},
		{
			name:      "duplicate question keys ignore case",
			questions: []models.Question{question("Dup"), question("dup")},
			options:   []models.Option{option("dup", "a"), option("dup", "b")},
			wantCode:  CodeDuplicateQuestion,
		},
		{
			name:      "duplicate option keys within a question",
			questions: []models.Question{question("q1")},
			options:   []models.Option{option("q1", "Yes"), option("Q1", "yes")},
			wantCode:  CodeDuplicateOption,
		},
		{
			name:      "same option key under different questions",
			questions: []models.Question{question("q1"), question("q2")},
			options:   []models.Option{option("q1", "a"), option("q1", "b"), option("q2", "a"), option("q2", "b")},
		},
		{
			name:      "active question with one option",
			questions: []models.Question{question("q1")},
			options:   []models.Option{option("q1", "a")},
			wantCode:  CodeTooFewOptions,
		},
		{
			name:      "archived options do not count",
			questions: []models.Question{question("q1")},
			options:   []models.Option{option("q1", "a"), {QuestionKey: "q1", Key: "b", Label: "B", IsActive: false}},
			wantCode:  CodeTooFewOptions,
		},
		{
			name:      "archived question may have no options",
			questions: []models.Question{{CategoryKey: "Transport", Key: "q1", Label: "Q", IsActive: false}},
		},
		{
			name:      "incomplete question reported before duplicates",
			questions: []models.Question{question("dup"), question("dup"), {CategoryKey: "Transport", Key: "x"}},
			wantCode:  CodeQuestionIncomplete,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.questions, tt.options)
			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("Validate: unexpected error: %v", err)
				}
				return
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Validate: got %v, want *ValidationError", err)
			}
			if verr.Code != tt.wantCode {
				t.Errorf("code = %q, want %q (%s)", verr.Code, tt.wantCode, verr.Message)
			}
			if verr.Error() == "" {
				t.Error("validation error should carry a message")
			}
		})
	}
}

func TestValidateUpsert(t *testing.T) {
	req := &models.UpsertRequest{
		Questions: []models.UpsertQuestion{{CategoryKey: "Transport", Key: "q1", Label: "Q", IsActive: true}},
		Options:   []models.UpsertOption{{QuestionKey: "q1", Key: "a", Label: "A", IsActive: true}},
	}
	var verr *ValidationError
	if err := ValidateUpsert(req); !errors.As(err, &verr) || verr.Code != CodeTooFewOptions {
		t.Fatalf("ValidateUpsert = %v, want %s", err, CodeTooFewOptions)
	}

	req.Options = append(req.Options, models.UpsertOption{QuestionKey: "q1", Key: "b", Label: "B", IsActive: true})
	if err := ValidateUpsert(req); err != nil {
		t.Fatalf("ValidateUpsert: unexpected error: %v", err)
	}
}
