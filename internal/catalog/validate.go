// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package catalog

import (
	"fmt"
	"strings"

	"ethicsadmin/internal/models"
)

// MinOptionsPerQuestion is the least number of active options an active
// question must carry.
const MinOptionsPerQuestion = 2

// Validation failure codes, in the order the rules are checked.
const (
	CodeQuestionIncomplete = "question_incomplete"
	CodeOptionIncomplete   = "option_incomplete"
	CodeDuplicateQuestion  = "duplicate_question_key"
	CodeDuplicateOption    = "duplicate_option_key"
	CodeTooFewOptions      = "too_few_options"
)

// ValidationError describes the first rule a catalog violates.
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// NormKey is the comparison form of a business key.
func NormKey(k string) string {
	return strings.ToLower(strings.TrimSpace(k))
}

// Validate checks the catalog rows and returns the first violation found,
// or nil. Rules run in a fixed order: incomplete questions, incomplete
// options, duplicate question keys, duplicate option keys within a
// question, then active questions with fewer than MinOptionsPerQuestion
// active options.
func Validate(questions []models.Question, options []models.Option) error {
	for _, q := range questions {
		if blank(q.Key) || blank(q.Label) || blank(q.CategoryKey) {
			return &ValidationError{
				Code:    CodeQuestionIncomplete,
				Message: fmt.Sprintf("Every question needs a key, a label and a category (question %q).", describe(q.Key, q.Label)),
			}
		}
	}

	for _, o := range options {
		if blank(o.Key) || blank(o.Label) || blank(o.QuestionKey) {
			return &ValidationError{
				Code:    CodeOptionIncomplete,
				Message: fmt.Sprintf("Every option needs a key, a label and a question (option %q).", describe(o.Key, o.Label)),
			}
		}
	}

	seenQuestions := make(map[string]bool, len(questions))
	for _, q := range questions {
		k := NormKey(q.Key)
		if seenQuestions[k] {
			return &ValidationError{
				Code:    CodeDuplicateQuestion,
				Message: fmt.Sprintf("Question key %q is used more than once.", strings.TrimSpace(q.Key)),
			}
		}
		seenQuestions[k] = true
	}

	seenOptions := make(map[[2]string]bool, len(options))
	for _, o := range options {
		k := [2]string{NormKey(o.QuestionKey), NormKey(o.Key)}
		if seenOptions[k] {
			return &ValidationError{
				Code:    CodeDuplicateOption,
				Message: fmt.Sprintf("Option key %q is used more than once in question %q.", strings.TrimSpace(o.Key), strings.TrimSpace(o.QuestionKey)),
			}
		}
		seenOptions[k] = true
	}

	activeOptions := make(map[string]int, len(questions))
	for _, o := range options {
		if o.IsActive {
			activeOptions[NormKey(o.QuestionKey)]++
		}
	}
	for _, q := range questions {
		if !q.IsActive {
			continue
		}
		if activeOptions[NormKey(q.Key)] < MinOptionsPerQuestion {
			return &ValidationError{
				Code:    CodeTooFewOptions,
				Message: fmt.Sprintf("Active question %q needs at least %d active options.", strings.TrimSpace(q.Key), MinOptionsPerQuestion),
			}
		}
	}

	return nil
}

// ValidateUpsert applies Validate to a save request, as the server does
// before touching the database.
func ValidateUpsert(req *models.UpsertRequest) error {
	questions := make([]models.Question, 0, len(req.Questions))
	for _, q := range req.Questions {
		questions = append(questions, models.Question{
			CategoryKey: q.CategoryKey,
			Key:         q.Key,
			Label:       q.Label,
			Order:       q.Order,
			AnswerType:  q.AnswerType,
			IsActive:    q.IsActive,
		})
	}
	options := make([]models.Option, 0, len(req.Options))
	for _, o := range req.Options {
		options = append(options, models.Option{
			QuestionKey: o.QuestionKey,
			Key:         o.Key,
			Label:       o.Label,
			Order:       o.Order,
			Score:       o.Score,
			IsActive:    o.IsActive,
		})
	}
	return Validate(questions, options)
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }

func describe(key, label string) string {
	if !blank(key) {
		return strings.TrimSpace(key)
	}
	if !blank(label) {
		return strings.TrimSpace(label)
	}
	return "untitled"
}
