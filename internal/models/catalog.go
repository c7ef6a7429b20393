// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package models defines the ethics catalog data types shared by the
// normalizer, the editor, the store and the HTTP layer.
package models

// AnswerType controls how many options a respondent may pick for a question.
type AnswerType string

const (
	AnswerSingle   AnswerType = "Single"
	AnswerMultiple AnswerType = "Multiple"
)

// Valid reports whether t is one of the known answer types.
func (t AnswerType) Valid() bool {
	return t == AnswerSingle || t == AnswerMultiple
}

// Category is a fixed top-level grouping of questions (e.g. "Transport").
// Categories are seeded and never created or deleted through the editor.
type Category struct {
	ID       int64  `json:"id"`
	Key      string `json:"key"`
	Label    string `json:"label"`
	Order    int    `json:"order"`
	IsActive bool   `json:"isActive"`
}

// Question is a single ethics question. An ID <= 0 marks a row that has
// not been persisted yet.
type Question struct {
	ID          int64      `json:"id"`
	CategoryID  int64      `json:"categoryId"`
	CategoryKey string     `json:"categoryKey"`
	Key         string     `json:"key"`
	Label       string     `json:"label"`
	Order       int        `json:"order"`
	AnswerType  AnswerType `json:"answerType"`
	IsActive    bool       `json:"isActive"`
}

// IsNew reports whether the question has no server counterpart yet.
func (q Question) IsNew() bool { return q.ID <= 0 }

// Option is a scored answer belonging to a question through QuestionKey.
type Option struct {
	ID          int64   `json:"id"`
	QuestionID  int64   `json:"questionId"`
	QuestionKey string  `json:"questionKey"`
	Key         string  `json:"key"`
	Label       string  `json:"label"`
	Order       int     `json:"order"`
	Score       float64 `json:"score"`
	IsActive    bool    `json:"isActive"`
}

// IsNew reports whether the option has no server counterpart yet.
func (o Option) IsNew() bool { return o.ID <= 0 }

// Catalog is the flat canonical form of the ethics questionnaire.
type Catalog struct {
	Categories []Category `json:"categories"`
	Questions  []Question `json:"questions"`
	Options    []Option   `json:"options"`
}

// Empty reports whether the catalog carries no rows at all.
func (c Catalog) Empty() bool {
	return len(c.Categories) == 0 && len(c.Questions) == 0 && len(c.Options) == 0
}

// UpsertRequest is the body accepted by the catalog save endpoint.
type UpsertRequest struct {
	Categories []UpsertCategory `json:"categories"`
	Questions  []UpsertQuestion `json:"questions"`
	Options    []UpsertOption   `json:"options"`
}

// UpsertCategory updates a seeded category, matched by Key.
type UpsertCategory struct {
	ID       *int64 `json:"id"`
	Key      string `json:"key"`
	Label    string `json:"label"`
	Order    int    `json:"order"`
	IsActive bool   `json:"isActive"`
}

// UpsertQuestion is a question in save form. A nil ID inserts a new row.
type UpsertQuestion struct {
	ID          *int64     `json:"id"`
	CategoryKey string     `json:"categoryKey"`
	Key         string     `json:"key"`
	Label       string     `json:"label"`
	Order       int        `json:"order"`
	AnswerType  AnswerType `json:"answerType"`
	IsActive    bool       `json:"isActive"`
}

// UpsertOption is an option in save form. A nil ID inserts a new row.
type UpsertOption struct {
	ID          *int64  `json:"id"`
	QuestionKey string  `json:"questionKey"`
	Key         string  `json:"key"`
	Label       string  `json:"label"`
	Order       int     `json:"order"`
	Score       float64 `json:"score"`
	IsActive    bool    `json:"isActive"`
}
