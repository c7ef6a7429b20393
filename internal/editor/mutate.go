// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package editor

import (
	"slices"

	"ethicsadmin/internal/catalog"
	"ethicsadmin/internal/models"
)

// orderStep spaces the order of new rows so operators can slot rows in between.
const orderStep = 10

// QuestionPatch carries the fields to overwrite; nil fields are left alone.
type QuestionPatch struct {
	CategoryKey *string
	Key         *string
	Label       *string
	Order       *int
	AnswerType  *models.AnswerType
	IsActive    *bool
}

func (p QuestionPatch) apply(q *models.Question) {
	if p.CategoryKey != nil {
		q.CategoryKey = *p.CategoryKey
	}
	if p.Key != nil {
		q.Key = *p.Key
	}
	if p.Label != nil {
		q.Label = *p.Label
	}
	if p.Order != nil {
		q.Order = *p.Order
	}
	if p.AnswerType != nil {
		q.AnswerType = *p.AnswerType
	}
	if p.IsActive != nil {
		q.IsActive = *p.IsActive
	}
}

// OptionPatch carries the option fields to overwrite.
type OptionPatch struct {
	QuestionKey *string
	Key         *string
	Label       *string
	Order       *int
	Score       *float64
	IsActive    *bool
}

func (p OptionPatch) apply(o *models.Option) {
	if p.QuestionKey != nil {
		o.QuestionKey = *p.QuestionKey
	}
	if p.Key != nil {
		o.Key = *p.Key
	}
	if p.Label != nil {
		o.Label = *p.Label
	}
	if p.Order != nil {
		o.Order = *p.Order
	}
	if p.Score != nil {
		o.Score = *p.Score
	}
	if p.IsActive != nil {
		o.IsActive = *p.IsActive
	}
}

// AddQuestion appends an empty, active question to the category and
// returns its client id. The category id is resolved by the server. It
// returns "" while a load or save is in flight.
func (e *Editor) AddQuestion(categoryKey string) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.busy() {
		return ""
	}

	want := catalog.NormKey(categoryKey)
	count := 0
	for _, q := range e.questions {
		if catalog.NormKey(q.CategoryKey) == want {
			count++
		}
	}

	row := QuestionRow{
		Question: models.Question{
			CategoryKey: categoryKey,
			Order:       (count + 1) * orderStep,
			AnswerType:  models.AnswerSingle,
			IsActive:    true,
		},
		ClientID: e.newID(),
	}
	e.questions = append(slices.Clip(e.questions), row)
	return row.ClientID
}

// UpdateQuestion merges patch into the question. It reports false when no
// row has that client id.
func (e *Editor) UpdateQuestion(clientID string, patch QuestionPatch) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.updateQuestion(clientID, patch.apply)
}

// ToggleQuestionActive flips the question between active and archived.
func (e *Editor) ToggleQuestionActive(clientID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.updateQuestion(clientID, func(q *models.Question) { q.IsActive = !q.IsActive })
}

// AddOption appends an empty, active option to the question and returns
// its client id, or "" while a load or save is in flight.
func (e *Editor) AddOption(questionKey string) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.busy() {
		return ""
	}

	want := catalog.NormKey(questionKey)
	count := 0
	for _, o := range e.options {
		if catalog.NormKey(o.QuestionKey) == want {
			count++
		}
	}

	row := OptionRow{
		Option: models.Option{
			QuestionKey: questionKey,
			Order:       (count + 1) * orderStep,
			IsActive:    true,
		},
		ClientID: e.newID(),
	}
	e.options = append(slices.Clip(e.options), row)
	return row.ClientID
}

// UpdateOption merges patch into the option.
func (e *Editor) UpdateOption(clientID string, patch OptionPatch) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.updateOption(clientID, patch.apply)
}

// ToggleOptionActive flips the option between active and archived.
func (e *Editor) ToggleOptionActive(clientID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.updateOption(clientID, func(o *models.Option) { o.IsActive = !o.IsActive })
}

// BeginQuestionKeyEdit remembers the question's current key so that a
// later CommitQuestionKeyEdit can carry a rename over to its options.
func (e *Editor) BeginQuestionKeyEdit(clientID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	i := e.questionIndex(clientID)
	if i < 0 {
		return false
	}
	e.keyOnFocus[clientID] = e.questions[i].Key
	return true
}

// CommitQuestionKeyEdit compares the question's key with the one recorded
// by BeginQuestionKeyEdit and, if it changed, points every option of the
// old key at the new one. It returns the number of options moved.
func (e *Editor) CommitQuestionKeyEdit(clientID string) int {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.busy() {
		return 0
	}
	oldKey, ok := e.keyOnFocus[clientID]
	delete(e.keyOnFocus, clientID)
	if !ok {
		return 0
	}
	i := e.questionIndex(clientID)
	if i < 0 {
		return 0
	}
	return e.cascadeKey(oldKey, e.questions[i].Key)
}

// RenameQuestionKey sets the question's key and moves its options along in
// one step.
func (e *Editor) RenameQuestionKey(clientID, newKey string) int {
	e.mu.Lock()
	defer e.mu.Unlock()

	i := e.questionIndex(clientID)
	if i < 0 {
		return 0
	}
	oldKey := e.questions[i].Key
	if !e.updateQuestion(clientID, func(q *models.Question) { q.Key = newKey }) {
		return 0
	}
	delete(e.keyOnFocus, clientID)
	return e.cascadeKey(oldKey, newKey)
}

// DeleteQuestion archives the question and every option under its key.
// Nothing is removed; archived rows stay until the next hydrate.
func (e *Editor) DeleteQuestion(clientID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	i := e.questionIndex(clientID)
	if i < 0 {
		return false
	}
	key := catalog.NormKey(e.questions[i].Key)
	if !e.updateQuestion(clientID, func(q *models.Question) { q.IsActive = false }) {
		return false
	}

	if key == "" {
		return true
	}
	opts := slices.Clone(e.options)
	for j := range opts {
		if catalog.NormKey(opts[j].QuestionKey) == key {
			opts[j].IsActive = false
		}
	}
	e.options = opts
	return true
}

// DeleteOption archives a single option.
func (e *Editor) DeleteOption(clientID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.updateOption(clientID, func(o *models.Option) { o.IsActive = false })
}

// FindQuestion looks a question up by business key, ignoring case.
func (e *Editor) FindQuestion(key string) (QuestionRow, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	want := catalog.NormKey(key)
	for _, q := range e.questions {
		if catalog.NormKey(q.Key) == want {
			return q, true
		}
	}
	return QuestionRow{}, false
}

// FindOption looks an option up by question key and option key.
func (e *Editor) FindOption(questionKey, key string) (OptionRow, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	wantQ, want := catalog.NormKey(questionKey), catalog.NormKey(key)
	for _, o := range e.options {
		if catalog.NormKey(o.QuestionKey) == wantQ && catalog.NormKey(o.Key) == want {
			return o, true
		}
	}
	return OptionRow{}, false
}

// updateQuestion replaces the question slice with a copy holding the
// modified row, so snapshots handed out earlier never change. Rows are
// frozen while a load or save is in flight.
func (e *Editor) updateQuestion(clientID string, fn func(*models.Question)) bool {
	i := e.questionIndex(clientID)
	if i < 0 || e.busy() {
		return false
	}
	qs := slices.Clone(e.questions)
	fn(&qs[i].Question)
	e.questions = qs
	return true
}

func (e *Editor) updateOption(clientID string, fn func(*models.Option)) bool {
	i := e.optionIndex(clientID)
	if i < 0 || e.busy() {
		return false
	}
	opts := slices.Clone(e.options)
	fn(&opts[i].Option)
	e.options = opts
	return true
}

// cascadeKey rewrites the question key of every option pointing at oldKey.
// Keys match ignoring case and surrounding space, as they do everywhere
// else in the catalog.
func (e *Editor) cascadeKey(oldKey, newKey string) int {
	old := catalog.NormKey(oldKey)
	if oldKey == newKey || old == "" {
		return 0
	}
	opts := slices.Clone(e.options)
	moved := 0
	for j := range opts {
		if catalog.NormKey(opts[j].QuestionKey) == old && opts[j].QuestionKey != newKey {
			opts[j].QuestionKey = newKey
			moved++
		}
	}
	if moved > 0 {
		e.options = opts
	}
	return moved
}

// busy reports whether a load or save is in flight. Callers hold e.mu.
func (e *Editor) busy() bool {
	return e.loading || e.saving
}

func (e *Editor) questionIndex(clientID string) int {
	return slices.IndexFunc(e.questions, func(q QuestionRow) bool { return q.ClientID == clientID })
}

func (e *Editor) optionIndex(clientID string) int {
	return slices.IndexFunc(e.options, func(o OptionRow) bool { return o.ClientID == clientID })
}
