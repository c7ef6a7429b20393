// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package editplan reads YAML edit plans and replays them against an
// editor, the way an operator would click through the admin screen.
package editplan

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"ethicsadmin/internal/catalog"
	"ethicsadmin/internal/editor"
	"ethicsadmin/internal/models"
	"ethicsadmin/internal/slug"
)

var (
	// ErrUnknownQuestion is returned when a plan refers to a question key
	// the catalog does not have.
	ErrUnknownQuestion = errors.New("unknown question")

	// ErrUnknownCategory is returned when a new question names a category
	// that is not seeded.
	ErrUnknownCategory = errors.New("unknown category")
)

// Plan is a batch of catalog edits.
//
//	renames:
//	  - from: q_old
//	    to: q_new
//	questions:
//	  - key: q_transport_mode
//	    category: Transport
//	    label: How are goods shipped?
//	    answerType: Single
//	    options:
//	      - {key: road, label: Road, score: 1}
//	      - {key: rail, label: Rail, score: 2}
//	archive:
//	  questions: [q_legacy]
//	  options:
//	    - {question: q_transport_mode, key: air}
type Plan struct {
	Renames   []Rename       `yaml:"renames"`
	Questions []QuestionEdit `yaml:"questions"`
	Archive   Archive        `yaml:"archive"`
}

// Rename moves a question, and every option under it, to a new key.
type Rename struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// QuestionEdit creates the question when its key is unknown and patches it
// otherwise. Empty or missing fields are left unchanged on update.
type QuestionEdit struct {
	Key        string       `yaml:"key"`
	Category   string       `yaml:"category"`
	Label      string       `yaml:"label"`
	Order      *int         `yaml:"order"`
	AnswerType string       `yaml:"answerType"`
	Active     *bool        `yaml:"active"`
	Options    []OptionEdit `yaml:"options"`
}

// OptionEdit creates or patches an option of the enclosing question.
type OptionEdit struct {
	Key    string   `yaml:"key"`
	Label  string   `yaml:"label"`
	Order  *int     `yaml:"order"`
	Score  *float64 `yaml:"score"`
	Active *bool    `yaml:"active"`
}

// Archive lists rows to soft delete.
type Archive struct {
	Questions []string    `yaml:"questions"`
	Options   []OptionRef `yaml:"options"`
}

// OptionRef addresses an option by its question key and its own key.
type OptionRef struct {
	Question string `yaml:"question"`
	Key      string `yaml:"key"`
}

// Summary counts what Apply changed.
type Summary struct {
	QuestionsAdded   int
	QuestionsUpdated int
	OptionsAdded     int
	OptionsUpdated   int
	Renamed          int
	OptionsMoved     int
	Archived         int
}

func (s Summary) String() string {
	return fmt.Sprintf("%d question(s) added, %d updated; %d option(s) added, %d updated; %d rename(s) moving %d option(s); %d row(s) archived",
		s.QuestionsAdded, s.QuestionsUpdated, s.OptionsAdded, s.OptionsUpdated, s.Renamed, s.OptionsMoved, s.Archived)
}

// Load reads a plan from a YAML file.
func Load(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read plan: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML plan. Unknown fields are rejected so typos surface
// instead of being ignored.
func Parse(data []byte) (*Plan, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var p Plan
	if err := dec.Decode(&p); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse plan: %w", err)
	}

	for i, r := range p.Renames {
		if strings.TrimSpace(r.From) == "" || strings.TrimSpace(r.To) == "" {
			return nil, fmt.Errorf("parse plan: rename %d needs both from and to", i+1)
		}
	}
	for i, q := range p.Questions {
		if strings.TrimSpace(q.Key) == "" && strings.TrimSpace(q.Label) == "" {
			return nil, fmt.Errorf("parse plan: question %d needs a key or a label", i+1)
		}
		if q.AnswerType != "" && !models.AnswerType(q.AnswerType).Valid() {
			return nil, fmt.Errorf("parse plan: question %d: answer type %q is not Single or Multiple", i+1, q.AnswerType)
		}
		for j, o := range q.Options {
			if strings.TrimSpace(o.Key) == "" && strings.TrimSpace(o.Label) == "" {
				return nil, fmt.Errorf("parse plan: question %d option %d needs a key or a label", i+1, j+1)
			}
		}
	}
	return &p, nil
}

// Apply replays the plan on ed: renames first, then question and option
// upserts, then archives. It stops at the first error; edits made up to
// that point stay in the editor and can be discarded with Reset.
func Apply(ed *editor.Editor, p *Plan) (Summary, error) {
	var s Summary

	for _, r := range p.Renames {
		q, ok := ed.FindQuestion(r.From)
		if !ok {
			return s, fmt.Errorf("rename %q: %w", r.From, ErrUnknownQuestion)
		}
		to := strings.TrimSpace(r.To)
		if other, ok := ed.FindQuestion(to); ok && other.ClientID != q.ClientID {
			return s, fmt.Errorf("rename %q: key %q is already taken", r.From, to)
		}
		s.OptionsMoved += ed.RenameQuestionKey(q.ClientID, to)
		s.Renamed++
	}

	categories := make(map[string]string)
	for _, c := range ed.Categories() {
		categories[catalog.NormKey(c.Key)] = c.Key
	}

	for _, qe := range p.Questions {
		key := strings.TrimSpace(qe.Key)
		if key == "" {
			key = slug.Key(qe.Label)
		}

		patch := editor.QuestionPatch{}
		if qe.Category != "" {
			catKey, ok := categories[catalog.NormKey(qe.Category)]
			if !ok {
				return s, fmt.Errorf("question %q: category %q: %w", key, qe.Category, ErrUnknownCategory)
			}
			patch.CategoryKey = &catKey
		}
		if label := strings.TrimSpace(qe.Label); label != "" {
			patch.Label = &label
		}
		if qe.AnswerType != "" {
			at := models.AnswerType(qe.AnswerType)
			patch.AnswerType = &at
		}
		patch.Order = qe.Order
		patch.IsActive = qe.Active

		row, ok := ed.FindQuestion(key)
		if ok {
			ed.UpdateQuestion(row.ClientID, patch)
			s.QuestionsUpdated++
		} else {
			if patch.CategoryKey == nil {
				return s, fmt.Errorf("question %q: new questions need a category", key)
			}
			id := ed.AddQuestion(*patch.CategoryKey)
			patch.Key = &key
			ed.UpdateQuestion(id, patch)
			s.QuestionsAdded++
			row, _ = ed.FindQuestion(key)
		}

		for _, oe := range qe.Options {
			added, err := applyOption(ed, row.Key, oe)
			if err != nil {
				return s, fmt.Errorf("question %q: %w", key, err)
			}
			if added {
				s.OptionsAdded++
			} else {
				s.OptionsUpdated++
			}
		}
	}

	for _, key := range p.Archive.Questions {
		q, ok := ed.FindQuestion(key)
		if !ok {
			return s, fmt.Errorf("archive question %q: %w", key, ErrUnknownQuestion)
		}
		ed.DeleteQuestion(q.ClientID)
		s.Archived++
	}
	for _, ref := range p.Archive.Options {
		o, ok := ed.FindOption(ref.Question, ref.Key)
		if !ok {
			return s, fmt.Errorf("archive option %q of %q: not found", ref.Key, ref.Question)
		}
		ed.DeleteOption(o.ClientID)
		s.Archived++
	}

	return s, nil
}

func applyOption(ed *editor.Editor, questionKey string, oe OptionEdit) (bool, error) {
	key := strings.TrimSpace(oe.Key)
	if key == "" {
		key = slug.Key(oe.Label)
	}

	patch := editor.OptionPatch{Order: oe.Order, Score: oe.Score, IsActive: oe.Active}
	if label := strings.TrimSpace(oe.Label); label != "" {
		patch.Label = &label
	}

	if row, ok := ed.FindOption(questionKey, key); ok {
		ed.UpdateOption(row.ClientID, patch)
		return false, nil
	}

	id := ed.AddOption(questionKey)
	patch.Key = &key
	if !ed.UpdateOption(id, patch) {
		return false, fmt.Errorf("option %q: could not be added", key)
	}
	return true, nil
}
