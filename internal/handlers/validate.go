package handlers

import (
	"fmt"
	"unicode/utf8"

	"ethicsadmin/internal/models"
	"ethicsadmin/internal/slug"
)

// Size limits for catalog save requests. Key and category label limits
// match the column widths in the catalog migration.
const (
	maxBodyBytes        = 1 << 20
	maxKeyLen           = slug.MaxKeyLen
	maxCategoryLabelLen = 255
	maxLabelLen         = 300
	maxQuestions        = 500
	maxOptions          = 5_000
	maxCategories       = 50
)

// checkLimits rejects requests whose shape is out of bounds, or that carry
// an answer type the database would refuse, before the catalog rules run. It returns the first problem found, or "".
func checkLimits(req *models.UpsertRequest) string {
	if len(req.Categories) > maxCategories {
		return fmt.Sprintf("Too many categories (max %d).", maxCategories)
	}
	if len(req.Questions) > maxQuestions {
		return fmt.Sprintf("Too many questions (max %d).", maxQuestions)
	}
	if len(req.Options) > maxOptions {
		return fmt.Sprintf("Too many options (max %d).", maxOptions)
	}
	for _, c := range req.Categories {
		if msg := checkText("Category", c.Key, c.Label, maxCategoryLabelLen); msg != "" {
			return msg
		}
	}
	for _, q := range req.Questions {
		if msg := checkText("Question", q.Key, q.Label, maxLabelLen); msg != "" {
			return msg
		}
		if !q.AnswerType.Valid() {
			return fmt.Sprintf("Question %q has unknown answer type %q.", q.Key, q.AnswerType)
		}
	}
	for _, o := range req.Options {
		if msg := checkText("Option", o.Key, o.Label, maxLabelLen); msg != "" {
			return msg
		}
	}
	return ""
}

func checkText(kind, key, label string, labelLimit int) string {
	if utf8.RuneCountInString(key) > maxKeyLen {
		return fmt.Sprintf("%s key %q is too long (max %d characters).", kind, key, maxKeyLen)
	}
	if utf8.RuneCountInString(label) > labelLimit {
		return fmt.Sprintf("%s %q label is too long (max %d characters).", kind, key, labelLimit)
	}
	return ""
}
