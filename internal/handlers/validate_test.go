package handlers

import (
	"strings"
	"testing"

	"ethicsadmin/internal/models"
)

func TestCheckLimits(t *testing.T) {
	many := func(n int) []models.UpsertOption {
		return make([]models.UpsertOption, n)
	}

	tests := []struct {
		name      string
		req       models.UpsertRequest
		wantError bool
	}{
		{"empty", models.UpsertRequest{}, false},
		{"valid", models.UpsertRequest{
			Questions: []models.UpsertQuestion{{Key: "q_mode", Label: "Mode", AnswerType: models.AnswerSingle}},
			Options:   []models.UpsertOption{{Key: "road", Label: "Road"}},
		}, false},
		{"question key at limit", models.UpsertRequest{
			Questions: []models.UpsertQuestion{{Key: strings.Repeat("k", 80), Label: "Mode", AnswerType: models.AnswerSingle}},
		}, false},
		{"question key too long", models.UpsertRequest{
			Questions: []models.UpsertQuestion{{Key: strings.Repeat("k", 81), Label: "Mode", AnswerType: models.AnswerSingle}},
		}, true},
		{"option key too long", models.UpsertRequest{
			Options: []models.UpsertOption{{Key: strings.Repeat("ü", 81), Label: "Road"}},
		}, true},
		{"unknown answer type", models.UpsertRequest{
			Questions: []models.UpsertQuestion{{Key: "q_mode", Label: "Mode", AnswerType: "Scale"}},
		}, true},
		{"label too long", models.UpsertRequest{
			Options: []models.UpsertOption{{Key: "road", Label: strings.Repeat("é", 301)}},
		}, true},
		{"category label at limit", models.UpsertRequest{
			Categories: []models.UpsertCategory{{Key: "Transport", Label: strings.Repeat("é", 255)}},
		}, false},
		{"category label too long", models.UpsertRequest{
			Categories: []models.UpsertCategory{{Key: "Transport", Label: strings.Repeat("é", 256)}},
		}, true},
		{"question label longer than a category label", models.UpsertRequest{
			Questions: []models.UpsertQuestion{{Key: "q_mode", Label: strings.Repeat("é", 280), AnswerType: models.AnswerSingle}},
		}, false},
		{"too many options", models.UpsertRequest{Options: many(5_001)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := checkLimits(&tt.req)
			if tt.wantError && result == "" {
				t.Error("expected an error, got none")
			}
			if !tt.wantError && result != "" {
				t.Errorf("unexpected error: %s", result)
			}
		})
	}
}
