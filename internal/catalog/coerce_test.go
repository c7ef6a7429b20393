package catalog

import (
	"encoding/json"
	"math"
	"testing"
)

func TestToInt(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want int64
	}{
		{"float", 42.9, 42},
		{"negative float", -3.7, -3},
		{"numeric string", " 17 ", 17},
		{"max int64 as number", json.Number("9223372036854775807"), math.MaxInt64},
		{"two to the 63 as number", json.Number("9223372036854775808"), -1},
		{"two to the 63 as float", float64(1 << 63), -1},
		{"min int64 as float", float64(math.MinInt64), math.MinInt64},
		{"below min int64", -1e19, -1},
		{"not a number", "abc", -1},
		{"infinity", math.Inf(1), -1},
		{"nil", nil, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := toInt(tt.in, -1); got != tt.want {
				t.Errorf("toInt(%v) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestToAnswerType(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{"Multiple", "Multiple"},
		{" multi ", "Multiple"},
		{"MANY", "Multiple"},
		{"1", "Multiple"},
		{float64(1), "Multiple"},
		{json.Number("1"), "Multiple"},
		{"0", "Single"},
		{float64(0), "Single"},
		{"2", "Single"},
		{"single", "Single"},
		{"", "Single"},
		{nil, "Single"},
	}
	for _, tt := range tests {
		if got := toAnswerType(tt.in); got != tt.want {
			t.Errorf("toAnswerType(%#v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
