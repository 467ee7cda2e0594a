// Package template 提供模板结构校验单元测试
package template

import (
	"strings"
	"testing"

	"github.com/ashwinyue/next-qa/internal/model"
)

// ========== buildPillars 测试 ==========

func TestBuildPillars_Valid(t *testing.T) {
	pillars, warnings, err := buildPillars([]PillarInput{
		{
			Name:      "Communication",
			Weightage: 60,
			Parameters: []ParameterInput{
				{Name: "Greeting", RatingType: "yes_no_na", Weightage: 50},
				{Name: "Tone", RatingType: "numeric", Weightage: 50},
			},
		},
		{
			Name:      "Compliance",
			Weightage: 40,
			Parameters: []ParameterInput{
				{Name: "Disclosure", RatingType: "yes_no_na", Weightage: 100, IsFatal: true},
			},
		},
	})

	if err != nil {
		t.Fatalf("buildPillars() unexpected error: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("warnings = %v, want none", warnings)
	}
	if len(pillars) != 2 {
		t.Fatalf("pillar count = %d, want 2", len(pillars))
	}
	if pillars[0].Sequence != 0 || pillars[1].Sequence != 1 {
		t.Error("pillar sequences should follow input order")
	}
	if !pillars[1].Parameters[0].IsFatal {
		t.Error("IsFatal should carry through")
	}
	if !pillars[0].Parameters[0].WeightageEnabled {
		t.Error("WeightageEnabled should default to true")
	}
}

func TestBuildPillars_DefaultRatingType(t *testing.T) {
	pillars, _, err := buildPillars([]PillarInput{
		{Name: "P", Weightage: 100, Parameters: []ParameterInput{{Name: "a", Weightage: 100}}},
	})

	if err != nil {
		t.Fatalf("buildPillars() unexpected error: %v", err)
	}
	if pillars[0].Parameters[0].RatingType != model.RatingTypeYesNoNA {
		t.Errorf("RatingType = %q, want yes_no_na", pillars[0].Parameters[0].RatingType)
	}
}

func TestBuildPillars_Errors(t *testing.T) {
	tests := []struct {
		name    string
		inputs  []PillarInput
		errPart string
	}{
		{
			name:    "empty pillar",
			inputs:  []PillarInput{{Name: "Empty", Weightage: 100}},
			errPart: "no parameters",
		},
		{
			name: "unknown rating type",
			inputs: []PillarInput{
				{Name: "P", Weightage: 100, Parameters: []ParameterInput{{Name: "a", RatingType: "stars", Weightage: 100}}},
			},
			errPart: "unknown rating type",
		},
		{
			name: "custom without map",
			inputs: []PillarInput{
				{Name: "P", Weightage: 100, Parameters: []ParameterInput{{Name: "a", RatingType: "custom", Weightage: 100}}},
			},
			errPart: "rating map",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := buildPillars(tt.inputs)
			if err == nil {
				t.Fatal("buildPillars() expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.errPart) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.errPart)
			}
		})
	}
}

func TestBuildPillars_WeightageWarnings(t *testing.T) {
	_, warnings, err := buildPillars([]PillarInput{
		{
			Name:      "P1",
			Weightage: 70,
			Parameters: []ParameterInput{
				{Name: "a", Weightage: 60},
				{Name: "b", Weightage: 30},
			},
		},
	})

	if err != nil {
		t.Fatalf("buildPillars() unexpected error: %v", err)
	}
	// 参数权重 90、维度权重 70 都应产生提示
	if len(warnings) != 2 {
		t.Fatalf("warnings = %v, want 2 entries", warnings)
	}
}

func TestBuildPillars_DisabledWeightageIgnored(t *testing.T) {
	disabled := false
	_, warnings, err := buildPillars([]PillarInput{
		{
			Name:      "P1",
			Weightage: 100,
			Parameters: []ParameterInput{
				{Name: "a", Weightage: 100},
				{Name: "note", Weightage: 50, WeightageEnabled: &disabled},
			},
		},
	})

	if err != nil {
		t.Fatalf("buildPillars() unexpected error: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("warnings = %v, disabled parameter weight should not count", warnings)
	}
}
