package services

import (
	"errors"
	"testing"
	"time"

	"pkm-management-api/models"
	"pkm-management-api/utils"
)

func TestSummarizeWeights(t *testing.T) {
	now := time.Now()
	cases := []struct {
		name         string
		criteria     []models.ScoringCriterion
		wantTotal    int
		wantComplete bool
	}{
		{"empty ledger", nil, 0, false},
		{
			"partial ledger",
			[]models.ScoringCriterion{{WeightPercent: 40}, {WeightPercent: 30}},
			70, false,
		},
		{
			"complete ledger",
			[]models.ScoringCriterion{{WeightPercent: 40}, {WeightPercent: 30}, {WeightPercent: 30}},
			100, true,
		},
		{
			"overweight ledger",
			[]models.ScoringCriterion{{WeightPercent: 60}, {WeightPercent: 60}},
			120, false,
		},
		{
			"tombstoned rows do not count",
			[]models.ScoringCriterion{
				{WeightPercent: 60},
				{WeightPercent: 40},
				{WeightPercent: 25, DeleteAt: &now},
			},
			100, true,
		},
	}

	for _, tc := range cases {
		total, complete := SummarizeWeights(tc.criteria)
		if total != tc.wantTotal || complete != tc.wantComplete {
			t.Errorf("%s: SummarizeWeights() = (%d, %v), want (%d, %v)",
				tc.name, total, complete, tc.wantTotal, tc.wantComplete)
		}
	}
}

func TestValidateReorderPlan(t *testing.T) {
	if err := ValidateReorderPlan([]ReorderItem{
		{CriterionID: 1, OrderIndex: 2},
		{CriterionID: 2, OrderIndex: 1},
	}); err != nil {
		t.Fatalf("valid plan rejected: %v", err)
	}

	cases := []struct {
		name      string
		items     []ReorderItem
		wantField string
	}{
		{"empty plan", nil, "items"},
		{
			"duplicate criterion",
			[]ReorderItem{{CriterionID: 1, OrderIndex: 1}, {CriterionID: 1, OrderIndex: 2}},
			"criterion_id",
		},
		{
			"duplicate target index",
			[]ReorderItem{{CriterionID: 1, OrderIndex: 1}, {CriterionID: 2, OrderIndex: 1}},
			"order_index",
		},
	}

	for _, tc := range cases {
		err := ValidateReorderPlan(tc.items)
		var valErr *utils.ValidationError
		if !errors.As(err, &valErr) {
			t.Fatalf("%s: expected ValidationError, got %v", tc.name, err)
		}
		if valErr.Field != tc.wantField {
			t.Errorf("%s: expected field %s, got %s", tc.name, tc.wantField, valErr.Field)
		}
	}
}
