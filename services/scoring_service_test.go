package services

import (
	"errors"
	"math"
	"testing"
	"time"

	"pkm-management-api/models"
	"pkm-management-api/utils"
)

func TestComputeWeightedScore(t *testing.T) {
	criteria := []models.ScoringCriterion{
		{CriterionID: 1, WeightPercent: 60},
		{CriterionID: 2, WeightPercent: 40},
	}
	scores := []models.ReviewerScore{
		{CriterionID: 1, ReviewerID: 10, Score: 80},
		{CriterionID: 1, ReviewerID: 11, Score: 90},
		{CriterionID: 2, ReviewerID: 10, Score: 70},
	}

	// criterion 1 averages 85, criterion 2 stays 70:
	// 85*0.6 + 70*0.4 = 79
	final, err := ComputeWeightedScore(criteria, scores)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(final-79.0) > 1e-9 {
		t.Errorf("ComputeWeightedScore() = %f, want 79.0", final)
	}
}

func TestComputeWeightedScoreRequiresEveryCriterion(t *testing.T) {
	criteria := []models.ScoringCriterion{
		{CriterionID: 1, Title: "Novelty", WeightPercent: 50},
		{CriterionID: 2, Title: "Feasibility", WeightPercent: 50},
	}
	scores := []models.ReviewerScore{
		{CriterionID: 1, ReviewerID: 10, Score: 80},
	}

	_, err := ComputeWeightedScore(criteria, scores)
	var valErr *utils.ValidationError
	if !errors.As(err, &valErr) {
		t.Fatalf("expected ValidationError for the unscored criterion, got %v", err)
	}
	if valErr.Rule != "incomplete" {
		t.Errorf("expected rule incomplete, got %s", valErr.Rule)
	}
}

func TestComputeWeightedScoreIgnoresTombstonedRows(t *testing.T) {
	now := time.Now()
	criteria := []models.ScoringCriterion{
		{CriterionID: 1, WeightPercent: 100},
		{CriterionID: 9, WeightPercent: 50, DeleteAt: &now},
	}
	scores := []models.ReviewerScore{
		{CriterionID: 1, ReviewerID: 10, Score: 60},
		{CriterionID: 1, ReviewerID: 11, Score: 100, DeleteAt: &now},
	}

	final, err := ComputeWeightedScore(criteria, scores)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(final-60.0) > 1e-9 {
		t.Errorf("ComputeWeightedScore() = %f, want 60.0 (deleted rows excluded)", final)
	}
}
