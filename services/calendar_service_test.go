package services

import (
	"errors"
	"testing"
	"time"

	"pkm-management-api/utils"
)

func validInput() CalendarInput {
	base := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	return CalendarInput{
		Year:            2026,
		SubmissionOpen:  base,
		SubmissionClose: base.AddDate(0, 1, 0),
		ReviewOpen:      base.AddDate(0, 1, 7),
		ReviewClose:     base.AddDate(0, 2, 7),
		Announcement:    base.AddDate(0, 2, 14),
	}
}

func TestValidateWindowDatesAcceptsOrderedBoundaries(t *testing.T) {
	if err := ValidateWindowDates(validInput()); err != nil {
		t.Fatalf("expected valid window, got %v", err)
	}
}

func TestValidateWindowDatesYearRange(t *testing.T) {
	for _, year := range []int{1999, 2101} {
		in := validInput()
		in.Year = year
		err := ValidateWindowDates(in)
		var verr *utils.ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("year %d: expected ValidationError, got %v", year, err)
		}
		if verr.Field != "year" {
			t.Errorf("year %d: expected field year, got %s", year, verr.Field)
		}
	}
}

func TestValidateWindowDatesRejectsDisorderedBoundaries(t *testing.T) {
	cases := []struct {
		name      string
		mutate    func(*CalendarInput)
		wantField string
	}{
		{
			"close before open",
			func(in *CalendarInput) { in.SubmissionClose = in.SubmissionOpen.AddDate(0, 0, -1) },
			"submission_close",
		},
		{
			"close equals open",
			func(in *CalendarInput) { in.SubmissionClose = in.SubmissionOpen },
			"submission_close",
		},
		{
			"review opens before submission closes",
			func(in *CalendarInput) { in.ReviewOpen = in.SubmissionClose.AddDate(0, 0, -3) },
			"review_open",
		},
		{
			"review close equals review open",
			func(in *CalendarInput) { in.ReviewClose = in.ReviewOpen },
			"review_close",
		},
		{
			"announcement inside review window",
			func(in *CalendarInput) { in.Announcement = in.ReviewClose.Add(-time.Hour) },
			"announcement",
		},
	}

	for _, tc := range cases {
		in := validInput()
		tc.mutate(&in)
		err := ValidateWindowDates(in)
		var verr *utils.ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("%s: expected ValidationError, got %v", tc.name, err)
		}
		if verr.Field != tc.wantField {
			t.Errorf("%s: expected field %s, got %s", tc.name, tc.wantField, verr.Field)
		}
		if verr.Rule != "date_order" {
			t.Errorf("%s: expected rule date_order, got %s", tc.name, verr.Rule)
		}
	}
}
