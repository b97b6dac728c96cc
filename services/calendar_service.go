package services

import (
	"errors"
	"time"

	"pkm-management-api/models"
	"pkm-management-api/utils"

	"gorm.io/gorm"
)

const (
	calendarYearMin = 2000
	calendarYearMax = 2100
)

// CalendarService owns the academic windows and the single-active invariant.
type CalendarService struct {
	db *gorm.DB
}

func NewCalendarService(db *gorm.DB) *CalendarService {
	return &CalendarService{db: db}
}

// CalendarInput carries the five ordered boundaries of a window.
type CalendarInput struct {
	Year            int       `json:"year" binding:"required"`
	SubmissionOpen  time.Time `json:"submission_open" binding:"required"`
	SubmissionClose time.Time `json:"submission_close" binding:"required"`
	ReviewOpen      time.Time `json:"review_open" binding:"required"`
	ReviewClose     time.Time `json:"review_close" binding:"required"`
	Announcement    time.Time `json:"announcement" binding:"required"`
}

// ValidateWindowDates checks the year range and the strict ordering
// submission_open < submission_close < review_open < review_close <
// announcement. Malformed sequences are rejected before persistence.
func ValidateWindowDates(in CalendarInput) error {
	if in.Year < calendarYearMin || in.Year > calendarYearMax {
		return utils.NewValidationError("year", "range", "year must be between 2000 and 2100")
	}
	bounds := []struct {
		name   string
		before time.Time
		after  time.Time
	}{
		{"submission_close", in.SubmissionOpen, in.SubmissionClose},
		{"review_open", in.SubmissionClose, in.ReviewOpen},
		{"review_close", in.ReviewOpen, in.ReviewClose},
		{"announcement", in.ReviewClose, in.Announcement},
	}
	for _, b := range bounds {
		if !b.before.Before(b.after) {
			return utils.NewValidationError(b.name, "date_order",
				b.name+" must be strictly after the preceding boundary")
		}
	}
	return nil
}

// Create validates and persists a new window. New windows start inactive.
func (s *CalendarService) Create(in CalendarInput) (*models.AcademicCalendar, error) {
	if err := ValidateWindowDates(in); err != nil {
		return nil, err
	}
	calendar := models.AcademicCalendar{
		Year:            in.Year,
		IsActive:        false,
		SubmissionOpen:  in.SubmissionOpen,
		SubmissionClose: in.SubmissionClose,
		ReviewOpen:      in.ReviewOpen,
		ReviewClose:     in.ReviewClose,
		Announcement:    in.Announcement,
		CreateAt:        time.Now(),
	}
	if err := s.db.Create(&calendar).Error; err != nil {
		return nil, err
	}
	return &calendar, nil
}

// Update re-validates the full date set and saves it.
func (s *CalendarService) Update(calendarID int, in CalendarInput) (*models.AcademicCalendar, error) {
	if err := ValidateWindowDates(in); err != nil {
		return nil, err
	}
	calendar, err := s.Get(calendarID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	calendar.Year = in.Year
	calendar.SubmissionOpen = in.SubmissionOpen
	calendar.SubmissionClose = in.SubmissionClose
	calendar.ReviewOpen = in.ReviewOpen
	calendar.ReviewClose = in.ReviewClose
	calendar.Announcement = in.Announcement
	calendar.UpdateAt = &now
	if err := s.db.Save(calendar).Error; err != nil {
		return nil, err
	}
	return calendar, nil
}

// Get returns a window by id or a NotFoundError.
func (s *CalendarService) Get(calendarID int) (*models.AcademicCalendar, error) {
	var calendar models.AcademicCalendar
	err := s.db.Where("calendar_id = ? AND delete_at IS NULL", calendarID).First(&calendar).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &utils.NotFoundError{Resource: "calendar", ID: calendarID}
		}
		return nil, err
	}
	return &calendar, nil
}

// List returns windows newest year first. Tombstoned rows are filtered
// unless includeDeleted is set (restore/audit path).
func (s *CalendarService) List(includeDeleted bool) ([]models.AcademicCalendar, error) {
	var calendars []models.AcademicCalendar
	query := s.db.Order("year DESC, calendar_id DESC")
	if !includeDeleted {
		query = query.Where("delete_at IS NULL")
	}
	if err := query.Find(&calendars).Error; err != nil {
		return nil, err
	}
	return calendars, nil
}

// Activate makes the target window the single active one. The clear of the
// previous flag and the set of the new one happen inside one transaction so
// no reader ever observes two active windows.
func (s *CalendarService) Activate(calendarID int) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var target models.AcademicCalendar
		err := tx.Where("calendar_id = ? AND delete_at IS NULL", calendarID).First(&target).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &utils.NotFoundError{Resource: "calendar", ID: calendarID}
			}
			return err
		}
		if err := tx.Exec("UPDATE academic_calendars SET is_active = 0, update_at = NOW() WHERE is_active = 1").Error; err != nil {
			return err
		}
		return tx.Exec("UPDATE academic_calendars SET is_active = 1, update_at = NOW() WHERE calendar_id = ?", calendarID).Error
	})
}

// Deactivate clears the active flag of the given window, leaving zero active
// windows when it was the active one.
func (s *CalendarService) Deactivate(calendarID int) error {
	res := s.db.Exec("UPDATE academic_calendars SET is_active = 0, update_at = NOW() WHERE calendar_id = ? AND delete_at IS NULL", calendarID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		if _, err := s.Get(calendarID); err != nil {
			return err
		}
	}
	return nil
}

// Current returns the active window, or nil when none is active.
func (s *CalendarService) Current() (*models.AcademicCalendar, error) {
	var calendar models.AcademicCalendar
	err := s.db.Where("is_active = 1 AND delete_at IS NULL").First(&calendar).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &calendar, nil
}

// Delete tombstones a window. An active window is deactivated first so the
// single-active invariant cannot point at a deleted row.
func (s *CalendarService) Delete(calendarID int) error {
	res := s.db.Exec("UPDATE academic_calendars SET is_active = 0, delete_at = NOW(), update_at = NOW() WHERE calendar_id = ? AND delete_at IS NULL", calendarID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return &utils.NotFoundError{Resource: "calendar", ID: calendarID}
	}
	return nil
}
