// controllers/calendar.go - Academic calendar windows
package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"pkm-management-api/config"
	"pkm-management-api/models"
	"pkm-management-api/services"

	ics "github.com/arran4/golang-ical"
	"github.com/gin-gonic/gin"
)

// GetCalendars lists academic windows, newest year first.
func GetCalendars(c *gin.Context) {
	includeDeleted := c.Query("include_deleted") == "true"
	calendars, err := services.NewCalendarService(config.DB).List(includeDeleted)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"calendars": calendars,
		"total":     len(calendars),
	})
}

// GetCurrentCalendar returns the active window, if any.
func GetCurrentCalendar(c *gin.Context) {
	calendar, err := services.NewCalendarService(config.DB).Current()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"calendar": calendar,
	})
}

// CreateCalendar creates a new (inactive) window.
func CreateCalendar(c *gin.Context) {
	var in services.CalendarInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	calendar, err := services.NewCalendarService(config.DB).Create(in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success":  true,
		"calendar": calendar,
	})
}

// UpdateCalendar replaces the window's dates after re-validation.
func UpdateCalendar(c *gin.Context) {
	calendarID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid calendar ID"})
		return
	}

	var in services.CalendarInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	calendar, err := services.NewCalendarService(config.DB).Update(calendarID, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"calendar": calendar,
	})
}

// ActivateCalendar swaps the active window to the target.
func ActivateCalendar(c *gin.Context) {
	calendarID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid calendar ID"})
		return
	}

	if err := services.NewCalendarService(config.DB).Activate(calendarID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Calendar activated",
	})
}

// DeactivateCalendar clears the window's active flag.
func DeactivateCalendar(c *gin.Context) {
	calendarID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid calendar ID"})
		return
	}

	if err := services.NewCalendarService(config.DB).Deactivate(calendarID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Calendar deactivated",
	})
}

// DeleteCalendar tombstones a window.
func DeleteCalendar(c *gin.Context) {
	calendarID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid calendar ID"})
		return
	}

	if err := services.NewCalendarService(config.DB).Delete(calendarID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Calendar deleted",
	})
}

// ExportCalendarICS serves the window's five boundaries as an iCalendar feed
// so students can subscribe from their own calendar apps.
func ExportCalendarICS(c *gin.Context) {
	calendarID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid calendar ID"})
		return
	}

	calendar, err := services.NewCalendarService(config.DB).Get(calendarID)
	if err != nil {
		respondError(c, err)
		return
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//PKM Management//Academic Calendar//EN")

	milestones := []struct {
		suffix  string
		summary string
		at      time.Time
	}{
		{"submission-open", "PKM submission opens", calendar.SubmissionOpen},
		{"submission-close", "PKM submission closes", calendar.SubmissionClose},
		{"review-open", "PKM review opens", calendar.ReviewOpen},
		{"review-close", "PKM review closes", calendar.ReviewClose},
		{"announcement", "PKM results announcement", calendar.Announcement},
	}

	for _, m := range milestones {
		event := cal.AddEvent(fmt.Sprintf("pkm-%d-%s", calendar.CalendarID, m.suffix))
		event.SetCreatedTime(calendar.CreateAt)
		event.SetStartAt(m.at)
		event.SetEndAt(m.at.Add(time.Hour))
		event.SetSummary(fmt.Sprintf("%s (%d)", m.summary, calendar.Year))
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="pkm-calendar-%d.ics"`, calendar.Year))
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(cal.Serialize()))
}

// GetCalendarByID returns a single window.
func GetCalendarByID(c *gin.Context) {
	calendarID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid calendar ID"})
		return
	}

	calendar, err := services.NewCalendarService(config.DB).Get(calendarID)
	if err != nil {
		respondError(c, err)
		return
	}

	var proposalCount int64
	config.DB.Model(&models.Proposal{}).
		Where("calendar_id = ? AND delete_at IS NULL", calendarID).
		Count(&proposalCount)

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"calendar":       calendar,
		"proposal_count": proposalCount,
	})
}
