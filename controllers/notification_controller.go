// controllers/notification_controller.go - User notification inbox
package controllers

import (
	"net/http"
	"strconv"
	"time"

	"pkm-management-api/config"
	"pkm-management-api/models"

	"github.com/gin-gonic/gin"
)

// GetNotifications lists the caller's notifications, newest first.
func GetNotifications(c *gin.Context) {
	userID, _ := c.Get("userID")
	unreadOnly := c.Query("unread") == "true"

	var notifications []models.Notification
	query := config.DB.Where("user_id = ?", userID).Order("create_at DESC")
	if unreadOnly {
		query = query.Where("is_read = 0")
	}
	if err := query.Limit(100).Find(&notifications).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch notifications"})
		return
	}

	var unreadCount int64
	config.DB.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = 0", userID).
		Count(&unreadCount)

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"notifications": notifications,
		"unread_count":  unreadCount,
	})
}

// MarkNotificationRead marks one notification as read.
func MarkNotificationRead(c *gin.Context) {
	notificationID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid notification ID"})
		return
	}
	userID, _ := c.Get("userID")

	res := config.DB.Model(&models.Notification{}).
		Where("notification_id = ? AND user_id = ?", notificationID, userID).
		Updates(map[string]interface{}{"is_read": true, "update_at": time.Now()})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update notification"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// MarkAllNotificationsRead marks every unread notification of the caller.
func MarkAllNotificationsRead(c *gin.Context) {
	userID, _ := c.Get("userID")

	if err := config.DB.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = 0", userID).
		Updates(map[string]interface{}{"is_read": true, "update_at": time.Now()}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
