// controllers/document.go - Proposal document handles
package controllers

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"pkm-management-api/config"
	"pkm-management-api/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const maxUploadSize = 10 << 20 // 10MB

// UploadDocument stores a proposal document and returns its opaque handle.
// The workflow never inspects the content; it only round-trips the file id.
func UploadDocument(c *gin.Context) {
	userID, _ := c.Get("userID")

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File is required"})
		return
	}
	if fileHeader.Size > maxUploadSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File exceeds the 10MB limit"})
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read upload"})
		return
	}
	defer src.Close()

	uploadPath := os.Getenv("UPLOAD_PATH")
	if uploadPath == "" {
		uploadPath = "./uploads"
	}
	storedName := uuid.NewString() + filepath.Ext(fileHeader.Filename)
	storedPath := filepath.Join(uploadPath, storedName)

	dst, err := os.Create(storedPath)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store upload"})
		return
	}
	defer dst.Close()

	hasher := sha256.New()
	size, err := io.Copy(dst, io.TeeReader(src, hasher))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store upload"})
		return
	}

	file := models.FileUpload{
		OriginalName: fileHeader.Filename,
		StoredPath:   storedPath,
		FileSize:     size,
		MimeType:     fileHeader.Header.Get("Content-Type"),
		FileHash:     hex.EncodeToString(hasher.Sum(nil)),
		UploadedBy:   userID.(int),
		UploadedAt:   time.Now(),
		CreateAt:     time.Now(),
	}
	if !file.IsValidDocumentType() {
		os.Remove(storedPath)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only PDF and Word documents are accepted"})
		return
	}
	if err := config.DB.Create(&file).Error; err != nil {
		os.Remove(storedPath)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save upload record"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"file_id": file.FileID,
		"file":    file,
	})
}

// DownloadDocument streams a stored document back to an authorized caller.
func DownloadDocument(c *gin.Context) {
	fileID, err := strconv.Atoi(c.Param("file_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid file ID"})
		return
	}

	var file models.FileUpload
	if err := config.DB.Where("file_id = ? AND delete_at IS NULL", fileID).First(&file).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		return
	}

	userID, _ := c.Get("userID")
	roleID, _ := c.Get("roleID")
	if roleID.(int) == models.RoleStudent && file.UploadedBy != userID.(int) {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, file.OriginalName))
	c.File(file.StoredPath)
}
