// cmd/seed - Seeds roles, an admin account and the default grant types.
// Intended for fresh environments; existing rows are left untouched.
package main

import (
	"log"
	"os"
	"time"

	"pkm-management-api/config"
	"pkm-management-api/models"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

var defaultRoles = []models.Role{
	{RoleID: models.RoleStudent, Role: "student"},
	{RoleID: models.RoleAdvisor, Role: "advisor"},
	{RoleID: models.RoleAdmin, Role: "admin"},
	{RoleID: models.RoleReviewer, Role: "reviewer"},
}

var defaultGrantTypes = []models.GrantType{
	{Abbreviation: "PKM-K", GrantName: "Kewirausahaan", MinMembers: 3, MaxMembers: 5, MaxReviewers: 2, IsActive: true},
	{Abbreviation: "PKM-KC", GrantName: "Karsa Cipta", MinMembers: 3, MaxMembers: 5, MaxReviewers: 2, IsActive: true},
	{Abbreviation: "PKM-PM", GrantName: "Pengabdian Masyarakat", MinMembers: 3, MaxMembers: 5, MaxReviewers: 2, IsActive: true},
	{Abbreviation: "PKM-RE", GrantName: "Riset Eksakta", MinMembers: 3, MaxMembers: 5, MaxReviewers: 3, IsActive: true},
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config.InitDB()

	for _, role := range defaultRoles {
		var existing models.Role
		if err := config.DB.Where("role_id = ?", role.RoleID).First(&existing).Error; err == nil {
			continue
		}
		now := time.Now()
		role.CreateAt = &now
		if err := config.DB.Create(&role).Error; err != nil {
			log.Fatalf("Failed to seed role %s: %v", role.Role, err)
		}
		log.Printf("Seeded role %s", role.Role)
	}

	for _, grantType := range defaultGrantTypes {
		var existing models.GrantType
		if err := config.DB.Where("abbreviation = ?", grantType.Abbreviation).First(&existing).Error; err == nil {
			continue
		}
		grantType.CreateAt = time.Now()
		if err := config.DB.Create(&grantType).Error; err != nil {
			log.Fatalf("Failed to seed grant type %s: %v", grantType.Abbreviation, err)
		}
		log.Printf("Seeded grant type %s", grantType.Abbreviation)
	}

	adminEmail := os.Getenv("SEED_ADMIN_EMAIL")
	adminPassword := os.Getenv("SEED_ADMIN_PASSWORD")
	if adminEmail == "" || adminPassword == "" {
		log.Println("SEED_ADMIN_EMAIL / SEED_ADMIN_PASSWORD not set, skipping admin account")
		return
	}

	var existing models.User
	if err := config.DB.Where("email = ?", adminEmail).First(&existing).Error; err == nil {
		log.Printf("Admin account %s already exists", adminEmail)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash admin password: %v", err)
	}

	now := time.Now()
	admin := models.User{
		UserFname: "Program",
		UserLname: "Admin",
		Email:     adminEmail,
		Password:  string(hashed),
		RoleID:    models.RoleAdmin,
		CreateAt:  &now,
	}
	if err := config.DB.Create(&admin).Error; err != nil {
		log.Fatalf("Failed to seed admin account: %v", err)
	}
	log.Printf("Seeded admin account %s", adminEmail)
}
