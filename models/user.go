package models

import (
	"time"
)

// Role IDs as seeded in the roles table.
const (
	RoleStudent  = 1
	RoleAdvisor  = 2
	RoleAdmin    = 3
	RoleReviewer = 4
)

type User struct {
	UserID    int        `gorm:"primaryKey;column:user_id" json:"user_id"`
	UserFname string     `gorm:"column:user_fname" json:"user_fname"`
	UserLname string     `gorm:"column:user_lname" json:"user_lname"`
	Email     string     `gorm:"column:email;unique" json:"email"`
	Password  string     `gorm:"column:password" json:"-"`
	RoleID    int        `gorm:"column:role_id" json:"role_id"`
	NIM       *string    `gorm:"column:nim" json:"nim,omitempty"` // student number, null for staff
	NIDN      *string    `gorm:"column:nidn" json:"nidn,omitempty"`
	FacultyID *int       `gorm:"column:faculty_id" json:"faculty_id,omitempty"`
	ProgramID *int       `gorm:"column:program_id" json:"program_id,omitempty"`
	CreateAt  *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt  *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt  *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations
	Role    Role          `gorm:"foreignKey:RoleID" json:"role,omitempty"`
	Faculty *Faculty      `gorm:"foreignKey:FacultyID" json:"faculty,omitempty"`
	Program *StudyProgram `gorm:"foreignKey:ProgramID" json:"program,omitempty"`
}

type Role struct {
	RoleID   int        `gorm:"primaryKey;column:role_id" json:"role_id"`
	Role     string     `gorm:"column:role" json:"role"`
	CreateAt *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

type Faculty struct {
	FacultyID   int        `gorm:"primaryKey;column:faculty_id" json:"faculty_id"`
	FacultyName string     `gorm:"column:faculty_name" json:"faculty_name"`
	CreateAt    *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt    *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt    *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

type StudyProgram struct {
	ProgramID   int        `gorm:"primaryKey;column:program_id" json:"program_id"`
	ProgramName string     `gorm:"column:program_name" json:"program_name"`
	FacultyID   int        `gorm:"column:faculty_id" json:"faculty_id"`
	CreateAt    *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt    *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt    *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	Faculty Faculty `gorm:"foreignKey:FacultyID" json:"faculty,omitempty"`
}

// TableName overrides
func (User) TableName() string {
	return "users"
}

func (Role) TableName() string {
	return "roles"
}

func (Faculty) TableName() string {
	return "faculties"
}

func (StudyProgram) TableName() string {
	return "study_programs"
}

// FullName joins first and last name for notification and recap output.
func (u *User) FullName() string {
	if u.UserLname == "" {
		return u.UserFname
	}
	return u.UserFname + " " + u.UserLname
}
