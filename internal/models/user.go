package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type UserRole string

const (
	RoleStudent    UserRole = "student"
	RoleSupervisor UserRole = "supervisor"
	RoleAdmin      UserRole = "admin"
)

type User struct {
	ID        uint     `json:"id" gorm:"primaryKey"`
	Username  string   `json:"username" gorm:"uniqueIndex;not null;size:150"`
	FirstName string   `json:"first_name" gorm:"size:100"`
	LastName  string   `json:"last_name" gorm:"size:100"`
	Email     string   `json:"email" gorm:"uniqueIndex;not null;size:255"`
	Role      UserRole `json:"role" gorm:"not null;size:20"`

	// Stored as a bcrypt hash, never serialized.
	PasswordHash []byte `json:"-" gorm:"not null"`

	PhoneNumber *string        `json:"phone_number" gorm:"size:20"`
	Preferences datatypes.JSON `json:"preferences,omitempty"`

	// Profile is set only for role=student.
	Profile *StudentProfile `json:"profile,omitempty" gorm:"foreignKey:UserID"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (User) TableName() string {
	return "users"
}

// FullName returns the display name used in reports and listings.
func (u *User) FullName() string {
	if u.FirstName == "" && u.LastName == "" {
		return u.Username
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// StudentProfile is the student-specific extension record. Every user with
// role=student has exactly one; it is created in the same transaction as the
// user at registration time.
type StudentProfile struct {
	ID           uint   `json:"id" gorm:"primaryKey"`
	UserID       uint   `json:"user_id" gorm:"uniqueIndex;not null"`
	User         *User  `json:"user,omitempty" gorm:"foreignKey:UserID"`
	MatricNumber string `json:"matric_number" gorm:"uniqueIndex;not null;size:20"`
	Department   string `json:"department" gorm:"size:100"`

	// AssignedSupervisorID must reference a user with role=supervisor.
	// Enforced by the account service at assignment time, not by a
	// storage constraint.
	AssignedSupervisorID *uint `json:"assigned_supervisor_id" gorm:"index"`
	AssignedSupervisor   *User `json:"assigned_supervisor,omitempty" gorm:"foreignKey:AssignedSupervisorID"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (StudentProfile) TableName() string {
	return "student_profiles"
}
