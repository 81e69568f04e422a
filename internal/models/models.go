package models

import (
	"time"
)

type User struct {
	ID           uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	Email        string     `gorm:"unique;not null"          json:"email"`
	Username     string     `gorm:"unique;not null"          json:"username"`
	PasswordHash string     `gorm:"not null"                 json:"-"`
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	Active       bool       `gorm:"default:true"             json:"active"`
	Roles        []Role     `gorm:"many2many:user_roles"     json:"roles,omitempty"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
}

type Role struct {
	ID   uint   `gorm:"primaryKey"      json:"id"`
	Name string `gorm:"unique;not null" json:"name"`
}

type RefreshToken struct {
	ID              uint       `gorm:"primaryKey"      json:"id"`
	Token           string     `gorm:"unique;not null" json:"token"`
	UserID          uint       `gorm:"index;not null"  json:"user_id"`
	CreatedAt       time.Time  `json:"created_at"`
	ExpiresAt       time.Time  `gorm:"not null"        json:"expires_at"`
	RevokedAt       *time.Time `json:"revoked_at,omitempty"`
	RevokedReason   string     `json:"revoked_reason,omitempty"`
	ReplacedByToken string     `json:"-"`
}

// IsActive reports whether the token can still be redeemed.
func (t *RefreshToken) IsActive() bool {
	return t.RevokedAt == nil && time.Now().Before(t.ExpiresAt)
}

type Department struct {
	ID          uint   `gorm:"primaryKey"      json:"id"`
	Name        string `gorm:"unique;not null" json:"name"`
	Description string `json:"description"`
}

type Employee struct {
	ID           uint      `gorm:"primaryKey"      json:"id"`
	FirstName    string    `gorm:"not null"        json:"first_name"`
	LastName     string    `gorm:"not null"        json:"last_name"`
	Email        string    `gorm:"unique;not null" json:"email"`
	Position     string    `json:"position"`
	DepartmentID uint      `gorm:"index"           json:"department_id"`
	HireDate     time.Time `json:"hire_date"`
	Salary       float64   `json:"salary"`
	Active       bool      `gorm:"default:true"    json:"active"`
}

type Attendance struct {
	ID            uint       `gorm:"primaryKey"                       json:"id"`
	EmployeeID    uint       `gorm:"not null;uniqueIndex:idx_emp_day" json:"employee_id"`
	Date          string     `gorm:"not null;uniqueIndex:idx_emp_day" json:"date"`
	ClockIn       time.Time  `gorm:"not null"                         json:"clock_in"`
	ClockOut      *time.Time `json:"clock_out,omitempty"`
	WorkedHours   float64    `json:"worked_hours"`
	OvertimeHours float64    `json:"overtime_hours"`
}

const (
	LeaveTypeVacation = "vacation"
	LeaveTypeSick     = "sick"
	LeaveTypePersonal = "personal"
	LeaveTypeUnpaid   = "unpaid"

	LeaveStatusPending  = "pending"
	LeaveStatusApproved = "approved"
	LeaveStatusRejected = "rejected"
)

type LeaveRequest struct {
	ID           uint       `gorm:"primaryKey"      json:"id"`
	EmployeeID   uint       `gorm:"index;not null"  json:"employee_id"`
	Type         string     `gorm:"not null"        json:"type"`
	StartDate    time.Time  `gorm:"not null"        json:"start_date"`
	EndDate      time.Time  `gorm:"not null"        json:"end_date"`
	BusinessDays int        `json:"business_days"`
	Status       string     `gorm:"default:pending" json:"status"`
	Reason       string     `json:"reason"`
	DecidedBy    *uint      `json:"decided_by,omitempty"`
	DecidedAt    *time.Time `json:"decided_at,omitempty"`
}
