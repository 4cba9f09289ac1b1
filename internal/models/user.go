package models

import (
	"time"

	"refnet/internal/domain"

	"gorm.io/gorm"
)

type User struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	Name             string         `gorm:"size:100;not null" json:"name"`
	Email            string         `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash     string         `gorm:"size:255" json:"-"`
	Role             string         `gorm:"size:20;not null;index;default:'member'" json:"role"` // member | admin
	BusinessCategory string         `gorm:"size:100" json:"business_category"`
	BusinessName     string         `gorm:"size:100" json:"business_name"`
	Phone            string         `gorm:"size:20" json:"phone"`
	Chapter          string         `gorm:"size:100" json:"chapter"`
	MembershipPlan   string         `gorm:"size:50;default:'12 Months'" json:"membership_plan"` // Lifetime, 6 Months, 12 Months
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string { return "users" }

func (u *User) IsAdmin() bool { return u.Role == domain.RoleAdmin }
