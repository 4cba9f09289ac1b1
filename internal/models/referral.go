package models

import (
	"time"

	"gorm.io/gorm"
)

// Referral is a business lead passed from one member to another.
// Status follows the lifecycle in domain: Open -> Contacted ->
// Approved/No Response/Bad Fit -> Closed/Lost. Heat is set once at creation.
// Version backs the check-and-set on status updates so two concurrent
// closes cannot both win.
type Referral struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	FromMemberID uint           `gorm:"not null;index" json:"from_member"`
	ToMemberID   uint           `gorm:"not null;index" json:"to_member"`
	ContactName  string         `gorm:"size:100;not null" json:"contact_name"`
	Phone        string         `gorm:"size:20" json:"phone"`
	Email        string         `gorm:"size:120" json:"email"`
	ReferralType string         `gorm:"size:20;not null" json:"referral_type"` // Tier 1, Tier 2, Tier 3
	Heat         string         `gorm:"size:10;not null" json:"heat"`          // Hot, Warm, Cold
	Comments     string         `gorm:"type:text" json:"comments"`
	Status       string         `gorm:"size:20;not null;index;default:'Open'" json:"status"`
	Confidential bool           `gorm:"default:false" json:"confidential"`
	Version      int64          `gorm:"not null;default:0" json:"-"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	FromMember User `gorm:"foreignKey:FromMemberID" json:"-"`
	ToMember   User `gorm:"foreignKey:ToMemberID" json:"-"`
}

func (Referral) TableName() string { return "referrals" }

// Party reports whether the user is one of the two sides of the referral.
func (r *Referral) Party(userID uint) bool {
	return r.FromMemberID == userID || r.ToMemberID == userID
}
