package models

import (
	"time"

	"gorm.io/gorm"
)

// Revenue is one TYFCB ("Thank You For Closed Business") slip: money the
// recording member received from business a referral relationship generated.
// MemberID is the credited giver of the referral; CreatedBy is the receiver
// who records the slip. Rows are append-only: there is no update path, and
// deletion is an admin-only correction that leaves an audit trail.
type Revenue struct {
	ID                  uint           `gorm:"primaryKey" json:"id"`
	SlipNo              string         `gorm:"uniqueIndex;size:36;not null" json:"slip_no"`
	MemberID            uint           `gorm:"not null;index" json:"member_id"`   // credited giver
	CreatedBy           uint           `gorm:"not null;index" json:"created_by"`  // recording receiver
	AmountCents         int64          `gorm:"not null" json:"amount_cents"`      // fixed-point, > 0
	ReferralID          *uint          `gorm:"index" json:"referral_id"`          // optional originating referral
	Source              string         `gorm:"size:50;default:'referral'" json:"source"` // referral | membership
	Notes               string         `gorm:"type:text" json:"notes"`
	AppreciationMessage string         `gorm:"type:text" json:"appreciation_message"`
	AppreciationReason  string         `gorm:"type:text" json:"appreciation_reason"`
	CreatedAt           time.Time      `json:"created_at"`
	DeletedAt           gorm.DeletedAt `gorm:"index" json:"-"`

	Member   User      `gorm:"foreignKey:MemberID" json:"-"`
	Creator  User      `gorm:"foreignKey:CreatedBy" json:"-"`
	Referral *Referral `gorm:"foreignKey:ReferralID" json:"-"`
}

func (Revenue) TableName() string { return "revenue" }
