package repository

import (
	"time"

	"refnet/internal/domain"
	"refnet/internal/models"

	"gorm.io/gorm"
)

type ReferralRepository struct {
	db *gorm.DB
}

func NewReferralRepository(db *gorm.DB) *ReferralRepository {
	return &ReferralRepository{db: db}
}

func (r *ReferralRepository) Create(ref *models.Referral) error {
	return r.db.Create(ref).Error
}

func (r *ReferralRepository) GetByID(id uint) (*models.Referral, error) {
	var ref models.Referral
	if err := r.db.First(&ref, id).Error; err != nil {
		return nil, err
	}
	return &ref, nil
}

// UpdateStatusCAS sets the status with a check-and-set on the version column.
// Returns false when another writer got there first (or the row is gone);
// the caller decides whether to re-read or fail.
func (r *ReferralRepository) UpdateStatusCAS(id uint, version int64, newStatus string) (bool, error) {
	res := r.db.Model(&models.Referral{}).
		Where("id = ? AND version = ?", id, version).
		Updates(map[string]interface{}{"status": newStatus, "version": version + 1})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// UpdateDetails persists lead metadata edits (contact info, comments,
// confidential flag). Status and heat are deliberately not touched here.
func (r *ReferralRepository) UpdateDetails(ref *models.Referral) error {
	return r.db.Model(ref).Updates(map[string]interface{}{
		"contact_name": ref.ContactName,
		"phone":        ref.Phone,
		"email":        ref.Email,
		"comments":     ref.Comments,
		"confidential": ref.Confidential,
	}).Error
}

func (r *ReferralRepository) Delete(id uint) error {
	return r.db.Delete(&models.Referral{}, id).Error
}

// HasAttributedRevenue reports whether any revenue slip links to the referral.
func (r *ReferralRepository) HasAttributedRevenue(id uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Revenue{}).Where("referral_id = ?", id).Count(&count).Error
	return count > 0, err
}

// ListForMember returns referrals the member gave, received, or both,
// newest first.
func (r *ReferralRepository) ListForMember(memberID uint, direction string, limit, offset int) ([]models.Referral, error) {
	q := r.db.Model(&models.Referral{})
	switch direction {
	case domain.DirectionGiven:
		q = q.Where("from_member_id = ?", memberID)
	case domain.DirectionReceived:
		q = q.Where("to_member_id = ?", memberID)
	default:
		q = q.Where("from_member_id = ? OR to_member_id = ?", memberID, memberID)
	}
	var list []models.Referral
	err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}

// ListAll returns every referral for admin views, newest first.
func (r *ReferralRepository) ListAll(limit, offset int) ([]models.Referral, error) {
	var list []models.Referral
	err := r.db.Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}

// ListSince returns all referrals created at or after the cutoff, for the
// aggregation engine. A zero cutoff means lifetime.
func (r *ReferralRepository) ListSince(since time.Time) ([]models.Referral, error) {
	q := r.db.Model(&models.Referral{})
	if !since.IsZero() {
		q = q.Where("created_at >= ?", since)
	}
	var list []models.Referral
	err := q.Order("created_at ASC").Find(&list).Error
	return list, err
}
