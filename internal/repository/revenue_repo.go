package repository

import (
	"errors"
	"time"

	"refnet/internal/domain"
	"refnet/internal/models"

	"gorm.io/gorm"
)

type RevenueRepository struct {
	db *gorm.DB
}

func NewRevenueRepository(db *gorm.DB) *RevenueRepository {
	return &RevenueRepository{db: db}
}

func (r *RevenueRepository) Create(rev *models.Revenue) error {
	return r.db.Create(rev).Error
}

var errCASLost = errors.New("referral version changed")

// CreateClosingReferral inserts the slip and transitions the linked referral
// to Closed in one transaction. The check-and-set on version guarantees that
// of two concurrent closes exactly one commits; the loser's insert never
// happens and nothing is persisted.
func (r *RevenueRepository) CreateClosingReferral(rev *models.Revenue, referralID uint, version int64) (bool, error) {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Referral{}).
			Where("id = ? AND version = ?", referralID, version).
			Updates(map[string]interface{}{"status": domain.StatusClosed, "version": version + 1})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected != 1 {
			return errCASLost
		}
		return tx.Create(rev).Error
	})
	if errors.Is(err, errCASLost) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *RevenueRepository) GetByID(id uint) (*models.Revenue, error) {
	var rev models.Revenue
	if err := r.db.First(&rev, id).Error; err != nil {
		return nil, err
	}
	return &rev, nil
}

func (r *RevenueRepository) Delete(id uint) error {
	return r.db.Delete(&models.Revenue{}, id).Error
}

// TotalFor sums slip amounts for a member in one attribution direction.
// "given" credits the referral giver (member_id); "received" counts slips the
// member recorded for business they received (created_by).
func (r *RevenueRepository) TotalFor(memberID uint, direction string, since time.Time) (int64, error) {
	q := r.db.Model(&models.Revenue{})
	switch direction {
	case domain.DirectionGiven:
		q = q.Where("member_id = ?", memberID)
	case domain.DirectionReceived:
		q = q.Where("created_by = ?", memberID)
	}
	if !since.IsZero() {
		q = q.Where("created_at >= ?", since)
	}
	var total *int64
	if err := q.Select("SUM(amount_cents)").Scan(&total).Error; err != nil {
		return 0, err
	}
	if total == nil {
		return 0, nil
	}
	return *total, nil
}

// ListForMember returns slips where the member is either the credited giver
// or the recording receiver, newest first.
func (r *RevenueRepository) ListForMember(memberID uint, limit, offset int) ([]models.Revenue, error) {
	var list []models.Revenue
	err := r.db.Where("member_id = ? OR created_by = ?", memberID, memberID).
		Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}

func (r *RevenueRepository) ListAll(limit, offset int) ([]models.Revenue, error) {
	var list []models.Revenue
	err := r.db.Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}

// ListSince returns all slips created at or after the cutoff for aggregation.
// A zero cutoff means lifetime.
func (r *RevenueRepository) ListSince(since time.Time) ([]models.Revenue, error) {
	q := r.db.Model(&models.Revenue{})
	if !since.IsZero() {
		q = q.Where("created_at >= ?", since)
	}
	var list []models.Revenue
	err := q.Order("created_at ASC").Find(&list).Error
	return list, err
}
