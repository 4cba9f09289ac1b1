package service

import (
	"fmt"
	"time"

	"refnet/internal/domain"
	"refnet/internal/models"
	"refnet/internal/repository"

	"github.com/google/uuid"
)

// RevenueService owns the TYFCB ledger: append-only revenue slips attributed
// from the recording receiver to the credited referral giver.
type RevenueService struct {
	revenueRepo  *repository.RevenueRepository
	referralRepo *repository.ReferralRepository
	userRepo     *repository.UserRepository
	auditRepo    *repository.AuditLogRepository
	notifSvc     *NotificationService
}

func NewRevenueService(
	revenueRepo *repository.RevenueRepository,
	referralRepo *repository.ReferralRepository,
	userRepo *repository.UserRepository,
	auditRepo *repository.AuditLogRepository,
	notifSvc *NotificationService,
) *RevenueService {
	return &RevenueService{
		revenueRepo:  revenueRepo,
		referralRepo: referralRepo,
		userRepo:     userRepo,
		auditRepo:    auditRepo,
		notifSvc:     notifSvc,
	}
}

type RecordRevenueInput struct {
	MemberID            uint   `json:"member_id"` // credited giver
	AmountCents         int64  `json:"amount_cents"`
	ReferralID          *uint  `json:"referral_id"`
	Source              string `json:"source"`
	Notes               string `json:"notes"`
	AppreciationMessage string `json:"appreciation_message"`
	AppreciationReason  string `json:"appreciation_reason"`
}

// Record writes one revenue slip. The actor is the receiver recording the
// business; in.MemberID is the giver being thanked. When a referral is
// linked, the slip and the referral's Closed transition commit in one
// transaction: of two concurrent closes exactly one wins and the loser
// persists nothing. A referral that is already terminal cannot take another
// attributed slip; callers record follow-on business as an unlinked slip.
func (s *RevenueService) Record(actor *models.User, in RecordRevenueInput) (*models.Revenue, error) {
	if in.AmountCents <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", domain.ErrValidation)
	}
	if in.MemberID == actor.ID {
		return nil, fmt.Errorf("%w: cannot credit yourself", domain.ErrValidation)
	}
	if _, err := s.userRepo.GetByID(in.MemberID); err != nil {
		return nil, fmt.Errorf("credited member: %w", storeErr(err))
	}
	if in.Source == "" {
		in.Source = domain.RevenueSourceReferral
	}

	rev := &models.Revenue{
		SlipNo:              uuid.NewString(),
		MemberID:            in.MemberID,
		CreatedBy:           actor.ID,
		AmountCents:         in.AmountCents,
		ReferralID:          in.ReferralID,
		Source:              in.Source,
		Notes:               in.Notes,
		AppreciationMessage: in.AppreciationMessage,
		AppreciationReason:  in.AppreciationReason,
	}

	if in.ReferralID == nil {
		if err := s.revenueRepo.Create(rev); err != nil {
			return nil, storeErr(err)
		}
		s.notifSvc.NotifyTYFCB(in.MemberID, actor.Name, in.AmountCents)
		return rev, nil
	}

	ref, err := s.referralRepo.GetByID(*in.ReferralID)
	if err != nil {
		return nil, fmt.Errorf("referral: %w", storeErr(err))
	}
	if actor.ID != ref.ToMemberID {
		return nil, fmt.Errorf("%w: only the referral recipient can record its revenue", domain.ErrUnauthorized)
	}
	if in.MemberID != ref.FromMemberID {
		return nil, fmt.Errorf("%w: credited member must be the referral sender", domain.ErrValidation)
	}
	if domain.TerminalStatus(ref.Status) {
		return nil, fmt.Errorf("%w: referral is already %s", domain.ErrInvalidTransition, ref.Status)
	}

	won, err := s.revenueRepo.CreateClosingReferral(rev, ref.ID, ref.Version)
	if err != nil {
		return nil, storeErr(err)
	}
	if !won {
		return nil, fmt.Errorf("%w: referral was closed concurrently", domain.ErrInvalidTransition)
	}
	s.notifSvc.NotifyTYFCB(in.MemberID, actor.Name, in.AmountCents)
	return rev, nil
}

// TotalsFor sums slips for a member in one direction over a reporting window.
// "given" credits business the member generated for others (member_id);
// "received" is business the member recorded receiving (created_by).
func (s *RevenueService) TotalsFor(memberID uint, direction, window string) (int64, error) {
	if direction != domain.DirectionGiven && direction != domain.DirectionReceived {
		return 0, fmt.Errorf("%w: direction must be given or received", domain.ErrValidation)
	}
	since, err := windowStart(window, time.Now())
	if err != nil {
		return 0, err
	}
	total, err := s.revenueRepo.TotalFor(memberID, direction, since)
	if err != nil {
		return 0, storeErr(err)
	}
	return total, nil
}

// Delete is the admin-only correction path. There is no update: a wrong slip
// is deleted with a reason and re-recorded. The reason lands in the audit log.
func (s *RevenueService) Delete(actor *models.User, id uint, reason string) error {
	if !actor.IsAdmin() {
		return fmt.Errorf("%w: admin only", domain.ErrUnauthorized)
	}
	if reason == "" {
		return fmt.Errorf("%w: a correction reason is required", domain.ErrValidation)
	}
	rev, err := s.revenueRepo.GetByID(id)
	if err != nil {
		return storeErr(err)
	}
	if err := s.revenueRepo.Delete(rev.ID); err != nil {
		return storeErr(err)
	}
	_ = s.auditRepo.Log(actor.ID, "revenue.delete", "revenue", fmt.Sprint(rev.ID),
		fmt.Sprintf(`{"slip_no":%q,"amount_cents":%d,"member_id":%d,"created_by":%d,"reason":%q}`,
			rev.SlipNo, rev.AmountCents, rev.MemberID, rev.CreatedBy, reason))
	return nil
}

// ListForMember returns slips where the member appears on either side.
// Members list their own; admins anyone's.
func (s *RevenueService) ListForMember(actor *models.User, memberID uint, limit, offset int) ([]models.Revenue, error) {
	if memberID != actor.ID && !actor.IsAdmin() {
		return nil, fmt.Errorf("%w: cannot list another member's revenue", domain.ErrUnauthorized)
	}
	list, err := s.revenueRepo.ListForMember(memberID, limit, offset)
	if err != nil {
		return nil, storeErr(err)
	}
	return list, nil
}

func (s *RevenueService) ListAll(actor *models.User, limit, offset int) ([]models.Revenue, error) {
	if !actor.IsAdmin() {
		return nil, fmt.Errorf("%w: admin only", domain.ErrUnauthorized)
	}
	list, err := s.revenueRepo.ListAll(limit, offset)
	if err != nil {
		return nil, storeErr(err)
	}
	return list, nil
}
