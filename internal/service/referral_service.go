package service

import (
	"fmt"

	"refnet/internal/domain"
	"refnet/internal/models"
	"refnet/internal/repository"
)

// ReferralService owns the referral lifecycle: creation, the status state
// machine, metadata edits, deletion, and the admin unlock escape hatch.
type ReferralService struct {
	referralRepo *repository.ReferralRepository
	userRepo     *repository.UserRepository
	auditRepo    *repository.AuditLogRepository
	notifSvc     *NotificationService
}

func NewReferralService(
	referralRepo *repository.ReferralRepository,
	userRepo *repository.UserRepository,
	auditRepo *repository.AuditLogRepository,
	notifSvc *NotificationService,
) *ReferralService {
	return &ReferralService{
		referralRepo: referralRepo,
		userRepo:     userRepo,
		auditRepo:    auditRepo,
		notifSvc:     notifSvc,
	}
}

type CreateReferralInput struct {
	ToMember     uint   `json:"to_member"`
	ContactName  string `json:"contact_name"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
	ReferralType string `json:"referral_type"`
	Heat         string `json:"heat"`
	Comments     string `json:"comments"`
	Confidential bool   `json:"confidential"`
}

// Create validates and stores a new referral from the actor to the recipient.
// New referrals always start Open; heat and tier are fixed at creation.
func (s *ReferralService) Create(actor *models.User, in CreateReferralInput) (*models.Referral, error) {
	if in.ToMember == actor.ID {
		return nil, fmt.Errorf("%w: cannot refer a contact to yourself", domain.ErrValidation)
	}
	if in.ContactName == "" {
		return nil, fmt.Errorf("%w: contact_name is required", domain.ErrValidation)
	}
	if in.Phone == "" && in.Email == "" {
		return nil, fmt.Errorf("%w: phone or email is required", domain.ErrValidation)
	}
	if in.ReferralType == "" {
		in.ReferralType = domain.TierOne
	}
	if !domain.ValidTier(in.ReferralType) {
		return nil, fmt.Errorf("%w: unknown referral_type %q", domain.ErrValidation, in.ReferralType)
	}
	if in.Heat == "" {
		in.Heat = domain.HeatWarm
	}
	if !domain.ValidHeat(in.Heat) {
		return nil, fmt.Errorf("%w: unknown heat %q", domain.ErrValidation, in.Heat)
	}
	recipient, err := s.userRepo.GetByID(in.ToMember)
	if err != nil {
		return nil, fmt.Errorf("recipient: %w", storeErr(err))
	}

	ref := &models.Referral{
		FromMemberID: actor.ID,
		ToMemberID:   recipient.ID,
		ContactName:  in.ContactName,
		Phone:        in.Phone,
		Email:        in.Email,
		ReferralType: in.ReferralType,
		Heat:         in.Heat,
		Comments:     in.Comments,
		Status:       domain.StatusOpen,
		Confidential: in.Confidential,
	}
	if err := s.referralRepo.Create(ref); err != nil {
		return nil, storeErr(err)
	}
	s.notifSvc.NotifyReferral(recipient.ID, actor.Name, ref.ContactName)
	return ref, nil
}

// Get returns a referral the actor is allowed to see. Confidential referrals
// are visible only to the two parties and admins.
func (s *ReferralService) Get(actor *models.User, id uint) (*models.Referral, error) {
	ref, err := s.referralRepo.GetByID(id)
	if err != nil {
		return nil, storeErr(err)
	}
	if ref.Confidential && !ref.Party(actor.ID) && !actor.IsAdmin() {
		return nil, domain.ErrNotFound
	}
	return ref, nil
}

// UpdateStatus moves a referral through the lifecycle. Only the recipient or
// an admin may change status. Non-admins move strictly forward and can never
// leave a terminal state; admins may set any status, and overriding a
// terminal state is audit-logged as an unlock.
//
// The write is a check-and-set on the version loaded here: when two actors
// race, the loser fails with ErrInvalidTransition rather than silently
// overwriting the winner.
func (s *ReferralService) UpdateStatus(actor *models.User, id uint, newStatus string) (*models.Referral, error) {
	if !domain.ValidStatus(newStatus) {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrValidation, newStatus)
	}
	ref, err := s.referralRepo.GetByID(id)
	if err != nil {
		return nil, storeErr(err)
	}
	if actor.ID != ref.ToMemberID && !actor.IsAdmin() {
		return nil, fmt.Errorf("%w: only the recipient or an admin can change status", domain.ErrUnauthorized)
	}
	if !actor.IsAdmin() && !domain.CanTransition(ref.Status, newStatus) {
		return nil, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, ref.Status, newStatus)
	}
	wasTerminal := domain.TerminalStatus(ref.Status)

	ok, err := s.referralRepo.UpdateStatusCAS(ref.ID, ref.Version, newStatus)
	if err != nil {
		return nil, storeErr(err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: referral was updated concurrently", domain.ErrInvalidTransition)
	}
	if actor.IsAdmin() && wasTerminal {
		_ = s.auditRepo.Log(actor.ID, "referral.unlock", "referral", fmt.Sprint(ref.ID),
			fmt.Sprintf(`{"from":%q,"to":%q}`, ref.Status, newStatus))
	}
	ref.Status = newStatus
	ref.Version++
	return ref, nil
}

// Unlock is the explicit admin correction path for terminal referrals: it
// reopens the referral so data-entry mistakes can be fixed, and always logs.
func (s *ReferralService) Unlock(actor *models.User, id uint) (*models.Referral, error) {
	if !actor.IsAdmin() {
		return nil, fmt.Errorf("%w: admin only", domain.ErrUnauthorized)
	}
	ref, err := s.referralRepo.GetByID(id)
	if err != nil {
		return nil, storeErr(err)
	}
	if !domain.TerminalStatus(ref.Status) {
		return nil, fmt.Errorf("%w: referral is not terminal", domain.ErrInvalidTransition)
	}
	ok, err := s.referralRepo.UpdateStatusCAS(ref.ID, ref.Version, domain.StatusOpen)
	if err != nil {
		return nil, storeErr(err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: referral was updated concurrently", domain.ErrInvalidTransition)
	}
	_ = s.auditRepo.Log(actor.ID, "referral.unlock", "referral", fmt.Sprint(ref.ID),
		fmt.Sprintf(`{"from":%q,"to":%q}`, ref.Status, domain.StatusOpen))
	ref.Status = domain.StatusOpen
	ref.Version++
	return ref, nil
}

type UpdateDetailsInput struct {
	ContactName  *string `json:"contact_name"`
	Phone        *string `json:"phone"`
	Email        *string `json:"email"`
	Comments     *string `json:"comments"`
	Confidential *bool   `json:"confidential"`
}

// UpdateDetails edits lead metadata. The sender owns contact details while
// the referral is not terminal; comments may also be edited by the recipient;
// either party may toggle confidentiality on a live referral. Admins can do
// all of the above.
func (s *ReferralService) UpdateDetails(actor *models.User, id uint, in UpdateDetailsInput) (*models.Referral, error) {
	ref, err := s.referralRepo.GetByID(id)
	if err != nil {
		return nil, storeErr(err)
	}
	admin := actor.IsAdmin()
	if !ref.Party(actor.ID) && !admin {
		return nil, fmt.Errorf("%w: not a party to this referral", domain.ErrUnauthorized)
	}
	if domain.TerminalStatus(ref.Status) && !admin {
		return nil, fmt.Errorf("%w: referral is %s", domain.ErrInvalidTransition, ref.Status)
	}

	sender := actor.ID == ref.FromMemberID
	recipient := actor.ID == ref.ToMemberID
	if in.ContactName != nil || in.Phone != nil || in.Email != nil {
		if !sender && !admin {
			return nil, fmt.Errorf("%w: only the sender can edit contact details", domain.ErrUnauthorized)
		}
	}
	if in.Comments != nil && !sender && !recipient && !admin {
		return nil, fmt.Errorf("%w: not a party to this referral", domain.ErrUnauthorized)
	}

	if in.ContactName != nil {
		if *in.ContactName == "" {
			return nil, fmt.Errorf("%w: contact_name cannot be empty", domain.ErrValidation)
		}
		ref.ContactName = *in.ContactName
	}
	if in.Phone != nil {
		ref.Phone = *in.Phone
	}
	if in.Email != nil {
		ref.Email = *in.Email
	}
	if in.Comments != nil {
		ref.Comments = *in.Comments
	}
	if in.Confidential != nil {
		ref.Confidential = *in.Confidential
	}
	if err := s.referralRepo.UpdateDetails(ref); err != nil {
		return nil, storeErr(err)
	}
	return ref, nil
}

// Delete removes a referral. The sender may delete only while the referral is
// still Open; admins may delete at any stage. A referral with attributed
// revenue is never deleted: the slip must be corrected first so the ledger
// keeps balancing.
func (s *ReferralService) Delete(actor *models.User, id uint) error {
	ref, err := s.referralRepo.GetByID(id)
	if err != nil {
		return storeErr(err)
	}
	admin := actor.IsAdmin()
	if !admin {
		if actor.ID != ref.FromMemberID {
			return fmt.Errorf("%w: only the sender or an admin can delete", domain.ErrUnauthorized)
		}
		if ref.Status != domain.StatusOpen {
			return fmt.Errorf("%w: only Open referrals can be deleted", domain.ErrInvalidTransition)
		}
	}
	attributed, err := s.referralRepo.HasAttributedRevenue(ref.ID)
	if err != nil {
		return storeErr(err)
	}
	if attributed {
		return fmt.Errorf("%w: referral has attributed revenue; delete the slip first", domain.ErrValidation)
	}
	if err := s.referralRepo.Delete(ref.ID); err != nil {
		return storeErr(err)
	}
	if admin {
		_ = s.auditRepo.Log(actor.ID, "referral.delete", "referral", fmt.Sprint(ref.ID),
			fmt.Sprintf(`{"status":%q,"from_member":%d,"to_member":%d}`, ref.Status, ref.FromMemberID, ref.ToMemberID))
	}
	return nil
}

// ListForMember returns the member's referrals in the given direction.
// Members can only list their own; admins can list anyone's.
func (s *ReferralService) ListForMember(actor *models.User, memberID uint, direction string, limit, offset int) ([]models.Referral, error) {
	if memberID != actor.ID && !actor.IsAdmin() {
		return nil, fmt.Errorf("%w: cannot list another member's referrals", domain.ErrUnauthorized)
	}
	switch direction {
	case domain.DirectionGiven, domain.DirectionReceived, domain.DirectionBoth:
	default:
		return nil, fmt.Errorf("%w: direction must be given, received or both", domain.ErrValidation)
	}
	list, err := s.referralRepo.ListForMember(memberID, direction, limit, offset)
	if err != nil {
		return nil, storeErr(err)
	}
	return list, nil
}

// ListAll is the admin feed of every referral, confidential rows included.
func (s *ReferralService) ListAll(actor *models.User, limit, offset int) ([]models.Referral, error) {
	if !actor.IsAdmin() {
		return nil, fmt.Errorf("%w: admin only", domain.ErrUnauthorized)
	}
	list, err := s.referralRepo.ListAll(limit, offset)
	if err != nil {
		return nil, storeErr(err)
	}
	return list, nil
}
