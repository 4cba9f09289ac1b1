package service

import (
	"fmt"
	"log"

	"refnet/internal/domain"
	"refnet/internal/models"
	"refnet/internal/repository"
)

// NotificationService records in-app inbox rows. Actual delivery (email,
// push) belongs to an external layer; a failed insert only logs, it never
// fails the operation that triggered it.
type NotificationService struct {
	notifRepo *repository.NotificationRepository
}

func NewNotificationService(notifRepo *repository.NotificationRepository) *NotificationService {
	return &NotificationService{notifRepo: notifRepo}
}

func (s *NotificationService) NotifyReferral(toMemberID uint, senderName, contactName string) {
	err := s.notifRepo.Create(&models.Notification{
		UserID: toMemberID,
		Type:   domain.NotifTypeReferral,
		Title:  "New referral received",
		Body:   fmt.Sprintf("%s sent you a referral for %s", senderName, contactName),
	})
	if err != nil {
		log.Printf("[notify] referral notification for member %d: %v", toMemberID, err)
	}
}

func (s *NotificationService) NotifyTYFCB(memberID uint, receiverName string, amountCents int64) {
	err := s.notifRepo.Create(&models.Notification{
		UserID: memberID,
		Type:   domain.NotifTypeTYFCB,
		Title:  "Thank you for closed business",
		Body:   fmt.Sprintf("%s recorded %.2f in closed business from your referral", receiverName, float64(amountCents)/100),
	})
	if err != nil {
		log.Printf("[notify] tyfcb notification for member %d: %v", memberID, err)
	}
}
