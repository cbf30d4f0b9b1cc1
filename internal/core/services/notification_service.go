package services

import (
	"log"

	"coopwelfare/internal/adapters/persistence/models"
)

// NotificationService announces lifecycle events. Delivery is
// fire-and-forget: failures are logged and never block the operation
// that triggered them.
type NotificationService struct{}

// NewNotificationService creates a new notification service
func NewNotificationService() *NotificationService {
	return &NotificationService{}
}

// ContributionReviewed announces a review decision to the member
func (s *NotificationService) ContributionReviewed(c *models.Contribution) {
	if s == nil || c == nil {
		return
	}
	go func() {
		log.Printf("📨 Notify member %d: contribution %d %s", c.MemberID, c.ID, c.Status)
	}()
}

// LoanApproved announces loan approval to the member
func (s *NotificationService) LoanApproved(l *models.Loan) {
	if s == nil || l == nil {
		return
	}
	go func() {
		log.Printf("📨 Notify member %d: loan %d approved for %s", l.MemberID, l.ID, l.Principal().StringFixed(2))
	}()
}

// LoanDisbursed announces disbursement to the member
func (s *NotificationService) LoanDisbursed(l *models.Loan) {
	if s == nil || l == nil {
		return
	}
	go func() {
		log.Printf("📨 Notify member %d: loan %d disbursed", l.MemberID, l.ID)
	}()
}

// LoanOverdue announces that a loan has passed its due date
func (s *NotificationService) LoanOverdue(l *models.Loan) {
	if s == nil || l == nil {
		return
	}
	go func() {
		log.Printf("📨 Notify member %d: loan %d is overdue", l.MemberID, l.ID)
	}()
}
