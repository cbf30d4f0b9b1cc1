package services

import (
	"context"
	"log"
	"time"

	"coopwelfare/internal/adapters/persistence/repositories"

	"github.com/robfig/cron/v3"
)

// SchedulerService runs periodic maintenance jobs
type SchedulerService struct {
	loans    repositories.LoanRepository
	notifier *NotificationService
	cron     *cron.Cron
}

// NewSchedulerService creates a new scheduler service
func NewSchedulerService(loans repositories.LoanRepository, notifier *NotificationService) *SchedulerService {
	return &SchedulerService{
		loans:    loans,
		notifier: notifier,
		cron:     cron.New(),
	}
}

// Start registers the scheduled jobs and starts the scheduler
func (s *SchedulerService) Start() error {
	// Daily overdue loan scan at 08:30
	if _, err := s.cron.AddFunc("30 8 * * *", s.scanOverdueLoans); err != nil {
		return err
	}

	s.cron.Start()
	log.Println("✅ Scheduler started")
	return nil
}

// Stop stops the scheduler and waits for running jobs
func (s *SchedulerService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("⏹  Scheduler stopped")
}

// scanOverdueLoans notifies members whose disbursed loans are past due
func (s *SchedulerService) scanOverdueLoans() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	overdue, err := s.loans.ListOverdue(ctx, time.Now())
	if err != nil {
		log.Printf("❌ Overdue loan scan failed: %v", err)
		return
	}

	for _, loan := range overdue {
		s.notifier.LoanOverdue(loan)
	}

	if len(overdue) > 0 {
		log.Printf("⚠️  Overdue loan scan found %d loans past due", len(overdue))
	}
}
