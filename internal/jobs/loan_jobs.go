package jobs

import (
	"context"
	"fmt"
	"time"

	"shg-backend/internal/domain"
	"shg-backend/internal/logger"
	"shg-backend/internal/repository"
)

// SendEmiReminders notifies members whose next installment falls due within
// the configured reminder window.
func (jr *JobRunner) SendEmiReminders() {
	jr.runWithRecovery("SendEmiReminders", func() {
		ctx := context.Background()

		now := time.Now().UTC()
		to := now.AddDate(0, 0, jr.config.Loan.ReminderDays)
		due, err := jr.store.LoanRepository.ListDueInstallments(ctx, now, to)
		if err != nil {
			logger.Error("Failed to list upcoming installments", "error", err)
			return
		}

		count := 0
		for _, d := range due {
			if err := jr.notifyInstallment(ctx, d, false); err != nil {
				logger.Error("Failed to send EMI reminder", "loan_id", d.LoanID, "error", err)
				continue
			}
			count++
		}
		logger.Info("Sent EMI reminders", "count", count)
	})
}

// SendOverdueNotices notifies members with unpaid installments already past
// their due date.
func (jr *JobRunner) SendOverdueNotices() {
	jr.runWithRecovery("SendOverdueNotices", func() {
		ctx := context.Background()

		now := time.Now().UTC()
		overdue, err := jr.store.LoanRepository.ListDueInstallments(ctx, time.Time{}, now)
		if err != nil {
			logger.Error("Failed to list overdue installments", "error", err)
			return
		}

		count := 0
		for _, d := range overdue {
			if err := jr.notifyInstallment(ctx, d, true); err != nil {
				logger.Error("Failed to send overdue notice", "loan_id", d.LoanID, "error", err)
				continue
			}
			count++
		}
		logger.Info("Sent overdue notices", "count", count)
	})
}

func (jr *JobRunner) notifyInstallment(ctx context.Context, d repository.DueInstallment, overdue bool) error {
	member, err := jr.store.MemberRepository.GetByID(ctx, d.MemberID)
	if err != nil {
		return err
	}
	dueOn := d.DueOn.Format("2006-01-02")

	title := "Upcoming EMI Payment"
	message := fmt.Sprintf("Your EMI of %d is due on %s.", d.EMIAmount, dueOn)
	noteType := "EMI_REMINDER"
	if overdue {
		title = "Overdue EMI Payment"
		message = fmt.Sprintf("Your EMI of %d was due on %s and is still unpaid.", d.EMIAmount, dueOn)
		noteType = "EMI_OVERDUE"
	}

	note := &domain.Notification{
		MemberID: member.ID,
		GroupID:  d.GroupID,
		Title:    title,
		Message:  message,
		Attributes: map[string]string{
			"type":    noteType,
			"loan_id": fmt.Sprintf("%d", d.LoanID),
			"due_on":  dueOn,
		},
	}
	if err := jr.store.NotificationRepository.Create(ctx, note); err != nil {
		return err
	}

	if overdue {
		return jr.services.Email.SendOverdueNotice(ctx, member.Email, member.Name, d.EMIAmount, dueOn)
	}
	return jr.services.Email.SendEmiReminder(ctx, member.Email, member.Name, d.EMIAmount, dueOn)
}
