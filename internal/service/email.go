package service

import (
	"context"
	"fmt"
	"strconv"

	"gopkg.in/gomail.v2"
)

type emailService struct {
	host     string
	port     int
	username string
	password string
	from     string
}

func NewEmailService(host, port, username, password, from string) EmailService {
	p, _ := strconv.Atoi(port)
	return &emailService{
		host:     host,
		port:     p,
		username: username,
		password: password,
		from:     from,
	}
}

func (s *emailService) SendLoanDecision(ctx context.Context, email, name string, approved bool, amount int64) error {
	subject := "Loan Application Rejected"
	body := fmt.Sprintf("Hello %s,\n\nYour loan application for %d was rejected by the group admin.\n\nBest regards,\nYour SHG Team", name, amount)
	if approved {
		subject = "Loan Application Approved"
		body = fmt.Sprintf("Hello %s,\n\nYour loan application for %d was approved. The repayment schedule is available in your portal.\n\nBest regards,\nYour SHG Team", name, amount)
	}
	return s.send(email, subject, body)
}

func (s *emailService) SendEmiReceipt(ctx context.Context, email, name string, amount int64, txHash string) error {
	body := fmt.Sprintf("Hello %s,\n\nYour EMI payment of %d has been recorded.\n\nLedger reference: %s\n\nBest regards,\nYour SHG Team", name, amount, txHash)
	return s.send(email, "EMI Payment Receipt", body)
}

func (s *emailService) SendEmiReminder(ctx context.Context, email, name string, amount int64, dueOn string) error {
	body := fmt.Sprintf("Hello %s,\n\nThis is a reminder that your EMI of %d is due on %s.\n\nBest regards,\nYour SHG Team", name, amount, dueOn)
	return s.send(email, "Upcoming EMI Payment", body)
}

func (s *emailService) SendOverdueNotice(ctx context.Context, email, name string, amount int64, dueOn string) error {
	body := fmt.Sprintf("Hello %s,\n\nYour EMI of %d was due on %s and has not been received. Please settle it at the earliest to protect your trust score.\n\nBest regards,\nYour SHG Team", name, amount, dueOn)
	return s.send(email, "Overdue EMI Payment", body)
}

func (s *emailService) send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(s.host, s.port, s.username, s.password)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email via gomail: %w", err)
	}

	return nil
}
