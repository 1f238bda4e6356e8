package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"shg-backend/internal/domain"
	"shg-backend/internal/repository"
)

type reportService struct {
	loanRepo   repository.LoanRepository
	roundRepo  repository.RoundRepository
	memberRepo repository.MemberRepository
	now        func() time.Time
}

func NewReportService(
	loanRepo repository.LoanRepository,
	roundRepo repository.RoundRepository,
	memberRepo repository.MemberRepository,
) ReportService {
	return &reportService{
		loanRepo:   loanRepo,
		roundRepo:  roundRepo,
		memberRepo: memberRepo,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (s *reportService) FinancialSummary(ctx context.Context, groupID int64) (*domain.FinancialSummary, error) {
	loans, err := s.loanRepo.ListByGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	summary := &domain.FinancialSummary{}
	now := s.now()
	for i := range loans {
		loan := &loans[i]
		if loan.Status != domain.LoanStatusApproved && loan.Status != domain.LoanStatusCompleted {
			continue
		}
		summary.TotalLoans++
		summary.TotalPrincipal += loan.PrincipalAmount
		summary.TotalPaid += loan.PaidAmount
		summary.TotalOutstanding += loan.RemainingAmount
		switch loan.Status {
		case domain.LoanStatusApproved:
			summary.ActiveLoans++
		case domain.LoanStatusCompleted:
			summary.CompletedLoans++
		}
		for j := range loan.Schedule {
			entry := &loan.Schedule[j]
			summary.TotalEMIs++
			if entry.Paid {
				summary.PaidEMIs++
			} else if entry.DueOn.Before(now) {
				summary.OverdueEMIs++
			}
		}
	}
	if summary.TotalEMIs > 0 {
		summary.RepaymentRate = int32(float64(summary.PaidEMIs) / float64(summary.TotalEMIs) * 100)
	}
	return summary, nil
}

// MonthlyBuckets folds the group's cash flow into per-month totals: savings
// from contribution dates, disbursals from loan decision dates, repayments
// from installment settlement dates.
func (s *reportService) MonthlyBuckets(ctx context.Context, groupID int64) ([]domain.MonthlyBucket, error) {
	contributions, err := s.roundRepo.ListContributionsByGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	loans, err := s.loanRepo.ListByGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	buckets := make(map[string]*domain.MonthlyBucket)
	get := func(month string) *domain.MonthlyBucket {
		if b, ok := buckets[month]; ok {
			return b
		}
		b := &domain.MonthlyBucket{Month: month}
		buckets[month] = b
		return b
	}

	for _, c := range contributions {
		get(c.PaidAt.Format("2006-01")).Savings += c.AmountPaid
	}
	for i := range loans {
		loan := &loans[i]
		if (loan.Status == domain.LoanStatusApproved || loan.Status == domain.LoanStatusCompleted) &&
			loan.DecidedOn != nil && len(*loan.DecidedOn) >= 7 {
			get((*loan.DecidedOn)[:7]).Disbursed += loan.PrincipalAmount
		}
		for j := range loan.Schedule {
			entry := &loan.Schedule[j]
			if entry.Paid && entry.PaidAt != nil {
				get(entry.PaidAt.Format("2006-01")).Repaid += loan.EMIAmount
			}
		}
	}

	out := make([]domain.MonthlyBucket, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out, nil
}

func (s *reportService) MemberTrustTable(ctx context.Context, groupID int64) ([]domain.MemberTrustRow, error) {
	members, err := s.memberRepo.ListByGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	rows := make([]domain.MemberTrustRow, 0, len(members))
	for _, m := range members {
		paid, err := s.roundRepo.CountPaidByMember(ctx, groupID, m.ID)
		if err != nil {
			return nil, err
		}
		rows = append(rows, domain.MemberTrustRow{
			MemberID:   m.ID,
			Name:       m.Name,
			TrustScore: m.TrustScore,
			PaidRounds: paid,
			Attendance: fmt.Sprintf("%d/%d", m.AttendancePresent, m.AttendanceTotal),
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].TrustScore > rows[j].TrustScore })
	return rows, nil
}
