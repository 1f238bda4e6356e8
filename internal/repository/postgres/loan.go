package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"shg-backend/internal/domain"
	"shg-backend/internal/logger"
	"shg-backend/internal/repository"
)

type loanRepository struct {
	db *sql.DB
}

func NewLoanRepository(db *sql.DB) repository.LoanRepository {
	return &loanRepository{db: db}
}

const loanColumns = `id, group_id, member_id, principal_amount, interest_rate, tenure_months,
	purpose, emi_amount, total_payable, paid_amount, remaining_amount, status, revision,
	applied_on, decided_on`

// Create inserts the loan and its full schedule in one transaction.
func (r *loanRepository) Create(ctx context.Context, loan *domain.Loan) error {
	logger.DatabaseCall("INSERT", "loans", "memberID", loan.MemberID, "principal", loan.PrincipalAmount)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	insert := `INSERT INTO loans (group_id, member_id, principal_amount, interest_rate, tenure_months,
	           purpose, emi_amount, total_payable, paid_amount, remaining_amount, status, revision, applied_on)
	           VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, 0, $12) RETURNING id`
	now := time.Now().Format("2006-01-02")
	err = tx.QueryRowContext(ctx, insert, loan.GroupID, loan.MemberID, loan.PrincipalAmount,
		loan.InterestRate, loan.TenureMonths, loan.Purpose, loan.EMIAmount, loan.TotalPayable,
		loan.PaidAmount, loan.RemainingAmount, loan.Status, now).Scan(&loan.ID)
	if err != nil {
		return err
	}

	entryInsert := `INSERT INTO loan_schedule (loan_id, seq, due_on, paid) VALUES ($1, $2, $3, false)`
	for i := range loan.Schedule {
		loan.Schedule[i].LoanID = loan.ID
		if _, err := tx.ExecContext(ctx, entryInsert, loan.ID, loan.Schedule[i].Seq, loan.Schedule[i].DueOn); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *loanRepository) GetByID(ctx context.Context, id int64) (*domain.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE id = $1`
	loan, err := scanLoan(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: loan %d", domain.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	if err := r.attachSchedules(ctx, []*domain.Loan{loan}); err != nil {
		return nil, err
	}
	return loan, nil
}

func (r *loanRepository) ListByGroup(ctx context.Context, groupID int64) ([]domain.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE group_id = $1 ORDER BY applied_on DESC, id DESC`
	return r.queryLoans(ctx, query, groupID)
}

func (r *loanRepository) ListByMember(ctx context.Context, memberID int64) ([]domain.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE member_id = $1 ORDER BY applied_on DESC, id DESC`
	return r.queryLoans(ctx, query, memberID)
}

func (r *loanRepository) ListByStatus(ctx context.Context, groupID int64, status domain.LoanStatus) ([]domain.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE group_id = $1 AND status = $2 ORDER BY applied_on, id`
	return r.queryLoans(ctx, query, groupID, status)
}

func (r *loanRepository) UpdateStatus(ctx context.Context, loanID int64, status domain.LoanStatus) error {
	query := `UPDATE loans SET status = $1, decided_on = $2, revision = revision + 1 WHERE id = $3`
	now := time.Now().Format("2006-01-02")
	res, err := r.db.ExecContext(ctx, query, status, now, loanID)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return fmt.Errorf("%w: loan %d", domain.ErrNotFound, loanID)
	}
	return nil
}

// MarkInstallmentPaid commits one EMI payment: the schedule entry flip and
// the running totals move together, guarded by the revision the caller read.
func (r *loanRepository) MarkInstallmentPaid(ctx context.Context, p repository.InstallmentPayment) error {
	logger.DatabaseCall("UPDATE", "loan_schedule", "loanID", p.LoanID, "seq", p.Seq)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	entryUpdate := `UPDATE loan_schedule SET paid = true, paid_at = $1, tx_hash = $2
	                WHERE loan_id = $3 AND seq = $4 AND paid = false`
	res, err := tx.ExecContext(ctx, entryUpdate, p.PaidAt, p.TxHash, p.LoanID, p.Seq)
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return fmt.Errorf("%w: loan %d installment %d", domain.ErrAlreadySettled, p.LoanID, p.Seq)
	}

	loanUpdate := `UPDATE loans SET paid_amount = $1, remaining_amount = $2, status = $3,
	               revision = revision + 1 WHERE id = $4 AND revision = $5`
	res, err = tx.ExecContext(ctx, loanUpdate, p.PaidAmount, p.RemainingAmount, p.Status, p.LoanID, p.Revision)
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return fmt.Errorf("%w: loan %d revision %d", domain.ErrConflict, p.LoanID, p.Revision)
	}

	return tx.Commit()
}

func (r *loanRepository) ListDueInstallments(ctx context.Context, from, to time.Time) ([]repository.DueInstallment, error) {
	query := `SELECT ls.loan_id, l.group_id, l.member_id, ls.seq, ls.due_on, l.emi_amount
	          FROM loan_schedule ls JOIN loans l ON l.id = ls.loan_id
	          WHERE ls.paid = false AND l.status = $1 AND ls.due_on >= $2 AND ls.due_on < $3
	          ORDER BY ls.due_on`
	rows, err := r.db.QueryContext(ctx, query, domain.LoanStatusApproved, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var due []repository.DueInstallment
	for rows.Next() {
		var d repository.DueInstallment
		if err := rows.Scan(&d.LoanID, &d.GroupID, &d.MemberID, &d.Seq, &d.DueOn, &d.EMIAmount); err != nil {
			return nil, err
		}
		due = append(due, d)
	}
	return due, rows.Err()
}

func scanLoan(row interface{ Scan(...any) error }) (*domain.Loan, error) {
	var loan domain.Loan
	var appliedOn time.Time
	var decidedOn sql.NullTime
	err := row.Scan(&loan.ID, &loan.GroupID, &loan.MemberID, &loan.PrincipalAmount,
		&loan.InterestRate, &loan.TenureMonths, &loan.Purpose, &loan.EMIAmount,
		&loan.TotalPayable, &loan.PaidAmount, &loan.RemainingAmount, &loan.Status,
		&loan.Revision, &appliedOn, &decidedOn)
	if err != nil {
		return nil, err
	}
	loan.AppliedOn = appliedOn.Format("2006-01-02")
	if decidedOn.Valid {
		d := decidedOn.Time.Format("2006-01-02")
		loan.DecidedOn = &d
	}
	return &loan, nil
}

func (r *loanRepository) queryLoans(ctx context.Context, query string, args ...any) ([]domain.Loan, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var loans []domain.Loan
	var refs []*domain.Loan
	for rows.Next() {
		loan, err := scanLoan(rows)
		if err != nil {
			return nil, err
		}
		loans = append(loans, *loan)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range loans {
		refs = append(refs, &loans[i])
	}
	if err := r.attachSchedules(ctx, refs); err != nil {
		return nil, err
	}
	return loans, nil
}

// attachSchedules loads the ordered due-date entries for a batch of loans.
func (r *loanRepository) attachSchedules(ctx context.Context, loans []*domain.Loan) error {
	if len(loans) == 0 {
		return nil
	}
	byID := make(map[int64]*domain.Loan, len(loans))
	ids := make([]int64, 0, len(loans))
	for _, loan := range loans {
		byID[loan.ID] = loan
		ids = append(ids, loan.ID)
	}

	query := `SELECT loan_id, seq, due_on, paid, paid_at, COALESCE(tx_hash, '')
	          FROM loan_schedule WHERE loan_id = ANY($1) ORDER BY loan_id, seq`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var e domain.Installment
		var paidAt sql.NullTime
		if err := rows.Scan(&e.LoanID, &e.Seq, &e.DueOn, &e.Paid, &paidAt, &e.TxHash); err != nil {
			return err
		}
		if paidAt.Valid {
			t := paidAt.Time
			e.PaidAt = &t
		}
		if loan, ok := byID[e.LoanID]; ok {
			loan.Schedule = append(loan.Schedule, e)
		}
	}
	return rows.Err()
}
