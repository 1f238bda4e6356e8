package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"shg-backend/internal/domain"
	"shg-backend/internal/repository"
)

type roundRepository struct {
	db *sql.DB
}

func NewRoundRepository(db *sql.DB) repository.RoundRepository {
	return &roundRepository{db: db}
}

func (r *roundRepository) Create(ctx context.Context, round *domain.MonthlyRound) error {
	query := `INSERT INTO monthly_rounds (group_id, round_name, amount, created_on)
	          VALUES ($1, $2, $3, $4) RETURNING id`
	now := time.Now().Format("2006-01-02")
	return r.db.QueryRowContext(ctx, query, round.GroupID, round.RoundName, round.Amount, now).Scan(&round.ID)
}

func (r *roundRepository) GetByID(ctx context.Context, id int64) (*domain.MonthlyRound, error) {
	query := `SELECT id, group_id, round_name, amount, created_on FROM monthly_rounds WHERE id = $1`
	var round domain.MonthlyRound
	var createdOn time.Time
	err := r.db.QueryRowContext(ctx, query, id).Scan(&round.ID, &round.GroupID, &round.RoundName, &round.Amount, &createdOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: round %d", domain.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	round.CreatedOn = createdOn.Format("2006-01-02")
	return &round, nil
}

func (r *roundRepository) ListByGroup(ctx context.Context, groupID int64) ([]domain.MonthlyRound, error) {
	query := `SELECT id, group_id, round_name, amount, created_on
	          FROM monthly_rounds WHERE group_id = $1 ORDER BY created_on DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rounds []domain.MonthlyRound
	for rows.Next() {
		var round domain.MonthlyRound
		var createdOn time.Time
		if err := rows.Scan(&round.ID, &round.GroupID, &round.RoundName, &round.Amount, &createdOn); err != nil {
			return nil, err
		}
		round.CreatedOn = createdOn.Format("2006-01-02")
		rounds = append(rounds, round)
	}
	return rounds, rows.Err()
}

// uniqueViolation is the postgres error code for duplicate keys; the
// contributions table has a unique (round_id, member_id) constraint.
const uniqueViolation = "23505"

func (r *roundRepository) CreateContribution(ctx context.Context, c *domain.Contribution) error {
	query := `INSERT INTO contributions (round_id, member_id, amount_paid, tx_hash, paid_at)
	          VALUES ($1, $2, $3, $4, $5) RETURNING id`
	err := r.db.QueryRowContext(ctx, query, c.RoundID, c.MemberID, c.AmountPaid, c.TxHash, c.PaidAt).Scan(&c.ID)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
		return fmt.Errorf("%w: round %d member %d", domain.ErrAlreadySettled, c.RoundID, c.MemberID)
	}
	return err
}

func (r *roundRepository) ListContributions(ctx context.Context, roundID int64) ([]domain.Contribution, error) {
	query := `SELECT id, round_id, member_id, amount_paid, tx_hash, paid_at
	          FROM contributions WHERE round_id = $1 ORDER BY paid_at`
	return r.queryContributions(ctx, query, roundID)
}

func (r *roundRepository) ListContributionsByGroup(ctx context.Context, groupID int64) ([]domain.Contribution, error) {
	query := `SELECT c.id, c.round_id, c.member_id, c.amount_paid, c.tx_hash, c.paid_at
	          FROM contributions c JOIN monthly_rounds mr ON mr.id = c.round_id
	          WHERE mr.group_id = $1 ORDER BY c.paid_at`
	return r.queryContributions(ctx, query, groupID)
}

func (r *roundRepository) queryContributions(ctx context.Context, query string, arg any) ([]domain.Contribution, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var contributions []domain.Contribution
	for rows.Next() {
		var c domain.Contribution
		if err := rows.Scan(&c.ID, &c.RoundID, &c.MemberID, &c.AmountPaid, &c.TxHash, &c.PaidAt); err != nil {
			return nil, err
		}
		contributions = append(contributions, c)
	}
	return contributions, rows.Err()
}

func (r *roundRepository) HasContribution(ctx context.Context, roundID, memberID int64) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM contributions WHERE round_id = $1 AND member_id = $2)`
	err := r.db.QueryRowContext(ctx, query, roundID, memberID).Scan(&exists)
	return exists, err
}

func (r *roundRepository) CountPaidByMember(ctx context.Context, groupID, memberID int64) (int32, error) {
	var count int32
	query := `SELECT count(*) FROM contributions c
	          JOIN monthly_rounds mr ON mr.id = c.round_id
	          WHERE mr.group_id = $1 AND c.member_id = $2`
	err := r.db.QueryRowContext(ctx, query, groupID, memberID).Scan(&count)
	return count, err
}

func (r *roundRepository) TotalContributedByMember(ctx context.Context, groupID, memberID int64) (int64, error) {
	var total int64
	query := `SELECT COALESCE(SUM(c.amount_paid), 0) FROM contributions c
	          JOIN monthly_rounds mr ON mr.id = c.round_id
	          WHERE mr.group_id = $1 AND c.member_id = $2`
	err := r.db.QueryRowContext(ctx, query, groupID, memberID).Scan(&total)
	return total, err
}
