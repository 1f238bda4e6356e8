package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"shg-backend/internal/domain"
	"shg-backend/internal/repository"
)

type groupRepository struct {
	db *sql.DB
}

func NewGroupRepository(db *sql.DB) repository.GroupRepository {
	return &groupRepository{db: db}
}

func (r *groupRepository) Create(ctx context.Context, g *domain.Group) error {
	query := `INSERT INTO shg_groups (name, loan_cap, created_on) VALUES ($1, $2, $3) RETURNING id`
	now := time.Now().Format("2006-01-02")
	return r.db.QueryRowContext(ctx, query, g.Name, g.LoanCap, now).Scan(&g.ID)
}

func (r *groupRepository) GetByID(ctx context.Context, id int64) (*domain.Group, error) {
	query := `SELECT id, name, loan_cap, created_on FROM shg_groups WHERE id = $1`
	var g domain.Group
	var createdOn time.Time
	err := r.db.QueryRowContext(ctx, query, id).Scan(&g.ID, &g.Name, &g.LoanCap, &createdOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: group %d", domain.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	g.CreatedOn = createdOn.Format("2006-01-02")
	return &g, nil
}

type memberRepository struct {
	db *sql.DB
}

func NewMemberRepository(db *sql.DB) repository.MemberRepository {
	return &memberRepository{db: db}
}

const memberColumns = `id, group_id, uid, name, email, phone, role, status, trust_score,
	attendance_present, attendance_total, active_loan_id, created_on`

func scanMember(row interface{ Scan(...any) error }) (*domain.Member, error) {
	var m domain.Member
	var createdOn time.Time
	err := row.Scan(&m.ID, &m.GroupID, &m.UID, &m.Name, &m.Email, &m.Phone, &m.Role, &m.Status,
		&m.TrustScore, &m.AttendancePresent, &m.AttendanceTotal, &m.ActiveLoanID, &createdOn)
	if err != nil {
		return nil, err
	}
	m.CreatedOn = createdOn.Format("2006-01-02")
	return &m, nil
}

func (r *memberRepository) Create(ctx context.Context, m *domain.Member) error {
	query := `INSERT INTO members (group_id, uid, name, email, phone, role, status, trust_score,
	          attendance_present, attendance_total, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING id`
	now := time.Now().Format("2006-01-02")
	return r.db.QueryRowContext(ctx, query, m.GroupID, m.UID, m.Name, m.Email, m.Phone,
		m.Role, m.Status, m.TrustScore, m.AttendancePresent, m.AttendanceTotal, now).Scan(&m.ID)
}

func (r *memberRepository) GetByID(ctx context.Context, id int64) (*domain.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE id = $1`
	m, err := scanMember(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: member %d", domain.ErrNotFound, id)
	}
	return m, err
}

func (r *memberRepository) GetByUID(ctx context.Context, uid string) (*domain.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE uid = $1`
	m, err := scanMember(r.db.QueryRowContext(ctx, query, uid))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: member uid %s", domain.ErrNotFound, uid)
	}
	return m, err
}

func (r *memberRepository) ListByGroup(ctx context.Context, groupID int64) ([]domain.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE group_id = $1 ORDER BY name`
	rows, err := r.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []domain.Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, *m)
	}
	return members, rows.Err()
}

func (r *memberRepository) UpdateTrustScore(ctx context.Context, memberID int64, score float64) error {
	query := `UPDATE members SET trust_score = $1 WHERE id = $2`
	res, err := r.db.ExecContext(ctx, query, score, memberID)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return fmt.Errorf("%w: member %d", domain.ErrNotFound, memberID)
	}
	return nil
}

func (r *memberRepository) SetActiveLoan(ctx context.Context, memberID int64, loanID *int64, status domain.MemberStatus) error {
	query := `UPDATE members SET active_loan_id = $1, status = $2 WHERE id = $3`
	res, err := r.db.ExecContext(ctx, query, loanID, status, memberID)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return fmt.Errorf("%w: member %d", domain.ErrNotFound, memberID)
	}
	return nil
}
