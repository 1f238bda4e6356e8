package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"shg-backend/internal/domain"
	"shg-backend/internal/repository"
)

type notificationRepository struct {
	db *sql.DB
}

func NewNotificationRepository(db *sql.DB) repository.NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	attrs, err := json.Marshal(n.Attributes)
	if err != nil {
		return err
	}

	query := `INSERT INTO notifications (member_id, group_id, title, message, is_read, attributes, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	now := time.Now().Format("2006-01-02")
	return r.db.QueryRowContext(ctx, query, n.MemberID, n.GroupID, n.Title, n.Message, n.IsRead, attrs, now).Scan(&n.ID)
}

func (r *notificationRepository) List(ctx context.Context, memberID int64, limit, offset int32) ([]domain.Notification, int32, error) {
	query := `SELECT id, member_id, group_id, title, message, is_read, attributes, created_on
	          FROM notifications WHERE member_id = $1 ORDER BY created_on DESC, id DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, memberID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var count int32
	countQuery := `SELECT count(*) FROM notifications WHERE member_id = $1`
	if err := r.db.QueryRowContext(ctx, countQuery, memberID).Scan(&count); err != nil {
		return nil, 0, err
	}

	var notes []domain.Notification
	for rows.Next() {
		var n domain.Notification
		var attrs []byte
		var createdOn time.Time
		if err := rows.Scan(&n.ID, &n.MemberID, &n.GroupID, &n.Title, &n.Message, &n.IsRead, &attrs, &createdOn); err != nil {
			return nil, 0, err
		}
		n.CreatedOn = createdOn.Format("2006-01-02")
		if len(attrs) > 0 {
			if err := json.Unmarshal(attrs, &n.Attributes); err != nil {
				return nil, 0, err
			}
		}
		notes = append(notes, n)
	}
	return notes, count, rows.Err()
}

func (r *notificationRepository) MarkAsRead(ctx context.Context, id, memberID int64) error {
	query := `UPDATE notifications SET is_read = true WHERE id = $1 AND member_id = $2`
	res, err := r.db.ExecContext(ctx, query, id, memberID)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return fmt.Errorf("%w: notification %d", domain.ErrNotFound, id)
	}
	return nil
}

type snapshotRepository struct {
	db *sql.DB
}

func NewSnapshotRepository(db *sql.DB) repository.SnapshotRepository {
	return &snapshotRepository{db: db}
}

func (r *snapshotRepository) Create(ctx context.Context, s *domain.TrustSnapshot) error {
	breakdown, err := json.Marshal(s.Breakdown)
	if err != nil {
		return err
	}
	query := `INSERT INTO trust_snapshots (member_id, score, breakdown, taken_on)
	          VALUES ($1, $2, $3, $4) RETURNING id`
	now := time.Now().Format("2006-01-02")
	return r.db.QueryRowContext(ctx, query, s.MemberID, s.Score, breakdown, now).Scan(&s.ID)
}

func (r *snapshotRepository) ListByMember(ctx context.Context, memberID int64) ([]domain.TrustSnapshot, error) {
	query := `SELECT id, member_id, score, breakdown, taken_on
	          FROM trust_snapshots WHERE member_id = $1 ORDER BY taken_on`
	rows, err := r.db.QueryContext(ctx, query, memberID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snaps []domain.TrustSnapshot
	for rows.Next() {
		var s domain.TrustSnapshot
		var breakdown []byte
		var takenOn time.Time
		if err := rows.Scan(&s.ID, &s.MemberID, &s.Score, &breakdown, &takenOn); err != nil {
			return nil, err
		}
		s.TakenOn = takenOn.Format("2006-01-02")
		if len(breakdown) > 0 {
			if err := json.Unmarshal(breakdown, &s.Breakdown); err != nil {
				return nil, err
			}
		}
		snaps = append(snaps, s)
	}
	return snaps, rows.Err()
}
