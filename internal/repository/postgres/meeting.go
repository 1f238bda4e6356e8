package postgres

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"shg-backend/internal/domain"
	"shg-backend/internal/logger"
	"shg-backend/internal/repository"
)

type meetingRepository struct {
	db *sql.DB
}

func NewMeetingRepository(db *sql.DB) repository.MeetingRepository {
	return &meetingRepository{db: db}
}

// Finalize inserts the meeting and bumps attendance counters for every group
// member in one transaction, so the counters can never drift from the
// meeting log.
func (r *meetingRepository) Finalize(ctx context.Context, m *domain.Meeting) error {
	logger.DatabaseCall("INSERT", "meetings", "groupID", m.GroupID, "present", len(m.PresentMemberIDs))

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	insert := `INSERT INTO meetings (group_id, held_on, notes) VALUES ($1, $2, $3) RETURNING id`
	if err := tx.QueryRowContext(ctx, insert, m.GroupID, m.HeldOn, m.Notes).Scan(&m.ID); err != nil {
		return err
	}

	// Everyone's total goes up once per finalized meeting; present members
	// also gain a present mark.
	bumpTotal := `UPDATE members SET attendance_total = attendance_total + 1 WHERE group_id = $1`
	if _, err := tx.ExecContext(ctx, bumpTotal, m.GroupID); err != nil {
		return err
	}

	if len(m.PresentMemberIDs) > 0 {
		bumpPresent := `UPDATE members SET attendance_present = attendance_present + 1
		                WHERE group_id = $1 AND id = ANY($2)`
		if _, err := tx.ExecContext(ctx, bumpPresent, m.GroupID, pq.Array(m.PresentMemberIDs)); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *meetingRepository) CountByGroup(ctx context.Context, groupID int64) (int32, error) {
	var count int32
	query := `SELECT count(*) FROM meetings WHERE group_id = $1`
	err := r.db.QueryRowContext(ctx, query, groupID).Scan(&count)
	return count, err
}

func (r *meetingRepository) ListByGroup(ctx context.Context, groupID int64) ([]domain.Meeting, error) {
	query := `SELECT id, group_id, held_on, COALESCE(notes, '') FROM meetings
	          WHERE group_id = $1 ORDER BY held_on DESC`
	rows, err := r.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var meetings []domain.Meeting
	for rows.Next() {
		var m domain.Meeting
		if err := rows.Scan(&m.ID, &m.GroupID, &m.HeldOn, &m.Notes); err != nil {
			return nil, err
		}
		meetings = append(meetings, m)
	}
	return meetings, rows.Err()
}
