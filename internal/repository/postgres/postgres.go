package postgres

import (
	"database/sql"

	"shg-backend/internal/repository"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.GroupRepository
	repository.MemberRepository
	repository.RoundRepository
	repository.MeetingRepository
	repository.LoanRepository
	repository.NotificationRepository
	repository.SnapshotRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                     db,
		GroupRepository:        NewGroupRepository(db),
		MemberRepository:       NewMemberRepository(db),
		RoundRepository:        NewRoundRepository(db),
		MeetingRepository:      NewMeetingRepository(db),
		LoanRepository:         NewLoanRepository(db),
		NotificationRepository: NewNotificationRepository(db),
		SnapshotRepository:     NewSnapshotRepository(db),
	}
}
