package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"shg-backend/internal/domain"
)

func TestRoundRepository_CreateContribution(t *testing.T) {
	ctx := context.Background()
	contribution := &domain.Contribution{
		RoundID:    4,
		MemberID:   2,
		AmountPaid: 500,
		TxHash:     "0xdef",
		PaidAt:     time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC),
	}

	t.Run("Success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("error opening mock database: %v", err)
		}
		defer db.Close()
		repo := NewRoundRepository(db)

		mock.ExpectQuery("INSERT INTO contributions").
			WithArgs(contribution.RoundID, contribution.MemberID, contribution.AmountPaid,
				contribution.TxHash, contribution.PaidAt).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))

		err = repo.CreateContribution(ctx, contribution)
		assert.NoError(t, err)
		assert.Equal(t, int64(11), contribution.ID)
	})

	t.Run("Duplicate pair maps to already settled", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("error opening mock database: %v", err)
		}
		defer db.Close()
		repo := NewRoundRepository(db)

		mock.ExpectQuery("INSERT INTO contributions").
			WillReturnError(&pq.Error{Code: "23505"})

		err = repo.CreateContribution(ctx, contribution)
		assert.ErrorIs(t, err, domain.ErrAlreadySettled)
	})
}

func TestRoundRepository_TotalContributedByMember(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewRoundRepository(db)
	ctx := context.Background()

	t.Run("Sums across the group's rounds", func(t *testing.T) {
		mock.ExpectQuery("SELECT COALESCE").
			WithArgs(int64(1), int64(2)).
			WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(5000))

		total, err := repo.TotalContributedByMember(ctx, 1, 2)
		assert.NoError(t, err)
		assert.Equal(t, int64(5000), total)
	})
}

func TestRoundRepository_HasContribution(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewRoundRepository(db)
	ctx := context.Background()

	t.Run("Existing pair", func(t *testing.T) {
		mock.ExpectQuery("SELECT EXISTS").
			WithArgs(int64(4), int64(2)).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		paid, err := repo.HasContribution(ctx, 4, 2)
		assert.NoError(t, err)
		assert.True(t, paid)
	})
}
