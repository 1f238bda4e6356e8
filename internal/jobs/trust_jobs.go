package jobs

import (
	"context"

	"shg-backend/internal/logger"
)

// RecomputeTrustScores refreshes every member's persisted trust score so
// scores stay current even for members who have not opened their portal.
func (jr *JobRunner) RecomputeTrustScores() {
	jr.runWithRecovery("RecomputeTrustScores", func() {
		ctx := context.Background()

		count := 0
		for _, m := range jr.listAllMembers(ctx) {
			if _, err := jr.services.Trust.Recompute(ctx, m.groupID, m.memberID); err != nil {
				logger.Error("Failed to recompute trust score", "member_id", m.memberID, "error", err)
				continue
			}
			count++
		}
		logger.Info("Recomputed trust scores", "count", count)
	})
}

// TakeTrustSnapshots appends the current trust breakdown of every member to
// the history feed.
func (jr *JobRunner) TakeTrustSnapshots() {
	jr.runWithRecovery("TakeTrustSnapshots", func() {
		ctx := context.Background()

		count := 0
		for _, m := range jr.listAllMembers(ctx) {
			if err := jr.services.Trust.Snapshot(ctx, m.groupID, m.memberID); err != nil {
				logger.Error("Failed to take trust snapshot", "member_id", m.memberID, "error", err)
				continue
			}
			count++
		}
		logger.Info("Took trust snapshots", "count", count)
	})
}

type memberRef struct {
	memberID int64
	groupID  int64
}

func (jr *JobRunner) listAllMembers(ctx context.Context) []memberRef {
	rows, err := jr.db.QueryContext(ctx, `SELECT id, group_id FROM members ORDER BY id`)
	if err != nil {
		logger.Error("Failed to list members", "error", err)
		return nil
	}
	defer rows.Close()

	var refs []memberRef
	for rows.Next() {
		var ref memberRef
		if err := rows.Scan(&ref.memberID, &ref.groupID); err != nil {
			logger.Error("Failed to scan member row", "error", err)
			continue
		}
		refs = append(refs, ref)
	}
	if err := rows.Err(); err != nil {
		logger.Error("Error iterating members", "error", err)
	}
	return refs
}
