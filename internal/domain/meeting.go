package domain

import "time"

// Meeting is a finalized group meeting. Finalization is the only write path
// for attendance counters: the meeting row and every member's counters are
// updated inside a single transaction.
type Meeting struct {
	ID      int64     `json:"id"`
	GroupID int64     `json:"group_id"`
	HeldOn  time.Time `json:"held_on"`
	Notes   string    `json:"notes,omitempty"`

	PresentMemberIDs []int64 `json:"present_member_ids,omitempty"`
}
