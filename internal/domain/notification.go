package domain

type Notification struct {
	ID         int64             `json:"id"`
	MemberID   int64             `json:"member_id"`
	GroupID    int64             `json:"group_id"`
	Title      string            `json:"title"`
	Message    string            `json:"message"`
	IsRead     bool              `json:"is_read"`
	Attributes map[string]string `json:"attributes,omitempty"`
	CreatedOn  string            `json:"created_on"`
}
