package models

import "time"

// ConnectionStatus is the state of a connection edge
type ConnectionStatus string

const (
	ConnectionPending  ConnectionStatus = "pending"
	ConnectionAccepted ConnectionStatus = "accepted"
	ConnectionRejected ConnectionStatus = "rejected"
	ConnectionBlocked  ConnectionStatus = "blocked"
)

// Connection defines a directed edge between two profiles based on the
// 'connections' table. At most one active row exists per unordered pair,
// enforced by a unique index over (least(requester, receiver), greatest(...)).
type Connection struct {
	ID          string           `json:"id" db:"id"`
	RequesterID string           `json:"requesterId" db:"requester_id"`
	ReceiverID  string           `json:"receiverId" db:"receiver_id"`
	Status      ConnectionStatus `json:"status" db:"status"`
	CreatedAt   time.Time        `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time        `json:"updatedAt" db:"updated_at"`

	Requester *Profile `json:"requester,omitempty"`
	Receiver  *Profile `json:"receiver,omitempty"`
}

// Involves reports whether userID is one of the two endpoints
func (c *Connection) Involves(userID string) bool {
	return c.RequesterID == userID || c.ReceiverID == userID
}

// Other returns the opposite endpoint for userID
func (c *Connection) Other(userID string) string {
	if c.RequesterID == userID {
		return c.ReceiverID
	}
	return c.RequesterID
}
