package dto

import "time"

// SendConnectionRequest asks for a new connection edge
type SendConnectionRequest struct {
	ReceiverID string `json:"receiverId" binding:"required"`
}

// ConnectionResponse is the wire shape of a connection edge
type ConnectionResponse struct {
	ID          string                `json:"id"`
	RequesterID string                `json:"requesterId"`
	ReceiverID  string                `json:"receiverId"`
	Status      string                `json:"status"`
	Peer        *ProfileBasicResponse `json:"peer,omitempty"`
	CreatedAt   time.Time             `json:"createdAt"`
	UpdatedAt   time.Time             `json:"updatedAt"`
}

// ConnectionListResponse is a page of connections
type ConnectionListResponse struct {
	Connections    []ConnectionResponse `json:"connections"`
	PaginationInfo PaginationInfo       `json:"pagination"`
}

// MutualConnectionsResponse reports the mutual-connection count with a peer
type MutualConnectionsResponse struct {
	PeerID string `json:"peerId"`
	Count  int64  `json:"count"`
}
