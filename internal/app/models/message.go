package models

import "time"

// Message defines the direct message model based on the 'messages' table.
// A row is created only if the messaging-eligibility policy holds for the
// sender/receiver pair.
type Message struct {
	ID            string    `json:"id" db:"id"`
	SenderID      string    `json:"senderId" db:"sender_id"`
	ReceiverID    string    `json:"receiverId" db:"receiver_id"`
	Content       string    `json:"content" db:"content"`
	CollegeDomain string    `json:"collegeDomain" db:"college_domain"`
	IsRead        bool      `json:"isRead" db:"is_read"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`

	Sender *Profile `json:"sender,omitempty"`
}

// Conversation summarizes the latest exchange with one peer
type Conversation struct {
	PeerID      string    `json:"peerId"`
	Peer        *Profile  `json:"peer,omitempty"`
	LastMessage *Message  `json:"lastMessage,omitempty"`
	UnreadCount int64     `json:"unreadCount"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
