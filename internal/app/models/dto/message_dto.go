package dto

import "time"

// SendMessageRequest creates a direct message
type SendMessageRequest struct {
	ReceiverID string `json:"receiverId" binding:"required"`
	Content    string `json:"content" binding:"required"`
}

// MessageResponse is the wire shape of a message row
type MessageResponse struct {
	ID         string                `json:"id"`
	SenderID   string                `json:"senderId"`
	ReceiverID string                `json:"receiverId"`
	Content    string                `json:"content"`
	IsRead     bool                  `json:"isRead"`
	Sender     *ProfileBasicResponse `json:"sender,omitempty"`
	CreatedAt  time.Time             `json:"createdAt"`
}

// ConversationResponse summarizes the latest exchange with one peer
type ConversationResponse struct {
	PeerID      string                `json:"peerId"`
	Peer        *ProfileBasicResponse `json:"peer,omitempty"`
	LastMessage *MessageResponse      `json:"lastMessage,omitempty"`
	UnreadCount int64                 `json:"unreadCount"`
	UpdatedAt   time.Time             `json:"updatedAt"`
}

// MessageListResponse is a page of messages within one conversation
type MessageListResponse struct {
	Messages       []MessageResponse `json:"messages"`
	PaginationInfo PaginationInfo    `json:"pagination"`
}
