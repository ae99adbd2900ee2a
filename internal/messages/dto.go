package messages

import "time"

type sendRequest struct {
	SenderID    string `json:"senderId" binding:"required"`
	RecipientID string `json:"recipientId" binding:"required"`
	Text        string `json:"text" binding:"required"`
}

// MessageResponse is the outward-facing representation of a message.
type MessageResponse struct {
	ID          string    `json:"id"`
	SenderID    string    `json:"senderId"`
	RecipientID string    `json:"recipientId"`
	Text        string    `json:"text"`
	CreatedAt   time.Time `json:"createdAt"`
}

func toResponse(m Message) MessageResponse {
	return MessageResponse{
		ID:          m.ID,
		SenderID:    m.SenderID,
		RecipientID: m.RecipientID,
		Text:        m.Text,
		CreatedAt:   m.CreatedAt,
	}
}
