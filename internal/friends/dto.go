package friends

import "time"

type requestBody struct {
	RequesterID string `json:"requesterId" binding:"required"`
	RecipientID string `json:"recipientId" binding:"required"`
}

// FriendshipResponse is the outward-facing representation of a request.
type FriendshipResponse struct {
	ID          string    `json:"id"`
	RequesterID string    `json:"requesterId"`
	RecipientID string    `json:"recipientId"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func toResponse(f Friendship) FriendshipResponse {
	return FriendshipResponse{
		ID:          f.ID,
		RequesterID: f.RequesterID,
		RecipientID: f.RecipientID,
		Status:      string(f.Status),
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
	}
}
