package profiles

import "time"

type createRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Surname  string `json:"surname" binding:"required,max=100"`
	Email    string `json:"email" binding:"required,email,max=254"`
	Bio      string `json:"bio" binding:"max=5000"`
	Title    string `json:"title" binding:"max=200"`
	Area     string `json:"area" binding:"max=200"`
	Image    string `json:"image" binding:"omitempty,max=2048"`
	Username string `json:"username" binding:"required,max=64"`
}

func (r createRequest) toProfile() Profile {
	return Profile{
		Name:     r.Name,
		Surname:  r.Surname,
		Email:    r.Email,
		Bio:      r.Bio,
		Title:    r.Title,
		Area:     r.Area,
		Image:    r.Image,
		Username: r.Username,
	}
}

type updateRequest struct {
	Name     *string `json:"name" binding:"omitempty,max=100"`
	Surname  *string `json:"surname" binding:"omitempty,max=100"`
	Email    *string `json:"email" binding:"omitempty,email,max=254"`
	Bio      *string `json:"bio" binding:"omitempty,max=5000"`
	Title    *string `json:"title" binding:"omitempty,max=200"`
	Area     *string `json:"area" binding:"omitempty,max=200"`
	Image    *string `json:"image" binding:"omitempty,max=2048"`
	Username *string `json:"username" binding:"omitempty,max=64"`
}

func (r updateRequest) toChanges() Changes {
	return Changes{
		Name:     r.Name,
		Surname:  r.Surname,
		Email:    r.Email,
		Bio:      r.Bio,
		Title:    r.Title,
		Area:     r.Area,
		Image:    r.Image,
		Username: r.Username,
	}
}

// ProfileResponse is the outward-facing representation of a profile.
type ProfileResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Surname   string    `json:"surname"`
	Email     string    `json:"email"`
	Bio       string    `json:"bio"`
	Title     string    `json:"title"`
	Area      string    `json:"area"`
	Image     string    `json:"image"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	// Friends is filled on reads and omitted when empty.
	Friends []FriendResponse `json:"friends,omitempty"`
}

// PartyResponse is one side of a friend request.
type PartyResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Surname string `json:"surname"`
	Title   string `json:"title"`
	Image   string `json:"image"`
}

// FriendResponse is a friend request with both profiles inlined.
type FriendResponse struct {
	ID        string        `json:"id"`
	Status    string        `json:"status"`
	Requester PartyResponse `json:"requester"`
	Recipient PartyResponse `json:"recipient"`
}

func toPartyResponse(p Party) PartyResponse {
	return PartyResponse{ID: p.ID, Name: p.Name, Surname: p.Surname, Title: p.Title, Image: p.Image}
}

func withFriends(resp ProfileResponse, friends []Friend) ProfileResponse {
	resp.Friends = make([]FriendResponse, 0, len(friends))
	for _, f := range friends {
		resp.Friends = append(resp.Friends, FriendResponse{
			ID:        f.ID,
			Status:    f.Status,
			Requester: toPartyResponse(f.Requester),
			Recipient: toPartyResponse(f.Recipient),
		})
	}
	return resp
}

func toResponse(p Profile) ProfileResponse {
	return ProfileResponse{
		ID:        p.ID,
		Name:      p.Name,
		Surname:   p.Surname,
		Email:     p.Email,
		Bio:       p.Bio,
		Title:     p.Title,
		Area:      p.Area,
		Image:     p.Image,
		Username:  p.Username,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
