package profiles

import "time"

// Profile is a member's public profile.
type Profile struct {
	ID        string
	Name      string
	Surname   string
	Email     string
	Bio       string
	Title     string
	Area      string
	Image     string
	Username  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Changes is a partial update; nil fields are left untouched.
type Changes struct {
	Name     *string
	Surname  *string
	Email    *string
	Bio      *string
	Title    *string
	Area     *string
	Image    *string
	Username *string
}

func (ch Changes) apply(p Profile) Profile {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&p.Name, ch.Name)
	set(&p.Surname, ch.Surname)
	set(&p.Email, ch.Email)
	set(&p.Bio, ch.Bio)
	set(&p.Title, ch.Title)
	set(&p.Area, ch.Area)
	set(&p.Image, ch.Image)
	set(&p.Username, ch.Username)
	return p
}

// FriendLink is one friend request a profile takes part in.
type FriendLink struct {
	ID          string
	RequesterID string
	RecipientID string
	Status      string
}

// Party is the public face of a profile shown inside another profile.
type Party struct {
	ID      string
	Name    string
	Surname string
	Title   string
	Image   string
}

// Friend is a FriendLink with both sides resolved.
type Friend struct {
	ID        string
	Status    string
	Requester Party
	Recipient Party
}

func partyOf(p Profile) Party {
	return Party{ID: p.ID, Name: p.Name, Surname: p.Surname, Title: p.Title, Image: p.Image}
}
