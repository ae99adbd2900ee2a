package experiences

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Date accepts "2006-01-02" or RFC 3339 and renders as "2006-01-02".
type Date struct {
	time.Time
}

func (d *Date) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		d.Time = time.Time{}
		return nil
	}
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		d.Time = time.Time{}
		return nil
	}
	for _, layout := range []string{dateLayout, time.RFC3339} {
		if t, err := time.Parse(layout, raw); err == nil {
			d.Time = t
			return nil
		}
	}
	return fmt.Errorf("invalid date %q", raw)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Format(dateLayout))
}

type createRequest struct {
	Role        string `json:"role" binding:"required,max=200"`
	Company     string `json:"company" binding:"required,max=200"`
	Description string `json:"description" binding:"max=5000"`
	Area        string `json:"area" binding:"max=200"`
	StartDate   Date   `json:"startDate"`
	EndDate     *Date  `json:"endDate"`
	Image       string `json:"image" binding:"omitempty,max=2048"`
}

func (r createRequest) toExperience() Experience {
	e := Experience{
		Role:        r.Role,
		Company:     r.Company,
		Description: r.Description,
		Area:        r.Area,
		StartDate:   r.StartDate.Time,
		Image:       r.Image,
	}
	if r.EndDate != nil && !r.EndDate.IsZero() {
		end := r.EndDate.Time
		e.EndDate = &end
	}
	return e
}

// updateRequest distinguishes an absent endDate from an explicit null.
type updateRequest struct {
	Role        *string         `json:"role" binding:"omitempty,max=200"`
	Company     *string         `json:"company" binding:"omitempty,max=200"`
	Description *string         `json:"description" binding:"omitempty,max=5000"`
	Area        *string         `json:"area" binding:"omitempty,max=200"`
	StartDate   *Date           `json:"startDate"`
	EndDate     json.RawMessage `json:"endDate"`
	Image       *string         `json:"image" binding:"omitempty,max=2048"`
}

func (r updateRequest) toChanges() (Changes, error) {
	ch := Changes{
		Role:        r.Role,
		Company:     r.Company,
		Description: r.Description,
		Area:        r.Area,
		Image:       r.Image,
	}
	if r.StartDate != nil && !r.StartDate.IsZero() {
		start := r.StartDate.Time
		ch.StartDate = &start
	}
	if len(r.EndDate) > 0 {
		var end Date
		if err := end.UnmarshalJSON(r.EndDate); err != nil {
			return Changes{}, err
		}
		if end.IsZero() {
			ch.ClearEndDate = true
		} else {
			ch.EndDate = &end.Time
		}
	}
	return ch, nil
}

// ExperienceResponse is the outward-facing representation of an experience.
type ExperienceResponse struct {
	ID          string    `json:"id"`
	ProfileID   string    `json:"profileId"`
	Role        string    `json:"role"`
	Company     string    `json:"company"`
	Description string    `json:"description"`
	Area        string    `json:"area"`
	StartDate   Date      `json:"startDate"`
	EndDate     *Date     `json:"endDate"`
	Image       string    `json:"image"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func toResponse(e Experience) ExperienceResponse {
	resp := ExperienceResponse{
		ID:          e.ID,
		ProfileID:   e.ProfileID,
		Role:        e.Role,
		Company:     e.Company,
		Description: e.Description,
		Area:        e.Area,
		StartDate:   Date{e.StartDate},
		Image:       e.Image,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
	if e.EndDate != nil {
		resp.EndDate = &Date{*e.EndDate}
	}
	return resp
}
