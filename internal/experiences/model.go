package experiences

import "time"

// Experience is one entry of a profile's work history.
type Experience struct {
	ID          string
	ProfileID   string
	Seq         int64
	Role        string
	Company     string
	Description string
	Area        string
	StartDate   time.Time
	EndDate     *time.Time
	Image       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Changes is a partial update; nil fields are left untouched. ClearEndDate
// marks the experience as current.
type Changes struct {
	Role         *string
	Company      *string
	Description  *string
	Area         *string
	StartDate    *time.Time
	EndDate      *time.Time
	ClearEndDate bool
	Image        *string
}

func (ch Changes) apply(e Experience) Experience {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&e.Role, ch.Role)
	set(&e.Company, ch.Company)
	set(&e.Description, ch.Description)
	set(&e.Area, ch.Area)
	set(&e.Image, ch.Image)
	if ch.StartDate != nil {
		e.StartDate = *ch.StartDate
	}
	switch {
	case ch.ClearEndDate:
		e.EndDate = nil
	case ch.EndDate != nil:
		end := *ch.EndDate
		e.EndDate = &end
	}
	return e
}
