package model

import "time"

// ProfileRecord is the stored profile as read by the export pipeline.
type ProfileRecord struct {
	ID      string
	Name    string
	Surname string
	Bio     string
	// Image is an absolute URL, a media URL or a bare storage key.
	Image string
}

// ExperienceRecord is one stored experience entry of a profile.
type ExperienceRecord struct {
	ID          string
	ProfileID   string
	Role        string
	Company     string
	Description string
	Area        string
	StartDate   time.Time
	EndDate     *time.Time
}

// NormalizedImage is an image ready to be embedded in a document.
type NormalizedImage struct {
	Bytes []byte
	// MediaType is image/<extension> as declared by the reference, never sniffed.
	MediaType string
	// Inline is the data URI form of Bytes tagged with MediaType.
	Inline string
	// Format is the name of the decoder that accepted Bytes (jpeg, png, gif).
	Format string
	Width  int
	Height int
	// DeclaredTypeSuspect is set when the declared subtype is missing or does
	// not match Format.
	DeclaredTypeSuspect bool
}

// ExperienceRow is an experience reduced to the columns of the export table.
type ExperienceRow struct {
	Role        string
	Company     string
	Description string
	Area        string
}

// Cells returns the row in table column order.
func (r ExperienceRow) Cells() []string {
	return []string{r.Role, r.Company, r.Description, r.Area}
}
