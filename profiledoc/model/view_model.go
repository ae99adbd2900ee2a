package model

// ViewModel is the immutable snapshot a document is composed from.
// The zero value is empty; use NewViewModel.
type ViewModel struct {
	name    string
	surname string
	bio     string
	image   NormalizedImage
	rows    []ExperienceRow
}

// NewViewModel copies its inputs so later changes by the caller are not seen.
func NewViewModel(name, surname, bio string, image NormalizedImage, rows []ExperienceRow) ViewModel {
	img := image
	img.Bytes = append([]byte(nil), image.Bytes...)
	return ViewModel{
		name:    name,
		surname: surname,
		bio:     bio,
		image:   img,
		rows:    append([]ExperienceRow(nil), rows...),
	}
}

func (v ViewModel) Name() string    { return v.name }
func (v ViewModel) Surname() string { return v.surname }
func (v ViewModel) Bio() string     { return v.bio }

// FullName joins name and surname with a single space.
func (v ViewModel) FullName() string {
	return v.name + " " + v.surname
}

// Image returns the embedded image. Its Bytes are shared and must not be modified.
func (v ViewModel) Image() NormalizedImage {
	return v.image
}

// Rows returns a copy of the experience rows in fetch order.
func (v ViewModel) Rows() []ExperienceRow {
	return append([]ExperienceRow(nil), v.rows...)
}
