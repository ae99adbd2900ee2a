package service

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"

	"profile-backend/profiledoc/model"
)

// BuildViewModel merges the fetched records and image into a ViewModel.
// Experiences keep the order they were given in.
func BuildViewModel(profile model.ProfileRecord, experiences []model.ExperienceRecord, image model.NormalizedImage) (model.ViewModel, error) {
	name := strings.TrimSpace(profile.Name)
	surname := strings.TrimSpace(profile.Surname)
	bio := plainText(profile.Bio)

	switch {
	case name == "":
		return model.ViewModel{}, fmt.Errorf("%w: name is required", ErrIncompleteProfile)
	case surname == "":
		return model.ViewModel{}, fmt.Errorf("%w: surname is required", ErrIncompleteProfile)
	case bio == "":
		return model.ViewModel{}, fmt.Errorf("%w: bio is required", ErrIncompleteProfile)
	}

	rows := make([]model.ExperienceRow, 0, len(experiences))
	for _, exp := range experiences {
		rows = append(rows, model.ExperienceRow{
			Role:        strings.TrimSpace(exp.Role),
			Company:     strings.TrimSpace(exp.Company),
			Description: strings.TrimSpace(exp.Description),
			Area:        strings.TrimSpace(exp.Area),
		})
	}

	return model.NewViewModel(name, surname, bio, image, rows), nil
}

// blockElements end a line when flattening markup.
var blockElements = map[string]bool{
	"p": true, "div": true, "br": true, "li": true, "ul": true, "ol": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"blockquote": true, "tr": true,
}

// plainText reduces an HTML fragment to text lines. Input without markup is
// returned with whitespace normalized.
func plainText(raw string) string {
	if !strings.ContainsAny(raw, "<&") {
		return normalizeLines(raw)
	}

	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(raw))
	skip := 0
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if z.Err() != io.EOF {
				return normalizeLines(raw)
			}
			return normalizeLines(b.String())
		case html.TextToken:
			if skip == 0 {
				b.Write(z.Text())
			}
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if tag == "script" || tag == "style" {
				if tt == html.StartTagToken {
					skip++
				}
				continue
			}
			if blockElements[tag] {
				b.WriteByte('\n')
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if (tag == "script" || tag == "style") && skip > 0 {
				skip--
				continue
			}
			if blockElements[tag] {
				b.WriteByte('\n')
			}
		}
	}
}

func normalizeLines(s string) string {
	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	out := lines[:0]
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
