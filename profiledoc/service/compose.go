package service

import "profile-backend/profiledoc/model"

// ExperienceHeader is the first row of the experience table.
var ExperienceHeader = []string{"Role", "Company", "Description", "Area"}

// Compose lays a ViewModel out as heading, bio, image and experience table.
// The table is present even when there are no experiences.
func Compose(vm model.ViewModel) []model.Block {
	rows := vm.Rows()
	data := make([][]string, 0, len(rows))
	for _, row := range rows {
		data = append(data, row.Cells())
	}

	return []model.Block{
		model.Heading{Text: vm.FullName()},
		model.Paragraph{Text: vm.Bio()},
		model.Image{Image: vm.Image()},
		model.Table{
			Header: append([]string(nil), ExperienceHeader...),
			Rows:   data,
		},
	}
}
