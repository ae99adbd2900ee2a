package main

// Render a sample profile document to disk and check it parses:
//   go run ./cmd/exportdemo -out ./out/sample_profile.pdf -experiences 60

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"

	"profile-backend/internal/export"
	"profile-backend/profiledoc/model"
	"profile-backend/profiledoc/render"
	"profile-backend/profiledoc/service"
)

func main() {
	outPath := flag.String("out", "./out/sample_profile.pdf", "output path for the generated PDF")
	count := flag.Int("experiences", 60, "number of sample experiences")
	flag.Parse()

	profile, exps := sampleProfile(*count)

	img, err := export.Normalizer{}.Normalize(profile.Image, sampleImage())
	if err != nil {
		fail("normalize image", err)
	}
	vm, err := service.BuildViewModel(profile, exps, img)
	if err != nil {
		fail("build view model", err)
	}
	blocks := service.Compose(vm)

	if err := os.MkdirAll(filepath.Dir(*outPath), 0o755); err != nil {
		fail("mkdir", err)
	}
	f, err := os.Create(*outPath)
	if err != nil {
		fail("create output", err)
	}
	dst := &fileDestination{w: bufio.NewWriter(f)}
	n, err := render.NewEmitter("profile.pdf").Emit(context.Background(), blocks, dst)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		fail("emit", err)
	}

	if err := writeModel(*outPath, profile, exps); err != nil {
		fail("write model", err)
	}

	pages, err := validate(*outPath, vm.FullName())
	if err != nil {
		fail("validation", err)
	}
	fmt.Printf("OK: wrote %s (%d bytes, %d pages, %d blocks)\n", *outPath, n, pages, len(blocks))
}

func fail(step string, err error) {
	fmt.Fprintf(os.Stderr, "%s failed: %v\n", step, err)
	os.Exit(1)
}

// fileDestination writes chunks through a buffered file writer.
type fileDestination struct {
	w *bufio.Writer
}

func (d *fileDestination) Begin(render.Metadata) error { return nil }

func (d *fileDestination) Write(p []byte) (int, error) { return d.w.Write(p) }

func (d *fileDestination) Flush() error { return d.w.Flush() }

func writeModel(outPath string, profile model.ProfileRecord, exps []model.ExperienceRecord) error {
	payload, err := json.MarshalIndent(map[string]any{
		"profile":     profile,
		"experiences": exps,
	}, "", "  ")
	if err != nil {
		return err
	}
	modelPath := strings.TrimSuffix(outPath, filepath.Ext(outPath)) + "_model.json"
	return os.WriteFile(modelPath, payload, 0o644)
}

func validate(path, title string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	doc, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0, err
	}
	if got := doc.Trailer().Key("Info").Key("Title").Text(); got != title {
		return 0, fmt.Errorf("title %q, want %q", got, title)
	}
	pages := doc.NumPage()
	if pages == 0 {
		return 0, fmt.Errorf("document has no pages")
	}
	if headers := bytes.Count(data, []byte("(Description) Tj")); headers != pages {
		return 0, fmt.Errorf("table header drawn %d times on %d pages", headers, pages)
	}
	return pages, nil
}

func sampleImage() []byte {
	img := image.NewRGBA(image.Rect(0, 0, 120, 120))
	for x := 0; x < 120; x++ {
		for y := 0; y < 120; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 2), G: uint8(y * 2), B: 160, A: 255})
		}
	}
	var buf bytes.Buffer
	_ = png.Encode(&buf, img)
	return buf.Bytes()
}

func sampleProfile(n int) (model.ProfileRecord, []model.ExperienceRecord) {
	profile := model.ProfileRecord{
		ID:      "demo",
		Name:    "Ada",
		Surname: "Lovelace",
		Bio:     "<p>Mathematician and writer, known for her work on the <b>Analytical Engine</b>.</p><p>First to publish an algorithm intended for a machine.</p>",
		Image:   "demo/ada.png",
	}
	companies := []string{"Analytical Society", "Royal Institution", "Babbage & Co.", "Société Mathématique"}
	areas := []string{"Mathematics", "Computing", "Writing", "Research"}
	start := time.Date(1833, time.June, 5, 0, 0, 0, 0, time.UTC)

	exps := make([]model.ExperienceRecord, 0, n)
	for i := 0; i < n; i++ {
		desc := fmt.Sprintf("Entry %d: notes on the engine", i+1)
		if i%7 == 3 {
			desc += strings.Repeat(", with an extended commentary on Bernoulli numbers", 4)
		}
		exps = append(exps, model.ExperienceRecord{
			ID:          fmt.Sprintf("exp_%d", i+1),
			ProfileID:   profile.ID,
			Role:        fmt.Sprintf("Role %d", i+1),
			Company:     companies[i%len(companies)],
			Description: desc,
			Area:        areas[i%len(areas)],
			StartDate:   start.AddDate(0, i, 0),
		})
	}
	return profile, exps
}
