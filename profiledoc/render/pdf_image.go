package render

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"image"
	"image/color"
	_ "image/gif" // register decoder
	"image/jpeg"
	_ "image/png" // register decoder

	_ "golang.org/x/image/bmp"  // register decoder
	_ "golang.org/x/image/tiff" // register decoder
	_ "golang.org/x/image/webp" // register decoder

	"profile-backend/profiledoc/model"
)

// imageXObject returns the stream dictionary entries and data of an image
// XObject. JPEG bytes are embedded as-is; other formats are decoded,
// flattened onto white and deflated.
func imageXObject(img model.NormalizedImage) (string, []byte, error) {
	if img.Format == "jpeg" {
		cfg, err := jpeg.DecodeConfig(bytes.NewReader(img.Bytes))
		if err != nil {
			return "", nil, fmt.Errorf("jpeg config: %w", err)
		}
		space := "/DeviceRGB"
		switch cfg.ColorModel {
		case color.GrayModel:
			space = "/DeviceGray"
		case color.CMYKModel:
			space = "/DeviceCMYK"
		}
		entries := fmt.Sprintf("/Type /XObject /Subtype /Image /Width %d /Height %d /ColorSpace %s /BitsPerComponent 8 /Filter /DCTDecode",
			cfg.Width, cfg.Height, space)
		return entries, img.Bytes, nil
	}

	decoded, _, err := image.Decode(bytes.NewReader(img.Bytes))
	if err != nil {
		return "", nil, fmt.Errorf("decode image: %w", err)
	}
	bounds := decoded.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	var out bytes.Buffer
	zw := zlib.NewWriter(&out)
	row := make([]byte, w*3)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, a := decoded.At(x, y).RGBA()
			// Alpha-premultiplied channels composited over white.
			bg := 0xffff - a
			i := (x - bounds.Min.X) * 3
			row[i] = byte((r + bg) >> 8)
			row[i+1] = byte((g + bg) >> 8)
			row[i+2] = byte((b + bg) >> 8)
		}
		if _, err := zw.Write(row); err != nil {
			return "", nil, fmt.Errorf("deflate image: %w", err)
		}
	}
	if err := zw.Close(); err != nil {
		return "", nil, fmt.Errorf("deflate image: %w", err)
	}

	entries := fmt.Sprintf("/Type /XObject /Subtype /Image /Width %d /Height %d /ColorSpace /DeviceRGB /BitsPerComponent 8 /Filter /FlateDecode", w, h)
	return entries, out.Bytes(), nil
}
