package export

import "time"

// Config is the explicit configuration of one export pipeline.
type Config struct {
	ProfileTimeout    time.Duration
	ExperienceTimeout time.Duration
	ImageTimeout      time.Duration
	// MaxImageBytes bounds the buffered image; larger images fail with ErrImageTooLarge.
	MaxImageBytes int64
	// MaxImagePixels bounds width*height before a full decode.
	MaxImagePixels int
	Filename       string
	// MediaBaseURL prefixes image references served from the object store.
	MediaBaseURL string
}

// DefaultConfig returns the defaults used when a field is left zero.
func DefaultConfig() Config {
	return Config{
		ProfileTimeout:    5 * time.Second,
		ExperienceTimeout: 5 * time.Second,
		ImageTimeout:      10 * time.Second,
		MaxImageBytes:     5 << 20,
		MaxImagePixels:    40_000_000,
		Filename:          "profile.pdf",
		MediaBaseURL:      "/api/v1/media/",
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.ProfileTimeout <= 0 {
		c.ProfileTimeout = def.ProfileTimeout
	}
	if c.ExperienceTimeout <= 0 {
		c.ExperienceTimeout = def.ExperienceTimeout
	}
	if c.ImageTimeout <= 0 {
		c.ImageTimeout = def.ImageTimeout
	}
	if c.MaxImageBytes <= 0 {
		c.MaxImageBytes = def.MaxImageBytes
	}
	if c.MaxImagePixels <= 0 {
		c.MaxImagePixels = def.MaxImagePixels
	}
	if c.Filename == "" {
		c.Filename = def.Filename
	}
	if c.MediaBaseURL == "" {
		c.MediaBaseURL = def.MediaBaseURL
	}
	return c
}
