// Package video animates a finished design into a short clip.
package video

import "context"

// Asset is a generated clip.
type Asset struct {
	URL    string
	Format string
	Frames int
}

// Generator turns a still image URL into a clip.
type Generator interface {
	Generate(ctx context.Context, imageURL string) (*Asset, error)
}
