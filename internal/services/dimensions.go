package services

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	_ "golang.org/x/image/webp"
)

// detectDimensions reads just enough of r to return "WxH" for decodable
// images, or "" when the format is unknown.
func detectDimensions(r io.Reader) string {
	cfg, _, err := image.DecodeConfig(r)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%dx%d", cfg.Width, cfg.Height)
}
