package render

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"strings"
)

const (
	ImagePNG  ImageFormat = "png"
	ImageJPEG ImageFormat = "jpeg"
)

type ImageFormat string

// ParseImageFormat accepts png, jpeg and jpg in any case.
func ParseImageFormat(s string) (ImageFormat, error) {
	switch f := ImageFormat(strings.ToLower(s)); f {
	case ImagePNG, ImageJPEG:
		return f, nil
	case "jpg":
		return ImageJPEG, nil
	}
	return "", fmt.Errorf("invalid image format: %s", s)
}

// Encode writes img in the given format.
func Encode(w io.Writer, img image.Image, format ImageFormat) error {
	switch format {
	case ImagePNG:
		return png.Encode(w, img)
	case ImageJPEG:
		return jpeg.Encode(w, img, &jpeg.Options{Quality: 95})
	}
	return fmt.Errorf("invalid image format: %s", format)
}

// Save encodes img into filename.
func Save(filename string, img image.Image, format ImageFormat) (err error) {
	out, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("creating image file: %w", err)
	}
	defer func() {
		if cErr := out.Close(); cErr != nil && err == nil {
			err = cErr
		}
	}()

	if err = Encode(out, img, format); err != nil {
		return fmt.Errorf("encoding image: %w", err)
	}
	return nil
}
