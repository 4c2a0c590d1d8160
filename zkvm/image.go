package zkvm

import (
	"fmt"
	"os"
	"path/filepath"
)

// ImageExt is the file extension of program images.
const ImageExt = ".img"

// ResolveImage returns the expected image path for a program given the
// images root directory.
func ResolveImage(imageDir, name string) string {
	return filepath.Join(imageDir, name+ImageExt)
}

// LoadImage reads the image of the named program. An empty imageDir means
// the program has no image file and yields a nil image.
func LoadImage(imageDir, name string) ([]byte, error) {
	if imageDir == "" {
		return nil, nil
	}

	path := ResolveImage(imageDir, name)

	image, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load image %s: %w", path, err)
	}

	if len(image) == 0 {
		return nil, fmt.Errorf("load image %s: empty file", path)
	}

	return image, nil
}
