package validation

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
)

// ImageConstraints defines the accepted product image uploads.
var imageMimeTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

const maxImageSize = 5 << 20 // 5MB

// ValidateImage validates an uploaded image by size, sniffed content type,
// and extension. The content type comes from the file's magic bytes, not
// the client-supplied header, so it cannot be spoofed by renaming.
// Returns the detected MIME type.
func ValidateImage(header *multipart.FileHeader) (string, error) {
	if header.Size > maxImageSize {
		return "", fail(fmt.Sprintf("file too large: maximum size is %d MB", maxImageSize/(1<<20)))
	}

	file, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// http.DetectContentType reads at most 512 bytes
	buffer := make([]byte, 512)
	n, err := file.Read(buffer)
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	detectedType := http.DetectContentType(buffer[:n])
	if !imageMimeTypes[detectedType] {
		return "", fail(fmt.Sprintf("invalid file type (detected: %s)", detectedType))
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !imageExtensions[ext] {
		return "", fail(fmt.Sprintf("invalid file extension: %s", ext))
	}

	return detectedType, nil
}
