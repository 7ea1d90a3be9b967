package web

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"recipebook/internal/domain"
)

// formOverhead is the allowance for text fields on top of the image.
const formOverhead = 1 << 20

// readImage turns the optional "image" file field into a data URL. A missing
// or empty file yields "".
func readImage(r *http.Request, max int64) (string, error) {
	file, _, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read image field: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, max+1))
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	return encodeImage(data, max)
}

// encodeImage checks size and content type and returns a base64 data URL.
func encodeImage(data []byte, max int64) (string, error) {
	if len(data) == 0 {
		return "", nil
	}
	if int64(len(data)) > max {
		return "", domain.ErrImageTooLarge
	}
	mime := http.DetectContentType(data)
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = mime[:i]
	}
	if !strings.HasPrefix(mime, "image/") {
		return "", domain.ErrNotAnImage
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}
