package qwacker

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"

	"github.com/CrestNiraj12/terminalmumble/app"
)

// mumbleForm encodes the text and optional image as multipart form data.
func mumbleForm(text string, image *app.Upload) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if err := w.WriteField("text", text); err != nil {
		return nil, "", fmt.Errorf("writing text field: %w", err)
	}

	if image != nil && image.Content != nil {
		name := filepath.Base(image.Filename)
		if name == "." || name == "/" {
			name = "image"
		}
		part, err := w.CreateFormFile("image", name)
		if err != nil {
			return nil, "", fmt.Errorf("creating image field: %w", err)
		}
		if _, err := io.Copy(part, image.Content); err != nil {
			return nil, "", fmt.Errorf("copying image: %w", err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("closing form: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}
