package auth

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrNoToken indicates no access token is configured.
var ErrNoToken = errors.New("no access token")

// TokenProvider supplies the identity provider's access token.
type TokenProvider interface {
	AccessToken() (string, error)
}

// StaticTokenProvider returns a fixed token, e.g. from MUMBLE_TOKEN.
type StaticTokenProvider string

// AccessToken returns the trimmed token or ErrNoToken when empty.
func (s StaticTokenProvider) AccessToken() (string, error) {
	token := strings.TrimSpace(string(s))
	if token == "" {
		return "", ErrNoToken
	}
	return token, nil
}

// FileTokenProvider reads a bearer token from a file on disk.
type FileTokenProvider struct {
	path string
}

// NewFileTokenProvider creates a TokenProvider that reads from the given file path.
func NewFileTokenProvider(path string) *FileTokenProvider {
	return &FileTokenProvider{path: path}
}

// AccessToken reads and returns the token, trimming whitespace.
// A missing file reports ErrNoToken so callers can treat it as signed out.
func (f *FileTokenProvider) AccessToken() (string, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("token file %s: %w", f.path, ErrNoToken)
		}
		return "", fmt.Errorf("reading token from %s: %w", f.path, err)
	}

	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", fmt.Errorf("token file %s is empty: %w", f.path, ErrNoToken)
	}

	return token, nil
}
