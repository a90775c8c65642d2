package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// DefaultAPIURL is the public qwacker backend.
const DefaultAPIURL = "https://qwacker-api-http-prod-4cxdci3drq-oa.a.run.app"

// Config holds application-level configuration.
type Config struct {
	APIURL      string // Backend base URL, no trailing slash
	Token       string // Raw access token; takes precedence over TokenPath
	TokenPath   string // Path to file containing the access token
	LogPath     string // Log file; the terminal belongs to the UI
	Debug       bool
	UIStatePath string
}

// Load reads configuration from environment variables. A .env file in the
// working directory is loaded first and never overrides the real environment.
//
//	MUMBLE_API_URL    : backend base URL (default: DefaultAPIURL)
//	MUMBLE_TOKEN      : access token
//	MUMBLE_TOKEN_FILE : path to token file (default: ~/.config/terminalmumble/token)
//	MUMBLE_LOG_FILE   : log file (default: ~/.config/terminalmumble/terminalmumble.log)
//	MUMBLE_DEBUG      : enable debug logging
//	MUMBLE_STATE_FILE : UI state file (default: ~/.config/terminalmumble/ui_state.json)
func Load() (Config, error) {
	_ = godotenv.Load(".env")

	apiURL := os.Getenv("MUMBLE_API_URL")
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	parsed, err := url.Parse(apiURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return Config{}, fmt.Errorf("invalid MUMBLE_API_URL: must be an absolute URL")
	}
	if parsed.Scheme != "https" && parsed.Scheme != "http" {
		return Config{}, fmt.Errorf("invalid MUMBLE_API_URL: scheme must be http or https")
	}
	apiURL = strings.TrimRight(parsed.String(), "/")

	dir, err := configDir()
	if err != nil {
		return Config{}, err
	}

	debug := false
	if raw := strings.TrimSpace(os.Getenv("MUMBLE_DEBUG")); raw != "" {
		debug, err = strconv.ParseBool(raw)
		if err != nil {
			return Config{}, fmt.Errorf("invalid MUMBLE_DEBUG: %w", err)
		}
	}

	return Config{
		APIURL:      apiURL,
		Token:       strings.TrimSpace(os.Getenv("MUMBLE_TOKEN")),
		TokenPath:   envOr("MUMBLE_TOKEN_FILE", filepath.Join(dir, "token")),
		LogPath:     envOr("MUMBLE_LOG_FILE", filepath.Join(dir, "terminalmumble.log")),
		Debug:       debug,
		UIStatePath: envOr("MUMBLE_STATE_FILE", filepath.Join(dir, "ui_state.json")),
	}, nil
}

func configDir() (string, error) {
	if dir := os.Getenv("MUMBLE_CONFIG_DIR"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".config", "terminalmumble"), nil
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
