package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

const (
	EnvPort        = "PORT"
	EnvBackendURL  = "BACKEND_URL"
	EnvCORSOrigins = "CORS_ORIGINS"
)

// LoadDotEnv loads path into the process environment without overriding
// variables that are already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if strings.TrimSpace(path) == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	return nil
}

// ListenAddrFromEnv maps PORT to ":<port>".
func ListenAddrFromEnv() (string, bool) {
	port := strings.TrimSpace(os.Getenv(EnvPort))
	if port == "" {
		return "", false
	}
	if strings.Contains(port, ":") {
		return port, true
	}
	return ":" + port, true
}

func BackendURLFromEnv() (string, bool) {
	raw := strings.TrimSpace(os.Getenv(EnvBackendURL))
	return raw, raw != ""
}

// CORSOriginsFromEnv splits a comma separated CORS_ORIGINS list.
func CORSOriginsFromEnv() ([]string, bool) {
	raw := strings.TrimSpace(os.Getenv(EnvCORSOrigins))
	if raw == "" {
		return nil, false
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out, len(out) > 0
}
