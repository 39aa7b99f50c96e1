package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const (
	defaultAPIURL = "http://localhost:8080"
	tokenFileName = ".pcbg_token"
)

// APIURL returns the base URL for the API.
// It can be overridden with the PCBG_API_URL environment variable.
func APIURL() string {
	if v := os.Getenv("PCBG_API_URL"); v != "" {
		return strings.TrimRight(v, "/")
	}
	return defaultAPIURL
}

// TokenPath is ~/.pcbg_token unless PCBG_TOKEN_FILE is set.
func TokenPath() string {
	if v := os.Getenv("PCBG_TOKEN_FILE"); v != "" {
		return v
	}
	dir, _ := os.UserHomeDir()
	return filepath.Join(dir, tokenFileName)
}

// SaveToken writes the session token readable only by the current user.
// WriteFile keeps the mode of an existing file, so it is tightened afterwards.
func SaveToken(token string) error {
	path := TokenPath()
	if err := os.WriteFile(path, []byte(token), 0o600); err != nil {
		return err
	}
	return os.Chmod(path, 0o600)
}

// LoadToken returns the saved token, or an error telling the user to log in.
func LoadToken() (string, error) {
	data, err := os.ReadFile(TokenPath())
	if errors.Is(err, fs.ErrNotExist) {
		return "", errors.New("not logged in; run `pcbg login` first")
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// DeleteToken removes the saved token. It reports whether one existed.
func DeleteToken() (bool, error) {
	err := os.Remove(TokenPath())
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return err == nil, err
}
