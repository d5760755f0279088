package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	// TokenEnv overrides the stored document server token.
	TokenEnv = "TODOLIST_TOKEN"

	// Keyring entry and fallback file holding the document server token.
	keyringService   = appName
	serverTokenEntry = "document-server-token"
	serverTokenFile  = "server-token"
)

// TokenSource names where a token was found.
type TokenSource string

const (
	TokenFromEnv     TokenSource = "environment"
	TokenFromKeyring TokenSource = "keyring"
	TokenFromFile    TokenSource = "file"
	TokenNone        TokenSource = "none"
)

// DataDir returns the path to the data directory.
// Uses XDG_DATA_HOME or defaults to ~/.local/share/todolist/
func DataDir() (string, error) {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		dataHome = filepath.Join(homeDir, ".local", "share")
	}

	dataDir := filepath.Join(dataHome, appName)
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create data directory: %w", err)
	}
	return dataDir, nil
}

// GetToken returns the document server bearer token, or "" when none is
// configured.
func GetToken() (string, error) {
	token, _, err := LookupToken()
	return token, err
}

// LookupToken finds the document server token and reports where it came
// from. TODOLIST_TOKEN wins when it holds a value; set but blank it is
// ignored. A keyring entry that is missing or blank, or a keyring that
// cannot be reached, falls through to the token file.
func LookupToken() (string, TokenSource, error) {
	if v, ok := os.LookupEnv(TokenEnv); ok {
		if token := strings.TrimSpace(v); token != "" {
			return token, TokenFromEnv, nil
		}
	}

	// A missing entry (keyring.ErrNotFound) and an unreachable keyring both
	// leave the file as the only store.
	if v, err := keyring.Get(keyringService, serverTokenEntry); err == nil {
		if token := strings.TrimSpace(v); token != "" {
			return token, TokenFromKeyring, nil
		}
	}

	path, err := serverTokenPath()
	if err != nil {
		return "", TokenNone, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return "", TokenNone, nil
	}
	if err != nil {
		return "", TokenNone, fmt.Errorf("failed to read token file: %w", err)
	}
	if token := strings.TrimSpace(string(data)); token != "" {
		return token, TokenFromFile, nil
	}
	return "", TokenNone, nil
}

// SaveToken stores the token in the system keyring, or in the token file
// when no keyring is available. It reports where the token went.
func SaveToken(token string) (TokenSource, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return TokenNone, errors.New("token cannot be empty")
	}

	path, err := serverTokenPath()
	if err != nil {
		return TokenNone, err
	}

	if err := keyring.Set(keyringService, serverTokenEntry, token); err == nil {
		// The file must not outlive a newer keyring entry.
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return TokenFromKeyring, fmt.Errorf("failed to remove old token file: %w", err)
		}
		return TokenFromKeyring, nil
	}

	if err := os.WriteFile(path, []byte(token+"\n"), 0600); err != nil {
		return TokenNone, fmt.Errorf("failed to write token file: %w", err)
	}
	return TokenFromFile, nil
}

// ClearToken removes the stored token from the keyring and the token file.
// The environment override is left alone.
func ClearToken() error {
	kerr := keyring.Delete(keyringService, serverTokenEntry)

	path, err := serverTokenPath()
	if err != nil {
		return err
	}
	ferr := os.Remove(path)
	if ferr != nil && !errors.Is(ferr, os.ErrNotExist) {
		return fmt.Errorf("failed to remove token file: %w", ferr)
	}

	if kerr != nil && !errors.Is(kerr, keyring.ErrNotFound) {
		if v, err := keyring.Get(keyringService, serverTokenEntry); err == nil && strings.TrimSpace(v) != "" {
			return fmt.Errorf("failed to remove keyring entry: %w", kerr)
		}
	}
	return nil
}

func serverTokenPath() (string, error) {
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, serverTokenFile), nil
}
