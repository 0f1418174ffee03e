package internal

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/scriptogre/op-client/onepassword"
)

// SaveSession persists a session next to the config file so later CLI
// invocations can reuse it until it expires. The token is a secret, so
// the file is written user-readable only.
func SaveSession(session *onepassword.Session) error {
	sessionPath, err := getSessionPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(sessionPath), 0755); err != nil {
		return err
	}

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshaling session: %w", err)
	}
	return os.WriteFile(sessionPath, data, 0600)
}

// LoadSession reads the persisted session and checks it is still
// valid. A missing or expired session asks the user to sign in again.
func LoadSession() (*onepassword.Session, error) {
	sessionPath, err := getSessionPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(sessionPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("no session found, run 'op-client signin' first")
		}
		return nil, err
	}

	var session onepassword.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("parsing session from %s: %w", sessionPath, err)
	}
	if !session.Valid() {
		return nil, fmt.Errorf("session expired, run 'op-client signin' again")
	}
	return &session, nil
}

// ClearSession removes the persisted session.
func ClearSession() error {
	sessionPath, err := getSessionPath()
	if err != nil {
		return err
	}
	if err := os.Remove(sessionPath); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func getSessionPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "session.json"), nil
}
