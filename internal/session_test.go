package internal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/scriptogre/op-client/onepassword"
)

func TestSessionStoreRoundTrip(t *testing.T) {
	useTempConfigDir(t)

	session := &onepassword.Session{
		Token:      "tok",
		Email:      "bob@example.com",
		ExpiresAt:  time.Now().Add(29 * time.Minute),
		InstallDir: "bin/op",
	}
	require.NoError(t, SaveSession(session))

	loaded, err := LoadSession()
	require.NoError(t, err)
	require.Equal(t, session.Token, loaded.Token)
	require.Equal(t, session.Email, loaded.Email)
	require.Equal(t, session.InstallDir, loaded.InstallDir)
	require.WithinDuration(t, session.ExpiresAt, loaded.ExpiresAt, time.Second)
}

func TestLoadSessionWithoutFile(t *testing.T) {
	useTempConfigDir(t)

	_, err := LoadSession()
	require.ErrorContains(t, err, "no session found")
}

func TestLoadSessionRejectsExpired(t *testing.T) {
	useTempConfigDir(t)

	session := &onepassword.Session{
		Token:     "tok",
		Email:     "bob@example.com",
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	require.NoError(t, SaveSession(session))

	_, err := LoadSession()
	require.ErrorContains(t, err, "session expired")
}

func TestClearSession(t *testing.T) {
	useTempConfigDir(t)

	session := &onepassword.Session{
		Token:     "tok",
		ExpiresAt: time.Now().Add(time.Minute),
	}
	require.NoError(t, SaveSession(session))
	require.NoError(t, ClearSession())

	_, err := LoadSession()
	require.ErrorContains(t, err, "no session found")

	// Clearing twice is fine.
	require.NoError(t, ClearSession())
}
