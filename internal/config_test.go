package internal

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func useTempConfigDir(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	original := configDir
	configDir = func() (string, error) { return dir, nil }
	t.Cleanup(func() { configDir = original })
}

func TestLoadConfigWithoutFileReturnsEmptyConfig(t *testing.T) {
	useTempConfigDir(t)

	config, err := LoadConfig()
	require.NoError(t, err)
	require.Empty(t, config.Accounts)
	require.Equal(t, AccountConfig{}, config.GetAccount("acme"))
}

func TestConfigRoundTrip(t *testing.T) {
	useTempConfigDir(t)

	config, err := LoadConfig()
	require.NoError(t, err)

	config.SetAccount("acme", AccountConfig{
		Email:      "bob@example.com",
		InstallDir: "bin/op",
		Vault:      "Home",
	})
	require.NoError(t, config.Save())

	reloaded, err := LoadConfig()
	require.NoError(t, err)
	account := reloaded.GetAccount("acme")
	require.Equal(t, "bob@example.com", account.Email)
	require.Equal(t, "bin/op", account.InstallDir)
	require.Equal(t, "Home", account.Vault)
}

func TestSetAccountOverwrites(t *testing.T) {
	config := &Config{}
	config.SetAccount("acme", AccountConfig{Email: "old@example.com"})
	config.SetAccount("acme", AccountConfig{Email: "new@example.com"})
	require.Equal(t, "new@example.com", config.GetAccount("acme").Email)
}
