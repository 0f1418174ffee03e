package internal

import (
	"encoding/json"
	"os"
	"path/filepath"
)

type Config struct {
	Accounts map[string]AccountConfig `json:"accounts"`
}

// AccountConfig stores the non-secret signin defaults for one account
// domain. The secret key and master password are always prompted.
type AccountConfig struct {
	Email      string `json:"email"`
	InstallDir string `json:"installDir"`
	Vault      string `json:"vault"`
}

func LoadConfig() (*Config, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return &Config{Accounts: make(map[string]AccountConfig)}, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{Accounts: make(map[string]AccountConfig)}, nil
		}
		return nil, err
	}

	var config Config
	err = json.Unmarshal(data, &config)
	if err != nil {
		return nil, err
	}

	if config.Accounts == nil {
		config.Accounts = make(map[string]AccountConfig)
	}

	return &config, nil
}

func (c *Config) Save() error {
	configPath, err := getConfigPath()
	if err != nil {
		return err
	}

	// Ensure config directory exists
	configDir := filepath.Dir(configPath)
	err = os.MkdirAll(configDir, 0755)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0644)
}

func (c *Config) GetAccount(domain string) AccountConfig {
	return c.Accounts[domain]
}

func (c *Config) SetAccount(domain string, account AccountConfig) {
	if c.Accounts == nil {
		c.Accounts = make(map[string]AccountConfig)
	}
	c.Accounts[domain] = account
}

// configDir is a test seam for the configuration directory.
var configDir = func() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "op-client"), nil
}

func getConfigPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}
