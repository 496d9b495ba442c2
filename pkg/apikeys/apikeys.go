package apikeys

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const apiKeysFile = ".outreach/api_keys.json"

var (
	fileKeys     map[string]string
	fileKeysErr  error
	fileKeysOnce sync.Once
	keysPath     = defaultKeysPath
)

func defaultKeysPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not get user home directory: %w", err)
	}
	return filepath.Join(homeDir, apiKeysFile), nil
}

// EnvVar returns the environment variable consulted for provider.
func EnvVar(provider string) string {
	return strings.ToUpper(provider) + "_API_KEY"
}

// GetAPIKey retrieves the API key for the specified provider.
// The <PROVIDER>_API_KEY environment variable wins over the key file.
func GetAPIKey(provider string) (string, error) {
	if key := strings.TrimSpace(os.Getenv(EnvVar(provider))); key != "" {
		return key, nil
	}

	fileKeysOnce.Do(func() {
		fileKeys, fileKeysErr = loadAPIKeys()
	})
	if fileKeysErr != nil {
		return "", fileKeysErr
	}
	if key := fileKeys[provider]; key != "" {
		return key, nil
	}

	return "", fmt.Errorf("API key for %s not found: set %s or add it to ~/%s", provider, EnvVar(provider), apiKeysFile)
}

// loadAPIKeys loads the API keys from a file.
func loadAPIKeys() (map[string]string, error) {
	filePath, err := keysPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("could not read API keys file: %w", err)
	}

	var keys map[string]string
	if err := json.Unmarshal(data, &keys); err != nil {
		return nil, fmt.Errorf("could not unmarshal API keys: %w", err)
	}
	return keys, nil
}
