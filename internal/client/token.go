package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/cli/go-gh/v2/pkg/auth"
)

const githubHost = "github.com"

// configPath determines the configuration directory for GitHub Copilot.
func configPath() (string, error) {
	// Try XDG config first
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		if isValidDir(xdg) {
			return xdg, nil
		}
	}

	// Windows-specific paths
	if runtime.GOOS == "windows" {
		if path := tryWindowsPaths(); path != "" {
			return path, nil
		}
	}

	usr, err := user.Current()
	if err != nil {
		return "", fmt.Errorf("failed to get current user: %w", err)
	}

	configDir := filepath.Join(usr.HomeDir, ".config")
	if isValidDir(configDir) {
		return configDir, nil
	}

	return "", errors.New("no valid config path found")
}

// isValidDir checks if a given path is a valid directory.
func isValidDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// tryWindowsPaths attempts to find the appropriate configuration path on Windows.
func tryWindowsPaths() string {
	if path := os.Getenv("LOCALAPPDATA"); isValidDir(path) {
		return path
	}

	if home := os.Getenv("HOME"); home != "" {
		if path := filepath.Join(home, "AppData", "Local"); isValidDir(path) {
			return path
		}
	}

	return ""
}

// readJSONFile reads a JSON file and unmarshals it into the provided variable.
func readJSONFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	return json.Unmarshal(data, v)
}

// GitHubToken finds an OAuth token usable for the Copilot token exchange.
// Order: GITHUB_TOKEN inside codespaces, the Copilot editor plugins'
// hosts.json/apps.json, then whatever the gh CLI is logged in with.
func GitHubToken() (string, error) {
	if token := os.Getenv("GITHUB_TOKEN"); token != "" && os.Getenv("CODESPACES") != "" {
		return token, nil
	}

	if configDir, err := configPath(); err == nil {
		if token := copilotPluginToken(configDir); token != "" {
			return token, nil
		}
	}

	if token, _ := auth.TokenForHost(githubHost); token != "" {
		return token, nil
	}

	return "", ErrNoToken
}

// copilotPluginToken reads the token written by the Copilot editor plugins.
func copilotPluginToken(configDir string) string {
	configFiles := []string{
		filepath.Join(configDir, "github-copilot", "hosts.json"),
		filepath.Join(configDir, "github-copilot", "apps.json"),
	}

	for _, path := range configFiles {
		var config map[string]any
		if err := readJSONFile(path, &config); err != nil {
			continue
		}

		if token := extractGitHubToken(config); token != "" {
			return token
		}
	}
	return ""
}

// extractGitHubToken helps extract the token from config data
func extractGitHubToken(config map[string]any) string {
	for host, data := range config {
		if !strings.Contains(host, githubHost) {
			continue
		}

		tokenData, ok := data.(map[string]any)
		if !ok {
			continue
		}

		if token, ok := tokenData["oauth_token"].(string); ok && token != "" {
			return token
		}
	}
	return ""
}
