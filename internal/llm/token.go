package llm

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// githubTokenEnv lists the environment variables holding a GitHub token,
// in lookup order.
var githubTokenEnv = []string{"GITHUB_TOKEN", "GH_TOKEN"}

// copilotConfigFiles are the files written by the Copilot editor plugins.
var copilotConfigFiles = []string{"hosts.json", "apps.json"}

// LoadGitHubToken loads the GitHub OAuth token used for Copilot.
// Environment variables win over the editor plugin files under
// <config dir>/github-copilot.
func LoadGitHubToken() (string, error) {
	for _, name := range githubTokenEnv {
		if token := strings.TrimSpace(os.Getenv(name)); token != "" {
			return token, nil
		}
	}

	dir, err := copilotConfigDir()
	if err != nil {
		return "", fmt.Errorf("getting config directory: %w", err)
	}
	for _, name := range copilotConfigFiles {
		if token, err := readOAuthToken(filepath.Join(dir, name)); err == nil {
			return token, nil
		}
	}

	return "", fmt.Errorf("%w: GitHub token not found, set GITHUB_TOKEN or sign in to GitHub Copilot in your editor", ErrMissingCredentials)
}

func copilotConfigDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "github-copilot"), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	if runtime.GOOS == "windows" {
		if local := os.Getenv("LOCALAPPDATA"); local != "" {
			return filepath.Join(local, "github-copilot"), nil
		}
		return filepath.Join(home, "AppData", "Local", "github-copilot"), nil
	}
	return filepath.Join(home, ".config", "github-copilot"), nil
}

// readOAuthToken extracts the oauth_token of a github.com entry.
// Both files map "<host>[:<app id>]" to an object holding the token.
func readOAuthToken(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	var entries map[string]struct {
		OAuthToken string `json:"oauth_token"`
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		return "", fmt.Errorf("parsing %s: %w", path, err)
	}
	for host, entry := range entries {
		if strings.Contains(host, "github.com") && entry.OAuthToken != "" {
			return entry.OAuthToken, nil
		}
	}
	return "", fmt.Errorf("oauth_token not found in %s", path)
}
