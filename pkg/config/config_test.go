package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ivanehh/go-cfapi/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const profiles = `
CloudFlare:
  email: user@example.com
  key: generic-key
  token.patch: patch-token
  extras:
    - /zones/:id/new_thing
  raw: true
  global_request_timeout: 10
  max_request_retries: 2
work:
  token: work-token
  base_url: https://api.example.test/client/v4
  use_sessions: false
  debug: true
`

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cloudflare.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func clearEnv(t *testing.T) {
	for _, k := range []string{
		"CLOUDFLARE_EMAIL", "CF_API_EMAIL",
		"CLOUDFLARE_API_KEY", "CF_API_KEY",
		"CLOUDFLARE_API_TOKEN", "CF_API_TOKEN",
		"CLOUDFLARE_API_CERTKEY", "CF_API_CERTKEY",
		"CLOUDFLARE_API_EXTRAS", "CF_API_EXTRAS",
		"CLOUDFLARE_API_URL", "CF_API_URL",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaultProfile(t *testing.T) {
	p, err := config.Load(writeFile(t, profiles), "")
	require.NoError(t, err)

	assert.Equal(t, "user@example.com", p.Email)
	assert.Equal(t, "generic-key", p.Key)
	assert.Equal(t, map[string]string{"token.patch": "patch-token"}, p.Overrides)
	assert.Equal(t, []string{"/zones/:id/new_thing"}, p.Extras)
	require.NotNil(t, p.Raw)
	assert.True(t, *p.Raw)
	require.NotNil(t, p.Timeout)
	assert.Equal(t, 10, *p.Timeout)
	require.NotNil(t, p.MaxRetries)
	assert.Equal(t, 2, *p.MaxRetries)
	assert.Nil(t, p.UseSessions)
	assert.NoError(t, p.Validate())
}

func TestLoadNamedProfile(t *testing.T) {
	p, err := config.Load(writeFile(t, profiles), "work")
	require.NoError(t, err)

	assert.Equal(t, "work-token", p.Token)
	assert.Empty(t, p.Email)
	assert.Equal(t, "https://api.example.test/client/v4", p.BaseURL)
	require.NotNil(t, p.UseSessions)
	assert.False(t, *p.UseSessions)
	require.NotNil(t, p.Debug)
	assert.True(t, *p.Debug)
}

func TestLoadMissingProfile(t *testing.T) {
	_, err := config.Load(writeFile(t, profiles), "nope")
	assert.ErrorIs(t, err, config.ErrProfileNotFound)
	assert.Contains(t, err.Error(), "CloudFlare, work")
}

func TestLoadMissingDefaultProfileIsEmpty(t *testing.T) {
	p, err := config.Load(writeFile(t, "other:\n  token: x\n"), "")
	require.NoError(t, err)
	assert.Equal(t, &config.Profile{}, p)
}

func TestLoadEmptyFile(t *testing.T) {
	p, err := config.Load(writeFile(t, ""), "")
	require.NoError(t, err)
	assert.Equal(t, &config.Profile{}, p)
}

func TestLoadBadYAML(t *testing.T) {
	_, err := config.Load(writeFile(t, "CloudFlare: [unterminated"), "")
	assert.Error(t, err)
}

func TestLoadSearchPaths(t *testing.T) {
	orig := config.SearchPaths
	t.Cleanup(func() { config.SearchPaths = orig })

	dir := t.TempDir()
	config.SearchPaths = []string{filepath.Join(dir, "missing.yaml")}
	p, err := config.Load("", "")
	require.NoError(t, err)
	assert.Equal(t, &config.Profile{}, p)

	_, err = config.Load("", "work")
	assert.ErrorIs(t, err, config.ErrProfileNotFound)

	found := writeFile(t, profiles)
	config.SearchPaths = []string{filepath.Join(dir, "missing.yaml"), found}
	path, ok := config.Find()
	require.True(t, ok)
	assert.Equal(t, found, path)

	p, err = config.Load("", "work")
	require.NoError(t, err)
	assert.Equal(t, "work-token", p.Token)
}

func TestApplyEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("CLOUDFLARE_API_TOKEN", "env-token")
	t.Setenv("CF_API_TOKEN", "ignored")
	t.Setenv("CF_API_EMAIL", "env@example.com")
	t.Setenv("CF_API_EXTRAS", "/a/:id/b /c/:id/d")

	p, err := config.Load(writeFile(t, profiles), "")
	require.NoError(t, err)
	p.ApplyEnv()

	assert.Equal(t, "env-token", p.Token)
	assert.Equal(t, "env@example.com", p.Email)
	assert.Equal(t, "generic-key", p.Key)
	assert.Equal(t, []string{"/a/:id/b", "/c/:id/d"}, p.Extras)
}

func TestValidate(t *testing.T) {
	neg := -1
	p := &config.Profile{BaseURL: "not a url", MaxRetries: &neg}
	err := p.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BaseURL")
	assert.Contains(t, err.Error(), "MaxRetries")
}
