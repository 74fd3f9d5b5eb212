// Package config loads named credential profiles from a YAML file and overlays
// the process environment on top of them.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/gookit/goutil/envutil"
	"github.com/gookit/goutil/fsutil"
	"gopkg.in/yaml.v3"
)

const DefaultProfile = "CloudFlare"

var ErrProfileNotFound = errors.New("profile not found")

// SearchPaths are tried in order when no file is given explicitly.
var SearchPaths = []string{
	".cloudflare.yaml",
	"~/.cloudflare.yaml",
	"~/.cloudflare/cloudflare.yaml",
}

// Config is a decoded YAML document together with the file it came from.
type Config[B any] struct {
	Base B
	Path string
}

func NewConfig[B any](path string) (*Config[B], error) {
	base := new(B)
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	if err = dec.Decode(base); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}

	return &Config[B]{Base: *base, Path: path}, nil
}

// File is the on-disk layout: profile name to profile.
type File map[string]Profile

// Profile is one named section. Pointer fields distinguish "not set" from the
// zero value so later layers only override what they actually carry.
//
// Keys of the form "<field>.<method>" (for example "token.patch") land in
// Overrides and replace the generic credential for that HTTP method.
type Profile struct {
	Email     string   `yaml:"email,omitempty"`
	Key       string   `yaml:"key,omitempty"`
	Token     string   `yaml:"token,omitempty"`
	CertToken string   `yaml:"certtoken,omitempty"`
	Extras    []string `yaml:"extras,omitempty"`
	BaseURL   string   `yaml:"base_url,omitempty"`

	Raw         *bool `yaml:"raw,omitempty"`
	UseSessions *bool `yaml:"use_sessions,omitempty"`
	Debug       *bool `yaml:"debug,omitempty"`
	// Timeout in seconds.
	Timeout    *int `yaml:"global_request_timeout,omitempty"`
	MaxRetries *int `yaml:"max_request_retries,omitempty"`

	Overrides map[string]string `yaml:",inline"`
}

// Find returns the first search path that exists.
func Find() (string, bool) {
	for _, p := range SearchPaths {
		p = fsutil.ExpandPath(p)
		if fsutil.IsFile(p) {
			return p, true
		}
	}
	return "", false
}

// Load reads profile name from path. An empty path means the first file found
// on SearchPaths, and an empty name means DefaultProfile.
//
// With no file at all the default profile is empty rather than an error, so
// credentials may come from the environment alone. A profile asked for by
// name must exist.
func Load(path, name string) (*Profile, error) {
	explicit := name != ""
	if !explicit {
		name = DefaultProfile
	}

	if path == "" {
		found, ok := Find()
		if !ok {
			if explicit && name != DefaultProfile {
				return nil, fmt.Errorf("%w: %s (no configuration file)", ErrProfileNotFound, name)
			}
			return &Profile{}, nil
		}
		path = found
	}

	cfg, err := NewConfig[File](fsutil.ExpandPath(path))
	if err != nil {
		return nil, err
	}

	p, ok := cfg.Base[name]
	if !ok {
		if !explicit {
			return &Profile{}, nil
		}
		return nil, fmt.Errorf("%w: %s in %s (have %s)", ErrProfileNotFound, name, cfg.Path, strings.Join(cfg.Base.names(), ", "))
	}
	return &p, nil
}

func (f File) names() []string {
	out := make([]string, 0, len(f))
	for k := range f {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// envVars lists the variables read for each setting, preferred name first.
var envVars = []struct {
	names []string
	set   func(*Profile, string)
}{
	{[]string{"CLOUDFLARE_EMAIL", "CF_API_EMAIL"}, func(p *Profile, v string) { p.Email = v }},
	{[]string{"CLOUDFLARE_API_KEY", "CF_API_KEY"}, func(p *Profile, v string) { p.Key = v }},
	{[]string{"CLOUDFLARE_API_TOKEN", "CF_API_TOKEN"}, func(p *Profile, v string) { p.Token = v }},
	{[]string{"CLOUDFLARE_API_CERTKEY", "CF_API_CERTKEY"}, func(p *Profile, v string) { p.CertToken = v }},
	{[]string{"CLOUDFLARE_API_EXTRAS", "CF_API_EXTRAS"}, func(p *Profile, v string) { p.Extras = strings.Fields(v) }},
	{[]string{"CLOUDFLARE_API_URL", "CF_API_URL"}, func(p *Profile, v string) { p.BaseURL = v }},
}

// ApplyEnv overrides profile values with any set environment variables.
func (p *Profile) ApplyEnv() {
	for _, ev := range envVars {
		for _, name := range ev.names {
			if v := envutil.Getenv(name); v != "" {
				ev.set(p, v)
				break
			}
		}
	}
}

func (p *Profile) Validate() error {
	return validation.ValidateStruct(p,
		validation.Field(&p.BaseURL, is.URL),
		validation.Field(&p.Timeout, validation.Min(0)),
		validation.Field(&p.MaxRetries, validation.Min(0)),
	)
}
