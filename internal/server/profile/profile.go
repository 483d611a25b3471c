// Package profile loads the static parts of the site (hero, about, skills,
// contact details, ticker seed) from YAML.
package profile

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dmitrijs2005/folio/internal/server/ticker"
)

//go:embed default.yaml
var defaultYAML []byte

type Credential struct {
	Title  string `yaml:"title"`
	Issuer string `yaml:"issuer"`
	Year   string `yaml:"year"`
}

type SkillGroup struct {
	Title string   `yaml:"title"`
	Items []string `yaml:"items"`
}

type Contact struct {
	Heading string `yaml:"heading"`
	Blurb   string `yaml:"blurb"`
	Email   string `yaml:"email"`
}

type Link struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// Profile is everything on the site that is not stored content.
type Profile struct {
	Brand    string       `yaml:"brand"`
	Name     string       `yaml:"name"`
	Greeting string       `yaml:"greeting"`
	Tagline  string       `yaml:"tagline"`
	Intro    string       `yaml:"intro"`
	About    []string     `yaml:"about"`
	Featured Credential   `yaml:"featured"`
	Skills   []SkillGroup `yaml:"skills"`
	Contact  Contact      `yaml:"contact"`
	Socials  []Link       `yaml:"socials"`
	Footer   string       `yaml:"footer"`
	Ticker   []ticker.Row `yaml:"ticker"`
}

// Default returns the built-in profile.
func Default() *Profile {
	p := &Profile{}
	if err := yaml.Unmarshal(defaultYAML, p); err != nil {
		panic(fmt.Sprintf("embedded profile: %v", err))
	}
	return p
}

// Load reads path over the built-in profile. Keys missing from the file keep
// their defaults; lists present in the file replace the default lists. An
// empty path returns the defaults.
func Load(path string) (*Profile, error) {
	p := Default()
	if path == "" {
		return p, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("parse profile %s: %w", path, err)
	}
	return p, nil
}
