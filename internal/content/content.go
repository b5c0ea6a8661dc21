// Package content holds the portfolio copy rendered by every page.
package content

import (
	_ "embed"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed site.yaml
var siteYAML []byte

type Owner struct {
	Name    string `yaml:"name"`
	Tagline string `yaml:"tagline"`
	Email   string `yaml:"email"`
}

// Link is an outbound link card.
type Link struct {
	Title    string `yaml:"title"`
	Subtitle string `yaml:"subtitle"`
	URL      string `yaml:"url"`
}

// Button is a neon navigation button on the home page.
type Button struct {
	Title    string `yaml:"title"`
	Subtitle string `yaml:"subtitle"`
	Icon     string `yaml:"icon"`
	Path     string `yaml:"path"`
}

type Home struct {
	Headline   []string `yaml:"headline"`
	Superpower []string `yaml:"superpower"`
	Intro      []string `yaml:"intro"`
	Buttons    []Button `yaml:"buttons"`
}

type Project struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Tech        []string `yaml:"tech"`
	Status      string   `yaml:"status"`
	Link        string   `yaml:"link"`
	GitHub      string   `yaml:"github"`
	Paper       string   `yaml:"paper"`
	Credential  string   `yaml:"credential"`
}

type Gaming struct {
	Title        string   `yaml:"title"`
	Motto        string   `yaml:"motto"`
	Story        []string `yaml:"story"`
	Socials      []Link   `yaml:"socials"`
	Achievements []string `yaml:"achievements"`
	Focus        []string `yaml:"focus"`
}

type Service struct {
	Icon        string `yaml:"icon"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

type HireMe struct {
	Title    string    `yaml:"title"`
	Pitch    string    `yaml:"pitch"`
	Services []Service `yaml:"services"`
	Channels []Link    `yaml:"channels"`
}

type Resume struct {
	Title string `yaml:"title"`
	PDF   string `yaml:"pdf"`
}

// Site is the whole portfolio.
type Site struct {
	Owner    Owner     `yaml:"owner"`
	Home     Home      `yaml:"home"`
	Projects []Project `yaml:"projects"`
	Gaming   Gaming    `yaml:"gaming"`
	HireMe   HireMe    `yaml:"hire_me"`
	Resume   Resume    `yaml:"resume"`
	Footer   []Link    `yaml:"footer"`
}

// Load returns the embedded site copy.
func Load() (*Site, error) {
	return Parse(siteYAML)
}

// Parse decodes and validates site copy.
func Parse(data []byte) (*Site, error) {
	var s Site
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse site content: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks that every card can be rendered.
func (s *Site) Validate() error {
	var errs []error
	if s.Owner.Name == "" {
		errs = append(errs, errors.New("owner.name is required"))
	}
	for i, p := range s.Projects {
		if p.Title == "" {
			errs = append(errs, fmt.Errorf("projects[%d]: title is required", i))
		}
	}
	check := func(section string, links []Link) {
		for i, l := range links {
			if l.URL == "" {
				errs = append(errs, fmt.Errorf("%s[%d] %q: url is required", section, i, l.Title))
			}
		}
	}
	check("gaming.socials", s.Gaming.Socials)
	check("hire_me.channels", s.HireMe.Channels)
	check("footer", s.Footer)
	for i, b := range s.Home.Buttons {
		if b.Path == "" {
			errs = append(errs, fmt.Errorf("home.buttons[%d] %q: path is required", i, b.Title))
		}
	}
	return errors.Join(errs...)
}
