package site

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/portfolio/internal/errors"
)

// Content is the editable copy of the site.
type Content struct {
	Title       string    `yaml:"title"`
	Description string    `yaml:"description"`
	Hero        Hero      `yaml:"hero"`
	Sections    []Section `yaml:"sections"`
	Projects    []Project `yaml:"projects"`
	Plans       []Plan    `yaml:"plans"`
}

// Hero is the landing block shown before the first section.
type Hero struct {
	Eyebrow  string `yaml:"eyebrow"`
	Title    string `yaml:"title"`
	Subtitle string `yaml:"subtitle"`
	CTALabel string `yaml:"ctaLabel"`
	CTAHref  string `yaml:"ctaHref"`
}

// Section is one navigable region of the page. Key is the anchor id and
// the scroll-spy key.
type Section struct {
	Key   string `yaml:"key"`
	Title string `yaml:"title"`
	Nav   string `yaml:"nav"`
	Blurb string `yaml:"blurb"`

	// Kind selects the section body: projects, plans, contact or
	// get-started. Empty renders the blurb only.
	Kind string `yaml:"kind"`
}

// NavLabel returns the navigation label, defaulting to the title.
func (s Section) NavLabel() string {
	if s.Nav != "" {
		return s.Nav
	}
	return s.Title
}

// Project is a portfolio entry.
type Project struct {
	Title   string   `yaml:"title"`
	Summary string   `yaml:"summary"`
	Tags    []string `yaml:"tags"`
	URL     string   `yaml:"url"`
	Image   string   `yaml:"image"`
}

// Plan is a pricing option offered by the get-started form.
type Plan struct {
	Name         string   `yaml:"name"`
	Price        string   `yaml:"price"`
	Subscription bool     `yaml:"subscription"`
	Features     []string `yaml:"features"`
}

// Section kinds.
const (
	KindProjects   = "projects"
	KindPlans      = "plans"
	KindContact    = "contact"
	KindGetStarted = "get-started"
)

var keyPattern = regexp.MustCompile(`^[a-z][a-z0-9-]*$`)

// LoadContent reads and validates the content file at path.
func LoadContent(path string) (*Content, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("P120").WithDetail(path).Wrap(err)
		}
		return nil, errors.New("P121").WithDetail(err.Error()).Wrap(err)
	}
	c, err := ParseContent(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return c, nil
}

// ParseContent decodes and validates content from r.
func ParseContent(r io.Reader) (*Content, error) {
	var c Content
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && err != io.EOF {
		return nil, errors.New("P121").WithDetail(err.Error()).Wrap(err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks section keys and required fields.
func (c *Content) Validate() error {
	if len(c.Sections) == 0 {
		return errors.New("P123")
	}
	seen := make(map[string]bool, len(c.Sections))
	for i, s := range c.Sections {
		key := strings.TrimSpace(s.Key)
		if key == "" {
			return errors.New("P121").WithDetail(fmt.Sprintf("section %d has no key", i+1))
		}
		if !keyPattern.MatchString(key) {
			return errors.New("P121").
				WithDetail(fmt.Sprintf("section key %q must be lowercase letters, digits and dashes", key))
		}
		if seen[key] {
			return errors.New("P122").WithDetail(key)
		}
		seen[key] = true
		switch s.Kind {
		case "", KindProjects, KindPlans, KindContact, KindGetStarted:
		default:
			return errors.New("P121").WithDetail(fmt.Sprintf("section %q has unknown kind %q", key, s.Kind))
		}
	}
	for i, p := range c.Projects {
		if strings.TrimSpace(p.Title) == "" {
			return errors.New("P121").WithDetail(fmt.Sprintf("project %d has no title", i+1))
		}
	}
	return nil
}

// Keys returns the section keys in document order.
func (c *Content) Keys() []string {
	keys := make([]string, len(c.Sections))
	for i, s := range c.Sections {
		keys[i] = s.Key
	}
	return keys
}
