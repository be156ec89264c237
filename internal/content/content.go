// Package content holds the portfolio's static data: profile copy, skills,
// projects and the experience timeline.
package content

import (
	"errors"
	"fmt"
)

// Skill is a labeled proficiency bar.
type Skill struct {
	Name  string `yaml:"name"`
	Level int    `yaml:"level"`
}

// Band returns the color used for the skill's percentage label.
func (s Skill) Band() string {
	switch {
	case s.Level >= 80:
		return "green"
	case s.Level >= 70:
		return "orange"
	default:
		return "red"
	}
}

// Percent is Level clamped to 0-100 for bar widths.
func (s Skill) Percent() int {
	return min(max(s.Level, 0), 100)
}

// Project is rendered as a card.
type Project struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Tags        []string `yaml:"tags"`
	URL         string   `yaml:"url"`
}

// TimelineEntry is one row of the experience timeline. Entries are shown in
// the order given, newest first by convention.
type TimelineEntry struct {
	Period      string `yaml:"period"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

// Metric is a headline number in the hero banner.
type Metric struct {
	Value string `yaml:"value"`
	Label string `yaml:"label"`
}

// Link is a footer link.
type Link struct {
	Label string `yaml:"label"`
	URL   string `yaml:"url"`
}

// Profile is the copy shown in the navigation, hero, about and footer.
type Profile struct {
	Name      string   `yaml:"name"`
	Initials  string   `yaml:"initials"`
	Tagline   string   `yaml:"tagline"`
	Roles     []string `yaml:"roles"`
	Metrics   []Metric `yaml:"metrics"`
	About     string   `yaml:"about"`
	AvatarURL string   `yaml:"avatar_url"`
	VideoURL  string   `yaml:"video_url"`
	ResumeURL string   `yaml:"resume_url"`
	Links     []Link   `yaml:"links"`
	Year      int      `yaml:"year"`
}

// Portfolio is everything the page renders besides decorative assets.
type Portfolio struct {
	Profile  Profile         `yaml:"profile"`
	Skills   []Skill         `yaml:"skills"`
	Projects []Project       `yaml:"projects"`
	Timeline []TimelineEntry `yaml:"timeline"`
}

// Validate checks the portfolio for entries that would render as blanks.
func (p Portfolio) Validate() error {
	var errs []error
	if p.Profile.Name == "" {
		errs = append(errs, errors.New("profile name is required"))
	}
	for i, s := range p.Skills {
		if s.Name == "" {
			errs = append(errs, fmt.Errorf("skill %d: name is required", i))
		}
		if s.Level < 0 || s.Level > 100 {
			errs = append(errs, fmt.Errorf("skill %q: level %d outside 0-100", s.Name, s.Level))
		}
	}
	for i, pr := range p.Projects {
		if pr.Title == "" {
			errs = append(errs, fmt.Errorf("project %d: title is required", i))
		}
	}
	for i, t := range p.Timeline {
		if t.Title == "" {
			errs = append(errs, fmt.Errorf("timeline entry %d: title is required", i))
		}
	}
	return errors.Join(errs...)
}
