// Package seed loads calendar fixtures from YAML. A seed file can back an
// in-memory Store (so the board runs without a server) or be imported into
// the database through the calendar and social services.
package seed

import (
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/keyxmakerx/backoffice/internal/plugins/calendar"
	"github.com/keyxmakerx/backoffice/internal/plugins/social"
)

// SampleName selects the built-in sample data instead of a file path.
const SampleName = "sample"

//go:embed sample.yaml
var sampleYAML []byte

// EventEntry is one calendar event in a seed file. Times accept RFC 3339,
// "YYYY-MM-DDTHH:MM", "YYYY-MM-DD HH:MM" or a bare date.
type EventEntry struct {
	ID          string         `yaml:"id"`
	Title       string         `yaml:"title"`
	Description string         `yaml:"description,omitempty"`
	Type        string         `yaml:"type"`
	Status      string         `yaml:"status,omitempty"`
	Start       string         `yaml:"start"`
	End         string         `yaml:"end,omitempty"`
	AllDay      bool           `yaml:"all_day,omitempty"`
	Color       string         `yaml:"color,omitempty"`
	Post        string         `yaml:"post,omitempty"`
	Metadata    map[string]any `yaml:"metadata,omitempty"`
}

// PostEntry is one social post in a seed file.
type PostEntry struct {
	ID        string   `yaml:"id"`
	Platform  string   `yaml:"platform"`
	Content   string   `yaml:"content"`
	Status    string   `yaml:"status,omitempty"`
	Hashtags  []string `yaml:"hashtags,omitempty"`
	Scheduled string   `yaml:"scheduled,omitempty"`
	Published string   `yaml:"published,omitempty"`
}

// File is a parsed seed file.
type File struct {
	// Timezone is the IANA zone naive times are read in. Defaults to UTC.
	Timezone string       `yaml:"timezone,omitempty"`
	Events   []EventEntry `yaml:"events"`
	Posts    []PostEntry  `yaml:"posts"`

	loc *time.Location
}

// Load reads a seed file from path. SampleName returns the built-in sample.
func Load(path string) (*File, error) {
	if path == SampleName {
		return Parse(strings.NewReader(string(sampleYAML)))
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening seed file: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse decodes a seed file and checks that IDs are unique and post
// references resolve.
func Parse(r io.Reader) (*File, error) {
	var file File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decoding seed file: %w", err)
	}

	file.loc = time.UTC
	if file.Timezone != "" {
		loc, err := time.LoadLocation(file.Timezone)
		if err != nil {
			return nil, fmt.Errorf("seed timezone: %w", err)
		}
		file.loc = loc
	}

	posts := make(map[string]bool, len(file.Posts))
	for i, p := range file.Posts {
		if p.ID == "" {
			return nil, fmt.Errorf("post #%d: id is required", i+1)
		}
		if posts[p.ID] {
			return nil, fmt.Errorf("post %q: duplicate id", p.ID)
		}
		posts[p.ID] = true
	}
	events := make(map[string]bool, len(file.Events))
	for i, e := range file.Events {
		if e.ID == "" {
			return nil, fmt.Errorf("event #%d: id is required", i+1)
		}
		if events[e.ID] {
			return nil, fmt.Errorf("event %q: duplicate id", e.ID)
		}
		events[e.ID] = true
		if e.Post != "" && !posts[e.Post] {
			return nil, fmt.Errorf("event %q: unknown post %q", e.ID, e.Post)
		}
	}
	return &file, nil
}

// Location returns the zone naive seed times are interpreted in.
func (f *File) Location() *time.Location {
	if f.loc == nil {
		return time.UTC
	}
	return f.loc
}

var timeLayouts = []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02 15:04", time.DateOnly}

func (f *File) parseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, f.Location()); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time %q", s)
}

func (f *File) parseOptionalTime(s string) (*time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	t, err := f.parseTime(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// EventInput converts an entry to a create request. The post reference is
// passed through unchanged; callers that re-key posts remap it.
func (f *File) EventInput(e EventEntry) (calendar.EventInput, error) {
	start, err := f.parseTime(e.Start)
	if err != nil {
		return calendar.EventInput{}, fmt.Errorf("event %q start: %w", e.ID, err)
	}
	end, err := f.parseOptionalTime(e.End)
	if err != nil {
		return calendar.EventInput{}, fmt.Errorf("event %q end: %w", e.ID, err)
	}
	in := calendar.EventInput{
		Title:     e.Title,
		EventType: calendar.EventType(strings.ToUpper(e.Type)),
		Status:    calendar.EventStatus(strings.ToUpper(e.Status)),
		StartDate: start,
		EndDate:   end,
		AllDay:    e.AllDay,
		Metadata:  e.Metadata,
	}
	if e.Description != "" {
		in.Description = &e.Description
	}
	if e.Color != "" {
		in.Color = &e.Color
	}
	if e.Post != "" {
		in.SocialMediaPostID = &e.Post
	}
	return in, nil
}

// PostInput converts an entry to a create request.
func (f *File) PostInput(p PostEntry) (social.PostInput, error) {
	scheduled, err := f.parseOptionalTime(p.Scheduled)
	if err != nil {
		return social.PostInput{}, fmt.Errorf("post %q scheduled: %w", p.ID, err)
	}
	published, err := f.parseOptionalTime(p.Published)
	if err != nil {
		return social.PostInput{}, fmt.Errorf("post %q published: %w", p.ID, err)
	}
	return social.PostInput{
		Platform:    social.Platform(strings.ToUpper(p.Platform)),
		Content:     p.Content,
		Status:      social.PostStatus(strings.ToUpper(p.Status)),
		Hashtags:    p.Hashtags,
		ScheduledAt: scheduled,
		PublishedAt: published,
	}, nil
}
