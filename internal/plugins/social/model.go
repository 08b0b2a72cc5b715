// Package social owns scheduled social media posts. The calendar board shows
// posts next to calendar events; an event may reference one post through
// its SocialMediaPostID. Posts are read-mostly from the board's point of view.
package social

import (
	"strings"
	"time"
)

// Platform is the network a post is published to.
type Platform string

// Platform constants.
const (
	PlatformTwitter   Platform = "TWITTER"
	PlatformLinkedIn  Platform = "LINKEDIN"
	PlatformFacebook  Platform = "FACEBOOK"
	PlatformInstagram Platform = "INSTAGRAM"
	PlatformTikTok    Platform = "TIKTOK"
	PlatformYouTube   Platform = "YOUTUBE"
	PlatformThreads   Platform = "THREADS"
)

// Platforms lists every supported platform.
var Platforms = []Platform{
	PlatformTwitter, PlatformLinkedIn, PlatformFacebook, PlatformInstagram,
	PlatformTikTok, PlatformYouTube, PlatformThreads,
}

// Valid reports whether p is a supported platform.
func (p Platform) Valid() bool {
	for _, v := range Platforms {
		if v == p {
			return true
		}
	}
	return false
}

// Label returns the platform's display name.
func (p Platform) Label() string {
	switch p {
	case PlatformLinkedIn:
		return "LinkedIn"
	case PlatformTikTok:
		return "TikTok"
	case PlatformYouTube:
		return "YouTube"
	case PlatformTwitter:
		return "X / Twitter"
	}
	s := strings.ToLower(string(p))
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// PostStatus is the publishing state of a post.
type PostStatus string

// Post status constants.
const (
	StatusDraft     PostStatus = "DRAFT"
	StatusScheduled PostStatus = "SCHEDULED"
	StatusPublished PostStatus = "PUBLISHED"
	StatusFailed    PostStatus = "FAILED"
)

// Valid reports whether s is a known post status.
func (s PostStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusScheduled, StatusPublished, StatusFailed:
		return true
	}
	return false
}

// Post is a social media post with an optional scheduled or published time.
type Post struct {
	ID          string     `json:"id"`
	Platform    Platform   `json:"platform"`
	Content     string     `json:"content"`
	Status      PostStatus `json:"status"`
	Hashtags    []string   `json:"hashtags"`
	ScheduledAt *time.Time `json:"scheduled_at,omitempty"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// CalendarTime returns the time the post occupies on a calendar: the
// scheduled time if set, otherwise the published time. ok is false for posts
// with neither.
func (p *Post) CalendarTime() (t time.Time, ok bool) {
	switch {
	case p.ScheduledAt != nil:
		return *p.ScheduledAt, true
	case p.PublishedAt != nil:
		return *p.PublishedAt, true
	}
	return time.Time{}, false
}

// Excerpt returns the first n runes of the content, with an ellipsis when
// the content was cut.
func (p *Post) Excerpt(n int) string {
	r := []rune(p.Content)
	if len(r) <= n {
		return p.Content
	}
	return string(r[:n]) + "…"
}

// PostInput is the field set for creating a post.
type PostInput struct {
	Platform    Platform   `json:"platform"`
	Content     string     `json:"content"`
	Status      PostStatus `json:"status,omitempty"`
	Hashtags    []string   `json:"hashtags,omitempty"`
	ScheduledAt *time.Time `json:"scheduled_at,omitempty"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
}
