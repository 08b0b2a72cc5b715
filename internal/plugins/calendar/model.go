// Package calendar owns marketing calendar events: the typed model, the
// MariaDB repository, validation and sanitization in the service layer, and
// the JSON API consumed by the calendar board. Events may point at a
// scheduled social post through a weak reference (SocialMediaPostID); the
// post itself belongs to the social plugin.
package calendar

import (
	"time"
)

// EventType classifies a calendar event. The set is closed.
type EventType string

// Event type constants.
const (
	TypeBlogPublish     EventType = "BLOG_PUBLISH"
	TypeSocialPost      EventType = "SOCIAL_POST"
	TypeCampaignLaunch  EventType = "CAMPAIGN_LAUNCH"
	TypeEmailCampaign   EventType = "EMAIL_CAMPAIGN"
	TypeWebinar         EventType = "WEBINAR"
	TypeWorkshop        EventType = "WORKSHOP"
	TypeProductRelease  EventType = "PRODUCT_RELEASE"
	TypeContentDeadline EventType = "CONTENT_DEADLINE"
	TypeMeeting         EventType = "MEETING"
	TypeOther           EventType = "OTHER"
)

// EventTypes lists every event type in display order.
var EventTypes = []EventType{
	TypeBlogPublish, TypeSocialPost, TypeCampaignLaunch, TypeEmailCampaign,
	TypeWebinar, TypeWorkshop, TypeProductRelease, TypeContentDeadline,
	TypeMeeting, TypeOther,
}

// typeColors holds the fallback color for events without an explicit one.
var typeColors = map[EventType]string{
	TypeBlogPublish:     "#3b82f6",
	TypeSocialPost:      "#ec4899",
	TypeCampaignLaunch:  "#f97316",
	TypeEmailCampaign:   "#8b5cf6",
	TypeWebinar:         "#14b8a6",
	TypeWorkshop:        "#22c55e",
	TypeProductRelease:  "#ef4444",
	TypeContentDeadline: "#eab308",
	TypeMeeting:         "#64748b",
	TypeOther:           "#6b7280",
}

// Valid reports whether t is a member of the enumeration.
func (t EventType) Valid() bool {
	_, ok := typeColors[t]
	return ok
}

// DefaultColor returns the per-type fallback color. Unknown types get
// OTHER's color.
func (t EventType) DefaultColor() string {
	if c, ok := typeColors[t]; ok {
		return c
	}
	return typeColors[TypeOther]
}

// Label returns a human-readable name ("CAMPAIGN_LAUNCH" -> "Campaign Launch").
func (t EventType) Label() string {
	return humanize(string(t))
}

// EventStatus is the lifecycle state of a calendar event.
type EventStatus string

// Event status constants.
const (
	StatusPlanned    EventStatus = "PLANNED"
	StatusInProgress EventStatus = "IN_PROGRESS"
	StatusCompleted  EventStatus = "COMPLETED"
	StatusCanceled   EventStatus = "CANCELED"
	StatusPostponed  EventStatus = "POSTPONED"
)

// EventStatuses lists every status in lifecycle order.
var EventStatuses = []EventStatus{
	StatusPlanned, StatusInProgress, StatusCompleted, StatusCanceled, StatusPostponed,
}

// Valid reports whether s is a member of the enumeration.
func (s EventStatus) Valid() bool {
	for _, v := range EventStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// Label returns a human-readable name ("IN_PROGRESS" -> "In Progress").
func (s EventStatus) Label() string {
	return humanize(string(s))
}

// Event is a scheduled entry on the marketing calendar.
type Event struct {
	ID                string         `json:"id"`
	Title             string         `json:"title"`
	Description       *string        `json:"description,omitempty"`
	EventType         EventType      `json:"event_type"`
	Status            EventStatus    `json:"status"`
	StartDate         time.Time      `json:"start_date"`
	EndDate           *time.Time     `json:"end_date,omitempty"` // inclusive
	AllDay            bool           `json:"all_day"`
	Color             *string        `json:"color,omitempty"`
	SocialMediaPostID *string        `json:"social_media_post_id,omitempty"`
	Metadata          map[string]any `json:"metadata,omitempty"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
}

// DisplayColor returns the event's own color, or the default for its type.
func (e *Event) DisplayColor() string {
	if e.Color != nil && *e.Color != "" {
		return *e.Color
	}
	return e.EventType.DefaultColor()
}

// IsMultiDay returns true if the event has an end date on a later calendar
// day than its start.
func (e *Event) IsMultiDay() bool {
	if e.EndDate == nil {
		return false
	}
	sy, sm, sd := e.StartDate.Date()
	ey, em, ed := e.EndDate.Date()
	return sy != ey || sm != em || sd != ed
}

// HasPost returns true if the event references a social post.
func (e *Event) HasPost() bool {
	return e.SocialMediaPostID != nil && *e.SocialMediaPostID != ""
}

// --- Request DTOs ---

// EventInput is the field set for creating an event.
type EventInput struct {
	Title             string         `json:"title"`
	Description       *string        `json:"description,omitempty"`
	EventType         EventType      `json:"event_type"`
	Status            EventStatus    `json:"status,omitempty"`
	Color             *string        `json:"color,omitempty"`
	StartDate         time.Time      `json:"start_date"`
	EndDate           *time.Time     `json:"end_date,omitempty"`
	AllDay            bool           `json:"all_day"`
	SocialMediaPostID *string        `json:"social_media_post_id,omitempty"`
	Metadata          map[string]any `json:"metadata,omitempty"`
}

// UpdateEventInput is the field set for updating an event. Nil fields are
// left unchanged. ClearEndDate removes the end date (a nil EndDate cannot
// express that).
type UpdateEventInput struct {
	Title             *string        `json:"title,omitempty"`
	Description       *string        `json:"description,omitempty"`
	EventType         *EventType     `json:"event_type,omitempty"`
	Status            *EventStatus   `json:"status,omitempty"`
	Color             *string        `json:"color,omitempty"`
	StartDate         *time.Time     `json:"start_date,omitempty"`
	EndDate           *time.Time     `json:"end_date,omitempty"`
	ClearEndDate      bool           `json:"clear_end_date,omitempty"`
	AllDay            *bool          `json:"all_day,omitempty"`
	SocialMediaPostID *string        `json:"social_media_post_id,omitempty"`
	Metadata          map[string]any `json:"metadata,omitempty"`
}

// FullUpdate builds an UpdateEventInput that sets every field from in. Nil
// optional fields become empty strings so the update clears them. Clients
// that edit a whole form send this.
func FullUpdate(in EventInput) UpdateEventInput {
	up := UpdateEventInput{
		Title:             &in.Title,
		Description:       orEmpty(in.Description),
		EventType:         &in.EventType,
		Color:             orEmpty(in.Color),
		StartDate:         &in.StartDate,
		EndDate:           in.EndDate,
		ClearEndDate:      in.EndDate == nil,
		AllDay:            &in.AllDay,
		SocialMediaPostID: orEmpty(in.SocialMediaPostID),
		Metadata:          in.Metadata,
	}
	if in.Status != "" {
		up.Status = &in.Status
	}
	return up
}
