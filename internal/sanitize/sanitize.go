// Package sanitize cleans user-supplied text before it is stored. Event and
// post descriptions may carry light formatting from the back-office editor;
// titles, hashtags and metadata strings are plain text only.
package sanitize

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	richPolicy  *bluemonday.Policy
	plainPolicy *bluemonday.Policy
	policyOnce  sync.Once
)

// policies builds the shared policies on first use.
func policies() (*bluemonday.Policy, *bluemonday.Policy) {
	policyOnce.Do(func() {
		richPolicy = bluemonday.UGCPolicy()

		// The editor emits classes for alignment and inline color spans.
		richPolicy.AllowAttrs("class").Globally()
		richPolicy.AllowAttrs("style").OnElements("span", "p")

		// Post mentions inside descriptions link back to the social plugin.
		richPolicy.AllowAttrs("data-post-id").OnElements("a")

		plainPolicy = bluemonday.StrictPolicy()
	})
	return richPolicy, plainPolicy
}

// HTML sanitizes formatted content such as event descriptions. Script tags,
// event handlers and javascript: URLs are removed; safe formatting stays.
func HTML(input string) string {
	if input == "" {
		return ""
	}
	rich, _ := policies()
	return rich.Sanitize(input)
}

// PlainText strips every tag from input, unescapes entities produced by the
// strip, collapses internal whitespace runs and trims the result.
func PlainText(input string) string {
	if input == "" {
		return ""
	}
	_, plain := policies()
	out := html.UnescapeString(plain.Sanitize(input))
	return strings.Join(strings.Fields(out), " ")
}

// OptionalHTML applies HTML to a nullable field. Empty results become nil.
func OptionalHTML(input *string) *string {
	if input == nil {
		return nil
	}
	out := strings.TrimSpace(HTML(*input))
	if out == "" {
		return nil
	}
	return &out
}
