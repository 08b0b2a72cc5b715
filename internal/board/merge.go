package board

import (
	"sort"

	"github.com/keyxmakerx/backoffice/internal/plugins/calendar"
	"github.com/keyxmakerx/backoffice/internal/plugins/social"
)

// PostLookup indexes posts by ID for resolving event references.
type PostLookup map[string]social.Post

// BuildPostLookup indexes posts by ID. Later duplicates win.
func BuildPostLookup(posts []social.Post) PostLookup {
	lookup := make(PostLookup, len(posts))
	for _, p := range posts {
		lookup[p.ID] = p
	}
	return lookup
}

// AttachedPost returns the post e references. ok is false when e has no
// reference or the referenced post is not loaded; a dangling reference is
// not an error.
func (l PostLookup) AttachedPost(e calendar.Event) (p social.Post, ok bool) {
	if !e.HasPost() {
		return social.Post{}, false
	}
	p, ok = l[*e.SocialMediaPostID]
	return p, ok
}

// ReferencedPostIDs returns the set of post IDs referenced by any event.
// Filters are not applied: a post attached to a hidden event is still
// attached.
func ReferencedPostIDs(events []calendar.Event) map[string]struct{} {
	ids := make(map[string]struct{})
	for _, e := range events {
		if e.HasPost() {
			ids[*e.SocialMediaPostID] = struct{}{}
		}
	}
	return ids
}

// StandalonePostsForDay returns the posts on day that no event references.
func StandalonePostsForDay(day Date, events []calendar.Event, posts []social.Post) []social.Post {
	return standaloneForDay(day, ReferencedPostIDs(events), posts)
}

// standaloneForDay is StandalonePostsForDay with the referenced set computed
// once per render.
func standaloneForDay(day Date, referenced map[string]struct{}, posts []social.Post) []social.Post {
	var out []social.Post
	for _, p := range posts {
		if _, taken := referenced[p.ID]; taken {
			continue
		}
		if PostFallsOnDay(p, day) {
			out = append(out, p)
		}
	}
	sortPostsByTime(out)
	return out
}

// StandalonePosts returns every post with a calendar time that no event
// references, in time order.
func StandalonePosts(events []calendar.Event, posts []social.Post) []social.Post {
	return standalonePosts(ReferencedPostIDs(events), posts)
}

// standalonePosts returns every unreferenced post that has a calendar time,
// in time order.
func standalonePosts(referenced map[string]struct{}, posts []social.Post) []social.Post {
	var out []social.Post
	for _, p := range posts {
		if _, taken := referenced[p.ID]; taken {
			continue
		}
		if _, ok := p.CalendarTime(); ok {
			out = append(out, p)
		}
	}
	sortPostsByTime(out)
	return out
}

func sortPostsByTime(posts []social.Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		ti, _ := posts[i].CalendarTime()
		tj, _ := posts[j].CalendarTime()
		return ti.Before(tj)
	})
}
