package post

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/postboard/backend/internal/model/post"
	"github.com/postboard/backend/internal/service/feed"
)

// Allowed query parameter values for List.
var (
	allowedSortFields = []string{"title", "content"}
	allowedDirections = []string{"asc", "desc"}
)

// requiredFields are checked at creation, in reporting order.
var requiredFields = [2]string{"title", "content"}

// Service owns the in-memory post list. All access goes through the mutex so
// concurrent requests observe consistent snapshots.
type Service struct {
	mu     sync.RWMutex
	posts  []post.Post
	nextID int
	hub    *feed.Hub
}

// New bootstraps the store with the supplied posts. The id counter starts
// above the highest initial id and never hands out a value twice, even after
// deletions. hub may be nil when no event feed is attached.
func New(initial []post.Post, hub *feed.Hub) *Service {
	s := &Service{
		posts:  append([]post.Post(nil), initial...),
		nextID: 1,
		hub:    hub,
	}
	for _, p := range initial {
		if p.ID >= s.nextID {
			s.nextID = p.ID + 1
		}
	}
	return s
}

// List returns a snapshot of all posts. A valid sortField orders the snapshot
// by case-insensitive comparison of that field and direction "desc" inverts
// it; equal keys keep store order. Invalid parameter values fail with a
// *ValidationError naming the parameter and its allowed values; direction is
// checked first, whether or not sortField is set.
func (s *Service) List(_ context.Context, sortField, direction string) ([]post.Post, error) {
	if direction != "" && direction != "asc" && direction != "desc" {
		return nil, &ValidationError{
			Message: "Invalid query parameter.",
			Field:   "direction",
			Allowed: allowedDirections,
		}
	}
	if sortField != "" && sortField != "title" && sortField != "content" {
		return nil, &ValidationError{
			Message: "Invalid query parameter.",
			Field:   "sort",
			Allowed: allowedSortFields,
		}
	}

	s.mu.RLock()
	out := make([]post.Post, len(s.posts))
	copy(out, s.posts)
	s.mu.RUnlock()

	if sortField == "" {
		return out, nil
	}

	key := func(p post.Post) string {
		if sortField == "content" {
			return strings.ToLower(p.Content)
		}
		return strings.ToLower(p.Title)
	}
	desc := direction == "desc"
	sort.SliceStable(out, func(i, j int) bool {
		a, b := key(out[i]), key(out[j])
		if desc {
			return a > b
		}
		return a < b
	})
	return out, nil
}

// Create validates the decoded request body and appends a new post. A
// required field is missing when it is absent or falsy; any extra fields are
// kept on the record. A nil or empty fields map means the body never parsed
// as a JSON object.
func (s *Service) Create(_ context.Context, fields map[string]any) (post.Post, error) {
	if len(fields) == 0 {
		return post.Post{}, &ValidationError{Message: "Request body must be JSON."}
	}

	var missing []string
	for _, name := range requiredFields {
		if v, ok := fields[name]; !ok || falsy(v) {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return post.Post{}, &ValidationError{Message: "Missing required fields.", Missing: missing}
	}

	title, ok := fields["title"].(string)
	if !ok {
		return post.Post{}, &ValidationError{Message: "Request body must be JSON."}
	}
	content, ok := fields["content"].(string)
	if !ok {
		return post.Post{}, &ValidationError{Message: "Request body must be JSON."}
	}

	var extra map[string]any
	for k, v := range fields {
		switch k {
		case "id", "title", "content":
		default:
			if extra == nil {
				extra = make(map[string]any)
			}
			extra[k] = v
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	created := post.Post{
		ID:      s.nextID,
		Title:   title,
		Content: content,
		Extra:   extra,
	}
	s.nextID++
	s.posts = append(s.posts, created)

	s.publish(feed.EventCreated, created)
	return created, nil
}

// Update applies the decoded request body to the post with the given id. The
// id check runs before body validation. Title and content overwrite only when
// present and non-null; empty strings do overwrite (creation rejects them,
// updates accept them).
func (s *Service) Update(_ context.Context, id int, fields map[string]any) (post.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return post.Post{}, &NotFoundError{ID: strconv.Itoa(id)}
	}
	if len(fields) == 0 {
		return post.Post{}, &ValidationError{Message: "Request body must be valid JSON."}
	}

	title, err := stringField(fields, "title")
	if err != nil {
		return post.Post{}, err
	}
	content, err := stringField(fields, "content")
	if err != nil {
		return post.Post{}, err
	}

	if title != nil {
		s.posts[idx].Title = *title
	}
	if content != nil {
		s.posts[idx].Content = *content
	}

	updated := s.posts[idx]
	s.publish(feed.EventUpdated, updated)
	return updated, nil
}

// Delete removes the post with the given id, keeping the order of the
// remaining posts.
func (s *Service) Delete(_ context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return &NotFoundError{ID: strconv.Itoa(id)}
	}

	deleted := s.posts[idx]
	s.posts = append(s.posts[:idx], s.posts[idx+1:]...)

	s.publish(feed.EventDeleted, deleted)
	return nil
}

// Search returns posts whose title or content contains the corresponding
// term, case-insensitively. Empty terms never match, so with both terms empty
// the result is empty. Results keep store order.
func (s *Service) Search(_ context.Context, title, content string) []post.Post {
	title = strings.ToLower(title)
	content = strings.ToLower(content)

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]post.Post, 0)
	for _, p := range s.posts {
		if (title != "" && strings.Contains(strings.ToLower(p.Title), title)) ||
			(content != "" && strings.Contains(strings.ToLower(p.Content), content)) {
			out = append(out, p)
		}
	}
	return out
}

// indexOf returns the position of the first post with the given id, or -1.
// Callers must hold the mutex.
func (s *Service) indexOf(id int) int {
	for i, p := range s.posts {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// publish emits a feed event while the write lock is held, so subscribers
// see events in mutation order.
func (s *Service) publish(eventType string, p post.Post) {
	if s.hub == nil {
		return
	}
	s.hub.Publish(feed.NewEvent(eventType, p))
}

// stringField extracts an optional string field from an update body: nil when
// absent or JSON null, a pointer otherwise. Non-string values fail
// validation.
func stringField(fields map[string]any, name string) (*string, error) {
	v, ok := fields[name]
	if !ok || v == nil {
		return nil, nil
	}
	str, ok := v.(string)
	if !ok {
		return nil, &ValidationError{Message: "Request body must be valid JSON."}
	}
	return &str, nil
}

// falsy mirrors the loose emptiness rule applied to required fields at
// creation: null, empty string, false, zero, and empty collections all count
// as missing.
func falsy(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case bool:
		return !t
	case float64:
		return t == 0
	case []any:
		return len(t) == 0
	case map[string]any:
		return len(t) == 0
	}
	return false
}
