package post

import "fmt"

// ValidationError reports a malformed or incomplete request. Field, Allowed
// and Missing are optional detail carried into the response body.
type ValidationError struct {
	Message string
	Field   string
	Allowed []string
	Missing []string
}

func (e *ValidationError) Error() string { return e.Message }

// NotFoundError reports a post identifier with no matching record. ID is the
// raw identifier as the client sent it.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("No post with id %s was found.", e.ID)
}
