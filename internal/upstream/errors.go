package upstream

import "fmt"

// StatusError is returned for any non-2xx upstream response.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s %s: upstream returned %d", e.Method, e.Path, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: upstream returned %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}
