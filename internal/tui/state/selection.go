package state

import "github.com/hy4ri/todolist/internal/collate"

// Selection holds the single active view token. It defaults to Inbox and
// only changes through Select or ProjectDeleted.
type Selection struct {
	token collate.Token
}

// NewSelection starts at initial, or Inbox when initial is empty.
func NewSelection(initial collate.Token) *Selection {
	s := &Selection{token: collate.Inbox}
	s.Select(initial)
	return s
}

// Current returns the active token.
func (s *Selection) Current() collate.Token {
	return s.token
}

// Select makes token active and reports whether the selection changed.
// Empty tokens are ignored.
func (s *Selection) Select(token collate.Token) bool {
	token = collate.ParseToken(string(token))
	if token == "" || token == s.token {
		return false
	}
	s.token = token
	return true
}

// ProjectDeleted falls back to Inbox if projectID is the active project.
// It reports whether the selection changed.
func (s *Selection) ProjectDeleted(projectID string) bool {
	if projectID == "" || s.token != collate.Token(projectID) {
		return false
	}
	s.token = collate.Inbox
	return true
}
