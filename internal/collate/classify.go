// Package collate decides which tasks belong to which view. Everything here
// is pure: the current time is always passed in.
package collate

import (
	"strings"
	"time"

	"github.com/hy4ri/todolist/internal/api"
)

// Token identifies the active view: one of the collated views or a concrete
// projectId.
type Token string

// Collated view tokens.
const (
	Inbox Token = "INBOX"
	Today Token = "TODAY"
	Next7 Token = "NEXT_7"

	// legacyInbox is the numeric literal older sessions stored for Inbox.
	legacyInbox Token = "0"
)

// DateLayout is the task date format (MM/DD/YYYY).
const DateLayout = "01/02/2006"

// next7Window is the upper bound, in days, of the Next 7 days view.
const next7Window = 7

// CollatedView describes one virtual view.
type CollatedView struct {
	Token Token
	Key   string
	Name  string
}

// CollatedViews returns the virtual views in sidebar order.
func CollatedViews() []CollatedView {
	return []CollatedView{
		{Token: Inbox, Key: "inbox", Name: "Inbox"},
		{Token: Today, Key: "today", Name: "Today"},
		{Token: Next7, Key: "next_7", Name: "Next 7 Days"},
	}
}

// ParseToken normalises user input (flags, config) into a Token. Collated
// names are matched case-insensitively; anything else is a projectId.
func ParseToken(s string) Token {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "0", "inbox":
		return Inbox
	case "today":
		return Today
	case "next_7", "next7", "next-7":
		return Next7
	}
	return Token(s)
}

// IsCollated reports whether t is a virtual view rather than a project.
func (t Token) IsCollated() bool {
	switch t {
	case Inbox, Today, Next7, legacyInbox:
		return true
	}
	return false
}

// IsProject reports whether t names a concrete project.
func (t Token) IsProject() bool {
	return t != "" && !t.IsCollated()
}

// BelongsToView reports whether task is part of the view selected by token.
// Unknown or empty tokens match nothing; this never fails.
func BelongsToView(task api.Task, token Token, now time.Time) bool {
	switch token {
	case "":
		return false
	case Inbox, legacyInbox:
		return task.Date == ""
	case Today:
		return task.Date == now.Format(DateLayout)
	case Next7:
		// Only bounded from above: overdue tasks land here too.
		diff, ok := DayDiff(task.Date, now)
		return ok && diff <= next7Window
	default:
		return task.ProjectID == string(token)
	}
}

// DayDiff returns the number of calendar days from now's date to the task
// date in now's location, negative for past dates. The time of day and
// daylight saving shifts do not count. ok is false when the date is empty
// or unparseable.
func DayDiff(date string, now time.Time) (int, bool) {
	d, ok := ParseDate(date, now.Location())
	if !ok {
		return 0, false
	}
	return civilDays(d) - civilDays(now), true
}

// civilDays numbers t's calendar date. Taking the date in UTC makes every
// day exactly 24 hours long.
func civilDays(t time.Time) int {
	y, m, d := t.Date()
	return int(time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400)
}

// dateLayouts accept '/' or '-' separators; month and day may have one or
// two digits.
var dateLayouts = []string{"1/2/2006", "1-2-2006"}

// ParseDate parses a task date at midnight in loc.
func ParseDate(date string, loc *time.Location) (time.Time, bool) {
	date = strings.TrimSpace(date)
	if date == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range dateLayouts {
		if d, err := time.ParseInLocation(layout, date, loc); err == nil {
			return d, true
		}
	}
	return time.Time{}, false
}

// FormatDate renders t in the task date format.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// TaskFilterFor builds the gateway subscription filter for a token. The
// Next 7 days window is applied client-side, so it only constrains the user.
func TaskFilterFor(userID string, token Token, now time.Time) api.TaskFilter {
	filter := api.TaskFilter{UserID: userID}
	switch token {
	case Today:
		filter.Date = api.DateOnly(FormatDate(now))
	case Inbox, legacyInbox:
		filter.Date = api.DateOnly("")
	case Next7, "":
	default:
		filter.ProjectID = string(token)
	}
	return filter
}

// Title returns the heading shown above the task list.
func Title(token Token, projects []api.Project) string {
	if token == legacyInbox {
		token = Inbox
	}
	for _, v := range CollatedViews() {
		if v.Token == token {
			return v.Name
		}
	}
	for _, p := range projects {
		if p.ProjectID == string(token) {
			return p.Name
		}
	}
	return ""
}
