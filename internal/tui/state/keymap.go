package state

import tea "github.com/charmbracelet/bubbletea"

// Key represents a key binding.
type Key struct {
	Key  string
	Help string
}

// KeymapData contains all key bindings for the application.
type KeymapData struct {
	// Focus navigation
	Up   Key
	Down Key
	Next Key
	Prev Key

	// Actions
	Activate Key
	Back     Key
	Quit     Key
	Help     Key
	Refresh  Key

	// Views
	Inbox Key
	Today Key
	Next7 Key

	// Overlays
	AddTask        Key
	QuickAdd       Key
	NewProject     Key
	ToggleProjects Key

	Copy Key
}

// DefaultKeymap returns the default bindings. Vim mode adds j/k focus
// movement on top of the arrow keys.
func DefaultKeymap(vim bool) KeymapData {
	km := KeymapData{
		Up:   Key{Key: "up", Help: "focus up"},
		Down: Key{Key: "down", Help: "focus down"},
		Next: Key{Key: "tab", Help: "next control"},
		Prev: Key{Key: "shift+tab", Help: "previous control"},

		Activate: Key{Key: "enter", Help: "activate"},
		Back:     Key{Key: "esc", Help: "cancel"},
		Quit:     Key{Key: "q", Help: "quit"},
		Help:     Key{Key: "?", Help: "help"},
		Refresh:  Key{Key: "r", Help: "refresh projects"},

		Inbox: Key{Key: "1", Help: "Inbox"},
		Today: Key{Key: "2", Help: "Today"},
		Next7: Key{Key: "3", Help: "Next 7 days"},

		AddTask:        Key{Key: "a", Help: "add task"},
		QuickAdd:       Key{Key: "+", Help: "quick add task"},
		NewProject:     Key{Key: "n", Help: "new project"},
		ToggleProjects: Key{Key: "P", Help: "show/hide projects"},

		Copy: Key{Key: "yy", Help: "copy task"},
	}
	if vim {
		km.Up = Key{Key: "k", Help: "focus up"}
		km.Down = Key{Key: "j", Help: "focus down"}
	}
	return km
}

// KeyState tracks the 'yy' copy sequence.
type KeyState struct {
	WaitingY bool
}

// HandleKey maps a key press to an action name for the main screen. It
// returns false when the key is not bound.
func (ks *KeyState) HandleKey(msg tea.KeyMsg, km KeymapData) (string, bool) {
	key := msg.String()

	if ks.WaitingY {
		ks.WaitingY = false
		if key == "y" {
			return "copy", true
		}
	}
	if key == "y" {
		ks.WaitingY = true
		return "", true
	}

	switch key {
	case km.Up.Key, "up", "shift+tab":
		return "prev", true
	case km.Down.Key, "down", "tab":
		return "next", true
	case km.Activate.Key, " ":
		return "activate", true
	case km.Back.Key:
		return "back", true
	case km.Quit.Key, "ctrl+c":
		return "quit", true
	case km.Help.Key:
		return "help", true
	case km.Refresh.Key:
		return "refresh", true
	case km.Inbox.Key:
		return "view_inbox", true
	case km.Today.Key:
		return "view_today", true
	case km.Next7.Key:
		return "view_next7", true
	case km.AddTask.Key:
		return "add_task", true
	case km.QuickAdd.Key:
		return "quick_add", true
	case km.NewProject.Key:
		return "new_project", true
	case km.ToggleProjects.Key:
		return "toggle_projects", true
	case "f1":
		return "toggle_hints", true
	}

	return "", false
}

// Reset clears any pending multi-key sequence.
func (ks *KeyState) Reset() {
	ks.WaitingY = false
}

// HelpItems returns a slice of key-description pairs for the help view.
func (k KeymapData) HelpItems() [][]string {
	return [][]string{
		{"Navigation", ""},
		{k.Up.Key + "/" + k.Down.Key, "Move focus up/down"},
		{"tab/shift+tab", "Next/previous control"},
		{"enter/space", "Activate focused control"},
		{"click", "Activate control under pointer"},
		{"", ""},
		{"Views", ""},
		{k.Inbox.Key, k.Inbox.Help},
		{k.Today.Key, k.Today.Help},
		{k.Next7.Key, k.Next7.Help},
		{"", ""},
		{"Actions", ""},
		{k.AddTask.Key, "Add task to current view"},
		{k.QuickAdd.Key, "Quick add task"},
		{k.NewProject.Key, "New project"},
		{k.ToggleProjects.Key, "Show/hide projects"},
		{k.Copy.Key, "Copy focused task"},
		{k.Refresh.Key, "Refresh projects"},
		{"", ""},
		{"General", ""},
		{k.Help.Key, "Toggle help"},
		{k.Back.Key, "Close innermost overlay"},
		{"f1", "Toggle key hints"},
		{k.Quit.Key, "Quit"},
	}
}
