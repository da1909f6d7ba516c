package models

type Folder struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Emoji   string `json:"emoji"`
	BuiltIn bool   `json:"built_in"`
}

// DefaultFolders returns the fixed built-in folder set. Callers get a fresh
// slice each time; the document owns its own copy.
func DefaultFolders() []Folder {
	return []Folder{
		{ID: InboxFolderID, Name: "Inbox", Emoji: "📥", BuiltIn: true},
		{ID: "work", Name: "Work", Emoji: "💼", BuiltIn: true},
		{ID: "ideas", Name: "Ideas", Emoji: "💡", BuiltIn: true},
		{ID: "personal", Name: "Personal", Emoji: "🌙", BuiltIn: true},
		{ID: "archive", Name: "Archive", Emoji: "📦", BuiltIn: true},
	}
}

type CreateFolderRequest struct {
	// Name is the raw user input; a leading pictographic rune becomes the
	// folder's emoji.
	Name string `json:"name"`
}
