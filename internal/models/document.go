package models

// Document is the full persisted unit: every note and folder in the
// workspace, serialized and written as one blob on each mutation.
type Document struct {
	Notes   []Note   `json:"notes"`
	Folders []Folder `json:"folders"`
}

// EmptyDocument returns a document with no notes and the default folder set.
func EmptyDocument() *Document {
	return &Document{
		Notes:   []Note{},
		Folders: DefaultFolders(),
	}
}

// FindNote returns a pointer into the document's note slice, or nil.
func (d *Document) FindNote(id int64) *Note {
	for i := range d.Notes {
		if d.Notes[i].ID == id {
			return &d.Notes[i]
		}
	}
	return nil
}

// FindFolder returns a pointer into the document's folder slice, or nil.
func (d *Document) FindFolder(id string) *Folder {
	for i := range d.Folders {
		if d.Folders[i].ID == id {
			return &d.Folders[i]
		}
	}
	return nil
}
