// Package models defines the domain types for the notebook.
package models

// Note is a named piece of text. The zero Note (empty name and contents) is
// what a lookup of an unknown name yields.
type Note struct {
	name     string
	contents string
}

// NewNote creates a note. Empty strings are permitted.
func NewNote(name, contents string) Note {
	return Note{name: name, contents: contents}
}

// Name returns the note identifier. It never changes after creation.
func (n Note) Name() string { return n.name }

// Text returns the current contents of the note.
func (n Note) Text() string { return n.contents }

// Update replaces the contents in place.
func (n *Note) Update(contents string) {
	n.contents = contents
}

// Record returns the persisted form of the note.
func (n Note) Record() Record {
	return Record{Name: n.name, Contents: n.contents}
}

// Record is one entry of a snapshot, in listing order.
type Record struct {
	Name     string `msgpack:"name" json:"name"`
	Contents string `msgpack:"contents" json:"contents"`
}

// Note converts a snapshot record back into a Note.
func (r Record) Note() Note {
	return NewNote(r.Name, r.Contents)
}
