package document

import "time"

const (
	// DefaultID is the identifier of the welcome document that always exists.
	DefaultID = "default"
	// DefaultTitle is applied by Create when the caller gives no title.
	DefaultTitle = "Untitled Document"

	welcomeTitle   = "Welcome to Collaborative Editor"
	welcomeContent = "Start typing to begin collaborating in real-time!\n\nFeatures:\n• Real-time collaboration\n• Multiple users support\n• Auto-save functionality\n• User presence indicators"
)

// Document is the full document record held by the registry and written to
// snapshots. Pending-save state is kept by the registry's debouncer, not here.
type Document struct {
	ID        string    `json:"id" bson:"_id"`
	Title     string    `json:"title" bson:"title"`
	Content   string    `json:"content" bson:"content"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// Summary is the list projection of a document (content omitted).
type Summary struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Summary returns the list projection of d.
func (d *Document) Summary() Summary {
	return Summary{ID: d.ID, Title: d.Title, CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt}
}

// Clone returns a copy that callers may hold without racing registry writes.
func (d *Document) Clone() *Document {
	c := *d
	return &c
}

// NewDefault builds the welcome document inserted at startup.
func NewDefault(now time.Time) *Document {
	return &Document{
		ID:        DefaultID,
		Title:     welcomeTitle,
		Content:   welcomeContent,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
