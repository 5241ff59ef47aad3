package domain

// Note is a named text entry with an optional description.
type Note struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

// NoteInput carries the body of create and update requests. Nil fields were
// not present in the request.
type NoteInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}
