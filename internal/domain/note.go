package domain

import "time"

type Note struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Summary   *string   `json:"summary,omitempty"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreateNoteRequest struct {
	Title   string   `json:"title" validate:"required,max=200"`
	Content string   `json:"content" validate:"required"`
	Summary *string  `json:"summary"`
	Tags    []string `json:"tags" validate:"omitempty,max=50,dive,required,max=50"`
}

// UpdateNoteRequest carries only the fields the caller wants changed; nil means keep.
type UpdateNoteRequest struct {
	Title   *string   `json:"title" validate:"omitempty,min=1,max=200"`
	Content *string   `json:"content"`
	Summary *string   `json:"summary"`
	Tags    *[]string `json:"tags" validate:"omitempty,max=50,dive,required,max=50"`
}

// Apply copies the provided fields onto note and reports whether any were set.
func (r *UpdateNoteRequest) Apply(note *Note) bool {
	changed := false
	if r.Title != nil {
		note.Title = *r.Title
		changed = true
	}
	if r.Content != nil {
		note.Content = *r.Content
		changed = true
	}
	if r.Summary != nil {
		note.Summary = r.Summary
		changed = true
	}
	if r.Tags != nil {
		note.Tags = *r.Tags
		changed = true
	}
	return changed
}

// Fields lists the JSON names of the provided fields.
func (r *UpdateNoteRequest) Fields() []string {
	var fields []string
	if r.Title != nil {
		fields = append(fields, "title")
	}
	if r.Content != nil {
		fields = append(fields, "content")
	}
	if r.Summary != nil {
		fields = append(fields, "summary")
	}
	if r.Tags != nil {
		fields = append(fields, "tags")
	}
	return fields
}

type NoteListResponse struct {
	Notes []*Note `json:"notes"`
}

type NoteCreatedResponse struct {
	NoteID string `json:"note_id"`
}
