package domain

import "time"

type JobStatus string

const (
	JobStatusQueued     JobStatus = "queued"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusError      JobStatus = "error"
)

func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusError
}

// TranscriptionJob is the vendor's view of an asynchronous transcription.
// Confidence and AudioDuration stay nil until the vendor reports them.
type TranscriptionJob struct {
	ID            string
	Status        JobStatus
	Text          string
	Confidence    *float64
	AudioDuration *float64
	Error         string
}

// TranscriptResult is what callers receive and what the cache holds.
type TranscriptResult struct {
	TranscriptID string  `json:"transcript_id"`
	Text         string  `json:"text"`
	Confidence   float64 `json:"confidence"`
	Duration     float64 `json:"duration"`
}

// Transcript is the archived record of a completed job.
type Transcript struct {
	ID string `json:"id"`
	TranscriptResult
	UserID    string    `json:"user_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
