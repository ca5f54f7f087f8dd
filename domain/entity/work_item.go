package entity

import "time"

type WorkStatus string

const (
	WorkStatusProcessing WorkStatus = "processing"
	WorkStatusSuccess    WorkStatus = "success"
	WorkStatusSkipped    WorkStatus = "skipped"
	WorkStatusError      WorkStatus = "error"
)

// WorkItem はライブフィード上のインシデント1件
type WorkItem struct {
	IncidentNumber string
	Description    string
	Status         WorkStatus
	Note           string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
