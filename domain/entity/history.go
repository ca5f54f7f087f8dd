package entity

import "strings"

type HistoryRecord struct {
	IncidentNumber   string `json:"incident_number"`
	ShortDescription string `json:"short_description"`
	Status           string `json:"status"`
	ActionTaken      string `json:"action_taken"`
	ProcessedAt      string `json:"processed_at"`
	ErrorMessage     string `json:"error_message,omitempty"`
}

// Matches は番号か概要に query が含まれるかを大文字小文字を区別せずに判定する
func (r HistoryRecord) Matches(query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(r.IncidentNumber), q) ||
		strings.Contains(strings.ToLower(r.ShortDescription), q)
}

// ExecutionLog は /api/logs のレスポンス1行
type ExecutionLog struct {
	ExecutionID    string `json:"execution_id"`
	EventType      string `json:"event_type"`
	IncidentNumber string `json:"incident_number"`
	Message        string `json:"message"`
	Timestamp      string `json:"timestamp"`
}
