package entity

import (
	"encoding/json"
	"fmt"
	"time"
)

type EventType string

const (
	EventTypeExecutionStarted   EventType = "execution_started"
	EventTypeIncidentProcessing EventType = "incident_processing"
	EventTypeRuleMatched        EventType = "rule_matched"
	EventTypeIncidentResolved   EventType = "incident_resolved"
	EventTypeIncidentSkipped    EventType = "incident_skipped"
	EventTypeErrorOccurred      EventType = "error_occurred"
	EventTypeExecutionCompleted EventType = "execution_completed"
)

// Envelope はストリームから届く1メッセージ。data は種別ごとに後からデコードする
type Envelope struct {
	Type      EventType       `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp string          `json:"timestamp"`
}

// サーバーは Python の isoformat() でタイムゾーン無しの時刻を送ってくる
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
}

func ParseEnvelope(raw []byte) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("failed to decode stream message: %w", err)
	}
	if env.Type == "" {
		return nil, fmt.Errorf("stream message has no type")
	}
	return &env, nil
}

// Time returns the parsed timestamp, or fallback when it is missing or unparseable.
func (e *Envelope) Time(fallback time.Time) time.Time {
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, e.Timestamp, time.Local); err == nil {
			return t
		}
	}
	return fallback
}

// Decode unmarshals the payload into v.
func (e *Envelope) Decode(v any) error {
	if len(e.Data) == 0 {
		return fmt.Errorf("%s has no data", e.Type)
	}
	if err := json.Unmarshal(e.Data, v); err != nil {
		return fmt.Errorf("failed to decode %s payload: %w", e.Type, err)
	}
	return nil
}

type ExecutionStarted struct {
	TotalIncidents int `json:"total_incidents"`
}

type IncidentProcessing struct {
	IncidentNumber   string `json:"incident_number"`
	ShortDescription string `json:"short_description"`
}

type MatchedRule struct {
	ClosureNote string `json:"closure_note"`
}

type RuleMatched struct {
	IncidentNumber string       `json:"incident_number"`
	Rule           *MatchedRule `json:"rule"`
}

type IncidentResolved struct {
	IncidentNumber string `json:"incident_number"`
}

type IncidentSkipped struct {
	IncidentNumber string `json:"incident_number"`
	Reason         string `json:"reason"`
}

type ErrorOccurred struct {
	IncidentNumber string `json:"incident_number"`
	Error          string `json:"error"`
}

type BatchStats struct {
	Success int `json:"success"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped"`
}

type ExecutionCompleted struct {
	Stats BatchStats `json:"stats"`
}
