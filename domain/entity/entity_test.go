package entity_test

import (
	"testing"
	"time"

	"github.com/pyama86/incident-dashboard/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnvelope(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
		want    entity.EventType
	}{
		{"valid", `{"type":"incident_processing","data":{"incident_number":"INC1"},"timestamp":"2026-01-02T03:04:05.123456"}`, false, entity.EventTypeIncidentProcessing},
		{"unknown kind still parses", `{"type":"connection","data":{"message":"hi"}}`, false, "connection"},
		{"not json", `not json`, true, ""},
		{"missing type", `{"data":{}}`, true, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, err := entity.ParseEnvelope([]byte(tt.raw))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, env.Type)
		})
	}
}

func TestEnvelope_Time(t *testing.T) {
	fallback := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

	env := &entity.Envelope{Timestamp: "2026-01-02T03:04:05.123456"}
	got := env.Time(fallback)
	assert.Equal(t, 2026, got.Year())
	assert.Equal(t, 5, got.Second())

	env = &entity.Envelope{Timestamp: "2026-01-02T03:04:05Z"}
	assert.Equal(t, 2026, env.Time(fallback).Year())

	env = &entity.Envelope{Timestamp: "yesterday"}
	assert.Equal(t, fallback, env.Time(fallback))
}

func TestEnvelope_Decode(t *testing.T) {
	env, err := entity.ParseEnvelope([]byte(`{"type":"rule_matched","data":{"incident_number":"INC1","rule":{"closure_note":"restarted","id":3}}}`))
	require.NoError(t, err)

	var payload entity.RuleMatched
	require.NoError(t, env.Decode(&payload))
	assert.Equal(t, "INC1", payload.IncidentNumber)
	require.NotNil(t, payload.Rule)
	assert.Equal(t, "restarted", payload.Rule.ClosureNote)

	empty := &entity.Envelope{Type: entity.EventTypeExecutionStarted}
	assert.Error(t, empty.Decode(&entity.ExecutionStarted{}))

	bad := &entity.Envelope{Type: entity.EventTypeExecutionStarted, Data: []byte(`{"total_incidents":"two"}`)}
	assert.Error(t, bad.Decode(&entity.ExecutionStarted{}))
}

func TestHistoryRecord_Matches(t *testing.T) {
	r := entity.HistoryRecord{IncidentNumber: "INC0012345", ShortDescription: "Disk Usage High on db01"}

	assert.True(t, r.Matches(""))
	assert.True(t, r.Matches("inc00123"))
	assert.True(t, r.Matches("DISK usage"))
	assert.False(t, r.Matches("network"))
}

func TestCounters_FinishOne(t *testing.T) {
	c := entity.Counters{Processing: 1}
	c.FinishOne()
	c.FinishOne()
	assert.Equal(t, 0, c.Processing)
}

func TestConnectionState_String(t *testing.T) {
	assert.Equal(t, "Disconnected", entity.ConnectionStateDisconnected.String())
	assert.Equal(t, "Connecting", entity.ConnectionStateConnecting.String())
	assert.Equal(t, "Connected", entity.ConnectionStateConnected.String())
}
