package handler

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/pyama86/incident-dashboard/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboard_StartupSnapshot(t *testing.T) {
	env := newTestEnv(t)
	rec := &recordingRenderer{}
	env.dashboard.renderer = rec
	env.dialer.queue()
	env.repo.set(func(m *mockRepo) {
		m.health = &entity.HealthReport{Status: "healthy", DatabaseMode: entity.DatabaseModeMemory}
		m.history = sampleHistory
		m.stats = &entity.Statistics{
			Today:   &entity.DailyTotals{Success: 7, Skipped: 1, Failed: 2},
			AllTime: &entity.AllTimeTotals{Total: 250},
		}
	})

	env.dashboard.Start()
	env.settle()

	require.NotEmpty(t, rec.snapshots)
	snap := rec.snapshots[len(rec.snapshots)-1]
	assert.Equal(t, entity.ConnectionStateConnected, snap.Connection)
	assert.Equal(t, entity.Counters{Success: 7, Skipped: 1, Failed: 2}, snap.Counters)
	assert.Equal(t, 250, snap.AllTimeTotal)
	assert.Len(t, snap.History.Records, 3)
	assert.Equal(t, entity.DatabaseModeMemory, snap.Health.DatabaseMode)
	require.NotNil(t, snap.Banner)
	assert.Equal(t, entity.BannerKindWarning, snap.Banner.Kind)
	assert.Empty(t, snap.Notifications)
	assert.Equal(t, testEpoch, snap.GeneratedAt)
}

func TestDashboard_SnapshotIsACopy(t *testing.T) {
	env := newTestEnv(t)
	d := env.dashboard
	d.events.HandleMessage(envelope(t, entity.EventTypeIncidentProcessing, entity.IncidentProcessing{IncidentNumber: "INC1"}))

	snap := d.Snapshot()
	snap.Feed[0].Status = entity.WorkStatusError
	snap.Logs[0].Message = "changed"

	item, _ := d.feed.Get("INC1")
	assert.Equal(t, entity.WorkStatusProcessing, item.Status)
	assert.Equal(t, "Processing INC1: ", env.logMessages()[0])
}

func TestDashboard_BoundedBuffers(t *testing.T) {
	env := newTestEnv(t)
	d := env.dashboard
	for i := 0; i < 120; i++ {
		d.events.HandleMessage(envelope(t, entity.EventTypeIncidentProcessing, entity.IncidentProcessing{IncidentNumber: fmt.Sprintf("INC%03d", i)}))
	}

	snap := d.Snapshot()
	require.Len(t, snap.Feed, 50)
	require.Len(t, snap.Logs, 100)
	assert.Equal(t, "INC119", snap.Feed[0].IncidentNumber)
	assert.Equal(t, "INC070", snap.Feed[49].IncidentNumber)
	assert.Equal(t, "Processing INC119: ", snap.Logs[0].Message)
}

func TestCollectReport(t *testing.T) {
	repo := newMockRepo()
	repo.history = sampleHistory
	repo.logs = []entity.ExecutionLog{{EventType: "incident_resolved", IncidentNumber: "INC001"}}
	repo.statsErr = errors.New("HTTP 503")

	in := CollectReport(context.Background(), repo, 100, 10)
	require.NoError(t, in.HealthErr)
	assert.Equal(t, entity.DatabaseModePostgres, in.Health.DatabaseMode)
	assert.Nil(t, in.Statistics)
	assert.Len(t, in.History, 3)
	assert.Len(t, in.Logs, 1)

	in = CollectReport(context.Background(), repo, 100, 0)
	assert.Empty(t, in.Logs)
	assert.Equal(t, 1, repo.count("logs"))
}
