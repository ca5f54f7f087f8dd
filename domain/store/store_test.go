package store_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/pyama86/incident-dashboard/domain/entity"
	"github.com/pyama86/incident-dashboard/domain/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRingBuffer(t *testing.T) {
	r := store.NewRingBuffer[int](3)

	for i := 1; i <= 3; i++ {
		_, evicted := r.Push(i)
		assert.False(t, evicted)
	}
	assert.Equal(t, []int{3, 2, 1}, r.Items())

	old, evicted := r.Push(4)
	assert.True(t, evicted)
	assert.Equal(t, 1, old)
	assert.Equal(t, []int{4, 3, 2}, r.Items())
	assert.Equal(t, 3, r.Len())

	r.Clear()
	assert.Empty(t, r.Items())
	r.Push(9)
	assert.Equal(t, []int{9}, r.Items())
}

func TestLiveFeed_CapAndOrder(t *testing.T) {
	feed := store.NewLiveFeed(store.DefaultFeedCapacity)
	for i := 0; i < 60; i++ {
		feed.Upsert(entity.WorkItem{IncidentNumber: fmt.Sprintf("INC%03d", i), Status: entity.WorkStatusProcessing})
	}

	items := feed.Items()
	require.Len(t, items, store.DefaultFeedCapacity)
	assert.Equal(t, "INC059", items[0].IncidentNumber)
	assert.Equal(t, "INC010", items[len(items)-1].IncidentNumber)

	_, ok := feed.Get("INC009")
	assert.False(t, ok, "evicted items must not be reachable by identity")
	assert.False(t, feed.Update("INC009", func(*entity.WorkItem) {}))
}

func TestLiveFeed_UpsertResetsInPlace(t *testing.T) {
	feed := store.NewLiveFeed(10)
	feed.Upsert(entity.WorkItem{IncidentNumber: "A", Status: entity.WorkStatusProcessing})
	feed.Upsert(entity.WorkItem{IncidentNumber: "B", Status: entity.WorkStatusProcessing})
	feed.Update("A", func(item *entity.WorkItem) { item.Status = entity.WorkStatusSuccess })

	created := feed.Upsert(entity.WorkItem{IncidentNumber: "A", Description: "again", Status: entity.WorkStatusProcessing})
	assert.False(t, created)

	items := feed.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "B", items[0].IncidentNumber)
	assert.Equal(t, "A", items[1].IncidentNumber)
	assert.Equal(t, entity.WorkStatusProcessing, items[1].Status)
	assert.Equal(t, "again", items[1].Description)
}

func TestLiveFeed_UpdateKeepsPosition(t *testing.T) {
	feed := store.NewLiveFeed(10)
	for _, n := range []string{"A", "B", "C"} {
		feed.Upsert(entity.WorkItem{IncidentNumber: n})
	}
	ok := feed.Update("A", func(item *entity.WorkItem) { item.Note = "updated" })
	require.True(t, ok)

	items := feed.Items()
	assert.Equal(t, []string{"C", "B", "A"}, []string{items[0].IncidentNumber, items[1].IncidentNumber, items[2].IncidentNumber})
	assert.Equal(t, "updated", items[2].Note)
}

func TestLiveFeed_Clear(t *testing.T) {
	feed := store.NewLiveFeed(10)
	feed.Upsert(entity.WorkItem{IncidentNumber: "A"})
	feed.Clear()
	assert.Equal(t, 0, feed.Len())
	_, ok := feed.Get("A")
	assert.False(t, ok)
	assert.True(t, feed.Upsert(entity.WorkItem{IncidentNumber: "A"}))
}

func TestLogStore_Cap(t *testing.T) {
	logs := store.NewLogStore(store.DefaultLogCapacity)
	now := time.Now()
	for i := 0; i < 150; i++ {
		logs.Add(entity.LogLevelInfo, fmt.Sprintf("message %d", i), now.Add(time.Duration(i)*time.Second))
	}

	records := logs.Records()
	require.Len(t, records, store.DefaultLogCapacity)
	assert.Equal(t, "message 149", records[0].Message)
	assert.Equal(t, "message 50", records[len(records)-1].Message)

	logs.Clear()
	assert.Equal(t, 0, logs.Len())
}
