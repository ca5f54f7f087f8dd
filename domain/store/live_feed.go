package store

import "github.com/pyama86/incident-dashboard/domain/entity"

const DefaultFeedCapacity = 50

// LiveFeed は処理中・処理済みインシデントをインシデント番号で引ける形で保持する
type LiveFeed struct {
	ring  *RingBuffer[*entity.WorkItem]
	index map[string]*entity.WorkItem
}

func NewLiveFeed(capacity int) *LiveFeed {
	return &LiveFeed{
		ring:  NewRingBuffer[*entity.WorkItem](capacity),
		index: make(map[string]*entity.WorkItem),
	}
}

// Upsert adds item at the front, or resets the existing entry with the same
// incident number in place. Returns true when a new entry was created.
func (f *LiveFeed) Upsert(item entity.WorkItem) bool {
	if existing, ok := f.index[item.IncidentNumber]; ok {
		*existing = item
		return false
	}

	stored := &item
	if old, evicted := f.ring.Push(stored); evicted && f.index[old.IncidentNumber] == old {
		delete(f.index, old.IncidentNumber)
	}
	f.index[item.IncidentNumber] = stored
	return true
}

// Update applies fn to the entry without moving it. Unknown numbers, including
// ones already evicted, are reported as false.
func (f *LiveFeed) Update(incidentNumber string, fn func(*entity.WorkItem)) bool {
	item, ok := f.index[incidentNumber]
	if !ok {
		return false
	}
	fn(item)
	return true
}

func (f *LiveFeed) Get(incidentNumber string) (entity.WorkItem, bool) {
	item, ok := f.index[incidentNumber]
	if !ok {
		return entity.WorkItem{}, false
	}
	return *item, true
}

// Items returns copies of the entries, most recent first.
func (f *LiveFeed) Items() []entity.WorkItem {
	items := make([]entity.WorkItem, 0, f.ring.Len())
	for _, item := range f.ring.Items() {
		items = append(items, *item)
	}
	return items
}

func (f *LiveFeed) Len() int { return f.ring.Len() }

func (f *LiveFeed) Clear() {
	f.ring.Clear()
	f.index = make(map[string]*entity.WorkItem)
}
