package handler

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pyama86/incident-dashboard/clock"
	"github.com/pyama86/incident-dashboard/domain/entity"
	"github.com/pyama86/incident-dashboard/domain/repository"
	"github.com/stretchr/testify/require"
)

// ------------------------
// Mock repositories
// ------------------------
type mockRepo struct {
	mu sync.Mutex

	health    *entity.HealthReport
	healthErr error

	history    []entity.HistoryRecord
	historyErr error

	stats    *entity.Statistics
	statsErr error

	logs []entity.ExecutionLog

	calls map[string]int
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		health: &entity.HealthReport{Status: "healthy", DatabaseMode: entity.DatabaseModePostgres},
		calls:  map[string]int{},
	}
}

func (m *mockRepo) Health(context.Context) (*entity.HealthReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls["health"]++
	if m.healthErr != nil {
		return nil, m.healthErr
	}
	h := *m.health
	return &h, nil
}

func (m *mockRepo) History(_ context.Context, limit int) ([]entity.HistoryRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls["history"]++
	if m.historyErr != nil {
		return nil, m.historyErr
	}
	return append([]entity.HistoryRecord(nil), m.history...), nil
}

func (m *mockRepo) Statistics(context.Context) (*entity.Statistics, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls["statistics"]++
	if m.statsErr != nil {
		return nil, m.statsErr
	}
	return m.stats, nil
}

func (m *mockRepo) ExecutionLogs(_ context.Context, limit int) ([]entity.ExecutionLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls["logs"]++
	return m.logs, nil
}

func (m *mockRepo) set(f func(m *mockRepo)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f(m)
}

func (m *mockRepo) count(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[name]
}

type mockNotifier struct {
	banners []entity.Banner
}

func (m *mockNotifier) NotifyBanner(b entity.Banner) {
	m.banners = append(m.banners, b)
}

// ------------------------
// Mock stream
// ------------------------
type frame struct {
	data []byte
	err  error
}

type mockConn struct {
	frames chan frame
	closed chan struct{}
	once   sync.Once
}

func newMockConn() *mockConn {
	return &mockConn{
		frames: make(chan frame, 64),
		closed: make(chan struct{}),
	}
}

func (c *mockConn) ReadMessage() (int, []byte, error) {
	select {
	case f := <-c.frames:
		if f.err != nil {
			return 0, nil, f.err
		}
		return websocket.TextMessage, f.data, nil
	case <-c.closed:
		return 0, nil, errors.New("use of closed network connection")
	}
}

func (c *mockConn) Close() error {
	c.once.Do(func() { close(c.closed) })
	return nil
}

func (c *mockConn) send(t *testing.T, eventType entity.EventType, data any) {
	t.Helper()
	c.frames <- frame{data: envelope(t, eventType, data)}
}

func (c *mockConn) sendRaw(raw string) {
	c.frames <- frame{data: []byte(raw)}
}

func (c *mockConn) drop(err error) {
	c.frames <- frame{err: err}
}

func (c *mockConn) isClosed() bool {
	select {
	case <-c.closed:
		return true
	default:
		return false
	}
}

type mockDialer struct {
	mu    sync.Mutex
	conns []*mockConn
	dials int
}

// queue makes the next Dial call succeed with a new connection.
func (m *mockDialer) queue() *mockConn {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := newMockConn()
	m.conns = append(m.conns, c)
	return c
}

func (m *mockDialer) Dial(context.Context, string) (repository.StreamConn, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dials++
	if len(m.conns) == 0 {
		return nil, errors.New("connection refused")
	}
	c := m.conns[0]
	m.conns = m.conns[1:]
	return c, nil
}

func (m *mockDialer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dials
}

// ------------------------
// Helpers
// ------------------------
var testEpoch = time.Date(2024, 5, 1, 9, 0, 0, 0, time.Local)

type testEnv struct {
	dashboard *Dashboard
	clock     *clock.FakeClock
	repo      *mockRepo
	dialer    *mockDialer
	notifier  *mockNotifier
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	env := &testEnv{
		clock:    clock.Fake(testEpoch),
		repo:     newMockRepo(),
		dialer:   &mockDialer{},
		notifier: &mockNotifier{},
	}
	env.dashboard = NewDashboard(ctx, Options{
		Repository:     env.repo,
		Dialer:         env.dialer,
		StreamURL:      "ws://localhost/ws",
		Clock:          env.clock,
		BannerNotifier: env.notifier,
	})
	t.Cleanup(env.dashboard.Close)
	return env
}

func (e *testEnv) settle() {
	e.dashboard.loop.Settle()
}

// advance moves the fake clock and runs whatever became due.
func (e *testEnv) advance(d time.Duration) {
	e.clock.Advance(d)
	e.settle()
}

// waitFor drains the loop until cond holds. Used for frames coming from the
// reader goroutine.
func (e *testEnv) waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	require.Eventually(t, func() bool {
		e.dashboard.loop.Drain()
		return cond()
	}, 2*time.Second, 5*time.Millisecond)
	e.settle()
}

func (e *testEnv) logMessages() []string {
	records := e.dashboard.activity.Records()
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.Message)
	}
	return out
}

func envelope(t *testing.T, eventType entity.EventType, data any) []byte {
	t.Helper()
	payload, err := json.Marshal(data)
	require.NoError(t, err)
	raw, err := json.Marshal(entity.Envelope{
		Type:      eventType,
		Data:      payload,
		Timestamp: "2024-05-01T09:00:00.123456",
	})
	require.NoError(t, err)
	return raw
}
