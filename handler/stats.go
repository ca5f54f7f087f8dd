package handler

import (
	"context"
	"log/slog"

	"github.com/pyama86/incident-dashboard/domain/entity"
	"github.com/pyama86/incident-dashboard/domain/repository"
)

// StatsAggregator は実行中カウンタを保持する。
// ストリームのイベントで増減し、統計 API のスナップショットで上書きされる
type StatsAggregator struct {
	ctx        context.Context
	loop       *Dispatcher
	repository repository.StatisticsRepository
	counters   entity.Counters
	allTime    int
}

func NewStatsAggregator(ctx context.Context, loop *Dispatcher, repo repository.StatisticsRepository) *StatsAggregator {
	return &StatsAggregator{ctx: ctx, loop: loop, repository: repo}
}

func (s *StatsAggregator) Counters() entity.Counters { return s.counters }

// AllTimeTotal is the all-time total from the last statistics snapshot.
func (s *StatsAggregator) AllTimeTotal() int { return s.allTime }

func (s *StatsAggregator) StartExecution(total int) {
	if total < 0 {
		total = 0
	}
	s.counters.Processing = total
}

func (s *StatsAggregator) Resolved() {
	s.counters.Success++
	s.counters.FinishOne()
}

func (s *StatsAggregator) Skipped() {
	s.counters.Skipped++
	s.counters.FinishOne()
}

func (s *StatsAggregator) Failed() {
	s.counters.Failed++
	s.counters.FinishOne()
}

func (s *StatsAggregator) CompleteExecution() {
	s.counters.Processing = 0
}

// Load fetches the statistics snapshot off the loop and applies it.
func (s *StatsAggregator) Load() {
	s.loop.Go(func() {
		stats, err := s.repository.Statistics(s.ctx)
		s.loop.Post(func() {
			if err != nil {
				slog.Warn("Statistics temporarily unavailable", slog.Any("err", err))
				return
			}
			s.Apply(stats)
		})
	})
}

// Apply overwrites the counters with today's totals. Processing is left alone.
func (s *StatsAggregator) Apply(stats *entity.Statistics) {
	if stats == nil {
		return
	}
	if stats.Today != nil {
		s.counters.Success = stats.Today.Success
		s.counters.Skipped = stats.Today.Skipped
		s.counters.Failed = stats.Today.Failed
	}
	if stats.AllTime != nil {
		s.allTime = stats.AllTime.Total
	}
}
