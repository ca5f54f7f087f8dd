package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pyama86/incident-dashboard/domain/entity"
)

var ErrUnexpectedStatus = errors.New("unexpected status")

// APIRepository はバックエンドの HTTP API を叩く
type APIRepository struct {
	baseURL string
	client  *http.Client
}

func NewAPIRepository(baseURL string, timeout time.Duration) *APIRepository {
	return &APIRepository{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

func (r *APIRepository) Health(ctx context.Context) (*entity.HealthReport, error) {
	var report entity.HealthReport
	if err := r.getJSON(ctx, "/api/health", nil, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *APIRepository) History(ctx context.Context, limit int) ([]entity.HistoryRecord, error) {
	records := []entity.HistoryRecord{}
	if err := r.getJSON(ctx, "/api/history", limitQuery(limit), &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (r *APIRepository) Statistics(ctx context.Context) (*entity.Statistics, error) {
	var stats entity.Statistics
	if err := r.getJSON(ctx, "/api/statistics", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *APIRepository) ExecutionLogs(ctx context.Context, limit int) ([]entity.ExecutionLog, error) {
	logs := []entity.ExecutionLog{}
	if err := r.getJSON(ctx, "/api/logs", limitQuery(limit), &logs); err != nil {
		return nil, err
	}
	return logs, nil
}

func limitQuery(limit int) url.Values {
	return url.Values{"limit": []string{strconv.Itoa(limit)}}
}

func (r *APIRepository) getJSON(ctx context.Context, path string, query url.Values, v any) error {
	endpoint := r.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to build request %s: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("GET %s: %w: HTTP %d %s", path, ErrUnexpectedStatus, resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}
