package main

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/JaimeStill/iris/internal/detections"
	"github.com/JaimeStill/iris/pkg/pagination"
)

type mockDetections struct {
	detections.System
	total        int
	inFlight     atomic.Int32
	peak         atomic.Int32
	regenerateFn func(id string) error
}

func (m *mockDetections) List(_ context.Context, page pagination.PageRequest, _ detections.Filters) (*pagination.PageResult[detections.Detection], error) {
	var data []detections.Detection
	start := (page.Page - 1) * page.PageSize
	for i := start; i < min(start+page.PageSize, m.total); i++ {
		data = append(data, detections.Detection{ID: detections.NewID()})
	}
	result := pagination.NewPageResult(data, m.total, page.Page, page.PageSize)
	return &result, nil
}

func (m *mockDetections) Regenerate(_ context.Context, id string) (*detections.Detection, error) {
	n := m.inFlight.Add(1)
	defer m.inFlight.Add(-1)
	for {
		p := m.peak.Load()
		if n <= p || m.peak.CompareAndSwap(p, n) {
			break
		}
	}
	if err := m.regenerateFn(id); err != nil {
		return nil, err
	}
	return &detections.Detection{ID: id}, nil
}

func TestDetectionIDs(t *testing.T) {
	sys := &mockDetections{total: 7}

	ids, err := detectionIDs(context.Background(), sys, pagination.Config{DefaultPageSize: 3, MaxPageSize: 3})
	if err != nil {
		t.Fatalf("detectionIDs() error = %v", err)
	}
	if len(ids) != 7 {
		t.Errorf("len(ids) = %d, want 7", len(ids))
	}
}

func TestRegenerate(t *testing.T) {
	errRender := errors.New("render failed")
	sys := &mockDetections{
		regenerateFn: func(id string) error {
			if id == "DTBAD00001" {
				return errRender
			}
			return nil
		},
	}

	ids := []string{"DT00000001", "DTBAD00001", "DT00000002", "DT00000003", "DT00000004"}
	s := regenerate(context.Background(), sys, ids, 2)

	if s.succeeded != 4 {
		t.Errorf("succeeded = %d, want 4", s.succeeded)
	}
	if len(s.failed) != 1 || s.failed[0].id != "DTBAD00001" || !errors.Is(s.failed[0].err, errRender) {
		t.Errorf("failed = %+v", s.failed)
	}
	if p := sys.peak.Load(); p > 2 {
		t.Errorf("peak concurrency = %d, want <= 2", p)
	}
}

func TestRegenerateCanceled(t *testing.T) {
	sys := &mockDetections{regenerateFn: func(string) error { return nil }}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := regenerate(ctx, sys, []string{"DT00000001", "DT00000002"}, 1)
	if s.succeeded != 0 || len(s.failed) != 2 {
		t.Errorf("succeeded = %d, failed = %d", s.succeeded, len(s.failed))
	}
}
