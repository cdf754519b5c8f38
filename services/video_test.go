package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lac-hong-legacy/engage_api/shared"
)

func TestVideoRunFinishesOnce(t *testing.T) {
	ctx := context.Background()
	clk := newManualClock()
	videos := NewVideoRunService(newTestStores(t).VideoRuns(), newTestCatalog(t), clk)

	run, err := videos.StartRun(ctx, "p1", "s1", "unit-2")
	if err != nil {
		t.Fatalf("StartRun: %v", err)
	}
	if run.SessionID == nil || *run.SessionID != "s1" {
		t.Fatalf("run session = %v", run.SessionID)
	}

	clk.Advance(3 * time.Minute)
	finished, updated, err := videos.FinishRun(ctx, "p1", run.ID, map[string]interface{}{"watched_seconds": 170, "seeks": 2})
	if err != nil || !updated {
		t.Fatalf("FinishRun = %v, %v", updated, err)
	}
	if finished.EndedAt == nil || len(finished.Metrics) == 0 {
		t.Fatalf("finished run = %+v", finished)
	}

	if _, updated, err := videos.FinishRun(ctx, "p1", run.ID, map[string]interface{}{"seeks": 9}); err != nil || updated {
		t.Fatalf("second FinishRun = %v, %v", updated, err)
	}

	if _, _, err := videos.FinishRun(ctx, "p2", run.ID, nil); !errors.Is(err, shared.ErrNotFound) {
		t.Fatalf("foreign run err = %v", err)
	}

	runs, err := videos.ListRuns(ctx, "p1")
	if err != nil || len(runs) != 1 {
		t.Fatalf("ListRuns = %d, %v", len(runs), err)
	}
}

func TestVideoRunUnknownUnit(t *testing.T) {
	videos := NewVideoRunService(newTestStores(t).VideoRuns(), newTestCatalog(t), newManualClock())
	if _, err := videos.StartRun(context.Background(), "p1", "", "unit-7"); !errors.Is(err, ErrUnknownUnit) {
		t.Fatalf("err = %v", err)
	}
}
