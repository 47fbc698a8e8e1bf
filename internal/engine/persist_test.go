package engine

import (
	"context"
	"errors"
	"testing"
	"time"
)

func testGate(repo *fakeRepo) *persistGate {
	g := &persistGate{repo: repo, quiet: 15 * time.Second}
	g.seed(defaultState().Color)
	return g
}

func TestPersistGate_QuietPeriodBoundary(t *testing.T) {
	repo := &fakeRepo{}
	g := testGate(repo)

	state := defaultState()
	state.Color.Hue = 90
	g.markColourChange(engineEpoch)

	// Elapsed time equal to the quiet period is not yet quiet enough.
	saved, err := g.maybeSave(context.Background(), engineEpoch.Add(15*time.Second), state)
	if err != nil {
		t.Fatalf("maybeSave: %v", err)
	}
	if saved {
		t.Error("saved at the quiet period boundary")
	}

	saved, err = g.maybeSave(context.Background(), engineEpoch.Add(15*time.Second+time.Millisecond), state)
	if err != nil {
		t.Fatalf("maybeSave: %v", err)
	}
	if !saved {
		t.Error("expected save just past the quiet period")
	}
	if len(repo.saves) != 1 || repo.saves[0].Color.Hue != 90 {
		t.Errorf("saves = %+v", repo.saves)
	}
	if g.pending() {
		t.Error("gate should settle after saving")
	}
}

func TestPersistGate_UnchangedColourSettlesWithoutWrite(t *testing.T) {
	repo := &fakeRepo{}
	g := testGate(repo)

	// The colour wandered and came back to what is already on disk.
	g.markColourChange(engineEpoch)

	saved, err := g.maybeSave(context.Background(), engineEpoch.Add(time.Minute), defaultState())
	if err != nil {
		t.Fatalf("maybeSave: %v", err)
	}
	if saved {
		t.Error("no write expected for an unchanged colour")
	}
	if len(repo.saves) != 0 {
		t.Errorf("repository touched: %+v", repo.saves)
	}
	if g.pending() {
		t.Error("gate should settle")
	}
}

func TestPersistGate_CleanGateNeverSaves(t *testing.T) {
	repo := &fakeRepo{}
	g := testGate(repo)

	state := defaultState()
	state.Color.Hue = 90

	saved, err := g.maybeSave(context.Background(), engineEpoch.Add(time.Hour), state)
	if err != nil {
		t.Fatalf("maybeSave: %v", err)
	}
	if saved || len(repo.saves) != 0 {
		t.Error("gate saved without a marked colour change")
	}
}

func TestPersistGate_FailedSaveRetries(t *testing.T) {
	repo := &fakeRepo{err: errors.New("disk full")}
	g := testGate(repo)

	state := defaultState()
	state.Color.Hue = 90
	g.markColourChange(engineEpoch)

	saved, err := g.maybeSave(context.Background(), engineEpoch.Add(time.Minute), state)
	if err == nil || saved {
		t.Fatalf("maybeSave = (%v, %v), want failure", saved, err)
	}
	if !g.pending() {
		t.Error("gate must stay dirty after a failed save")
	}

	repo.err = nil
	saved, err = g.maybeSave(context.Background(), engineEpoch.Add(2*time.Minute), state)
	if err != nil || !saved {
		t.Fatalf("maybeSave = (%v, %v), want retry success", saved, err)
	}
	if len(repo.saves) != 1 {
		t.Errorf("expected 1 save, got %d", len(repo.saves))
	}
}

func TestPersistGate_SaveNowSettlesDebounce(t *testing.T) {
	repo := &fakeRepo{}
	g := testGate(repo)

	state := defaultState()
	state.Color.Hue = 90
	g.markColourChange(engineEpoch)

	// An immediate save (power or effect change) also covers the
	// pending colour.
	if err := g.saveNow(context.Background(), state); err != nil {
		t.Fatalf("saveNow: %v", err)
	}
	if g.pending() {
		t.Error("saveNow should settle the gate")
	}

	saved, err := g.maybeSave(context.Background(), engineEpoch.Add(time.Minute), state)
	if err != nil {
		t.Fatalf("maybeSave: %v", err)
	}
	if saved || len(repo.saves) != 1 {
		t.Errorf("expected no further writes, saves = %d", len(repo.saves))
	}
}

func TestPersistGate_NilRepository(t *testing.T) {
	g := &persistGate{quiet: 15 * time.Second}
	g.seed(defaultState().Color)

	state := defaultState()
	state.Color.Hue = 90
	g.markColourChange(engineEpoch)

	// Without storage the gate still settles so it does not spin.
	saved, err := g.maybeSave(context.Background(), engineEpoch.Add(time.Minute), state)
	if err != nil {
		t.Fatalf("maybeSave: %v", err)
	}
	if !saved {
		t.Error("expected the gate to settle")
	}
	if g.pending() {
		t.Error("gate should be clean")
	}
}
