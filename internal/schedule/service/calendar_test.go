package service

import (
	"context"
	"testing"
	"time"

	apperrors "github.com/tbhone/folies-planning/internal/platform/errors"
	"github.com/tbhone/folies-planning/internal/schedule/domain"
)

func TestPerformerMonthStatuses(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	svc := newTestService(store, nil)
	ctx := context.Background()
	seedActivePerformer(t, store, "perf-a", "ana")
	seedWilling(t, store, "perf-a", friday, "warmup")
	seedWilling(t, store, "perf-a", time.Date(2026, time.March, 13, 0, 0, 0, 0, time.UTC), "peaktime")
	if _, err := svc.Assign(ctx, AssignInput{PerformerID: "perf-a", Date: "2026-03-06"}); err != nil {
		t.Fatalf("Assign() error = %v", err)
	}

	days, err := svc.PerformerMonth(ctx, "perf-a", 2026, time.March)
	if err != nil {
		t.Fatalf("PerformerMonth() error = %v", err)
	}
	if len(days) != 31 {
		t.Fatalf("len(days) = %d, want 31", len(days))
	}

	byDate := make(map[string]PerformerDay)
	for _, day := range days {
		byDate[domain.FormatDate(day.Date)] = day
	}
	if got := byDate["2026-03-06"]; got.Status != domain.DayStatusAssigned || got.BookedSlot != domain.SlotWarmup {
		t.Errorf("2026-03-06 = (%q, %q), want (assigned, warmup)", got.Status, got.BookedSlot)
	}
	if got := byDate["2026-03-13"]; got.Status != domain.DayStatusAvailable || got.DeclaredSlot != domain.SlotPeaktime {
		t.Errorf("2026-03-13 = (%q, %q), want (available, peaktime)", got.Status, got.DeclaredSlot)
	}
	if got := byDate["2026-03-20"]; got.Status != domain.DayStatusUnavailable {
		t.Errorf("2026-03-20 status = %q, want unavailable", got.Status)
	}
}

func TestPerformerMonthMarksPastDays(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	svc := newTestService(store, nil)
	seedActivePerformer(t, store, "perf-a", "ana")

	// Test clock pins today at 2026-02-02.
	days, err := svc.PerformerMonth(context.Background(), "perf-a", 2026, time.February)
	if err != nil {
		t.Fatalf("PerformerMonth() error = %v", err)
	}
	if days[0].Status != domain.DayStatusPast {
		t.Errorf("2026-02-01 status = %q, want past", days[0].Status)
	}
	if days[1].Status == domain.DayStatusPast {
		t.Errorf("2026-02-02 status = %q, today must not be past", days[1].Status)
	}
}

func TestAdminMonthGradesOpenDays(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	svc := newTestService(store, nil)
	ctx := context.Background()
	seedActivePerformer(t, store, "perf-a", "ana")
	seedActivePerformer(t, store, "perf-b", "bee")
	seedWilling(t, store, "perf-a", friday, "warmup")
	seedWilling(t, store, "perf-b", friday, "complete")
	seedWilling(t, store, "perf-a", time.Date(2026, time.March, 13, 0, 0, 0, 0, time.UTC), "warmup")
	if _, err := svc.Assign(ctx, AssignInput{PerformerID: "perf-a", Date: "2026-03-05"}); err == nil {
		t.Fatal("Assign() without declaration must fail")
	}
	seedWilling(t, store, "perf-a", thursday, "complete")
	if _, err := svc.Assign(ctx, AssignInput{PerformerID: "perf-a", Date: "2026-03-05"}); err != nil {
		t.Fatalf("Assign() error = %v", err)
	}

	days, err := svc.AdminMonth(ctx, 2026, time.March)
	if err != nil {
		t.Fatalf("AdminMonth() error = %v", err)
	}
	byDate := make(map[string]AdminDay)
	for _, day := range days {
		byDate[domain.FormatDate(day.Date)] = day
	}

	if got := byDate["2026-03-05"]; got.Status != domain.AdminDayAssigned || len(got.Assignments) != 1 {
		t.Errorf("2026-03-05 = (%q, %d assignments), want (assigned, 1)", got.Status, len(got.Assignments))
	}
	if got := byDate["2026-03-06"]; got.Status != domain.AdminDayMultiple {
		t.Errorf("2026-03-06 status = %q, want multiple", got.Status)
	}
	if got := byDate["2026-03-13"]; got.Status != domain.AdminDaySingle {
		t.Errorf("2026-03-13 status = %q, want single", got.Status)
	}
	if got := byDate["2026-03-20"]; got.Status != domain.AdminDayNone {
		t.Errorf("2026-03-20 status = %q, want none", got.Status)
	}
	// Complete willingness counts toward both half tallies.
	if got := byDate["2026-03-06"]; got.Tally.Warmup != 2 || got.Tally.Peaktime != 1 {
		t.Errorf("2026-03-06 tally = %+v, want warmup 2 peaktime 1", got.Tally)
	}
}

func TestMonthSummary(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	svc := newTestService(store, nil)
	ctx := context.Background()
	seedActivePerformer(t, store, "perf-a", "ana")
	seedActivePerformer(t, store, "perf-b", "bee")
	seedWilling(t, store, "perf-a", thursday, "complete")
	seedWilling(t, store, "perf-a", friday, "warmup")
	seedWilling(t, store, "perf-b", friday, "peaktime")
	if _, err := svc.Assign(ctx, AssignInput{PerformerID: "perf-a", Date: "2026-03-05"}); err != nil {
		t.Fatalf("Assign() error = %v", err)
	}

	summary, err := svc.MonthSummary(ctx, 2026, time.March)
	if err != nil {
		t.Fatalf("MonthSummary() error = %v", err)
	}
	if summary.AssignmentCount != 1 {
		t.Errorf("AssignmentCount = %d, want 1", summary.AssignmentCount)
	}
	if summary.TotalFees != 120 {
		t.Errorf("TotalFees = %d, want 120", summary.TotalFees)
	}
	// March 2026 has 13 show nights; one is booked.
	if summary.OpenShowNights != 12 {
		t.Errorf("OpenShowNights = %d, want 12", summary.OpenShowNights)
	}
	if len(summary.ConflictDates) != 1 || !summary.ConflictDates[0].Equal(friday) {
		t.Errorf("ConflictDates = %v, want [2026-03-06]", summary.ConflictDates)
	}
	if len(summary.PerformerCounts) != 1 {
		t.Fatalf("len(PerformerCounts) = %d, want 1", len(summary.PerformerCounts))
	}
	tally := summary.PerformerCounts[0]
	if tally.PerformerID != "perf-a" || tally.StageName != "DJ ana" || tally.AssignmentCount != 1 {
		t.Errorf("PerformerCounts[0] = %+v, want one booking for DJ ana", tally)
	}
}

func TestConflictsRange(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	svc := newTestService(store, nil)
	ctx := context.Background()
	seedActivePerformer(t, store, "perf-a", "ana")
	seedActivePerformer(t, store, "perf-b", "bee")
	seedWilling(t, store, "perf-a", friday, "warmup")
	seedWilling(t, store, "perf-b", friday, "complete")

	conflicts, err := svc.Conflicts(ctx, "2026-03-01", "2026-03-31")
	if err != nil {
		t.Fatalf("Conflicts() error = %v", err)
	}
	if len(conflicts) != 1 || !conflicts[0].Equal(friday) {
		t.Fatalf("conflicts = %v, want [2026-03-06]", conflicts)
	}

	// Booking the night clears the conflict.
	if _, err := svc.Assign(ctx, AssignInput{PerformerID: "perf-a", Date: "2026-03-06"}); err != nil {
		t.Fatalf("Assign() error = %v", err)
	}
	conflicts, err = svc.Conflicts(ctx, "2026-03-01", "2026-03-31")
	if err != nil {
		t.Fatalf("Conflicts() after booking error = %v", err)
	}
	if len(conflicts) != 0 {
		t.Errorf("conflicts = %v after booking, want none", conflicts)
	}

	if _, err := svc.Conflicts(ctx, "2026-03-31", "2026-03-01"); !apperrors.Is(err, apperrors.CodeValidation) {
		t.Errorf("Conflicts() inverted range error = %v, want VALIDATION", err)
	}
}

func TestDayDetailCandidates(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	svc := newTestService(store, nil)
	ctx := context.Background()
	seedActivePerformer(t, store, "perf-a", "ana")
	seedActivePerformer(t, store, "perf-b", "bee")
	seedActivePerformer(t, store, "perf-c", "cee")
	seedWilling(t, store, "perf-a", friday, "warmup")
	seedWilling(t, store, "perf-b", friday, "complete")
	seedWilling(t, store, "perf-c", friday, "warmup")
	if _, err := svc.Assign(ctx, AssignInput{PerformerID: "perf-a", Date: "2026-03-06"}); err != nil {
		t.Fatalf("Assign() error = %v", err)
	}

	detail, err := svc.DayDetail(ctx, "2026-03-06")
	if err != nil {
		t.Fatalf("DayDetail() error = %v", err)
	}
	if detail.Status != domain.AdminDayAssigned {
		t.Errorf("Status = %q, want assigned", detail.Status)
	}
	if len(detail.Assignments) != 1 {
		t.Errorf("len(Assignments) = %d, want 1", len(detail.Assignments))
	}
	// perf-a is booked, perf-c declared the taken warmup slot. Only perf-b
	// remains, downgraded onto the open peaktime half.
	if len(detail.Candidates) != 1 {
		t.Fatalf("Candidates = %+v, want exactly one", detail.Candidates)
	}
	if detail.Candidates[0].PerformerID != "perf-b" || detail.Candidates[0].ActualSlot != domain.SlotPeaktime {
		t.Errorf("candidate = %+v, want perf-b on peaktime", detail.Candidates[0])
	}
}
