package report

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/tbhone/folies-planning/internal/schedule/storage"
)

type stubSource struct {
	assignments []storage.AssignmentRecord
	performers  map[string]storage.PerformerRecord
}

func (s *stubSource) ListAssignmentsByDateRange(_ context.Context, from time.Time, to time.Time) ([]storage.AssignmentRecord, error) {
	var records []storage.AssignmentRecord
	for _, record := range s.assignments {
		if !record.Date.Before(from) && !record.Date.After(to) {
			records = append(records, record)
		}
	}
	return records, nil
}

func (s *stubSource) GetPerformerByID(_ context.Context, performerID string) (storage.PerformerRecord, error) {
	record, ok := s.performers[performerID]
	if !ok {
		return storage.PerformerRecord{}, storage.ErrNotFound
	}
	return record, nil
}

func TestBuildMonthlyReport(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.February, 26, 8, 0, 0, 0, time.UTC)
	source := &stubSource{
		assignments: []storage.AssignmentRecord{
			{
				ID: "a1", PerformerID: "perf-a", Slot: "complete", Fee: 120, Notes: "opening night",
				Date: time.Date(2026, time.March, 5, 0, 0, 0, 0, time.UTC), CreatedAt: now, UpdatedAt: now,
			},
			{
				ID: "a2", PerformerID: "perf-b", Slot: "warmup", Fee: 50,
				Date: time.Date(2026, time.March, 6, 0, 0, 0, 0, time.UTC), CreatedAt: now, UpdatedAt: now,
			},
			{
				ID: "a3", PerformerID: "perf-a", Slot: "peaktime", Fee: 200,
				Date: time.Date(2026, time.April, 3, 0, 0, 0, 0, time.UTC), CreatedAt: now, UpdatedAt: now,
			},
		},
		performers: map[string]storage.PerformerRecord{
			"perf-a": {ID: "perf-a", StageName: "DJ Nova"},
			"perf-b": {ID: "perf-b", StageName: "DJ Rex"},
		},
	}

	built, err := Build(context.Background(), source, 2026, time.March)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if len(built.Rows) != 2 {
		t.Fatalf("len(Rows) = %d, want 2 March bookings", len(built.Rows))
	}
	if built.Rows[0].StageName != "DJ Nova" || built.Rows[1].StageName != "DJ Rex" {
		t.Errorf("rows = %+v, want ascending by date", built.Rows)
	}
	if built.TotalFees != 170 {
		t.Errorf("TotalFees = %d, want 170", built.TotalFees)
	}
}

func TestBuildUnknownPerformerFallsBackToID(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.February, 26, 8, 0, 0, 0, time.UTC)
	source := &stubSource{
		assignments: []storage.AssignmentRecord{
			{
				ID: "a1", PerformerID: "ghost", Slot: "warmup", Fee: 50,
				Date: time.Date(2026, time.March, 6, 0, 0, 0, 0, time.UTC), CreatedAt: now, UpdatedAt: now,
			},
		},
		performers: map[string]storage.PerformerRecord{},
	}

	built, err := Build(context.Background(), source, 2026, time.March)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if built.Rows[0].StageName != "ghost" {
		t.Errorf("StageName = %q, want the raw performer id", built.Rows[0].StageName)
	}
}

func TestWriteCSV(t *testing.T) {
	t.Parallel()

	built := Report{
		Year:  2026,
		Month: time.March,
		Rows: []Row{
			{Date: time.Date(2026, time.March, 6, 0, 0, 0, 0, time.UTC), Slot: "warmup", StageName: "DJ Rex", Fee: 50, Notes: "early set"},
		},
		TotalFees: 50,
	}

	var out strings.Builder
	if err := built.WriteCSV(&out); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}
	got := out.String()
	if !strings.HasPrefix(got, "date,slot,performer,fee,notes\n") {
		t.Errorf("csv = %q, want header first", got)
	}
	if !strings.Contains(got, "2026-03-06,warmup,DJ Rex,50,early set") {
		t.Errorf("csv = %q, want the booking row", got)
	}
}
