package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/tbhone/folies-planning/internal/schedule/domain"
	"github.com/tbhone/folies-planning/internal/schedule/storage"
)

type fakeStore struct {
	mu             sync.Mutex
	performers     map[string]storage.PerformerRecord
	availabilities map[string]storage.AvailabilityRecord
	assignments    map[string]storage.AssignmentRecord
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		performers:     make(map[string]storage.PerformerRecord),
		availabilities: make(map[string]storage.AvailabilityRecord),
		assignments:    make(map[string]storage.AssignmentRecord),
	}
}

func dateKey(date time.Time) string {
	return date.UTC().Format("2006-01-02")
}

func (f *fakeStore) PutPerformer(_ context.Context, record storage.PerformerRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	record.Username = strings.ToLower(strings.TrimSpace(record.Username))
	record.Email = strings.ToLower(strings.TrimSpace(record.Email))
	for _, existing := range f.performers {
		if existing.ID == record.ID {
			continue
		}
		if existing.Username == record.Username || existing.Email == record.Email {
			return storage.ErrConflict
		}
	}
	f.performers[record.ID] = record
	return nil
}

func (f *fakeStore) GetPerformerByID(_ context.Context, performerID string) (storage.PerformerRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	record, ok := f.performers[performerID]
	if !ok {
		return storage.PerformerRecord{}, storage.ErrNotFound
	}
	return record, nil
}

func (f *fakeStore) GetPerformerByUsername(_ context.Context, username string) (storage.PerformerRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	username = strings.ToLower(strings.TrimSpace(username))
	for _, record := range f.performers {
		if record.Username == username {
			return record, nil
		}
	}
	return storage.PerformerRecord{}, storage.ErrNotFound
}

func (f *fakeStore) ListPerformers(_ context.Context) ([]storage.PerformerRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	records := make([]storage.PerformerRecord, 0, len(f.performers))
	for _, record := range f.performers {
		records = append(records, record)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].StageName < records[j].StageName })
	return records, nil
}

func (f *fakeStore) DeletePerformer(_ context.Context, performerID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.performers[performerID]; !ok {
		return storage.ErrNotFound
	}
	delete(f.performers, performerID)
	for key, record := range f.availabilities {
		if record.PerformerID == performerID {
			delete(f.availabilities, key)
		}
	}
	for key, record := range f.assignments {
		if record.PerformerID == performerID {
			delete(f.assignments, key)
		}
	}
	return nil
}

func (f *fakeStore) UpsertAvailability(_ context.Context, record storage.AvailabilityRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.availabilities[record.PerformerID+"|"+dateKey(record.Date)] = record
	return nil
}

func (f *fakeStore) GetAvailability(_ context.Context, performerID string, date time.Time) (storage.AvailabilityRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	record, ok := f.availabilities[performerID+"|"+dateKey(date)]
	if !ok {
		return storage.AvailabilityRecord{}, storage.ErrNotFound
	}
	return record, nil
}

func (f *fakeStore) ListAvailabilitiesByDate(_ context.Context, date time.Time) ([]storage.AvailabilityRecord, error) {
	return f.listAvailabilities(func(record storage.AvailabilityRecord) bool {
		return dateKey(record.Date) == dateKey(date)
	})
}

func (f *fakeStore) ListAvailabilitiesByDateRange(_ context.Context, from time.Time, to time.Time) ([]storage.AvailabilityRecord, error) {
	return f.listAvailabilities(func(record storage.AvailabilityRecord) bool {
		return !record.Date.Before(from) && !record.Date.After(to)
	})
}

func (f *fakeStore) ListAvailabilitiesByPerformerRange(_ context.Context, performerID string, from time.Time, to time.Time) ([]storage.AvailabilityRecord, error) {
	return f.listAvailabilities(func(record storage.AvailabilityRecord) bool {
		return record.PerformerID == performerID && !record.Date.Before(from) && !record.Date.After(to)
	})
}

func (f *fakeStore) listAvailabilities(match func(storage.AvailabilityRecord) bool) ([]storage.AvailabilityRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var records []storage.AvailabilityRecord
	for _, record := range f.availabilities {
		if match(record) {
			records = append(records, record)
		}
	}
	sort.Slice(records, func(i, j int) bool {
		if !records[i].Date.Equal(records[j].Date) {
			return records[i].Date.Before(records[j].Date)
		}
		return records[i].PerformerID < records[j].PerformerID
	})
	return records, nil
}

func (f *fakeStore) CreateAssignment(_ context.Context, record storage.AssignmentRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := dateKey(record.Date) + "|" + record.Slot
	if _, ok := f.assignments[key]; ok {
		return storage.ErrConflict
	}
	for _, existing := range f.assignments {
		if dateKey(existing.Date) != dateKey(record.Date) {
			continue
		}
		if existing.Slot == "complete" || record.Slot == "complete" {
			return storage.ErrConflict
		}
	}
	f.assignments[key] = record
	return nil
}

func (f *fakeStore) GetAssignment(_ context.Context, date time.Time, slot string) (storage.AssignmentRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	record, ok := f.assignments[dateKey(date)+"|"+slot]
	if !ok {
		return storage.AssignmentRecord{}, storage.ErrNotFound
	}
	return record, nil
}

func (f *fakeStore) ListAssignmentsByDate(_ context.Context, date time.Time) ([]storage.AssignmentRecord, error) {
	return f.listAssignments(func(record storage.AssignmentRecord) bool {
		return dateKey(record.Date) == dateKey(date)
	})
}

func (f *fakeStore) ListAssignmentsByDateRange(_ context.Context, from time.Time, to time.Time) ([]storage.AssignmentRecord, error) {
	return f.listAssignments(func(record storage.AssignmentRecord) bool {
		return !record.Date.Before(from) && !record.Date.After(to)
	})
}

func (f *fakeStore) ListAssignmentsByPerformerRange(_ context.Context, performerID string, from time.Time, to time.Time) ([]storage.AssignmentRecord, error) {
	return f.listAssignments(func(record storage.AssignmentRecord) bool {
		return record.PerformerID == performerID && !record.Date.Before(from) && !record.Date.After(to)
	})
}

func (f *fakeStore) ListAssignmentsByPerformerAndDate(_ context.Context, performerID string, date time.Time) ([]storage.AssignmentRecord, error) {
	return f.listAssignments(func(record storage.AssignmentRecord) bool {
		return record.PerformerID == performerID && dateKey(record.Date) == dateKey(date)
	})
}

func (f *fakeStore) DeleteAssignment(_ context.Context, date time.Time, slot string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := dateKey(date) + "|" + slot
	if _, ok := f.assignments[key]; !ok {
		return storage.ErrNotFound
	}
	delete(f.assignments, key)
	return nil
}

func (f *fakeStore) ListUnpricedAssignments(_ context.Context) ([]storage.AssignmentRecord, error) {
	return f.listAssignments(func(record storage.AssignmentRecord) bool {
		return record.Fee == 0
	})
}

func (f *fakeStore) UpdateAssignmentFee(_ context.Context, assignmentID string, fee int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for key, record := range f.assignments {
		if record.ID == assignmentID {
			record.Fee = fee
			f.assignments[key] = record
			return nil
		}
	}
	return storage.ErrNotFound
}

func (f *fakeStore) listAssignments(match func(storage.AssignmentRecord) bool) ([]storage.AssignmentRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var records []storage.AssignmentRecord
	for _, record := range f.assignments {
		if match(record) {
			records = append(records, record)
		}
	}
	sort.Slice(records, func(i, j int) bool {
		if !records[i].Date.Equal(records[j].Date) {
			return records[i].Date.Before(records[j].Date)
		}
		return records[i].Slot < records[j].Slot
	})
	return records, nil
}

func (f *fakeStore) Close() error { return nil }

type recordingNotifier struct {
	mu          sync.Mutex
	assignments []domain.Assignment
}

func (r *recordingNotifier) NotifyAssignment(_ context.Context, _ domain.Performer, assignment domain.Assignment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.assignments = append(r.assignments, assignment)
	return nil
}

// testClock pins today to Monday 2026-02-02.
var testToday = time.Date(2026, time.February, 2, 12, 0, 0, 0, time.UTC)

func newTestService(store storage.Store, notifier Notifier) *Service {
	svc := New(store, notifier)
	svc.clock = func() time.Time { return testToday }
	counter := 0
	svc.idGenerator = func() (string, error) {
		counter++
		return fmt.Sprintf("id-%03d", counter), nil
	}
	return svc
}

func seedActivePerformer(t *testing.T, store *fakeStore, id string, username string) {
	t.Helper()
	seedPerformerWithStatus(t, store, id, username, "active")
}

func seedPerformerWithStatus(t *testing.T, store *fakeStore, id string, username string, status string) {
	t.Helper()
	err := store.PutPerformer(context.Background(), storage.PerformerRecord{
		ID:           id,
		Username:     username,
		Email:        username + "@example.com",
		StageName:    "DJ " + username,
		Status:       status,
		PasswordHash: "hash",
		CreatedAt:    testToday,
		UpdatedAt:    testToday,
	})
	if err != nil {
		t.Fatalf("PutPerformer() error = %v", err)
	}
}

func storageUnwilling(performerID string, date time.Time) storage.AvailabilityRecord {
	return storage.AvailabilityRecord{
		PerformerID: performerID,
		Date:        date,
		Willing:     false,
		CreatedAt:   testToday,
		UpdatedAt:   testToday,
	}
}

func seedWilling(t *testing.T, store *fakeStore, performerID string, date time.Time, slot string) {
	t.Helper()
	err := store.UpsertAvailability(context.Background(), storage.AvailabilityRecord{
		PerformerID: performerID,
		Date:        date,
		Willing:     true,
		Slot:        slot,
		CreatedAt:   testToday,
		UpdatedAt:   testToday,
	})
	if err != nil {
		t.Fatalf("UpsertAvailability() error = %v", err)
	}
}
