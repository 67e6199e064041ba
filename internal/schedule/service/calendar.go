package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	apperrors "github.com/tbhone/folies-planning/internal/platform/errors"
	"github.com/tbhone/folies-planning/internal/schedule/domain"
)

// PerformerDay is one calendar day projected for a performer.
type PerformerDay struct {
	Date         time.Time
	Status       domain.DayStatus
	DeclaredSlot domain.Slot
	BookedSlot   domain.Slot
	Fee          int
	Notes        string
}

// AdminDay is one calendar day projected for the coordinator.
type AdminDay struct {
	Date        time.Time
	Status      domain.AdminDayStatus
	Assignments []domain.Assignment
	Tally       domain.SlotTally
}

// MonthSummary aggregates one month for the coordinator dashboard.
type MonthSummary struct {
	AssignmentCount int
	TotalFees       int
	OpenShowNights  int
	ConflictDates   []time.Time
	PerformerCounts []PerformerTally
}

// PerformerTally counts one performer's bookings within the summarized month.
type PerformerTally struct {
	PerformerID     string
	StageName       string
	AssignmentCount int
}

func monthRange(year int, month time.Month) (time.Time, time.Time, error) {
	if month < time.January || month > time.December {
		return time.Time{}, time.Time{}, apperrors.New(apperrors.CodeInvalidDate, "month out of range")
	}
	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, -1)
	return from, to, nil
}

// PerformerMonth projects one month of calendar days for a performer:
// assignments, declared willingness and past days.
func (s *Service) PerformerMonth(ctx context.Context, performerID string, year int, month time.Month) ([]PerformerDay, error) {
	from, to, err := monthRange(year, month)
	if err != nil {
		return nil, err
	}
	performer, err := s.GetPerformer(ctx, performerID)
	if err != nil {
		return nil, err
	}

	availabilityRecords, err := s.store.ListAvailabilitiesByPerformerRange(ctx, performer.ID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list availabilities: %w", err)
	}
	assignmentRecords, err := s.store.ListAssignmentsByPerformerRange(ctx, performer.ID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}

	availabilityByDate := make(map[string]domain.Availability)
	for _, availability := range availabilitiesFromRecords(availabilityRecords) {
		availabilityByDate[domain.FormatDate(availability.Date)] = availability
	}
	assignmentByDate := make(map[string]domain.Assignment)
	for _, assignment := range assignmentsFromRecords(assignmentRecords) {
		assignmentByDate[domain.FormatDate(assignment.Date)] = assignment
	}

	today := s.clock()
	var days []PerformerDay
	for date := from; !date.After(to); date = date.AddDate(0, 0, 1) {
		key := domain.FormatDate(date)
		availability, hasAvailability := availabilityByDate[key]
		assignment, hasAssignment := assignmentByDate[key]

		day := PerformerDay{
			Date:   date,
			Status: domain.PerformerDayStatus(date, today, hasAssignment, hasAvailability && availability.Willing),
		}
		if hasAvailability {
			day.DeclaredSlot = availability.Slot
			day.Notes = availability.Notes
		}
		if hasAssignment {
			day.BookedSlot = assignment.Slot
			day.Fee = assignment.Fee
		}
		days = append(days, day)
	}
	return days, nil
}

// AdminMonth projects one month of calendar days for the coordinator, grading
// open days by how many distinct performers are willing.
func (s *Service) AdminMonth(ctx context.Context, year int, month time.Month) ([]AdminDay, error) {
	from, to, err := monthRange(year, month)
	if err != nil {
		return nil, err
	}

	availabilities, assignments, err := s.loadRange(ctx, from, to)
	if err != nil {
		return nil, err
	}

	availabilityByDate := make(map[string][]domain.Availability)
	for _, availability := range availabilities {
		key := domain.FormatDate(availability.Date)
		availabilityByDate[key] = append(availabilityByDate[key], availability)
	}
	assignmentByDate := make(map[string][]domain.Assignment)
	for _, assignment := range assignments {
		key := domain.FormatDate(assignment.Date)
		assignmentByDate[key] = append(assignmentByDate[key], assignment)
	}

	today := s.clock()
	var days []AdminDay
	for date := from; !date.After(to); date = date.AddDate(0, 0, 1) {
		key := domain.FormatDate(date)
		dayAvailabilities := availabilityByDate[key]
		dayAssignments := assignmentByDate[key]

		willing := make(map[string]bool)
		for _, availability := range dayAvailabilities {
			if availability.Willing {
				willing[availability.PerformerID] = true
			}
		}

		days = append(days, AdminDay{
			Date:        date,
			Status:      domain.AdminDayStatusOf(date, today, len(dayAssignments), len(willing)),
			Assignments: dayAssignments,
			Tally:       domain.TallyWilling(dayAvailabilities),
		})
	}
	return days, nil
}

// MonthSummary aggregates bookings, fees, open show nights and conflicts for
// one month.
func (s *Service) MonthSummary(ctx context.Context, year int, month time.Month) (MonthSummary, error) {
	from, to, err := monthRange(year, month)
	if err != nil {
		return MonthSummary{}, err
	}

	availabilities, assignments, err := s.loadRange(ctx, from, to)
	if err != nil {
		return MonthSummary{}, err
	}

	summary := MonthSummary{
		AssignmentCount: len(assignments),
		ConflictDates:   domain.ConflictDates(availabilities, assignments),
	}
	assignedDates := make(map[string]bool)
	countByPerformer := make(map[string]int)
	for _, assignment := range assignments {
		summary.TotalFees += assignment.Fee
		assignedDates[domain.FormatDate(assignment.Date)] = true
		countByPerformer[assignment.PerformerID]++
	}

	if len(countByPerformer) > 0 {
		performers, err := s.ListPerformers(ctx)
		if err != nil {
			return MonthSummary{}, err
		}
		stageNames := make(map[string]string, len(performers))
		for _, performer := range performers {
			stageNames[performer.ID] = performer.StageName
		}
		for performerID, count := range countByPerformer {
			stageName := stageNames[performerID]
			if stageName == "" {
				stageName = performerID
			}
			summary.PerformerCounts = append(summary.PerformerCounts, PerformerTally{
				PerformerID:     performerID,
				StageName:       stageName,
				AssignmentCount: count,
			})
		}
		sort.Slice(summary.PerformerCounts, func(i, j int) bool {
			left, right := summary.PerformerCounts[i], summary.PerformerCounts[j]
			if left.AssignmentCount != right.AssignmentCount {
				return left.AssignmentCount > right.AssignmentCount
			}
			return left.StageName < right.StageName
		})
	}

	today := s.clock()
	for date := from; !date.After(to); date = date.AddDate(0, 0, 1) {
		if !domain.IsShowNight(date) || domain.IsPast(date, today) {
			continue
		}
		if !assignedDates[domain.FormatDate(date)] {
			summary.OpenShowNights++
		}
	}
	return summary, nil
}

// Conflicts lists the dates in [from, to] where several performers are
// willing and no booking exists yet, ascending.
func (s *Service) Conflicts(ctx context.Context, rawFrom string, rawTo string) ([]time.Time, error) {
	from, err := domain.ParseDate(rawFrom)
	if err != nil {
		return nil, err
	}
	to, err := domain.ParseDate(rawTo)
	if err != nil {
		return nil, err
	}
	if to.Before(from) {
		return nil, apperrors.New(apperrors.CodeValidation, "range end precedes range start")
	}

	availabilities, assignments, err := s.loadRange(ctx, from, to)
	if err != nil {
		return nil, err
	}
	return domain.ConflictDates(availabilities, assignments), nil
}

// DayDetail describes one night for the coordinator: bookings, declarations
// and the performers still bookable.
type DayDetail struct {
	Date           time.Time
	Status         domain.AdminDayStatus
	Assignments    []domain.Assignment
	Availabilities []domain.Availability
	Candidates     []domain.Candidate
}

// DayDetail loads the full picture of one night.
func (s *Service) DayDetail(ctx context.Context, rawDate string) (DayDetail, error) {
	date, err := domain.ParseDate(rawDate)
	if err != nil {
		return DayDetail{}, err
	}

	availabilityRecords, err := s.store.ListAvailabilitiesByDate(ctx, date)
	if err != nil {
		return DayDetail{}, fmt.Errorf("list availabilities: %w", err)
	}
	assignmentRecords, err := s.store.ListAssignmentsByDate(ctx, date)
	if err != nil {
		return DayDetail{}, fmt.Errorf("list assignments: %w", err)
	}

	availabilities := availabilitiesFromRecords(availabilityRecords)
	assignments := assignmentsFromRecords(assignmentRecords)

	willing := make(map[string]bool)
	for _, availability := range availabilities {
		if availability.Willing {
			willing[availability.PerformerID] = true
		}
	}

	return DayDetail{
		Date:           date,
		Status:         domain.AdminDayStatusOf(date, s.clock(), len(assignments), len(willing)),
		Assignments:    assignments,
		Availabilities: availabilities,
		Candidates:     domain.DayCandidates(availabilities, assignments),
	}, nil
}

func (s *Service) loadRange(ctx context.Context, from time.Time, to time.Time) ([]domain.Availability, []domain.Assignment, error) {
	availabilityRecords, err := s.store.ListAvailabilitiesByDateRange(ctx, from, to)
	if err != nil {
		return nil, nil, fmt.Errorf("list availabilities: %w", err)
	}
	assignmentRecords, err := s.store.ListAssignmentsByDateRange(ctx, from, to)
	if err != nil {
		return nil, nil, fmt.Errorf("list assignments: %w", err)
	}
	return availabilitiesFromRecords(availabilityRecords), assignmentsFromRecords(assignmentRecords), nil
}
