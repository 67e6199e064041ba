package service

import (
	"context"
	"fmt"
	"time"

	"github.com/tbhone/folies-planning/internal/schedule/domain"
)

// Reminder is one booking reminder due today.
type Reminder struct {
	Assignment domain.Assignment
	Performer  domain.Performer
	LeadDays   int
	// DedupeKey keeps repeated daily runs from sending the same reminder
	// twice.
	DedupeKey string
}

// AdminAlert is one understaffed show night inside the alert window.
type AdminAlert struct {
	Date      time.Time
	Occupancy domain.Occupancy
	Tally     domain.SlotTally
	DedupeKey string
}

// DueReminders returns the booking reminders due today at the standard lead
// times. Only show nights produce reminders.
func (s *Service) DueReminders(ctx context.Context) ([]Reminder, error) {
	today := domain.DateOnly(s.clock())
	horizon := today.AddDate(0, 0, domain.ReminderLeadLong)

	records, err := s.store.ListAssignmentsByDateRange(ctx, today, horizon)
	if err != nil {
		return nil, fmt.Errorf("list upcoming assignments: %w", err)
	}

	var reminders []Reminder
	for _, assignment := range assignmentsFromRecords(records) {
		for _, leadDays := range []int{domain.ReminderLeadLong, domain.ReminderLeadShort} {
			if !domain.ReminderDue(assignment.Date, today, leadDays) {
				continue
			}
			performer, err := s.GetPerformer(ctx, assignment.PerformerID)
			if err != nil {
				return nil, err
			}
			reminders = append(reminders, Reminder{
				Assignment: assignment,
				Performer:  performer,
				LeadDays:   leadDays,
				DedupeKey:  fmt.Sprintf("reminder:%s:%d", assignment.ID, leadDays),
			})
		}
	}
	return reminders, nil
}

// AdminAlerts returns the show nights inside the forward-looking window that
// cannot currently be staffed.
func (s *Service) AdminAlerts(ctx context.Context) ([]AdminAlert, error) {
	today := domain.DateOnly(s.clock())
	nights := domain.AlertWindow(today, domain.AdminAlertWindow)
	if len(nights) == 0 {
		return nil, nil
	}

	availabilities, assignments, err := s.loadRange(ctx, nights[0], nights[len(nights)-1])
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

	var alerts []AdminAlert
	for _, night := range nights {
		key := domain.FormatDate(night)
		occ := domain.OccupancyOf(assignmentByDate[key])
		tally := domain.TallyWilling(availabilityByDate[key])
		if !domain.AdminAlertDue(occ, tally) {
			continue
		}
		alerts = append(alerts, AdminAlert{
			Date:      night,
			Occupancy: occ,
			Tally:     tally,
			DedupeKey: "admin-alert:" + key,
		})
	}
	return alerts, nil
}
