// Package report builds monthly booking reports for the coordinator.
package report

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/tbhone/folies-planning/internal/schedule/domain"
	"github.com/tbhone/folies-planning/internal/schedule/storage"
)

// Row is one booked night in a monthly report.
type Row struct {
	Date      time.Time
	Slot      domain.Slot
	StageName string
	Fee       int
	Notes     string
}

// Report is one month of bookings, ascending by date then slot.
type Report struct {
	Year      int
	Month     time.Month
	Rows      []Row
	TotalFees int
}

// Source is the minimal persistence surface a report needs.
type Source interface {
	ListAssignmentsByDateRange(ctx context.Context, from time.Time, to time.Time) ([]storage.AssignmentRecord, error)
	GetPerformerByID(ctx context.Context, performerID string) (storage.PerformerRecord, error)
}

// Build assembles the report for one month.
func Build(ctx context.Context, store Source, year int, month time.Month) (Report, error) {
	if store == nil {
		return Report{}, fmt.Errorf("storage is required")
	}
	if month < time.January || month > time.December {
		return Report{}, fmt.Errorf("month out of range")
	}

	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, -1)
	assignments, err := store.ListAssignmentsByDateRange(ctx, from, to)
	if err != nil {
		return Report{}, fmt.Errorf("list assignments: %w", err)
	}

	report := Report{Year: year, Month: month}
	names := make(map[string]string)
	for _, assignment := range assignments {
		name, ok := names[assignment.PerformerID]
		if !ok {
			performer, getErr := store.GetPerformerByID(ctx, assignment.PerformerID)
			switch {
			case getErr == nil:
				name = performer.StageName
			case errors.Is(getErr, storage.ErrNotFound):
				name = assignment.PerformerID
			default:
				return Report{}, fmt.Errorf("load performer %s: %w", assignment.PerformerID, getErr)
			}
			names[assignment.PerformerID] = name
		}

		report.Rows = append(report.Rows, Row{
			Date:      assignment.Date,
			Slot:      domain.Slot(assignment.Slot),
			StageName: name,
			Fee:       assignment.Fee,
			Notes:     assignment.Notes,
		})
		report.TotalFees += assignment.Fee
	}
	return report, nil
}

// WriteCSV renders the report as CSV with a header row.
func (r Report) WriteCSV(w io.Writer) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"date", "slot", "performer", "fee", "notes"}); err != nil {
		return fmt.Errorf("write report header: %w", err)
	}
	for _, row := range r.Rows {
		record := []string{
			domain.FormatDate(row.Date),
			string(row.Slot),
			row.StageName,
			strconv.Itoa(row.Fee),
			row.Notes,
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write report row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}
