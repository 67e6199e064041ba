package httpapi

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	apperrors "github.com/tbhone/folies-planning/internal/platform/errors"
	"github.com/tbhone/folies-planning/internal/report"
	"github.com/tbhone/folies-planning/internal/schedule/domain"
	"github.com/tbhone/folies-planning/internal/schedule/service"
)

type performerView struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	StageName string `json:"stage_name"`
	Phone     string `json:"phone,omitempty"`
	Admin     bool   `json:"admin"`
	Status    string `json:"status"`
}

func viewOfPerformer(performer domain.Performer) performerView {
	return performerView{
		ID:        performer.ID,
		Username:  performer.Username,
		Email:     performer.Email,
		StageName: performer.StageName,
		Phone:     performer.Phone,
		Admin:     performer.Admin,
		Status:    string(performer.Status),
	}
}

type assignmentView struct {
	ID          string `json:"id"`
	PerformerID string `json:"performer_id"`
	Date        string `json:"date"`
	Slot        string `json:"slot"`
	Fee         int    `json:"fee"`
	Notes       string `json:"notes,omitempty"`
}

func viewOfAssignment(assignment domain.Assignment) assignmentView {
	return assignmentView{
		ID:          assignment.ID,
		PerformerID: assignment.PerformerID,
		Date:        domain.FormatDate(assignment.Date),
		Slot:        string(assignment.Slot),
		Fee:         assignment.Fee,
		Notes:       assignment.Notes,
	}
}

func decodeBody(r *http.Request, target any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil {
		return apperrors.New(apperrors.CodeValidation, "malformed request body")
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username  string `json:"username"`
		Email     string `json:"email"`
		StageName string `json:"stage_name"`
		Phone     string `json:"phone"`
		Password  string `json:"password"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, err)
		return
	}

	performer, err := s.schedule.RegisterPerformer(r.Context(), service.RegisterPerformerInput{
		Username:  body.Username,
		Email:     body.Email,
		StageName: body.StageName,
		Phone:     body.Phone,
		Password:  body.Password,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, viewOfPerformer(performer))
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, err)
		return
	}

	performer, err := s.schedule.Authenticate(r.Context(), body.Username, body.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	token, err := s.tokens.Issue(performer)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"token":     token,
		"performer": viewOfPerformer(performer),
	})
}

func (s *Server) handleSetAvailability(w http.ResponseWriter, r *http.Request) {
	session, _ := sessionFrom(r.Context())
	var body struct {
		Date    string `json:"date"`
		Willing bool   `json:"willing"`
		Slot    string `json:"slot"`
		Notes   string `json:"notes"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, err)
		return
	}

	availability, err := s.schedule.SetAvailability(r.Context(), service.SetAvailabilityInput{
		PerformerID: session.PerformerID,
		Date:        body.Date,
		Willing:     body.Willing,
		Slot:        body.Slot,
		Notes:       body.Notes,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"performer_id": availability.PerformerID,
		"date":         domain.FormatDate(availability.Date),
		"willing":      availability.Willing,
		"slot":         string(availability.Slot),
		"notes":        availability.Notes,
	})
}

func yearMonthFrom(r *http.Request) (int, time.Month, error) {
	year, err := strconv.Atoi(r.PathValue("year"))
	if err != nil || year < 2000 || year > 2200 {
		return 0, 0, apperrors.New(apperrors.CodeInvalidDate, "year out of range")
	}
	monthNumber, err := strconv.Atoi(r.PathValue("month"))
	if err != nil || monthNumber < 1 || monthNumber > 12 {
		return 0, 0, apperrors.New(apperrors.CodeInvalidDate, "month out of range")
	}
	return year, time.Month(monthNumber), nil
}

func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	session, _ := sessionFrom(r.Context())
	year, month, err := yearMonthFrom(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if r.URL.Query().Get("view") == "admin" {
		if !session.Admin {
			writeForbidden(w)
			return
		}
		days, adminErr := s.schedule.AdminMonth(r.Context(), year, month)
		if adminErr != nil {
			writeError(w, adminErr)
			return
		}
		writeJSON(w, http.StatusOK, viewOfAdminMonth(days))
		return
	}

	days, err := s.schedule.PerformerMonth(r.Context(), session.PerformerID, year, month)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOfPerformerMonth(days))
}

func viewOfPerformerMonth(days []service.PerformerDay) []map[string]any {
	views := make([]map[string]any, 0, len(days))
	for _, day := range days {
		view := map[string]any{
			"date":   domain.FormatDate(day.Date),
			"status": string(day.Status),
		}
		if day.DeclaredSlot != "" {
			view["declared_slot"] = string(day.DeclaredSlot)
		}
		if day.BookedSlot != "" {
			view["booked_slot"] = string(day.BookedSlot)
			view["fee"] = day.Fee
		}
		if day.Notes != "" {
			view["notes"] = day.Notes
		}
		views = append(views, view)
	}
	return views
}

func viewOfAdminMonth(days []service.AdminDay) []map[string]any {
	views := make([]map[string]any, 0, len(days))
	for _, day := range days {
		assignments := make([]assignmentView, 0, len(day.Assignments))
		for _, assignment := range day.Assignments {
			assignments = append(assignments, viewOfAssignment(assignment))
		}
		views = append(views, map[string]any{
			"date":        domain.FormatDate(day.Date),
			"status":      string(day.Status),
			"assignments": assignments,
			"tally": map[string]int{
				"warmup":   day.Tally.Warmup,
				"peaktime": day.Tally.Peaktime,
				"complete": day.Tally.Complete,
			},
		})
	}
	return views
}

func (s *Server) handleListPerformers(w http.ResponseWriter, r *http.Request) {
	performers, err := s.schedule.ListPerformers(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	views := make([]performerView, 0, len(performers))
	for _, performer := range performers {
		views = append(views, viewOfPerformer(performer))
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleCreatePerformer(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username  string `json:"username"`
		Email     string `json:"email"`
		StageName string `json:"stage_name"`
		Phone     string `json:"phone"`
		Password  string `json:"password"`
		Admin     bool   `json:"admin"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, err)
		return
	}

	performer, err := s.schedule.CreatePerformer(r.Context(), service.CreatePerformerInput{
		Username:  body.Username,
		Email:     body.Email,
		StageName: body.StageName,
		Phone:     body.Phone,
		Password:  body.Password,
		Admin:     body.Admin,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, viewOfPerformer(performer))
}

func (s *Server) handleActivatePerformer(w http.ResponseWriter, r *http.Request) {
	performer, err := s.schedule.ActivatePerformer(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOfPerformer(performer))
}

func (s *Server) handleDeactivatePerformer(w http.ResponseWriter, r *http.Request) {
	performer, err := s.schedule.DeactivatePerformer(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOfPerformer(performer))
}

func (s *Server) handleRemovePerformer(w http.ResponseWriter, r *http.Request) {
	if err := s.schedule.RemovePerformer(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleAssign(w http.ResponseWriter, r *http.Request) {
	session, _ := sessionFrom(r.Context())
	var body struct {
		PerformerID string `json:"performer_id"`
		Date        string `json:"date"`
		Notes       string `json:"notes"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, err)
		return
	}

	assignment, err := s.schedule.Assign(r.Context(), service.AssignInput{
		PerformerID: body.PerformerID,
		Date:        body.Date,
		Notes:       body.Notes,
		CreatedBy:   session.PerformerID,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, viewOfAssignment(assignment))
}

func (s *Server) handleUnassign(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	if err := s.schedule.Unassign(r.Context(), query.Get("date"), query.Get("slot")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleDayDetail(w http.ResponseWriter, r *http.Request) {
	detail, err := s.schedule.DayDetail(r.Context(), r.PathValue("date"))
	if err != nil {
		writeError(w, err)
		return
	}

	assignments := make([]assignmentView, 0, len(detail.Assignments))
	for _, assignment := range detail.Assignments {
		assignments = append(assignments, viewOfAssignment(assignment))
	}
	availabilities := make([]map[string]any, 0, len(detail.Availabilities))
	for _, availability := range detail.Availabilities {
		availabilities = append(availabilities, map[string]any{
			"performer_id": availability.PerformerID,
			"willing":      availability.Willing,
			"slot":         string(availability.Slot),
			"notes":        availability.Notes,
		})
	}
	candidates := make([]map[string]any, 0, len(detail.Candidates))
	for _, candidate := range detail.Candidates {
		candidates = append(candidates, map[string]any{
			"performer_id":  candidate.PerformerID,
			"declared_slot": string(candidate.DeclaredSlot),
			"actual_slot":   string(candidate.ActualSlot),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"date":           domain.FormatDate(detail.Date),
		"status":         string(detail.Status),
		"assignments":    assignments,
		"availabilities": availabilities,
		"candidates":     candidates,
	})
}

func (s *Server) handleConflicts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	conflicts, err := s.schedule.Conflicts(r.Context(), query.Get("from"), query.Get("to"))
	if err != nil {
		writeError(w, err)
		return
	}
	dates := make([]string, 0, len(conflicts))
	for _, date := range conflicts {
		dates = append(dates, domain.FormatDate(date))
	}
	writeJSON(w, http.StatusOK, map[string]any{"conflicts": dates})
}

func (s *Server) handleMonthSummary(w http.ResponseWriter, r *http.Request) {
	year, month, err := yearMonthFrom(r)
	if err != nil {
		writeError(w, err)
		return
	}
	summary, err := s.schedule.MonthSummary(r.Context(), year, month)
	if err != nil {
		writeError(w, err)
		return
	}

	conflicts := make([]string, 0, len(summary.ConflictDates))
	for _, date := range summary.ConflictDates {
		conflicts = append(conflicts, domain.FormatDate(date))
	}
	performers := make([]map[string]any, 0, len(summary.PerformerCounts))
	for _, tally := range summary.PerformerCounts {
		performers = append(performers, map[string]any{
			"performer_id":     tally.PerformerID,
			"stage_name":       tally.StageName,
			"assignment_count": tally.AssignmentCount,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"assignment_count": summary.AssignmentCount,
		"total_fees":       summary.TotalFees,
		"open_show_nights": summary.OpenShowNights,
		"conflicts":        conflicts,
		"performers":       performers,
	})
}

func (s *Server) handleMonthReport(w http.ResponseWriter, r *http.Request) {
	year, month, err := yearMonthFrom(r)
	if err != nil {
		writeError(w, err)
		return
	}
	built, err := report.Build(r.Context(), s.reports, year, month)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if err := built.WriteCSV(w); err != nil {
		log.Printf("write report: %v", err)
	}
}
