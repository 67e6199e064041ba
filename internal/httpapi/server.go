// Package httpapi exposes the planning service as a JSON HTTP API.
package httpapi

import (
	"context"
	"fmt"
	"net/http"

	apperrors "github.com/tbhone/folies-planning/internal/platform/errors"
	"github.com/tbhone/folies-planning/internal/report"
	"github.com/tbhone/folies-planning/internal/schedule/service"
)

// Server routes HTTP requests to schedule operations.
type Server struct {
	schedule *service.Service
	reports  report.Source
	tokens   *TokenIssuer
}

// NewServer creates a Server over the schedule service.
func NewServer(schedule *service.Service, reports report.Source, tokens *TokenIssuer) (*Server, error) {
	if schedule == nil {
		return nil, fmt.Errorf("schedule service is required")
	}
	if tokens == nil {
		return nil, fmt.Errorf("token issuer is required")
	}
	return &Server{
		schedule: schedule,
		reports:  reports,
		tokens:   tokens,
	}, nil
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("POST /api/register", s.handleRegister)
	mux.HandleFunc("POST /api/login", s.handleLogin)

	mux.Handle("PUT /api/availability", s.withSession(s.handleSetAvailability))
	mux.Handle("GET /api/calendar/{year}/{month}", s.withSession(s.handleCalendar))

	mux.Handle("GET /api/performers", s.withAdmin(s.handleListPerformers))
	mux.Handle("POST /api/performers", s.withAdmin(s.handleCreatePerformer))
	mux.Handle("POST /api/performers/{id}/activate", s.withAdmin(s.handleActivatePerformer))
	mux.Handle("POST /api/performers/{id}/deactivate", s.withAdmin(s.handleDeactivatePerformer))
	mux.Handle("DELETE /api/performers/{id}", s.withAdmin(s.handleRemovePerformer))

	mux.Handle("POST /api/assignments", s.withAdmin(s.handleAssign))
	mux.Handle("DELETE /api/assignments", s.withAdmin(s.handleUnassign))
	mux.Handle("GET /api/days/{date}", s.withAdmin(s.handleDayDetail))
	mux.Handle("GET /api/conflicts", s.withAdmin(s.handleConflicts))
	mux.Handle("GET /api/summary/{year}/{month}", s.withAdmin(s.handleMonthSummary))
	mux.Handle("GET /api/reports/{year}/{month}", s.withAdmin(s.handleMonthReport))

	return mux
}

type sessionKey struct{}

func sessionFrom(ctx context.Context) (Session, bool) {
	session, ok := ctx.Value(sessionKey{}).(Session)
	return session, ok
}

func (s *Server) withSession(next func(http.ResponseWriter, *http.Request)) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			writeError(w, apperrors.New(apperrors.CodeInvalidCredential, "missing session token"))
			return
		}
		session, err := s.tokens.Parse(token)
		if err != nil {
			writeError(w, err)
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), sessionKey{}, session)))
	})
}

func (s *Server) withAdmin(next func(http.ResponseWriter, *http.Request)) http.Handler {
	return s.withSession(func(w http.ResponseWriter, r *http.Request) {
		session, ok := sessionFrom(r.Context())
		if !ok || !session.Admin {
			writeForbidden(w)
			return
		}
		next(w, r)
	})
}

func bearerToken(r *http.Request) string {
	const prefix = "Bearer "
	header := r.Header.Get("Authorization")
	if len(header) > len(prefix) && header[:len(prefix)] == prefix {
		return header[len(prefix):]
	}
	return ""
}
