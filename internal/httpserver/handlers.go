package httpserver

import (
	"context"
	"net/http"
	"time"

	listpending "market-admin/internal/actions/listing/list-pending"
	sendbroadcast "market-admin/internal/actions/notification/send-broadcast"
	"market-admin/internal/models"

	"github.com/go-chi/chi/v5"
)

type indexView struct {
	Items    []models.PendingItem
	Warnings []string
	Flashes  []Flash
}

// Index renders the pending list. Store trouble shows up as warnings on the
// page, never as an error status.
func (s *Server) Index(w http.ResponseWriter, r *http.Request) {
	output, err := s.actions.List.Execute(r.Context())
	if err != nil {
		s.errors.HandleHTTPError(w, r, listpending.ActionName, err)
		return
	}

	view := indexView{
		Items:    output.Items,
		Warnings: output.Warnings,
		Flashes:  s.flash.Pop(w, r),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, view); err != nil {
		logFromRequest(r).Error("render index failed", map[string]interface{}{"error": err})
	}
}

// SendBroadcast posts the form's message to every user and flashes a
// confirmation.
func (s *Server) SendBroadcast(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	message := r.PostForm.Get("message")

	start := time.Now()
	output, err := s.actions.Broadcast.Execute(r.Context(), &sendbroadcast.Input{Message: message})
	s.recordAction(r.Context(), sendbroadcast.ActionName, start, err)
	if err != nil {
		s.errors.HandleHTTPError(w, r, sendbroadcast.ActionName, err)
		return
	}

	if output.Sent {
		if err := s.flash.Add(w, r, FlashSuccess, sendbroadcast.FlashMessage(message)); err != nil {
			logFromRequest(r).Error("set flash failed", map[string]interface{}{"error": err})
		}
	}

	http.Redirect(w, r, "/", http.StatusFound)
}

func (s *Server) actionHandler(action string, run func(ctx context.Context, id string) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		start := time.Now()
		err := run(r.Context(), id)
		s.recordAction(r.Context(), action, start, err)
		if err != nil {
			s.errors.HandleHTTPError(w, r, action, err)
			return
		}

		http.Redirect(w, r, "/", http.StatusFound)
	}
}

func (s *Server) recordAction(ctx context.Context, action string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	s.obs.RecordActionProcessed(ctx, action, status)
	s.obs.RecordActionDuration(ctx, action, time.Since(start), status)
}
