package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/stride-coach/stride/internal/app/coach"
	"github.com/stride-coach/stride/internal/domain"
)

func todayKey() string {
	return domain.FormatDate(time.Now())
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrRecordExists):
		return http.StatusConflict
	case errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrNoFocus),
		errors.Is(err, domain.ErrNoCommitment):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrNotEligible),
		errors.Is(err, domain.ErrBadGrade):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrNoAnchor):
		return http.StatusFailedDependency
	}
	return http.StatusInternalServerError
}

// --- POST /api/coach/checkin ---

type checkinBody struct {
	Email string `json:"email,omitempty"`
	coach.CheckinRequest
}

func (s *Server) handleCheckin(w http.ResponseWriter, r *http.Request) {
	var body checkinBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	user := body.Email
	if user == "" {
		user = s.user(r)
	}
	if body.Date == "" {
		body.Date = todayKey()
	}

	result, err := s.svc.Submit(r.Context(), user, body.CheckinRequest)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

// --- GET /api/coach/summary ---

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.svc.Summarize(s.user(r), date(r))
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// --- GET /api/coach/momentum/{date} ---

func (s *Server) handleMomentumDay(w http.ResponseWriter, r *http.Request) {
	day := chi.URLParam(r, "date")
	record, err := s.svc.DB().GetMomentumRecord(s.user(r), day)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, record)
}

// --- GET /api/coach/momentum?from=&to= ---

func (s *Server) handleMomentumRange(w http.ResponseWriter, r *http.Request) {
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	if to == "" {
		to = todayKey()
	}
	if from == "" {
		var err error
		if from, err = domain.AddDays(to, -29); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	records, err := s.svc.History(s.user(r), from, to)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"records": records,
	})
}

// --- POST /api/coach/focus ---

type focusBody struct {
	Email string `json:"email,omitempty"`
	coach.FocusRequest
}

func (s *Server) handleSetFocus(w http.ResponseWriter, r *http.Request) {
	var body focusBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	user := body.Email
	if user == "" {
		user = s.user(r)
	}

	focus, err := s.svc.SetFocus(user, todayKey(), body.FocusRequest)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, focus)
}

// --- Commitment endpoints ---

func (s *Server) handleCommitment(w http.ResponseWriter, r *http.Request) {
	user := s.user(r)
	day := date(r)

	show, commitment, err := s.svc.Progression().ShowCommitment(s.svc.DB().Store, user, day)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"showCommitment": show,
		"commitment":     commitment,
	})
}

func (s *Server) handleCommitmentOffer(w http.ResponseWriter, r *http.Request) {
	c, err := s.svc.OfferCommitment(s.user(r), date(r))
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (s *Server) handleCommitmentAccept(w http.ResponseWriter, r *http.Request) {
	c, err := s.svc.AcceptCommitment(s.user(r), date(r))
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, c)
}

type declineCommitmentBody struct {
	Reason      string `json:"reason"`
	Alternative string `json:"alternative,omitempty"`
}

func (s *Server) handleCommitmentDecline(w http.ResponseWriter, r *http.Request) {
	var body declineCommitmentBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	c, err := s.svc.DeclineCommitment(s.user(r), body.Reason, body.Alternative)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// --- Level-up endpoints ---

func (s *Server) handleLevelUpStatus(w http.ResponseWriter, r *http.Request) {
	elig, err := s.svc.LevelUpStatus(s.user(r), date(r))
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, elig)
}

type levelUpAcceptBody struct {
	coach.LevelUpRequest
}

func (s *Server) handleLevelUpAccept(w http.ResponseWriter, r *http.Request) {
	var body levelUpAcceptBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	focus, err := s.svc.AcceptLevelUp(s.user(r), date(r), body.LevelUpRequest)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, focus)
}

type levelUpDeclineBody struct {
	Reason   string                 `json:"reason"`
	NextStep domain.DeclineNextStep `json:"nextStep"`
}

func (s *Server) handleLevelUpDecline(w http.ResponseWriter, r *http.Request) {
	var body levelUpDeclineBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.svc.DeclineLevelUp(s.user(r), date(r), body.Reason, body.NextStep); err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "recorded"})
}

// --- Toast endpoints ---

func (s *Server) handleToasts(w http.ResponseWriter, r *http.Request) {
	toasts, err := s.svc.Toasts().Pending(s.user(r), 50)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"toasts": toasts,
	})
}

func (s *Server) handleToastShown(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.svc.Toasts().MarkShown(s.user(r), id); err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "shown"})
}
