package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrijs2005/goalkeeper/internal/server/models"
	"github.com/dmitrijs2005/goalkeeper/internal/server/services"
)

type createGoalRequest struct {
	Title      string     `json:"title"`
	Content    string     `json:"content"`
	Budget     int64      `json:"budget"`
	Deadline   *time.Time `json:"deadline,omitempty"`
	VerifierID *string    `json:"verifierId,omitempty"`
	IsSummary  bool       `json:"isSummary,omitempty"`
}

type verifyGoalRequest struct {
	Decision string `json:"decision"`
}

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	goals, err := s.goalService.List(r.Context(), userID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, goals)
}

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	var req createGoalRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	goal, err := s.goalService.Create(r.Context(), userID(r), services.CreateGoalInput{
		Title:       req.Title,
		Content:     req.Content,
		Budget:      req.Budget,
		Deadline:    req.Deadline,
		VerifierID:  req.VerifierID,
		WithSummary: req.IsSummary,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, goal)
}

func (s *Server) handleGetGoal(w http.ResponseWriter, r *http.Request) {
	goal, err := s.goalService.Get(r.Context(), userID(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, goal)
}

func (s *Server) handleUpdateGoal(w http.ResponseWriter, r *http.Request) {
	var patch models.GoalPatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, err)
		return
	}

	goal, err := s.goalService.Update(r.Context(), userID(r), chi.URLParam(r, "id"), patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, goal)
}

func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	if err := s.goalService.Delete(r.Context(), userID(r), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleCompleteGoal(w http.ResponseWriter, r *http.Request) {
	if err := s.goalService.Complete(r.Context(), userID(r), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handleGoalNotAchieved(w http.ResponseWriter, r *http.Request) {
	if err := s.goalService.SetNotAchieved(r.Context(), userID(r), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handleVerifyGoal(w http.ResponseWriter, r *http.Request) {
	var req verifyGoalRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	err := s.goalService.Verify(r.Context(), userID(r), chi.URLParam(r, "id"), services.VerifyDecision(req.Decision))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handleGoalsToVerify(w http.ResponseWriter, r *http.Request) {
	goals, err := s.goalService.ListToVerify(r.Context(), userID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, goals)
}
