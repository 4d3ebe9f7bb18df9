package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

type upsertMeRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type lookupUsersRequest struct {
	IDs []string `json:"ids"`
}

func (s *Server) handleGetMe(w http.ResponseWriter, r *http.Request) {
	user, err := s.userService.Get(r.Context(), userID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleUpsertMe(w http.ResponseWriter, r *http.Request) {
	var req upsertMeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	id, err := s.userService.CreateOrUpdate(r.Context(), userID(r), req.Name, req.Email)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"userId": id})
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	user, err := s.userService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleLookupUsers(w http.ResponseWriter, r *http.Request) {
	var req lookupUsersRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	users, err := s.userService.GetMany(r.Context(), req.IDs)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (s *Server) handleBudgetTopUp(w http.ResponseWriter, r *http.Request) {
	if err := s.userService.AddBudget(r.Context(), userID(r)); err != nil {
		writeError(w, err)
		return
	}

	user, err := s.userService.Get(r.Context(), userID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleSearchUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.friendService.Search(r.Context(), userID(r), r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}
