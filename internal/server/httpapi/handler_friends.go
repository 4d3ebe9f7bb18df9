package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrijs2005/goalkeeper/internal/common"
)

type addFriendRequest struct {
	FriendID    string `json:"friendId,omitempty"`
	FriendEmail string `json:"friendEmail,omitempty"`
}

type inviteRequest struct {
	Email string `json:"email"`
}

func (s *Server) handleListFriends(w http.ResponseWriter, r *http.Request) {
	friends, err := s.friendService.List(r.Context(), userID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, friends)
}

func (s *Server) handleAddFriend(w http.ResponseWriter, r *http.Request) {
	var req addFriendRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	switch {
	case req.FriendID != "":
		friend, err := s.friendService.Add(r.Context(), userID(r), req.FriendID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, friend)
	case req.FriendEmail != "":
		friend, err := s.friendService.AddByEmail(r.Context(), userID(r), req.FriendEmail)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, friend)
	default:
		writeError(w, common.ErrorValidation)
	}
}

func (s *Server) handleAcceptFriend(w http.ResponseWriter, r *http.Request) {
	if err := s.friendService.Accept(r.Context(), userID(r), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handleRejectFriend(w http.ResponseWriter, r *http.Request) {
	if err := s.friendService.Reject(r.Context(), userID(r), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handleRemoveFriend(w http.ResponseWriter, r *http.Request) {
	if err := s.friendService.Remove(r.Context(), userID(r), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleFriendGoals(w http.ResponseWriter, r *http.Request) {
	goals, err := s.goalService.ListFriendGoals(r.Context(), userID(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, goals)
}

func (s *Server) handleInvite(w http.ResponseWriter, r *http.Request) {
	var req inviteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	inv, err := s.friendService.Invite(r.Context(), userID(r), req.Email)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, inv)
}

func (s *Server) handleListInvitations(w http.ResponseWriter, r *http.Request) {
	invs, err := s.friendService.ListInvitations(r.Context(), userID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, invs)
}
