package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/greenmobilitypass/backend/internal/domain"
)

// userListResponse pairs one page of users with pagination metadata.
type userListResponse struct {
	Data       []domain.User `json:"data"`
	Pagination pagination    `json:"pagination"`
}

type pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

// ListUsers handles GET /user/ (admin only).
// Supports ?page= and ?limit= query parameters (defaults: page=1, limit=20, max=100).
func (s *Server) ListUsers(w http.ResponseWriter, r *http.Request) {
	params := domain.NewPaginationParams(queryInt(r, "page"), queryInt(r, "limit"))

	users, total, err := s.users.ListPaged(r.Context(), params)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, userListResponse{
		Data: users,
		Pagination: pagination{
			Page:  params.Page,
			Limit: params.Limit,
			Total: int(total),
		},
	})
}

// GetUser handles GET /user/{id}. Admins may read any account; everyone else
// only their own.
func (s *Server) GetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(r)
	if !ok {
		writeUnauthorized(w, "missing identity")
		return
	}

	userID, err := parseUUID(chi.URLParam(r, "id"))
	if err != nil {
		writeBadRequest(w, "invalid user id")
		return
	}

	if id.Role != domain.RoleAdmin && id.UserID != userID {
		writeErrorBody(w, http.StatusForbidden, "forbidden", "cannot read another user's account")
		return
	}

	user, err := s.users.GetByID(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// DeleteUser handles DELETE /user/{id} (admin only).
func (s *Server) DeleteUser(w http.ResponseWriter, r *http.Request) {
	userID, err := parseUUID(chi.URLParam(r, "id"))
	if err != nil {
		writeBadRequest(w, "invalid user id")
		return
	}

	if err := s.users.Delete(r.Context(), userID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// queryInt reads an optional integer query parameter; nil when absent or
// unparsable.
func queryInt(r *http.Request, name string) *int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &v
}

// parseUUID wraps uuid.Parse for path and body parameters.
func parseUUID(raw string) (uuid.UUID, error) {
	return uuid.Parse(raw)
}
