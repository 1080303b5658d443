package handler

import (
	"encoding/json"
	"net/http"

	"github.com/greenmobilitypass/backend/internal/service"
)

// loginRequest is the JSON body for POST /token.
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// refreshRequest is the JSON body for POST /token/refresh.
type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// registerRequest is the JSON body for POST /user/.
type registerRequest struct {
	Username  string  `json:"username"`
	Email     string  `json:"email"`
	Password  string  `json:"password"`
	CompanyID *string `json:"company_id,omitempty"`
}

// Login handles POST /token.
func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	pair, err := s.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pair)
}

// Refresh handles POST /token/refresh.
func (s *Server) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	pair, err := s.auth.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pair)
}

// RegisterUser handles POST /user/. Registration is public; new accounts
// always get the regular user role.
func (s *Server) RegisterUser(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	in := service.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	}
	if req.CompanyID != nil {
		companyID, err := parseUUID(*req.CompanyID)
		if err != nil {
			writeBadRequest(w, "invalid company_id")
			return
		}
		in.CompanyID = &companyID
	}

	user, err := s.auth.Register(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

// Me handles GET /me: the authenticated caller's own account.
func (s *Server) Me(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(r)
	if !ok {
		writeUnauthorized(w, "missing identity")
		return
	}

	user, err := s.users.GetByID(r.Context(), id.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
