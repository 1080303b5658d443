package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/greenmobilitypass/backend/internal/domain"
)

// companyRequest is the JSON body for company creation and updates.
type companyRequest struct {
	Name       string `json:"name"`
	DomainName string `json:"domain_name"`
	Location   string `json:"location"`
}

// CreateCompany handles POST /company/ (admin only).
func (s *Server) CreateCompany(w http.ResponseWriter, r *http.Request) {
	var req companyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	created, err := s.companies.Create(r.Context(), domain.Company{
		Name:       req.Name,
		DomainName: req.DomainName,
		Location:   req.Location,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// ListCompanies handles GET /company/ (admin only).
func (s *Server) ListCompanies(w http.ResponseWriter, r *http.Request) {
	companies, err := s.companies.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, companies)
}

// GetCompany handles GET /company/{id} (admin only).
func (s *Server) GetCompany(w http.ResponseWriter, r *http.Request) {
	companyID, err := parseUUID(chi.URLParam(r, "id"))
	if err != nil {
		writeBadRequest(w, "invalid company id")
		return
	}

	company, err := s.companies.GetByID(r.Context(), companyID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, company)
}

// UpdateCompany handles PUT /company/{id} (admin only).
func (s *Server) UpdateCompany(w http.ResponseWriter, r *http.Request) {
	companyID, err := parseUUID(chi.URLParam(r, "id"))
	if err != nil {
		writeBadRequest(w, "invalid company id")
		return
	}

	var req companyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	updated, err := s.companies.Update(r.Context(), domain.Company{
		ID:         companyID,
		Name:       req.Name,
		DomainName: req.DomainName,
		Location:   req.Location,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DeleteCompany handles DELETE /company/{id} (admin only).
func (s *Server) DeleteCompany(w http.ResponseWriter, r *http.Request) {
	companyID, err := parseUUID(chi.URLParam(r, "id"))
	if err != nil {
		writeBadRequest(w, "invalid company id")
		return
	}

	if err := s.companies.Delete(r.Context(), companyID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
