package server

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/ozgurkzlkaya/fixlog/internal/events"
	"github.com/ozgurkzlkaya/fixlog/internal/idgen"
	"github.com/ozgurkzlkaya/fixlog/internal/model"
	"github.com/ozgurkzlkaya/fixlog/internal/query"
)

type createCompanyInput struct {
	Name    string `json:"name"`
	Kind    string `json:"kind"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Actor   string `json:"actor"`
}

type updateCompanyInput struct {
	Name    *string `json:"name"`
	Kind    *string `json:"kind"`
	Email   *string `json:"email"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
	Actor   string  `json:"actor"`
}

// handleCreateCompany handles POST /v1/companies.
func (s *FixlogServer) handleCreateCompany(w http.ResponseWriter, r *http.Request) {
	var in createCompanyInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	id, err := idgen.Generate(idgen.PrefixCompany)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to generate id")
		return
	}

	now := time.Now().UTC()
	company := &model.Company{
		ID:        id,
		Name:      in.Name,
		Kind:      model.CompanyKind(in.Kind),
		Email:     in.Email,
		Phone:     in.Phone,
		Address:   in.Address,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := model.ValidateCompany(company); err != nil {
		var ve *model.ValidationError
		if errors.As(err, &ve) {
			writeValidationError(w, ve)
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.store.CreateCompany(r.Context(), company); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create company")
		return
	}

	s.recordAndPublish(r.Context(), events.TopicCompanyCreated, company.ID, in.Actor, events.CompanyCreated{Company: company})

	writeJSON(w, http.StatusCreated, company)
}

// handleListCompanies handles GET /v1/companies.
func (s *FixlogServer) handleListCompanies(w http.ResponseWriter, r *http.Request) {
	opts, err := query.DecodeOptions(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	companies, meta, err := s.store.ListCompanies(r.Context(), opts)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list companies")
		return
	}

	if companies == nil {
		companies = []*model.Company{}
	}

	writeList(w, companies, meta)
}

// handleGetCompany handles GET /v1/companies/{id}.
func (s *FixlogServer) handleGetCompany(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	company, err := s.store.GetCompany(r.Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "company not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get company")
		return
	}

	writeJSON(w, http.StatusOK, company)
}

// handleUpdateCompany handles PATCH /v1/companies/{id}.
func (s *FixlogServer) handleUpdateCompany(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	var in updateCompanyInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	company, err := s.store.GetCompany(r.Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "company not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get company")
		return
	}

	changes := make(map[string]any)
	if in.Name != nil {
		company.Name = *in.Name
		changes["name"] = *in.Name
	}
	if in.Kind != nil {
		company.Kind = model.CompanyKind(*in.Kind)
		changes["kind"] = *in.Kind
	}
	if in.Email != nil {
		company.Email = *in.Email
		changes["email"] = *in.Email
	}
	if in.Phone != nil {
		company.Phone = *in.Phone
		changes["phone"] = *in.Phone
	}
	if in.Address != nil {
		company.Address = *in.Address
		changes["address"] = *in.Address
	}

	if len(changes) == 0 {
		writeJSON(w, http.StatusOK, company)
		return
	}
	company.UpdatedAt = time.Now().UTC()

	if err := model.ValidateCompany(company); err != nil {
		var ve *model.ValidationError
		if errors.As(err, &ve) {
			writeValidationError(w, ve)
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.store.UpdateCompany(r.Context(), company); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "company not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to update company")
		return
	}

	s.recordAndPublish(r.Context(), events.TopicCompanyUpdated, company.ID, in.Actor, events.CompanyUpdated{Company: company, Changes: changes})

	writeJSON(w, http.StatusOK, company)
}

// handleDeleteCompany handles DELETE /v1/companies/{id}.
func (s *FixlogServer) handleDeleteCompany(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	if err := s.store.DeleteCompany(r.Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "company not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete company")
		return
	}

	s.recordAndPublish(r.Context(), events.TopicCompanyDeleted, id, "", events.CompanyDeleted{CompanyID: id})

	w.WriteHeader(http.StatusNoContent)
}
