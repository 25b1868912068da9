package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ozgurkzlkaya/fixlog/internal/events"
	"github.com/ozgurkzlkaya/fixlog/internal/idgen"
	"github.com/ozgurkzlkaya/fixlog/internal/model"
	"github.com/ozgurkzlkaya/fixlog/internal/query"
)

type createIssueInput struct {
	ProductID   string     `json:"product_id"`
	CompanyID   string     `json:"company_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    int        `json:"priority"`
	Category    string     `json:"category"`
	Assignee    string     `json:"assignee"`
	ReportedAt  *time.Time `json:"reported_at"`
	Actor       string     `json:"actor"`
}

type updateIssueInput struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	Priority    *int    `json:"priority"`
	Category    *string `json:"category"`
	Assignee    *string `json:"assignee"`
	Actor       string  `json:"actor"`
}

type resolveIssueInput struct {
	ResolvedBy string `json:"resolved_by"`
}

// handleCreateIssue handles POST /v1/issues.
func (s *FixlogServer) handleCreateIssue(w http.ResponseWriter, r *http.Request) {
	var in createIssueInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	issue, err := s.createIssue(r.Context(), in)
	if err != nil {
		var ve *model.ValidationError
		if errors.As(err, &ve) {
			writeValidationError(w, ve)
			return
		}
		var ie inputError
		if errors.As(err, &ie) {
			writeError(w, http.StatusBadRequest, ie.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, issue)
}

// createIssue validates the input, links the issue to its product's company,
// and persists it. The reporting company is inherited from the product when
// not supplied.
func (s *FixlogServer) createIssue(ctx context.Context, in createIssueInput) (*model.Issue, error) {
	product, err := s.store.GetProduct(ctx, in.ProductID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, inputError(fmt.Sprintf("product %q not found", in.ProductID))
	}
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}

	id, err := idgen.Generate(idgen.PrefixIssue)
	if err != nil {
		return nil, fmt.Errorf("generate id: %w", err)
	}

	now := time.Now().UTC()
	reportedAt := now
	if in.ReportedAt != nil {
		reportedAt = in.ReportedAt.UTC()
	}
	companyID := in.CompanyID
	if companyID == "" {
		companyID = product.CompanyID
	}
	issue := &model.Issue{
		ID:          id,
		ProductID:   in.ProductID,
		CompanyID:   companyID,
		Title:       in.Title,
		Description: in.Description,
		Status:      model.IssueOpen,
		Priority:    in.Priority,
		Category:    in.Category,
		Assignee:    in.Assignee,
		ReportedAt:  reportedAt,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := model.ValidateIssue(issue); err != nil {
		return nil, err
	}

	if err := s.store.CreateIssue(ctx, issue); err != nil {
		return nil, fmt.Errorf("create issue: %w", err)
	}

	s.recordAndPublish(ctx, events.TopicIssueCreated, issue.ID, in.Actor, events.IssueCreated{Issue: issue})
	s.notify(ctx, &model.Notification{
		Type:     model.NotifyIssueCreated,
		Title:    "New issue reported",
		Message:  issue.Title,
		Priority: issue.Priority,
		EntityID: issue.ID,
	})

	return issue, nil
}

// handleListIssues handles GET /v1/issues.
func (s *FixlogServer) handleListIssues(w http.ResponseWriter, r *http.Request) {
	opts, err := query.DecodeOptions(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	issues, meta, err := s.store.ListIssues(r.Context(), opts)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list issues")
		return
	}

	if issues == nil {
		issues = []*model.Issue{}
	}

	writeList(w, issues, meta)
}

// handleGetIssue handles GET /v1/issues/{id}.
func (s *FixlogServer) handleGetIssue(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	issue, err := s.store.GetIssue(r.Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "issue not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get issue")
		return
	}

	writeJSON(w, http.StatusOK, issue)
}

// handleUpdateIssue handles PATCH /v1/issues/{id}.
func (s *FixlogServer) handleUpdateIssue(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	var in updateIssueInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	issue, err := s.store.GetIssue(r.Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "issue not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get issue")
		return
	}

	changes := make(map[string]any)
	if in.Title != nil {
		issue.Title = *in.Title
		changes["title"] = *in.Title
	}
	if in.Description != nil {
		issue.Description = *in.Description
		changes["description"] = *in.Description
	}
	if in.Status != nil {
		next := model.IssueStatus(*in.Status)
		// Resolution happens through the resolve endpoint so resolved_at
		// is stamped consistently.
		if next == model.IssueResolved && issue.Status != model.IssueResolved {
			writeError(w, http.StatusBadRequest, "use the resolve endpoint to resolve an issue")
			return
		}
		if !next.Terminal() && issue.Status.Terminal() {
			issue.ResolvedAt = nil
			changes["resolved_at"] = nil
		}
		issue.Status = next
		changes["status"] = *in.Status
	}
	if in.Priority != nil {
		issue.Priority = *in.Priority
		changes["priority"] = *in.Priority
	}
	if in.Category != nil {
		issue.Category = *in.Category
		changes["category"] = *in.Category
	}
	if in.Assignee != nil {
		issue.Assignee = *in.Assignee
		changes["assignee"] = *in.Assignee
	}

	if len(changes) == 0 {
		writeJSON(w, http.StatusOK, issue)
		return
	}
	if issue.Status == model.IssueClosed && issue.ResolvedAt == nil {
		now := time.Now().UTC()
		issue.ResolvedAt = &now
		changes["resolved_at"] = now
	}
	issue.UpdatedAt = time.Now().UTC()

	if err := model.ValidateIssue(issue); err != nil {
		var ve *model.ValidationError
		if errors.As(err, &ve) {
			writeValidationError(w, ve)
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.store.UpdateIssue(r.Context(), issue); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "issue not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to update issue")
		return
	}

	s.recordAndPublish(r.Context(), events.TopicIssueUpdated, issue.ID, in.Actor, events.IssueUpdated{Issue: issue, Changes: changes})

	writeJSON(w, http.StatusOK, issue)
}

// handleResolveIssue handles POST /v1/issues/{id}/resolve.
func (s *FixlogServer) handleResolveIssue(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	var in resolveIssueInput
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
	}

	issue, err := s.store.ResolveIssue(r.Context(), id, in.ResolvedBy)
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "issue not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to resolve issue")
		return
	}

	s.recordAndPublish(r.Context(), events.TopicIssueResolved, issue.ID, in.ResolvedBy, events.IssueResolved{Issue: issue, ResolvedBy: in.ResolvedBy})
	s.notify(r.Context(), &model.Notification{
		Type:     model.NotifyIssueResolved,
		Title:    "Issue resolved",
		Message:  issue.Title,
		Priority: issue.Priority,
		EntityID: issue.ID,
	})

	writeJSON(w, http.StatusOK, issue)
}

// handleDeleteIssue handles DELETE /v1/issues/{id}.
func (s *FixlogServer) handleDeleteIssue(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	if err := s.store.DeleteIssue(r.Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "issue not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete issue")
		return
	}

	s.recordAndPublish(r.Context(), events.TopicIssueDeleted, id, "", events.IssueDeleted{IssueID: id})

	w.WriteHeader(http.StatusNoContent)
}
