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

type createProductInput struct {
	Serial        string     `json:"serial"`
	ModelName     string     `json:"model_name"`
	ModelType     string     `json:"model_type"`
	CompanyID     string     `json:"company_id"`
	Status        string     `json:"status"`
	WarrantyStart *time.Time `json:"warranty_start"`
	WarrantyEnd   *time.Time `json:"warranty_end"`
	Notes         string     `json:"notes"`
	Actor         string     `json:"actor"`
}

type updateProductInput struct {
	ModelName     *string    `json:"model_name"`
	ModelType     *string    `json:"model_type"`
	CompanyID     *string    `json:"company_id"`
	Status        *string    `json:"status"`
	WarrantyStart *time.Time `json:"warranty_start"`
	WarrantyEnd   *time.Time `json:"warranty_end"`
	Notes         *string    `json:"notes"`
	Actor         string     `json:"actor"`
}

// handleCreateProduct handles POST /v1/products.
func (s *FixlogServer) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var in createProductInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	id, err := idgen.Generate(idgen.PrefixProduct)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to generate id")
		return
	}

	now := time.Now().UTC()
	if in.Status == "" {
		in.Status = string(model.ProductActive)
	}
	product := &model.Product{
		ID:            id,
		Serial:        in.Serial,
		ModelName:     in.ModelName,
		ModelType:     in.ModelType,
		CompanyID:     in.CompanyID,
		Status:        model.ProductStatus(in.Status),
		WarrantyStart: in.WarrantyStart,
		WarrantyEnd:   in.WarrantyEnd,
		Notes:         in.Notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := model.ValidateProduct(product); err != nil {
		var ve *model.ValidationError
		if errors.As(err, &ve) {
			writeValidationError(w, ve)
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.store.CreateProduct(r.Context(), product); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create product")
		return
	}

	s.recordAndPublish(r.Context(), events.TopicProductCreated, product.ID, in.Actor, events.ProductCreated{Product: product})

	writeJSON(w, http.StatusCreated, product)
}

// handleListProducts handles GET /v1/products.
func (s *FixlogServer) handleListProducts(w http.ResponseWriter, r *http.Request) {
	opts, err := query.DecodeOptions(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	products, meta, err := s.store.ListProducts(r.Context(), opts)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list products")
		return
	}

	// Ensure data is never null in JSON output.
	if products == nil {
		products = []*model.Product{}
	}

	writeList(w, products, meta)
}

// handleGetProduct handles GET /v1/products/{id}.
func (s *FixlogServer) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	product, err := s.store.GetProduct(r.Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "product not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get product")
		return
	}

	writeJSON(w, http.StatusOK, product)
}

// handleUpdateProduct handles PATCH /v1/products/{id}.
func (s *FixlogServer) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	var in updateProductInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	product, err := s.store.GetProduct(r.Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "product not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get product")
		return
	}

	changes := make(map[string]any)
	if in.ModelName != nil {
		product.ModelName = *in.ModelName
		changes["model_name"] = *in.ModelName
	}
	if in.ModelType != nil {
		product.ModelType = *in.ModelType
		changes["model_type"] = *in.ModelType
	}
	if in.CompanyID != nil {
		product.CompanyID = *in.CompanyID
		changes["company_id"] = *in.CompanyID
	}
	if in.Status != nil {
		product.Status = model.ProductStatus(*in.Status)
		changes["status"] = *in.Status
	}
	if in.WarrantyStart != nil {
		product.WarrantyStart = in.WarrantyStart
		changes["warranty_start"] = in.WarrantyStart
	}
	if in.WarrantyEnd != nil {
		product.WarrantyEnd = in.WarrantyEnd
		changes["warranty_end"] = in.WarrantyEnd
	}
	if in.Notes != nil {
		product.Notes = *in.Notes
		changes["notes"] = *in.Notes
	}

	if len(changes) == 0 {
		writeJSON(w, http.StatusOK, product)
		return
	}
	product.UpdatedAt = time.Now().UTC()

	if err := model.ValidateProduct(product); err != nil {
		var ve *model.ValidationError
		if errors.As(err, &ve) {
			writeValidationError(w, ve)
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.store.UpdateProduct(r.Context(), product); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "product not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to update product")
		return
	}

	s.recordAndPublish(r.Context(), events.TopicProductUpdated, product.ID, in.Actor, events.ProductUpdated{Product: product, Changes: changes})

	writeJSON(w, http.StatusOK, product)
}

// handleDeleteProduct handles DELETE /v1/products/{id}.
func (s *FixlogServer) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	if err := s.store.DeleteProduct(r.Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "product not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete product")
		return
	}

	s.recordAndPublish(r.Context(), events.TopicProductDeleted, id, "", events.ProductDeleted{ProductID: id})

	w.WriteHeader(http.StatusNoContent)
}
