// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package inventory

import (
	"encoding/json"
	"errors"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	httptypes "github.com/canonical/inventory-service/internal/http/types"
	"github.com/canonical/inventory-service/internal/logging"
	"github.com/canonical/inventory-service/internal/monitoring"
	"github.com/canonical/inventory-service/internal/tracing"
	"github.com/canonical/inventory-service/internal/types"
	"github.com/canonical/inventory-service/pkg/authentication"
)

const uploadField = "file"

type addItemRequest struct {
	types.IncomingItem

	// CompanyName is accepted for compatibility with older clients, the
	// tenant is always taken from the caller
	CompanyName string `json:"companyName"`
}

type outcomeResponse struct {
	Index   int                  `json:"index"`
	Created bool                 `json:"created"`
	Item    *types.InventoryItem `json:"item,omitempty"`
	Error   string               `json:"error,omitempty"`
}

type uploadResponse struct {
	Message string            `json:"message"`
	Created int               `json:"created"`
	Updated int               `json:"updated"`
	Failed  int               `json:"failed"`
	Results []outcomeResponse `json:"results"`
}

type itemResponse struct {
	Message string               `json:"message"`
	Item    *types.InventoryItem `json:"item,omitempty"`
}

type API struct {
	service        ServiceInterface
	gate           GateInterface
	uploadMaxBytes int64

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func (a *API) RegisterEndpoints(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(a.gate.Require(types.RoleStaff))

		r.Get("/inventory", a.handleList)
		r.Post("/add-inventory", a.handleAdd)
		r.Post("/upload-csv", a.handleUpload)
		r.Put("/update-inventory/{id}", a.handleUpdate)
		r.Delete("/delete-inventory/{id}", a.handleDelete)
	})
}

func (a *API) handleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "inventory.API.handleList")
	defer span.End()

	caller, ok := authentication.GetCaller(ctx)
	if !ok {
		httptypes.WriteError(w, types.ErrUnauthenticated, a.logger)
		return
	}

	if err := checkCompany(caller, r.URL.Query().Get("companyName")); err != nil {
		httptypes.WriteError(w, err, a.logger)
		return
	}

	items, err := a.service.ListItems(ctx, caller.TenantID)
	if err != nil {
		httptypes.WriteError(w, err, a.logger)
		return
	}

	a.write(w, http.StatusOK, items)
}

func (a *API) handleAdd(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "inventory.API.handleAdd")
	defer span.End()

	caller, ok := authentication.GetCaller(ctx)
	if !ok {
		httptypes.WriteError(w, types.ErrUnauthenticated, a.logger)
		return
	}

	req := new(addItemRequest)
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, a.uploadMaxBytes)).Decode(req); err != nil {
		httptypes.WriteError(w, types.NewValidationError("body", "invalid item: %v", err), a.logger)
		return
	}

	if err := checkCompany(caller, req.CompanyName); err != nil {
		httptypes.WriteError(w, err, a.logger)
		return
	}

	outcomes, err := a.service.Ingest(ctx, caller.TenantID, []*types.IncomingItem{&req.IncomingItem}, caller.DisplayName)
	if err != nil {
		httptypes.WriteError(w, err, a.logger)
		return
	}

	outcome := outcomes[0]
	if outcome.Err != nil {
		httptypes.WriteError(w, outcome.Err, a.logger)
		return
	}

	if outcome.Created {
		a.write(w, http.StatusCreated, itemResponse{Message: "Item added successfully", Item: outcome.Item})
		return
	}

	a.write(w, http.StatusOK, itemResponse{Message: "Item updated successfully", Item: outcome.Item})
}

func (a *API) handleUpload(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "inventory.API.handleUpload")
	defer span.End()

	caller, ok := authentication.GetCaller(ctx)
	if !ok {
		httptypes.WriteError(w, types.ErrUnauthenticated, a.logger)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, a.uploadMaxBytes)

	if err := r.ParseMultipartForm(a.uploadMaxBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httptypes.WriteMessage(w, http.StatusRequestEntityTooLarge, "file is too large", a.logger)
			return
		}
		httptypes.WriteError(w, types.NewValidationError("body", "invalid multipart form"), a.logger)
		return
	}

	if err := checkCompany(caller, r.FormValue("companyName")); err != nil {
		httptypes.WriteError(w, err, a.logger)
		return
	}

	f, fh, err := r.FormFile(uploadField)
	if err != nil {
		httptypes.WriteError(w, types.NewValidationError(uploadField, "no file uploaded"), a.logger)
		return
	}
	defer f.Close()

	if ext := strings.ToLower(filepath.Ext(fh.Filename)); ext != ".csv" {
		httptypes.WriteError(w, types.NewValidationError(uploadField, "invalid file type %q, please upload a CSV file", ext), a.logger)
		return
	}

	items, err := ParseCSV(f)
	if err != nil {
		httptypes.WriteError(w, err, a.logger)
		return
	}

	outcomes, err := a.service.Ingest(ctx, caller.TenantID, items, caller.DisplayName)
	if err != nil {
		httptypes.WriteError(w, err, a.logger)
		return
	}

	resp := uploadResponse{Message: "File uploaded successfully", Results: make([]outcomeResponse, 0, len(outcomes))}
	for _, o := range outcomes {
		result := outcomeResponse{Index: o.Index, Created: o.Created, Item: o.Item}

		switch {
		case o.Err != nil:
			_, result.Error = httptypes.StatusFromError(o.Err)
			resp.Failed++
		case o.Created:
			resp.Created++
		default:
			resp.Updated++
		}

		resp.Results = append(resp.Results, result)
	}

	if resp.Failed > 0 {
		resp.Message = "File uploaded with errors"
	}

	a.write(w, http.StatusOK, resp)
}

func (a *API) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "inventory.API.handleUpdate")
	defer span.End()

	caller, ok := authentication.GetCaller(ctx)
	if !ok {
		httptypes.WriteError(w, types.ErrUnauthenticated, a.logger)
		return
	}

	update := new(types.ItemUpdate)
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, a.uploadMaxBytes)).Decode(update); err != nil {
		httptypes.WriteError(w, types.NewValidationError("body", "invalid update: %v", err), a.logger)
		return
	}

	item, err := a.service.UpdateItem(ctx, caller.TenantID, chi.URLParam(r, "id"), update, caller.DisplayName)
	if err != nil {
		httptypes.WriteError(w, err, a.logger)
		return
	}

	a.write(w, http.StatusOK, itemResponse{Message: "Item updated successfully", Item: item})
}

func (a *API) handleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "inventory.API.handleDelete")
	defer span.End()

	caller, ok := authentication.GetCaller(ctx)
	if !ok {
		httptypes.WriteError(w, types.ErrUnauthenticated, a.logger)
		return
	}

	if err := a.service.DeleteItem(ctx, caller.TenantID, chi.URLParam(r, "id")); err != nil {
		httptypes.WriteError(w, err, a.logger)
		return
	}

	a.write(w, http.StatusOK, itemResponse{Message: "Item deleted successfully"})
}

func (a *API) write(w http.ResponseWriter, status int, body any) {
	if err := httptypes.WriteJSON(w, status, body); err != nil {
		a.logger.Errorf("failed to encode response: %v", err)
	}
}

// checkCompany rejects requests naming a tenant other than the caller's.
func checkCompany(caller *types.Caller, companyName string) error {
	if companyName == "" || types.TenantID(companyName) == caller.TenantID {
		return nil
	}
	return types.ErrForbidden
}

func NewAPI(
	service ServiceInterface,
	gate GateInterface,
	uploadMaxBytes int64,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) *API {
	a := new(API)

	a.service = service
	a.gate = gate
	a.uploadMaxBytes = uploadMaxBytes

	a.tracer = tracer
	a.monitor = monitor
	a.logger = logger

	return a
}
