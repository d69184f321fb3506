package handlers

import (
	"net/http"
	"strconv"

	"github.com/dmoreira/rentdesk/internal/db"
	apperrors "github.com/dmoreira/rentdesk/internal/errors"
	"github.com/dmoreira/rentdesk/internal/ledger"
	"github.com/dmoreira/rentdesk/internal/models"
	"github.com/dmoreira/rentdesk/internal/validate"
)

// LeasesHandler serves leases plus their rent-adjustment operations.
type LeasesHandler struct {
	store     *db.Store
	ledger    *ledger.Ledger
	validator *validate.Validator
}

// NewLeasesHandler creates the handler for /leases.
func NewLeasesHandler(store *db.Store, lg *ledger.Ledger, v *validate.Validator) *LeasesHandler {
	return &LeasesHandler{store: store, ledger: lg, validator: v}
}

type leaseRequest struct {
	PropertyID          int64   `json:"property_id" validate:"required,gt=0"`
	TenantID            int64   `json:"tenant_id" validate:"required,gt=0"`
	StartDate           string  `json:"start_date" validate:"required,dateymd"`
	EndDate             string  `json:"end_date" validate:"required,dateymd"`
	MonthlyAmount       float64 `json:"monthly_amount" validate:"required,gt=0"`
	Deposit             float64 `json:"deposit"`
	CommonCharges       float64 `json:"common_charges"`
	AdjustmentType      string  `json:"adjustment_type"`
	AdjustmentFrequency int64   `json:"adjustment_frequency" validate:"omitempty,gt=0"`
	Status              string  `json:"status" validate:"omitempty,oneof=active ended terminated renewed"`
	Notes               string  `json:"notes"`
}

func (req *leaseRequest) model() *models.Lease {
	return &models.Lease{
		PropertyID:          req.PropertyID,
		TenantID:            req.TenantID,
		StartDate:           req.StartDate,
		EndDate:             req.EndDate,
		MonthlyAmount:       req.MonthlyAmount,
		Deposit:             req.Deposit,
		CommonCharges:       req.CommonCharges,
		AdjustmentType:      req.AdjustmentType,
		AdjustmentFrequency: req.AdjustmentFrequency,
		Status:              req.Status,
		Notes:               req.Notes,
	}
}

// List handles GET /leases. ?status=active returns the joined active view;
// ?expiring=N lists active leases ending within N days.
func (h *LeasesHandler) List(w http.ResponseWriter, r *http.Request) {
	var (
		rows []models.Record
		err  error
	)
	if days := r.URL.Query().Get("expiring"); days != "" {
		n, convErr := strconv.Atoi(days)
		if convErr != nil || n < 0 {
			writeError(w, apperrors.New(apperrors.ErrValidation, "expiring must be a non-negative number of days"))
			return
		}
		rows, err = h.store.LeasesExpiringWithin(n)
	} else if r.URL.Query().Get("status") == models.LeaseActive {
		rows, err = h.store.ActiveLeases()
	} else {
		rows, err = h.store.GetAll(models.TableLeases)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": rows, "total": len(rows)})
}

// Get handles GET /leases/{id}.
func (h *LeasesHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	rec, err := h.store.GetByID(models.TableLeases, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// Create handles POST /leases. The property must exist and be available; it
// flips to rented as part of the create.
func (h *LeasesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req leaseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		writeError(w, err)
		return
	}
	if req.EndDate <= req.StartDate {
		writeError(w, apperrors.New(apperrors.ErrValidation, "end_date must be after start_date"))
		return
	}
	if _, err := h.store.GetByID(models.TableTenants, req.TenantID); err != nil {
		writeError(w, err)
		return
	}
	prop, err := h.store.GetByID(models.TableProperties, req.PropertyID)
	if err != nil {
		writeError(w, err)
		return
	}
	if prop.String("status") == models.PropertyRented {
		writeError(w, apperrors.New(apperrors.ErrConstraint, "property already has an active lease"))
		return
	}

	id, err := h.store.Insert(models.TableLeases, req.model().Fields())
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.store.Update(models.TableProperties, req.PropertyID, models.Record{
		"status": models.PropertyRented,
	}); err != nil {
		writeError(w, err)
		return
	}

	rec, err := h.store.GetByID(models.TableLeases, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

// Update handles PUT /leases/{id}. Ending a lease releases its property.
func (h *LeasesHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req leaseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		writeError(w, err)
		return
	}

	if err := h.store.Update(models.TableLeases, id, req.model().Fields()); err != nil {
		writeError(w, err)
		return
	}
	if req.Status == models.LeaseEnded || req.Status == models.LeaseTerminated {
		if err := h.store.Update(models.TableProperties, req.PropertyID, models.Record{
			"status": models.PropertyAvailable,
		}); err != nil {
			writeError(w, err)
			return
		}
	}

	rec, err := h.store.GetByID(models.TableLeases, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// Delete handles DELETE /leases/{id}.
func (h *LeasesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.store.Delete(models.TableLeases, id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"deleted": id})
}

type adjustmentRequest struct {
	Date       string  `json:"date" validate:"required,dateymd"`
	Percentage float64 `json:"percentage" validate:"required,gt=0"`
	Notes      string  `json:"notes"`
}

// ApplyAdjustment handles POST /leases/{id}/adjustments.
func (h *LeasesHandler) ApplyAdjustment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req adjustmentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		writeError(w, err)
		return
	}

	adj, err := h.ledger.ApplyAdjustment(id, req.Date, req.Percentage, req.Notes)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, adj)
}

// Adjustments handles GET /leases/{id}/adjustments.
func (h *LeasesHandler) Adjustments(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	rows, err := h.ledger.History(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": rows, "total": len(rows)})
}

// DueForAdjustment handles GET /leases/due-for-adjustment.
func (h *LeasesHandler) DueForAdjustment(w http.ResponseWriter, r *http.Request) {
	rows, err := h.store.LeasesDueForAdjustment()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": rows, "total": len(rows)})
}
