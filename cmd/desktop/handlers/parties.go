package handlers

import (
	"net/http"

	"github.com/dmoreira/rentdesk/internal/db"
	apperrors "github.com/dmoreira/rentdesk/internal/errors"
	"github.com/dmoreira/rentdesk/internal/models"
	"github.com/dmoreira/rentdesk/internal/validate"
)

// PartyHandler serves owners or tenants; the two tables share shape, so one
// handler covers both parameterized by table name.
type PartyHandler struct {
	store     *db.Store
	validator *validate.Validator
	table     string
}

// NewOwnersHandler creates the handler for /owners.
func NewOwnersHandler(store *db.Store, v *validate.Validator) *PartyHandler {
	return &PartyHandler{store: store, validator: v, table: models.TableOwners}
}

// NewTenantsHandler creates the handler for /tenants.
func NewTenantsHandler(store *db.Store, v *validate.Validator) *PartyHandler {
	return &PartyHandler{store: store, validator: v, table: models.TableTenants}
}

type partyRequest struct {
	FirstName  string `json:"first_name" validate:"required"`
	LastName   string `json:"last_name" validate:"required"`
	TaxID      string `json:"tax_id" validate:"required,taxid"`
	Phone      string `json:"phone" validate:"required"`
	Email      string `json:"email" validate:"omitempty,email"`
	Address    string `json:"address" validate:"required"`
	BirthDate  string `json:"birth_date" validate:"omitempty,dateymd"`
	Occupation string `json:"occupation"`
}

func (req *partyRequest) fields(table string) models.Record {
	rec := models.Record{
		"first_name": req.FirstName,
		"last_name":  req.LastName,
		"tax_id":     validate.NormalizeTaxID(req.TaxID),
		"phone":      req.Phone,
		"email":      req.Email,
		"address":    req.Address,
	}
	if table == models.TableTenants {
		rec["birth_date"] = req.BirthDate
		rec["occupation"] = req.Occupation
	}
	return rec
}

// List handles GET /{table}. An optional ?q= filters by last name.
func (h *PartyHandler) List(w http.ResponseWriter, r *http.Request) {
	var (
		rows []models.Record
		err  error
	)
	if q := r.URL.Query().Get("q"); q != "" {
		rows, err = h.store.Search(h.table, "last_name", q)
	} else {
		rows, err = h.store.GetAll(h.table)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": rows, "total": len(rows)})
}

// Get handles GET /{table}/{id}.
func (h *PartyHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	rec, err := h.store.GetByID(h.table, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// Create handles POST /{table}.
func (h *PartyHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req partyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		writeError(w, err)
		return
	}
	if err := h.checkTaxID(req.TaxID, 0); err != nil {
		writeError(w, err)
		return
	}

	id, err := h.store.Insert(h.table, req.fields(h.table))
	if err != nil {
		writeError(w, err)
		return
	}
	rec, err := h.store.GetByID(h.table, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

// Update handles PUT /{table}/{id}.
func (h *PartyHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req partyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		writeError(w, err)
		return
	}
	if err := h.checkTaxID(req.TaxID, id); err != nil {
		writeError(w, err)
		return
	}

	if err := h.store.Update(h.table, id, req.fields(h.table)); err != nil {
		writeError(w, err)
		return
	}
	rec, err := h.store.GetByID(h.table, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// Delete handles DELETE /{table}/{id}.
func (h *PartyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.store.Delete(h.table, id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"deleted": id})
}

func (h *PartyHandler) checkTaxID(taxID string, excludeID int64) error {
	exists, err := h.store.TaxIDExists(h.table, validate.NormalizeTaxID(taxID), excludeID)
	if err != nil {
		return err
	}
	if exists {
		return apperrors.New(apperrors.ErrDuplicate, "tax id is already registered")
	}
	return nil
}
