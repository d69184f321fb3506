package handlers

import (
	"net/http"

	"github.com/dmoreira/rentdesk/internal/db"
	"github.com/dmoreira/rentdesk/internal/models"
	"github.com/dmoreira/rentdesk/internal/validate"
)

// PropertiesHandler serves the property catalogue.
type PropertiesHandler struct {
	store     *db.Store
	validator *validate.Validator
}

// NewPropertiesHandler creates the handler for /properties.
func NewPropertiesHandler(store *db.Store, v *validate.Validator) *PropertiesHandler {
	return &PropertiesHandler{store: store, validator: v}
}

type propertyRequest struct {
	OwnerID       int64   `json:"owner_id" validate:"required,gt=0"`
	Type          string  `json:"type" validate:"required,oneof=house apartment lot commercial"`
	Address       string  `json:"address" validate:"required"`
	City          string  `json:"city"`
	Province      string  `json:"province"`
	PostalCode    string  `json:"postal_code"`
	SurfaceM2     float64 `json:"surface_m2" validate:"omitempty,gt=0"`
	Rooms         int64   `json:"rooms"`
	Bathrooms     int64   `json:"bathrooms"`
	SalePrice     float64 `json:"sale_price"`
	RentPrice     float64 `json:"rent_price"`
	CadastralID   string  `json:"cadastral_id"`
	ElectricMeter string  `json:"electric_meter"`
	WaterMeter    string  `json:"water_meter"`
	Status        string  `json:"status" validate:"omitempty,oneof=available rented sold"`
	Description   string  `json:"description"`
}

func (req *propertyRequest) model() *models.Property {
	city := req.City
	if city == "" {
		city = "Posadas"
	}
	province := req.Province
	if province == "" {
		province = "Misiones"
	}
	return &models.Property{
		OwnerID:       req.OwnerID,
		Type:          req.Type,
		Address:       req.Address,
		City:          city,
		Province:      province,
		PostalCode:    req.PostalCode,
		SurfaceM2:     req.SurfaceM2,
		Rooms:         req.Rooms,
		Bathrooms:     req.Bathrooms,
		SalePrice:     req.SalePrice,
		RentPrice:     req.RentPrice,
		CadastralID:   req.CadastralID,
		ElectricMeter: req.ElectricMeter,
		WaterMeter:    req.WaterMeter,
		Status:        req.Status,
		Description:   req.Description,
	}
}

// List handles GET /properties. ?status=available narrows to the free stock
// with owner names joined in.
func (h *PropertiesHandler) List(w http.ResponseWriter, r *http.Request) {
	var (
		rows []models.Record
		err  error
	)
	switch r.URL.Query().Get("status") {
	case models.PropertyAvailable:
		rows, err = h.store.AvailableProperties()
	case "":
		rows, err = h.store.GetAll(models.TableProperties)
	default:
		rows, err = h.store.Search(models.TableProperties, "status", r.URL.Query().Get("status"))
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": rows, "total": len(rows)})
}

// Get handles GET /properties/{id}.
func (h *PropertiesHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	rec, err := h.store.GetByID(models.TableProperties, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// Create handles POST /properties.
func (h *PropertiesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req propertyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		writeError(w, err)
		return
	}
	if _, err := h.store.GetByID(models.TableOwners, req.OwnerID); err != nil {
		writeError(w, err)
		return
	}

	id, err := h.store.Insert(models.TableProperties, req.model().Fields())
	if err != nil {
		writeError(w, err)
		return
	}
	rec, err := h.store.GetByID(models.TableProperties, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

// Update handles PUT /properties/{id}.
func (h *PropertiesHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req propertyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		writeError(w, err)
		return
	}

	if err := h.store.Update(models.TableProperties, id, req.model().Fields()); err != nil {
		writeError(w, err)
		return
	}
	rec, err := h.store.GetByID(models.TableProperties, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// Delete handles DELETE /properties/{id}.
func (h *PropertiesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.store.Delete(models.TableProperties, id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"deleted": id})
}
