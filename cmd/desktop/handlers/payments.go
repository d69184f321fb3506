package handlers

import (
	"math"
	"net/http"
	"strconv"

	"github.com/dmoreira/rentdesk/internal/balance"
	"github.com/dmoreira/rentdesk/internal/db"
	apperrors "github.com/dmoreira/rentdesk/internal/errors"
	"github.com/dmoreira/rentdesk/internal/models"
	"github.com/dmoreira/rentdesk/internal/validate"
)

// PaymentsHandler serves payment collection and balance reporting.
type PaymentsHandler struct {
	store      *db.Store
	calculator *balance.Calculator
	validator  *validate.Validator
}

// NewPaymentsHandler creates the handler for /payments.
func NewPaymentsHandler(store *db.Store, calc *balance.Calculator, v *validate.Validator) *PaymentsHandler {
	return &PaymentsHandler{store: store, calculator: calc, validator: v}
}

type paymentRequest struct {
	LeaseID           int64   `json:"lease_id" validate:"required,gt=0"`
	PaymentDate       string  `json:"payment_date" validate:"required,dateymd"`
	PeriodMonth       int64   `json:"period_month" validate:"required,min=1,max=12"`
	PeriodYear        int64   `json:"period_year" validate:"required,min=2000"`
	RentAmount        float64 `json:"rent_amount" validate:"required,gt=0"`
	CommonCharges     float64 `json:"common_charges" validate:"gte=0"`
	ElectricityAmount float64 `json:"electricity_amount" validate:"gte=0"`
	WaterAmount       float64 `json:"water_amount" validate:"gte=0"`
	OtherAmount       float64 `json:"other_amount" validate:"gte=0"`
	Total             float64 `json:"total" validate:"required,gt=0"`
	Concept           string  `json:"concept"`
	Method            string  `json:"method"`
	ReceiptNumber     string  `json:"receipt_number"`
}

func (req *paymentRequest) model() *models.Payment {
	return &models.Payment{
		LeaseID:           req.LeaseID,
		PaymentDate:       req.PaymentDate,
		PeriodMonth:       req.PeriodMonth,
		PeriodYear:        req.PeriodYear,
		RentAmount:        req.RentAmount,
		CommonCharges:     req.CommonCharges,
		ElectricityAmount: req.ElectricityAmount,
		WaterAmount:       req.WaterAmount,
		OtherAmount:       req.OtherAmount,
		Total:             req.Total,
		Concept:           req.Concept,
		Method:            req.Method,
		ReceiptNumber:     req.ReceiptNumber,
	}
}

// List handles GET /payments. ?lease_id=N narrows to one lease's history.
func (h *PaymentsHandler) List(w http.ResponseWriter, r *http.Request) {
	var (
		rows []models.Record
		err  error
	)
	if leaseParam := r.URL.Query().Get("lease_id"); leaseParam != "" {
		leaseID, convErr := strconv.ParseInt(leaseParam, 10, 64)
		if convErr != nil || leaseID <= 0 {
			writeError(w, apperrors.New(apperrors.ErrValidation, "invalid lease_id"))
			return
		}
		rows, err = h.store.PaymentsForLease(leaseID)
	} else {
		rows, err = h.store.GetAll(models.TablePayments)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": rows, "total": len(rows)})
}

// Get handles GET /payments/{id}.
func (h *PaymentsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	rec, err := h.store.GetByID(models.TablePayments, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// Create handles POST /payments. The declared total must match the sum of
// the component amounts to the cent.
func (h *PaymentsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req paymentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		writeError(w, err)
		return
	}
	payment := req.model()
	if math.Abs(payment.Total-payment.ComponentSum()) > 0.01 {
		writeError(w, apperrors.New(apperrors.ErrValidation, "total does not match the sum of the amounts"))
		return
	}
	if _, err := h.store.GetByID(models.TableLeases, req.LeaseID); err != nil {
		writeError(w, err)
		return
	}

	id, err := h.store.Insert(models.TablePayments, payment.Fields())
	if err != nil {
		writeError(w, err)
		return
	}
	rec, err := h.store.GetByID(models.TablePayments, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

// Delete handles DELETE /payments/{id}. Payments are corrected by deleting
// and re-entering; there is no update path.
func (h *PaymentsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.store.Delete(models.TablePayments, id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"deleted": id})
}

// Receipt handles GET /payments/{id}/receipt, returning the joined data a
// printed receipt needs.
func (h *PaymentsHandler) Receipt(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	rec, err := h.store.ReceiptData(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// Balances handles GET /payments/balances: one statement per active lease.
func (h *PaymentsHandler) Balances(w http.ResponseWriter, r *http.Request) {
	statements, err := h.calculator.ComputeActive()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": statements, "total": len(statements)})
}

// LeaseBalance handles GET /leases/{id}/balance.
func (h *PaymentsHandler) LeaseBalance(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	statement, err := h.calculator.ComputeLease(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, statement)
}
