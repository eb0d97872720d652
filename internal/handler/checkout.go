package handler

import (
	"net/http"

	"github.com/Ayush3323/printingbackend/internal/address"
	"github.com/Ayush3323/printingbackend/internal/order"
	"github.com/Ayush3323/printingbackend/internal/utils"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// CheckoutHandler serves the customer-facing routes: checkout, order
// lookup, payment and cancellation, plus address book management.
type CheckoutHandler struct {
	validate  *validator.Validate
	orders    order.Service
	addresses address.Service
}

func NewCheckoutHandler(orders order.Service, addresses address.Service) *CheckoutHandler {
	return &CheckoutHandler{
		validate:  validator.New(),
		orders:    orders,
		addresses: addresses,
	}
}

func (h *CheckoutHandler) Init(r chi.Router) {
	r.Post("/orders", h.CreateOrder)
	r.Get("/orders/{order_id}", h.GetOrder)
	r.Post("/orders/{order_id}/pay", h.PayOrder)
	r.Post("/orders/{order_id}/cancel", h.CancelOrder)

	r.Get("/addresses", h.ListAddresses)
	r.Post("/addresses", h.CreateAddress)
	r.Post("/addresses/{address_id}/default", h.SetDefaultAddress)
	r.Delete("/addresses/{address_id}", h.DeleteAddress)
}

func (h *CheckoutHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		utils.WriteError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req CreateOrderRequest
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	input, err := req.toInput()
	if err != nil {
		utils.WriteError(w, "invalid identifier in request", http.StatusBadRequest)
		return
	}

	o, err := h.orders.CreateOrder(ctx, userID, input)
	if err != nil {
		writeDomainError(ctx, w, err)
		return
	}

	utils.WriteJSON(w, orderToResponse(o), http.StatusCreated)
}

func (h *CheckoutHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		utils.WriteError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	orderID, err := uuid.Parse(chi.URLParam(r, "order_id"))
	if err != nil {
		utils.WriteError(w, "invalid order id", http.StatusBadRequest)
		return
	}

	o, err := h.orders.GetOrder(ctx, userID, orderID, false)
	if err != nil {
		writeDomainError(ctx, w, err)
		return
	}

	utils.WriteJSON(w, orderToResponse(o), http.StatusOK)
}

// PayOrder records the payment confirmation for an order. Safe to call
// more than once; a redundant confirmation changes nothing.
func (h *CheckoutHandler) PayOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		utils.WriteError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	orderID, err := uuid.Parse(chi.URLParam(r, "order_id"))
	if err != nil {
		utils.WriteError(w, "invalid order id", http.StatusBadRequest)
		return
	}

	var req PayOrderRequest
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	o, err := h.orders.MarkPaid(ctx, userID, orderID, req.PaymentMethod, req.TransactionID)
	if err != nil {
		writeDomainError(ctx, w, err)
		return
	}

	utils.WriteJSON(w, orderToResponse(o), http.StatusOK)
}

func (h *CheckoutHandler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		utils.WriteError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	orderID, err := uuid.Parse(chi.URLParam(r, "order_id"))
	if err != nil {
		utils.WriteError(w, "invalid order id", http.StatusBadRequest)
		return
	}

	o, err := h.orders.Cancel(ctx, userID, orderID, false)
	if err != nil {
		writeDomainError(ctx, w, err)
		return
	}

	utils.WriteJSON(w, orderToResponse(o), http.StatusOK)
}

func (h *CheckoutHandler) ListAddresses(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		utils.WriteError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	addrs, err := h.addresses.List(ctx, userID)
	if err != nil {
		writeDomainError(ctx, w, err)
		return
	}

	res := make([]AddressResponse, 0, len(addrs))
	for _, a := range addrs {
		res = append(res, addressToResponse(a))
	}
	utils.WriteJSON(w, res, http.StatusOK)
}

func (h *CheckoutHandler) CreateAddress(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		utils.WriteError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req CreateAddressRequest
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	addr, err := h.addresses.Create(ctx, userID, address.CreateAddressInput{
		CompanyName:    req.CompanyName,
		RecipientName:  req.RecipientName,
		PhoneNumber:    req.PhoneNumber,
		Street:         req.Street,
		ApartmentSuite: req.ApartmentSuite,
		City:           req.City,
		State:          req.State,
		ZipCode:        req.ZipCode,
		Country:        req.Country,
		Type:           address.Type(req.Type),
		SetAsDefault:   req.SetAsDefault,
	})
	if err != nil {
		writeDomainError(ctx, w, err)
		return
	}

	utils.WriteJSON(w, addressToResponse(addr), http.StatusCreated)
}

func (h *CheckoutHandler) SetDefaultAddress(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		utils.WriteError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	addressID, err := uuid.Parse(chi.URLParam(r, "address_id"))
	if err != nil {
		utils.WriteError(w, "invalid address id", http.StatusBadRequest)
		return
	}

	addr, err := h.addresses.SetDefault(ctx, userID, addressID)
	if err != nil {
		writeDomainError(ctx, w, err)
		return
	}

	utils.WriteJSON(w, addressToResponse(addr), http.StatusOK)
}

func (h *CheckoutHandler) DeleteAddress(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		utils.WriteError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	addressID, err := uuid.Parse(chi.URLParam(r, "address_id"))
	if err != nil {
		utils.WriteError(w, "invalid address id", http.StatusBadRequest)
		return
	}

	if err := h.addresses.Delete(ctx, userID, addressID); err != nil {
		writeDomainError(ctx, w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
