package handler

import (
	"net/http"

	"github.com/Ayush3323/printingbackend/internal/order"
	"github.com/Ayush3323/printingbackend/internal/printjob"
	"github.com/Ayush3323/printingbackend/internal/shipment"
	"github.com/Ayush3323/printingbackend/internal/utils"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// OperationsHandler serves the production-floor routes: batch creation
// and progression, shipments, refunds and manual order transitions.
// Every route here sits behind the operator key middleware.
type OperationsHandler struct {
	validate  *validator.Validate
	orders    order.Service
	printJobs printjob.Service
	shipments shipment.Service
}

func NewOperationsHandler(orders order.Service, printJobs printjob.Service, shipments shipment.Service) *OperationsHandler {
	return &OperationsHandler{
		validate:  validator.New(),
		orders:    orders,
		printJobs: printJobs,
		shipments: shipments,
	}
}

func (h *OperationsHandler) Init(r chi.Router) {
	r.Get("/orders/{order_id}", h.GetOrder)
	r.Post("/orders/{order_id}/status", h.UpdateOrderStatus)
	r.Post("/orders/{order_id}/cancel", h.CancelOrder)
	r.Post("/orders/{order_id}/refund", h.RefundOrder)
	r.Post("/orders/{order_id}/shipment", h.CreateShipment)
	r.Get("/orders/{order_id}/shipment", h.GetShipment)

	r.Post("/print-jobs", h.CreateBatch)
	r.Get("/print-jobs/{batch_id}", h.GetBatch)
	r.Post("/print-jobs/{batch_id}/advance", h.AdvanceBatch)

	r.Patch("/shipments/{shipment_id}/status", h.UpdateShipmentStatus)
	r.Post("/shipments/{shipment_id}/delivered", h.MarkDelivered)
}

func (h *OperationsHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	orderID, err := uuid.Parse(chi.URLParam(r, "order_id"))
	if err != nil {
		utils.WriteError(w, "invalid order id", http.StatusBadRequest)
		return
	}

	o, err := h.orders.GetOrder(ctx, 0, orderID, utils.IsOperator(ctx))
	if err != nil {
		writeDomainError(ctx, w, err)
		return
	}

	utils.WriteJSON(w, orderToResponse(o), http.StatusOK)
}

// CancelOrder cancels on the customer's behalf, typically after items
// were pulled from a batch or the order cannot be produced.
func (h *OperationsHandler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	orderID, err := uuid.Parse(chi.URLParam(r, "order_id"))
	if err != nil {
		utils.WriteError(w, "invalid order id", http.StatusBadRequest)
		return
	}

	o, err := h.orders.Cancel(ctx, 0, orderID, utils.IsOperator(ctx))
	if err != nil {
		writeDomainError(ctx, w, err)
		return
	}

	utils.WriteJSON(w, orderToResponse(o), http.StatusOK)
}

func (h *OperationsHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	orderID, err := uuid.Parse(chi.URLParam(r, "order_id"))
	if err != nil {
		utils.WriteError(w, "invalid order id", http.StatusBadRequest)
		return
	}

	var req UpdateOrderStatusRequest
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	o, err := h.orders.UpdateStatus(ctx, orderID, order.Status(req.Status))
	if err != nil {
		writeDomainError(ctx, w, err)
		return
	}

	utils.WriteJSON(w, orderToResponse(o), http.StatusOK)
}

func (h *OperationsHandler) RefundOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	orderID, err := uuid.Parse(chi.URLParam(r, "order_id"))
	if err != nil {
		utils.WriteError(w, "invalid order id", http.StatusBadRequest)
		return
	}

	var req RefundOrderRequest
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	o, err := h.orders.Refund(ctx, orderID, req.Amount, req.Reason)
	if err != nil {
		writeDomainError(ctx, w, err)
		return
	}

	utils.WriteJSON(w, orderToResponse(o), http.StatusOK)
}

func (h *OperationsHandler) CreateShipment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	orderID, err := uuid.Parse(chi.URLParam(r, "order_id"))
	if err != nil {
		utils.WriteError(w, "invalid order id", http.StatusBadRequest)
		return
	}

	var req CreateShipmentRequest
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	sh, err := h.shipments.Create(ctx, orderID, shipment.CreateShipmentInput{
		Carrier:        req.Carrier,
		TrackingNumber: req.TrackingNumber,
		LabelURL:       req.LabelURL,
		WeightKg:       req.WeightKg,
	})
	if err != nil {
		writeDomainError(ctx, w, err)
		return
	}

	utils.WriteJSON(w, shipmentToResponse(sh), http.StatusCreated)
}

func (h *OperationsHandler) GetShipment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	orderID, err := uuid.Parse(chi.URLParam(r, "order_id"))
	if err != nil {
		utils.WriteError(w, "invalid order id", http.StatusBadRequest)
		return
	}

	sh, err := h.shipments.GetForOrder(ctx, orderID)
	if err != nil {
		writeDomainError(ctx, w, err)
		return
	}

	utils.WriteJSON(w, shipmentToResponse(sh), http.StatusOK)
}

func (h *OperationsHandler) CreateBatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreateBatchRequest
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	itemIDs := make([]uuid.UUID, 0, len(req.ItemIDs))
	for _, raw := range req.ItemIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			utils.WriteError(w, "invalid item id", http.StatusBadRequest)
			return
		}
		itemIDs = append(itemIDs, id)
	}

	job, err := h.printJobs.CreateBatch(ctx, itemIDs, req.PrinterName)
	if err != nil {
		writeDomainError(ctx, w, err)
		return
	}

	utils.WriteJSON(w, printJobToResponse(job), http.StatusCreated)
}

func (h *OperationsHandler) GetBatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	job, err := h.printJobs.GetBatch(ctx, chi.URLParam(r, "batch_id"))
	if err != nil {
		writeDomainError(ctx, w, err)
		return
	}

	utils.WriteJSON(w, printJobToResponse(job), http.StatusOK)
}

func (h *OperationsHandler) AdvanceBatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req AdvanceBatchRequest
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	job, err := h.printJobs.Advance(ctx, chi.URLParam(r, "batch_id"), printjob.Status(req.Status), req.ErrorLog)
	if err != nil {
		writeDomainError(ctx, w, err)
		return
	}

	utils.WriteJSON(w, printJobToResponse(job), http.StatusOK)
}

func (h *OperationsHandler) UpdateShipmentStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	shipmentID, err := uuid.Parse(chi.URLParam(r, "shipment_id"))
	if err != nil {
		utils.WriteError(w, "invalid shipment id", http.StatusBadRequest)
		return
	}

	var req UpdateShipmentStatusRequest
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	sh, err := h.shipments.UpdateStatus(ctx, shipmentID, req.Status)
	if err != nil {
		writeDomainError(ctx, w, err)
		return
	}

	utils.WriteJSON(w, shipmentToResponse(sh), http.StatusOK)
}

func (h *OperationsHandler) MarkDelivered(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	shipmentID, err := uuid.Parse(chi.URLParam(r, "shipment_id"))
	if err != nil {
		utils.WriteError(w, "invalid shipment id", http.StatusBadRequest)
		return
	}

	sh, err := h.shipments.MarkDelivered(ctx, shipmentID)
	if err != nil {
		writeDomainError(ctx, w, err)
		return
	}

	utils.WriteJSON(w, shipmentToResponse(sh), http.StatusOK)
}
