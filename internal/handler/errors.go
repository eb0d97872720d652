package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/Ayush3323/printingbackend/internal/address"
	"github.com/Ayush3323/printingbackend/internal/catalog"
	"github.com/Ayush3323/printingbackend/internal/design"
	"github.com/Ayush3323/printingbackend/internal/logger"
	"github.com/Ayush3323/printingbackend/internal/order"
	"github.com/Ayush3323/printingbackend/internal/printjob"
	"github.com/Ayush3323/printingbackend/internal/shipment"
	"github.com/Ayush3323/printingbackend/internal/utils"

	"go.uber.org/zap"
)

// writeDomainError maps the error taxonomy onto HTTP statuses. Callers
// see the kind and a human-readable reason, never internal detail.
func writeDomainError(ctx context.Context, w http.ResponseWriter, err error) {
	var ve *order.ValidationError
	if errors.As(err, &ve) {
		utils.WriteError(w, ve.Reason, http.StatusBadRequest)
		return
	}

	var abe *printjob.AlreadyBatchedError
	if errors.As(err, &abe) {
		utils.WriteError(w, abe.Error(), http.StatusConflict)
		return
	}

	switch {
	case errors.Is(err, catalog.ErrOutOfStock):
		utils.WriteError(w, err.Error(), http.StatusConflict)
	case errors.Is(err, shipment.ErrAlreadyShipped),
		errors.Is(err, shipment.ErrAlreadyDelivered):
		utils.WriteError(w, err.Error(), http.StatusConflict)
	case errors.Is(err, order.ErrInvalidTransition),
		errors.Is(err, printjob.ErrInvalidTransition):
		utils.WriteError(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, printjob.ErrEmptyErrorLog),
		errors.Is(err, printjob.ErrNoItems),
		errors.Is(err, address.ErrInvalidType),
		errors.Is(err, shipment.ErrMissingCarrier),
		errors.Is(err, shipment.ErrEmptyStatus):
		utils.WriteError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, order.ErrOrderNotFound),
		errors.Is(err, order.ErrItemNotFound),
		errors.Is(err, catalog.ErrProductNotFound),
		errors.Is(err, catalog.ErrAttributeNotFound),
		errors.Is(err, design.ErrDesignNotFound),
		errors.Is(err, address.ErrAddressNotFound),
		errors.Is(err, printjob.ErrBatchNotFound),
		errors.Is(err, shipment.ErrShipmentNotFound):
		utils.WriteError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, order.ErrUnauthorized):
		utils.WriteError(w, "unauthorized", http.StatusForbidden)
	default:
		logger.FromCtx(ctx).Error("internal error", zap.Error(err))
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
	}
}
