package handler

import (
	"encoding/json"
	"time"

	"github.com/Ayush3323/printingbackend/internal/address"
	"github.com/Ayush3323/printingbackend/internal/order"
	"github.com/Ayush3323/printingbackend/internal/printjob"
	"github.com/Ayush3323/printingbackend/internal/shipment"

	"github.com/google/uuid"
)

// ---- Requests ----

type CreateOrderItemRequest struct {
	ProductID         string   `json:"product_id" validate:"required,uuid"`
	DesignID          *string  `json:"design_id" validate:"omitempty,uuid"`
	AttributeValueIDs []string `json:"attribute_value_ids" validate:"omitempty,dive,uuid"`
	Quantity          int      `json:"quantity" validate:"required,gt=0"`
}

type CreateOrderRequest struct {
	Currency          string                   `json:"currency" validate:"omitempty,len=3"`
	ShippingAddressID *string                  `json:"shipping_address_id" validate:"omitempty,uuid"`
	BillingAddressID  *string                  `json:"billing_address_id" validate:"omitempty,uuid"`
	CustomerNotes     string                   `json:"customer_notes"`
	Items             []CreateOrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

type PayOrderRequest struct {
	PaymentMethod string `json:"payment_method" validate:"required"`
	TransactionID string `json:"transaction_id"`
}

type RefundOrderRequest struct {
	Amount int64  `json:"amount" validate:"required,gt=0"`
	Reason string `json:"reason" validate:"required"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=Processing Hold Printing"`
}

type CreateBatchRequest struct {
	ItemIDs     []string `json:"item_ids" validate:"required,min=1,dive,uuid"`
	PrinterName string   `json:"printer_name"`
}

type AdvanceBatchRequest struct {
	Status   string `json:"status" validate:"required,oneof=Ripping Printing Cutting Completed Failed"`
	ErrorLog string `json:"error_log"`
}

type CreateShipmentRequest struct {
	Carrier        string  `json:"carrier" validate:"required"`
	TrackingNumber string  `json:"tracking_number" validate:"required"`
	LabelURL       string  `json:"label_url" validate:"omitempty,url"`
	WeightKg       float64 `json:"weight_kg" validate:"gte=0"`
}

type UpdateShipmentStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type CreateAddressRequest struct {
	CompanyName    string `json:"company_name"`
	RecipientName  string `json:"recipient_name" validate:"required"`
	PhoneNumber    string `json:"phone_number" validate:"required"`
	Street         string `json:"street" validate:"required"`
	ApartmentSuite string `json:"apartment_suite"`
	City           string `json:"city" validate:"required"`
	State          string `json:"state"`
	ZipCode        string `json:"zip_code" validate:"required"`
	Country        string `json:"country" validate:"required"`
	Type           string `json:"type" validate:"required,oneof=billing shipping"`
	SetAsDefault   bool   `json:"set_as_default"`
}

// ---- Responses ----

type OrderItemResponse struct {
	ID                  string          `json:"id"`
	ProductID           *string         `json:"product_id"`
	DesignID            *string         `json:"design_id"`
	Quantity            int             `json:"quantity"`
	UnitPrice           int64           `json:"unit_price"`
	TotalPrice          int64           `json:"total_price"`
	ProductNameSnapshot string          `json:"product_name"`
	SKUSnapshot         string          `json:"sku"`
	FrozenCanvasState   json.RawMessage `json:"frozen_canvas_state,omitempty"`
	PrintFileURL        string          `json:"print_file_url,omitempty"`
	RenderStatus        string          `json:"render_status"`
}

type OrderResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`

	Currency      string `json:"currency"`
	Subtotal      int64  `json:"subtotal"`
	TaxTotal      int64  `json:"tax_total"`
	ShippingTotal int64  `json:"shipping_total"`
	DiscountTotal int64  `json:"discount_total"`
	TotalAmount   int64  `json:"total_amount"`
	RefundTotal   int64  `json:"refund_total,omitempty"`

	IsPaid bool       `json:"is_paid"`
	PaidAt *time.Time `json:"paid_at,omitempty"`

	ShippingAddressID *string `json:"shipping_address_id"`
	BillingAddressID  *string `json:"billing_address_id"`

	CustomerNotes string    `json:"customer_notes,omitempty"`
	CreatedAt     time.Time `json:"created_at"`

	Items []OrderItemResponse `json:"items"`
}

type PrintJobResponse struct {
	BatchID     string     `json:"batch_id"`
	Status      string     `json:"status"`
	PrinterName string     `json:"printer_name,omitempty"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	ErrorLog    string     `json:"error_log,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	ItemIDs     []string   `json:"item_ids"`
}

type ShipmentResponse struct {
	ID             string     `json:"id"`
	OrderID        string     `json:"order_id"`
	Carrier        string     `json:"carrier"`
	TrackingNumber string     `json:"tracking_number"`
	LabelURL       string     `json:"label_url,omitempty"`
	Status         string     `json:"status"`
	WeightKg       float64    `json:"weight_kg"`
	ShippedAt      time.Time  `json:"shipped_at"`
	DeliveredAt    *time.Time `json:"delivered_at,omitempty"`
}

type AddressResponse struct {
	ID            string `json:"id"`
	CompanyName   string `json:"company_name,omitempty"`
	RecipientName string `json:"recipient_name"`
	PhoneNumber   string `json:"phone_number"`
	Street        string `json:"street"`
	City          string `json:"city"`
	State         string `json:"state,omitempty"`
	ZipCode       string `json:"zip_code"`
	Country       string `json:"country"`
	Type          string `json:"type"`
	IsDefault     bool   `json:"is_default"`
}

// ---- Mappers ----

func (r CreateOrderRequest) toInput() (order.CreateOrderInput, error) {
	input := order.CreateOrderInput{
		Currency:      r.Currency,
		CustomerNotes: r.CustomerNotes,
	}

	var err error
	if input.ShippingAddressID, err = parseOptionalUUID(r.ShippingAddressID); err != nil {
		return input, err
	}
	if input.BillingAddressID, err = parseOptionalUUID(r.BillingAddressID); err != nil {
		return input, err
	}

	for _, item := range r.Items {
		line := order.OrderLine{Quantity: item.Quantity}

		if line.ProductID, err = uuid.Parse(item.ProductID); err != nil {
			return input, err
		}
		if line.DesignID, err = parseOptionalUUID(item.DesignID); err != nil {
			return input, err
		}
		for _, avID := range item.AttributeValueIDs {
			id, err := uuid.Parse(avID)
			if err != nil {
				return input, err
			}
			line.AttributeValueIDs = append(line.AttributeValueIDs, id)
		}

		input.Lines = append(input.Lines, line)
	}

	return input, nil
}

func parseOptionalUUID(s *string) (*uuid.UUID, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func orderToResponse(o *order.Order) OrderResponse {
	res := OrderResponse{
		ID:     o.ID.String(),
		Status: string(o.Status),

		Currency:      o.Currency,
		Subtotal:      o.Subtotal,
		TaxTotal:      o.TaxTotal,
		ShippingTotal: o.ShippingTotal,
		DiscountTotal: o.DiscountTotal,
		TotalAmount:   o.TotalAmount,
		RefundTotal:   o.RefundTotal,

		IsPaid: o.IsPaid,
		PaidAt: o.PaidAt,

		ShippingAddressID: uuidToString(o.ShippingAddressID),
		BillingAddressID:  uuidToString(o.BillingAddressID),

		CustomerNotes: o.CustomerNotes,
		CreatedAt:     o.CreatedAt,
	}

	for _, item := range o.Items {
		res.Items = append(res.Items, OrderItemResponse{
			ID:                  item.ID.String(),
			ProductID:           uuidToString(item.ProductID),
			DesignID:            uuidToString(item.DesignID),
			Quantity:            item.Quantity,
			UnitPrice:           item.UnitPrice,
			TotalPrice:          item.TotalPrice,
			ProductNameSnapshot: item.ProductNameSnapshot,
			SKUSnapshot:         item.SKUSnapshot,
			FrozenCanvasState:   item.FrozenCanvasState,
			PrintFileURL:        item.PrintFileURL,
			RenderStatus:        string(item.RenderStatus),
		})
	}

	return res
}

func printJobToResponse(job *printjob.PrintJob) PrintJobResponse {
	res := PrintJobResponse{
		BatchID:     job.BatchID,
		Status:      string(job.Status),
		PrinterName: job.PrinterName,
		StartedAt:   job.StartedAt,
		CompletedAt: job.CompletedAt,
		ErrorLog:    job.ErrorLog,
		CreatedAt:   job.CreatedAt,
	}
	for _, id := range job.ItemIDs {
		res.ItemIDs = append(res.ItemIDs, id.String())
	}
	return res
}

func shipmentToResponse(sh *shipment.Shipment) ShipmentResponse {
	return ShipmentResponse{
		ID:             sh.ID.String(),
		OrderID:        sh.OrderID.String(),
		Carrier:        sh.Carrier,
		TrackingNumber: sh.TrackingNumber,
		LabelURL:       sh.LabelURL,
		Status:         sh.Status,
		WeightKg:       sh.WeightKg,
		ShippedAt:      sh.ShippedAt,
		DeliveredAt:    sh.DeliveredAt,
	}
}

func addressToResponse(a *address.Address) AddressResponse {
	return AddressResponse{
		ID:            a.ID.String(),
		CompanyName:   a.CompanyName,
		RecipientName: a.RecipientName,
		PhoneNumber:   a.PhoneNumber,
		Street:        a.Street,
		City:          a.City,
		State:         a.State,
		ZipCode:       a.ZipCode,
		Country:       a.Country,
		Type:          string(a.Type),
		IsDefault:     a.IsDefault,
	}
}

func uuidToString(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}
