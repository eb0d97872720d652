package order

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Ayush3323/printingbackend/internal/address"
	"github.com/Ayush3323/printingbackend/internal/catalog"
	"github.com/Ayush3323/printingbackend/internal/design"
	"github.com/Ayush3323/printingbackend/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type OrderLine struct {
	ProductID         uuid.UUID
	DesignID          *uuid.UUID
	AttributeValueIDs []uuid.UUID
	Quantity          int
}

type CreateOrderInput struct {
	Currency          string
	ShippingAddressID *uuid.UUID
	BillingAddressID  *uuid.UUID
	CustomerNotes     string
	Lines             []OrderLine
}

// AddressResolver is the slice of the address service checkout needs.
type AddressResolver interface {
	GetUserAddress(ctx context.Context, addressID uuid.UUID, userID uint) (*address.Address, error)
	DefaultFor(ctx context.Context, userID uint, typ address.Type) (*address.Address, error)
}

// RenderRequester asks the design service to start producing print files.
type RenderRequester interface {
	RequestRender(ctx context.Context, itemID uuid.UUID, canvas json.RawMessage) error
}

type Service interface {
	CreateOrder(ctx context.Context, userID uint, input CreateOrderInput) (*Order, error)
	GetOrder(ctx context.Context, userID uint, orderID uuid.UUID, operator bool) (*Order, error)
	MarkPaid(ctx context.Context, userID uint, orderID uuid.UUID, method, transactionID string) (*Order, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, to Status) (*Order, error)
	Cancel(ctx context.Context, userID uint, orderID uuid.UUID, operator bool) (*Order, error)
	Refund(ctx context.Context, orderID uuid.UUID, amount int64, reason string) (*Order, error)
	ApplyRenderUpdate(ctx context.Context, itemID uuid.UUID, status RenderStatus, printFileURL string) error
}

type service struct {
	repo      Repository
	catalog   catalog.Repository
	designs   design.Repository
	addresses AddressResolver
	renders   RenderRequester
	now       func() time.Time
}

func NewService(
	repo Repository,
	catalogRepo catalog.Repository,
	designRepo design.Repository,
	addresses AddressResolver,
	renders RenderRequester,
) Service {
	return &service{
		repo:      repo,
		catalog:   catalogRepo,
		designs:   designRepo,
		addresses: addresses,
		renders:   renders,
		now:       time.Now,
	}
}

// CreateOrder turns cart lines into an immutable order. Prices and
// snapshots are resolved now; the order, its items and the stock
// decrements commit together or not at all.
func (s *service) CreateOrder(
	ctx context.Context,
	userID uint,
	input CreateOrderInput,
) (*Order, error) {

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CreateOrder"),
		zap.Uint("user_id", userID),
	)

	if len(input.Lines) == 0 {
		return nil, validationErrorf("order must contain at least one item")
	}

	currency := input.Currency
	if currency == "" {
		currency = "USD"
	}

	now := s.now()

	shipping, err := s.resolveAddress(ctx, userID, input.ShippingAddressID, address.TypeShipping, true)
	if err != nil {
		return nil, err
	}
	billing, err := s.resolveAddress(ctx, userID, input.BillingAddressID, address.TypeBilling, false)
	if err != nil {
		return nil, err
	}

	o := &Order{
		ID:            uuid.New(),
		UserID:        userID,
		Status:        StatusPending,
		Currency:      currency,
		CustomerNotes: input.CustomerNotes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	o.ShippingAddressID = &shipping.ID
	if billing != nil {
		o.BillingAddressID = &billing.ID
	}

	for _, line := range input.Lines {
		item, err := s.buildLine(ctx, userID, line, now)
		if err != nil {
			return nil, err
		}
		item.OrderID = o.ID
		o.Items = append(o.Items, item)
		o.Subtotal += item.TotalPrice
	}

	// Totals are computed once from the snapshot prices and never
	// re-summed afterwards.
	o.TotalAmount = o.Subtotal + o.TaxTotal + o.ShippingTotal - o.DiscountTotal

	if err := s.repo.CreateOrderTx(ctx, o); err != nil {
		log.Error("checkout failed", zap.Error(err))
		return nil, err
	}

	log.Info("order created",
		zap.String("order_id", o.ID.String()),
		zap.Int("items", len(o.Items)),
		zap.Int64("total", o.TotalAmount),
	)

	// Kick off rendering for customized items. Best effort: the render
	// pipeline also picks up pending items on its own schedule.
	for _, item := range o.Items {
		if len(item.FrozenCanvasState) == 0 {
			continue
		}
		if err := s.renders.RequestRender(ctx, item.ID, item.FrozenCanvasState); err != nil {
			log.Warn("render request failed",
				zap.String("item_id", item.ID.String()),
				zap.Error(err),
			)
		}
	}

	return o, nil
}

func (s *service) resolveAddress(
	ctx context.Context,
	userID uint,
	explicit *uuid.UUID,
	typ address.Type,
	required bool,
) (*address.Address, error) {

	if explicit != nil {
		return s.addresses.GetUserAddress(ctx, *explicit, userID)
	}

	addr, err := s.addresses.DefaultFor(ctx, userID, typ)
	if err != nil {
		if err == address.ErrAddressNotFound && !required {
			return nil, nil
		}
		return nil, err
	}
	return addr, nil
}

func (s *service) buildLine(
	ctx context.Context,
	userID uint,
	line OrderLine,
	now time.Time,
) (OrderItem, error) {

	p, err := s.catalog.GetProduct(ctx, line.ProductID)
	if err != nil {
		return OrderItem{}, err
	}

	attrs, err := s.catalog.GetAttributeValues(ctx, line.AttributeValueIDs)
	if err != nil {
		return OrderItem{}, err
	}
	for _, av := range attrs {
		if av.ProductID != p.ID {
			return OrderItem{}, validationErrorf(
				"attribute value %s does not belong to product %s", av.ID, p.SKU)
		}
	}

	var d *design.SavedDesign
	if line.DesignID != nil {
		d, err = s.designs.GetByID(ctx, *line.DesignID)
		if err != nil {
			return OrderItem{}, err
		}
		if d.UserID != userID {
			return OrderItem{}, validationErrorf("design %s does not belong to caller", d.ID)
		}
		if d.ProductID != p.ID {
			return OrderItem{}, validationErrorf(
				"design %s was made for a different product", d.ID)
		}
	}

	return buildItem(p, d, attrs, line.Quantity, now)
}

func (s *service) GetOrder(
	ctx context.Context,
	userID uint,
	orderID uuid.UUID,
	operator bool,
) (*Order, error) {

	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !operator && o.UserID != userID {
		return nil, ErrUnauthorized
	}
	return o, nil
}

func (s *service) MarkPaid(
	ctx context.Context,
	userID uint,
	orderID uuid.UUID,
	method, transactionID string,
) (*Order, error) {

	existing, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if existing.UserID != userID {
		return nil, ErrUnauthorized
	}

	o, err := s.repo.MarkPaid(ctx, orderID, method, transactionID, s.now())
	if err != nil {
		return nil, err
	}

	logger.FromCtx(ctx).Info("order paid",
		zap.String("order_id", orderID.String()),
		zap.String("status", string(o.Status)),
	)
	return o, nil
}

func (s *service) UpdateStatus(
	ctx context.Context,
	orderID uuid.UUID,
	to Status,
) (*Order, error) {

	if !to.Valid() {
		return nil, validationErrorf("unknown status %q", to)
	}

	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	next, err := o.Status.Transition(to)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateStatus(ctx, orderID, o.Status, next); err != nil {
		return nil, err
	}

	o.Status = next
	return o, nil
}

// Cancel stops fulfillment but does not touch snapshots or batches: items
// already claimed into a print batch stay there until an operator pulls
// them out explicitly.
func (s *service) Cancel(
	ctx context.Context,
	userID uint,
	orderID uuid.UUID,
	operator bool,
) (*Order, error) {

	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !operator && o.UserID != userID {
		return nil, ErrUnauthorized
	}

	next, err := o.Status.Transition(StatusCancelled)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateStatus(ctx, orderID, o.Status, next); err != nil {
		return nil, err
	}

	o.Status = next
	return o, nil
}

func (s *service) Refund(
	ctx context.Context,
	orderID uuid.UUID,
	amount int64,
	reason string,
) (*Order, error) {

	if amount <= 0 {
		return nil, validationErrorf("refund amount must be positive")
	}
	if reason == "" {
		return nil, validationErrorf("refund reason is required")
	}

	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if amount > o.TotalAmount-o.RefundTotal {
		return nil, validationErrorf("refund exceeds remaining order total")
	}

	if _, err := o.Status.Transition(StatusRefunded); err != nil {
		return nil, err
	}

	note := "refund " + reason
	if err := s.repo.ApplyRefund(ctx, orderID, o.Status, amount, note); err != nil {
		return nil, err
	}

	logger.FromCtx(ctx).Info("order refunded",
		zap.String("order_id", orderID.String()),
		zap.Int64("amount", amount),
	)

	return s.repo.GetByID(ctx, orderID)
}

// ApplyRenderUpdate consumes a render-status callback. Callbacks are
// delivered at least once; anything that does not move the item forward
// is a no-op, not an error.
func (s *service) ApplyRenderUpdate(
	ctx context.Context,
	itemID uuid.UUID,
	status RenderStatus,
	printFileURL string,
) error {

	if _, ok := renderRank[status]; !ok {
		return validationErrorf("unknown render status %q", status)
	}

	item, err := s.repo.GetItem(ctx, itemID)
	if err != nil {
		return err
	}

	if !ApplyRender(item.RenderStatus, status) {
		return nil
	}

	applied, err := s.repo.UpdateItemRender(ctx, itemID, item.RenderStatus, status, printFileURL)
	if err != nil {
		return err
	}
	if !applied {
		// Lost a race against a duplicate delivery; the update already
		// happened.
		return nil
	}

	logger.FromCtx(ctx).Info("render status updated",
		zap.String("item_id", itemID.String()),
		zap.String("render_status", string(status)),
	)
	return nil
}
