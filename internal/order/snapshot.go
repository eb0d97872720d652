package order

import (
	"time"

	"github.com/Ayush3323/printingbackend/internal/catalog"
	"github.com/Ayush3323/printingbackend/internal/design"

	"github.com/google/uuid"
)

// buildItem freezes one cart line into an immutable order item: price
// resolved now, product facts and canvas state copied now. Later edits to
// the product or the design must not reach the item, so the canvas
// payload is copied structurally, not referenced.
//
// Stock is only prechecked here; the binding check-and-decrement happens
// inside the checkout transaction.
func buildItem(
	p *catalog.Product,
	d *design.SavedDesign,
	attrs []catalog.AttributeValue,
	quantity int,
	now time.Time,
) (OrderItem, error) {

	if quantity <= 0 {
		return OrderItem{}, validationErrorf("quantity must be positive, got %d", quantity)
	}
	if !p.IsActive {
		return OrderItem{}, validationErrorf("product %s is not available", p.SKU)
	}
	if !p.IsInfiniteStock && p.StockQuantity < quantity {
		return OrderItem{}, validationErrorf("insufficient stock for product %s", p.SKU)
	}

	unitPrice := catalog.ResolvePrice(*p, attrs, now)

	item := OrderItem{
		ID:         uuid.New(),
		ProductID:  &p.ID,
		Quantity:   quantity,
		UnitPrice:  unitPrice,
		TotalPrice: unitPrice * int64(quantity),

		ProductNameSnapshot: p.Name,
		SKUSnapshot:         p.SKU,

		RenderStatus: RenderPending,
	}

	if d != nil {
		item.DesignID = &d.ID
		item.FrozenCanvasState = append([]byte(nil), d.CanvasJSON...)
	}

	return item, nil
}
