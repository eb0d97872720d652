package order

import (
	"testing"
	"time"

	"github.com/Ayush3323/printingbackend/internal/catalog"
	"github.com/Ayush3323/printingbackend/internal/design"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildItem(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	product := func() *catalog.Product {
		return &catalog.Product{
			ID:            uuid.New(),
			SKU:           "MUG-11OZ",
			Name:          "Ceramic Mug 11oz",
			BasePrice:     1500,
			StockQuantity: 10,
			IsActive:      true,
		}
	}

	t.Run("SnapshotsProductFacts", func(t *testing.T) {
		p := product()
		item, err := buildItem(p, nil, nil, 2, now)
		require.NoError(t, err)

		assert.Equal(t, p.ID, *item.ProductID)
		assert.Equal(t, "Ceramic Mug 11oz", item.ProductNameSnapshot)
		assert.Equal(t, "MUG-11OZ", item.SKUSnapshot)
		assert.Equal(t, int64(1500), item.UnitPrice)
		assert.Equal(t, int64(3000), item.TotalPrice)
		assert.Equal(t, RenderPending, item.RenderStatus)
		assert.Nil(t, item.DesignID)
	})

	t.Run("SnapshotSurvivesProductEdit", func(t *testing.T) {
		p := product()
		item, err := buildItem(p, nil, nil, 1, now)
		require.NoError(t, err)

		p.Name = "Renamed Mug"
		p.SKU = "MUG-RENAMED"
		p.BasePrice = 9999

		assert.Equal(t, "Ceramic Mug 11oz", item.ProductNameSnapshot)
		assert.Equal(t, "MUG-11OZ", item.SKUSnapshot)
		assert.Equal(t, int64(1500), item.UnitPrice)
	})

	t.Run("CanvasStateCopiedNotReferenced", func(t *testing.T) {
		p := product()
		d := &design.SavedDesign{
			ID:         uuid.New(),
			CanvasJSON: []byte(`{"layers":[{"text":"hello"}]}`),
		}

		item, err := buildItem(p, d, nil, 1, now)
		require.NoError(t, err)
		require.Equal(t, d.ID, *item.DesignID)

		// Mutating the design after checkout must not reach the item.
		d.CanvasJSON[12] = 'X'
		assert.Equal(t, `{"layers":[{"text":"hello"}]}`, string(item.FrozenCanvasState))
	})

	t.Run("AttributeAdjustmentsPriced", func(t *testing.T) {
		p := product()
		attrs := []catalog.AttributeValue{
			{PriceAdjustment: 500},
			{PriceAdjustment: -100},
		}
		item, err := buildItem(p, nil, attrs, 3, now)
		require.NoError(t, err)
		assert.Equal(t, int64(1900), item.UnitPrice)
		assert.Equal(t, int64(5700), item.TotalPrice)
	})

	t.Run("ZeroQuantity", func(t *testing.T) {
		_, err := buildItem(product(), nil, nil, 0, now)
		assert.True(t, IsValidation(err))
	})

	t.Run("NegativeQuantity", func(t *testing.T) {
		_, err := buildItem(product(), nil, nil, -1, now)
		assert.True(t, IsValidation(err))
	})

	t.Run("InactiveProduct", func(t *testing.T) {
		p := product()
		p.IsActive = false
		_, err := buildItem(p, nil, nil, 1, now)
		assert.True(t, IsValidation(err))
	})

	t.Run("InsufficientStock", func(t *testing.T) {
		p := product()
		p.StockQuantity = 1
		_, err := buildItem(p, nil, nil, 2, now)
		assert.True(t, IsValidation(err))
	})

	t.Run("InfiniteStockIgnoresQuantity", func(t *testing.T) {
		p := product()
		p.StockQuantity = 0
		p.IsInfiniteStock = true
		item, err := buildItem(p, nil, nil, 500, now)
		require.NoError(t, err)
		assert.Equal(t, 500, item.Quantity)
	})
}
