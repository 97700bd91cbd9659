package service

import (
	"context"
	"testing"

	"github.com/BuildTechDeployAiAgency/GrowShip-MVP-sub008/internal/commerce/entity"
	"github.com/BuildTechDeployAiAgency/GrowShip-MVP-sub008/internal/commerce/repository"
	"github.com/BuildTechDeployAiAgency/GrowShip-MVP-sub008/internal/commerce/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	assert.Equal(t, StockSufficient, Classify(10, 10))
	assert.Equal(t, StockSufficient, Classify(10, 15))
	assert.Equal(t, StockPartial, Classify(10, 4))
	assert.Equal(t, StockInsufficient, Classify(10, 0))
	assert.Equal(t, StockInsufficient, Classify(10, -1))
}

func TestSuggestSplit(t *testing.T) {
	full := SuggestSplit(10, 12)
	assert.Equal(t, StockSufficient, full.Classification)
	assert.Equal(t, 10, full.ApprovedQty)
	assert.Equal(t, 0, full.BackorderQty)

	partial := SuggestSplit(10, 4)
	assert.Equal(t, StockPartial, partial.Classification)
	assert.Equal(t, 4, partial.ApprovedQty)
	assert.Equal(t, 6, partial.BackorderQty)

	none := SuggestSplit(10, 0)
	assert.Equal(t, StockInsufficient, none.Classification)
	assert.Equal(t, 0, none.ApprovedQty)
	assert.Equal(t, 10, none.BackorderQty)
	assert.NotEmpty(t, none.Message)
}

func TestShouldTriggerLowStockAlert(t *testing.T) {
	level := 5
	assert.True(t, ShouldTriggerLowStockAlert(5, &level))
	assert.True(t, ShouldTriggerLowStockAlert(3, &level))
	assert.False(t, ShouldTriggerLowStockAlert(6, &level))
	assert.False(t, ShouldTriggerLowStockAlert(0, nil))
}

func TestGetStock(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	svc := NewStockService(repos.Stock, repos.PurchaseOrder)
	ctx := context.Background()

	testutil.SeedProduct(t, db, "SKU-1", "brand-1", 25, 9.99)

	qty, err := svc.GetStock(ctx, "SKU-1", "brand-1")
	require.NoError(t, err)
	require.NotNil(t, qty)
	assert.Equal(t, 25, *qty)

	// unknown SKU and wrong brand both come back nil, not an error
	qty, err = svc.GetStock(ctx, "SKU-UNKNOWN", "brand-1")
	require.NoError(t, err)
	assert.Nil(t, qty)

	qty, err = svc.GetStock(ctx, "SKU-1", "brand-2")
	require.NoError(t, err)
	assert.Nil(t, qty)
}

func TestDeductStock(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	svc := NewStockService(repos.Stock, repos.PurchaseOrder)
	ctx := context.Background()

	product := testutil.SeedProduct(t, db, "SKU-1", "brand-1", 10, 9.99)

	require.NoError(t, svc.DeductStock(ctx, product.ID, 4))

	var reloaded entity.Product
	require.NoError(t, db.First(&reloaded, "id = ?", product.ID).Error)
	assert.Equal(t, 6, reloaded.QuantityInStock)

	err := svc.DeductStock(ctx, product.ID, 20)
	assert.ErrorIs(t, err, ErrInsufficientStock)

	err = svc.DeductStock(ctx, "missing", 1)
	assert.ErrorIs(t, err, ErrNotFound)

	err = svc.DeductStock(ctx, product.ID, 0)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestDeductConditionalDetectsStaleRead(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	ctx := context.Background()

	product := testutil.SeedProduct(t, db, "SKU-1", "brand-1", 10, 9.99)

	// Another writer changes the stock between our read and our write.
	rows, err := repos.Stock.DeductConditional(ctx, product.ID, 2, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)

	// Our conditional write still expects the pre-deduction value.
	rows, err = repos.Stock.DeductConditional(ctx, product.ID, 2, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(0), rows)
}

func TestValidateStockForPO(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	svc := NewStockService(repos.Stock, repos.PurchaseOrder)
	ctx := context.Background()

	testutil.SeedProduct(t, db, "SKU-FULL", "brand-1", 20, 5)
	testutil.SeedProduct(t, db, "SKU-PART", "brand-1", 4, 5)

	po := testutil.SeedPO(t, db, "brand-1", entity.POStatusSubmitted, "user-1", []testutil.POLineSeed{
		{SKU: "SKU-FULL", RequestedQty: 10, UnitPrice: 5},
		{SKU: "SKU-PART", RequestedQty: 10, UnitPrice: 5},
		{SKU: "SKU-UNKNOWN", RequestedQty: 10, UnitPrice: 5},
	})

	validations, summary, err := svc.ValidateStockForPO(ctx, po.ID)
	require.NoError(t, err)
	require.Len(t, validations, 3)

	assert.Equal(t, 3, summary.TotalLines)
	assert.Equal(t, 1, summary.SufficientLines)
	assert.Equal(t, 1, summary.PartialLines)
	assert.Equal(t, 1, summary.InsufficientLines)
	assert.False(t, summary.AllSufficient)

	bySKU := map[string]LineStockValidation{}
	for _, v := range validations {
		bySKU[v.SKU] = v
	}
	assert.Equal(t, StockSufficient, bySKU["SKU-FULL"].Classification)
	assert.Equal(t, StockPartial, bySKU["SKU-PART"].Classification)
	assert.Equal(t, 4, bySKU["SKU-PART"].Suggestion.ApprovedQty)
	assert.Equal(t, 6, bySKU["SKU-PART"].Suggestion.BackorderQty)
	// Unknown SKU is treated as zero stock, not an error.
	assert.Equal(t, StockInsufficient, bySKU["SKU-UNKNOWN"].Classification)
	assert.Equal(t, 0, bySKU["SKU-UNKNOWN"].AvailableStock)

	// The snapshot is cached on the lines for approvers.
	lines, err := repos.PurchaseOrder.FindLinesByPO(ctx, po.ID)
	require.NoError(t, err)
	for _, line := range lines {
		require.NotNil(t, line.AvailableStock, "line %s should carry the cached snapshot", line.SKU)
	}

	_, _, err = svc.ValidateStockForPO(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
