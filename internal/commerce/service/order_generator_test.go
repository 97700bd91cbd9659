package service

import (
	"context"
	"testing"

	"github.com/BuildTechDeployAiAgency/GrowShip-MVP-sub008/internal/commerce/entity"
	"github.com/BuildTechDeployAiAgency/GrowShip-MVP-sub008/internal/commerce/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateFromPO(t *testing.T) {
	svc, repos, db := newTestServices(t)
	ctx := context.Background()

	widget := testutil.SeedProduct(t, db, "SKU-W", "brand-1", 50, 10)
	gadget := testutil.SeedProduct(t, db, "SKU-G", "brand-1", 50, 20)

	po := testutil.SeedPO(t, db, "brand-1", entity.POStatusApproved, "admin-1", []testutil.POLineSeed{
		{SKU: "SKU-W", RequestedQty: 5, UnitPrice: 10, ProductID: &widget.ID,
			LineStatus: entity.LineStatusApproved, ApprovedQty: 5},
		{SKU: "SKU-G", RequestedQty: 8, UnitPrice: 20, ProductID: &gadget.ID,
			LineStatus: entity.LineStatusPartiallyApproved, ApprovedQty: 3},
		{SKU: "SKU-R", RequestedQty: 4, UnitPrice: 30,
			LineStatus: entity.LineStatusRejected},
	})

	result, err := svc.Generator.GenerateFromPO(ctx, po.ID, "admin-1")
	require.NoError(t, err)
	require.Len(t, result.OrderIDs, 1)

	order, err := repos.Order.FindByID(ctx, result.OrderIDs[0])
	require.NoError(t, err)
	assert.Equal(t, po.ID, order.PurchaseOrderID)
	assert.Equal(t, entity.OrderStatusSubmitted, order.OrderStatus)
	// rejected lines never reach the order
	require.Len(t, order.Lines, 2)
	// 5*10 + 3*20, approved quantities at PO line prices
	assert.Equal(t, 110.0, order.Subtotal)
	assert.Equal(t, 110.0, order.TotalAmount)

	for _, line := range order.Lines {
		assert.NotEmpty(t, line.POLineID)
		if line.SKU == "SKU-G" {
			assert.Equal(t, 3, line.Quantity)
		}
	}

	reloaded, err := repos.PurchaseOrder.FindByID(ctx, po.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.POStatusOrdered, reloaded.POStatus)

	// allocation reserved the approved quantities
	var reservedWidget entity.Product
	require.NoError(t, db.First(&reservedWidget, "id = ?", widget.ID).Error)
	assert.Equal(t, 5, reservedWidget.ReservedQty)
}

func TestGenerateFromPORequiresApprovedLines(t *testing.T) {
	svc, _, db := newTestServices(t)
	ctx := context.Background()

	po := testutil.SeedPO(t, db, "brand-1", entity.POStatusApproved, "admin-1", []testutil.POLineSeed{
		{SKU: "SKU-1", RequestedQty: 5, UnitPrice: 10, LineStatus: entity.LineStatusBackordered},
	})

	_, err := svc.Generator.GenerateFromPO(ctx, po.ID, "admin-1")
	assert.ErrorIs(t, err, ErrNoApprovedLines)

	_, err = svc.Generator.GenerateFromPO(ctx, "missing", "admin-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGenerateFromPOGroupsByKey(t *testing.T) {
	svc, repos, db := newTestServices(t)
	ctx := context.Background()

	po := testutil.SeedPO(t, db, "brand-1", entity.POStatusApproved, "admin-1", []testutil.POLineSeed{
		{SKU: "SKU-A", RequestedQty: 5, UnitPrice: 10,
			LineStatus: entity.LineStatusApproved, ApprovedQty: 5},
		{SKU: "SKU-B", RequestedQty: 5, UnitPrice: 10,
			LineStatus: entity.LineStatusApproved, ApprovedQty: 5},
	})

	// split orders per SKU
	svc.Generator.SetGroupKey(func(line entity.PurchaseOrderLine) string { return line.SKU })

	result, err := svc.Generator.GenerateFromPO(ctx, po.ID, "admin-1")
	require.NoError(t, err)
	assert.Len(t, result.OrderIDs, 2)

	orders, err := repos.Order.ListByPO(ctx, po.ID)
	require.NoError(t, err)
	assert.Len(t, orders, 2)
}

func TestAllocationReportsLowStock(t *testing.T) {
	svc, _, db := newTestServices(t)
	ctx := context.Background()

	product := testutil.SeedProduct(t, db, "SKU-L", "brand-1", 10, 10)
	reorder := 8
	require.NoError(t, db.Model(&entity.Product{}).Where("id = ?", product.ID).
		Update("reorder_level", reorder).Error)

	po := testutil.SeedPO(t, db, "brand-1", entity.POStatusApproved, "admin-1", []testutil.POLineSeed{
		{SKU: "SKU-L", RequestedQty: 5, UnitPrice: 10, ProductID: &product.ID,
			LineStatus: entity.LineStatusApproved, ApprovedQty: 5},
	})

	result, err := svc.Generator.GenerateFromPO(ctx, po.ID, "admin-1")
	require.NoError(t, err)
	// 10 on hand minus 5 reserved leaves 5, at or below the reorder
	// level of 8
	require.Len(t, result.LowStockAlerts, 1)
	assert.Equal(t, "SKU-L", result.LowStockAlerts[0].SKU)
	assert.Equal(t, 5, result.LowStockAlerts[0].CurrentStock)
	assert.Equal(t, 8, result.LowStockAlerts[0].ReorderLevel)
}
