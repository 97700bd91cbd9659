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

func newBackorderService(t *testing.T) (*BackorderService, *repository.Repositories) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	return NewBackorderService(repos.Backorder), repos
}

func seedBackorder(t *testing.T, svc *BackorderService, qty int) *entity.Backorder {
	t.Helper()
	backorder, err := svc.Create(context.Background(), CreateBackorderRequest{
		POID:         "po-1",
		POLineID:     "line-1",
		BrandID:      "brand-1",
		SKU:          "SKU-1",
		BackorderQty: qty,
	}, "admin-1")
	require.NoError(t, err)
	return backorder
}

func TestBackorderCreate(t *testing.T) {
	svc, _ := newBackorderService(t)

	backorder := seedBackorder(t, svc, 6)
	assert.Equal(t, entity.BackorderStatusPending, backorder.BackorderStatus)
	assert.Equal(t, 6, backorder.BackorderQty)
	assert.Equal(t, 0, backorder.FulfilledQty)

	_, err := svc.Create(context.Background(), CreateBackorderRequest{
		POID: "po-1", POLineID: "line-1", BrandID: "brand-1", SKU: "SKU-1",
		BackorderQty: 0,
	}, "admin-1")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestBackorderTrackForwardOnly(t *testing.T) {
	svc, _ := newBackorderService(t)
	ctx := context.Background()
	backorder := seedBackorder(t, svc, 5)

	updated, err := svc.Track(ctx, backorder.ID, entity.BackorderStatusPartiallyFulfilled, 2)
	require.NoError(t, err)
	assert.Equal(t, entity.BackorderStatusPartiallyFulfilled, updated.BackorderStatus)
	assert.Equal(t, 2, updated.FulfilledQty)

	// regression
	_, err = svc.Track(ctx, backorder.ID, entity.BackorderStatusPending, 2)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	// fulfilled quantity may not shrink
	_, err = svc.Track(ctx, backorder.ID, entity.BackorderStatusPartiallyFulfilled, 1)
	assert.ErrorIs(t, err, ErrValidation)

	// nor exceed the backordered quantity
	_, err = svc.Track(ctx, backorder.ID, entity.BackorderStatusPartiallyFulfilled, 6)
	assert.ErrorIs(t, err, ErrValidation)

	// fulfilled requires the full quantity
	_, err = svc.Track(ctx, backorder.ID, entity.BackorderStatusFulfilled, 4)
	assert.ErrorIs(t, err, ErrValidation)

	updated, err = svc.Track(ctx, backorder.ID, entity.BackorderStatusFulfilled, 5)
	require.NoError(t, err)
	assert.Equal(t, entity.BackorderStatusFulfilled, updated.BackorderStatus)

	// terminal cannot be re-tracked
	_, err = svc.Track(ctx, backorder.ID, entity.BackorderStatusPartiallyFulfilled, 5)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestBackorderTrackRejectsUnknownStatus(t *testing.T) {
	svc, _ := newBackorderService(t)
	backorder := seedBackorder(t, svc, 5)

	_, err := svc.Track(context.Background(), backorder.ID, "lost", 0)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Track(context.Background(), "missing", entity.BackorderStatusFulfilled, 5)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBackorderCancel(t *testing.T) {
	svc, _ := newBackorderService(t)
	ctx := context.Background()
	backorder := seedBackorder(t, svc, 5)

	cancelled, err := svc.Cancel(ctx, backorder.ID, "PO was cancelled")
	require.NoError(t, err)
	assert.Equal(t, entity.BackorderStatusCancelled, cancelled.BackorderStatus)

	_, err = svc.Cancel(ctx, backorder.ID, "again")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestBackorderLinkToOrderAndListing(t *testing.T) {
	svc, _ := newBackorderService(t)
	ctx := context.Background()
	backorder := seedBackorder(t, svc, 5)

	linked, err := svc.LinkToOrder(ctx, backorder.ID, "order-1")
	require.NoError(t, err)
	require.NotNil(t, linked.OrderID)
	assert.Equal(t, "order-1", *linked.OrderID)

	pending, err := svc.ListPending(ctx, "brand-1")
	require.NoError(t, err)
	require.Len(t, pending, 1)

	// fulfilled drops off the pending list
	_, err = svc.Track(ctx, backorder.ID, entity.BackorderStatusFulfilled, 5)
	require.NoError(t, err)

	pending, err = svc.ListPending(ctx, "brand-1")
	require.NoError(t, err)
	assert.Empty(t, pending)

	byPO, err := svc.ListForPO(ctx, "po-1")
	require.NoError(t, err)
	assert.Len(t, byPO, 1)
}
