package service

import (
	"context"
	"testing"

	"github.com/BuildTechDeployAiAgency/GrowShip-MVP-sub008/internal/commerce/entity"
	"github.com/BuildTechDeployAiAgency/GrowShip-MVP-sub008/internal/commerce/repository"
	"github.com/BuildTechDeployAiAgency/GrowShip-MVP-sub008/internal/commerce/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestServices(t *testing.T) (*Services, *repository.Repositories, *gorm.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	svc := NewServices(repos, NewLogNotifier(zap.NewNop()), zap.NewNop())
	return svc, repos, db
}

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(entity.POStatusDraft, entity.POActionSubmit))
	assert.True(t, CanTransition(entity.POStatusSubmitted, entity.POActionApprove))
	assert.True(t, CanTransition(entity.POStatusSubmitted, entity.POActionReject))
	assert.True(t, CanTransition(entity.POStatusApproved, entity.POActionOrder))
	assert.True(t, CanTransition(entity.POStatusOrdered, entity.POActionReceive))
	assert.True(t, CanTransition(entity.POStatusDraft, entity.POActionCancel))
	assert.True(t, CanTransition(entity.POStatusOrdered, entity.POActionCancel))

	assert.False(t, CanTransition(entity.POStatusDraft, entity.POActionApprove))
	assert.False(t, CanTransition(entity.POStatusApproved, entity.POActionSubmit))
	assert.False(t, CanTransition(entity.POStatusRejected, entity.POActionSubmit))
	assert.False(t, CanTransition(entity.POStatusReceived, entity.POActionCancel))
	assert.False(t, CanTransition(entity.POStatusCancelled, entity.POActionSubmit))
}

func TestWorkflowLifecycle(t *testing.T) {
	svc, repos, db := newTestServices(t)
	ctx := context.Background()

	admin := testutil.SeedUser(t, db, "admin-1", entity.RoleSuperAdmin, nil)
	product := testutil.SeedProduct(t, db, "SKU-1", "brand-1", 100, 10)

	po, err := svc.PurchaseOrder.Create(ctx, CreatePORequest{
		BrandID: "brand-1",
		Lines: []CreatePOLine{
			{SKU: "SKU-1", RequestedQty: 5, UnitPrice: 10},
		},
	}, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.POStatusDraft, po.POStatus)
	assert.Equal(t, 50.0, po.TotalAmount)
	require.Len(t, po.Lines, 1)
	require.NotNil(t, po.Lines[0].ProductID)
	assert.Equal(t, product.ID, *po.Lines[0].ProductID)

	// submit
	result, err := svc.Workflow.ExecuteTransition(ctx, po.ID, admin.ID, entity.POActionSubmit, "please review")
	require.NoError(t, err)
	assert.Equal(t, entity.POStatusSubmitted, result.PO.POStatus)
	require.NotNil(t, result.PO.SubmittedAt)
	// stock covers the request, so no warnings were snapshotted
	assert.Nil(t, result.StockWarnings)
	require.Len(t, result.PO.Lines, 1)
	require.NotNil(t, result.PO.Lines[0].AvailableStock)
	assert.Equal(t, 100, *result.PO.Lines[0].AvailableStock)

	// line decision
	decision, err := svc.Workflow.ApproveLine(ctx, po.ID, po.Lines[0].ID, admin.ID, LineDecisionRequest{
		ApprovedQty: 5,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.LineStatusApproved, decision.Line.LineStatus)
	assert.Equal(t, 5, decision.Line.ApprovedQty)

	// approve
	result, err = svc.Workflow.ExecuteTransition(ctx, po.ID, admin.ID, entity.POActionApprove, "")
	require.NoError(t, err)
	assert.Equal(t, entity.POStatusApproved, result.PO.POStatus)
	require.NotNil(t, result.PO.ApprovedAt)
	assert.Equal(t, admin.ID, result.PO.ApprovedBy)

	// order (generates downstream orders synchronously)
	result, err = svc.Workflow.ExecuteTransition(ctx, po.ID, admin.ID, entity.POActionOrder, "")
	require.NoError(t, err)
	assert.Equal(t, entity.POStatusOrdered, result.PO.POStatus)
	require.NotNil(t, result.Generated)
	require.Len(t, result.Generated.OrderIDs, 1)

	// receive
	result, err = svc.Workflow.ExecuteTransition(ctx, po.ID, admin.ID, entity.POActionReceive, "")
	require.NoError(t, err)
	assert.Equal(t, entity.POStatusReceived, result.PO.POStatus)

	// exactly one history entry per mutation: submit, line decision,
	// approve, order, receive
	count, err := repos.ApprovalHistory.CountByPO(ctx, po.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), count)
}

func TestTransitionRejectsIllegalSource(t *testing.T) {
	svc, _, db := newTestServices(t)
	ctx := context.Background()

	admin := testutil.SeedUser(t, db, "admin-1", entity.RoleSuperAdmin, nil)
	po := testutil.SeedPO(t, db, "brand-1", entity.POStatusDraft, admin.ID, []testutil.POLineSeed{
		{SKU: "SKU-1", RequestedQty: 5, UnitPrice: 10},
	})

	_, err := svc.Workflow.ExecuteTransition(ctx, po.ID, admin.ID, entity.POActionApprove, "")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = svc.Workflow.ExecuteTransition(ctx, po.ID, admin.ID, "teleport", "")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Workflow.ExecuteTransition(ctx, "missing", admin.ID, entity.POActionSubmit, "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTransitionPermissions(t *testing.T) {
	svc, _, db := newTestServices(t)
	ctx := context.Background()

	brandID := "brand-1"
	otherBrand := "brand-2"
	testutil.SeedUser(t, db, "brand-admin", entity.RoleBrandAdmin, &brandID)
	testutil.SeedUser(t, db, "other-admin", entity.RoleBrandAdmin, &otherBrand)
	testutil.SeedUser(t, db, "plain-user", entity.RoleBrandUser, &brandID)

	po := testutil.SeedPO(t, db, brandID, entity.POStatusSubmitted, "plain-user", []testutil.POLineSeed{
		{SKU: "SKU-1", RequestedQty: 5, UnitPrice: 10},
	})

	_, err := svc.Workflow.ExecuteTransition(ctx, po.ID, "plain-user", entity.POActionApprove, "")
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.Workflow.ExecuteTransition(ctx, po.ID, "other-admin", entity.POActionApprove, "")
	assert.ErrorIs(t, err, ErrForbidden)

	result, err := svc.Workflow.ExecuteTransition(ctx, po.ID, "brand-admin", entity.POActionApprove, "")
	require.NoError(t, err)
	assert.Equal(t, entity.POStatusApproved, result.PO.POStatus)
}

func TestRejectRecordsReason(t *testing.T) {
	svc, repos, db := newTestServices(t)
	ctx := context.Background()

	admin := testutil.SeedUser(t, db, "admin-1", entity.RoleSuperAdmin, nil)
	po := testutil.SeedPO(t, db, "brand-1", entity.POStatusSubmitted, admin.ID, []testutil.POLineSeed{
		{SKU: "SKU-1", RequestedQty: 5, UnitPrice: 10},
	})

	result, err := svc.Workflow.ExecuteTransition(ctx, po.ID, admin.ID, entity.POActionReject, "budget exceeded")
	require.NoError(t, err)
	assert.Equal(t, entity.POStatusRejected, result.PO.POStatus)
	assert.Equal(t, "budget exceeded", result.PO.RejectionReason)

	// rejected is terminal
	_, err = svc.Workflow.ExecuteTransition(ctx, po.ID, admin.ID, entity.POActionSubmit, "")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	entries, err := repos.ApprovalHistory.ListByPO(ctx, po.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, entity.POActionReject, entries[0].Action)
	assert.Equal(t, "budget exceeded", entries[0].Comments)
}

func TestSubmitSnapshotsStockWarnings(t *testing.T) {
	svc, repos, db := newTestServices(t)
	ctx := context.Background()

	admin := testutil.SeedUser(t, db, "admin-1", entity.RoleSuperAdmin, nil)
	testutil.SeedProduct(t, db, "SKU-LOW", "brand-1", 2, 10)

	po := testutil.SeedPO(t, db, "brand-1", entity.POStatusDraft, admin.ID, []testutil.POLineSeed{
		{SKU: "SKU-LOW", RequestedQty: 10, UnitPrice: 10},
	})

	result, err := svc.Workflow.ExecuteTransition(ctx, po.ID, admin.ID, entity.POActionSubmit, "")
	require.NoError(t, err)
	require.NotNil(t, result.StockWarnings)

	entries, err := repos.ApprovalHistory.ListByPO(ctx, po.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.NotNil(t, entries[0].StockWarnings)
}

func TestOrderTransitionWithoutApprovedLines(t *testing.T) {
	svc, repos, db := newTestServices(t)
	ctx := context.Background()

	admin := testutil.SeedUser(t, db, "admin-1", entity.RoleSuperAdmin, nil)
	po := testutil.SeedPO(t, db, "brand-1", entity.POStatusApproved, admin.ID, []testutil.POLineSeed{
		{SKU: "SKU-1", RequestedQty: 5, UnitPrice: 10, LineStatus: entity.LineStatusRejected},
	})

	_, err := svc.Workflow.ExecuteTransition(ctx, po.ID, admin.ID, entity.POActionOrder, "")
	assert.ErrorIs(t, err, ErrNoApprovedLines)

	// generation failed, so the status was never advanced and no
	// history was written
	reloaded, err := repos.PurchaseOrder.FindByID(ctx, po.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.POStatusApproved, reloaded.POStatus)

	count, err := repos.ApprovalHistory.CountByPO(ctx, po.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestTransitionConcurrentModification(t *testing.T) {
	_, repos, db := newTestServices(t)
	ctx := context.Background()

	po := testutil.SeedPO(t, db, "brand-1", entity.POStatusDraft, "user-1", []testutil.POLineSeed{
		{SKU: "SKU-1", RequestedQty: 5, UnitPrice: 10},
	})

	// A conditional update against a stale prior status touches no rows.
	rows, err := repos.PurchaseOrder.UpdateStatusConditional(ctx, po.ID, entity.POStatusSubmitted, entity.POStatusApproved, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(0), rows)

	rows, err = repos.PurchaseOrder.UpdateStatusConditional(ctx, po.ID, entity.POStatusDraft, entity.POStatusSubmitted, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)
}

func TestCancelFromOrdered(t *testing.T) {
	svc, _, db := newTestServices(t)
	ctx := context.Background()

	admin := testutil.SeedUser(t, db, "admin-1", entity.RoleSuperAdmin, nil)
	po := testutil.SeedPO(t, db, "brand-1", entity.POStatusOrdered, admin.ID, []testutil.POLineSeed{
		{SKU: "SKU-1", RequestedQty: 5, UnitPrice: 10},
	})

	result, err := svc.Workflow.ExecuteTransition(ctx, po.ID, admin.ID, entity.POActionCancel, "supplier folded")
	require.NoError(t, err)
	assert.Equal(t, entity.POStatusCancelled, result.PO.POStatus)

	_, err = svc.Workflow.ExecuteTransition(ctx, po.ID, admin.ID, entity.POActionCancel, "")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}
