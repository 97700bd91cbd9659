package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/BuildTechDeployAiAgency/GrowShip-MVP-sub008/internal/commerce/entity"
	"github.com/BuildTechDeployAiAgency/GrowShip-MVP-sub008/internal/commerce/repository"
)

// Decision is the result of a permission check.
type Decision struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
}

// PermissionService decides whether an actor may approve or override a
// purchase order. Checks are pure functions of (actor, resource); there
// is no ambient session state.
type PermissionService struct {
	userRepo *repository.UserRepository
}

func NewPermissionService(userRepo *repository.UserRepository) *PermissionService {
	return &PermissionService{userRepo: userRepo}
}

// IsApprover reports whether the actor may approve the given purchase
// order. Super admins may approve anything; brand admins are scoped to
// their brand, distributor admins to their distributor.
func (s *PermissionService) IsApprover(ctx context.Context, actorID string, po *entity.PurchaseOrder) (Decision, error) {
	actor, err := s.userRepo.FindByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return Decision{Reason: "actor not found"}, nil
		}
		return Decision{}, fmt.Errorf("load actor: %w", err)
	}
	if actor.Status != entity.UserStatusActive {
		return Decision{Reason: "actor is not active"}, nil
	}

	switch actor.Role {
	case entity.RoleSuperAdmin:
		return Decision{Allowed: true}, nil
	case entity.RoleBrandAdmin:
		if actor.BrandID != nil && *actor.BrandID == po.BrandID {
			return Decision{Allowed: true}, nil
		}
		return Decision{Reason: "brand admin of a different brand"}, nil
	case entity.RoleDistributorAdmin:
		if actor.DistributorID != nil && po.DistributorID != nil && *actor.DistributorID == *po.DistributorID {
			return Decision{Allowed: true}, nil
		}
		return Decision{Reason: "distributor admin of a different distributor"}, nil
	default:
		return Decision{Reason: fmt.Sprintf("role %s cannot approve purchase orders", actor.Role)}, nil
	}
}

// IsOverrideApprover reports whether the actor may approve quantities
// beyond available stock. Only super admins and brand admins hold the
// override privilege.
func (s *PermissionService) IsOverrideApprover(ctx context.Context, actorID string) (Decision, error) {
	actor, err := s.userRepo.FindByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return Decision{Reason: "actor not found"}, nil
		}
		return Decision{}, fmt.Errorf("load actor: %w", err)
	}
	if actor.Status != entity.UserStatusActive {
		return Decision{Reason: "actor is not active"}, nil
	}
	if actor.Role == entity.RoleSuperAdmin || actor.Role == entity.RoleBrandAdmin {
		return Decision{Allowed: true}, nil
	}
	return Decision{Reason: fmt.Sprintf("role %s cannot apply stock overrides", actor.Role)}, nil
}
