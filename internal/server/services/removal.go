package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/taskplaces/internal/server/config"
	"github.com/dmitrijs2005/taskplaces/internal/server/repositories/users"
)

// RemovalStrategy decides what deleting an account means for a deployment.
type RemovalStrategy interface {
	Name() string
	Remove(ctx context.Context, repo users.Repository, id string) error
}

// HardDelete removes the account row together with the records it owns.
type HardDelete struct{}

func (HardDelete) Name() string { return config.UserDeletePolicyHard }

func (HardDelete) Remove(ctx context.Context, repo users.Repository, id string) error {
	return repo.Delete(ctx, id)
}

// SoftDelete deactivates the account. Its email stays reserved and its
// tokens stop resolving to a user.
type SoftDelete struct{}

func (SoftDelete) Name() string { return config.UserDeletePolicySoft }

func (SoftDelete) Remove(ctx context.Context, repo users.Repository, id string) error {
	return repo.Deactivate(ctx, id)
}

// RemovalStrategyFor maps a config policy name to its strategy.
func RemovalStrategyFor(policy string) (RemovalStrategy, error) {
	switch policy {
	case config.UserDeletePolicyHard:
		return HardDelete{}, nil
	case config.UserDeletePolicySoft:
		return SoftDelete{}, nil
	default:
		return nil, fmt.Errorf("unknown user delete policy %q", policy)
	}
}
