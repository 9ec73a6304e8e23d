package access

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"custodia/internal/ledger/ports"
	"custodia/pkg/domain"
)

const (
	ownerKey         = "access:owner"
	controllersKey   = "access:controllers"
	lifecycleKey     = "access:lifecycle"
	lifecycleStopped = "stopped"
	lifecycleRunning = "running"
)

// RedisController shares role and lifecycle state across ledger instances.
// This is the recommended provider for distributed deployments; a missing
// lifecycle key reads as Running so a fresh deployment starts unlocked.
type RedisController struct {
	client *redis.Client
}

func NewRedisController(client *redis.Client) *RedisController {
	return &RedisController{client: client}
}

// Seed writes the owner and controller set if absent. Called once at startup
// from configuration.
func (c *RedisController) Seed(ctx context.Context, owner domain.Address, controllers ...domain.Address) error {
	if err := c.client.SetNX(ctx, ownerKey, owner.String(), 0).Err(); err != nil {
		return fmt.Errorf("seed owner: %w", err)
	}
	for _, addr := range controllers {
		if err := c.client.SAdd(ctx, controllersKey, addr.String()).Err(); err != nil {
			return fmt.Errorf("seed controller: %w", err)
		}
	}
	return nil
}

func (c *RedisController) State(ctx context.Context) (ports.LifecycleState, error) {
	val, err := c.client.Get(ctx, lifecycleKey).Result()
	if errors.Is(err, redis.Nil) {
		return ports.StateRunning, nil
	}
	if err != nil {
		return ports.StateStopped, fmt.Errorf("read lifecycle state: %w", err)
	}
	if val == lifecycleStopped {
		return ports.StateStopped, nil
	}
	return ports.StateRunning, nil
}

func (c *RedisController) Classify(ctx context.Context, caller domain.Address) (ports.Role, error) {
	if caller.IsZero() {
		return ports.RoleOther, nil
	}
	owner, err := c.client.Get(ctx, ownerKey).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return ports.RoleOther, fmt.Errorf("read owner: %w", err)
	}
	if owner == caller.String() {
		return ports.RoleOwner, nil
	}
	isController, err := c.client.SIsMember(ctx, controllersKey, caller.String()).Result()
	if err != nil {
		return ports.RoleOther, fmt.Errorf("check controller set: %w", err)
	}
	if isController {
		return ports.RoleController, nil
	}
	return ports.RoleOther, nil
}

func (c *RedisController) Pause(ctx context.Context) error {
	return c.client.Set(ctx, lifecycleKey, lifecycleStopped, 0).Err()
}

func (c *RedisController) Resume(ctx context.Context) error {
	return c.client.Set(ctx, lifecycleKey, lifecycleRunning, 0).Err()
}
