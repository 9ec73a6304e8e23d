// Package access implements the role/lifecycle provider the ledger consumes.
// The ledger only reads classification and run/stop state; transitions are
// owner-driven and exposed through the admin surface.
package access

import (
	"context"
	"sync"

	"custodia/internal/ledger/ports"
	"custodia/pkg/domain"
)

// InMemoryController keeps roles and the lifecycle switch in process memory.
type InMemoryController struct {
	mu          sync.RWMutex
	owner       domain.Address
	controllers map[domain.Address]struct{}
	state       ports.LifecycleState
}

func NewInMemoryController(owner domain.Address, controllers ...domain.Address) *InMemoryController {
	c := &InMemoryController{
		owner:       owner,
		controllers: make(map[domain.Address]struct{}, len(controllers)),
		state:       ports.StateRunning,
	}
	for _, addr := range controllers {
		c.controllers[addr] = struct{}{}
	}
	return c
}

func (c *InMemoryController) State(_ context.Context) (ports.LifecycleState, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state, nil
}

func (c *InMemoryController) Classify(_ context.Context, caller domain.Address) (ports.Role, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !caller.IsZero() && caller == c.owner {
		return ports.RoleOwner, nil
	}
	if _, ok := c.controllers[caller]; ok {
		return ports.RoleController, nil
	}
	return ports.RoleOther, nil
}

// Pause and Resume are idempotent; re-pausing a stopped system is a no-op.

func (c *InMemoryController) Pause(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = ports.StateStopped
	return nil
}

func (c *InMemoryController) Resume(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = ports.StateRunning
	return nil
}

// GrantController adds an operational role holder.
func (c *InMemoryController) GrantController(addr domain.Address) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.controllers[addr] = struct{}{}
}
