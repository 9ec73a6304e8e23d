// Package models holds the ledger's core records. Balances are unsigned
// integers in the smallest currency denomination.
package models

import "custodia/pkg/domain"

// UserRecord is the per-user view assembled from registry, binding and
// balance state.
type UserRecord struct {
	Address        domain.Address
	Balance        uint64
	RegistryIndex  uint64
	Registered     bool
	DepositAddress domain.Address
}

// Registration is the outcome of inserting a user into the registry.
type Registration struct {
	User  domain.Address
	Index uint64
}

// Deployment is the outcome of provisioning a depositable for a user.
type Deployment struct {
	User           domain.Address
	DepositAddress domain.Address
	DeployedCount  uint64
}
