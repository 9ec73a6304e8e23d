package audit

import (
	"time"

	"github.com/google/uuid"

	"custodia/pkg/domain"
)

// Kind names the ledger action an event records.
type Kind string

const (
	KindUserInserted          Kind = "user_inserted"
	KindUserDeposit           Kind = "user_deposit"
	KindCreditCollected       Kind = "credit_collected"
	KindCreditDeposited       Kind = "credit_deposited"
	KindDepositableDeployed   Kind = "depositable_deployed"
	KindWithdrawRequested     Kind = "withdraw_requested"
	KindVaultAddressChanged   Kind = "vault_address_changed"
	KindFactoryAddressChanged Kind = "factory_address_changed"
)

// Event is emitted from ledger logic after each successful mutation. Keep it
// transport-agnostic so stores and sinks can fan out.
//
// Field usage by kind:
//   - UserInserted: User, Sequence (registry index)
//   - UserDeposit: User, Counterparty (deposit address), Amount
//   - CreditCollected / CreditDeposited: User, Amount, Reference
//   - DepositableDeployed: User, Counterparty (new address), Sequence (deployed count)
//   - WithdrawRequested: User, Amount
//   - VaultAddressChanged / FactoryAddressChanged: Counterparty (new address), Actor
type Event struct {
	ID           uuid.UUID      `json:"id"`
	Timestamp    time.Time      `json:"timestamp"`
	Kind         Kind           `json:"kind"`
	User         domain.Address `json:"user,omitempty"`
	Counterparty domain.Address `json:"counterparty,omitempty"`
	Actor        domain.Address `json:"actor,omitempty"`
	Amount       uint64         `json:"amount,omitempty"`
	Reference    string         `json:"reference,omitempty"`
	Sequence     uint64         `json:"sequence,omitempty"`
}
