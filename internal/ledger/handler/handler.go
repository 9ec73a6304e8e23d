// Package handler exposes the ledger over HTTP. Reads are unauthenticated;
// mutations authenticate the caller with a bearer token and leave role
// authorization to the service.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"custodia/internal/audit"
	"custodia/internal/ledger/models"
	"custodia/internal/platform/middleware"
	"custodia/pkg/domain"
	dErrors "custodia/pkg/domain-errors"
)

//go:generate mockgen -source=handler.go -destination=mocks/handler_mocks.go -package=mocks Service,AuditReader

// Service is the ledger surface the handler drives.
type Service interface {
	Register(ctx context.Context, caller, user domain.Address) (models.Registration, error)
	Bind(ctx context.Context, caller, user, deposit domain.Address) error
	Unbind(ctx context.Context, caller, user domain.Address) error
	Credit(ctx context.Context, caller, user domain.Address, amount uint64, reference string) error
	Debit(ctx context.Context, caller, user domain.Address, amount uint64, reference string) error
	AcceptFunds(ctx context.Context, caller, user domain.Address, amount uint64) error
	RequestWithdrawal(ctx context.Context, caller, user domain.Address, amount uint64) error
	DeployUserDepositable(ctx context.Context, caller, user domain.Address) (models.Deployment, error)
	SetVaultAddress(ctx context.Context, caller, addr domain.Address) error
	SetFactoryAddress(ctx context.Context, caller, addr domain.Address) error
	Pause(ctx context.Context, caller domain.Address) error
	Resume(ctx context.Context, caller domain.Address) error

	IsRegistered(ctx context.Context, user domain.Address) (bool, error)
	GetBalance(ctx context.Context, user domain.Address) (uint64, error)
	ResolveDepositAddress(ctx context.Context, user domain.Address) (domain.Address, error)
	GetVaultAddress(ctx context.Context) domain.Address
	GetFactoryAddress(ctx context.Context) domain.Address
	DeploymentCount(ctx context.Context) (uint64, error)
	GetUser(ctx context.Context, user domain.Address) (models.UserRecord, error)
	Health(ctx context.Context) error
}

// AuditReader serves the audit log read surface.
type AuditReader interface {
	List(ctx context.Context) ([]audit.Event, error)
	ListByUser(ctx context.Context, user domain.Address) ([]audit.Event, error)
}

type Handler struct {
	logger    *slog.Logger
	ledger    Service
	auditLog  AuditReader
	validator middleware.TokenValidator
}

func New(ledger Service, auditLog AuditReader, validator middleware.TokenValidator, logger *slog.Logger) *Handler {
	return &Handler{
		logger:    logger,
		ledger:    ledger,
		auditLog:  auditLog,
		validator: validator,
	}
}

// Register mounts the ledger routes on the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/v1", func(r chi.Router) {
		r.Use(middleware.Recovery(h.logger))
		r.Use(middleware.RequestID)
		r.Use(middleware.Logger(h.logger))
		r.Use(middleware.Timeout(30 * time.Second))
		r.Use(middleware.ContentTypeJSON)

		// Unauthenticated read surface.
		r.Get("/users/{address}", h.handleGetUser)
		r.Get("/users/{address}/registered", h.handleIsRegistered)
		r.Get("/users/{address}/balance", h.handleGetBalance)
		r.Get("/users/{address}/deposit-address", h.handleResolveDeposit)
		r.Get("/config/vault", h.handleGetVault)
		r.Get("/config/factory", h.handleGetFactory)
		r.Get("/deployments/count", h.handleDeploymentCount)
		r.Get("/audit", h.handleListAudit)

		// Authenticated mutations.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(h.validator, h.logger))
			r.Post("/users/{address}/register", h.handleRegister)
			r.Post("/users/{address}/credit", h.handleCredit)
			r.Post("/users/{address}/debit", h.handleDebit)
			r.Post("/users/{address}/deposits", h.handleAcceptFunds)
			r.Post("/users/{address}/withdrawals", h.handleRequestWithdrawal)
			r.Post("/users/{address}/deployments", h.handleDeploy)
			r.Put("/users/{address}/deposit-address", h.handleBind)
			r.Delete("/users/{address}/deposit-address", h.handleUnbind)
			r.Put("/config/vault", h.handleSetVault)
			r.Put("/config/factory", h.handleSetFactory)
			r.Post("/admin/pause", h.handlePause)
			r.Post("/admin/resume", h.handleResume)
		})
	})
}

// Health reports backing-store reachability for the operational health
// endpoint.
func (h *Handler) Health(ctx context.Context) error {
	return h.ledger.Health(ctx)
}

func (h *Handler) userParam(r *http.Request) (domain.Address, error) {
	return domain.ParseAddress(chi.URLParam(r, "address"))
}

type amountRequest struct {
	Amount    uint64 `json:"amount"`
	Reference string `json:"reference,omitempty"`
}

type bindRequest struct {
	DepositAddress string `json:"depositAddress"`
}

type addressRequest struct {
	Address string `json:"address"`
}

func decode[T any](r *http.Request) (T, error) {
	var req T
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return req, dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid request body")
	}
	return req, nil
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	user, err := h.userParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	caller := middleware.GetCaller(r.Context())
	reg, err := h.ledger.Register(r.Context(), caller, user)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"user":  reg.User.String(),
		"index": reg.Index,
	})
}

func (h *Handler) handleCredit(w http.ResponseWriter, r *http.Request) {
	user, err := h.userParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	req, err := decode[amountRequest](r)
	if err != nil {
		writeError(w, err)
		return
	}
	caller := middleware.GetCaller(r.Context())
	if err := h.ledger.Credit(r.Context(), caller, user, req.Amount, req.Reference); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "credited"})
}

func (h *Handler) handleDebit(w http.ResponseWriter, r *http.Request) {
	user, err := h.userParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	req, err := decode[amountRequest](r)
	if err != nil {
		writeError(w, err)
		return
	}
	caller := middleware.GetCaller(r.Context())
	if err := h.ledger.Debit(r.Context(), caller, user, req.Amount, req.Reference); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "debited"})
}

func (h *Handler) handleAcceptFunds(w http.ResponseWriter, r *http.Request) {
	user, err := h.userParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	req, err := decode[amountRequest](r)
	if err != nil {
		writeError(w, err)
		return
	}
	caller := middleware.GetCaller(r.Context())
	if err := h.ledger.AcceptFunds(r.Context(), caller, user, req.Amount); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "accepted"})
}

func (h *Handler) handleRequestWithdrawal(w http.ResponseWriter, r *http.Request) {
	user, err := h.userParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	req, err := decode[amountRequest](r)
	if err != nil {
		writeError(w, err)
		return
	}
	caller := middleware.GetCaller(r.Context())
	if err := h.ledger.RequestWithdrawal(r.Context(), caller, user, req.Amount); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "requested"})
}

func (h *Handler) handleDeploy(w http.ResponseWriter, r *http.Request) {
	user, err := h.userParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	caller := middleware.GetCaller(r.Context())
	dep, err := h.ledger.DeployUserDepositable(r.Context(), caller, user)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"user":           dep.User.String(),
		"depositAddress": dep.DepositAddress.String(),
		"deployedCount":  dep.DeployedCount,
	})
}

func (h *Handler) handleBind(w http.ResponseWriter, r *http.Request) {
	user, err := h.userParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	req, err := decode[bindRequest](r)
	if err != nil {
		writeError(w, err)
		return
	}
	deposit, err := domain.ParseAddress(req.DepositAddress)
	if err != nil {
		writeError(w, err)
		return
	}
	caller := middleware.GetCaller(r.Context())
	if err := h.ledger.Bind(r.Context(), caller, user, deposit); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "bound"})
}

func (h *Handler) handleUnbind(w http.ResponseWriter, r *http.Request) {
	user, err := h.userParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	caller := middleware.GetCaller(r.Context())
	if err := h.ledger.Unbind(r.Context(), caller, user); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "unbound"})
}

func (h *Handler) handleSetVault(w http.ResponseWriter, r *http.Request) {
	h.handleSetAddress(w, r, h.ledger.SetVaultAddress)
}

func (h *Handler) handleSetFactory(w http.ResponseWriter, r *http.Request) {
	h.handleSetAddress(w, r, h.ledger.SetFactoryAddress)
}

func (h *Handler) handleSetAddress(w http.ResponseWriter, r *http.Request, set func(context.Context, domain.Address, domain.Address) error) {
	req, err := decode[addressRequest](r)
	if err != nil {
		writeError(w, err)
		return
	}
	addr, err := domain.ParseAddress(req.Address)
	if err != nil {
		writeError(w, err)
		return
	}
	caller := middleware.GetCaller(r.Context())
	if err := set(r.Context(), caller, addr); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (h *Handler) handlePause(w http.ResponseWriter, r *http.Request) {
	caller := middleware.GetCaller(r.Context())
	if err := h.ledger.Pause(r.Context(), caller); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "stopped"})
}

func (h *Handler) handleResume(w http.ResponseWriter, r *http.Request) {
	caller := middleware.GetCaller(r.Context())
	if err := h.ledger.Resume(r.Context(), caller); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "running"})
}

func (h *Handler) handleGetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.userParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	record, err := h.ledger.GetUser(r.Context(), user)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"address":        record.Address.String(),
		"balance":        record.Balance,
		"registered":     record.Registered,
		"registryIndex":  record.RegistryIndex,
		"depositAddress": record.DepositAddress.String(),
	})
}

func (h *Handler) handleIsRegistered(w http.ResponseWriter, r *http.Request) {
	user, err := h.userParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	registered, err := h.ledger.IsRegistered(r.Context(), user)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"registered": registered})
}

func (h *Handler) handleGetBalance(w http.ResponseWriter, r *http.Request) {
	user, err := h.userParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	balance, err := h.ledger.GetBalance(r.Context(), user)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]uint64{"balance": balance})
}

func (h *Handler) handleResolveDeposit(w http.ResponseWriter, r *http.Request) {
	user, err := h.userParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	deposit, err := h.ledger.ResolveDepositAddress(r.Context(), user)
	if err != nil {
		writeError(w, err)
		return
	}
	var out any
	if !deposit.IsZero() {
		out = deposit.String()
	}
	writeJSON(w, http.StatusOK, map[string]any{"depositAddress": out})
}

func (h *Handler) handleGetVault(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"address": h.ledger.GetVaultAddress(r.Context()).String()})
}

func (h *Handler) handleGetFactory(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"address": h.ledger.GetFactoryAddress(r.Context()).String()})
}

func (h *Handler) handleDeploymentCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.ledger.DeploymentCount(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]uint64{"count": count})
}

func (h *Handler) handleListAudit(w http.ResponseWriter, r *http.Request) {
	var (
		events []audit.Event
		err    error
	)
	if userParam := r.URL.Query().Get("user"); userParam != "" {
		var user domain.Address
		user, err = domain.ParseAddress(userParam)
		if err != nil {
			writeError(w, err)
			return
		}
		events, err = h.auditLog.ListByUser(r.Context(), user)
	} else {
		events, err = h.auditLog.List(r.Context())
	}
	if err != nil {
		writeError(w, err)
		return
	}
	if events == nil {
		events = []audit.Event{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"events": events})
}
