package ledger

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"custodia/internal/access"
	"custodia/internal/audit"
	"custodia/internal/factory"
	"custodia/internal/jwtauth"
	"custodia/internal/ledger/handler"
	"custodia/internal/ledger/service"
	"custodia/internal/ledger/store"
	httptransport "custodia/internal/transport/http"
	"custodia/internal/vault"
	"custodia/pkg/domain"
	dErrors "custodia/pkg/domain-errors"
	"custodia/pkg/testutil"
)

const (
	selfAddr    = domain.Address("0x00000000000000000000000000000000000000aa")
	ownerAddr   = domain.Address("0x0000000000000000000000000000000000000001")
	ctrlAddr    = domain.Address("0x0000000000000000000000000000000000000002")
	userAddr    = domain.Address("0x0000000000000000000000000000000000000a01")
	vaultAddr   = domain.Address("0x00000000000000000000000000000000000000e1")
	factoryAddr = domain.Address("0x00000000000000000000000000000000000000f1")
)

// stack assembles the ledger exactly as main does, with memory backends and
// httptest servers standing in for the vault and factory.
type stack struct {
	router    http.Handler
	tokens    *jwtauth.Service
	audit     *audit.Publisher
	transfers *atomic.Int64
}

func newStack(t *testing.T) *stack {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	var transfers atomic.Int64
	vaultSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		transfers.Add(1)
		w.WriteHeader(http.StatusAccepted)
	}))
	t.Cleanup(vaultSrv.Close)

	var deployed atomic.Int64
	factorySrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := deployed.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"address": fmt.Sprintf("0x%040x", n),
		})
	}))
	t.Cleanup(factorySrv.Close)

	accessCtrl := access.NewInMemoryController(ownerAddr, ctrlAddr)
	publisher := audit.NewPublisher(audit.NewInMemoryStore())

	svc, err := service.New(
		store.NewInMemoryLedgerStore(),
		accessCtrl,
		vault.NewClient(vaultSrv.URL, 5*time.Second),
		factory.NewClient(factorySrv.URL, 5*time.Second),
		service.Addresses{Self: selfAddr, Vault: vaultAddr, Factory: factoryAddr},
		service.WithLogger(logger),
		service.WithAuditPublisher(publisher),
		service.WithLifecycleController(accessCtrl),
	)
	require.NoError(t, err)

	tokens := jwtauth.New("integration-test-key", "custodia")
	router := httptransport.NewRouter(handler.New(svc, publisher, tokens, logger))

	return &stack{
		router:    router,
		tokens:    tokens,
		audit:     publisher,
		transfers: &transfers,
	}
}

func (st *stack) authed(t *testing.T, req *http.Request, caller domain.Address) *http.Request {
	t.Helper()
	token, err := st.tokens.GenerateToken(caller, time.Minute)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestDepositFlow(t *testing.T) {
	st := newStack(t)
	base := "/v1/users/" + userAddr.String()

	// Register the user.
	rr := testutil.DoRequest(st.router, st.authed(t, testutil.NewRequest(t, http.MethodPost, base+"/register"), ctrlAddr))
	testutil.AssertStatus(t, rr, http.StatusCreated)
	testutil.AssertJSONContains(t, rr, "index", float64(0))

	// Deploy a depositable and read back the binding.
	rr = testutil.DoRequest(st.router, st.authed(t, testutil.NewRequest(t, http.MethodPost, base+"/deployments"), ctrlAddr))
	testutil.AssertStatus(t, rr, http.StatusCreated)
	deployment := testutil.UnmarshalResponse[map[string]any](t, rr)
	deposit, err := domain.ParseAddress((*deployment)["depositAddress"].(string))
	require.NoError(t, err)

	rr = testutil.DoRequest(st.router, testutil.NewRequest(t, http.MethodGet, base+"/deposit-address"))
	testutil.AssertStatusOK(t, rr)
	testutil.AssertJSONContains(t, rr, "depositAddress", deposit.String())

	// The bound deposit address forwards funds; the vault sees the transfer
	// and the user balance grows.
	rr = testutil.DoRequest(st.router, st.authed(t,
		testutil.NewJSONRequest(t, http.MethodPost, base+"/deposits", map[string]any{"amount": 100}), deposit))
	testutil.AssertStatusOK(t, rr)
	assert.Equal(t, int64(1), st.transfers.Load())

	rr = testutil.DoRequest(st.router, testutil.NewRequest(t, http.MethodGet, base+"/balance"))
	testutil.AssertStatusOK(t, rr)
	testutil.AssertJSONContains(t, rr, "balance", float64(100))

	// Withdraw part of it.
	rr = testutil.DoRequest(st.router, st.authed(t,
		testutil.NewJSONRequest(t, http.MethodPost, base+"/withdrawals", map[string]any{"amount": 40}), ctrlAddr))
	testutil.AssertStatus(t, rr, http.StatusAccepted)

	rr = testutil.DoRequest(st.router, testutil.NewRequest(t, http.MethodGet, base+"/balance"))
	testutil.AssertStatusOK(t, rr)
	testutil.AssertJSONContains(t, rr, "balance", float64(60))

	// The whole flow is in the audit log.
	rr = testutil.DoRequest(st.router, testutil.NewRequest(t, http.MethodGet, "/v1/audit?user="+userAddr.String()))
	testutil.AssertStatusOK(t, rr)
	var auditPage struct {
		Events []audit.Event `json:"events"`
	}
	require.NoError(t, json.Unmarshal(testutil.ReadBody(t, rr), &auditPage))
	kinds := make([]audit.Kind, 0, len(auditPage.Events))
	for _, e := range auditPage.Events {
		kinds = append(kinds, e.Kind)
	}
	assert.Equal(t, []audit.Kind{
		audit.KindUserInserted,
		audit.KindDepositableDeployed,
		audit.KindUserDeposit,
		audit.KindWithdrawRequested,
	}, kinds)
}

func TestPauseGatesMutationsOverHTTP(t *testing.T) {
	st := newStack(t)
	base := "/v1/users/" + userAddr.String()

	rr := testutil.DoRequest(st.router, st.authed(t, testutil.NewRequest(t, http.MethodPost, "/v1/admin/pause"), ownerAddr))
	testutil.AssertStatusOK(t, rr)

	rr = testutil.DoRequest(st.router, st.authed(t, testutil.NewRequest(t, http.MethodPost, base+"/register"), ctrlAddr))
	testutil.AssertStatusAndError(t, rr, http.StatusConflict, string(dErrors.CodeSystemStopped))

	// Reads stay open while stopped.
	rr = testutil.DoRequest(st.router, testutil.NewRequest(t, http.MethodGet, base+"/balance"))
	testutil.AssertStatusOK(t, rr)

	rr = testutil.DoRequest(st.router, st.authed(t, testutil.NewRequest(t, http.MethodPost, "/v1/admin/resume"), ownerAddr))
	testutil.AssertStatusOK(t, rr)

	rr = testutil.DoRequest(st.router, st.authed(t, testutil.NewRequest(t, http.MethodPost, base+"/register"), ctrlAddr))
	testutil.AssertStatus(t, rr, http.StatusCreated)
}

func TestHealthEndpoint(t *testing.T) {
	st := newStack(t)

	rr := testutil.DoRequest(st.router, testutil.NewRequest(t, http.MethodGet, "/healthz"))
	testutil.AssertStatusOK(t, rr)
	testutil.AssertJSONContains(t, rr, "status", "ok")
}
