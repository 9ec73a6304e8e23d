package factory

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"custodia/pkg/domain"
)

const (
	factoryAddr = domain.Address("0x5555555555555555555555555555555555555555")
	userAddr    = domain.Address("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	ledgerAddr  = domain.Address("0x5e1f5e1f5e1f5e1f5e1f5e1f5e1f5e1f5e1f5e1f")
	newDeposit  = "0xdddddddddddddddddddddddddddddddddddddddd"
)

func TestDeployDepositable(t *testing.T) {
	var got deployRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/depositables", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
		require.NoError(t, json.NewEncoder(w).Encode(deployResponse{Address: newDeposit}))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	addr, err := client.DeployDepositable(context.Background(), factoryAddr, userAddr, ledgerAddr)
	require.NoError(t, err)
	assert.Equal(t, domain.Address(newDeposit), addr)
	assert.Equal(t, userAddr.String(), got.User)
	assert.Equal(t, ledgerAddr.String(), got.Owner)
}

func TestDeployDepositableFailureSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "deploy reverted", http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	_, err := client.DeployDepositable(context.Background(), factoryAddr, userAddr, ledgerAddr)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestDeployDepositableRejectsMalformedAddress(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewEncoder(w).Encode(deployResponse{Address: "bogus"}))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	_, err := client.DeployDepositable(context.Background(), factoryAddr, userAddr, ledgerAddr)
	assert.Error(t, err)
}
