package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"tourmint/internal/clock"
	"tourmint/internal/identity"
	institutionservice "tourmint/internal/institution/service"
	institutionstore "tourmint/internal/institution/store"
	mintadmin "tourmint/internal/mint/admin"
	minthandler "tourmint/internal/mint/handler"
	"tourmint/internal/mint/models"
	mintservice "tourmint/internal/mint/service"
	mintstore "tourmint/internal/mint/store"
	"tourmint/internal/payment/ledger"
	paymentmodels "tourmint/internal/payment/models"
	"tourmint/internal/platform/health"
	"tourmint/internal/seeder"
	httptransport "tourmint/internal/transport/http"
	id "tourmint/pkg/domain"
	"tourmint/pkg/platform/audit"
	"tourmint/pkg/platform/audit/publisher"
	auditmemory "tourmint/pkg/platform/audit/store/memory"
)

const (
	signingKey    = "e2e-signing-key"
	adminAPIToken = "e2e-admin-token"

	// ContractOwner is the registry owner seeded for every scenario.
	ContractOwner = "ST1TEST"
)

// TestContext holds state between test steps. Each scenario gets a fresh
// in-process server backed by memory stores.
type TestContext struct {
	server           *httptest.Server
	tokens           *identity.Service
	gate             *institutionservice.Gate
	ledger           *ledger.InMemoryLedger
	HTTPClient       *http.Client
	LastResponse     *http.Response
	LastResponseBody []byte
	LastCredentialID string
}

// Start builds the full HTTP stack with the default registry seed.
func (tc *TestContext) Start() error {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	settings := mintstore.NewInMemorySettingsStore()
	accounts := ledger.NewInMemoryLedger()
	stores := mintservice.Stores{
		Credentials: mintstore.NewInMemoryCredentialStore(),
		Settings:    settings,
		Payments:    accounts,
	}

	gate, err := institutionservice.NewGate(institutionstore.NewInMemoryStore(), institutionservice.WithLogger(logger))
	if err != nil {
		return err
	}

	auditPublisher := publisher.NewPublisher(auditmemory.NewInMemoryStore())
	auditor := audit.NewLogger(logger, auditPublisher)

	svc, err := mintservice.New(mintservice.NewInMemoryStoreTx(stores), stores, gate, clock.New(1),
		mintservice.WithLogger(logger),
		mintservice.WithAuditLogger(auditor),
	)
	if err != nil {
		return err
	}
	adminSvc := mintadmin.New(settings, mintadmin.WithLogger(logger), mintadmin.WithAuditLogger(auditor))

	err = seeder.New(gate, settings, accounts, logger).SeedAll(ctx, seeder.Seed{
		Settings: models.Settings{ContractOwner: ContractOwner, MintFee: 1000, MaxEditionLimit: 100},
	})
	if err != nil {
		return fmt.Errorf("seed registry: %w", err)
	}

	tokens := identity.NewService(signingKey, identity.DefaultIssuer, time.Hour)
	h := minthandler.New(svc, adminSvc, auditPublisher, logger)
	router := httptransport.NewRouter(httptransport.Config{
		Logger:        logger,
		Tokens:        tokens,
		AdminAPIToken: adminAPIToken,
		Health:        health.New("e2e", map[string]string{"registry": "memory"}),
		Public:        []httptransport.RouteRegistrar{h},
		Ops:           []httptransport.OpsRegistrar{h},
	})

	*tc = TestContext{
		server:     httptest.NewServer(router),
		tokens:     tokens,
		gate:       gate,
		ledger:     accounts,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
	return nil
}

// Close stops the in-process server.
func (tc *TestContext) Close() {
	if tc.server != nil {
		tc.server.Close()
	}
}

// Request sends a JSON request as caller. An empty caller sends no token.
func (tc *TestContext) Request(method, path, caller string, body any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(context.Background(), method, tc.server.URL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if caller != "" {
		token, err := tc.tokens.IssueToken(context.Background(), id.Identity(caller))
		if err != nil {
			return fmt.Errorf("failed to issue token: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := tc.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}

	tc.LastResponse = resp
	tc.LastResponseBody, err = io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	return nil
}

// AdminRequest sends an operator request with the admin token.
func (tc *TestContext) AdminRequest(method, path string) error {
	req, err := http.NewRequestWithContext(context.Background(), method, tc.server.URL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Admin-Token", adminAPIToken)

	resp, err := tc.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	tc.LastResponse = resp
	tc.LastResponseBody, err = io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	return nil
}

// GetResponseField extracts a field from the JSON response
func (tc *TestContext) GetResponseField(field string) (any, error) {
	var data map[string]any
	if err := json.Unmarshal(tc.LastResponseBody, &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	value, ok := data[field]
	if !ok {
		return nil, fmt.Errorf("field %s not found in response", field)
	}
	return value, nil
}

// ResponseContains checks if the response body contains a field or text
func (tc *TestContext) ResponseContains(text string) bool {
	if strings.Contains(string(tc.LastResponseBody), text) {
		return true
	}

	var data map[string]any
	if err := json.Unmarshal(tc.LastResponseBody, &data); err == nil {
		if _, ok := data[text]; ok {
			return true
		}
	}
	return false
}

// Getter methods for step package interfaces

func (tc *TestContext) GetLastResponseStatus() int {
	if tc.LastResponse == nil {
		return 0
	}
	return tc.LastResponse.StatusCode
}

func (tc *TestContext) GetLastResponseBody() []byte {
	return tc.LastResponseBody
}

func (tc *TestContext) GetLastCredentialID() string {
	return tc.LastCredentialID
}

func (tc *TestContext) SetLastCredentialID(credentialID string) {
	tc.LastCredentialID = credentialID
}

func (tc *TestContext) GetContractOwner() string {
	return ContractOwner
}

// RegisterIssuer authorizes an institution to mint.
func (tc *TestContext) RegisterIssuer(issuer string) error {
	return tc.gate.Register(context.Background(), id.Identity(issuer))
}

// Fund opens a payment account with the given balance.
func (tc *TestContext) Fund(account string, balance uint64) error {
	_, err := tc.ledger.Seed(context.Background(), id.Identity(account), balance)
	return err
}

func (tc *TestContext) Balance(account string) (uint64, error) {
	return tc.ledger.Balance(context.Background(), id.Identity(account))
}

func (tc *TestContext) Transfers() ([]paymentmodels.Transfer, error) {
	return tc.ledger.Transfers(context.Background())
}
