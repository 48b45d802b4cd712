package admin

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	Request(method, path, caller string, body any) error
	AdminRequest(method, path string) error
	GetContractOwner() string
	GetLastResponseStatus() int
	GetLastResponseBody() []byte
	GetLastCredentialID() string
}

// RegisterSteps registers admin-related step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &adminSteps{tc: tc}

	ctx.Step(`^the contract owner pauses minting$`, steps.ownerPauses)
	ctx.Step(`^the contract owner unpauses minting$`, steps.ownerUnpauses)
	ctx.Step(`^the contract owner sets the mint fee to (\d+)$`, steps.ownerSetsMintFee)
	ctx.Step(`^the contract owner sets the max edition limit to (\d+)$`, steps.ownerSetsMaxEditionLimit)
	ctx.Step(`^"([^"]*)" tries to pause minting$`, steps.callerPauses)
	ctx.Step(`^"([^"]*)" tries to set the mint fee to (\d+)$`, steps.callerSetsMintFee)
	ctx.Step(`^the operator lists the audit trail of the credential$`, steps.listCredentialAudit)
	ctx.Step(`^the audit trail should contain "([^"]*)"$`, steps.auditTrailShouldContain)
}

type adminSteps struct {
	tc TestContext
}

func (s *adminSteps) expectOK() error {
	if status := s.tc.GetLastResponseStatus(); status != http.StatusOK {
		return fmt.Errorf("admin call returned status %d: %s", status, string(s.tc.GetLastResponseBody()))
	}
	return nil
}

func (s *adminSteps) ownerPauses(ctx context.Context) error {
	if err := s.callerPauses(ctx, s.tc.GetContractOwner()); err != nil {
		return err
	}
	return s.expectOK()
}

func (s *adminSteps) ownerUnpauses(ctx context.Context) error {
	if err := s.tc.Request("PUT", "/admin/paused", s.tc.GetContractOwner(), map[string]any{"paused": false}); err != nil {
		return err
	}
	return s.expectOK()
}

func (s *adminSteps) ownerSetsMintFee(ctx context.Context, fee int) error {
	if err := s.callerSetsMintFee(ctx, s.tc.GetContractOwner(), fee); err != nil {
		return err
	}
	return s.expectOK()
}

func (s *adminSteps) ownerSetsMaxEditionLimit(ctx context.Context, limit int) error {
	body := map[string]any{"max_edition_limit": limit}
	if err := s.tc.Request("PUT", "/admin/max-edition-limit", s.tc.GetContractOwner(), body); err != nil {
		return err
	}
	return s.expectOK()
}

func (s *adminSteps) callerPauses(ctx context.Context, caller string) error {
	return s.tc.Request("PUT", "/admin/paused", caller, map[string]any{"paused": true})
}

func (s *adminSteps) callerSetsMintFee(ctx context.Context, caller string, fee int) error {
	return s.tc.Request("PUT", "/admin/mint-fee", caller, map[string]any{"mint_fee": fee})
}

func (s *adminSteps) listCredentialAudit(ctx context.Context) error {
	credentialID := s.tc.GetLastCredentialID()
	if credentialID == "" {
		return fmt.Errorf("credential ID not set")
	}
	return s.tc.AdminRequest("GET", "/ops/audit?credential_id="+credentialID)
}

func (s *adminSteps) auditTrailShouldContain(ctx context.Context, action string) error {
	var body struct {
		Events []struct {
			Action string `json:"action"`
		} `json:"events"`
	}
	if err := json.Unmarshal(s.tc.GetLastResponseBody(), &body); err != nil {
		return fmt.Errorf("failed to parse audit response: %w", err)
	}
	for _, e := range body.Events {
		if e.Action == action {
			return nil
		}
	}
	return fmt.Errorf("audit trail has no %q event: %s", action, string(s.tc.GetLastResponseBody()))
}
