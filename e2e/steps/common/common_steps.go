package common

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	Request(method, path, caller string, body any) error
	RegisterIssuer(issuer string) error
	Fund(account string, balance uint64) error
	ResponseContains(field string) bool
	GetLastResponseStatus() int
	GetLastResponseBody() []byte
}

// RegisterSteps registers common step definitions used across features
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &commonSteps{tc: tc}

	// Background steps
	ctx.Step(`^the registry is running$`, steps.registryIsRunning)
	ctx.Step(`^"([^"]*)" is an authorized issuer with a balance of (\d+)$`, steps.authorizedIssuerWithBalance)
	ctx.Step(`^"([^"]*)" has a balance of (\d+)$`, steps.accountHasBalance)

	// Generic request steps
	ctx.Step(`^"([^"]*)" GETs "([^"]*)"$`, steps.getAs)
	ctx.Step(`^I GET "([^"]*)" without authorization$`, steps.getWithoutAuth)

	// Response assertion steps
	ctx.Step(`^the response status should be (\d+)$`, steps.responseStatusShouldBe)
	ctx.Step(`^the response should contain "([^"]*)"$`, steps.responseShouldContain)
	ctx.Step(`^the response field "([^"]*)" should equal "([^"]*)"$`, steps.responseFieldShouldEqual)
	ctx.Step(`^the error kind should be "([^"]*)"$`, steps.errorKindShouldBe)
}

type commonSteps struct {
	tc TestContext
}

func (s *commonSteps) registryIsRunning(ctx context.Context) error {
	if err := s.tc.Request("GET", "/health", "", nil); err != nil {
		return err
	}
	return s.responseStatusShouldBe(ctx, 200)
}

func (s *commonSteps) authorizedIssuerWithBalance(ctx context.Context, issuer string, balance int) error {
	if err := s.tc.RegisterIssuer(issuer); err != nil {
		return fmt.Errorf("register issuer: %w", err)
	}
	return s.accountHasBalance(ctx, issuer, balance)
}

func (s *commonSteps) accountHasBalance(ctx context.Context, account string, balance int) error {
	if balance < 0 {
		return fmt.Errorf("balance must not be negative")
	}
	return s.tc.Fund(account, uint64(balance))
}

func (s *commonSteps) getAs(ctx context.Context, caller, path string) error {
	return s.tc.Request("GET", path, caller, nil)
}

func (s *commonSteps) getWithoutAuth(ctx context.Context, path string) error {
	return s.tc.Request("GET", path, "", nil)
}

func (s *commonSteps) responseStatusShouldBe(ctx context.Context, expectedStatus int) error {
	actualStatus := s.tc.GetLastResponseStatus()
	if actualStatus != expectedStatus {
		return fmt.Errorf("expected status %d but got %d", expectedStatus, actualStatus)
	}
	return nil
}

func (s *commonSteps) responseShouldContain(ctx context.Context, field string) error {
	if !s.tc.ResponseContains(field) {
		return fmt.Errorf("response does not contain field: %s\nResponse: %s", field, string(s.tc.GetLastResponseBody()))
	}
	return nil
}

func (s *commonSteps) responseFieldShouldEqual(ctx context.Context, field, expectedValue string) error {
	var data map[string]any
	if err := json.Unmarshal(s.tc.GetLastResponseBody(), &data); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	actualValue, ok := data[field]
	if !ok {
		return fmt.Errorf("field %s not found in response", field)
	}

	if fmt.Sprint(actualValue) != expectedValue {
		return fmt.Errorf("field %s: expected %s but got %v", field, expectedValue, actualValue)
	}
	return nil
}

func (s *commonSteps) errorKindShouldBe(ctx context.Context, kind string) error {
	if !strings.Contains(string(s.tc.GetLastResponseBody()), `"error_kind":"`+kind+`"`) {
		return fmt.Errorf("expected error kind %s\nResponse: %s", kind, string(s.tc.GetLastResponseBody()))
	}
	return nil
}
