package mint

import (
	"context"
	"fmt"
	"strings"

	"github.com/cucumber/godog"

	paymentmodels "tourmint/internal/payment/models"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	Request(method, path, caller string, body any) error
	GetResponseField(field string) (any, error)
	GetLastResponseStatus() int
	GetLastResponseBody() []byte
	GetLastCredentialID() string
	SetLastCredentialID(credentialID string)
	GetContractOwner() string
	Balance(account string) (uint64, error)
	Transfers() ([]paymentmodels.Transfer, error)
}

// RegisterSteps registers minting and transfer step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &mintSteps{tc: tc}

	ctx.Step(`^"([^"]*)" mints the credential "([^"]*)" with tags "([^"]*)"$`, steps.mintCredential)
	ctx.Step(`^"([^"]*)" mints a credential with royalty rate (\d+)$`, steps.mintWithRoyalty)
	ctx.Step(`^"([^"]*)" mints a non-transferable credential$`, steps.mintNonTransferable)
	ctx.Step(`^I save the credential ID from the response$`, steps.saveCredentialID)
	ctx.Step(`^"([^"]*)" transfers the credential to "([^"]*)"$`, steps.transferCredential)
	ctx.Step(`^"([^"]*)" looks up the owner of the credential$`, steps.lookUpOwner)
	ctx.Step(`^"([^"]*)" looks up the credential$`, steps.lookUpCredential)
	ctx.Step(`^"([^"]*)" looks up the registry$`, steps.lookUpRegistry)
	ctx.Step(`^the owner of the credential should be "([^"]*)"$`, steps.ownerShouldBe)
	ctx.Step(`^a payment of (\d+) from "([^"]*)" to the contract owner should be recorded$`, steps.paymentRecorded)
	ctx.Step(`^no payment should be recorded$`, steps.noPaymentRecorded)
	ctx.Step(`^"([^"]*)" should have a balance of (\d+)$`, steps.balanceShouldBe)
}

type mintSteps struct {
	tc TestContext
}

func tourRequest(title string, tags []string) map[string]any {
	return map[string]any{
		"title":           title,
		"description":     "Desc",
		"content_hash":    "0x" + strings.Repeat("00", 32),
		"access_tier":     "basic",
		"edition_limit":   10,
		"royalty_rate":    5,
		"is_transferable": true,
		"metadata_uri":    "uri",
		"tags":            tags,
	}
}

func (s *mintSteps) mintCredential(ctx context.Context, caller, title, tags string) error {
	return s.tc.Request("POST", "/credentials", caller, tourRequest(title, strings.Split(tags, ",")))
}

func (s *mintSteps) mintWithRoyalty(ctx context.Context, caller string, royalty int) error {
	body := tourRequest("Tour1", []string{"tag1"})
	body["royalty_rate"] = royalty
	return s.tc.Request("POST", "/credentials", caller, body)
}

func (s *mintSteps) mintNonTransferable(ctx context.Context, caller string) error {
	body := tourRequest("Tour1", []string{"tag1"})
	body["is_transferable"] = false
	return s.tc.Request("POST", "/credentials", caller, body)
}

func (s *mintSteps) saveCredentialID(ctx context.Context) error {
	value, err := s.tc.GetResponseField("credential_id")
	if err != nil {
		return err
	}
	s.tc.SetLastCredentialID(fmt.Sprint(value))
	return nil
}

func (s *mintSteps) credentialPath(suffix string) (string, error) {
	credentialID := s.tc.GetLastCredentialID()
	if credentialID == "" {
		return "", fmt.Errorf("credential ID not set")
	}
	return "/credentials/" + credentialID + suffix, nil
}

func (s *mintSteps) transferCredential(ctx context.Context, caller, recipient string) error {
	path, err := s.credentialPath("/transfer")
	if err != nil {
		return err
	}
	return s.tc.Request("POST", path, caller, map[string]any{"recipient": recipient})
}

func (s *mintSteps) lookUpOwner(ctx context.Context, caller string) error {
	path, err := s.credentialPath("/owner")
	if err != nil {
		return err
	}
	return s.tc.Request("GET", path, caller, nil)
}

func (s *mintSteps) lookUpCredential(ctx context.Context, caller string) error {
	path, err := s.credentialPath("")
	if err != nil {
		return err
	}
	return s.tc.Request("GET", path, caller, nil)
}

func (s *mintSteps) lookUpRegistry(ctx context.Context, caller string) error {
	return s.tc.Request("GET", "/registry", caller, nil)
}

func (s *mintSteps) ownerShouldBe(ctx context.Context, expected string) error {
	if err := s.lookUpOwner(ctx, expected); err != nil {
		return err
	}
	if status := s.tc.GetLastResponseStatus(); status != 200 {
		return fmt.Errorf("owner lookup returned status %d: %s", status, string(s.tc.GetLastResponseBody()))
	}
	owner, err := s.tc.GetResponseField("owner")
	if err != nil {
		return err
	}
	if fmt.Sprint(owner) != expected {
		return fmt.Errorf("expected owner %s but got %v", expected, owner)
	}
	return nil
}

func (s *mintSteps) paymentRecorded(ctx context.Context, amount int, from string) error {
	transfers, err := s.tc.Transfers()
	if err != nil {
		return err
	}
	owner := s.tc.GetContractOwner()
	for _, t := range transfers {
		if int(t.Amount) == amount && t.From.String() == from && t.To.String() == owner {
			return nil
		}
	}
	return fmt.Errorf("no payment of %d from %s to %s in %v", amount, from, owner, transfers)
}

func (s *mintSteps) noPaymentRecorded(ctx context.Context) error {
	transfers, err := s.tc.Transfers()
	if err != nil {
		return err
	}
	if len(transfers) != 0 {
		return fmt.Errorf("expected no payments but found %d", len(transfers))
	}
	return nil
}

func (s *mintSteps) balanceShouldBe(ctx context.Context, account string, expected int) error {
	balance, err := s.tc.Balance(account)
	if err != nil {
		return err
	}
	if int(balance) != expected {
		return fmt.Errorf("expected %s balance %d but got %d", account, expected, balance)
	}
	return nil
}
