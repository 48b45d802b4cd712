package e2e

import (
	"github.com/cucumber/godog"

	"tourmint/e2e/steps/admin"
	"tourmint/e2e/steps/common"
	"tourmint/e2e/steps/mint"
)

// RegisterSteps registers all step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	common.RegisterSteps(ctx, tc)
	mint.RegisterSteps(ctx, tc)
	admin.RegisterSteps(ctx, tc)
}
