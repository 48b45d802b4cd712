// Package seeder loads the configured institutions, settings and balances at startup.
package seeder

import (
	"context"
	"fmt"
	"log/slog"

	"tourmint/internal/mint/models"
	id "tourmint/pkg/domain"
)

// InstitutionRegistrar registers issuing institutions.
type InstitutionRegistrar interface {
	Register(ctx context.Context, identity id.Identity) error
}

// SettingsInitializer writes the first settings record. It reports false when
// settings already exist, in which case they are left untouched.
type SettingsInitializer interface {
	Init(ctx context.Context, settings models.Settings) (bool, error)
}

// AccountSeeder opens payment accounts. Existing accounts keep their balance.
type AccountSeeder interface {
	Seed(ctx context.Context, account id.Identity, amount uint64) (bool, error)
}

// Seed is the data to load.
type Seed struct {
	Settings models.Settings
	Issuers  []string
	Balances map[string]uint64
}

type Seeder struct {
	institutions InstitutionRegistrar
	settings     SettingsInitializer
	accounts     AccountSeeder
	logger       *slog.Logger
}

// New creates a seeder. accounts may be nil when balances are managed elsewhere.
func New(institutions InstitutionRegistrar, settings SettingsInitializer, accounts AccountSeeder, logger *slog.Logger) *Seeder {
	return &Seeder{
		institutions: institutions,
		settings:     settings,
		accounts:     accounts,
		logger:       logger,
	}
}

// SeedAll is idempotent: rerunning it against persisted stores changes nothing.
func (s *Seeder) SeedAll(ctx context.Context, seed Seed) error {
	owner, err := id.ParseIdentity(seed.Settings.ContractOwner.String())
	if err != nil {
		return fmt.Errorf("invalid contract owner: %w", err)
	}
	seed.Settings.ContractOwner = owner
	if seed.Settings.MintFee == 0 || seed.Settings.MaxEditionLimit == 0 {
		return fmt.Errorf("mint fee and max edition limit must be positive")
	}

	created, err := s.settings.Init(ctx, seed.Settings)
	if err != nil {
		return fmt.Errorf("failed to initialize registry settings: %w", err)
	}
	if created {
		s.logger.Info("registry settings initialized",
			"contract_owner", owner,
			"mint_fee", seed.Settings.MintFee,
			"max_edition_limit", seed.Settings.MaxEditionLimit,
		)
	} else {
		s.logger.Info("registry settings already present, keeping stored values")
	}

	for _, raw := range seed.Issuers {
		issuer, err := id.ParseIdentity(raw)
		if err != nil {
			return fmt.Errorf("invalid issuer %q: %w", raw, err)
		}
		if err := s.institutions.Register(ctx, issuer); err != nil {
			return fmt.Errorf("failed to register issuer %s: %w", issuer, err)
		}
	}

	opened := 0
	if s.accounts != nil {
		for raw, amount := range seed.Balances {
			account, err := id.ParseIdentity(raw)
			if err != nil {
				return fmt.Errorf("invalid account %q: %w", raw, err)
			}
			ok, err := s.accounts.Seed(ctx, account, amount)
			if err != nil {
				return fmt.Errorf("failed to seed balance for %s: %w", account, err)
			}
			if ok {
				opened++
			}
		}
	}

	s.logger.Info("seed data loaded",
		"issuers", len(seed.Issuers),
		"accounts_opened", opened,
	)
	return nil
}
