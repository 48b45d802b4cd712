package service

import (
	"context"
	"errors"

	"tourmint/internal/mint/models"
	id "tourmint/pkg/domain"
	dErrors "tourmint/pkg/domain-errors"
	"tourmint/pkg/platform/sentinel"
)

// GetCredential returns the credential and true, or nil and false when no
// credential has that id. Absence is not an error.
func (s *Service) GetCredential(ctx context.Context, credentialID id.CredentialID) (*models.Credential, bool, error) {
	credential, err := s.stores.Credentials.FindByID(ctx, credentialID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load credential")
	}
	return credential, true, nil
}

// GetOwner returns the current owner and true, or "" and false when absent.
func (s *Service) GetOwner(ctx context.Context, credentialID id.CredentialID) (id.Identity, bool, error) {
	owner, err := s.stores.Credentials.OwnerOf(ctx, credentialID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load credential owner")
	}
	return owner, true, nil
}

func (s *Service) LastID(ctx context.Context) (id.CredentialID, error) {
	lastID, err := s.stores.Credentials.LastID(ctx)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read last credential id")
	}
	return lastID, nil
}

func (s *Service) IsPaused(ctx context.Context) (bool, error) {
	settings, err := s.settings(ctx)
	return settings.Paused, err
}

func (s *Service) MintFee(ctx context.Context) (uint64, error) {
	settings, err := s.settings(ctx)
	return settings.MintFee, err
}

func (s *Service) MaxEditionLimit(ctx context.Context) (uint64, error) {
	settings, err := s.settings(ctx)
	return settings.MaxEditionLimit, err
}

func (s *Service) ContractOwner(ctx context.Context) (id.Identity, error) {
	settings, err := s.settings(ctx)
	return settings.ContractOwner, err
}

// Registry returns the last id together with the current settings.
func (s *Service) Registry(ctx context.Context) (models.RegistryView, error) {
	settings, err := s.settings(ctx)
	if err != nil {
		return models.RegistryView{}, err
	}
	lastID, err := s.LastID(ctx)
	if err != nil {
		return models.RegistryView{}, err
	}
	return models.RegistryView{
		LastID:          lastID,
		ContractOwner:   settings.ContractOwner,
		MintFee:         settings.MintFee,
		MaxEditionLimit: settings.MaxEditionLimit,
		Paused:          settings.Paused,
	}, nil
}

func (s *Service) settings(ctx context.Context) (models.Settings, error) {
	settings, err := s.stores.Settings.Snapshot(ctx)
	if err != nil {
		return models.Settings{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load registry settings")
	}
	return settings, nil
}
