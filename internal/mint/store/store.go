// Package store persists credentials, ownership and registry settings.
//
// Every backend reports absence as sentinel.ErrNotFound and id collisions as
// sentinel.ErrConflict; the service translates them exactly once.
package store

import (
	"errors"

	"tourmint/pkg/platform/sentinel"
)

// ErrSettingsNotInitialized is returned by Snapshot before Init has run.
var ErrSettingsNotInitialized = errors.Join(sentinel.ErrInvalidState, errors.New("registry settings not initialized"))
