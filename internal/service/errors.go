package service

import (
	"errors"

	"github.com/spec-kit/secops-service/internal/repository"
	apperrors "github.com/spec-kit/secops-service/pkg/util"
)

// translate maps repository sentinels onto API errors for the named resource.
func translate(resource, id string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		var details map[string]any
		if id != "" {
			details = map[string]any{"id": id}
		}
		return apperrors.NewNotFound(resource, details)
	case errors.Is(err, repository.ErrConstraint):
		return apperrors.NewConflict(resource+" conflicts with an existing record", nil)
	default:
		return apperrors.ToDomainError(err)
	}
}
