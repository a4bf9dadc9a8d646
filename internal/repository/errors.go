package repository

import (
	"errors"

	apperrors "github.com/spec-kit/storage-service/pkg/util"
)

// mapStoreError classifies document store failures. Malformed filters never
// reach the store (query building rejects them), so anything the driver
// reports is a retryable backend fault.
func mapStoreError(err error) error {
	if err == nil {
		return nil
	}
	var domainErr *apperrors.DomainError
	if errors.As(err, &domainErr) {
		return err
	}
	return apperrors.NewStorageUnavailable(err)
}
