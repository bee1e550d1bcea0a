package service

import (
	"errors"
	"net/http"

	domainerrors "github.com/booruapp/tagsearch-server/internal/errors"
	"github.com/booruapp/tagsearch-server/internal/store"
)

// fromStore converts store errors into domain errors so handlers see one error vocabulary.
// Errors that are not store errors pass through unchanged.
func fromStore(err error) error {
	if err == nil {
		return nil
	}

	var storeErr *store.Error
	if !errors.As(err, &storeErr) {
		return err
	}

	var code domainerrors.Code
	switch storeErr.HTTPCode() {
	case http.StatusNotFound:
		code = domainerrors.CodeNotFound
	case http.StatusConflict:
		code = domainerrors.CodeAlreadyExists
	case http.StatusBadRequest:
		code = domainerrors.CodeValidation
	case http.StatusForbidden:
		code = domainerrors.CodeForbidden
	default:
		code = domainerrors.CodeInternal
	}
	return domainerrors.Wrap(err, code, storeErr.Message)
}
