package service

import (
	"errors"

	"pensionledger/pkg/platform/sentinel"
)

func isNotFound(err error) bool {
	return errors.Is(err, sentinel.ErrNotFound)
}

func isConflict(err error) bool {
	return errors.Is(err, sentinel.ErrConflict)
}
