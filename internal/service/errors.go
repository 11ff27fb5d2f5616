package service

import (
	"errors"

	"github.com/nurpe/contratos-service/internal/store"
)

var (
	ErrNotFound         = store.ErrNotFound
	ErrStoreUnavailable = store.ErrStoreUnavailable
	ErrSchemaMismatch   = store.ErrSchemaMismatch
	ErrLockTimeout      = store.ErrLockTimeout
	ErrInvalidInput     = errors.New("invalid input")
)
