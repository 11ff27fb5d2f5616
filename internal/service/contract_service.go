package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/nurpe/contratos-service/internal/model"
)

// ContractStore is the record store boundary, implemented by the workbook
// store and by fakes in tests.
type ContractStore interface {
	ListAll(ctx context.Context) ([]model.Contract, error)
	Insert(ctx context.Context, c model.Contract) (model.Contract, error)
	Update(ctx context.Context, c model.Contract) (model.Contract, error)
	Remove(ctx context.Context, cui string) (string, error)
}

type ContractService struct {
	store ContractStore
	log   zerolog.Logger
}

func NewContractService(store ContractStore, log zerolog.Logger) *ContractService {
	return &ContractService{store: store, log: log}
}

func (s *ContractService) List(ctx context.Context) ([]model.Contract, error) {
	return s.store.ListAll(ctx)
}

// Create appends the contract. Uniqueness of the identifying key is not
// enforced here; the backing sheet may end up with duplicate cui rows.
func (s *ContractService) Create(ctx context.Context, draft model.Contract) (model.Contract, error) {
	created, err := s.store.Insert(ctx, draft)
	if err != nil {
		return model.Contract{}, err
	}
	s.log.Info().Str("cui", created.CUI).Msg("contract created")
	return created, nil
}

func (s *ContractService) Update(ctx context.Context, c model.Contract) (model.Contract, error) {
	updated, err := s.store.Update(ctx, c)
	if err != nil {
		return model.Contract{}, err
	}
	s.log.Info().Str("cui", updated.CUI).Msg("contract updated")
	return updated, nil
}

func (s *ContractService) Delete(ctx context.Context, cui string) (string, error) {
	if strings.TrimSpace(cui) == "" {
		return "", fmt.Errorf("%w: cui (id) is missing in the delete payload", ErrInvalidInput)
	}
	key, err := s.store.Remove(ctx, cui)
	if err != nil {
		return "", err
	}
	s.log.Info().Str("cui", key).Msg("contract deleted")
	return key, nil
}
