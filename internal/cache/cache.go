package cache

import (
	"context"
	"strings"
	"sync"

	"github.com/nurpe/contratos-service/internal/model"
)

// Remote is the network boundary the cache reconciles against, implemented
// by the HTTP API client and by fakes in tests.
type Remote interface {
	ListContracts(ctx context.Context) ([]model.Contract, error)
	CreateContract(ctx context.Context, draft model.Contract) (model.Contract, error)
	UpdateContract(ctx context.Context, c model.Contract) (model.Contract, error)
	DeleteContract(ctx context.Context, cui string) error
}

// Facets holds the distinct non-empty values observed per filter dimension,
// in first-seen order.
type Facets struct {
	ContractTypes []string
	PackageNames  []string
	Contractors   []string
	Institutions  []string
}

// Cache is the client-side mirror of the full record set. Mutations are
// applied locally only after the remote call succeeds; a failed call leaves
// the mirror untouched and records the error message. Staleness is resolved
// only by an explicit Refresh.
type Cache struct {
	remote Remote

	mu         sync.Mutex
	all        []model.Contract
	filter     model.ContractFilter
	searchTerm string
	loading    bool
	lastError  string
}

func New(remote Remote) *Cache {
	return &Cache{remote: remote}
}

// Refresh replaces the mirror with the full remote record set, sorted
// descending by id.
func (c *Cache) Refresh(ctx context.Context) error {
	c.mu.Lock()
	c.loading = true
	c.lastError = ""
	c.mu.Unlock()

	records, err := c.remote.ListContracts(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = false
	if err != nil {
		c.lastError = "error loading contracts: " + err.Error()
		return err
	}
	c.all = Reduce(nil, FetchSucceeded{Records: records})
	return nil
}

// Create validates the draft with the form-layer rules, submits it, and on
// success prepends the returned record without re-sorting.
func (c *Cache) Create(ctx context.Context, draft model.Contract) (model.Contract, error) {
	if err := model.ValidateDraft(draft); err != nil {
		c.recordError(err)
		return model.Contract{}, err
	}
	created, err := c.remote.CreateContract(ctx, draft)
	if err != nil {
		c.recordError(err)
		return model.Contract{}, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.all = Reduce(c.all, CreateSucceeded{Record: created})
	return created, nil
}

// Edit submits the update and on success replaces the matching entry in
// place, preserving the existing order.
func (c *Cache) Edit(ctx context.Context, contract model.Contract) (model.Contract, error) {
	updated, err := c.remote.UpdateContract(ctx, contract)
	if err != nil {
		c.recordError(err)
		return model.Contract{}, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.all = Reduce(c.all, UpdateSucceeded{Record: updated})
	return updated, nil
}

// Remove submits the delete and on success filters the entry out.
func (c *Cache) Remove(ctx context.Context, cui string) error {
	if err := c.remote.DeleteContract(ctx, cui); err != nil {
		c.recordError(err)
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.all = Reduce(c.all, DeleteSucceeded{CUI: cui})
	return nil
}

func (c *Cache) SetFilter(filter model.ContractFilter) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filter = filter
}

func (c *Cache) SetSearchTerm(term string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.searchTerm = term
}

// All returns a copy of the full mirror.
func (c *Cache) All() []model.Contract {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]model.Contract, len(c.all))
	copy(out, c.all)
	return out
}

// Visible returns the subset passing the current filter and search term.
func (c *Cache) Visible() []model.Contract {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Select(c.all, c.filter, c.searchTerm)
}

// Facets recomputes the distinct values for the four filter dimensions.
func (c *Cache) Facets() Facets {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Facets{
		ContractTypes: distinctValues(c.all, func(r model.Contract) string { return r.ContractType }),
		PackageNames:  distinctValues(c.all, func(r model.Contract) string { return r.PackageName }),
		Contractors:   distinctValues(c.all, func(r model.Contract) string { return r.Contractor }),
		Institutions:  distinctValues(c.all, func(r model.Contract) string { return r.EducationalInstitution }),
	}
}

func (c *Cache) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

func (c *Cache) LastError() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastError
}

func (c *Cache) recordError(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastError = err.Error()
}

func distinctValues(records []model.Contract, pick func(model.Contract) string) []string {
	seen := make(map[string]struct{}, len(records))
	values := make([]string, 0, len(records))
	for _, r := range records {
		v := strings.TrimSpace(pick(r))
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		values = append(values, v)
	}
	return values
}
