package cache

import (
	"strings"

	"github.com/nurpe/contratos-service/internal/model"
)

// IsVisible reports whether a contract passes every active facet constraint
// and the free-text search. Pure and deterministic.
func IsVisible(c model.Contract, filter model.ContractFilter, searchTerm string) bool {
	if !matchesFacet(c.ContractType, filter.ContractType) {
		return false
	}
	if !matchesFacet(c.PackageName, filter.PackageName) {
		return false
	}
	if !matchesFacet(c.Contractor, filter.Contractor) {
		return false
	}
	if !matchesFacet(c.EducationalInstitution, filter.EducationalInstitution) {
		return false
	}
	return matchesSearch(c, searchTerm)
}

// Select returns the contracts visible under the filter and search term, in
// input order.
func Select(records []model.Contract, filter model.ContractFilter, searchTerm string) []model.Contract {
	visible := make([]model.Contract, 0, len(records))
	for _, r := range records {
		if IsVisible(r, filter, searchTerm) {
			visible = append(visible, r)
		}
	}
	return visible
}

func matchesFacet(value, want string) bool {
	return want == "" || strings.EqualFold(value, want)
}

func matchesSearch(c model.Contract, term string) bool {
	if term == "" {
		return true
	}
	term = strings.ToLower(term)
	return strings.Contains(strings.ToLower(c.EducationalInstitution), term) ||
		strings.Contains(strings.ToLower(c.CUI), term) ||
		strings.Contains(strings.ToLower(c.Contractor), term)
}
