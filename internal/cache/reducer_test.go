package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/contratos-service/internal/model"
)

func record(cui string) model.Contract {
	return model.Contract{ID: cui, CUI: cui, Contractor: "Acme"}
}

func TestReduceFetchSortsDescendingByStringID(t *testing.T) {
	fetched := []model.Contract{record("9"), record("100"), record("10")}

	next := Reduce(nil, FetchSucceeded{Records: fetched})

	// Textual, not numeric: "9" > "100" > "10".
	require.Len(t, next, 3)
	assert.Equal(t, "9", next[0].ID)
	assert.Equal(t, "100", next[1].ID)
	assert.Equal(t, "10", next[2].ID)
}

func TestReduceCreatePrependsWithoutResorting(t *testing.T) {
	state := []model.Contract{record("C"), record("B")}

	next := Reduce(state, CreateSucceeded{Record: record("A")})

	require.Len(t, next, 3)
	assert.Equal(t, "A", next[0].ID, "new record goes first even when it sorts last")
	assert.Equal(t, "C", next[1].ID)
	assert.Equal(t, "B", next[2].ID)
}

func TestReduceUpdateReplacesInPlace(t *testing.T) {
	state := []model.Contract{record("C"), record("B"), record("A")}
	changed := record("B")
	changed.Contractor = "Nueva"

	next := Reduce(state, UpdateSucceeded{Record: changed})

	require.Len(t, next, 3)
	assert.Equal(t, "C", next[0].ID)
	assert.Equal(t, "Nueva", next[1].Contractor)
	assert.Equal(t, "A", next[2].ID)
}

func TestReduceDeleteFiltersByCUI(t *testing.T) {
	state := []model.Contract{record("C"), record("B"), record("A")}

	next := Reduce(state, DeleteSucceeded{CUI: "B"})

	require.Len(t, next, 2)
	assert.Equal(t, "C", next[0].ID)
	assert.Equal(t, "A", next[1].ID)
}

func TestReduceNeverMutatesInput(t *testing.T) {
	state := []model.Contract{record("B"), record("A")}

	_ = Reduce(state, FetchSucceeded{Records: state})
	_ = Reduce(state, CreateSucceeded{Record: record("Z")})
	_ = Reduce(state, UpdateSucceeded{Record: record("A")})
	_ = Reduce(state, DeleteSucceeded{CUI: "A"})

	require.Len(t, state, 2)
	assert.Equal(t, "B", state[0].ID)
	assert.Equal(t, "A", state[1].ID)
}
