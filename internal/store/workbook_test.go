package store

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/nurpe/contratos-service/internal/model"
	"github.com/nurpe/contratos-service/internal/sheet"
)

const testSheet = "Contratos"

func newWorkbook(t *testing.T, codec *sheet.Codec, contracts ...model.Contract) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "contratos.xlsx")
	require.NoError(t, EnsureWorkbook(path, testSheet, codec))

	if len(contracts) > 0 {
		file, err := excelize.OpenFile(path)
		require.NoError(t, err)
		headers := codec.HeaderRow()
		for i, c := range contracts {
			row := codec.Encode(c, headers)
			cells := make([]interface{}, len(row))
			for j, v := range row {
				cells[j] = v
			}
			require.NoError(t, file.SetSheetRow(testSheet, fmt.Sprintf("A%d", i+2), &cells))
		}
		require.NoError(t, file.Save())
		require.NoError(t, file.Close())
	}
	return path
}

func openStore(t *testing.T, path, sheetName string, codec *sheet.Codec) *WorkbookStore {
	t.Helper()
	s, err := Open(path, sheetName, codec, time.Second, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func contractFixture(cui string) model.Contract {
	return model.Contract{
		CUI:                      cui,
		ContractType:             "ECC",
		PackageName:              "Paquete 1",
		Contractor:               "Acme",
		EducationalInstitution:   "IE Central",
		MontoContratoOriginal:    1000,
		MontoContratoActualizado: 1100,
		StartDate:                "2024-01-01",
		EndDate:                  "2024-12-31",
		AvanceEjecucion:          40,
	}
}

func TestListAllEmptySheet(t *testing.T) {
	codec := sheet.NewCodec(sheet.DefaultColumnMap())
	s := openStore(t, newWorkbook(t, codec), testSheet, codec)

	contracts, err := s.ListAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, contracts)
}

func TestListAllReturnsRowsInSheetOrder(t *testing.T) {
	codec := sheet.NewCodec(sheet.DefaultColumnMap())
	path := newWorkbook(t, codec, contractFixture("CUI001"), contractFixture("CUI002"), contractFixture("CUI003"))
	s := openStore(t, path, testSheet, codec)

	contracts, err := s.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, contracts, 3)
	assert.Equal(t, "CUI001", contracts[0].CUI)
	assert.Equal(t, "CUI002", contracts[1].CUI)
	assert.Equal(t, "CUI003", contracts[2].CUI)
	assert.Equal(t, model.ContractStatusActive, contracts[0].Status)
	assert.Equal(t, 1100.0, contracts[0].TotalAmount)
}

func TestListAllMissingSheet(t *testing.T) {
	codec := sheet.NewCodec(sheet.DefaultColumnMap())
	s := openStore(t, newWorkbook(t, codec), "Otra Hoja", codec)

	_, err := s.ListAll(context.Background())
	assert.ErrorIs(t, err, ErrStoreUnavailable)
}

func TestInsertAppendsAndNormalizes(t *testing.T) {
	codec := sheet.NewCodec(sheet.DefaultColumnMap())
	s := openStore(t, newWorkbook(t, codec, contractFixture("CUI001")), testSheet, codec)

	draft := contractFixture("CUI002")
	draft.AvanceEjecucion = 100

	created, err := s.Insert(context.Background(), draft)
	require.NoError(t, err)
	assert.Equal(t, "CUI002", created.ID)
	assert.Equal(t, model.ContractStatusCompleted, created.Status)
	assert.Equal(t, 100.0, created.ExecutionProgress)

	contracts, err := s.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, contracts, 2)
	assert.Equal(t, "CUI002", contracts[1].CUI, "insert appends as the last row")
}

func TestInsertAllowsDuplicateKeys(t *testing.T) {
	codec := sheet.NewCodec(sheet.DefaultColumnMap())
	s := openStore(t, newWorkbook(t, codec), testSheet, codec)

	_, err := s.Insert(context.Background(), contractFixture("CUI001"))
	require.NoError(t, err)
	_, err = s.Insert(context.Background(), contractFixture("CUI001"))
	require.NoError(t, err)

	contracts, err := s.ListAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, contracts, 2, "duplicate cui rows are accepted")
}

func TestUpdateOverwritesLocatedRow(t *testing.T) {
	codec := sheet.NewCodec(sheet.DefaultColumnMap())
	path := newWorkbook(t, codec, contractFixture("CUI001"), contractFixture("CUI002"))
	s := openStore(t, path, testSheet, codec)

	changed := contractFixture("CUI002")
	changed.Contractor = "Nueva Constructora"
	changed.AvanceEjecucion = 100

	updated, err := s.Update(context.Background(), changed)
	require.NoError(t, err)
	assert.Equal(t, "Nueva Constructora", updated.Contractor)
	assert.Equal(t, model.ContractStatusCompleted, updated.Status)

	contracts, err := s.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, contracts, 2)
	assert.Equal(t, "CUI001", contracts[0].CUI, "other rows keep their position")
	assert.Equal(t, "Nueva Constructora", contracts[1].Contractor)
}

func TestUpdateNotFoundLeavesStoreUnmodified(t *testing.T) {
	codec := sheet.NewCodec(sheet.DefaultColumnMap())
	s := openStore(t, newWorkbook(t, codec, contractFixture("CUI001")), testSheet, codec)

	_, err := s.Update(context.Background(), contractFixture("CUI999"))
	assert.ErrorIs(t, err, ErrNotFound)

	contracts, err := s.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, contracts, 1)
	assert.Equal(t, "CUI001", contracts[0].CUI)
}

func TestRemoveShiftsRowsUpAndIsNotIdempotent(t *testing.T) {
	codec := sheet.NewCodec(sheet.DefaultColumnMap())
	path := newWorkbook(t, codec, contractFixture("CUI001"), contractFixture("CUI002"), contractFixture("CUI003"))
	s := openStore(t, path, testSheet, codec)

	key, err := s.Remove(context.Background(), "CUI002")
	require.NoError(t, err)
	assert.Equal(t, "CUI002", key)

	contracts, err := s.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, contracts, 2)
	assert.Equal(t, "CUI001", contracts[0].CUI)
	assert.Equal(t, "CUI003", contracts[1].CUI)

	// Second delete of the same key fails; the first delete sticks.
	_, err = s.Remove(context.Background(), "CUI002")
	assert.ErrorIs(t, err, ErrNotFound)
	contracts, err = s.ListAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, contracts, 2)
}

func TestLocateMatchesTrimmedKeys(t *testing.T) {
	codec := sheet.NewCodec(sheet.DefaultColumnMap())
	padded := contractFixture("CUI001")
	padded.CUI = "  CUI001  "
	s := openStore(t, newWorkbook(t, codec, padded), testSheet, codec)

	_, err := s.Remove(context.Background(), "CUI001")
	require.NoError(t, err)
}

func TestSchemaMismatchWhenCUIColumnMissing(t *testing.T) {
	codec := sheet.NewCodec(sheet.DefaultColumnMap())
	path := filepath.Join(t.TempDir(), "roto.xlsx")

	file := excelize.NewFile()
	require.NoError(t, file.SetSheetName(file.GetSheetName(0), testSheet))
	headers := []interface{}{"Paquete", "Contratista"}
	require.NoError(t, file.SetSheetRow(testSheet, "A1", &headers))
	row := []interface{}{"Paquete 1", "Acme"}
	require.NoError(t, file.SetSheetRow(testSheet, "A2", &row))
	require.NoError(t, file.SaveAs(path))
	require.NoError(t, file.Close())

	s := openStore(t, path, testSheet, codec)
	_, err := s.Update(context.Background(), contractFixture("CUI001"))
	assert.ErrorIs(t, err, ErrSchemaMismatch)
}

func TestWriteLockTimeout(t *testing.T) {
	codec := sheet.NewCodec(sheet.DefaultColumnMap())
	s, err := Open(newWorkbook(t, codec), testSheet, codec, 50*time.Millisecond, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	s.writeSem <- struct{}{} // hold the write slot
	defer func() { <-s.writeSem }()

	_, err = s.Insert(context.Background(), contractFixture("CUI001"))
	assert.ErrorIs(t, err, ErrLockTimeout)
}

func TestWriteLockReleasedAfterFailure(t *testing.T) {
	codec := sheet.NewCodec(sheet.DefaultColumnMap())
	s := openStore(t, newWorkbook(t, codec, contractFixture("CUI001")), testSheet, codec)

	_, err := s.Update(context.Background(), contractFixture("CUI999"))
	require.ErrorIs(t, err, ErrNotFound)

	// The failed update must not leave the lock held.
	_, err = s.Insert(context.Background(), contractFixture("CUI002"))
	require.NoError(t, err)
}

func TestMutationsPersistAcrossReopen(t *testing.T) {
	codec := sheet.NewCodec(sheet.DefaultColumnMap())
	path := newWorkbook(t, codec)
	s := openStore(t, path, testSheet, codec)

	_, err := s.Insert(context.Background(), contractFixture("CUI010"))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	reopened := openStore(t, path, testSheet, codec)
	contracts, err := reopened.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, contracts, 1)
	assert.Equal(t, "CUI010", contracts[0].CUI)
}

func TestEnsureWorkbookIsIdempotent(t *testing.T) {
	codec := sheet.NewCodec(sheet.DefaultColumnMap())
	path := newWorkbook(t, codec, contractFixture("CUI001"))

	require.NoError(t, EnsureWorkbook(path, testSheet, codec))

	s := openStore(t, path, testSheet, codec)
	contracts, err := s.ListAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, contracts, 1, "existing rows survive a second bootstrap")
}
