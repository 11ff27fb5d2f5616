package store

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"github.com/nurpe/contratos-service/internal/model"
	"github.com/nurpe/contratos-service/internal/sheet"
)

// WorkbookStore reads and writes contract rows in a single sheet of an xlsx
// workbook. All mutations are serialized by one store-wide write lock with a
// bounded wait; reads take no write lock. A read-write mutex additionally
// guards the workbook handle itself, which excelize does not make safe for
// mixed concurrent access.
type WorkbookStore struct {
	path  string
	sheet string
	codec *sheet.Codec
	log   zerolog.Logger

	mu       sync.RWMutex
	file     *excelize.File
	writeSem chan struct{}
	lockWait time.Duration
}

func Open(path, sheetName string, codec *sheet.Codec, lockWait time.Duration, log zerolog.Logger) (*WorkbookStore, error) {
	file, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	if lockWait <= 0 {
		lockWait = 30 * time.Second
	}
	return &WorkbookStore{
		path:     path,
		sheet:    sheetName,
		codec:    codec,
		log:      log,
		file:     file,
		writeSem: make(chan struct{}, 1),
		lockWait: lockWait,
	}, nil
}

func (s *WorkbookStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file.Close()
}

// ListAll returns every contract in sheet order, header row excluded.
func (s *WorkbookStore) ListAll(ctx context.Context) ([]model.Contract, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.rows()
	if err != nil {
		return nil, err
	}
	contracts := make([]model.Contract, 0, max(len(rows)-1, 0))
	if len(rows) < 2 {
		return contracts, nil
	}
	headers := rows[0]
	for _, row := range rows[1:] {
		contracts = append(contracts, s.codec.Decode(row, headers))
	}
	return contracts, nil
}

// Insert appends the contract as the last row of the sheet. The identifying
// key is not checked for uniqueness; duplicate keys produce duplicate rows.
func (s *WorkbookStore) Insert(ctx context.Context, c model.Contract) (model.Contract, error) {
	release, err := s.acquireWriteLock(ctx)
	if err != nil {
		return model.Contract{}, err
	}
	defer release()

	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.rows()
	if err != nil {
		return model.Contract{}, err
	}
	if len(rows) == 0 {
		return model.Contract{}, fmt.Errorf("sheet %q has no header row: %w", s.sheet, ErrSchemaMismatch)
	}
	headers := rows[0]
	row := s.codec.Encode(c, headers)
	if err := s.setRow(len(rows)+1, row); err != nil {
		return model.Contract{}, err
	}
	if err := s.file.Save(); err != nil {
		return model.Contract{}, fmt.Errorf("save workbook: %w", err)
	}
	s.log.Debug().Str("cui", c.CUI).Msg("contract row appended")
	return s.codec.Decode(row, headers), nil
}

// Update locates the row by the contract's identifying key and overwrites it
// entirely with the re-encoded contract.
func (s *WorkbookStore) Update(ctx context.Context, c model.Contract) (model.Contract, error) {
	release, err := s.acquireWriteLock(ctx)
	if err != nil {
		return model.Contract{}, err
	}
	defer release()

	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.rows()
	if err != nil {
		return model.Contract{}, err
	}
	rowNum, headers, err := s.locate(rows, c.CUI)
	if err != nil {
		return model.Contract{}, err
	}
	row := s.codec.Encode(c, headers)
	if err := s.setRow(rowNum, row); err != nil {
		return model.Contract{}, err
	}
	if err := s.file.Save(); err != nil {
		return model.Contract{}, fmt.Errorf("save workbook: %w", err)
	}
	s.log.Debug().Str("cui", c.CUI).Int("row", rowNum).Msg("contract row updated")
	return s.codec.Decode(row, headers), nil
}

// Remove deletes the row matching the key; subsequent rows shift up.
func (s *WorkbookStore) Remove(ctx context.Context, cui string) (string, error) {
	release, err := s.acquireWriteLock(ctx)
	if err != nil {
		return "", err
	}
	defer release()

	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.rows()
	if err != nil {
		return "", err
	}
	rowNum, _, err := s.locate(rows, cui)
	if err != nil {
		return "", err
	}
	if err := s.file.RemoveRow(s.sheet, rowNum); err != nil {
		return "", fmt.Errorf("remove row %d: %w", rowNum, err)
	}
	if err := s.file.Save(); err != nil {
		return "", fmt.Errorf("save workbook: %w", err)
	}
	s.log.Debug().Str("cui", cui).Int("row", rowNum).Msg("contract row removed")
	return cui, nil
}

// acquireWriteLock takes the store-wide write slot, waiting at most lockWait.
// The returned release func must run on every exit path.
func (s *WorkbookStore) acquireWriteLock(ctx context.Context) (func(), error) {
	timer := time.NewTimer(s.lockWait)
	defer timer.Stop()
	select {
	case s.writeSem <- struct{}{}:
		return func() { <-s.writeSem }, nil
	case <-timer.C:
		return nil, ErrLockTimeout
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// rows returns the full cell matrix of the backing sheet. Callers must hold
// at least a read lock on mu.
func (s *WorkbookStore) rows() ([][]string, error) {
	idx, err := s.file.GetSheetIndex(s.sheet)
	if err != nil || idx < 0 {
		return nil, fmt.Errorf("sheet %q: %w", s.sheet, ErrStoreUnavailable)
	}
	rows, err := s.file.GetRows(s.sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", s.sheet, err)
	}
	return rows, nil
}

// locate scans the identifying column top to bottom and returns the 1-based
// sheet row of the first trim-equal match, together with the live headers.
func (s *WorkbookStore) locate(rows [][]string, cui string) (int, []string, error) {
	if len(rows) == 0 {
		return 0, nil, fmt.Errorf("sheet %q has no header row: %w", s.sheet, ErrSchemaMismatch)
	}
	headers := rows[0]
	cuiCol := -1
	for i, header := range headers {
		if key, ok := s.codec.KeyFor(header); ok && key == sheet.KeyCUI {
			cuiCol = i
			break
		}
	}
	if cuiCol < 0 {
		return 0, nil, fmt.Errorf("header %q missing in sheet %q: %w", s.codec.CUIHeader(), s.sheet, ErrSchemaMismatch)
	}

	want := strings.TrimSpace(cui)
	for i, row := range rows[1:] {
		var cell string
		if cuiCol < len(row) {
			cell = row[cuiCol]
		}
		if strings.TrimSpace(cell) == want {
			return i + 2, headers, nil
		}
	}
	return 0, nil, fmt.Errorf("contract with cui %q: %w", cui, ErrNotFound)
}

func (s *WorkbookStore) setRow(rowNum int, row []string) error {
	cells := make([]interface{}, len(row))
	for i, v := range row {
		cells[i] = v
	}
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	if err := s.file.SetSheetRow(s.sheet, cell, &cells); err != nil {
		return fmt.Errorf("write row %d: %w", rowNum, err)
	}
	return nil
}
