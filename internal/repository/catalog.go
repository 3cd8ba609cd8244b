package repository

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/aliskhannn/lingua-bot/internal/domain/entities"
)

var (
	ErrCatalogNotFound   = errors.New("catalog not found")
	ErrUnsupportedFormat = errors.New("unsupported catalog format")
	ErrInvalidRow        = errors.New("invalid catalog row")
)

// CatalogRepository provides the vocabulary lists, one per content type.
// Catalogs are loaded once at startup and never change afterwards.
type CatalogRepository struct {
	catalogs map[entities.ContentType][]entities.VocabularyItem
}

// NewCatalogRepository loads every catalog from its file. Content types
// with an empty path are left unloaded.
func NewCatalogRepository(paths map[entities.ContentType]string) (*CatalogRepository, error) {
	r := &CatalogRepository{catalogs: make(map[entities.ContentType][]entities.VocabularyItem)}

	for contentType, path := range paths {
		if path == "" {
			continue
		}

		items, err := LoadCatalog(path)
		if err != nil {
			return nil, fmt.Errorf("load %s catalog: %w", contentType, err)
		}
		r.catalogs[contentType] = items
	}

	return r, nil
}

// Get returns a copy of the catalog for the content type.
func (r *CatalogRepository) Get(_ context.Context, contentType entities.ContentType) ([]entities.VocabularyItem, error) {
	items, ok := r.catalogs[contentType]
	if !ok {
		return nil, ErrCatalogNotFound
	}

	return append([]entities.VocabularyItem(nil), items...), nil
}

// LoadCatalog reads a catalog file, choosing the format by extension:
// .json (array of {russian, french}), .csv or .xlsx (first two columns,
// optional russian/french header row).
func LoadCatalog(path string) ([]entities.VocabularyItem, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return loadJSON(path)
	case ".csv":
		return loadCSV(path)
	case ".xlsx":
		return loadXLSX(path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

func loadJSON(path string) ([]entities.VocabularyItem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw []entities.VocabularyItem
	if err = json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to unmarshal catalog JSON: %w", err)
	}

	rows := make([][]string, 0, len(raw))
	for _, item := range raw {
		rows = append(rows, []string{item.Russian, item.French})
	}

	return parseRows(rows, false)
}

func loadCSV(path string) ([]entities.VocabularyItem, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV: %w", err)
		}
		rows = append(rows, row)
	}

	return parseRows(rows, true)
}

func loadXLSX(path string) ([]entities.VocabularyItem, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}

	return parseRows(rows, true)
}

// parseRows turns raw rows into items. Blank rows are skipped; a row with
// only one side filled is an error.
func parseRows(rows [][]string, allowHeader bool) ([]entities.VocabularyItem, error) {
	items := make([]entities.VocabularyItem, 0, len(rows))

	for i, row := range rows {
		var russian, french string
		if len(row) > 0 {
			russian = strings.TrimSpace(row[0])
		}
		if len(row) > 1 {
			french = strings.TrimSpace(row[1])
		}

		if i == 0 && allowHeader && isHeader(russian, french) {
			continue
		}
		if russian == "" && french == "" {
			continue
		}
		if russian == "" || french == "" {
			return nil, fmt.Errorf("%w: row %d has an empty side", ErrInvalidRow, i+1)
		}

		items = append(items, entities.NewVocabularyItem(russian, french))
	}

	return items, nil
}

func isHeader(a, b string) bool {
	a, b = strings.ToLower(a), strings.ToLower(b)
	return (a == "russian" || a == "русский" || a == "russe") &&
		(b == "french" || b == "французский" || b == "français" || b == "francais")
}
