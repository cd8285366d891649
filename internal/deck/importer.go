package deck

import (
	"context"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ImportConfig selects where flashcards live inside a workbook.
type ImportConfig struct {
	Sheet          string // empty means the first sheet
	QuestionColumn string
	AnswerColumn   string
	StartRow       int // 1-based
}

// DefaultImportConfig reads questions from column A and answers from
// column B of the first sheet, skipping a header row.
func DefaultImportConfig() ImportConfig {
	return ImportConfig{
		QuestionColumn: "A",
		AnswerColumn:   "B",
		StartRow:       2,
	}
}

// ImportResult counts what an import did.
type ImportResult struct {
	Processed int
	Created   int
	Skipped   int
	Errors    []string
}

// ReadXLSX extracts flashcards from the workbook at path. Rows where either
// side is blank are skipped and reported in the result.
func ReadXLSX(path string, cfg ImportConfig) ([]Flashcard, *ImportResult, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := cfg.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, nil, fmt.Errorf("workbook %s has no sheets", path)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}

	qIdx, err := columnIndex(cfg.QuestionColumn)
	if err != nil {
		return nil, nil, err
	}
	aIdx, err := columnIndex(cfg.AnswerColumn)
	if err != nil {
		return nil, nil, err
	}
	start := max(cfg.StartRow, 1)

	result := &ImportResult{}
	var cards []Flashcard
	for i, row := range rows {
		if i < start-1 {
			continue
		}
		q, a := cell(row, qIdx), cell(row, aIdx)
		if q == "" && a == "" {
			continue
		}
		result.Processed++

		card := Flashcard{Question: q, Answer: a}
		if !card.Valid() {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: question and answer are both required", i+1))
			continue
		}
		cards = append(cards, card)
	}
	return cards, result, nil
}

// ImportXLSX reads the workbook at path and appends its flashcards to the
// deck in sheet order.
func ImportXLSX(ctx context.Context, repo Repo, deckID int64, path string, cfg ImportConfig) (*ImportResult, error) {
	cards, result, err := ReadXLSX(path, cfg)
	if err != nil {
		return nil, err
	}
	for _, c := range cards {
		if _, err := repo.AddFlashcard(ctx, deckID, c.Question, c.Answer); err != nil {
			return result, fmt.Errorf("add flashcard %q: %w", c.Question, err)
		}
		result.Created++
	}
	return result, nil
}

func cell(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func columnIndex(column string) (int, error) {
	n, err := excelize.ColumnNameToNumber(strings.TrimSpace(column))
	if err != nil {
		return 0, fmt.Errorf("column %q: %w", column, err)
	}
	return n - 1, nil
}
