package deck

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeWorkbook(t *testing.T, sheet string, rows [][]string) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	if sheet != "Sheet1" {
		_, err := f.NewSheet(sheet)
		require.NoError(t, err)
		require.NoError(t, f.DeleteSheet("Sheet1"))
	}
	for r, row := range rows {
		for c, v := range row {
			name, err := excelize.CoordinatesToCellName(c+1, r+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet, name, v))
		}
	}

	path := filepath.Join(t.TempDir(), "cards.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

type memRepo struct {
	Repo
	added  []Flashcard
	failAt int
	nextID int64
}

func (m *memRepo) AddFlashcard(_ context.Context, deckID int64, q, a string) (*Flashcard, error) {
	if m.failAt > 0 && len(m.added)+1 == m.failAt {
		return nil, errors.New("disk full")
	}
	m.nextID++
	c := Flashcard{ID: m.nextID, DeckID: deckID, Question: q, Answer: a}
	m.added = append(m.added, c)
	return &c, nil
}

func TestReadXLSXSkipsHeaderAndBlankRows(t *testing.T) {
	path := writeWorkbook(t, "Sheet1", [][]string{
		{"Question", "Answer"},
		{"Capital of France?", "Paris"},
		{"", ""},
		{"  2 + 2?  ", " 4 "},
		{"Orphan question", ""},
	})

	cards, res, err := ReadXLSX(path, DefaultImportConfig())
	require.NoError(t, err)

	require.Len(t, cards, 2)
	assert.Equal(t, "Capital of France?", cards[0].Question)
	assert.Equal(t, "Paris", cards[0].Answer)
	assert.Equal(t, "2 + 2?", cards[1].Question)
	assert.Equal(t, "4", cards[1].Answer)

	assert.Equal(t, 3, res.Processed)
	assert.Equal(t, 1, res.Skipped)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "row 5")
}

func TestReadXLSXUsesFirstSheetAndCustomColumns(t *testing.T) {
	path := writeWorkbook(t, "Vocab", [][]string{
		{"1", "der Hund", "the dog"},
		{"2", "die Katze", "the cat"},
	})

	cfg := ImportConfig{QuestionColumn: "B", AnswerColumn: "C", StartRow: 1}
	cards, res, err := ReadXLSX(path, cfg)
	require.NoError(t, err)
	require.Len(t, cards, 2)
	assert.Equal(t, "die Katze", cards[1].Question)
	assert.Equal(t, "the cat", cards[1].Answer)
	assert.Zero(t, res.Skipped)
}

func TestReadXLSXErrors(t *testing.T) {
	_, _, err := ReadXLSX(filepath.Join(t.TempDir(), "missing.xlsx"), DefaultImportConfig())
	assert.Error(t, err)

	path := writeWorkbook(t, "Sheet1", [][]string{{"q", "a"}})
	_, _, err = ReadXLSX(path, ImportConfig{Sheet: "Nope", QuestionColumn: "A", AnswerColumn: "B"})
	assert.Error(t, err)

	_, _, err = ReadXLSX(path, ImportConfig{QuestionColumn: "1", AnswerColumn: "B"})
	assert.Error(t, err)
}

func TestImportXLSXAddsCardsInOrder(t *testing.T) {
	path := writeWorkbook(t, "Sheet1", [][]string{
		{"Question", "Answer"},
		{"Q1", "A1"},
		{"Q2", "A2"},
	})

	repo := &memRepo{}
	res, err := ImportXLSX(context.Background(), repo, 7, path, DefaultImportConfig())
	require.NoError(t, err)
	assert.Equal(t, 2, res.Created)
	require.Len(t, repo.added, 2)
	assert.Equal(t, "Q1", repo.added[0].Question)
	assert.Equal(t, int64(7), repo.added[1].DeckID)
}

func TestImportXLSXStopsOnStoreError(t *testing.T) {
	path := writeWorkbook(t, "Sheet1", [][]string{
		{"Question", "Answer"},
		{"Q1", "A1"},
		{"Q2", "A2"},
	})

	repo := &memRepo{failAt: 2}
	res, err := ImportXLSX(context.Background(), repo, 1, path, DefaultImportConfig())
	require.Error(t, err)
	assert.Equal(t, 1, res.Created)
}

func TestFlashcardValid(t *testing.T) {
	assert.True(t, Flashcard{Question: "q", Answer: "a"}.Valid())
	assert.False(t, Flashcard{Question: " ", Answer: "a"}.Valid())
	assert.False(t, Flashcard{Question: "q"}.Valid())
}
