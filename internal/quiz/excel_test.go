package quiz

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

func writeWorkbook(t *testing.T, rows [][]interface{}) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	f.SetSheetName(sheet, "TON")

	header := []interface{}{"Вопрос", "Вариант 1", "Вариант 2", "Вариант 3", "Вариант 4", "Ответ"}
	all := append([][]interface{}{header}, rows...)
	for i, row := range all {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := f.SetSheetRow("TON", cell, &row); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}

	path := filepath.Join(t.TempDir(), "questions.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save workbook: %v", err)
	}
	return path
}

func TestLoadBankFromFile(t *testing.T) {
	path := writeWorkbook(t, [][]interface{}{
		{"Что означает TON?", "The Open Network", "Telegram Open Network", "Total Online Network", "Tech Open Network", "1"},
		{"В каком году был основан Telegram?", "2011", "2013", "2015", "2017", "2"},
	})

	questions, err := LoadBankFromFile(path)
	if err != nil {
		t.Fatalf("LoadBankFromFile() error = %v", err)
	}
	if len(questions) != 2 {
		t.Fatalf("len(questions) = %d, want 2", len(questions))
	}
	if questions[0].Correct != 0 {
		t.Errorf("questions[0].Correct = %d, want 0", questions[0].Correct)
	}
	if questions[1].Correct != 1 {
		t.Errorf("questions[1].Correct = %d, want 1", questions[1].Correct)
	}
	if questions[0].Category != "TON" {
		t.Errorf("Category = %q, want TON", questions[0].Category)
	}
	if len(questions[1].Options) != 4 {
		t.Errorf("len(Options) = %d, want 4", len(questions[1].Options))
	}
}

func TestLoadBankFromFile_BadCorrect(t *testing.T) {
	path := writeWorkbook(t, [][]interface{}{
		{"Вопрос", "a", "b", "c", "d", "7"},
	})

	if _, err := LoadBankFromFile(path); err == nil {
		t.Error("LoadBankFromFile() with bad answer column = nil, want error")
	}
}

func TestLoadBankFromFile_Empty(t *testing.T) {
	path := writeWorkbook(t, nil)

	if _, err := LoadBankFromFile(path); err == nil {
		t.Error("LoadBankFromFile() with no questions = nil, want error")
	}
}

func TestLoadBankFromFile_Missing(t *testing.T) {
	if _, err := LoadBankFromFile(filepath.Join(t.TempDir(), "nope.xlsx")); err == nil {
		t.Error("LoadBankFromFile() on missing file = nil, want error")
	}
}
