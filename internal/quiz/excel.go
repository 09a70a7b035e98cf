package quiz

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// LoadBankFromFile reads a question bank from an Excel workbook. Each
// sheet is a category; rows after the header are:
// prompt, option 1..4, correct option number (1-based).
func LoadBankFromFile(path string) ([]Question, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open question file: %w", err)
	}
	defer f.Close()

	var questions []Question

	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
		}

		for i, row := range rows {
			if i == 0 || len(row) < 6 {
				continue
			}

			correct, err := strconv.Atoi(strings.TrimSpace(row[5]))
			if err != nil || correct < 1 || correct > 4 {
				return nil, fmt.Errorf("sheet %q row %d: bad correct option %q", sheet, i+1, row[5])
			}

			questions = append(questions, Question{
				ID:       len(questions) + 1,
				Prompt:   strings.TrimSpace(row[0]),
				Options:  []string{row[1], row[2], row[3], row[4]},
				Correct:  correct - 1,
				Category: sheet,
			})
		}
	}

	if len(questions) == 0 {
		return nil, fmt.Errorf("question file %q has no questions", path)
	}

	return questions, nil
}
