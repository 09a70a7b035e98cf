// Prints the parsed contents of a question bank workbook, for checking
// a file before pointing QUESTIONS_FILE at it.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/tonquiz/miniapp/internal/quiz"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: inspect_questions <file.xlsx>")
	}

	questions, err := quiz.LoadBankFromFile(os.Args[1])
	if err != nil {
		log.Fatalf("failed to load %s: %v", os.Args[1], err)
	}

	fmt.Printf("Loaded %d questions\n\n", len(questions))
	for _, q := range questions {
		fmt.Printf("[%s] %s\n", q.Category, q.Prompt)
		for i, option := range q.Options {
			mark := "  "
			if i == q.Correct {
				mark = "✓ "
			}
			fmt.Printf("  %s%d. %s\n", mark, i+1, option)
		}
		fmt.Println()
	}
}
