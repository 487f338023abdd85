package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/lhhunghimself/504-week7/internal/store"
)

var seedResetFlag bool

// questionFile is the YAML layout accepted by `quizmaze seed`.
type questionFile struct {
	Questions []store.Question `yaml:"questions"`
}

var seedCmd = &cobra.Command{
	Use:   "seed [questions.yaml]",
	Short: "Load quiz questions into the question bank",
	Long: `Loads questions from a YAML file into the SQLite question bank.
Re-seeding an existing question ID replaces it and marks it unasked.

File format:
  questions:
    - id: q-net-1
      question_text: "HTTPS listens on which port?"
      correct_answer: "443"
      category: networking
      hint: "One more than 442."

With --reset, previously asked questions become available again
(no file argument needed).`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, err := openRepo()
		if err != nil {
			return err
		}
		defer repo.Close()

		bank, ok := repo.(store.QuestionBank)
		if !ok {
			return fmt.Errorf("the JSON backend has no question bank; use an SQLite database path")
		}

		if seedResetFlag {
			if err := bank.ResetQuestions(); err != nil {
				return err
			}
			fmt.Println("Question bank reset; all questions are available again.")
			if len(args) == 0 {
				return nil
			}
		}
		if len(args) == 0 {
			return fmt.Errorf("either a questions file or --reset is required")
		}

		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read questions file: %w", err)
		}
		var qf questionFile
		if err := yaml.Unmarshal(data, &qf); err != nil {
			return fmt.Errorf("parse questions file: %w", err)
		}
		if len(qf.Questions) == 0 {
			return fmt.Errorf("no questions found in %s", args[0])
		}
		for _, q := range qf.Questions {
			if q.ID == "" || q.Text == "" || q.Answer == "" {
				return fmt.Errorf("question entries need id, question_text, and correct_answer (got id=%q)", q.ID)
			}
		}

		if err := bank.SeedQuestions(qf.Questions); err != nil {
			return err
		}
		logger.Info("seeded question bank",
			zap.Int("count", len(qf.Questions)), zap.String("file", args[0]))
		fmt.Printf("Seeded %d questions.\n", len(qf.Questions))
		return nil
	},
}

func init() {
	seedCmd.Flags().BoolVar(&seedResetFlag, "reset", false, "make asked questions available again")
	seedCmd.Flags().StringVar(&dbFlag, "db", "", "database path (defaults to config)")
}
