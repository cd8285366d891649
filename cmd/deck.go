package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/abhisek/quizvox/internal/deck"
	"github.com/abhisek/quizvox/internal/store"
	"github.com/spf13/cobra"
)

var deckCmd = &cobra.Command{
	Use:   "deck",
	Short: "Manage decks and flashcards",
}

var deckListCmd = &cobra.Command{
	Use:   "list",
	Short: "List decks",
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := openServices(cmd)
		if err != nil {
			return err
		}
		defer services.Close()

		decks, err := services.Decks.ListDecks(cmd.Context())
		if err != nil {
			return err
		}
		if len(decks) == 0 {
			fmt.Println("No decks yet. Create one with `quizvox deck create <name>`.")
			return nil
		}

		fmt.Printf("%-5s  %-32s  %6s  %s\n", "ID", "Name", "Cards", "Created")
		fmt.Println(strings.Repeat("─", 64))
		for _, d := range decks {
			fmt.Printf("%-5d  %-32s  %6d  %s\n",
				d.ID, truncate(d.Name, 32), d.CardCount,
				d.CreatedAt.Local().Format("2006-01-02 15:04"))
		}
		return nil
	},
}

var deckCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create an empty deck",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := openServices(cmd)
		if err != nil {
			return err
		}
		defer services.Close()

		d, err := services.Decks.CreateDeck(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Created deck %q (id %d).\n", d.Name, d.ID)
		return nil
	},
}

var deckDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a deck and all of its flashcards",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := openServices(cmd)
		if err != nil {
			return err
		}
		defer services.Close()

		d, err := services.Decks.DeckByName(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if err := services.Decks.DeleteDeck(cmd.Context(), d.ID); err != nil {
			return err
		}
		fmt.Printf("Deleted deck %q and %d flashcards.\n", d.Name, d.CardCount)
		return nil
	},
}

var deckShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Print the flashcards of a deck",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := openServices(cmd)
		if err != nil {
			return err
		}
		defer services.Close()

		d, err := services.Decks.DeckByName(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		cards, err := services.Decks.ListFlashcards(cmd.Context(), d.ID)
		if err != nil {
			return err
		}

		fmt.Printf("%s (%d flashcards)\n", d.Name, len(cards))
		fmt.Println(strings.Repeat("─", 60))
		for i, c := range cards {
			fmt.Printf("%3d. Q: %s\n     A: %s\n", i+1, c.Question, c.Answer)
		}
		return nil
	},
}

var deckAddCmd = &cobra.Command{
	Use:   "add <name> <question> <answer>",
	Short: "Add a flashcard to a deck",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		card := deck.Flashcard{Question: strings.TrimSpace(args[1]), Answer: strings.TrimSpace(args[2])}
		if !card.Valid() {
			return errors.New("question and answer must not be empty")
		}

		services, err := openServices(cmd)
		if err != nil {
			return err
		}
		defer services.Close()

		d, err := services.Decks.DeckByName(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if _, err := services.Decks.AddFlashcard(cmd.Context(), d.ID, card.Question, card.Answer); err != nil {
			return err
		}
		fmt.Printf("Added flashcard to %q.\n", d.Name)
		return nil
	},
}

var deckImportCmd = &cobra.Command{
	Use:   "import <name> <file.xlsx>",
	Short: "Import flashcards from an Excel sheet",
	Long: "Import question/answer pairs from an .xlsx workbook. By default questions are read from\n" +
		"column A and answers from column B of the first sheet, starting at row 2.\n" +
		"The deck is created when it does not exist.",
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := deck.DefaultImportConfig()
		cfg.Sheet, _ = cmd.Flags().GetString("sheet")
		cfg.QuestionColumn, _ = cmd.Flags().GetString("question-col")
		cfg.AnswerColumn, _ = cmd.Flags().GetString("answer-col")
		cfg.StartRow, _ = cmd.Flags().GetInt("start-row")

		services, err := openServices(cmd)
		if err != nil {
			return err
		}
		defer services.Close()

		d, err := findOrCreateDeck(cmd, services.Decks, args[0])
		if err != nil {
			return err
		}

		res, err := deck.ImportXLSX(cmd.Context(), services.Decks, d.ID, args[1], cfg)
		if res != nil {
			for _, e := range res.Errors {
				fmt.Fprintln(os.Stderr, "skipped", e)
			}
			fmt.Printf("Imported %d of %d rows into %q (%d skipped).\n", res.Created, res.Processed, d.Name, res.Skipped)
		}
		return err
	},
}

var deckGenerateCmd = &cobra.Command{
	Use:   "generate <name>",
	Short: "Generate flashcards from a text file with the LLM",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")
		count, _ := cmd.Flags().GetInt("count")
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		if file == "" {
			return errors.New("--file is required")
		}
		text, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("read %s: %w", file, err)
		}

		services, err := openServices(cmd)
		if err != nil {
			return err
		}
		defer services.Close()

		gen, err := services.CardGenerator(cmd.Context(), count)
		if err != nil {
			return err
		}

		fmt.Fprintln(os.Stderr, "Generating flashcards...")
		cards, err := gen.Generate(cmd.Context(), string(text))
		if err != nil {
			return err
		}

		for i, c := range cards {
			fmt.Printf("%3d. Q: %s\n     A: %s\n", i+1, c.Question, c.Answer)
		}
		if dryRun {
			return nil
		}

		d, err := findOrCreateDeck(cmd, services.Decks, args[0])
		if err != nil {
			return err
		}
		for _, c := range cards {
			if _, err := services.Decks.AddFlashcard(cmd.Context(), d.ID, c.Question, c.Answer); err != nil {
				return err
			}
		}
		fmt.Printf("Added %d flashcards to %q.\n", len(cards), d.Name)
		return nil
	},
}

// findOrCreateDeck returns the deck called name, creating it if needed.
func findOrCreateDeck(cmd *cobra.Command, repo *store.DeckRepo, name string) (*deck.Deck, error) {
	d, err := repo.DeckByName(cmd.Context(), name)
	if errors.Is(err, deck.ErrNotFound) {
		d, err = repo.CreateDeck(cmd.Context(), name)
		if err == nil {
			fmt.Printf("Created deck %q.\n", d.Name)
		}
	}
	return d, err
}

func init() {
	deckImportCmd.Flags().String("sheet", "", "Sheet name (default: first sheet)")
	deckImportCmd.Flags().String("question-col", "A", "Column holding the questions")
	deckImportCmd.Flags().String("answer-col", "B", "Column holding the answers")
	deckImportCmd.Flags().Int("start-row", 2, "First row to read (1-based)")

	deckGenerateCmd.Flags().StringP("file", "f", "", "Text file to generate flashcards from")
	deckGenerateCmd.Flags().IntP("count", "n", 0, "Maximum number of flashcards (default 10)")
	deckGenerateCmd.Flags().Bool("dry-run", false, "Print the flashcards without saving them")

	deckCmd.AddCommand(deckListCmd)
	deckCmd.AddCommand(deckCreateCmd)
	deckCmd.AddCommand(deckDeleteCmd)
	deckCmd.AddCommand(deckShowCmd)
	deckCmd.AddCommand(deckAddCmd)
	deckCmd.AddCommand(deckImportCmd)
	deckCmd.AddCommand(deckGenerateCmd)
}
