package cmd

import (
	"context"
	"fmt"

	"github.com/abhisek/quizvox/internal/app"
	"github.com/abhisek/quizvox/internal/bootstrap"
	"github.com/abhisek/quizvox/internal/deck"
	"github.com/abhisek/quizvox/internal/drill"
	"github.com/abhisek/quizvox/internal/llm"
	"github.com/abhisek/quizvox/internal/screen"
	"github.com/abhisek/quizvox/internal/screens/home"
	"github.com/abhisek/quizvox/internal/screens/practice"
	"github.com/spf13/cobra"
)

// runApp opens the store and launches the TUI at the deck menu.
func runApp(cmd *cobra.Command) error {
	services, err := openServices(cmd)
	if err != nil {
		return err
	}
	defer services.Close()

	return app.Run(homeScreen(services))
}

// homeScreen builds the deck menu. A missing LLM key does not prevent
// browsing decks; it is reported as a banner.
func homeScreen(services *bootstrap.Services) *home.HomeScreen {
	banner := ""
	if _, err := llm.Resolve(); err != nil {
		banner = "Set an LLM API key to start drilling (see quizvox --help)"
	}
	return home.New(services.Decks, func(d deck.Deck) screen.Screen {
		return practiceScreen(services, d)
	}, services.Phrases.Name, banner)
}

// practiceScreen returns a drill screen for d. Its session is wired when
// the screen is opened.
func practiceScreen(services *bootstrap.Services, d deck.Deck) *practice.PracticeScreen {
	return practice.New(d.Name, services.Phrases, func(ctx context.Context, obs drill.Observer) (practice.Session, error) {
		cards, err := drill.Load(ctx, services.Decks, d.ID)
		if err != nil {
			return nil, fmt.Errorf("deck %q: %w", d.Name, err)
		}
		ctrl, err := services.NewDrill(ctx, cards, obs)
		if err != nil {
			return nil, err
		}
		return ctrl, nil
	})
}
