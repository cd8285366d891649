package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/abhisek/quizvox/internal/app"
	"github.com/abhisek/quizvox/internal/drill"
	"github.com/abhisek/quizvox/internal/summary"
	"github.com/spf13/cobra"
)

var drillCmd = &cobra.Command{
	Use:   "drill <deck>",
	Short: "Start a spoken drill over one deck",
	Long: "Start a spoken drill. Each question is read aloud and your answer is recorded until you\n" +
		"press space (Enter in --plain mode) or the recording limit is reached.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		plain, _ := cmd.Flags().GetBool("plain")

		services, err := openServices(cmd)
		if err != nil {
			return err
		}
		defer services.Close()

		d, err := services.Decks.DeckByName(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		if !plain {
			return app.Run(homeScreen(services), practiceScreen(services, *d))
		}

		cards, err := drill.Load(cmd.Context(), services.Decks, d.ID)
		if err != nil {
			return fmt.Errorf("deck %q: %w", d.Name, err)
		}
		obs := newConsoleObserver(os.Stdout, services.Phrases)
		ctrl, err := services.NewDrill(cmd.Context(), cards, obs)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		runPlain(ctx, ctrl, os.Stdin)
		return nil
	},
}

func init() {
	drillCmd.Flags().Bool("plain", false, "Print the transcript to stdout and read keys from stdin instead of the TUI")
}

// plainSession is the part of *drill.Controller driven from a line-based
// terminal.
type plainSession interface {
	Start()
	Repeat(yes bool)
	Interrupt()
	Cancel()
	Done() <-chan struct{}
}

// runPlain starts s and maps input lines to controller calls until the
// session ends. An empty line interrupts the recording, "y"/"j" and "n"
// answer the repeat prompt, "q" ends the drill. Cancelling ctx ends the
// drill too.
func runPlain(ctx context.Context, s plainSession, in io.Reader) {
	lines := make(chan string)
	go func() {
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-s.Done():
				return
			}
		}
	}()

	s.Start()
	for {
		select {
		case <-s.Done():
			return
		case <-ctx.Done():
			s.Cancel()
			return
		case line := <-lines:
			switch strings.ToLower(strings.TrimSpace(line)) {
			case "", "space":
				s.Interrupt()
			case "y", "yes", "j", "ja":
				s.Repeat(true)
			case "n", "no", "nein":
				s.Repeat(false)
			case "q", "quit", "exit":
				s.Cancel()
				return
			}
		}
	}
}

// consoleObserver prints the drill transcript as plain lines.
type consoleObserver struct {
	mu      sync.Mutex
	out     io.Writer
	phrases drill.Phrases
}

func newConsoleObserver(out io.Writer, phrases drill.Phrases) *consoleObserver {
	return &consoleObserver{out: out, phrases: phrases}
}

func (o *consoleObserver) Message(m drill.Message) {
	o.mu.Lock()
	defer o.mu.Unlock()

	ts := m.At.Format("15:04:05")
	switch m.Sender {
	case drill.SenderUser:
		fmt.Fprintf(o.out, "[%s] %s: %s\n", ts, o.phrases.You, m.Text)
	case drill.SenderPartner:
		fmt.Fprintf(o.out, "[%s] %s: %s\n", ts, o.phrases.Partner, m.Text)
	default:
		fmt.Fprintf(o.out, "[%s] -- %s\n", ts, m.Text)
	}
}

func (o *consoleObserver) StateChanged(s drill.State) {
	o.mu.Lock()
	defer o.mu.Unlock()

	switch s {
	case drill.Listening:
		fmt.Fprintln(o.out, "   (recording, press Enter when done)")
	case drill.AwaitingRepeat:
		fmt.Fprintf(o.out, "   (%s/%s, q to quit)\n", strings.ToLower(o.phrases.Yes[:1]), strings.ToLower(o.phrases.No[:1]))
	}
}

func (o *consoleObserver) SummaryReady(text string, _ summary.Buckets) {
	o.mu.Lock()
	defer o.mu.Unlock()
	fmt.Fprintln(o.out)
	fmt.Fprintln(o.out, text)
}
