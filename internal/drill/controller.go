// Package drill runs an adaptive spoken flashcard session: it speaks each
// question, records and transcribes the answer, has it graded, retries with
// hints, and reports a summary when the session ends.
package drill

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/quizvox/internal/audio"
	"github.com/abhisek/quizvox/internal/deck"
	"github.com/abhisek/quizvox/internal/judge"
	"github.com/abhisek/quizvox/internal/speech"
	"github.com/abhisek/quizvox/internal/summary"
)

// DefaultMaxAttempts is how many answers a card gets before the reference
// answer is revealed.
const DefaultMaxAttempts = 3

// ErrNoFlashcards is returned by Load for an empty deck.
var ErrNoFlashcards = errors.New("deck has no flashcards")

// Speaker plays synthesized speech.
type Speaker interface {
	Speak(ctx context.Context, text string) error
	StopPlayback()
}

// Listener records spoken answers and turns them into text.
type Listener interface {
	Record(ctx context.Context, stop *audio.StopSignal) (audio.Recording, error)
	Validate(rec audio.Recording) error
	Transcribe(ctx context.Context, rec audio.Recording) (string, error)
}

// Judge grades answers and rewords questions.
type Judge interface {
	Classify(ctx context.Context, reference, candidate string) (judge.Grade, error)
	Rephrase(ctx context.Context, in judge.RephraseInput) (string, error)
}

// Observer receives every user-visible event. Calls are made from the
// controller's goroutine, one at a time, and must not block on the
// controller.
type Observer interface {
	Message(m Message)
	StateChanged(s State)
	SummaryReady(text string, buckets summary.Buckets)
}

// Deps are the collaborators a Controller drives.
type Deps struct {
	Speaker  Speaker
	Listener Listener
	Judge    Judge
	Observer Observer

	// Scratch is closed when the session ends; it owns the session's
	// temporary audio files.
	Scratch io.Closer
	Logger  *log.Logger
}

// Config tunes the retry policy and wording.
type Config struct {
	MaxAttempts int
	MaxRecord   time.Duration // shown in the listen prompt
	Phrases     Phrases
}

// Load reads the cards of a deck for a session.
func Load(ctx context.Context, src deck.Source, deckID int64) ([]deck.Flashcard, error) {
	cards, err := src.ListFlashcards(ctx, deckID)
	if err != nil {
		return nil, fmt.Errorf("load flashcards: %w", err)
	}
	if len(cards) == 0 {
		return nil, ErrNoFlashcards
	}
	return cards, nil
}

type next int

const (
	thenAdvance next = iota
	thenListen
	thenAwaitRepeat
)

type (
	startCmd     struct{}
	repeatCmd    struct{ yes bool }
	interruptCmd struct{}
	cancelCmd    struct{}

	spokenMsg struct {
		op  uint64
		err error
	}
	recordedMsg struct {
		op  uint64
		rec audio.Recording
		err error
	}
	transcribedMsg struct {
		op   uint64
		text string
		err  error
	}
	gradedMsg struct {
		op    uint64
		grade judge.Grade
		err   error
	}
	rephrasedMsg struct {
		op   uint64
		text string
		err  error
	}
)

// Controller is the session state machine. All state is owned by a single
// goroutine; public methods and background operations talk to it through
// its inbox.
type Controller struct {
	id     string
	cards  []deck.Flashcard
	deps   Deps
	cfg    Config
	logger *log.Logger

	inbox chan any
	done  chan struct{}

	ctx    context.Context
	cancel context.CancelFunc

	current  atomic.Int32
	position atomic.Int32

	// owned by run
	state      State
	cursor     int
	card       deck.Flashcard
	attempt    int
	transcript string
	op         uint64
	after      next
	withTip    bool
	stop       *audio.StopSignal
	recording  *atomic.Bool
	summary    *summary.Aggregator

	cleanupOnce sync.Once
}

// New returns a controller for cards and starts its event loop. Call Start
// to begin speaking and Cancel (or answer the repeat prompt) to end it.
func New(cards []deck.Flashcard, deps Deps, cfg Config) *Controller {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	if cfg.MaxRecord <= 0 {
		cfg.MaxRecord = speech.DefaultMaxRecord
	}
	if cfg.Phrases.Code == "" {
		cfg.Phrases = English
	}
	logger := deps.Logger
	if logger == nil {
		logger = log.New(os.Stderr, "", log.LstdFlags)
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &Controller{
		id:      uuid.NewString()[:8],
		cards:   append([]deck.Flashcard(nil), cards...),
		deps:    deps,
		cfg:     cfg,
		logger:  logger,
		inbox:   make(chan any, 16),
		done:    make(chan struct{}),
		ctx:     ctx,
		cancel:  cancel,
		cursor:  -1,
		summary: summary.New(cfg.Phrases.Labels),
	}
	go c.run()
	return c
}

// Start begins the round. It is a no-op unless the controller is idle.
func (c *Controller) Start() { c.post(startCmd{}) }

// Repeat answers the end-of-round prompt: yes restarts from the first card
// with empty buckets, no ends the session. Ignored at any other time.
func (c *Controller) Repeat(yes bool) { c.post(repeatCmd{yes: yes}) }

// Interrupt ends the current recording early. Ignored unless listening.
func (c *Controller) Interrupt() { c.post(interruptCmd{}) }

// Cancel ends the session from any state and waits until the summary has
// been delivered. Calling it again has no effect.
func (c *Controller) Cancel() {
	c.post(cancelCmd{})
	<-c.done
}

// Done is closed once the session has ended.
func (c *Controller) Done() <-chan struct{} { return c.done }

// Wait blocks until the session has ended.
func (c *Controller) Wait() { <-c.done }

// State returns the current phase.
func (c *Controller) State() State { return State(c.current.Load()) }

// Progress returns the 1-based number of the card being drilled (0 before
// the first card and after the last) and the number of cards.
func (c *Controller) Progress() (current, total int) {
	return int(c.position.Load()), len(c.cards)
}

func (c *Controller) post(ev any) bool {
	select {
	case c.inbox <- ev:
		return true
	case <-c.done:
		return false
	}
}

func (c *Controller) run() {
	defer close(c.done)
	for c.state != Closed {
		c.handle(<-c.inbox)
	}
}

func (c *Controller) handle(ev any) {
	switch ev := ev.(type) {
	case startCmd:
		if c.state != Idle {
			return
		}
		c.logger.Printf("drill %s: start, %d cards", c.id, len(c.cards))
		c.resetRound()
		c.notify(SenderSystem, c.cfg.Phrases.Intro)
		c.say(c.cfg.Phrases.Intro, thenAdvance)

	case repeatCmd:
		if c.state != AwaitingRepeat {
			return
		}
		if !ev.yes {
			c.notify(SenderSystem, c.cfg.Phrases.RepeatNo)
			c.finish()
			return
		}
		c.notify(SenderSystem, c.cfg.Phrases.RepeatYes)
		c.resetRound()
		c.advance()

	case interruptCmd:
		if c.state != Listening || c.stop == nil || c.stop.Raised() || !c.recording.Load() {
			return
		}
		c.stop.Raise()
		c.notify(SenderSystem, c.cfg.Phrases.Stopped)

	case cancelCmd:
		c.finish()

	case spokenMsg:
		if c.stale(ev.op) {
			return
		}
		c.onSpoken(ev.err)

	case recordedMsg:
		if c.stale(ev.op) {
			return
		}
		c.onRecorded(ev.rec, ev.err)

	case transcribedMsg:
		if c.stale(ev.op) {
			return
		}
		c.onTranscribed(ev.text, ev.err)

	case gradedMsg:
		if c.stale(ev.op) {
			return
		}
		c.onGraded(ev.grade, ev.err)

	case rephrasedMsg:
		if c.stale(ev.op) {
			return
		}
		c.onRephrased(ev.text, ev.err)
	}
}

// stale reports whether a completion belongs to a superseded operation.
func (c *Controller) stale(op uint64) bool {
	return c.state == Closed || op != c.op
}

func (c *Controller) resetRound() {
	c.cursor = -1
	c.position.Store(0)
	c.card = deck.Flashcard{}
	c.attempt = 0
	c.summary.Reset()
}

// advance moves to the next card, or to the repeat prompt after the last.
func (c *Controller) advance() {
	c.cursor++
	c.transcript = ""
	if c.cursor >= len(c.cards) {
		c.card = deck.Flashcard{}
		c.position.Store(0)
		c.notify(SenderPartner, c.cfg.Phrases.RepeatPrompt)
		c.say(c.cfg.Phrases.RepeatPrompt, thenAwaitRepeat)
		return
	}
	c.card = c.cards[c.cursor]
	c.position.Store(int32(c.cursor + 1))
	c.attempt = 1
	c.notify(SenderPartner, fmt.Sprintf(c.cfg.Phrases.Question, c.card.Question))
	c.say(c.card.Question, thenListen)
}

func (c *Controller) say(text string, then next) {
	c.setState(Speaking)
	op := c.nextOp()
	c.after = then

	ctx := c.ctx
	go func() {
		err := c.deps.Speaker.Speak(ctx, text)
		c.post(spokenMsg{op: op, err: err})
	}()
}

func (c *Controller) onSpoken(err error) {
	if err != nil {
		c.report(c.cfg.Phrases.SpeechFailed, err)
		// An unspoken question or hint leaves nothing to answer.
		if c.after == thenListen {
			c.skip()
			return
		}
	}
	switch c.after {
	case thenListen:
		c.listen()
	case thenAwaitRepeat:
		c.setState(AwaitingRepeat)
	default:
		c.advance()
	}
}

func (c *Controller) listen() {
	c.setState(Listening)
	op := c.nextOp()
	stop := audio.NewStopSignal()
	recording := new(atomic.Bool)
	recording.Store(true)
	c.stop, c.recording = stop, recording
	c.notify(SenderSystem, fmt.Sprintf(c.cfg.Phrases.ListenPrompt, int(c.cfg.MaxRecord.Seconds())))

	ctx := c.ctx
	go func() {
		rec, err := c.deps.Listener.Record(ctx, stop)
		recording.Store(false)
		c.post(recordedMsg{op: op, rec: rec, err: err})
	}()
}

func (c *Controller) onRecorded(rec audio.Recording, err error) {
	c.stop, c.recording = nil, nil
	if err != nil {
		c.report(c.cfg.Phrases.RecordFailed, err)
		c.skip()
		return
	}

	c.setState(Transcribing)
	if rec.Empty() {
		c.onTranscribed("", nil)
		return
	}

	op := c.nextOp()
	ctx := c.ctx
	go func() {
		if err := c.deps.Listener.Validate(rec); err != nil {
			c.post(transcribedMsg{op: op, err: err})
			return
		}
		text, err := c.deps.Listener.Transcribe(ctx, rec)
		c.post(transcribedMsg{op: op, text: text, err: err})
	}()
}

func (c *Controller) onTranscribed(text string, err error) {
	if err != nil {
		var vErr *speech.ValidationError
		if errors.As(err, &vErr) {
			c.report(c.cfg.Phrases.ValidationFailed, err)
		} else {
			c.report(c.cfg.Phrases.RecordFailed, err)
		}
		c.skip()
		return
	}
	if text == "" {
		c.notify(SenderSystem, c.cfg.Phrases.NoAnswer)
		c.advance()
		return
	}

	c.transcript = text
	c.notify(SenderUser, text)
	c.setState(Evaluating)

	if c.cfg.Phrases.IsNegative(text) {
		c.record(summary.Bad)
		c.reveal(c.cfg.Phrases.DontKnow)
		return
	}

	op := c.nextOp()
	ctx, reference := c.ctx, c.card.Answer
	go func() {
		grade, err := c.deps.Judge.Classify(ctx, reference, text)
		c.post(gradedMsg{op: op, grade: grade, err: err})
	}()
}

func (c *Controller) onGraded(grade judge.Grade, err error) {
	if err != nil {
		c.report(c.cfg.Phrases.JudgeFailed, err)
		c.skip()
		return
	}
	c.logger.Printf("drill %s: card %d attempt %d graded %s", c.id, c.card.ID, c.attempt, grade)

	remaining := c.attempt < c.cfg.MaxAttempts
	switch grade {
	case judge.GradeFull:
		c.record(summary.Good)
		c.notify(SenderPartner, c.cfg.Phrases.Correct)
		c.say(c.cfg.Phrases.Correct, thenAdvance)
	case judge.GradePartial:
		if !remaining {
			c.record(summary.Bad)
			c.reveal(c.cfg.Phrases.Exhausted)
			return
		}
		c.record(summary.Medium)
		c.notify(SenderPartner, fmt.Sprintf(c.cfg.Phrases.Partial, c.attempt, c.cfg.MaxAttempts))
		c.rephrase(grade, false)
	case judge.GradePoor:
		if !remaining {
			c.record(summary.Bad)
			c.reveal(c.cfg.Phrases.Exhausted)
			return
		}
		c.record(summary.Bad)
		c.notify(SenderPartner, fmt.Sprintf(c.cfg.Phrases.Poor, c.attempt, c.cfg.MaxAttempts))
		c.rephrase(grade, true)
	default:
		c.record(summary.Bad)
		c.reveal(c.cfg.Phrases.Wrong)
	}
}

func (c *Controller) rephrase(grade judge.Grade, withTip bool) {
	op := c.nextOp()
	c.withTip = withTip

	ctx := c.ctx
	in := judge.RephraseInput{
		Question:  c.card.Question,
		Reference: c.card.Answer,
		Candidate: c.transcript,
		Grade:     grade,
		WithTip:   withTip,
	}
	go func() {
		text, err := c.deps.Judge.Rephrase(ctx, in)
		c.post(rephrasedMsg{op: op, text: text, err: err})
	}()
}

func (c *Controller) onRephrased(text string, err error) {
	if err != nil {
		c.report(c.cfg.Phrases.JudgeFailed, err)
		c.skip()
		return
	}
	c.attempt++
	shown, spoken := c.cfg.Phrases.NewQuestion, c.cfg.Phrases.HintSpoken
	if c.withTip {
		shown, spoken = c.cfg.Phrases.WithTip, c.cfg.Phrases.TipSpoken
	}
	c.notify(SenderPartner, fmt.Sprintf(shown, text))
	c.say(spoken+text, thenListen)
}

// reveal speaks the reference answer and moves on.
func (c *Controller) reveal(format string) {
	text := fmt.Sprintf(format, c.card.Answer)
	c.notify(SenderPartner, text)
	c.say(text, thenAdvance)
}

// skip abandons the current card after a failure.
func (c *Controller) skip() {
	c.notify(SenderSystem, c.cfg.Phrases.Skipping)
	c.advance()
}

func (c *Controller) record(b summary.Bucket) {
	c.summary.Record(b, c.card.Question)
}

func (c *Controller) report(format string, err error) {
	c.logger.Printf("drill %s: %v", c.id, err)
	c.notify(SenderSystem, fmt.Sprintf(format, err))
}

// finish closes the session: it stops audio, abandons in-flight calls,
// emits the summary and removes temporary files.
func (c *Controller) finish() {
	if c.state == Closed {
		return
	}
	if c.stop != nil {
		c.stop.Raise()
	}
	c.deps.Speaker.StopPlayback()
	c.cancel()
	c.nextOp()
	c.setState(Closed)

	buckets := c.summary.Snapshot()
	c.deps.Observer.SummaryReady(summary.Render(buckets, c.cfg.Phrases.Labels), buckets)
	c.logger.Printf("drill %s: closed, good=%d medium=%d bad=%d", c.id, len(buckets.Good), len(buckets.Medium), len(buckets.Bad))

	c.cleanupOnce.Do(func() {
		if c.deps.Scratch == nil {
			return
		}
		if err := c.deps.Scratch.Close(); err != nil {
			c.logger.Printf("drill %s: remove scratch dir: %v", c.id, err)
		}
	})
}

func (c *Controller) nextOp() uint64 {
	c.op++
	return c.op
}

func (c *Controller) setState(s State) {
	if c.state == s {
		return
	}
	c.state = s
	c.current.Store(int32(s))
	c.deps.Observer.StateChanged(s)
}

func (c *Controller) notify(sender Sender, text string) {
	c.deps.Observer.Message(Message{Sender: sender, Text: text, At: time.Now()})
}
