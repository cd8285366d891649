package bootstrap

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/abhisek/quizvox/internal/deck"
	"github.com/abhisek/quizvox/internal/drill"
	"github.com/abhisek/quizvox/internal/summary"
)

func setTestEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_STATE_HOME", filepath.Join(dir, "state"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("QUIZVOX_DB", "")
	t.Setenv("QUIZVOX_LOG_FILE", "")
	t.Setenv("QUIZVOX_LLM_PROVIDER", "mock")
	t.Setenv("QUIZVOX_OPENAI_API_KEY", "test-key")
	t.Setenv("QUIZVOX_TTS_PROVIDER", "openai")
	t.Setenv("QUIZVOX_STT_PROVIDER", "openai")
	t.Setenv("QUIZVOX_LANGUAGE", "en")
	return dir
}

type summaryObserver struct {
	mu      sync.Mutex
	summary string
	calls   int
}

func (o *summaryObserver) Message(drill.Message)    {}
func (o *summaryObserver) StateChanged(drill.State) {}
func (o *summaryObserver) SummaryReady(text string, _ summary.Buckets) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.summary = text
	o.calls++
}

func TestBuildSuccess(t *testing.T) {
	dir := setTestEnv(t)
	dbPath := filepath.Join(dir, "quizvox.db")

	services, err := Build(dbPath)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	defer services.Close()

	if services.Config.DBPath != dbPath {
		t.Errorf("DBPath = %q, want %q", services.Config.DBPath, dbPath)
	}
	if services.Phrases.Code != "en" {
		t.Errorf("phrases = %q, want en", services.Phrases.Code)
	}
	if _, err := services.Decks.CreateDeck(context.Background(), "biology"); err != nil {
		t.Fatalf("deck repo not usable: %v", err)
	}
}

func TestBuildDefaultsDBPathFromXDG(t *testing.T) {
	dir := setTestEnv(t)

	services, err := Build("")
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	defer services.Close()

	want := filepath.Join(dir, "data", "quizvox", "quizvox.db")
	if services.Config.DBPath != want {
		t.Errorf("DBPath = %q, want %q", services.Config.DBPath, want)
	}
}

func TestBuildFailsOnUnknownLanguage(t *testing.T) {
	dir := setTestEnv(t)
	t.Setenv("QUIZVOX_LANGUAGE", "fr")

	if _, err := Build(filepath.Join(dir, "quizvox.db")); err == nil {
		t.Fatal("expected build error for unsupported language")
	}
}

func TestNewDrillWiresController(t *testing.T) {
	dir := setTestEnv(t)
	services, err := Build(filepath.Join(dir, "quizvox.db"))
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	defer services.Close()

	obs := &summaryObserver{}
	ctrl, err := services.NewDrill(context.Background(), []deck.Flashcard{{ID: 1, Question: "Q1", Answer: "A1"}}, obs)
	if err != nil {
		t.Fatalf("NewDrill failed: %v", err)
	}
	if ctrl.State() != drill.Idle {
		t.Errorf("state = %s, want idle", ctrl.State())
	}

	ctrl.Cancel()
	obs.mu.Lock()
	defer obs.mu.Unlock()
	if obs.calls != 1 {
		t.Errorf("SummaryReady called %d times, want 1", obs.calls)
	}
	if !strings.Contains(obs.summary, "Good") {
		t.Errorf("unexpected summary:\n%s", obs.summary)
	}
}

func TestNewDrillRequiresDeepgramKey(t *testing.T) {
	dir := setTestEnv(t)
	t.Setenv("QUIZVOX_STT_PROVIDER", "deepgram")
	t.Setenv("QUIZVOX_DEEPGRAM_API_KEY", "")
	t.Setenv("DEEPGRAM_API_KEY", "")

	services, err := Build(filepath.Join(dir, "quizvox.db"))
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	defer services.Close()

	_, err = services.NewDrill(context.Background(), []deck.Flashcard{{ID: 1, Question: "Q", Answer: "A"}}, &summaryObserver{})
	if err == nil || !strings.Contains(err.Error(), "DEEPGRAM") {
		t.Fatalf("expected deepgram key error, got %v", err)
	}
}

func TestNewDrillRequiresOpenAIKeyForSpeech(t *testing.T) {
	dir := setTestEnv(t)
	t.Setenv("QUIZVOX_OPENAI_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")

	services, err := Build(filepath.Join(dir, "quizvox.db"))
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	defer services.Close()

	if _, err := services.NewDrill(context.Background(), []deck.Flashcard{{ID: 1, Question: "Q", Answer: "A"}}, &summaryObserver{}); err == nil {
		t.Fatal("expected missing key error")
	}
}

func TestCardGeneratorUsesLanguage(t *testing.T) {
	dir := setTestEnv(t)
	t.Setenv("QUIZVOX_LANGUAGE", "de")

	services, err := Build(filepath.Join(dir, "quizvox.db"))
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	defer services.Close()

	if services.Phrases.Code != "de" {
		t.Fatalf("phrases = %q, want de", services.Phrases.Code)
	}
	if _, err := services.CardGenerator(context.Background(), 5); err != nil {
		t.Fatalf("CardGenerator failed: %v", err)
	}
}
