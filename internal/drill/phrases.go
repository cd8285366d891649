package drill

import (
	"fmt"
	"strings"

	"github.com/abhisek/quizvox/internal/summary"
)

// Phrases is everything the controller says or shows, in one language.
type Phrases struct {
	Code string // ISO-639-1, also passed to speech-to-text
	Name string // language name used in LLM prompts

	Intro        string
	Question     string // %s: question
	ListenPrompt string // %d: seconds
	Stopped      string
	NoAnswer     string
	Correct      string
	Partial      string // %d/%d: attempt, max
	Poor         string // %d/%d: attempt, max
	NewQuestion  string // %s: rephrased question
	WithTip      string // %s: rephrased question and tip
	HintSpoken   string // prefix spoken before a rephrased question
	TipSpoken    string // prefix spoken before a question with tip
	DontKnow     string // %s: reference answer
	Exhausted    string // %s: reference answer
	Wrong        string // %s: reference answer
	RepeatPrompt string
	RepeatYes    string
	RepeatNo     string

	SpeechFailed     string // %v: error
	RecordFailed     string // %v: error
	ValidationFailed string // %v: error
	JudgeFailed      string // %v: error
	Skipping         string

	// UI labels
	You     string
	Partner string
	Yes     string
	No      string

	Negative []string
	Labels   summary.Labels
}

// English is the default language pack.
var English = Phrases{
	Code:         "en",
	Name:         "English",
	Intro:        "Drill started. Let's begin with the first question.",
	Question:     "Question: %s",
	ListenPrompt: "Please answer out loud now (max. %d seconds). Press space when you are done.",
	Stopped:      "Recording stopped.",
	NoAnswer:     "No answer recognized. Let's try the next question.",
	Correct:      "That's correct! Well done.",
	Partial:      "That's partially correct. Try again. (%d/%d)",
	Poor:         "Your answer is heading in the wrong direction. (%d/%d)",
	NewQuestion:  "New question: %s",
	WithTip:      "Question and tip: %s",
	HintSpoken:   "Maybe this question helps: ",
	TipSpoken:    "Here is a tip for you: ",
	DontKnow:     "No worries, here is the correct answer: %s",
	Exhausted:    "Maximum attempts reached. The correct answer is: %s",
	Wrong:        "The correct answer is: %s",
	RepeatPrompt: "No more flashcards. Do you want to repeat the cards?",
	RepeatYes:    "You chose to repeat the flashcards.",
	RepeatNo:     "You chose to end the session.",

	SpeechFailed:     "Speech output failed: %v",
	RecordFailed:     "Recording failed: %v",
	ValidationFailed: "Audio validation failed: %v",
	JudgeFailed:      "Evaluation failed: %v",
	Skipping:         "Skipping to the next question.",

	You:     "You",
	Partner: "Partner",
	Yes:     "Yes",
	No:      "No",

	Negative: []string{
		"i don't know",
		"i do not know",
		"don't know",
		"no idea",
		"i have no idea",
		"can't say",
		"cannot say",
	},
	Labels: summary.EnglishLabels,
}

// German mirrors English.
var German = Phrases{
	Code:         "de",
	Name:         "German",
	Intro:        "Interaktiver Modus gestartet. Lass uns mit der ersten Frage beginnen.",
	Question:     "Frage: %s",
	ListenPrompt: "Bitte antworte jetzt mündlich (max. %d Sekunden). Drücke die Leertaste zum Beenden.",
	Stopped:      "Aufnahme gestoppt.",
	NoAnswer:     "Keine Antwort erkannt. Versuchen wir es mit der nächsten Frage.",
	Correct:      "Das ist korrekt! Gut gemacht.",
	Partial:      "Das ist teilweise korrekt. Versuch es noch einmal. (%d/%d)",
	Poor:         "Deine Antwort geht in eine falsche Richtung. (%d/%d)",
	NewQuestion:  "Neue Frage: %s",
	WithTip:      "Frage und Tipp: %s",
	HintSpoken:   "Vielleicht hilft dir diese Frage weiter: ",
	TipSpoken:    "Hier ist ein Tipp für dich: ",
	DontKnow:     "Keine Sorge, hier ist die richtige Antwort: %s",
	Exhausted:    "Maximale Versuche erreicht. Die richtige Antwort lautet: %s",
	Wrong:        "Keine Sorge, die richtige Antwort lautet: %s",
	RepeatPrompt: "Keine weiteren Karteikarten verfügbar. Möchtest du die Karten wiederholen?",
	RepeatYes:    "Du hast gewählt, die Karteikarten zu wiederholen.",
	RepeatNo:     "Du hast gewählt, die Lernsession zu beenden.",

	SpeechFailed:     "Fehler bei der Sprachausgabe: %v",
	RecordFailed:     "Fehler bei der Aufnahme oder Verarbeitung: %v",
	ValidationFailed: "Audio Validierungsfehler: %v",
	JudgeFailed:      "Fehler bei der Bewertung: %v",
	Skipping:         "Weiter mit der nächsten Frage.",

	You:     "Du",
	Partner: "Lernpartner",
	Yes:     "Ja",
	No:      "Nein",

	Negative: []string{
		"ich weiß es nicht",
		"ich weiß nicht",
		"weiß nicht",
		"keine ahnung",
		"kann ich nicht sagen",
	},
	Labels: summary.GermanLabels,
}

// PhrasesFor returns the language pack for an ISO-639-1 code.
func PhrasesFor(code string) (Phrases, error) {
	switch strings.ToLower(strings.TrimSpace(code)) {
	case "", "en":
		return English, nil
	case "de":
		return German, nil
	default:
		return Phrases{}, fmt.Errorf("unsupported language %q (supported: en, de)", code)
	}
}

// IsNegative reports whether transcript is one of the "I don't know"
// phrases. Matching ignores case, surrounding whitespace, trailing
// sentence punctuation and typographic apostrophes.
func (p Phrases) IsNegative(transcript string) bool {
	s := normalizeAnswer(transcript)
	for _, n := range p.Negative {
		if s == n {
			return true
		}
	}
	return false
}

func normalizeAnswer(s string) string {
	s = strings.ReplaceAll(s, "’", "'")
	s = strings.TrimSpace(s)
	s = strings.TrimRight(s, ".!?,;… ")
	return strings.ToLower(strings.TrimSpace(s))
}
