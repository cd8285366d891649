// Package summary collects per-flashcard drill outcomes into the Good,
// Medium and Bad buckets and renders the end-of-session report.
package summary

import (
	"fmt"
	"strings"
	"sync"
)

// Bucket is one of the three outcome categories.
type Bucket int

const (
	Good Bucket = iota
	Medium
	Bad
)

func (b Bucket) String() string {
	switch b {
	case Good:
		return "good"
	case Medium:
		return "medium"
	case Bad:
		return "bad"
	default:
		return fmt.Sprintf("bucket(%d)", int(b))
	}
}

// Buckets is a point-in-time copy of the recorded questions.
type Buckets struct {
	Good   []string
	Medium []string
	Bad    []string
}

// Total returns the number of recorded entries across all buckets.
func (b Buckets) Total() int {
	return len(b.Good) + len(b.Medium) + len(b.Bad)
}

// Labels holds the fixed report headings.
type Labels struct {
	Title      string
	Good       string
	Medium     string
	Bad        string
	NoneGood   string
	NoneMedium string
	NoneBad    string
}

// EnglishLabels is the default report wording.
var EnglishLabels = Labels{
	Title:      "Summary",
	Good:       "Good topics",
	Medium:     "Medium topics",
	Bad:        "Bad topics",
	NoneGood:   "No good answers.",
	NoneMedium: "No medium answers.",
	NoneBad:    "No bad answers.",
}

// GermanLabels is the German report wording.
var GermanLabels = Labels{
	Title:      "Zusammenfassung",
	Good:       "Gute Themen",
	Medium:     "Mittlere Themen",
	Bad:        "Schlechte Themen",
	NoneGood:   "Keine guten Antworten.",
	NoneMedium: "Keine mittleren Antworten.",
	NoneBad:    "Keine schlechten Antworten.",
}

// Aggregator accumulates outcomes. Entries are never deduplicated: a card
// graded on several attempts appears once per recorded attempt.
type Aggregator struct {
	mu      sync.Mutex
	labels  Labels
	buckets Buckets
}

// New returns an empty Aggregator rendering with the given labels.
func New(labels Labels) *Aggregator {
	return &Aggregator{labels: labels}
}

// Record appends question to bucket.
func (a *Aggregator) Record(bucket Bucket, question string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	switch bucket {
	case Good:
		a.buckets.Good = append(a.buckets.Good, question)
	case Medium:
		a.buckets.Medium = append(a.buckets.Medium, question)
	case Bad:
		a.buckets.Bad = append(a.buckets.Bad, question)
	}
}

// Reset clears all three buckets.
func (a *Aggregator) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.buckets = Buckets{}
}

// Snapshot returns a copy of the current buckets.
func (a *Aggregator) Snapshot() Buckets {
	a.mu.Lock()
	defer a.mu.Unlock()
	return Buckets{
		Good:   append([]string(nil), a.buckets.Good...),
		Medium: append([]string(nil), a.buckets.Medium...),
		Bad:    append([]string(nil), a.buckets.Bad...),
	}
}

// Render formats the report under the fixed headings.
func (a *Aggregator) Render() string {
	return Render(a.Snapshot(), a.labels)
}

// Render formats b under the headings in l. An empty bucket shows its
// placeholder line instead of an empty list.
func Render(b Buckets, l Labels) string {
	var sb strings.Builder
	sb.WriteString(l.Title)
	sb.WriteString("\n")
	writeSection(&sb, l.Good, l.NoneGood, b.Good)
	writeSection(&sb, l.Medium, l.NoneMedium, b.Medium)
	writeSection(&sb, l.Bad, l.NoneBad, b.Bad)
	return strings.TrimRight(sb.String(), "\n")
}

func writeSection(sb *strings.Builder, heading, none string, items []string) {
	fmt.Fprintf(sb, "\n%s:\n", heading)
	if len(items) == 0 {
		fmt.Fprintf(sb, "%s\n", none)
		return
	}
	for _, q := range items {
		fmt.Fprintf(sb, "- %s\n", q)
	}
}
