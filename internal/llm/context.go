package llm

import (
	"context"
	"strings"
)

// Purpose labels an LLM call in the request log.
type Purpose string

const (
	PurposeAnswerGrade      Purpose = "answer-grade"
	PurposeQuestionRephrase Purpose = "question-rephrase"
	PurposeCardGen          Purpose = "card-gen"

	// PurposeUnlabeled marks a call made without WithPurpose.
	PurposeUnlabeled Purpose = "unlabeled"
)

// Purposes lists the labels quizvox attaches, in display order.
var Purposes = []Purpose{PurposeAnswerGrade, PurposeQuestionRephrase, PurposeCardGen}

// PurposeList joins Purposes for help texts.
func PurposeList() string {
	names := make([]string, len(Purposes))
	for i, p := range Purposes {
		names[i] = string(p)
	}
	return strings.Join(names, ", ")
}

// Known reports whether p is one of Purposes or PurposeUnlabeled.
func (p Purpose) Known() bool {
	if p == PurposeUnlabeled {
		return true
	}
	for _, q := range Purposes {
		if p == q {
			return true
		}
	}
	return false
}

type purposeKey struct{}

// WithPurpose tags every Generate call made with ctx.
func WithPurpose(ctx context.Context, p Purpose) context.Context {
	return context.WithValue(ctx, purposeKey{}, p)
}

// PurposeFrom returns the label set by WithPurpose, or PurposeUnlabeled.
func PurposeFrom(ctx context.Context) Purpose {
	if p, ok := ctx.Value(purposeKey{}).(Purpose); ok && p != "" {
		return p
	}
	return PurposeUnlabeled
}
