package quiz

import (
	"regexp"
	"strings"

	"github.com/conorfennell/studyplan/internal/domain"
	"github.com/conorfennell/studyplan/internal/knol"
)

// DefaultQuestions is the number of questions generated when none is asked for.
const DefaultQuestions = 5

const optionCount = 4

var (
	questionLabel = regexp.MustCompile(`(?i)Question\s*[:\-]`)
	answerLabel   = regexp.MustCompile(`(?i)Answer\s*[:\-]`)
)

// Generator produces up to n multiple-choice questions from raw text.
// An empty result means the text did not hold enough material.
type Generator interface {
	Generate(text string, n int) []domain.QuizQuestion
}

// IsQAFormat reports whether text carries both a Question and an Answer
// label, in any case.
func IsQAFormat(text string) bool {
	return questionLabel.MatchString(text) && answerLabel.MatchString(text)
}

// Select picks StructuredQA for labelled text and HeuristicCloze otherwise.
func Select(text string, r Random) Generator {
	if IsQAFormat(text) {
		return &StructuredQA{Rand: r}
	}
	return &HeuristicCloze{Rand: r}
}

// Generate runs the generator Select picks for text.
func Generate(text string, n int, r Random) []domain.QuizQuestion {
	return Select(text, r).Generate(text, n)
}

func newQuestion(r Random, prompt, answer string, distractors []string) domain.QuizQuestion {
	options := make([]string, 0, optionCount)
	options = append(options, distractors...)
	options = append(options, answer)
	shuffle(r, options)
	return domain.QuizQuestion{
		ID:      knol.Hash(prompt, answer),
		Prompt:  prompt,
		Options: options,
		Answer:  answer,
	}
}

// pickDistractors takes up to three candidates, then pads from the fallback
// pool. Matching is case-insensitive against the answer and the picks so far.
func pickDistractors(r Random, answer string, candidates, fallback []string) []string {
	picked := make([]string, 0, optionCount-1)
	seen := map[string]bool{strings.ToLower(answer): true}

	add := func(s string) {
		key := strings.ToLower(s)
		if len(picked) == optionCount-1 || seen[key] {
			return
		}
		seen[key] = true
		picked = append(picked, s)
	}

	for _, c := range candidates {
		add(c)
	}
	if len(picked) < optionCount-1 {
		pool := append([]string(nil), fallback...)
		shuffle(r, pool)
		for _, f := range pool {
			add(f)
		}
	}
	return picked
}
