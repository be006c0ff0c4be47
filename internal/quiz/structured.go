package quiz

import (
	"regexp"
	"strings"

	"github.com/conorfennell/studyplan/internal/domain"
)

var biologyFallback = []string{"cell", "tissue", "organ", "system", "enzyme", "hormone", "protein", "nucleus", "membrane"}

// StructuredQA turns "Question: ... Answer: ..." blocks into questions whose
// distractors are the answers of the other blocks.
type StructuredQA struct {
	Rand Random
}

// Pair is one labelled question with its answer, labels stripped.
type Pair struct {
	Question string
	Answer   string
}

// Generate returns up to n questions drawn from the pairs in text, in random
// order. It returns nil when no pair is found.
func (s *StructuredQA) Generate(text string, n int) []domain.QuizQuestion {
	pairs := ExtractPairs(text)
	if len(pairs) == 0 || n <= 0 {
		return nil
	}

	answers := make([]string, len(pairs))
	for i, p := range pairs {
		answers[i] = p.Answer
	}

	shuffle(s.Rand, pairs)
	pairs = pairs[:min(n, len(pairs))]

	questions := make([]domain.QuizQuestion, 0, len(pairs))
	for _, p := range pairs {
		others := make([]string, 0, len(answers))
		for _, a := range answers {
			if a != p.Answer {
				others = append(others, a)
			}
		}
		shuffle(s.Rand, others)

		distractors := pickDistractors(s.Rand, p.Answer, others, biologyFallback)
		questions = append(questions, newQuestion(s.Rand, p.Question, p.Answer, distractors))
	}
	return questions
}

// ExtractPairs finds each Question label, the first Answer label after it,
// and the answer text up to the next Question label or the end of text.
// A Question label with no Answer after it ends the scan.
func ExtractPairs(text string) []Pair {
	var pairs []Pair
	pos := 0
	for pos < len(text) {
		q := questionLabel.FindStringIndex(text[pos:])
		if q == nil {
			break
		}
		qStart, qEnd := pos+q[0], pos+q[1]

		a := answerLabel.FindStringIndex(text[qEnd:])
		if a == nil {
			break
		}
		aStart, aEnd := qEnd+a[0], qEnd+a[1]

		end := len(text)
		if next := questionLabel.FindStringIndex(text[aEnd:]); next != nil {
			end = aEnd + next[0]
		}

		pairs = append(pairs, Pair{
			Question: stripLabel(questionLabel, text[qStart:aStart]),
			Answer:   stripLabel(answerLabel, text[aStart:end]),
		})
		pos = end
	}
	return pairs
}

func stripLabel(label *regexp.Regexp, s string) string {
	return strings.TrimSpace(label.ReplaceAllString(s, ""))
}
