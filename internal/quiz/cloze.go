package quiz

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/conorfennell/studyplan/internal/domain"
)

// Blank replaces the answer in a cloze prompt.
const Blank = "_____"

const (
	minSentenceLength = 30
	minSentences      = 5
	minWordLength     = 3
	maxWordLength     = 15
	minWords          = 5
	distractorWindow  = 20
)

var (
	whitespace       = regexp.MustCompile(`\s+`)
	anyQALabel       = regexp.MustCompile(`(?i)question\s*[:\-]|answer\s*[:\-]`)
	academicFallback = []string{"concept", "process", "system", "method", "approach", "technique", "principle", "theory", "model", "framework"}
	stopWords        = map[string]bool{
		"the": true, "and": true, "or": true, "but": true, "in": true, "on": true, "at": true,
		"to": true, "for": true, "of": true, "with": true, "by": true, "is": true, "are": true,
		"was": true, "were": true, "be": true, "been": true, "have": true, "has": true, "had": true,
		"will": true, "would": true, "could": true, "should": true, "this": true, "that": true,
		"these": true, "those": true, "a": true, "an": true, "question": true, "answer": true,
	}
)

// HeuristicCloze blanks one word out of prose sentences and uses words from
// neighbouring sentences as distractors.
type HeuristicCloze struct {
	Rand Random
}

// Generate returns up to n fill-in-the-blank questions. It returns nil when
// text has fewer than five sentences longer than 30 characters.
func (h *HeuristicCloze) Generate(text string, n int) []domain.QuizQuestion {
	sentences := Sentences(text)
	if len(sentences) < minSentences || n <= 0 {
		return nil
	}
	shuffle(h.Rand, sentences)

	var questions []domain.QuizQuestion
	for _, sentence := range sentences {
		if len(questions) >= n {
			break
		}
		if utf8.RuneCountInString(sentence) < 20 || anyQALabel.MatchString(sentence) {
			continue
		}
		words := candidateWords(sentence)
		if len(words) < minWords {
			continue
		}
		suitable := make([]string, 0, len(words))
		for _, w := range words {
			if !stopWords[strings.ToLower(w)] && utf8.RuneCountInString(w) > minWordLength {
				suitable = append(suitable, w)
			}
		}
		if len(suitable) == 0 {
			continue
		}

		answer := choose(h.Rand, suitable)
		prompt := strings.Replace(sentence, answer, Blank, 1)

		pool := h.distractorPool(sentences, sentence, answer)
		distractors := pickDistractors(h.Rand, answer, pool, academicFallback)
		questions = append(questions, newQuestion(h.Rand, prompt, answer, distractors))
	}
	return questions
}

// distractorPool collects the distinct non-stop words of the first sentences,
// other than the current one, in random order.
func (h *HeuristicCloze) distractorPool(sentences []string, current, answer string) []string {
	window := sentences[:min(distractorWindow, len(sentences))]
	seen := map[string]bool{}
	var pool []string
	for _, other := range window {
		if other == current {
			continue
		}
		for _, w := range candidateWords(other) {
			key := strings.ToLower(w)
			if stopWords[key] || strings.EqualFold(w, answer) || seen[key] {
				continue
			}
			seen[key] = true
			pool = append(pool, w)
		}
	}
	shuffle(h.Rand, pool)
	return pool
}

// Sentences collapses whitespace, splits text on periods and keeps the
// sentences longer than 30 characters.
func Sentences(text string) []string {
	text = strings.TrimSpace(whitespace.ReplaceAllString(text, " "))
	var sentences []string
	for _, s := range strings.Split(text, ".") {
		s = strings.TrimSpace(s)
		if utf8.RuneCountInString(s) > minSentenceLength {
			sentences = append(sentences, s)
		}
	}
	return sentences
}

// candidateWords returns the whitespace-separated tokens of 3 to 15 characters.
func candidateWords(sentence string) []string {
	var words []string
	for _, w := range strings.Fields(sentence) {
		if n := utf8.RuneCountInString(w); n >= minWordLength && n <= maxWordLength {
			words = append(words, w)
		}
	}
	return words
}
