package services

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"summarization-hub/internal/models"
)

// ParseFlashcards scans model output laid out as CARD / Front: / Back: blocks.
// A card is kept once both labels were seen, even if one value is empty.
// Cards missing either label are dropped.
func ParseFlashcards(raw string) []models.Flashcard {
	var (
		cards             []models.Flashcard
		current           models.Flashcard
		hasFront, hasBack bool
	)

	flush := func() {
		if hasFront && hasBack {
			cards = append(cards, current)
		}
		current = models.Flashcard{}
		hasFront, hasBack = false, false
	}

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)

		switch {
		case strings.HasPrefix(line, "CARD"):
			flush()
		case strings.HasPrefix(line, "Front:"):
			current.Front = strings.TrimSpace(strings.TrimPrefix(line, "Front:"))
			hasFront = true
		case strings.HasPrefix(line, "Back:"):
			current.Back = strings.TrimSpace(strings.TrimPrefix(line, "Back:"))
			hasBack = true
		}
	}
	flush()

	return cards
}

var (
	quizQuestionLine = regexp.MustCompile(`^Q(\d+)[:.]\s*(.*)$`)
	quizOptionLine   = regexp.MustCompile(`^([A-D])[:.)]\s*(.*)$`)
)

// ParseQuiz scans model output laid out as Q1: / A:..D: / Correct Answer: / Explanation:
// blocks. A bare Q1: takes the next plain line as its text. Questions without text
// or a correct answer are dropped.
func ParseQuiz(raw string) []models.QuizQuestion {
	var (
		questions   []models.QuizQuestion
		current     models.QuizQuestion
		wantsPrompt bool
	)

	flush := func() {
		if current.Question != "" && current.CorrectAnswer != "" {
			questions = append(questions, current)
		}
		current = models.QuizQuestion{}
		wantsPrompt = false
	}

	for _, line := range strings.Split(raw, "\n") {
		// models often bold the labels
		line = strings.TrimSpace(strings.ReplaceAll(strings.TrimSpace(line), "**", ""))

		if m := quizQuestionLine.FindStringSubmatch(line); m != nil {
			flush()
			current.Number, _ = strconv.Atoi(m[1])
			current.Question = strings.TrimSpace(m[2])
			wantsPrompt = current.Question == ""
			continue
		}

		switch {
		case strings.HasPrefix(line, "Correct Answer:"):
			current.CorrectAnswer = answerLetter(strings.TrimPrefix(line, "Correct Answer:"))
		case strings.HasPrefix(line, "Explanation:"):
			current.Explanation = strings.TrimSpace(strings.TrimPrefix(line, "Explanation:"))
		default:
			m := quizOptionLine.FindStringSubmatch(line)
			switch {
			case m != nil && current.Question != "":
				current.Options = append(current.Options, models.QuizOption{
					Label: m[1],
					Text:  strings.TrimSpace(m[2]),
				})
			case m == nil && wantsPrompt && line != "":
				current.Question = line
				wantsPrompt = false
			}
		}
	}
	flush()

	return questions
}

// answerLetter keeps the first character of an answer such as "b) Eight", upper-cased.
func answerLetter(answer string) string {
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return ""
	}
	r, _ := utf8.DecodeRuneInString(answer)
	return string(unicode.ToUpper(r))
}
