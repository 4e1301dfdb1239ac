package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"summarization-hub/internal/models"
)

func TestParseFlashcards(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []models.Flashcard
	}{
		{
			name: "two cards in order",
			raw:  "CARD 1\nFront: Q1\nBack: A1\nCARD 2\nFront: Q2\nBack: A2",
			want: []models.Flashcard{{Front: "Q1", Back: "A1"}, {Front: "Q2", Back: "A2"}},
		},
		{
			name: "card without back is dropped",
			raw:  "CARD 1\nFront: Q1\nCARD 2\nFront: Q2\nBack: A2",
			want: []models.Flashcard{{Front: "Q2", Back: "A2"}},
		},
		{
			name: "trailing incomplete card is dropped",
			raw:  "CARD 1\nFront: Q1\nBack: A1\nCARD 2\nFront: Q2",
			want: []models.Flashcard{{Front: "Q1", Back: "A1"}},
		},
		{
			name: "indentation and padding are trimmed",
			raw:  "  Here are your cards:\n\n   CARD 1\n   Front:   What is Go?  \n   Back:  A language.\n",
			want: []models.Flashcard{{Front: "What is Go?", Back: "A language."}},
		},
		{
			name: "later front overwrites earlier",
			raw:  "CARD 1\nFront: first\nFront: second\nBack: answer",
			want: []models.Flashcard{{Front: "second", Back: "answer"}},
		},
		{
			name: "fields before any header still count",
			raw:  "Front: orphan\nBack: card",
			want: []models.Flashcard{{Front: "orphan", Back: "card"}},
		},
		{
			name: "labels with empty values still complete a card",
			raw:  "CARD 1\nFront: Term\nBack:",
			want: []models.Flashcard{{Front: "Term", Back: ""}},
		},
		{
			name: "empty input",
			raw:  "",
			want: nil,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ParseFlashcards(tc.raw))
		})
	}
}

func TestParseQuiz(t *testing.T) {
	raw := `Here is your quiz:

Q1: What color is the sky?
A: Green
B: Blue
C: Red
D: Yellow
Correct Answer: B
Explanation: Rayleigh scattering.

**Q2:** How many legs does a spider have?
A) Six
B) Eight
C) Ten
D) Four
**Correct Answer:** b) Eight

Q3: Unanswered question
A: One
B: Two
`

	got := ParseQuiz(raw)
	require.Len(t, got, 2)

	assert.Equal(t, 1, got[0].Number)
	assert.Equal(t, "What color is the sky?", got[0].Question)
	require.Len(t, got[0].Options, 4)
	assert.Equal(t, models.QuizOption{Label: "B", Text: "Blue"}, got[0].Options[1])
	assert.Equal(t, "B", got[0].CorrectAnswer)
	assert.Equal(t, "Rayleigh scattering.", got[0].Explanation)

	assert.Equal(t, 2, got[1].Number)
	assert.Equal(t, "How many legs does a spider have?", got[1].Question)
	assert.Len(t, got[1].Options, 4)
	assert.Equal(t, "B", got[1].CorrectAnswer)
	assert.Empty(t, got[1].Explanation)
}

func TestParseQuiz_QuestionOnFollowingLine(t *testing.T) {
	raw := "Q1:\nWhich gas do plants absorb?\nA: Oxygen\nB: Carbon dioxide\nC: Helium\nD: Neon\nCorrect Answer: B\n\nQ2:\nA: orphan option\nCorrect Answer: A"

	got := ParseQuiz(raw)
	require.Len(t, got, 1)
	assert.Equal(t, "Which gas do plants absorb?", got[0].Question)
	assert.Len(t, got[0].Options, 4)
	assert.Equal(t, "B", got[0].CorrectAnswer)
}

func TestAnswerLetter(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{" b) Eight", "B"},
		{"C", "C"},
		{"Ä", "Ä"},
		{"ä) Umlaut", "Ä"},
		{"   ", ""},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, answerLetter(tc.in))
		})
	}
}
