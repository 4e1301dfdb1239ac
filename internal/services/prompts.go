package services

import (
	"fmt"
	"strings"

	"summarization-hub/internal/models"
)

var summaryLengthGuides = map[models.LengthTier]string{
	models.LengthShort:  "Create a very concise summary in 2-3 sentences.",
	models.LengthMedium: "Create a comprehensive summary in about 5-7 sentences.",
	models.LengthLong:   "Create a detailed summary covering all key points.",
}

// BuildPrompt renders the instruction sent to the model for req.
func BuildPrompt(req models.GenerationRequest) string {
	switch req.Kind {
	case models.KindQuiz:
		return buildQuizPrompt(req.ItemCount, req.Content)
	case models.KindFlashcards:
		return buildFlashcardPrompt(req.ItemCount, req.Content)
	default:
		return buildSummaryPrompt(req.Length, req.Content)
	}
}

func buildSummaryPrompt(length models.LengthTier, content string) string {
	guide, ok := summaryLengthGuides[length]
	if !ok {
		guide = summaryLengthGuides[models.LengthMedium]
	}

	var b strings.Builder
	b.WriteString("Please summarize the following text. ")
	b.WriteString(guide)
	b.WriteString("\n\nTEXT TO SUMMARIZE:\n")
	b.WriteString(content)
	b.WriteString("\n")
	return b.String()
}

func buildQuizPrompt(numQuestions int, content string) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Based on the following content, create a quiz with %d questions.\n", numQuestions))
	b.WriteString(`For each question, provide:
1. The question
2. Four possible answers (A, B, C, D)
3. The correct answer
4. A brief explanation of why it's correct

Format each question as follows:

Q1: [Question text]
A: [Option A]
B: [Option B]
C: [Option C]
D: [Option D]
Correct Answer: [Letter]
Explanation: [Brief explanation]
`)
	b.WriteString("\nCONTENT:\n")
	b.WriteString(content)
	b.WriteString("\n")

	return b.String()
}

func buildFlashcardPrompt(numCards int, content string) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Based on the following content, create %d flashcards for studying.\n", numCards))
	b.WriteString(`For each flashcard, provide:
1. A front side with a question or term
2. A back side with the answer or definition

Format each flashcard as follows:

CARD 1
Front: [Question or term]
Back: [Answer or definition]
`)
	b.WriteString("\nCONTENT:\n")
	b.WriteString(content)
	b.WriteString("\n")

	return b.String()
}

func buildTranscriptPrompt(info *models.VideoInfo) string {
	var b strings.Builder

	b.WriteString("Create a simulated transcript for a YouTube video with the following details:\n")
	b.WriteString(fmt.Sprintf("Title: %s\n", info.Title))
	b.WriteString(fmt.Sprintf("Author: %s\n", info.Author))
	b.WriteString(fmt.Sprintf("Length: %d seconds\n\n", info.DurationSeconds))
	b.WriteString("The transcript should be a plausible representation of what might be said in this video.\n")
	b.WriteString("Focus on creating coherent, informative content related to the title.\n")

	return b.String()
}
