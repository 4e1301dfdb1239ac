package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateSlots(t *testing.T) {
	slots := newRateSlots(2)
	ctx := context.Background()

	require.NoError(t, slots.acquire(ctx))
	require.NoError(t, slots.acquire(ctx))

	ctx2, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, slots.acquire(ctx2), context.DeadlineExceeded)

	slots.release()
	assert.NoError(t, slots.acquire(ctx))
}

func TestNewRateSlotsAtLeastOne(t *testing.T) {
	assert.Equal(t, 1, len(newRateSlots(0)))
}

func TestExtractText(t *testing.T) {
	tests := []struct {
		name string
		resp *genai.GenerateContentResponse
		want string
	}{
		{
			name: "parts are concatenated in order",
			resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{
				{Content: &genai.Content{Parts: []genai.Part{genai.Text("CARD 1\n"), genai.Text("Front: a\nBack: b")}}},
			}},
			want: "CARD 1\nFront: a\nBack: b",
		},
		{
			name: "every candidate contributes",
			resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{
				{Content: &genai.Content{Parts: []genai.Part{genai.Text("one ")}}},
				{Content: &genai.Content{Parts: []genai.Part{genai.Text("two")}}},
			}},
			want: "one two",
		},
		{
			name: "non-text parts and empty candidates are skipped",
			resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{
				{Content: nil},
				{Content: &genai.Content{Parts: []genai.Part{genai.Blob{MIMEType: "image/png"}, genai.Text("text")}}},
			}},
			want: "text",
		},
		{
			name: "no candidates",
			resp: &genai.GenerateContentResponse{},
			want: "",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, extractText(tc.resp))
		})
	}
}
