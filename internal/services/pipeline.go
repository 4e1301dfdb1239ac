package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"summarization-hub/internal/models"
)

// EventSink receives progress events. A nil sink discards them.
type EventSink func(models.PipelineEvent)

func (s EventSink) emit(t models.EventType, step, message string) {
	if s == nil {
		return
	}
	s(models.PipelineEvent{Type: t, Step: step, Message: message})
}

func (s EventSink) status(step, message string) { s.emit(models.EventStatus, step, message) }
func (s EventSink) warn(step, message string)   { s.emit(models.EventWarning, step, message) }
func (s EventSink) info(step, message string)   { s.emit(models.EventInfo, step, message) }

// Collect returns a sink that records warning messages into dst.
func Collect(dst *[]string, next EventSink) EventSink {
	return func(ev models.PipelineEvent) {
		if ev.Type == models.EventWarning {
			*dst = append(*dst, ev.Message)
		}
		if next != nil {
			next(ev)
		}
	}
}

// Pipeline turns a content source into text and text into generated study material.
type Pipeline struct {
	pdf       *PDFExtractor
	videos    *VideoResolver
	generator TextGenerator
	logger    *zap.Logger
}

func NewPipeline(pdf *PDFExtractor, videos *VideoResolver, generator TextGenerator, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		pdf:       pdf,
		videos:    videos,
		generator: generator,
		logger:    logger,
	}
}

// Extraction is the text of a source plus the video it came from, if any.
type Extraction struct {
	Content string
	Video   *models.VideoInfo
}

func (p *Pipeline) ExtractText(ctx context.Context, src models.ContentSource, events EventSink) (*Extraction, error) {
	switch src.Kind {
	case models.SourceText:
		return &Extraction{Content: src.Text}, nil

	case models.SourcePDF:
		events.status("extract", "Extracting text from PDF...")
		text, err := p.pdf.ExtractText(src.PDF)
		if err != nil {
			p.logger.Warn("pdf extraction failed", zap.Int("bytes", len(src.PDF)), zap.Error(err))
			return nil, err
		}
		return &Extraction{Content: text}, nil

	case models.SourceYouTube:
		events.status("extract", "Processing YouTube video...")
		info, err := p.videos.Resolve(ctx, src.URL, events)
		if err != nil {
			return nil, err
		}
		return &Extraction{Content: info.Transcript, Video: info}, nil
	}

	return nil, fmt.Errorf("unknown content source %q", src.Kind)
}

// Generate returns the model output for req verbatim.
func (p *Pipeline) Generate(ctx context.Context, req models.GenerationRequest, events EventSink) (string, error) {
	events.status("generate", generateStatusMessage(req.Kind))

	out, err := p.generator.GenerateText(ctx, BuildPrompt(req))
	if err != nil {
		p.logger.Error("generation failed", zap.String("kind", string(req.Kind)), zap.Error(err))
		var genErr *GenerationError
		if !errors.As(err, &genErr) {
			err = &GenerationError{Provider: "model", Err: err}
		}
		return "", err
	}
	return out, nil
}

func generateStatusMessage(kind models.ArtifactKind) string {
	switch kind {
	case models.KindQuiz:
		return "Generating quiz questions..."
	case models.KindFlashcards:
		return "Generating flashcards..."
	default:
		return "Generating summary..."
	}
}
