package services

import (
	"context"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"summarization-hub/internal/models"
)

var videoIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/)([\w-]+)`),
	regexp.MustCompile(`youtube\.com/embed/([\w-]+)`),
	regexp.MustCompile(`youtube\.com/v/([\w-]+)`),
	regexp.MustCompile(`youtube\.com/\?v=([\w-]+)`),
}

// IsYouTubeURL is a containment check only. It does not validate the rest of the URL.
func IsYouTubeURL(rawURL string) bool {
	return strings.Contains(rawURL, "youtube.com") || strings.Contains(rawURL, "youtu.be")
}

// ExtractVideoID returns the video id in rawURL, or "" when there is none.
func ExtractVideoID(rawURL string) string {
	switch {
	case strings.Contains(rawURL, "youtu.be/"):
		return cutQuery(strings.Split(rawURL, "youtu.be/")[1])
	case strings.Contains(rawURL, "youtube.com/watch"):
		if idx := strings.Index(rawURL, "v="); idx >= 0 {
			return cutQuery(rawURL[idx+2:])
		}
	case strings.Contains(rawURL, "youtube.com/embed/"):
		return cutQuery(strings.Split(rawURL, "youtube.com/embed/")[1])
	}

	for _, re := range videoIDPatterns {
		if m := re.FindStringSubmatch(rawURL); len(m) > 1 {
			return m[1]
		}
	}
	return ""
}

func cutQuery(s string) string {
	if i := strings.IndexAny(s, "?&"); i >= 0 {
		return s[:i]
	}
	return s
}

// VideoResolver turns a YouTube URL into a VideoInfo with a transcript.
// Metadata and transcript failures are not fatal.
type VideoResolver struct {
	metadata    MetadataFetcher
	transcripts TranscriptFetcher
	generator   TextGenerator
	logger      *zap.Logger
}

func NewVideoResolver(metadata MetadataFetcher, transcripts TranscriptFetcher, generator TextGenerator, logger *zap.Logger) *VideoResolver {
	return &VideoResolver{
		metadata:    metadata,
		transcripts: transcripts,
		generator:   generator,
		logger:      logger,
	}
}

func (r *VideoResolver) Resolve(ctx context.Context, rawURL string, events EventSink) (*models.VideoInfo, error) {
	if !IsYouTubeURL(rawURL) {
		return nil, &InvalidURLError{URL: rawURL}
	}

	videoID := ExtractVideoID(rawURL)
	if videoID == "" {
		return nil, &ResolutionError{URL: rawURL}
	}

	log := r.logger.With(zap.String("video_id", videoID))
	info := models.NewVideoInfo(videoID)

	events.status("metadata", "Fetching video information...")
	meta, err := r.metadata.FetchMetadata(ctx, videoID)
	if err != nil {
		log.Warn("video metadata unavailable, using defaults", zap.Error(err))
		events.warn("metadata", "Could not get video metadata: "+err.Error())
	} else {
		if meta.Title != "" {
			info.Title = meta.Title
		}
		if meta.Author != "" {
			info.Author = meta.Author
		}
		if meta.DurationSeconds > 0 {
			info.DurationSeconds = meta.DurationSeconds
		}
	}

	events.status("transcript", "Fetching transcript...")
	fragments, err := r.transcripts.FetchTranscript(ctx, videoID)
	if err != nil {
		log.Warn("transcript unavailable", zap.Error(err))
		events.warn("transcript", "Could not get transcript: "+err.Error())
	}
	info.Transcript = strings.Join(fragments, " ")

	if strings.TrimSpace(info.Transcript) == "" {
		info.Transcript = ""
		r.synthesizeTranscript(ctx, info, events, log)
	}

	return info, nil
}

func (r *VideoResolver) synthesizeTranscript(ctx context.Context, info *models.VideoInfo, events EventSink, log *zap.Logger) {
	events.info("transcript", "Generating a simulated transcript based on the video title...")

	text, err := r.generator.GenerateText(ctx, buildTranscriptPrompt(info))
	if err != nil {
		log.Warn("transcript synthesis failed", zap.Error(err))
		events.warn("transcript", "Could not generate a transcript for this video.")
		return
	}

	info.Transcript = text
	info.TranscriptSynthesized = true
}
