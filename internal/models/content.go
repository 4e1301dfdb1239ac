package models

type SourceKind string

const (
	SourceText    SourceKind = "text"
	SourcePDF     SourceKind = "pdf"
	SourceYouTube SourceKind = "youtube"
)

// ContentSource is one user submission. Only the field matching Kind is set.
type ContentSource struct {
	Kind SourceKind
	Text string
	PDF  []byte
	URL  string
}

func TextSource(text string) ContentSource {
	return ContentSource{Kind: SourceText, Text: text}
}

func PDFSource(data []byte) ContentSource {
	return ContentSource{Kind: SourcePDF, PDF: data}
}

func YouTubeSource(url string) ContentSource {
	return ContentSource{Kind: SourceYouTube, URL: url}
}

const (
	DefaultVideoTitle  = "YouTube Video"
	DefaultVideoAuthor = "YouTube Creator"
)

type VideoInfo struct {
	VideoID               string `json:"video_id"`
	Title                 string `json:"title"`
	Author                string `json:"author"`
	DurationSeconds       int    `json:"duration_seconds"`
	Transcript            string `json:"transcript"`
	TranscriptSynthesized bool   `json:"transcript_synthesized"`
}

// NewVideoInfo returns a VideoInfo carrying the placeholder metadata.
func NewVideoInfo(videoID string) *VideoInfo {
	return &VideoInfo{
		VideoID: videoID,
		Title:   DefaultVideoTitle,
		Author:  DefaultVideoAuthor,
	}
}

type ExtractTextRequest struct {
	Text string `json:"text"`
}

type ExtractYouTubeRequest struct {
	URL string `json:"url"`
}

type ExtractResponse struct {
	Source   SourceKind `json:"source"`
	Content  string     `json:"content"`
	Title    string     `json:"title,omitempty"`
	Video    *VideoInfo `json:"video,omitempty"`
	Warnings []string   `json:"warnings"`
}
