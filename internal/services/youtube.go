package services

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"html"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	ytapi "github.com/hightemp/youtube-transcript-api-go/api"
	yt "github.com/kkdai/youtube/v2"
)

const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// VideoMetadata is what the metadata lookup knows about a video. Empty fields are unknown.
type VideoMetadata struct {
	Title           string
	Author          string
	DurationSeconds int
}

type MetadataFetcher interface {
	FetchMetadata(ctx context.Context, videoID string) (*VideoMetadata, error)
}

// TranscriptFetcher returns caption fragments in timeline order.
type TranscriptFetcher interface {
	FetchTranscript(ctx context.Context, videoID string) ([]string, error)
}

// YouTubeService talks to YouTube for metadata and captions.
type YouTubeService struct {
	httpClient    *http.Client
	transcriptAPI *ytapi.YouTubeTranscriptApi
	ytClient      *yt.Client
}

type timedTextXML struct {
	XMLName xml.Name  `xml:"transcript"`
	Texts   []textXML `xml:"text"`
}

type textXML struct {
	Start string `xml:"start,attr"`
	Dur   string `xml:"dur,attr"`
	Text  string `xml:",chardata"`
}

func NewYouTubeService(timeout time.Duration) *YouTubeService {
	httpClient := &http.Client{Timeout: timeout}
	return &YouTubeService{
		httpClient:    httpClient,
		transcriptAPI: ytapi.NewYouTubeTranscriptApi(),
		ytClient:      &yt.Client{HTTPClient: httpClient},
	}
}

// FetchMetadata asks the player API first and falls back to scraping the watch page.
func (s *YouTubeService) FetchMetadata(ctx context.Context, videoID string) (*VideoMetadata, error) {
	video, err := s.ytClient.GetVideoContext(ctx, videoID)
	if err == nil && video.Title != "" {
		return &VideoMetadata{
			Title:           video.Title,
			Author:          video.Author,
			DurationSeconds: int(video.Duration.Seconds()),
		}, nil
	}

	meta, scrapeErr := s.scrapeMetadata(ctx, videoID)
	if scrapeErr != nil {
		return nil, fmt.Errorf("player API failed (%v) and watch page scrape failed (%v)", err, scrapeErr)
	}
	return meta, nil
}

var (
	ownerChannelPattern  = regexp.MustCompile(`"ownerChannelName":"(.*?)"`)
	lengthSecondsPattern = regexp.MustCompile(`"lengthSeconds":"(\d+)"`)
	isoDurationPattern   = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?$`)
)

func (s *YouTubeService) scrapeMetadata(ctx context.Context, videoID string) (*VideoMetadata, error) {
	body, err := s.fetchWatchPage(ctx, videoID)
	if err != nil {
		return nil, err
	}
	return parseWatchPage(body)
}

func parseWatchPage(body []byte) (*VideoMetadata, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse YouTube page: %w", err)
	}

	meta := &VideoMetadata{}

	meta.Title = strings.TrimSpace(doc.Find(`meta[name="title"]`).AttrOr("content", ""))
	if meta.Title == "" {
		meta.Title = strings.TrimSpace(doc.Find(`meta[property="og:title"]`).AttrOr("content", ""))
	}
	if meta.Title == "" {
		meta.Title = strings.TrimSpace(strings.TrimSuffix(doc.Find("title").First().Text(), " - YouTube"))
	}

	meta.Author = strings.TrimSpace(doc.Find(`span[itemprop="author"] link[itemprop="name"]`).AttrOr("content", ""))
	if meta.Author == "" {
		if m := ownerChannelPattern.FindSubmatch(body); len(m) > 1 {
			meta.Author = string(m[1])
		}
	}

	meta.DurationSeconds = parseISODuration(doc.Find(`meta[itemprop="duration"]`).AttrOr("content", ""))
	if meta.DurationSeconds == 0 {
		if m := lengthSecondsPattern.FindSubmatch(body); len(m) > 1 {
			meta.DurationSeconds, _ = strconv.Atoi(string(m[1]))
		}
	}

	if meta.Title == "" && meta.Author == "" {
		return nil, fmt.Errorf("no metadata found on YouTube page")
	}
	return meta, nil
}

// parseISODuration handles the PT#H#M#S form used in watch page markup.
func parseISODuration(s string) int {
	m := isoDurationPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0
	}
	h, _ := strconv.Atoi(m[1])
	mins, _ := strconv.Atoi(m[2])
	sec, _ := strconv.Atoi(m[3])
	return h*3600 + mins*60 + sec
}

// FetchTranscript tries English captions, then any language, then the timedtext track.
func (s *YouTubeService) FetchTranscript(ctx context.Context, videoID string) ([]string, error) {
	transcript, err := s.transcriptAPI.GetTranscript(videoID, []string{"en", "en-US", "en-GB"})
	if err != nil {
		// Fallback: request any available language
		transcript, err = s.transcriptAPI.GetTranscript(videoID, nil)
		if err != nil {
			fragments, legacyErr := s.getTranscriptViaTimedText(ctx, videoID)
			if legacyErr == nil {
				return fragments, nil
			}
			return nil, fmt.Errorf("no subtitles available via transcript API (%v) and timedtext fallback failed (%v)", err, legacyErr)
		}
	}

	fragments := entryTexts(transcript.Entries)
	if strings.TrimSpace(strings.Join(fragments, "")) == "" {
		return nil, fmt.Errorf("subtitle track is empty")
	}
	return fragments, nil
}

// entryTexts keeps each caption text exactly as the track delivers it.
func entryTexts(entries []ytapi.TranscriptEntry) []string {
	fragments := make([]string, 0, len(entries))
	for _, entry := range entries {
		fragments = append(fragments, entry.Text)
	}
	return fragments
}

func (s *YouTubeService) getTranscriptViaTimedText(ctx context.Context, videoID string) ([]string, error) {
	body, err := s.fetchWatchPage(ctx, videoID)
	if err != nil {
		return nil, err
	}

	captionURL, err := extractCaptionURL(string(body))
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, captionURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build captions request: %w", err)
	}
	captionResp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch captions: %w", err)
	}
	defer captionResp.Body.Close()

	captionBody, err := io.ReadAll(captionResp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read captions: %w", err)
	}

	fragments, err := parseCaptionsXML(captionBody)
	if err != nil {
		return nil, fmt.Errorf("failed to parse captions XML: %w", err)
	}
	return fragments, nil
}

func (s *YouTubeService) fetchWatchPage(ctx context.Context, videoID string) ([]byte, error) {
	pageURL := fmt.Sprintf("https://www.youtube.com/watch?v=%s", videoID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build YouTube page request: %w", err)
	}
	req.Header.Set("User-Agent", browserUserAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch YouTube page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("YouTube page returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read YouTube page: %w", err)
	}
	return body, nil
}

var (
	captionTracksPattern  = regexp.MustCompile(`"captionTracks"\s*:\s*\[(.*?)\],\s*"`)
	captionTracksPattern2 = regexp.MustCompile(`"playerCaptionsTracklistRenderer"\s*:\s*\{(?:.*?,)?\s*"captionTracks"\s*:\s*\[(.*?)\],\s*"`)
	baseURLPattern        = regexp.MustCompile(`"baseUrl"\s*:\s*"(.*?)"`)
)

func extractCaptionURL(pageHTML string) (string, error) {
	matches := captionTracksPattern.FindStringSubmatch(pageHTML)
	if len(matches) < 2 {
		matches = captionTracksPattern2.FindStringSubmatch(pageHTML)
		if len(matches) < 2 {
			return "", fmt.Errorf("no captions available for this video")
		}
	}

	urlMatches := baseURLPattern.FindStringSubmatch(matches[1])
	if len(urlMatches) < 2 {
		return "", fmt.Errorf("caption track found but baseUrl missing")
	}

	u := urlMatches[1]
	u = strings.ReplaceAll(u, `\u0026`, "&")
	u = strings.ReplaceAll(u, `\/`, "/")

	return u, nil
}

func parseCaptionsXML(data []byte) ([]string, error) {
	var tt timedTextXML
	if err := xml.Unmarshal(data, &tt); err != nil {
		return nil, err
	}

	var parts []string
	for _, t := range tt.Texts {
		text := strings.TrimSpace(html.UnescapeString(t.Text))
		if text != "" {
			parts = append(parts, text)
		}
	}

	if len(parts) == 0 {
		return nil, fmt.Errorf("captions XML empty")
	}
	return parts, nil
}
