package models

import (
	"regexp"
	"strings"
	"time"
)

// MaterialType discriminates the material variants.
type MaterialType string

// Supported material types.
const (
	MaterialVideo        MaterialType = "video"
	MaterialLiveSession  MaterialType = "live_session"
	MaterialExternalLink MaterialType = "external_link"
	MaterialDocument     MaterialType = "document"
	MaterialQuiz         MaterialType = "quiz"
)

// MaterialStatus tracks learner completion of a material.
type MaterialStatus string

// Completion states reported by the upstream progress API.
const (
	StatusCompleted    MaterialStatus = "completed"
	StatusNotCompleted MaterialStatus = "not completed"
)

// VideoFields carries the video variant payload.
type VideoFields struct {
	FilePath string `json:"file_path"`
}

// LiveSessionFields carries the live session variant payload.
type LiveSessionFields struct {
	MeetLink    string    `json:"meet_link"`
	ScheduledAt time.Time `json:"scheduled_at"`
}

// ExternalLinkFields carries the external link variant payload.
type ExternalLinkFields struct {
	ExternalURL string `json:"external_url"`
}

// DocumentFields carries the document variant payload.
type DocumentFields struct {
	FilePath string `json:"file_path"`
}

// Material is a tagged union keyed by Type: exactly the variant matching Type
// is populated, every other variant pointer stays nil. Quiz materials carry
// no extra fields.
type Material struct {
	ID         string         `json:"id"`
	ModuleID   string         `json:"module_id"`
	Type       MaterialType   `json:"type"`
	Title      string         `json:"title"`
	OrderIndex int            `json:"order_index"`
	Status     MaterialStatus `json:"status,omitempty"`

	Video        *VideoFields        `json:"video,omitempty"`
	LiveSession  *LiveSessionFields  `json:"live_session,omitempty"`
	ExternalLink *ExternalLinkFields `json:"external_link,omitempty"`
	Document     *DocumentFields     `json:"document,omitempty"`
}

var (
	youtubeHostPattern = regexp.MustCompile(`^https://(www\.)?(youtube\.com|youtu\.be)/`)
	meetLinkPattern    = regexp.MustCompile(`^https://meet\.google\.com/[a-z0-9-]+(\?.*)?$`)
	zoomLinkPattern    = regexp.MustCompile(`^https://([a-z0-9-]+\.)?zoom\.us/j/[0-9]+(\?pwd=.*)?$`)
)

var videoExtensions = []string{".mp4", ".mkv", ".webm", ".mov", ".avi", ".flv", ".wmv"}

// ValidVideoURL accepts YouTube URLs or direct https links to a known video
// container extension.
func ValidVideoURL(raw string) bool {
	if youtubeHostPattern.MatchString(raw) {
		return true
	}
	if !strings.HasPrefix(raw, "https://") {
		return false
	}
	lower := strings.ToLower(raw)
	for _, ext := range videoExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// ValidMeetingURL accepts Google Meet and Zoom join links.
func ValidMeetingURL(raw string) bool {
	return meetLinkPattern.MatchString(raw) || zoomLinkPattern.MatchString(raw)
}

// ValidExternalURL accepts any https URL.
func ValidExternalURL(raw string) bool {
	return strings.HasPrefix(raw, "https://") && len(raw) > len("https://")
}

// Validate checks the variant payload against the rules for its type. The
// returned message is a field-level error suitable for inline display;
// validation failure never panics and never aborts anything beyond the
// submission it belongs to.
func (m Material) Validate() (string, bool) {
	switch m.Type {
	case MaterialVideo:
		if m.Video == nil || !ValidVideoURL(m.Video.FilePath) {
			return "video requires a YouTube link or an https video file URL", false
		}
	case MaterialLiveSession:
		if m.LiveSession == nil || !ValidMeetingURL(m.LiveSession.MeetLink) {
			return "live session requires a Google Meet or Zoom link", false
		}
	case MaterialExternalLink:
		if m.ExternalLink == nil || !ValidExternalURL(m.ExternalLink.ExternalURL) {
			return "external link must be an https URL", false
		}
	case MaterialDocument:
		if m.Document == nil || m.Document.FilePath == "" {
			return "document requires a file path", false
		}
	case MaterialQuiz:
		// no extra payload
	default:
		return "unknown material type", false
	}
	return "", true
}
