// Package notify produces the transient notices ("toasts") the dashboards show after an
// action, and translates API failures into user-facing text.
package notify

import (
	"errors"
	"time"
)

// Level is the severity of a notice.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

// DefaultTTL is how long a notice stays on screen.
const DefaultTTL = 4 * time.Second

// User-facing texts.
const (
	MsgConnection        = "Could not connect to the server. Please check your connection."
	MsgGenericFailure    = "An error occurred. Please try again."
	MsgLoadArticles      = "Failed to load articles. Please try again."
	MsgFactCheckArticle  = "Failed to fact check article. Please try again."
	MsgFactCheckPaper    = "Failed to fact check paper. Please try again."
	MsgArticleChecked    = "Article fact-checked successfully"
	MsgPaperChecked      = "Paper fact-checked successfully"
	MsgLoadPaper         = "Could not load or generate paper."
	MsgSourceAdded       = "Source added successfully"
	MsgSourceRemoved     = "Source removed successfully"
	MsgSourceURLRequired = "Please enter a valid http(s) URL."
	MsgInvalidDate       = "Please pick a valid date."
	MsgPreviewFailed     = "No RSS or Atom feed could be found at that address."
)

// Notice is one user-visible message.
type Notice struct {
	Level Level     `json:"level"`
	Text  string    `json:"text"`
	At    time.Time `json:"at"`
}

// Success returns a success notice.
func Success(text string) Notice { return Notice{Level: LevelSuccess, Text: text, At: time.Now()} }

// Error returns an error notice.
func Error(text string) Notice { return Notice{Level: LevelError, Text: text, At: time.Now()} }

// Info returns an informational notice.
func Info(text string) Notice { return Notice{Level: LevelInfo, Text: text, At: time.Now()} }

// Expired reports whether the notice has been visible longer than ttl.
func (n Notice) Expired(now time.Time, ttl time.Duration) bool {
	return now.Sub(n.At) >= ttl
}

// unreachable is implemented by errors raised when no response was obtained.
type unreachable interface {
	Unreachable() bool
}

// userMessage is implemented by errors carrying a server-provided message.
type userMessage interface {
	UserMessage() string
}

// FromAPIError translates an API failure the way the sources view reports it:
// transport failures get the connectivity text, server rejections get the server's
// own message. Any other error (e.g. an undecodable body) yields no notice.
func FromAPIError(err error) (Notice, bool) {
	if err == nil {
		return Notice{}, false
	}
	var u unreachable
	if errors.As(err, &u) && u.Unreachable() {
		return Error(MsgConnection), true
	}
	var m userMessage
	if errors.As(err, &m) {
		text := m.UserMessage()
		if text == "" {
			text = MsgGenericFailure
		}
		return Error(text), true
	}
	return Notice{}, false
}
