package posters

import (
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/campus-poster/backend/internal/copygen"
)

// MaxTitleLength is the longest accepted title in characters.
const MaxTitleLength = 20

// EventRequest is the body for POST /posters and POST /copies.
type EventRequest struct {
	Title        string `json:"title" binding:"required"`
	Time         string `json:"time" binding:"required"`
	Location     string `json:"location" binding:"required"`
	Organizer    string `json:"organizer" binding:"required"`
	Description  string `json:"description"`
	JoinURL      string `json:"join_url"`
	IsAffiliated *bool  `json:"is_affiliated"`
	IsECNU       *bool  `json:"is_ecnu"` // legacy name for is_affiliated
}

// Event trims the request into pipeline input.
func (r EventRequest) Event() copygen.EventData {
	affiliated := false
	switch {
	case r.IsAffiliated != nil:
		affiliated = *r.IsAffiliated
	case r.IsECNU != nil:
		affiliated = *r.IsECNU
	}
	return copygen.EventData{
		Title:        strings.TrimSpace(r.Title),
		Time:         strings.TrimSpace(r.Time),
		Location:     strings.TrimSpace(r.Location),
		Organizer:    strings.TrimSpace(r.Organizer),
		Description:  strings.TrimSpace(r.Description),
		JoinURL:      strings.TrimSpace(r.JoinURL),
		IsAffiliated: affiliated,
	}
}

// Validate returns per-field messages; an empty map means the event is well formed.
func Validate(ev copygen.EventData, loc *time.Location) map[string]string {
	errs := make(map[string]string)
	switch {
	case ev.Title == "":
		errs["title"] = "请输入活动名称"
	case utf8.RuneCountInString(ev.Title) > MaxTitleLength:
		errs["title"] = "活动名称不能超过20字"
	}
	if ev.Time == "" {
		errs["time"] = "请选择活动时间"
	} else if _, ok := copygen.ParseEventTime(ev.Time, loc); !ok {
		errs["time"] = "活动时间格式不正确"
	}
	if ev.Location == "" {
		errs["location"] = "请输入活动地点"
	}
	if ev.Organizer == "" {
		errs["organizer"] = "请输入主办方"
	}
	if ev.JoinURL != "" && !validURL(ev.JoinURL) {
		errs["join_url"] = "请输入正确的链接格式"
	}
	return errs
}

func validURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
