package copygen

import "strings"

const (
	joinCallToAction = "🔗 报名戳→"
	joinInComments   = "💻 报名链接已放在评论区~"
	communityTags    = "#校园活动 #社团 #大学生活"
)

// Keyword overrides shared by both surfaces; first match wins.
var emojiKeywords = []struct {
	keyword string
	emoji   string
}{
	{"分享", "🎤"},
	{"比赛", "🏆"},
	{"工作坊", "💡"},
}

// Surface defaults differ on purpose: moments 🎉, community ✨.
const (
	defaultMomentsEmoji   = "🎉"
	defaultCommunityEmoji = "✨"
)

func pickEmoji(description, fallback string) string {
	for _, k := range emojiKeywords {
		if strings.Contains(description, k.keyword) {
			return k.emoji
		}
	}
	return fallback
}

// Template builds all three copy variants from the event without any network call.
func Template(ev EventData, s Settings) CopyResult {
	displayTime := FormatDisplay(ev.Time, s.zone())
	location := ResolveLocation(ev, s)
	return CopyResult{
		Moments:   templateMoments(ev, displayTime, location),
		Community: templateCommunity(ev, displayTime, location),
		Summary:   templateSummary(ev, displayTime, location),
	}
}

func templateMoments(ev EventData, displayTime, location string) string {
	var b strings.Builder
	b.WriteString(pickEmoji(ev.Description, defaultMomentsEmoji) + " " + ev.Title)
	b.WriteString("\n📅 " + displayTime)
	b.WriteString("\n📍 " + location)
	if ev.Organizer != "" {
		b.WriteString("\n👥 " + ev.Organizer)
	}
	if ev.JoinURL != "" {
		b.WriteString("\n" + joinCallToAction)
	}
	return b.String()
}

func templateCommunity(ev EventData, displayTime, location string) string {
	var b strings.Builder
	b.WriteString(pickEmoji(ev.Description, defaultCommunityEmoji) + " " + ev.Title + "\n\n")
	b.WriteString("📅 " + displayTime + "\n")
	b.WriteString("📍 " + location + "\n")
	if ev.Organizer != "" {
		b.WriteString("👤 主办：" + ev.Organizer + "\n")
	}
	if ev.Description != "" {
		b.WriteString("\n" + ev.Description + "\n")
	}
	if ev.JoinURL != "" {
		b.WriteString("\n" + joinInComments + "\n")
	}
	b.WriteString("\n" + communityTags)
	return b.String()
}

func templateSummary(ev EventData, displayTime, location string) string {
	text := ev.Title + "，" + displayTime + " " + location
	if ev.Organizer != "" {
		text += "，" + ev.Organizer
	}
	return text + "。"
}
