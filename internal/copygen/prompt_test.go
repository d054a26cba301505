package copygen

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func testSettings() Settings {
	return Settings{Organization: "华东师范大学", Location: time.UTC}
}

func TestBuildPromptAllFields(t *testing.T) {
	ev := EventData{
		Title:        "AI 读书会",
		Time:         "2024-03-15T09:05:00",
		Location:     "文史楼203",
		Organizer:    "计算机协会",
		Description:  "一起读论文",
		JoinURL:      "https://example.com/join",
		IsAffiliated: true,
	}
	got := BuildPrompt(ev, testSettings())

	assert.Contains(t, got, "活动名称：AI 读书会\n")
	assert.Contains(t, got, "时间：3月15日 周五 09:05\n")
	assert.Contains(t, got, "地点：华东师范大学 文史楼203\n")
	assert.Contains(t, got, "主办方：计算机协会\n")
	assert.Contains(t, got, "活动简介：一起读论文\n")
	assert.Contains(t, got, "报名链接：https://example.com/join\n")
	assert.True(t, strings.HasSuffix(got, promptInstruction))
}

func TestBuildPromptOmitsAbsentOptionalFields(t *testing.T) {
	ev := EventData{Title: "夜跑", Time: "2024-03-15T20:00", Location: "操场", Organizer: "跑团"}
	got := BuildPrompt(ev, testSettings())

	assert.NotContains(t, got, "活动简介")
	assert.NotContains(t, got, "报名链接")
	assert.NotContains(t, got, "\n\n\n")
	assert.Contains(t, got, "地点：操场\n")
}

func TestResolveLocation(t *testing.T) {
	s := testSettings()
	ev := EventData{Location: "文史楼203", IsAffiliated: true}
	got := ResolveLocation(ev, s)
	assert.True(t, strings.HasPrefix(got, "华东师范大学"))
	assert.True(t, strings.HasSuffix(got, "文史楼203"))

	ev.IsAffiliated = false
	assert.Equal(t, "文史楼203", ResolveLocation(ev, s))

	ev.IsAffiliated = true
	assert.Equal(t, DefaultOrganization+" 文史楼203", ResolveLocation(ev, Settings{}))
}
