package copygen

import "strings"

// SystemPrompt instructs the model to answer with the three copy fields as compact JSON.
const SystemPrompt = `你是一个校园活动宣发专家，负责为社团活动生成多平台推广文案。
请根据活动信息，生成以下三种文案（直接返回JSON，不要有任何其他内容）：
1. moments: 朋友圈文案 - 简洁有力，1-2个emoji，50字以内
2. xiaohongshu: 小红书文案 - 活泼有趣，分段清晰，带话题标签，150字以内
3. summary: 一句话总结 - 提炼核心信息，60字以内

返回格式：
{
  "moments": "文案内容",
  "xiaohongshu": "文案内容",
  "summary": "文案内容"
}`

const promptInstruction = "请为这个活动生成朋友圈、小红书、一句话三种文案。"

// BuildPrompt renders the user turn sent to the model. Optional fields that are empty are left out.
func BuildPrompt(ev EventData, s Settings) string {
	var b strings.Builder
	b.WriteString("活动名称：" + ev.Title + "\n")
	b.WriteString("时间：" + FormatDisplay(ev.Time, s.zone()) + "\n")
	b.WriteString("地点：" + ResolveLocation(ev, s) + "\n")
	b.WriteString("主办方：" + ev.Organizer + "\n")
	if ev.Description != "" {
		b.WriteString("活动简介：" + ev.Description + "\n")
	}
	if ev.JoinURL != "" {
		b.WriteString("报名链接：" + ev.JoinURL + "\n")
	}
	b.WriteString("\n")
	b.WriteString(promptInstruction)
	return b.String()
}
