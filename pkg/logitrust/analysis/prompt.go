package analysis

import "fmt"

const promptTemplate = "너는 물류 전문가야. 운송 기사를 위해 '%s'의 진입로 주의사항, 상하차 위치, 대기시간 리스크를 상세히 알려줘."

// BuildPrompt embeds place into the logistics-expert instruction.
func BuildPrompt(place string) string {
	return fmt.Sprintf(promptTemplate, place)
}
