package domain

import (
	"strings"

	"github.com/NARUBROWN/pulse/internal/resolver"
)

// HandlerID는 (구독 도메인, 정규화된 이벤트 식별자)에서
// 관례적인 핸들러 식별자를 만듭니다.
//
//	("messaging", "ordering::order_created") → "messaging.OrderingOrderCreatedHandler"
func HandlerID(domainName string, eventID string) string {
	eventDomain, eventName := resolver.SplitName(eventID)

	var b strings.Builder
	b.WriteString(domainName)
	b.WriteByte('.')
	b.WriteString(pascalCase(eventDomain))
	b.WriteString(pascalCase(eventName))
	b.WriteString("Handler")
	return b.String()
}

// pascalCase는 snake_case 토큰을 PascalCase로 변환합니다.
// 이벤트 이름 안에 남은 구분 토큰도 단어 경계로 취급합니다.
func pascalCase(name string) string {
	var b strings.Builder
	word := true
	for _, r := range name {
		switch {
		case r == '_' || r == ':':
			word = true
		case word:
			b.WriteString(strings.ToUpper(string(r)))
			word = false
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
