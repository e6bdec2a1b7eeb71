package resolver

import (
	"strings"

	"github.com/NARUBROWN/pulse/pkg/eventerr"
)

// Separator는 정규화된 이벤트 식별자의 도메인 구분 토큰입니다.
const Separator = "::"

// ResolveName은 짧은 식별자 또는 정규화된 식별자를
// 정규화된 `domain::event` 형태로 해석합니다.
//
// 구분 토큰을 포함한 식별자는 그대로 통과합니다. 첫 번째 토큰에서만
// 분리하므로 이벤트 이름 안의 추가 토큰은 이름의 일부로 남습니다.
// 짧은 식별자는 발행자에게서 추론한 namespace가 필요하며,
// namespace는 소문자로 정규화됩니다.
func ResolveName(raw string, namespace string) (string, error) {
	if strings.Contains(raw, Separator) {
		return raw, nil
	}

	if raw == "" || namespace == "" {
		return "", &eventerr.AmbiguousEventNameError{Name: raw}
	}

	return strings.ToLower(namespace) + Separator + raw, nil
}

// SplitName은 정규화된 식별자를 (domain, event)로 분리합니다.
// 구분 토큰이 없으면 도메인이 빈 값입니다.
func SplitName(id string) (domain string, event string) {
	idx := strings.Index(id, Separator)
	if idx < 0 {
		return "", id
	}
	return id[:idx], id[idx+len(Separator):]
}
