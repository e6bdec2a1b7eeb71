package core

// Publisher는 이벤트 발행 주체가 구현하는 계약입니다.
// 리플렉션 대신 명시적인 이름 기반 조회로 payload 자동 채움을 지원합니다.
type Publisher interface {
	// EventNamespace는 발행자가 속한 도메인 이름을 반환합니다.
	// 빈 문자열이면 도메인을 추론할 수 없는 발행자입니다.
	EventNamespace() string

	// EventAttribute는 이름으로 읽기 가능한 속성을 조회합니다.
	// 해당 이름의 속성이 없으면 두 번째 반환값이 false입니다.
	EventAttribute(name string) (any, bool)
}
