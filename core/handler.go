package core

import "context"

// Handler는 하나의 (도메인, 이벤트) 쌍에 바인딩된 실행 단위입니다.
// 디스패치마다 새로 인스턴스화되고 실행 후 폐기됩니다.
type Handler interface {
	Execute(ctx context.Context) error
}

// ConditionalHandler는 실행 여부를 결정하는 gating 조건을 추가로 노출합니다.
// ShouldHandle이 false를 반환하면 해당 도메인의 실행은 건너뛰며, 에러가 아닙니다.
type ConditionalHandler interface {
	Handler
	ShouldHandle() bool
}

// HandlerFactory는 Event Instance를 받아 Handler를 인스턴스화합니다.
type HandlerFactory func(event Event) Handler

// ReceiveFunc는 custom variant 도메인이 제공하는 수신 함수입니다.
// 선언된 Handler 대신 임의의 로직을 수행합니다.
type ReceiveFunc func(ctx context.Context, eventID string, event Event) error
