package core

import "context"

// AsyncBackend는 async 디스패치 모드의 hand-off를 받는 외부 실행 백엔드 계약입니다.
// 실제 실행, 재시도, at-least-once 보장은 전적으로 백엔드의 책임이며
// 엔진은 hand-off 한 번만 수행합니다.
//
// custom variant 도메인의 async 구독은 수신 함수를 직렬화할 수 없으므로,
// 백엔드는 전달된 handlerID로 자체 라우팅해야 합니다.
type AsyncBackend interface {
	// Enqueue는 (핸들러 식별자, Event Instance)를 백엔드에 넘깁니다.
	// 핸들러 실행 완료를 기다리지 않습니다. 반환되는 에러는 hand-off
	// 자체의 실패이며, 핸들러 실행 실패는 여기로 전달되지 않습니다.
	Enqueue(ctx context.Context, handlerID string, event Event) error

	Close() error
}
