package core

// DispatchOutcome은 도메인 하나에 대한 디스패치 결과 구분입니다.
type DispatchOutcome string

const (
	OutcomeExecuted DispatchOutcome = "executed" // sync 핸들러 실행 완료
	OutcomeEnqueued DispatchOutcome = "enqueued" // async 백엔드로 hand-off 완료
	OutcomeSkipped  DispatchOutcome = "skipped"  // gating 조건으로 실행 생략
	OutcomeFailed   DispatchOutcome = "failed"   // sync 실행 또는 hand-off 실패
)

// DispatchRecord는 (이벤트, 도메인) 단위의 디스패치 결과입니다.
type DispatchRecord struct {
	EventID   string          `json:"event_id"`
	Domain    string          `json:"domain"`
	HandlerID string          `json:"handler_id"`
	Mode      string          `json:"mode"`
	Outcome   DispatchOutcome `json:"outcome"`
	Error     string          `json:"error,omitempty"`
}

// DispatchHook은 디스패치 결과를 관찰하기 위한 계약입니다.
// 각 도메인 처리 직후 호출되며, 디스패치 흐름에 영향을 줄 수 없습니다.
type DispatchHook interface {
	AfterDispatch(record DispatchRecord)
}
