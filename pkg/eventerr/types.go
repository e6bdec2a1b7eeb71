package eventerr

import (
	"fmt"
	"strings"
)

// UnknownEventSchemaError는 정의되지 않은 이벤트 스키마 조회 시 반환됩니다.
type UnknownEventSchemaError struct {
	EventID string
}

func (e *UnknownEventSchemaError) Error() string {
	return fmt.Sprintf("정의되지 않은 이벤트 스키마입니다: %s", e.EventID)
}

// AmbiguousEventNameError는 식별자와 발행자 어느 쪽에서도
// 도메인을 결정할 수 없을 때 반환됩니다.
type AmbiguousEventNameError struct {
	Name string
}

func (e *AmbiguousEventNameError) Error() string {
	return fmt.Sprintf("이벤트 이름의 도메인을 결정할 수 없습니다: %s", e.Name)
}

// MissingPayloadAttributeError는 필수 필드가 명시 인자와
// 발행자 속성 양쪽 모두에 없을 때 반환됩니다.
type MissingPayloadAttributeError struct {
	EventID string
	Field   string
	// Accessor는 발행자가 노출해야 했던 속성 이름입니다. 필드 이름과 동일합니다.
	Accessor string
}

func (e *MissingPayloadAttributeError) Error() string {
	return fmt.Sprintf(
		"이벤트 %s의 필수 필드 %q를 채울 수 없습니다 (발행자 속성 %q 없음)",
		e.EventID, e.Field, e.Accessor,
	)
}

// PayloadTypeMismatchError는 필드 값이 스키마 타입과 일치하지 않을 때 반환됩니다.
type PayloadTypeMismatchError struct {
	EventID  string
	Field    string
	Expected string
	Actual   any
}

func (e *PayloadTypeMismatchError) Error() string {
	return fmt.Sprintf(
		"이벤트 %s의 필드 %q 타입이 잘못되었습니다 (기대: %s, 실제 값: %v)",
		e.EventID, e.Field, e.Expected, e.Actual,
	)
}

// UnknownDomainError는 등록되지 않은 도메인으로 라우팅할 때 반환됩니다.
type UnknownDomainError struct {
	Domain string
}

func (e *UnknownDomainError) Error() string {
	return fmt.Sprintf("등록되지 않은 도메인입니다: %s", e.Domain)
}

// ViolationKind는 lint 위반의 종류입니다.
type ViolationKind string

const (
	// OrphanedHandler는 구독 엔트리가 없는 핸들러입니다.
	OrphanedHandler ViolationKind = "orphaned-handler"
	// OrphanedSubscription은 대응하는 핸들러가 없는 구독 엔트리입니다.
	OrphanedSubscription ViolationKind = "orphaned-subscription"
)

// LintViolation은 핸들러와 구독 테이블 사이의 불일치 하나를 나타냅니다.
type LintViolation struct {
	Kind      ViolationKind
	Domain    string
	EventID   string
	HandlerID string
}

func (v LintViolation) String() string {
	switch v.Kind {
	case OrphanedHandler:
		return fmt.Sprintf(
			"핸들러 %s (%s, %s)에 대한 구독 엔트리가 없습니다",
			v.HandlerID, v.Domain, v.EventID,
		)
	case OrphanedSubscription:
		return fmt.Sprintf(
			"구독 엔트리 (%s, %s)에 대응하는 핸들러 %s가 없습니다",
			v.Domain, v.EventID, v.HandlerID,
		)
	}
	return fmt.Sprintf("알 수 없는 lint 위반: (%s, %s)", v.Domain, v.EventID)
}

// SubscriptionLintError는 발견된 모든 lint 위반을 담아 부트 단계를 중단시킵니다.
type SubscriptionLintError struct {
	Violations []LintViolation
}

func (e *SubscriptionLintError) Error() string {
	lines := make([]string, 0, len(e.Violations)+1)
	lines = append(lines, fmt.Sprintf("구독 lint 실패 (%d건):", len(e.Violations)))
	for _, v := range e.Violations {
		lines = append(lines, "  - "+v.String())
	}
	return strings.Join(lines, "\n")
}

// HandlerExecutionError는 sync 핸들러 내부 실패를 도메인/이벤트 컨텍스트와 함께 감쌉니다.
type HandlerExecutionError struct {
	Domain  string
	EventID string
	Cause   error
}

func (e *HandlerExecutionError) Error() string {
	return fmt.Sprintf(
		"핸들러 실행 실패 (domain=%s, event=%s): %v",
		e.Domain, e.EventID, e.Cause,
	)
}

// error 체인 지원
func (e *HandlerExecutionError) Unwrap() error {
	return e.Cause
}
