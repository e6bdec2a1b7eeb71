package resolver

import (
	"github.com/NARUBROWN/pulse/core"
	"github.com/NARUBROWN/pulse/internal/schema"
	"github.com/NARUBROWN/pulse/pkg/eventerr"
)

// ResolvePayload는 스키마 선언 순서대로 필드를 채우고 검증해
// 읽기 전용 Event Instance를 만듭니다.
//
// 필드별 우선순위
//  1. 명시 인자
//  2. 발행자의 동일 이름 속성
//  3. required 필드면 MissingPayloadAttributeError
//
// 해석은 선언 순서상 첫 실패에서 멈춥니다. 에러를 모아서 반환하지 않습니다.
func ResolvePayload(
	eventID string,
	explicit map[string]any,
	publisher core.Publisher,
	s schema.Schema,
) (core.Event, error) {
	resolved := make(map[string]any, len(s.Fields))

	for _, field := range s.Fields {
		value, ok := explicit[field.Name]

		if !ok && publisher != nil {
			value, ok = publisher.EventAttribute(field.Name)
		}

		if !ok {
			if field.Required {
				return core.Event{}, &eventerr.MissingPayloadAttributeError{
					EventID:  eventID,
					Field:    field.Name,
					Accessor: field.Name,
				}
			}
			// optional 필드는 양쪽 소스 모두에 없으면 생략합니다.
			continue
		}

		if !field.Type.Accepts(value) {
			return core.Event{}, &eventerr.PayloadTypeMismatchError{
				EventID:  eventID,
				Field:    field.Name,
				Expected: field.Type.Name(),
				Actual:   value,
			}
		}

		resolved[field.Name] = value
	}

	return core.NewEvent(eventID, resolved), nil
}
