package core

// Event는 스키마 검증을 통과한 이벤트 인스턴스입니다.
// 생성 이후에는 읽기 전용이며, 필드 맵은 생성 시점에 복사됩니다.
type Event struct {
	id     string
	fields map[string]any
}

// NewEvent는 검증이 끝난 필드 집합으로 Event를 생성합니다.
// 전달된 맵은 복사되므로 호출자가 이후에 수정해도 영향을 주지 않습니다.
func NewEvent(id string, fields map[string]any) Event {
	cpy := make(map[string]any, len(fields))
	for name, value := range fields {
		cpy[name] = value
	}
	return Event{id: id, fields: cpy}
}

// ID는 정규화된 이벤트 식별자(domain::event)를 반환합니다.
func (e Event) ID() string {
	return e.id
}

// Field는 이름으로 필드 값을 조회합니다.
// optional 필드가 양쪽 소스 모두에 없던 경우 두 번째 반환값이 false입니다.
func (e Event) Field(name string) (any, bool) {
	value, ok := e.fields[name]
	return value, ok
}

// Fields는 필드 전체의 복사본을 반환합니다.
func (e Event) Fields() map[string]any {
	cpy := make(map[string]any, len(e.fields))
	for name, value := range e.fields {
		cpy[name] = value
	}
	return cpy
}
