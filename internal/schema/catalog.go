package schema

import (
	"fmt"
	"sync"

	"github.com/NARUBROWN/pulse/pkg/eventerr"
)

// Schema는 이벤트 하나의 필드 선언 목록입니다.
// 선언 순서가 payload 해석 순서를 결정하며, 정의 이후 변경되지 않습니다.
type Schema struct {
	EventID string
	Fields  []Field
}

// Catalog는 이벤트 식별자별 스키마 테이블입니다.
// 부트 시점에만 Define하고 이후에는 조회 전용으로 사용해야 합니다.
type Catalog struct {
	mu      sync.RWMutex
	schemas map[string]Schema
}

func NewCatalog() *Catalog {
	return &Catalog{
		schemas: make(map[string]Schema),
	}
}

// Define은 이벤트 스키마를 등록합니다. 재정의는 허용되지 않습니다.
func (c *Catalog) Define(eventID string, fields ...Field) error {
	if eventID == "" {
		return fmt.Errorf("schema: 이벤트 식별자가 빈 값일 수 없습니다")
	}

	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		if f.Name == "" {
			return fmt.Errorf("schema: %s의 필드 이름이 빈 값일 수 없습니다", eventID)
		}
		if seen[f.Name] {
			return fmt.Errorf("schema: %s에 필드 %q가 중복 선언되었습니다", eventID, f.Name)
		}
		seen[f.Name] = true
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.schemas[eventID]; exists {
		return fmt.Errorf("schema: %s는 이미 정의된 스키마입니다", eventID)
	}

	cpy := make([]Field, len(fields))
	copy(cpy, fields)
	c.schemas[eventID] = Schema{EventID: eventID, Fields: cpy}
	return nil
}

// Lookup은 스키마를 조회합니다. 없으면 UnknownEventSchemaError를 반환합니다.
func (c *Catalog) Lookup(eventID string) (Schema, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s, ok := c.schemas[eventID]
	if !ok {
		return Schema{}, &eventerr.UnknownEventSchemaError{EventID: eventID}
	}
	return s, nil
}
