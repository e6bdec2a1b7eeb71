package schema

import (
	"fmt"
	"reflect"
)

// Kind는 스키마 필드가 가질 수 있는 타입의 닫힌 집합입니다.
type Kind int

const (
	Int Kind = iota
	Float
	String
	Bool
	List
)

func (k Kind) name() string {
	switch k {
	case Int:
		return "integer"
	case Float:
		return "float"
	case String:
		return "string"
	case Bool:
		return "boolean"
	case List:
		return "list"
	}
	panic("도달할 수 없는 조건")
}

// FieldType은 Kind에 nullable 래퍼를 더한 필드 타입입니다.
type FieldType struct {
	Kind     Kind
	Nullable bool
}

// Name은 에러 메시지에 쓰이는 타입 이름입니다.
func (t FieldType) Name() string {
	if t.Nullable {
		return fmt.Sprintf("nullable[%s]", t.Kind.name())
	}
	return t.Kind.name()
}

// Accepts는 값이 타입 제약을 만족하는지 검사합니다.
// 묵시적 변환은 수행하지 않습니다.
func (t FieldType) Accepts(value any) bool {
	if value == nil {
		return t.Nullable
	}

	switch t.Kind {
	case Int:
		switch value.(type) {
		case int, int8, int16, int32, int64:
			return true
		}
		return false
	case Float:
		switch value.(type) {
		case float32, float64:
			return true
		}
		return false
	case String:
		_, ok := value.(string)
		return ok
	case Bool:
		_, ok := value.(bool)
		return ok
	case List:
		return reflect.TypeOf(value).Kind() == reflect.Slice
	}
	return false
}

// Field는 스키마 안의 필드 선언 하나입니다.
type Field struct {
	Name     string
	Type     FieldType
	Required bool
}

// 선언을 짧게 쓰기 위한 헬퍼들입니다.

func IntField(name string) Field {
	return Field{Name: name, Type: FieldType{Kind: Int}, Required: true}
}

func FloatField(name string) Field {
	return Field{Name: name, Type: FieldType{Kind: Float}, Required: true}
}

func StringField(name string) Field {
	return Field{Name: name, Type: FieldType{Kind: String}, Required: true}
}

func BoolField(name string) Field {
	return Field{Name: name, Type: FieldType{Kind: Bool}, Required: true}
}

func ListField(name string) Field {
	return Field{Name: name, Type: FieldType{Kind: List}, Required: true}
}

// Optional은 필드를 선택 필드로 바꿉니다.
func Optional(f Field) Field {
	f.Required = false
	return f
}

// Nullable은 필드 타입에 nil 값을 추가로 허용합니다.
func Nullable(f Field) Field {
	f.Type.Nullable = true
	return f
}
