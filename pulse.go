package pulse

import (
	"context"

	"github.com/NARUBROWN/pulse/core"
	"github.com/NARUBROWN/pulse/internal/dispatch"
	"github.com/NARUBROWN/pulse/internal/domain"
	"github.com/NARUBROWN/pulse/internal/lint"
	"github.com/NARUBROWN/pulse/internal/resolver"
	"github.com/NARUBROWN/pulse/internal/schema"
	"github.com/NARUBROWN/pulse/internal/subscription"
)

// 스키마 선언 타입은 내부 패키지의 계약을 그대로 노출합니다.
type (
	Field     = schema.Field
	FieldType = schema.FieldType
)

// 필드 선언 헬퍼
var (
	IntField    = schema.IntField
	FloatField  = schema.FloatField
	StringField = schema.StringField
	BoolField   = schema.BoolField
	ListField   = schema.ListField
	Optional    = schema.Optional
	Nullable    = schema.Nullable
)

// Engine은 이벤트 해석/검증/디스패치 엔진의 퍼사드입니다.
//
// 선언(Schema / Domain / Handle / Receive)과 로드(SetConfigSource / Load /
// Lint)는 부트 시점에 끝내야 하며, 이후에는 Emit만 호출해야 합니다.
// 라이브 디스패치와 동시에 레지스트리를 변경하는 것은 정의되지 않은 동작입니다.
type Engine struct {
	catalog       *schema.Catalog
	domains       *domain.Registry
	subscriptions *subscription.Registry
	dispatcher    *dispatch.Dispatcher
	configPath    string
}

func New() *Engine {
	catalog := schema.NewCatalog()
	domains := domain.NewRegistry()
	subscriptions := subscription.NewRegistry()

	return &Engine{
		catalog:       catalog,
		domains:       domains,
		subscriptions: subscriptions,
		dispatcher:    dispatch.NewDispatcher(subscriptions, domains),
	}
}

// Schema는 이벤트 스키마를 선언합니다.
func (e *Engine) Schema(eventID string, fields ...Field) error {
	return e.catalog.Define(eventID, fields...)
}

// Domain은 도메인을 등록합니다. 기본 variant는 convention입니다.
func (e *Engine) Domain(name string) {
	e.domains.Register(name)
}

// Handle은 convention variant 도메인에 핸들러를 등록합니다.
func (e *Engine) Handle(domainName string, eventID string, factory core.HandlerFactory) error {
	return e.domains.Handle(domainName, eventID, factory)
}

// Receive는 도메인을 custom variant로 전환합니다.
func (e *Engine) Receive(domainName string, fn core.ReceiveFunc) error {
	return e.domains.Receive(domainName, fn)
}

// SetConfigSource는 구독 설정 파일 경로를 지정합니다.
func (e *Engine) SetConfigSource(path string) {
	e.configPath = path
}

// Load는 설정 파일을 읽어 구독 테이블을 원자적으로 교체합니다.
func (e *Engine) Load() error {
	cfg, err := subscription.LoadFile(e.configPath)
	if err != nil {
		return err
	}
	return e.subscriptions.Load(cfg.Mapping, cfg.Order)
}

// Lint는 핸들러와 구독 테이블의 일관성을 검사합니다.
// 부트 또는 CI 검증 단계에서 호출하도록 설계되었습니다.
func (e *Engine) Lint() error {
	return lint.Check(e.domains, e.subscriptions)
}

// UseBackend는 async hand-off 백엔드를 지정합니다.
func (e *Engine) UseBackend(backend core.AsyncBackend) {
	e.dispatcher.UseBackend(backend)
}

// AddHook은 디스패치 결과 관찰 훅을 추가합니다.
func (e *Engine) AddHook(hooks ...core.DispatchHook) {
	e.dispatcher.AddHook(hooks...)
}

/*
Emit은 발행 한 번의 전체 흐름을 소유합니다.

 1. 이벤트 이름 해석 (발행자의 도메인으로 짧은 식별자를 정규화)
 2. 스키마 조회
 3. payload 해석/검증 (명시 인자 → 발행자 속성 → 스키마 검증)
 4. 디스패치 (sync 인라인 실행 / async hand-off)

해석과 검증 에러는 디스패치 모드와 무관하게 항상 호출자에게 동기적으로
반환됩니다. 성공 시 검증이 끝난 Event Instance를 반환합니다.
*/
func (e *Engine) Emit(
	ctx context.Context,
	publisher core.Publisher,
	identifier string,
	fields map[string]any,
) (core.Event, error) {
	namespace := ""
	if publisher != nil {
		namespace = publisher.EventNamespace()
	}

	eventID, err := resolver.ResolveName(identifier, namespace)
	if err != nil {
		return core.Event{}, err
	}

	s, err := e.catalog.Lookup(eventID)
	if err != nil {
		return core.Event{}, err
	}

	event, err := resolver.ResolvePayload(eventID, fields, publisher, s)
	if err != nil {
		return core.Event{}, err
	}

	if err := e.dispatcher.Dispatch(ctx, eventID, event); err != nil {
		return core.Event{}, err
	}

	return event, nil
}

// ExecuteHandler는 관례적 핸들러 식별자로 핸들러를 찾아 인라인 실행합니다.
// In-Memory 백엔드의 executor로 연결됩니다.
func (e *Engine) ExecuteHandler(ctx context.Context, handlerID string, event core.Event) error {
	return e.domains.ExecuteByHandlerID(ctx, handlerID, event)
}

// Clear는 구독 테이블을 비웁니다. 테스트 하니스 전용입니다.
func (e *Engine) Clear() {
	e.subscriptions.Clear()
}

// RegisterDomain은 빈 구독 도메인을 추가합니다. 테스트 하니스 전용입니다.
func (e *Engine) RegisterDomain(domainName string) {
	e.subscriptions.Register(domainName)
}
