package domain

import (
	"context"
	"fmt"
	"sync"

	"github.com/NARUBROWN/pulse/core"
	"github.com/NARUBROWN/pulse/pkg/eventerr"
)

/*
도메인의 수신 방식은 닫힌 variant 집합입니다.

  - convention: 이벤트 식별자별로 등록된 HandlerFactory를 관례적
    핸들러 식별자로 찾아 인스턴스화합니다.
  - custom: 도메인이 제공한 수신 함수가 (eventID, payload)를 직접 처리합니다.
    lint의 관례 검사에서 제외됩니다.

한 도메인은 정확히 하나의 variant만 가질 수 있습니다.
*/
type routing interface {
	isRouting()
}

type conventionRouting struct {
	// 이벤트 식별자 → 팩토리
	handlers map[string]core.HandlerFactory
}

type customRouting struct {
	fn core.ReceiveFunc
}

func (conventionRouting) isRouting() {}
func (customRouting) isRouting()     {}

// Domain은 등록된 도메인 하나의 라우팅 상태입니다.
type Domain struct {
	name    string
	routing routing
}

// Name은 도메인 이름을 반환합니다.
func (d *Domain) Name() string {
	return d.name
}

// Custom은 custom variant 여부를 반환합니다.
func (d *Domain) Custom() bool {
	_, ok := d.routing.(customRouting)
	return ok
}

// HandledEvents는 convention variant가 핸들러를 등록한
// 이벤트 식별자 목록을 반환합니다. custom variant는 빈 목록입니다.
func (d *Domain) HandledEvents() []string {
	conv, ok := d.routing.(conventionRouting)
	if !ok {
		return nil
	}
	events := make([]string, 0, len(conv.handlers))
	for eventID := range conv.handlers {
		events = append(events, eventID)
	}
	return events
}

// Invocation은 디스패처가 실행할 준비가 끝난 호출 하나입니다.
type Invocation struct {
	Domain    string
	EventID   string
	HandlerID string

	// Gate는 nil이 아니면 실행 전에 평가됩니다. false면 실행을 건너뜁니다.
	Gate func() bool

	// Invoke는 sync 모드에서 인라인으로 실행됩니다.
	Invoke func(ctx context.Context) error
}

// Registry는 프로세스의 도메인 집합입니다. 등록 순서를 보존합니다.
type Registry struct {
	mu      sync.RWMutex
	order   []string
	domains map[string]*Domain
}

func NewRegistry() *Registry {
	return &Registry{
		domains: make(map[string]*Domain),
	}
}

// Register는 도메인을 등록합니다. 이미 있으면 기존 도메인을 반환합니다.
func (r *Registry) Register(name string) *Domain {
	if name == "" {
		panic("domain: 도메인 이름이 빈 값일 수 없습니다")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if d, ok := r.domains[name]; ok {
		return d
	}
	d := &Domain{
		name:    name,
		routing: conventionRouting{handlers: make(map[string]core.HandlerFactory)},
	}
	r.order = append(r.order, name)
	r.domains[name] = d
	return d
}

// Handle은 convention variant 도메인에 (이벤트, 팩토리) 핸들러를 등록합니다.
func (r *Registry) Handle(domainName string, eventID string, factory core.HandlerFactory) error {
	if factory == nil {
		panic("domain: 핸들러 팩토리는 nil일 수 없습니다")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.domains[domainName]
	if !ok {
		return &eventerr.UnknownDomainError{Domain: domainName}
	}

	conv, ok := d.routing.(conventionRouting)
	if !ok {
		return fmt.Errorf(
			"domain: custom variant 도메인 %s에는 핸들러를 등록할 수 없습니다",
			domainName,
		)
	}
	if _, dup := conv.handlers[eventID]; dup {
		return fmt.Errorf(
			"domain: (%s, %s) 핸들러가 이미 등록되어 있습니다",
			domainName, eventID,
		)
	}

	conv.handlers[eventID] = factory
	return nil
}

// Receive는 도메인을 custom variant로 전환합니다.
// 이미 convention 핸들러가 등록된 도메인은 전환할 수 없습니다.
func (r *Registry) Receive(domainName string, fn core.ReceiveFunc) error {
	if fn == nil {
		panic("domain: 수신 함수는 nil일 수 없습니다")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.domains[domainName]
	if !ok {
		return &eventerr.UnknownDomainError{Domain: domainName}
	}

	if conv, ok := d.routing.(conventionRouting); ok && len(conv.handlers) > 0 {
		return fmt.Errorf(
			"domain: 핸들러가 등록된 도메인 %s는 custom variant로 전환할 수 없습니다",
			domainName,
		)
	}
	if d.Custom() {
		return fmt.Errorf("domain: %s는 이미 custom variant입니다", domainName)
	}

	d.routing = customRouting{fn: fn}
	return nil
}

// Domains는 등록 순서대로 도메인 스냅샷을 반환합니다.
func (r *Registry) Domains() []*Domain {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cpy := make([]*Domain, 0, len(r.order))
	for _, name := range r.order {
		cpy = append(cpy, r.domains[name])
	}
	return cpy
}

// Route는 (도메인, 이벤트, Event Instance)를 실행 가능한 Invocation으로 해석합니다.
func (r *Registry) Route(domainName string, eventID string, event core.Event) (Invocation, error) {
	r.mu.RLock()
	d, ok := r.domains[domainName]
	r.mu.RUnlock()

	if !ok {
		return Invocation{}, &eventerr.UnknownDomainError{Domain: domainName}
	}

	handlerID := HandlerID(domainName, eventID)

	switch routed := d.routing.(type) {
	case customRouting:
		return Invocation{
			Domain:    domainName,
			EventID:   eventID,
			HandlerID: handlerID,
			Invoke: func(ctx context.Context) error {
				return routed.fn(ctx, eventID, event)
			},
		}, nil

	case conventionRouting:
		factory, ok := routed.handlers[eventID]
		if !ok {
			return Invocation{}, fmt.Errorf(
				"domain: 도메인 %s에 %s 핸들러(%s)가 등록되어 있지 않습니다",
				domainName, eventID, handlerID,
			)
		}

		// 디스패치마다 새 인스턴스를 만들고 실행 후 폐기한다.
		handler := factory(event)

		inv := Invocation{
			Domain:    domainName,
			EventID:   eventID,
			HandlerID: handlerID,
			Invoke:    handler.Execute,
		}
		if gated, ok := handler.(core.ConditionalHandler); ok {
			inv.Gate = gated.ShouldHandle
		}
		return inv, nil
	}

	panic("도달할 수 없는 조건")
}

// ExecuteByHandlerID는 관례적 핸들러 식별자로 핸들러를 찾아 실행합니다.
// In-Memory 백엔드가 hand-off를 소비할 때 사용합니다.
func (r *Registry) ExecuteByHandlerID(ctx context.Context, handlerID string, event core.Event) error {
	r.mu.RLock()
	var target *Domain
	for _, name := range r.order {
		if HandlerID(name, event.ID()) == handlerID {
			target = r.domains[name]
			break
		}
	}
	r.mu.RUnlock()

	if target == nil {
		return fmt.Errorf("domain: 핸들러 식별자 %s를 해석할 수 없습니다", handlerID)
	}

	inv, err := r.Route(target.Name(), event.ID(), event)
	if err != nil {
		return err
	}
	return inv.Invoke(ctx)
}
