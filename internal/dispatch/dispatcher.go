package dispatch

import (
	"context"
	"log"

	"github.com/NARUBROWN/pulse/core"
	"github.com/NARUBROWN/pulse/internal/domain"
	"github.com/NARUBROWN/pulse/internal/subscription"
	"github.com/NARUBROWN/pulse/pkg/eventerr"
)

// Dispatcher는 검증이 끝난 이벤트 하나의 디스패치 전체를 소유합니다.
type Dispatcher struct {
	subscriptions *subscription.Registry
	domains       *domain.Registry
	backend       core.AsyncBackend
	hooks         []core.DispatchHook
}

func NewDispatcher(subscriptions *subscription.Registry, domains *domain.Registry) *Dispatcher {
	if subscriptions == nil {
		panic("dispatch: 구독 레지스트리는 nil일 수 없습니다")
	}
	if domains == nil {
		panic("dispatch: 도메인 레지스트리는 nil일 수 없습니다")
	}

	return &Dispatcher{
		subscriptions: subscriptions,
		domains:       domains,
	}
}

// UseBackend는 async hand-off 대상 백엔드를 지정합니다.
func (d *Dispatcher) UseBackend(backend core.AsyncBackend) {
	d.backend = backend
}

// AddHook은 디스패치 결과 관찰 훅을 추가합니다.
func (d *Dispatcher) AddHook(hooks ...core.DispatchHook) {
	d.hooks = append(d.hooks, hooks...)
}

/*
Dispatch는 이벤트에 구독된 모든 도메인을 선언 순서대로 처리합니다.

  - sync: 인라인 실행. 실패는 HandlerExecutionError로 감싸 호출자에게
    전파되고 남은 sync 디스패치를 중단합니다. 이미 실행된 도메인의
    부수효과는 되돌리지 않습니다.
  - async: 백엔드로 hand-off 한 번만 수행하고 계속 진행합니다.
    핸들러 실행 실패는 백엔드의 채널로만 드러납니다.

gating 조건이 false인 도메인은 실행을 건너뛰며 에러가 아닙니다.
*/
func (d *Dispatcher) Dispatch(ctx context.Context, eventID string, event core.Event) error {
	for _, match := range d.subscriptions.Matches(eventID) {
		inv, err := d.domains.Route(match.Domain, eventID, event)
		if err != nil {
			return err
		}

		if inv.Gate != nil && !inv.Gate() {
			// 건너뛴 도메인도 처리된 것으로 본다.
			d.notify(core.DispatchRecord{
				EventID:   eventID,
				Domain:    match.Domain,
				HandlerID: inv.HandlerID,
				Mode:      string(match.Mode),
				Outcome:   core.OutcomeSkipped,
			})
			continue
		}

		switch match.Mode {
		case subscription.ModeSync:
			if err := inv.Invoke(ctx); err != nil {
				execErr := &eventerr.HandlerExecutionError{
					Domain:  match.Domain,
					EventID: eventID,
					Cause:   err,
				}
				d.notify(core.DispatchRecord{
					EventID:   eventID,
					Domain:    match.Domain,
					HandlerID: inv.HandlerID,
					Mode:      string(match.Mode),
					Outcome:   core.OutcomeFailed,
					Error:     execErr.Error(),
				})
				return execErr
			}
			d.notify(core.DispatchRecord{
				EventID:   eventID,
				Domain:    match.Domain,
				HandlerID: inv.HandlerID,
				Mode:      string(match.Mode),
				Outcome:   core.OutcomeExecuted,
			})

		case subscription.ModeAsync:
			if d.backend == nil {
				return &noBackendError{eventID: eventID, domain: match.Domain}
			}
			// hand-off 자체는 동기 호출이므로 실패가 발행자에게 전파된다.
			if err := d.backend.Enqueue(ctx, inv.HandlerID, event); err != nil {
				d.notify(core.DispatchRecord{
					EventID:   eventID,
					Domain:    match.Domain,
					HandlerID: inv.HandlerID,
					Mode:      string(match.Mode),
					Outcome:   core.OutcomeFailed,
					Error:     err.Error(),
				})
				return err
			}
			d.notify(core.DispatchRecord{
				EventID:   eventID,
				Domain:    match.Domain,
				HandlerID: inv.HandlerID,
				Mode:      string(match.Mode),
				Outcome:   core.OutcomeEnqueued,
			})
		}
	}

	return nil
}

// notify는 훅 실패가 디스패치 흐름에 영향을 주지 않도록 복구하며 호출합니다.
func (d *Dispatcher) notify(record core.DispatchRecord) {
	for _, hook := range d.hooks {
		func() {
			defer func() {
				if r := recover(); r != nil {
					log.Printf("[Dispatch] 훅 실행 중 panic이 발생했습니다: %v", r)
				}
			}()
			hook.AfterDispatch(record)
		}()
	}
}

type noBackendError struct {
	eventID string
	domain  string
}

func (e *noBackendError) Error() string {
	return "dispatch: async 백엔드가 설정되지 않았습니다 (domain=" + e.domain + ", event=" + e.eventID + ")"
}
