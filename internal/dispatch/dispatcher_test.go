package dispatch

import (
	"context"
	"errors"
	"testing"

	"github.com/NARUBROWN/pulse/core"
	"github.com/NARUBROWN/pulse/internal/domain"
	"github.com/NARUBROWN/pulse/internal/subscription"
	"github.com/NARUBROWN/pulse/pkg/eventerr"
)

type fakeBackend struct {
	enqueued []string // handlerID 목록
	err      error
}

func (b *fakeBackend) Enqueue(ctx context.Context, handlerID string, event core.Event) error {
	if b.err != nil {
		return b.err
	}
	b.enqueued = append(b.enqueued, handlerID)
	return nil
}

func (b *fakeBackend) Close() error { return nil }

type recordingHook struct {
	records []core.DispatchRecord
}

func (h *recordingHook) AfterDispatch(record core.DispatchRecord) {
	h.records = append(h.records, record)
}

type stubHandler struct {
	run  func() error
	gate func() bool
}

func (h *stubHandler) Execute(ctx context.Context) error { return h.run() }

type gatedStubHandler struct {
	stubHandler
}

func (h *gatedStubHandler) ShouldHandle() bool { return h.gate() }

func fixture(t *testing.T, mapping map[string]map[string]string, order []string) (*Dispatcher, *domain.Registry) {
	t.Helper()

	subs := subscription.NewRegistry()
	if err := subs.Load(mapping, order); err != nil {
		t.Fatalf("테이블 로드에 실패했습니다: %v", err)
	}

	domains := domain.NewRegistry()
	return NewDispatcher(subs, domains), domains
}

func TestDispatcher_SyncHandlersRunInlineInDeclarationOrder(t *testing.T) {
	d, domains := fixture(t,
		map[string]map[string]string{
			"messaging": {"ordering::order_created": "sync"},
			"analytics": {"*": "sync"},
		},
		[]string{"messaging", "analytics"},
	)

	var order []string
	for _, name := range []string{"messaging", "analytics"} {
		name := name
		domains.Register(name)
		err := domains.Handle(name, "ordering::order_created", func(evt core.Event) core.Handler {
			return &stubHandler{run: func() error {
				order = append(order, name)
				return nil
			}}
		})
		if err != nil {
			t.Fatalf("핸들러 등록에 실패했습니다: %v", err)
		}
	}

	evt := core.NewEvent("ordering::order_created", nil)
	if err := d.Dispatch(context.Background(), "ordering::order_created", evt); err != nil {
		t.Fatalf("디스패치에 실패했습니다: %v", err)
	}

	if len(order) != 2 || order[0] != "messaging" || order[1] != "analytics" {
		t.Fatalf("sync 실행 순서가 잘못되었습니다: %v", order)
	}
}

func TestDispatcher_SyncFailureHaltsRemainingDispatch(t *testing.T) {
	d, domains := fixture(t,
		map[string]map[string]string{
			"messaging": {"ordering::order_created": "sync"},
			"analytics": {"ordering::order_created": "sync"},
		},
		[]string{"messaging", "analytics"},
	)

	boom := errors.New("boom")
	ranAnalytics := false

	domains.Register("messaging")
	_ = domains.Handle("messaging", "ordering::order_created", func(evt core.Event) core.Handler {
		return &stubHandler{run: func() error { return boom }}
	})
	domains.Register("analytics")
	_ = domains.Handle("analytics", "ordering::order_created", func(evt core.Event) core.Handler {
		return &stubHandler{run: func() error {
			ranAnalytics = true
			return nil
		}}
	})

	err := d.Dispatch(context.Background(), "ordering::order_created", core.NewEvent("ordering::order_created", nil))
	if err == nil {
		t.Fatal("sync 실패는 호출자에게 전파되어야 합니다")
	}

	var execErr *eventerr.HandlerExecutionError
	if !errors.As(err, &execErr) {
		t.Fatalf("HandlerExecutionError가 예상됐지만 실제: %v", err)
	}
	if execErr.Domain != "messaging" || execErr.EventID != "ordering::order_created" {
		t.Fatalf("에러 컨텍스트가 잘못되었습니다: %+v", execErr)
	}
	if !errors.Is(err, boom) {
		t.Fatal("원인 에러가 체인에 남아야 합니다")
	}
	if ranAnalytics {
		t.Fatal("실패 이후의 sync 디스패치는 중단되어야 합니다")
	}
}

func TestDispatcher_SyncFailureAlsoHaltsLaterAsyncEntries(t *testing.T) {
	d, domains := fixture(t,
		map[string]map[string]string{
			"messaging": {"ordering::order_created": "sync"},
			"analytics": {"ordering::order_created": "async"},
		},
		[]string{"messaging", "analytics"},
	)

	domains.Register("messaging")
	_ = domains.Handle("messaging", "ordering::order_created", func(evt core.Event) core.Handler {
		return &stubHandler{run: func() error { return errors.New("boom") }}
	})
	domains.Register("analytics")
	_ = domains.Handle("analytics", "ordering::order_created", func(evt core.Event) core.Handler {
		return &stubHandler{run: func() error { return nil }}
	})

	backend := &fakeBackend{}
	d.UseBackend(backend)

	err := d.Dispatch(context.Background(), "ordering::order_created", core.NewEvent("ordering::order_created", nil))
	if err == nil {
		t.Fatal("sync 실패는 호출자에게 전파되어야 합니다")
	}

	// 실패는 선언 순서상 이후의 디스패치 전체를 중단한다. hand-off도 일어나지 않는다.
	if len(backend.enqueued) != 0 {
		t.Fatalf("실패 이후의 async hand-off는 없어야 합니다: %v", backend.enqueued)
	}
}

func TestDispatcher_AsyncModeNeverExecutesInline(t *testing.T) {
	d, domains := fixture(t,
		map[string]map[string]string{
			"messaging": {"ordering::order_created": "async"},
		},
		[]string{"messaging"},
	)

	executed := false
	domains.Register("messaging")
	_ = domains.Handle("messaging", "ordering::order_created", func(evt core.Event) core.Handler {
		return &stubHandler{run: func() error {
			executed = true
			return nil
		}}
	})

	backend := &fakeBackend{}
	d.UseBackend(backend)

	evt := core.NewEvent("ordering::order_created", nil)
	if err := d.Dispatch(context.Background(), "ordering::order_created", evt); err != nil {
		t.Fatalf("디스패치에 실패했습니다: %v", err)
	}

	if executed {
		t.Fatal("async 모드는 인라인 실행을 하면 안 됩니다")
	}
	if len(backend.enqueued) != 1 {
		t.Fatalf("hand-off는 정확히 한 번이어야 합니다: %v", backend.enqueued)
	}
	if backend.enqueued[0] != "messaging.OrderingOrderCreatedHandler" {
		t.Fatalf("hand-off 핸들러 식별자가 잘못되었습니다: %s", backend.enqueued[0])
	}
}

func TestDispatcher_AsyncHandOffFailurePropagates(t *testing.T) {
	d, domains := fixture(t,
		map[string]map[string]string{
			"messaging": {"ordering::order_created": "async"},
		},
		[]string{"messaging"},
	)

	domains.Register("messaging")
	_ = domains.Handle("messaging", "ordering::order_created", func(evt core.Event) core.Handler {
		return &stubHandler{run: func() error { return nil }}
	})

	handOffErr := errors.New("broker unavailable")
	d.UseBackend(&fakeBackend{err: handOffErr})

	err := d.Dispatch(context.Background(), "ordering::order_created", core.NewEvent("ordering::order_created", nil))
	if !errors.Is(err, handOffErr) {
		t.Fatalf("hand-off 실패가 전파되어야 합니다: %v", err)
	}
}

func TestDispatcher_GatedHandlerIsSkippedNotFailed(t *testing.T) {
	d, domains := fixture(t,
		map[string]map[string]string{
			"messaging": {"ordering::order_created": "async"},
			"analytics": {"ordering::order_created": "sync"},
		},
		[]string{"messaging", "analytics"},
	)

	executed := false
	domains.Register("messaging")
	_ = domains.Handle("messaging", "ordering::order_created", func(evt core.Event) core.Handler {
		h := &gatedStubHandler{}
		h.run = func() error { return nil }
		h.gate = func() bool { return false }
		return h
	})
	domains.Register("analytics")
	_ = domains.Handle("analytics", "ordering::order_created", func(evt core.Event) core.Handler {
		return &stubHandler{run: func() error {
			executed = true
			return nil
		}}
	})

	backend := &fakeBackend{}
	d.UseBackend(backend)

	hook := &recordingHook{}
	d.AddHook(hook)

	err := d.Dispatch(context.Background(), "ordering::order_created", core.NewEvent("ordering::order_created", nil))
	if err != nil {
		t.Fatalf("gating 생략은 에러가 아닙니다: %v", err)
	}

	// gating이 false면 async hand-off도 발생하지 않는다.
	if len(backend.enqueued) != 0 {
		t.Fatalf("건너뛴 도메인은 hand-off가 없어야 합니다: %v", backend.enqueued)
	}
	if !executed {
		t.Fatal("다른 도메인의 디스패치는 계속되어야 합니다")
	}

	if len(hook.records) != 2 {
		t.Fatalf("훅 호출 수가 잘못되었습니다: %d", len(hook.records))
	}
	if hook.records[0].Outcome != core.OutcomeSkipped {
		t.Fatalf("첫 번째 결과는 skipped여야 합니다: %s", hook.records[0].Outcome)
	}
	if hook.records[1].Outcome != core.OutcomeExecuted {
		t.Fatalf("두 번째 결과는 executed여야 합니다: %s", hook.records[1].Outcome)
	}
}

func TestDispatcher_NoMatchingDomainIsNoop(t *testing.T) {
	d, _ := fixture(t,
		map[string]map[string]string{
			"messaging": {"ordering::order_created": "sync"},
		},
		[]string{"messaging"},
	)

	err := d.Dispatch(context.Background(), "billing::invoice_paid", core.NewEvent("billing::invoice_paid", nil))
	if err != nil {
		t.Fatalf("구독자가 없는 이벤트는 아무 일도 일어나지 않아야 합니다: %v", err)
	}
}

func TestDispatcher_AsyncWithoutBackendFails(t *testing.T) {
	d, domains := fixture(t,
		map[string]map[string]string{
			"messaging": {"ordering::order_created": "async"},
		},
		[]string{"messaging"},
	)

	domains.Register("messaging")
	_ = domains.Handle("messaging", "ordering::order_created", func(evt core.Event) core.Handler {
		return &stubHandler{run: func() error { return nil }}
	})

	err := d.Dispatch(context.Background(), "ordering::order_created", core.NewEvent("ordering::order_created", nil))
	if err == nil {
		t.Fatal("백엔드 없는 async 디스패치는 실패해야 합니다")
	}
}

func TestDispatcher_HookPanicDoesNotAffectDispatch(t *testing.T) {
	d, domains := fixture(t,
		map[string]map[string]string{
			"messaging": {"ordering::order_created": "sync"},
		},
		[]string{"messaging"},
	)

	domains.Register("messaging")
	_ = domains.Handle("messaging", "ordering::order_created", func(evt core.Event) core.Handler {
		return &stubHandler{run: func() error { return nil }}
	})

	d.AddHook(panicHook{})

	err := d.Dispatch(context.Background(), "ordering::order_created", core.NewEvent("ordering::order_created", nil))
	if err != nil {
		t.Fatalf("훅 panic이 디스패치에 영향을 주면 안 됩니다: %v", err)
	}
}

type panicHook struct{}

func (panicHook) AfterDispatch(record core.DispatchRecord) {
	panic("hook boom")
}
