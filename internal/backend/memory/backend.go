package memory

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/NARUBROWN/pulse/core"
	"github.com/NARUBROWN/pulse/pkg/boot"
)

const (
	defaultWorkers     = 3
	defaultBufferSize  = 100
	defaultMaxAttempts = 3
)

// Executor는 hand-off를 실제로 실행하는 함수입니다.
// 부트스트랩이 도메인 레지스트리의 핸들러 식별자 실행으로 연결합니다.
type Executor func(ctx context.Context, handlerID string, event core.Event) error

type handoff struct {
	handlerID string
	event     core.Event
}

// Backend는 외부 브로커 없이 프로세스 안에서 hand-off를 소비하는
// async 백엔드입니다. 워커 풀이 실행과 재시도를 소유하며,
// 핸들러 실패는 발행자에게 전파되지 않습니다.
type Backend struct {
	executor    Executor
	ch          chan handoff
	wg          sync.WaitGroup
	closeOnce   sync.Once
	closeMu     sync.RWMutex
	closed      bool
	maxAttempts int
}

func NewBackend(opts boot.MemoryOptions, executor Executor) *Backend {
	if executor == nil {
		panic("memory: executor는 nil일 수 없습니다")
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}
	bufferSize := opts.BufferSize
	if bufferSize <= 0 {
		bufferSize = defaultBufferSize
	}
	maxAttempts := opts.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}

	b := &Backend{
		executor:    executor,
		ch:          make(chan handoff, bufferSize),
		maxAttempts: maxAttempts,
	}

	for i := 0; i < workers; i++ {
		b.wg.Add(1)
		go func() {
			defer b.wg.Done()
			for h := range b.ch {
				b.consume(h)
			}
		}()
	}

	return b
}

// Enqueue는 hand-off를 버퍼에 넣고 즉시 반환합니다.
// 버퍼가 가득 찼거나 백엔드가 닫힌 뒤라면 hand-off 실패로 취급해 에러를 반환합니다.
func (b *Backend) Enqueue(ctx context.Context, handlerID string, event core.Event) error {
	b.closeMu.RLock()
	defer b.closeMu.RUnlock()

	if b.closed {
		return fmt.Errorf("memory: 닫힌 백엔드에는 hand-off를 넣을 수 없습니다 (handler=%s)", handlerID)
	}

	select {
	case b.ch <- handoff{handlerID: handlerID, event: event}:
		return nil
	default:
		return fmt.Errorf("memory: hand-off 버퍼가 가득 찼습니다 (handler=%s)", handlerID)
	}
}

// consume은 hand-off 하나를 최대 maxAttempts회까지 실행합니다.
// panic은 실패 시도로 취급해 다른 hand-off에 영향을 주지 않습니다.
func (b *Backend) consume(h handoff) {
	for attempt := 1; attempt <= b.maxAttempts; attempt++ {
		err := b.attempt(h)
		if err == nil {
			return
		}
		log.Printf(
			"[Memory Backend] 핸들러 실행 실패 (handler=%s, attempt=%d/%d): %v",
			h.handlerID, attempt, b.maxAttempts, err,
		)
	}
	log.Printf("[Memory Backend] 재시도를 모두 소진해 hand-off를 버립니다 (handler=%s)", h.handlerID)
}

func (b *Backend) attempt(h handoff) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("핸들러 panic: %v", r)
		}
	}()
	return b.executor(context.Background(), h.handlerID, h.event)
}

// Close는 새 hand-off를 막고 버퍼에 남은 것을 모두 처리한 뒤 반환합니다.
func (b *Backend) Close() error {
	b.closeOnce.Do(func() {
		b.closeMu.Lock()
		b.closed = true
		close(b.ch)
		b.closeMu.Unlock()
		b.wg.Wait()
	})
	return nil
}
