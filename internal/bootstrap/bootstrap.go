package bootstrap

import (
	"context"
	"errors"
	"log"

	"github.com/NARUBROWN/pulse/core"
	"github.com/NARUBROWN/pulse/internal/backend/kafka"
	"github.com/NARUBROWN/pulse/internal/backend/memory"
	"github.com/NARUBROWN/pulse/internal/backend/rabbitmq"
	"github.com/NARUBROWN/pulse/internal/monitor"
	"github.com/NARUBROWN/pulse/pkg/boot"
)

// Engine은 부트스트랩이 필요로 하는 퍼사드 계약입니다.
// 루트 패키지의 Engine이 이를 만족합니다.
type Engine interface {
	SetConfigSource(path string)
	Load() error
	Lint() error
	UseBackend(backend core.AsyncBackend)
	AddHook(hooks ...core.DispatchHook)
	ExecuteHandler(ctx context.Context, handlerID string, event core.Event) error
}

// StopFunc는 부트스트랩이 시작한 자원을 정리합니다.
type StopFunc func(ctx context.Context) error

/*
Run은 선언이 끝난 엔진을 가동 상태로 만듭니다.

 1. 구독 설정 파일 로드
 2. Lint (실패하면 부트를 중단합니다)
 3. 옵션으로 선택된 async 백엔드 초기화
 4. 모니터가 설정되어 있으면 시작

반환된 StopFunc는 백엔드와 모니터를 역순으로 정리합니다.
*/
func Run(engine Engine, opts boot.Options) (StopFunc, error) {
	engine.SetConfigSource(opts.ConfigPath)
	if err := engine.Load(); err != nil {
		return nil, err
	}

	if err := engine.Lint(); err != nil {
		return nil, err
	}

	asyncBackend, err := buildBackend(engine, opts)
	if err != nil {
		return nil, err
	}
	engine.UseBackend(asyncBackend)

	var monitorRuntime *monitor.Runtime
	if opts.Monitor != nil {
		monitorRuntime = monitor.NewRuntime(*opts.Monitor)
		monitorRuntime.Start()
		engine.AddHook(monitorRuntime)
	}

	log.Printf("[Bootstrap] 엔진 부트 완료 (config=%s)", opts.ConfigPath)

	return func(ctx context.Context) error {
		if monitorRuntime != nil {
			monitorRuntime.Stop(ctx)
		}
		return asyncBackend.Close()
	}, nil
}

func buildBackend(engine Engine, opts boot.Options) (core.AsyncBackend, error) {
	selected := 0
	if opts.Kafka != nil {
		selected++
	}
	if opts.RabbitMq != nil {
		selected++
	}
	if opts.Memory != nil {
		selected++
	}
	if selected != 1 {
		return nil, errors.New("bootstrap: 백엔드 옵션은 정확히 하나만 지정해야 합니다")
	}

	switch {
	case opts.Kafka != nil:
		return kafka.NewKafkaWriter(*opts.Kafka)
	case opts.RabbitMq != nil:
		return rabbitmq.NewRabbitMqWriter(*opts.RabbitMq)
	default:
		return memory.NewBackend(*opts.Memory, engine.ExecuteHandler), nil
	}
}
