package monitor

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/NARUBROWN/pulse/core"
	"github.com/NARUBROWN/pulse/pkg/boot"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

const defaultPath = "/dispatches"

// Runtime은 디스패치 결과를 WebSocket으로 중계하는 선택적 모니터입니다.
// core.DispatchHook을 구현하며, 연결된 모든 클라이언트에 JSON으로 방송합니다.
type Runtime struct {
	opts     boot.MonitorOptions
	server   *http.Server
	stopOnce sync.Once
	ctx      context.Context
	cancel   context.CancelFunc
	connMu   sync.Mutex
	conns    map[*websocket.Conn]bool
}

func NewRuntime(opts boot.MonitorOptions) *Runtime {
	if opts.Address == "" {
		panic("monitor: 주소가 빈 값일 수 없습니다")
	}
	if opts.Path == "" {
		opts.Path = defaultPath
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Runtime{
		opts:   opts,
		ctx:    ctx,
		cancel: cancel,
		conns:  make(map[*websocket.Conn]bool),
	}
}

// Start는 모니터 HTTP 서버를 별도 goroutine에서 시작합니다.
func (r *Runtime) Start() {
	mux := http.NewServeMux()
	mux.HandleFunc(r.opts.Path, r.handleConn)

	r.server = &http.Server{
		Addr:    r.opts.Address,
		Handler: mux,
	}

	log.Printf("[Monitor] 디스패치 모니터를 시작합니다 (addr=%s, path=%s)", r.opts.Address, r.opts.Path)

	go func() {
		if err := r.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("[Monitor] 서버가 중단되었습니다: %v", err)
		}
	}()
}

func (r *Runtime) handleConn(w http.ResponseWriter, req *http.Request) {
	select {
	case <-r.ctx.Done():
		http.Error(w, "monitor is shutting down", http.StatusServiceUnavailable)
		return
	default:
	}

	conn, err := upgrader.Upgrade(w, req, nil)
	if err != nil {
		log.Printf("[Monitor] 업그레이드 실패: %v", err)
		return
	}

	if !r.trackConn(conn) {
		_ = conn.Close()
		return
	}

	log.Printf("[Monitor] 연결 수립 (conn=%p)", conn)

	// 클라이언트 쪽 종료를 감지하기 위한 읽기 루프
	go func() {
		defer func() {
			r.untrackConn(conn)
			_ = conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// AfterDispatch는 core.DispatchHook 구현입니다.
// 연결된 모든 클라이언트에 레코드를 방송하고, 쓰기 실패한 연결은 정리합니다.
// websocket 연결은 동시 쓰기를 허용하지 않으므로 방송 전체가 connMu 아래에서
// 직렬화됩니다. (WriteControl은 동시 호출이 허용되므로 Stop과는 충돌하지 않습니다.)
func (r *Runtime) AfterDispatch(record core.DispatchRecord) {
	payload, err := json.Marshal(record)
	if err != nil {
		log.Printf("[Monitor] 레코드 직렬화 실패: %v", err)
		return
	}

	var failed []*websocket.Conn

	r.connMu.Lock()
	for conn := range r.conns {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			log.Printf("[Monitor] 방송 실패 (conn=%p): %v", conn, err)
			failed = append(failed, conn)
		}
	}
	for _, conn := range failed {
		delete(r.conns, conn)
	}
	r.connMu.Unlock()

	for _, conn := range failed {
		_ = conn.Close()
	}
}

// Stop은 모든 연결에 종료 프레임을 보내고 서버를 내립니다.
func (r *Runtime) Stop(ctx context.Context) {
	r.stopOnce.Do(func() {
		r.cancel()

		r.connMu.Lock()
		conns := make([]*websocket.Conn, 0, len(r.conns))
		for conn := range r.conns {
			conns = append(conns, conn)
		}
		r.connMu.Unlock()

		for _, conn := range conns {
			_ = conn.WriteControl(
				websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, "monitor shutting down"),
				time.Now().Add(time.Second),
			)
			_ = conn.Close()
		}

		if r.server != nil {
			_ = r.server.Shutdown(ctx)
		}

		log.Printf("[Monitor] 디스패치 모니터를 중지했습니다.")
	})
}

func (r *Runtime) trackConn(conn *websocket.Conn) bool {
	r.connMu.Lock()
	defer r.connMu.Unlock()

	select {
	case <-r.ctx.Done():
		return false
	default:
		r.conns[conn] = true
		return true
	}
}

func (r *Runtime) untrackConn(conn *websocket.Conn) {
	r.connMu.Lock()
	defer r.connMu.Unlock()
	delete(r.conns, conn)
}
