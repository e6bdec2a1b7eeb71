package monitor

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/NARUBROWN/pulse/core"
	"github.com/NARUBROWN/pulse/pkg/boot"
	"github.com/gorilla/websocket"
)

func newTestRuntime(t *testing.T) (*Runtime, *httptest.Server) {
	t.Helper()

	rt := NewRuntime(boot.MonitorOptions{Address: "127.0.0.1:0"})
	server := httptest.NewServer(http.HandlerFunc(rt.handleConn))

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		rt.Stop(ctx)
		server.Close()
	})

	return rt, server
}

func dial(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("WebSocket 연결에 실패했습니다: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestRuntime_BroadcastsDispatchRecords(t *testing.T) {
	rt, server := newTestRuntime(t)
	conn := dial(t, server)

	record := core.DispatchRecord{
		EventID:   "ordering::order_created",
		Domain:    "messaging",
		HandlerID: "messaging.OrderingOrderCreatedHandler",
		Mode:      "async",
		Outcome:   core.OutcomeEnqueued,
	}

	// 연결 등록이 끝나기를 기다렸다가 방송한다.
	deadline := time.Now().Add(2 * time.Second)
	for {
		rt.connMu.Lock()
		tracked := len(rt.conns)
		rt.connMu.Unlock()
		if tracked == 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("연결이 등록되지 않았습니다")
		}
		time.Sleep(10 * time.Millisecond)
	}

	rt.AfterDispatch(record)

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, payload, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("방송 수신에 실패했습니다: %v", err)
	}

	var got core.DispatchRecord
	if err := json.Unmarshal(payload, &got); err != nil {
		t.Fatalf("레코드 역직렬화에 실패했습니다: %v", err)
	}
	if got != record {
		t.Fatalf("방송된 레코드가 잘못되었습니다: %+v", got)
	}
}

func TestRuntime_ConcurrentBroadcastsAreSerialized(t *testing.T) {
	rt, server := newTestRuntime(t)
	conn := dial(t, server)

	deadline := time.Now().Add(2 * time.Second)
	for {
		rt.connMu.Lock()
		tracked := len(rt.conns)
		rt.connMu.Unlock()
		if tracked == 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("연결이 등록되지 않았습니다")
		}
		time.Sleep(10 * time.Millisecond)
	}

	const (
		emitters = 8
		perGo    = 50
	)

	// 동시에 들어오는 방송이 한 연결 위에서 프레임 단위로 직렬화되어야 한다.
	var wg sync.WaitGroup
	for i := 0; i < emitters; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perGo; j++ {
				rt.AfterDispatch(core.DispatchRecord{
					EventID:   "ordering::order_created",
					Domain:    "messaging",
					HandlerID: "messaging.OrderingOrderCreatedHandler",
					Mode:      "async",
					Outcome:   core.OutcomeEnqueued,
				})
			}
		}()
	}

	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	for i := 0; i < emitters*perGo; i++ {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("%d번째 프레임 수신에 실패했습니다: %v", i, err)
		}
		var got core.DispatchRecord
		if err := json.Unmarshal(payload, &got); err != nil {
			t.Fatalf("프레임이 손상되었습니다 (%d번째): %v", i, err)
		}
	}

	wg.Wait()
}

func TestRuntime_RejectsConnAfterStop(t *testing.T) {
	rt, server := newTestRuntime(t)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	rt.Stop(ctx)

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err == nil {
		t.Fatal("중지된 모니터는 연결을 거부해야 합니다")
	}
	if resp != nil && resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("상태 코드가 잘못되었습니다: %d", resp.StatusCode)
	}
}
