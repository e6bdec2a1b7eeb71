package backend

import (
	"encoding/json"
	"time"

	"github.com/NARUBROWN/pulse/core"
)

// Envelope은 외부 브로커로 나가는 hand-off의 직렬화 형태입니다.
type Envelope struct {
	Handler    string         `json:"handler"`
	Event      string         `json:"event"`
	Fields     map[string]any `json:"fields"`
	EnqueuedAt time.Time      `json:"enqueued_at"`
}

// Encode는 hand-off를 JSON Envelope으로 직렬화합니다.
func Encode(handlerID string, event core.Event) ([]byte, error) {
	return json.Marshal(Envelope{
		Handler:    handlerID,
		Event:      event.ID(),
		Fields:     event.Fields(),
		EnqueuedAt: time.Now(),
	})
}
