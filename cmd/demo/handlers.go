package main

import (
	"context"
	"log"

	"github.com/NARUBROWN/pulse/core"
)

// OrderCreatedNotifier는 messaging.OrderingOrderCreatedHandler로 디스패치됩니다.
type OrderCreatedNotifier struct {
	event core.Event
}

func NewOrderCreatedNotifier(event core.Event) core.Handler {
	return &OrderCreatedNotifier{event: event}
}

// 금액이 없는 주문은 알림을 보내지 않는다.
func (h *OrderCreatedNotifier) ShouldHandle() bool {
	amount, ok := h.event.Field("total_amount")
	if !ok {
		return false
	}
	return amount.(float64) > 0
}

func (h *OrderCreatedNotifier) Execute(ctx context.Context) error {
	orderID, _ := h.event.Field("order_id")
	log.Printf("[Messaging] 주문 생성 알림 발송 (order_id=%v)", orderID)
	return nil
}

// OrderCancelledNotifier는 messaging.OrderingOrderCancelledHandler로 디스패치됩니다.
type OrderCancelledNotifier struct {
	event core.Event
}

func NewOrderCancelledNotifier(event core.Event) core.Handler {
	return &OrderCancelledNotifier{event: event}
}

func (h *OrderCancelledNotifier) Execute(ctx context.Context) error {
	orderID, _ := h.event.Field("order_id")
	log.Printf("[Messaging] 주문 취소 알림 발송 (order_id=%v)", orderID)
	return nil
}

// recordAnalytics는 analytics 도메인의 custom 수신 함수입니다.
// 와일드카드 구독으로 모든 이벤트를 받습니다.
func recordAnalytics(ctx context.Context, eventID string, event core.Event) error {
	log.Printf("[Analytics] 이벤트 기록 (event=%s, fields=%v)", eventID, event.Fields())
	return nil
}
