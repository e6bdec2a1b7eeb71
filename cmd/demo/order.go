package main

// Order는 Ordering 도메인의 발행자입니다.
// 읽기 가능한 속성을 이름으로 노출해 payload 자동 채움에 쓰입니다.
type Order struct {
	ID          int64
	CustomerID  int64
	LineItems   []string
	TotalAmount float64
}

func (o *Order) EventNamespace() string {
	return "Ordering"
}

func (o *Order) EventAttribute(name string) (any, bool) {
	switch name {
	case "order_id":
		return o.ID, true
	case "customer_id":
		return o.CustomerID, true
	case "line_items":
		return o.LineItems, true
	case "total_amount":
		return o.TotalAmount, true
	}
	return nil, false
}
