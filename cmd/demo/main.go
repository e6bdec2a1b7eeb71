package main

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/NARUBROWN/pulse"
	"github.com/NARUBROWN/pulse/internal/bootstrap"
	"github.com/NARUBROWN/pulse/pkg/boot"
	"github.com/NARUBROWN/pulse/pkg/eventerr"
	"github.com/labstack/echo/v4"
)

var nextOrderID atomic.Int64

func main() {
	cfg, err := loadConfig()
	if err != nil {
		log.Fatal(err)
	}

	engine := pulse.New()

	// 스키마 선언
	mustDefine(engine, "ordering::order_created",
		pulse.IntField("order_id"),
		pulse.IntField("customer_id"),
		pulse.ListField("line_items"),
		pulse.FloatField("total_amount"),
		pulse.Optional(pulse.Nullable(pulse.StringField("comment"))),
	)
	mustDefine(engine, "ordering::order_cancelled",
		pulse.IntField("order_id"),
		pulse.StringField("reason"),
	)

	// 도메인과 핸들러 등록
	engine.Domain("messaging")
	must(engine.Handle("messaging", "ordering::order_created", NewOrderCreatedNotifier))
	must(engine.Handle("messaging", "ordering::order_cancelled", NewOrderCancelledNotifier))

	engine.Domain("analytics")
	must(engine.Receive("analytics", recordAnalytics))

	// 부트스트랩: 설정 로드 + lint + 백엔드/모니터 가동
	opts := boot.Options{
		ConfigPath: cfg.Subscriptions,
		Memory:     &boot.MemoryOptions{Workers: 2},
	}
	if cfg.MonitorAddress != "" {
		opts.Monitor = &boot.MonitorOptions{Address: cfg.MonitorAddress}
	}

	stop, err := bootstrap.Run(engine, opts)
	if err != nil {
		log.Fatalf("부트에 실패했습니다: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = stop(ctx)
	}()

	e := echo.New()
	e.HideBanner = true

	e.POST("/orders", func(c echo.Context) error {
		var req struct {
			CustomerID  int64    `json:"customer_id"`
			LineItems   []string `json:"line_items"`
			TotalAmount float64  `json:"total_amount"`
			Comment     *string  `json:"comment"`
		}
		if err := c.Bind(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}

		order := &Order{
			ID:          nextOrderID.Add(1),
			CustomerID:  req.CustomerID,
			LineItems:   req.LineItems,
			TotalAmount: req.TotalAmount,
		}

		// comment만 명시 인자로 넘기고 나머지는 발행자 속성에서 채운다.
		explicit := map[string]any{}
		if req.Comment != nil {
			explicit["comment"] = *req.Comment
		} else {
			explicit["comment"] = nil
		}

		event, err := engine.Emit(c.Request().Context(), order, "order_created", explicit)
		if err != nil {
			return emitError(err)
		}

		return c.JSON(http.StatusCreated, map[string]any{
			"order_id": order.ID,
			"event":    event.ID(),
		})
	})

	e.DELETE("/orders/:id", func(c echo.Context) error {
		orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "주문 ID가 잘못되었습니다")
		}

		order := &Order{ID: orderID}
		_, err = engine.Emit(c.Request().Context(), order, "order_cancelled", map[string]any{
			"reason": "customer_request",
		})
		if err != nil {
			return emitError(err)
		}

		return c.NoContent(http.StatusNoContent)
	})

	log.Fatal(e.Start(cfg.Address))
}

// emitError는 엔진 에러를 HTTP 상태 코드로 변환합니다.
func emitError(err error) error {
	switch err.(type) {
	case *eventerr.MissingPayloadAttributeError, *eventerr.PayloadTypeMismatchError:
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	case *eventerr.UnknownEventSchemaError, *eventerr.AmbiguousEventNameError:
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}

func mustDefine(engine *pulse.Engine, eventID string, fields ...pulse.Field) {
	if err := engine.Schema(eventID, fields...); err != nil {
		log.Fatalf("스키마 정의에 실패했습니다: %v", err)
	}
}

func must(err error) {
	if err != nil {
		log.Fatalf("엔진 구성에 실패했습니다: %v", err)
	}
}
