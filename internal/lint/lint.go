package lint

import (
	"sort"

	"github.com/NARUBROWN/pulse/internal/domain"
	"github.com/NARUBROWN/pulse/internal/subscription"
	"github.com/NARUBROWN/pulse/pkg/eventerr"
)

/*
Check는 관례로 발견 가능한 핸들러 집합과 구독 테이블의
대칭 차집합을 계산합니다.

  - 구독 엔트리 없는 핸들러 → orphaned-handler
  - 발견 가능한 핸들러 없는 엔트리 → orphaned-subscription

와일드카드 엔트리는 모든 이벤트에 매칭되므로 검사에서 제외되고,
custom variant 도메인은 양쪽 검사 모두에서 제외됩니다.

부트 또는 CI 검증 단계에서 실행하도록 설계되었습니다. 요청마다 호출하지 마세요.
*/
func Check(domains *domain.Registry, subscriptions *subscription.Registry) error {
	var violations []eventerr.LintViolation

	customDomains := make(map[string]bool)
	for _, d := range domains.Domains() {
		if d.Custom() {
			customDomains[d.Name()] = true
			continue
		}

		events := d.HandledEvents()
		sort.Strings(events)

		for _, eventID := range events {
			if _, kind := subscriptions.Lookup(d.Name(), eventID); kind == subscription.NotSubscribed {
				violations = append(violations, eventerr.LintViolation{
					Kind:      eventerr.OrphanedHandler,
					Domain:    d.Name(),
					EventID:   eventID,
					HandlerID: domain.HandlerID(d.Name(), eventID),
				})
			}
		}
	}

	handled := handledIndex(domains)
	for _, entry := range subscriptions.Entries() {
		if entry.Wildcard {
			continue
		}
		if customDomains[entry.Domain] {
			continue
		}
		if handled[entry.Domain][entry.EventID] {
			continue
		}
		violations = append(violations, eventerr.LintViolation{
			Kind:      eventerr.OrphanedSubscription,
			Domain:    entry.Domain,
			EventID:   entry.EventID,
			HandlerID: domain.HandlerID(entry.Domain, entry.EventID),
		})
	}

	if len(violations) == 0 {
		return nil
	}
	return &eventerr.SubscriptionLintError{Violations: violations}
}

func handledIndex(domains *domain.Registry) map[string]map[string]bool {
	index := make(map[string]map[string]bool)
	for _, d := range domains.Domains() {
		events := make(map[string]bool, len(d.HandledEvents()))
		for _, eventID := range d.HandledEvents() {
			events[eventID] = true
		}
		index[d.Name()] = events
	}
	return index
}
