package subscription

import (
	"fmt"
	"sync"
)

// Mode는 구독 엔트리의 디스패치 모드입니다.
type Mode string

const (
	ModeSync  Mode = "sync"
	ModeAsync Mode = "async"
)

// Wildcard는 "모든 이벤트" 구독을 뜻하는 예약 키입니다.
const Wildcard = "*"

// ParseMode는 설정 문자열을 Mode로 변환합니다.
func ParseMode(raw string) (Mode, error) {
	switch Mode(raw) {
	case ModeSync:
		return ModeSync, nil
	case ModeAsync:
		return ModeAsync, nil
	}
	return "", fmt.Errorf("subscription: 알 수 없는 디스패치 모드입니다: %q", raw)
}

// LookupKind는 Lookup이 어떤 엔트리에 매칭됐는지 구분합니다.
type LookupKind int

const (
	NotSubscribed LookupKind = iota
	Exact
	WildcardMatch
)

// Match는 이벤트 하나에 매칭된 구독 도메인입니다.
type Match struct {
	Domain string
	Mode   Mode
	Kind   LookupKind
}

type domainEntry struct {
	name     string
	events   map[string]Mode
	wildcard *Mode
}

// Registry는 도메인 → (이벤트 식별자 | 와일드카드) → 모드 구독 테이블입니다.
//
// Load는 부트 시점에 한 번, Register/Clear는 테스트 하니스에서만 호출해야
// 합니다. 라이브 디스패치와 동시에 변경하는 것은 정의되지 않은 동작입니다.
type Registry struct {
	mu      sync.RWMutex
	order   []string
	domains map[string]*domainEntry
}

func NewRegistry() *Registry {
	return &Registry{
		domains: make(map[string]*domainEntry),
	}
}

// Load는 설정 매핑으로 테이블 전체를 원자적으로 교체합니다.
// declarationOrder는 설정 파일의 도메인 선언 순서이며,
// sync 디스패치의 안정적인 실행 순서를 결정합니다.
func (r *Registry) Load(mapping map[string]map[string]string, declarationOrder []string) error {
	order := make([]string, 0, len(mapping))
	domains := make(map[string]*domainEntry, len(mapping))

	for _, domainName := range declarationOrder {
		events, ok := mapping[domainName]
		if !ok {
			return fmt.Errorf("subscription: 선언 순서에만 존재하는 도메인입니다: %s", domainName)
		}
		if _, dup := domains[domainName]; dup {
			return fmt.Errorf("subscription: 도메인 %s가 중복 선언되었습니다", domainName)
		}

		entry := &domainEntry{
			name:   domainName,
			events: make(map[string]Mode, len(events)),
		}

		for eventID, rawMode := range events {
			mode, err := ParseMode(rawMode)
			if err != nil {
				return fmt.Errorf("%w (domain=%s, event=%s)", err, domainName, eventID)
			}
			if eventID == Wildcard {
				entry.wildcard = &mode
				continue
			}
			entry.events[eventID] = mode
		}

		order = append(order, domainName)
		domains[domainName] = entry
	}

	if len(domains) != len(mapping) {
		return fmt.Errorf("subscription: 선언 순서와 설정 매핑이 일치하지 않습니다")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.order = order
	r.domains = domains
	return nil
}

// Register는 빈 도메인 엔트리를 추가합니다. 테스트 하니스 전용입니다.
func (r *Registry) Register(domainName string) {
	if domainName == "" {
		panic("subscription: 도메인 이름이 빈 값일 수 없습니다")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.domains[domainName]; exists {
		return
	}
	r.order = append(r.order, domainName)
	r.domains[domainName] = &domainEntry{
		name:   domainName,
		events: make(map[string]Mode),
	}
}

// Clear는 테이블 전체를 비웁니다. 테스트 하니스 전용입니다.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.order = nil
	r.domains = make(map[string]*domainEntry)
}

// Lookup은 (도메인, 이벤트)의 구독 여부와 모드를 조회합니다.
// 정확한 엔트리가 항상 와일드카드보다 우선합니다.
func (r *Registry) Lookup(domainName string, eventID string) (Mode, LookupKind) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.domains[domainName]
	if !ok {
		return "", NotSubscribed
	}
	if mode, ok := entry.events[eventID]; ok {
		return mode, Exact
	}
	if entry.wildcard != nil {
		return *entry.wildcard, WildcardMatch
	}
	return "", NotSubscribed
}

// Matches는 이벤트에 구독된 모든 도메인을 선언 순서대로 반환합니다.
func (r *Registry) Matches(eventID string) []Match {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matches []Match
	for _, domainName := range r.order {
		entry := r.domains[domainName]
		if mode, ok := entry.events[eventID]; ok {
			matches = append(matches, Match{Domain: domainName, Mode: mode, Kind: Exact})
			continue
		}
		if entry.wildcard != nil {
			matches = append(matches, Match{Domain: domainName, Mode: *entry.wildcard, Kind: WildcardMatch})
		}
	}
	return matches
}

// Entry는 lint가 순회하는 구독 엔트리 하나입니다.
type Entry struct {
	Domain   string
	EventID  string
	Mode     Mode
	Wildcard bool
}

// Entries는 테이블 전체의 스냅샷을 선언 순서대로 반환합니다.
func (r *Registry) Entries() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var entries []Entry
	for _, domainName := range r.order {
		entry := r.domains[domainName]
		for eventID, mode := range entry.events {
			entries = append(entries, Entry{
				Domain:  domainName,
				EventID: eventID,
				Mode:    mode,
			})
		}
		if entry.wildcard != nil {
			entries = append(entries, Entry{
				Domain:   domainName,
				EventID:  Wildcard,
				Mode:     *entry.wildcard,
				Wildcard: true,
			})
		}
	}
	return entries
}
