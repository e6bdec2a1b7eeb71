package subscription

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config는 파싱된 구독 설정입니다.
// Order는 파일상의 도메인 선언 순서를 보존합니다.
type Config struct {
	Mapping map[string]map[string]string
	Order   []string
}

// LoadFile은 구독 설정 YAML 파일을 읽습니다.
//
// 최상위 키는 도메인 이름, 값은 이벤트 식별자(또는 "*")에서
// 디스패치 모드 문자열로의 매핑입니다.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("subscription: 설정 파일을 읽을 수 없습니다 (%s): %w", path, err)
	}
	return Parse(data)
}

// Parse는 YAML 문서를 Config로 변환합니다.
// 맵 순회 순서가 아닌 문서상의 선언 순서를 유지하기 위해 yaml.Node로 파싱합니다.
func Parse(data []byte) (Config, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Config{}, fmt.Errorf("subscription: 설정 파싱에 실패했습니다: %w", err)
	}

	cfg := Config{Mapping: make(map[string]map[string]string)}

	if doc.Kind == 0 || len(doc.Content) == 0 {
		// 빈 문서는 빈 테이블로 취급한다.
		return cfg, nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return Config{}, fmt.Errorf("subscription: 최상위는 도메인 매핑이어야 합니다 (line %d)", root.Line)
	}

	for i := 0; i+1 < len(root.Content); i += 2 {
		domainNode := root.Content[i]
		eventsNode := root.Content[i+1]

		domainName := domainNode.Value
		if _, dup := cfg.Mapping[domainName]; dup {
			return Config{}, fmt.Errorf(
				"subscription: 도메인 %s가 중복 선언되었습니다 (line %d)",
				domainName, domainNode.Line,
			)
		}
		if eventsNode.Kind != yaml.MappingNode {
			return Config{}, fmt.Errorf(
				"subscription: 도메인 %s의 값은 이벤트 매핑이어야 합니다 (line %d)",
				domainName, eventsNode.Line,
			)
		}

		events := make(map[string]string, len(eventsNode.Content)/2)
		for j := 0; j+1 < len(eventsNode.Content); j += 2 {
			eventID := eventsNode.Content[j].Value
			if _, dup := events[eventID]; dup {
				return Config{}, fmt.Errorf(
					"subscription: (%s, %s) 엔트리가 중복 선언되었습니다 (line %d)",
					domainName, eventID, eventsNode.Content[j].Line,
				)
			}
			events[eventID] = eventsNode.Content[j+1].Value
		}

		cfg.Mapping[domainName] = events
		cfg.Order = append(cfg.Order, domainName)
	}

	return cfg, nil
}
