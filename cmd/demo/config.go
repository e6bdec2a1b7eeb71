package main

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config는 데모 앱의 환경 변수 설정입니다.
type Config struct {
	// HTTP 서버 주소
	Address string `envconfig:"PULSE_ADDRESS" default:":8080"`

	// 구독 설정 파일 경로
	Subscriptions string `envconfig:"PULSE_SUBSCRIPTIONS" default:"subscriptions.yaml"`

	// 비어 있으면 디스패치 모니터를 켜지 않습니다.
	MonitorAddress string `envconfig:"PULSE_MONITOR_ADDRESS"`
}

func loadConfig() (Config, error) {
	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return Config{}, fmt.Errorf("설정 로드에 실패했습니다: %w", err)
	}
	return c, nil
}
