package boot

// Options는 부트스트랩 단계에 전달되는 최상위 설정입니다.
type Options struct {
	// 구독 테이블 YAML 파일 경로
	ConfigPath string

	/*
		async hand-off 백엔드 설정
		Kafka / RabbitMq / Memory 중 정확히 하나만 지정해야 합니다.
	*/
	Kafka    *KafkaOptions
	RabbitMq *RabbitMqOptions
	Memory   *MemoryOptions

	/*
		디스패치 모니터(WebSocket 피드) 설정
		nil이면 모니터는 활성화되지 않습니다.
	*/
	Monitor *MonitorOptions
}
