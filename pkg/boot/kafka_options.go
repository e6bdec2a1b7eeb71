package boot

/*
Kafka 관련 설정을 담는 옵션 구조체입니다.
async hand-off를 Kafka 토픽으로 발행할 때 사용됩니다.
*/
type KafkaOptions struct {
	// Kafka 브로커 주소 목록
	Brokers []string

	/*
		hand-off 발행(Producer) 설정
		nil이면 기본 정책(Topic Prefix 없음)으로 발행합니다.
	*/
	Write *KafkaWriteOptions
}

/*
Kafka hand-off 발행 시 사용되는 설정입니다.
Topic 이름 규칙과 관련된 정책을 정의합니다.
*/
type KafkaWriteOptions struct {
	// 이벤트 식별자 앞에 붙일 Topic Prefix
	TopicPrefix string
}
