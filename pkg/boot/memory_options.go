package boot

/*
In-Memory 백엔드 설정입니다.
테스트와 데모처럼 외부 브로커 없이 프로세스 안에서
async hand-off를 소비할 때 사용됩니다.
*/
type MemoryOptions struct {
	// 동시에 hand-off를 처리할 워커 수 (0 이하이면 기본값 사용)
	Workers int

	// hand-off 버퍼 크기 (0 이하이면 기본값 사용)
	BufferSize int

	// 핸들러 실패 시 최대 시도 횟수 (0 이하이면 기본값 사용)
	MaxAttempts int
}
