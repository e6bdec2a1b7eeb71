package boot

/*
디스패치 모니터 설정입니다.
모니터는 디스패치 결과를 WebSocket으로 중계하는 선택 기능입니다.
*/
type MonitorOptions struct {
	// 모니터 HTTP 서버 주소 (예: 127.0.0.1:9180)
	Address string

	// WebSocket 경로 (비어 있으면 /dispatches)
	Path string
}
