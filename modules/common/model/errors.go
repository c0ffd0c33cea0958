package model

import "fmt"

// ConfigurationError - Lecture 설정이 파이프라인 전제조건을 충족하지 못함 (Job 생성 전 반환)
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return e.Reason
}

// EmptyInputError - 스크립트 섹션 추출 결과가 비어있음
type EmptyInputError struct {
	Section string
}

func (e *EmptyInputError) Error() string {
	return fmt.Sprintf("no text found for %s generation", e.Section)
}

// StorageError - Storage 업로드/다운로드 실패
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s failed: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// RemoteSynthesisError - 원격 합성 서비스가 Failed를 보고함 (진단 payload 원문 보존)
type RemoteSynthesisError struct {
	Detail string
}

func (e *RemoteSynthesisError) Error() string {
	return fmt.Sprintf("remote synthesis failed: %s", e.Detail)
}

// ProtocolError - 원격 서비스가 자신의 성공 계약을 위반함 (예: Succeeded인데 result 없음)
type ProtocolError struct {
	Reason string
}

func (e *ProtocolError) Error() string {
	return e.Reason
}
