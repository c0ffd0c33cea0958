package avatar

import "strings"

const apiVersion = "2024-08-01"

// Azure batch synthesis 원격 상태
const (
	RemoteNotStarted = "NotStarted"
	RemoteRunning    = "Running"
	RemoteSucceeded  = "Succeeded"
	RemoteFailed     = "Failed"
)

// synthesisRequest - PUT /avatar/batchsyntheses/{id} 요청 body
type synthesisRequest struct {
	InputKind    string            `json:"inputKind"`
	Inputs       []synthesisInput  `json:"inputs"`
	AvatarConfig map[string]string `json:"avatarConfig"`
}

type synthesisInput struct {
	Content string `json:"content"`
}

// SynthesisStatus - GET /avatar/batchsyntheses/{id} 응답 body
type SynthesisStatus struct {
	ID      string `json:"id"`
	Status  string `json:"status"`
	Outputs struct {
		Result  string `json:"result"`
		Summary string `json:"summary"`
	} `json:"outputs"`
	// 실패 진단용 원문 payload
	Raw string `json:"-"`
}

// SanitizeSynthesisID - lecture ID에서 합성 ID 생성.
// 제약: 3~64자, [A-Za-z0-9-], 시작/끝 문자는 영숫자.
func SanitizeSynthesisID(lectureID string) string {
	id := lectureID + "-avatar"

	var b strings.Builder
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' || r == '_':
			b.WriteByte('-')
		}
		// 그 외 문자는 버림
	}
	id = b.String()

	if len(id) > 64 {
		id = id[:64]
	}

	id = strings.Trim(id, "-")
	for len(id) < 3 {
		id += "0"
	}

	return id
}
