package slides

// Slide - 슬라이드 1장 (제목 + 불릿)
type Slide struct {
	Title   string   `json:"title"`
	Bullets []string `json:"bullets"`
}

// Outline - 전체 덱 개요. LLM JSON 응답도 이 구조로 파싱한다.
type Outline struct {
	Slides []Slide `json:"slides"`
}

const (
	maxSlides      = 25
	maxTitleLength = 120
	maxBodyLength  = 4000
	// fallback 단일 슬라이드 본문 상한
	maxFallbackLength = 3000
)
