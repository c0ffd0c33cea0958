package azureopenai

// chatMessage - chat completions 메시지
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatRequest - chat completions 요청 body
type chatRequest struct {
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

// chatResponse - chat completions 응답 body
type chatResponse struct {
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}
