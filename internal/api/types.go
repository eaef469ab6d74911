package api

// ChatRequest POST /chat 的请求体
type ChatRequest struct {
	Question string `json:"question"`
}

// ChatResponse POST /chat 的响应体
type ChatResponse struct {
	Answer string `json:"answer"`
}
