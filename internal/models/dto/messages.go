package dto

type SendMessageRequest struct {
	ToUsername string `json:"to_username"`
	Body       string `json:"body"`
}
