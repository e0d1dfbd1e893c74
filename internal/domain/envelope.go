package domain

import "time"

// Конверт успешной загрузки
type UploadResult struct {
	Key         string    `json:"key"`
	Size        int64     `json:"size"`
	ContentType string    `json:"contentType"`
	URL         string    `json:"url"`
	Timestamp   time.Time `json:"timestamp"`
	App         string    `json:"app"`
}

type UploadEnvelope struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	Data    *UploadResult `json:"data,omitempty"`
}

// Конверт ошибки: code — машиночитаемый, error — текст для человека
type ErrorEnvelope struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func OkUpload(res UploadResult) UploadEnvelope {
	return UploadEnvelope{Success: true, Message: "upload complete", Data: &res}
}

func Fail(code, text string) ErrorEnvelope {
	return ErrorEnvelope{Error: text, Code: code}
}
