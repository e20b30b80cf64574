package view

import "time"

// Response is the JSON envelope shared by every API endpoint.
type Response[T any] struct {
	Success    bool        `json:"success"`
	Data       T           `json:"data,omitempty"`
	Metadata   *Metadata   `json:"metadata,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
	Error      string      `json:"error,omitempty"`
	Message    string      `json:"message,omitempty"`
	RequestID  string      `json:"request_id,omitempty"`
}

// Metadata describes how a market-data payload was produced.
type Metadata struct {
	Provider  string `json:"provider"`
	IsPrimary bool   `json:"is_primary"`
	Timestamp int64  `json:"timestamp"`
	Count     int    `json:"count"`
}

type Pagination struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
	Total    int `json:"total"`
}

// FieldError reports a single invalid request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func CreateResponse[T any](data T, err error, requestID, message string) Response[T] {
	resp := Response[T]{
		Success:   err == nil,
		Data:      data,
		RequestID: requestID,
		Message:   message,
	}
	if err != nil {
		resp.Error = err.Error()
	}
	return resp
}

// CreateMarketResponse tags data with the provider that served it.
func CreateMarketResponse[T any](data T, provider string, isPrimary bool, count int, pagination *Pagination) Response[T] {
	return Response[T]{
		Success: true,
		Data:    data,
		Metadata: &Metadata{
			Provider:  provider,
			IsPrimary: isPrimary,
			Timestamp: time.Now().UnixMilli(),
			Count:     count,
		},
		Pagination: pagination,
	}
}

// ValidationErrorResponse is the 400 envelope with field-level messages.
type ValidationErrorResponse struct {
	Success   bool         `json:"success"`
	Error     string       `json:"error"`
	Message   string       `json:"message"`
	Fields    []FieldError `json:"fields"`
	RequestID string       `json:"request_id,omitempty"`
}

func CreateValidationErrorResponse(fields []FieldError, requestID string) ValidationErrorResponse {
	return ValidationErrorResponse{
		Success:   false,
		Error:     "VALIDATION_ERROR",
		Message:   "invalid request parameters",
		Fields:    fields,
		RequestID: requestID,
	}
}
