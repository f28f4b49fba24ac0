package fiber

// CreateRecordRequest represents a market record payload
// @Description Market record DTO
type CreateRecordRequest struct {
	Timestamp  string             `json:"timestamp" example:"2024-05-14T10:30:00Z"`
	Count      *float64           `json:"count,omitempty" example:"3"`
	Attributes map[string]string  `json:"attributes"`
	Values     map[string]float64 `json:"values,omitempty"`
}

type CreateRecordResponse struct {
	Status  string `json:"status" example:"created"`
	Message string `json:"message,omitempty"`
}

type BulkCreateRecordsRequest struct {
	Records []CreateRecordRequest `json:"records"`
}

type BulkCreateRecordsResponse struct {
	Created    int `json:"created"`
	Duplicates int `json:"duplicates"`
}

type ErrorResponse struct {
	Error   string `json:"error" example:"invalid_record"`
	Message string `json:"message,omitempty" example:"Record payload is invalid"`
}
