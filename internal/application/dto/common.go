package dto

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code       string              `json:"code"`
	Message    string              `json:"message"`
	Violations []ViolationResponse `json:"violations,omitempty"`
}

// ViolationResponse una regla incumplida en el payload.
type ViolationResponse struct {
	Field   string `json:"field"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// MessageResponse confirmación simple (p. ej. borrado).
type MessageResponse struct {
	Message string `json:"message"`
}

// HealthResponse estado del servicio.
type HealthResponse struct {
	Status string `json:"status"`
	Store  string `json:"store"`
}
