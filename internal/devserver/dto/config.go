package dto

// SetConfigRequest is the admin payload replacing the served configuration.
type SetConfigRequest struct {
	Configuration any `json:"configuration" validate:"required"`
}

// SetConfigResponse returns the ETag assigned to the new document.
type SetConfigResponse struct {
	ETag string `json:"etag"`
}
