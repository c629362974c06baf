package handler

import (
	"github.com/google/uuid"

	"quoteguard/internal/validation/models"
)

// analyticsResponse pairs the analytics view with the report it was derived
// from. The report itself is not persisted by the analytics endpoint.
type analyticsResponse struct {
	ReportID  uuid.UUID        `json:"report_id"`
	Status    string           `json:"status"`
	Analytics models.Analytics `json:"analytics"`
}
