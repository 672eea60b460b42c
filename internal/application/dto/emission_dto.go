package dto

import "time"

// EmitResponse acuse de una emisión disparada. En el camino asíncrono el
// estado devuelto es processing; el terminal se consulta por el pipeline.
type EmitResponse struct {
	EmissionID string `json:"emission_id"`
	Status     string `json:"status"`
}

// PipelineItemResponse emisión en el monitor (no terminales + error).
type PipelineItemResponse struct {
	ID           string    `json:"id"`
	ConfigID     string    `json:"config_id"`
	ConfigName   string    `json:"config_name"`
	Status       string    `json:"status"`
	PDFURL       string    `json:"pdf_url,omitempty"`
	ErrorMessage string    `json:"error_message,omitempty"`
	EmailSent    bool      `json:"email_sent"`
	EmittedAt    time.Time `json:"emitted_at"`
}

// MetricsResponse tablero del usuario.
type MetricsResponse struct {
	TotalConfigs        int    `json:"total_configs"`
	InFlightEmissions   int    `json:"in_flight_emissions"`
	ErrorEmissions      int    `json:"error_emissions"`
	SuccessThisMonth    int    `json:"success_this_month"`
	GovernmentAPIHealth string `json:"government_api_health"`
}

// GovernmentStatusResponse sonda de salud del API fiscal.
type GovernmentStatusResponse struct {
	Status string `json:"status"` // online | slow | offline
}
