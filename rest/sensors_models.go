package rest

type ReadingEntry struct {
	Metric string  `json:"metric"`
	Value  float64 `json:"value"`
}

type IngestRequest struct {
	DeviceID string         `json:"device_id"`
	Readings []ReadingEntry `json:"readings"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}
