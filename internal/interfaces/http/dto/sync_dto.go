package dto

// QueuedResponse reports how many entities were accepted for dispatch.
type QueuedResponse struct {
	Status      string   `json:"status"`
	Count       int      `json:"count"`
	ExternalIDs []string `json:"externalIds"`
}

// NewQueuedResponse builds the acceptance payload for a batch ingest.
func NewQueuedResponse(externalIDs []string) QueuedResponse {
	if externalIDs == nil {
		externalIDs = []string{}
	}
	return QueuedResponse{
		Status:      "queued",
		Count:       len(externalIDs),
		ExternalIDs: externalIDs,
	}
}

// PullRequest carries the optional sync window bounds, in hours before now.
type PullRequest struct {
	MinHoursAgo *int `json:"minHoursAgo" binding:"omitempty,min=0"`
	MaxHoursAgo *int `json:"maxHoursAgo" binding:"omitempty,min=1"`
}

// PullResponse reports the result of a pull-and-enqueue cycle.
type PullResponse struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}
