package dto

// SavePlanRequest names the snapshot to persist.
type SavePlanRequest struct {
	Name string `json:"name" binding:"required"`
}

// PlanResponse is one saved plan, without its payload.
type PlanResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// ShareResponse is a freshly minted share link.
type ShareResponse struct {
	Code string `json:"code"`
	URL  string `json:"url"`
}
