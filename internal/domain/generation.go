package domain

import "time"

// Generation is the durable outcome of one successful image→code pipeline run.
// It is written once and never updated.
type Generation struct {
	ID            string    `json:"id"`
	ImageURL      string    `json:"imageUrl"`
	GeneratedCode string    `json:"generatedCode"`
	OwnerID       string    `json:"ownerId"`
	CreatedAt     time.Time `json:"createdAt"`
}

// GenerationStats summarises the generated_uis table for the admin dashboard.
type GenerationStats struct {
	TotalGenerations int `json:"totalGenerations"`
	Owners           int `json:"owners"`
}
