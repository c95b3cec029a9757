package models

import (
	"time"

	"github.com/compspread/comps-backend/internal/comps"
)

// Project is one saved comps workspace: a name plus the dataset exactly as
// the table holds it. The data array round-trips missing values as nulls.
type Project struct {
	ID        string               `json:"id"`
	Name      string               `json:"name"`
	Data      []comps.MetricRecord `json:"data"`
	CreatedAt time.Time            `json:"createdAt"`
	UpdatedAt time.Time            `json:"updatedAt"`
}

// ProjectSummary is the listing view, without the dataset payload.
type ProjectSummary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	UpdatedAt time.Time `json:"updatedAt"`
}
