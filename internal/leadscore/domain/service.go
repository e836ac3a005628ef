package domain

import (
	"context"
	"time"
)

type Service interface {
	Score(ctx context.Context, req ScoreRequest) (*ScoreResponse, error)
}

type ScoreRequest struct {
	Name    string             `json:"name"`
	Email   string             `json:"email"`
	Factors map[string]float64 `json:"factors"`
}

type ScoreResponse struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Email     string             `json:"email"`
	Factors   map[string]float64 `json:"factors"`
	Score     int                `json:"score"`
	CreatedAt time.Time          `json:"created_at"`
}
