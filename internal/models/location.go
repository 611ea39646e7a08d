package models

import "time"

type Location struct {
	ID          string
	Name        string
	Description *string
	Lat         float64
	Lng         float64
	CreatedAt   time.Time
}

// LocationSummary is a location with its aggregate rating, computed on
// read and never stored.
type LocationSummary struct {
	Location
	AvgRating   float64
	RatingCount int
}

type Rating struct {
	ID         string
	LocationID string
	AccountID  *string // nil for seed rows
	Score      int
	Comment    *string
	CreatedAt  time.Time
}

type RatingWithLocation struct {
	Rating
	LocationName string
}

type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "pending"
	RequestStatusApproved RequestStatus = "approved"
	RequestStatusRejected RequestStatus = "rejected"
)

type Request struct {
	ID          string
	AccountID   string
	Name        string
	Description *string
	Lat         float64
	Lng         float64
	Status      RequestStatus
	CreatedAt   time.Time
}

type RequestWithRequester struct {
	Request
	RequesterEmail string
}
