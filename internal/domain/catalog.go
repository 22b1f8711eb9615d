package domain

import "github.com/google/uuid"

// Service is a bookable offering of the salon
type Service struct {
	ID          uuid.UUID
	Title       string
	Description string
	Price       float64
	Duration    int // minutes
	Icon        string
}

// Stylist is a barber who can be booked
type Stylist struct {
	ID          uuid.UUID
	Name        string
	Role        string
	Experience  string
	Specialties []string
	ImageURL    string
	Available   bool
	UserID      *uuid.UUID
}
