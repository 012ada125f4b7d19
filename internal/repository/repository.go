package repository

import "gorm.io/gorm"

// Repository aggregates every data access interface.
type Repository struct {
	Plan PlanRepository
}

// NewRepository builds the aggregate.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		Plan: NewPlanRepo(db),
	}
}
