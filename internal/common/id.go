package common

import (
	"github.com/google/uuid"
)

// NewJobID generates a unique scrape job ID with the "job_" prefix
func NewJobID() string {
	return "job_" + uuid.New().String()
}

// NewProductID generates a unique product ID with the "prod_" prefix
func NewProductID() string {
	return "prod_" + uuid.New().String()
}
