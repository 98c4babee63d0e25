package models

// Account is a business account as loaded from the sales dataset.
// Every field is required; ID is the primary key and never changes after import.
type Account struct {
	ID       string `json:"id" validate:"required"`
	Name     string `json:"name" validate:"required"`
	Industry string `json:"industry" validate:"required"`
	Region   string `json:"region" validate:"required"`
	Status   string `json:"status" validate:"required"`
}

// AccountURL is the rendered external link for an account.
type AccountURL struct {
	URL string `json:"url"`
}
