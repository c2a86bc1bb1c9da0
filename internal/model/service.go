package model

// Service is a billable treatment. Price is in cents, duration in minutes.
type Service struct {
	Base
	Name        string `db:"name" json:"name"`
	Description string `db:"description" json:"description"`
	Price       int64  `db:"price" json:"price"`
	Duration    int    `db:"duration" json:"duration"`
}
