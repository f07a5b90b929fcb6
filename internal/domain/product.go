package domain

import "time"

// ProductStatus enumerates sale states.
type ProductStatus int

const (
	ProductStatusOnSale  ProductStatus = 1
	ProductStatusOffSale ProductStatus = 2
	ProductStatusDeleted ProductStatus = 3
)

// Valid reports whether the status is one of the known sale states.
func (s ProductStatus) Valid() bool {
	switch s {
	case ProductStatusOnSale, ProductStatusOffSale, ProductStatusDeleted:
		return true
	}
	return false
}

// Product models a catalog item managed through the back office.
type Product struct {
	ID         int64
	CategoryID int64
	Name       string
	Subtitle   string
	MainImage  string
	Detail     string
	Price      float64
	Stock      int
	Status     ProductStatus
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
