package models

import "time"

// Category is a product category as listed by the upstream catalog.
type Category struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Slug       string `json:"slug"`
	ImageURL   string `json:"imageUrl,omitempty"`
	DatabaseID int    `json:"databaseId"`
	Count      int    `json:"count"`
}

// Review is a shopper review of a product.
type Review struct {
	Date      time.Time `json:"date"`
	ID        string    `json:"id"`
	Reviewer  string    `json:"reviewer"`
	Content   string    `json:"content"`
	Images    []string  `json:"images,omitempty"`
	ProductID int       `json:"productId"`
	Rating    int       `json:"rating"`
	Helpful   int       `json:"helpful"`
	Verified  bool      `json:"verified"`
}
