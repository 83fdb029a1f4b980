package models

import "time"

// RawTransaction is one row of a daily extract, as read from disk.
type RawTransaction struct {
	Product  string
	Price    string
	Quantity string
	Date     string
	Region   string
}

// SalesRecord is one row of the consolidated dataset.
type SalesRecord struct {
	Sales  float64   `json:"sales"`
	Date   time.Time `json:"date"`
	Region string    `json:"region"`
}
