package models

import "time"

// Reading is one temperature/humidity sample from a fridge. Rows are insert-only.
type Reading struct {
	Temperature float64   `db:"temperature" json:"temperature"`
	Humidity    float64   `db:"humidity" json:"humidity"`
	FridgeNo    int64     `db:"fridgeno" json:"fridgeNo"`
	Timestamp   time.Time `db:"timestamp" json:"timestamp"`
}
