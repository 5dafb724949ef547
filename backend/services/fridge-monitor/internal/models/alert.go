package models

import "time"

// AlertEntry describes a single breaching reading.
type AlertEntry struct {
	FridgeNo    int64
	Temperature float64
	Humidity    float64
	Timestamp   time.Time
}

// AlertBatch holds the breaches found by one evaluation run, in query order.
type AlertBatch struct {
	Entries []AlertEntry
}

// Empty reports whether the batch has nothing to send.
func (b *AlertBatch) Empty() bool {
	return b == nil || len(b.Entries) == 0
}
