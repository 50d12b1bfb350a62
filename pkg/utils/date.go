package utils

import (
	"log"
	"time"
)

// GetISTLocation returns the Asia/Kolkata time zone. Indian market data is
// timestamped in IST throughout the service.
func GetISTLocation() *time.Location {
	loc, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		log.Fatal("Failed to load location", err)
	}
	return loc
}

// TimeNowIST returns the current time in IST.
func TimeNowIST() time.Time {
	return time.Now().In(GetISTLocation())
}

// IsMarketOpenIST reports whether t falls inside the NSE trading window,
// Monday to Friday 09:15 to 15:30 IST. Exchange holidays are not tracked.
func IsMarketOpenIST(t time.Time) bool {
	t = t.In(GetISTLocation())
	switch t.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	open := time.Date(t.Year(), t.Month(), t.Day(), 9, 15, 0, 0, t.Location())
	close := time.Date(t.Year(), t.Month(), t.Day(), 15, 30, 0, 0, t.Location())
	return !t.Before(open) && !t.After(close)
}
