package market

import "time"

// Bar is one OHLCV candle of an instrument. Time is the bar open time (UTC).
type Bar struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Day returns the calendar day (UTC) the bar opens on.
func (b Bar) Day() time.Time {
	y, m, d := b.Time.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
