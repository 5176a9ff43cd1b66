package backtest

import (
	"sort"
	"time"

	"github.com/rustyeddy/trixsweep/market"
)

// ReasonMarket is the reason recorded for signal driven market fills.
const ReasonMarket = "Market"

// Fees are flat proportional rates applied to notional. Only market
// (taker) fills are simulated; Maker is carried for reporting.
type Fees struct {
	Maker float64
	Taker float64
}

var DefaultFees = Fees{Maker: 0.0002, Taker: 0.0005}

// Position is an open trade of one instrument.
type Position struct {
	Instrument string
	Side       market.Side
	EntryPrice float64
	EntrySize  float64 // notional after the entry fee
	EntryFee   float64
	EntryTime  time.Time
	Reason     string
}

// closeAt values the position as if it were closed at price.
func (p Position) closeAt(price, taker float64) (size, fee float64) {
	ret := (price - p.EntryPrice) / p.EntryPrice
	if p.Side == market.Short {
		ret = -ret
	}
	size = p.EntrySize * (1 + ret)
	// a short losing more than 100% gives a negative size and a credited fee; neither is clamped
	fee = size * taker
	return size, fee
}

// Trade is a realized round trip. Trades are never modified once recorded.
type Trade struct {
	Instrument  string
	OpenTime    time.Time
	CloseTime   time.Time
	Side        market.Side
	OpenReason  string
	CloseReason string
	OpenPrice   float64
	ClosePrice  float64
	OpenFee     float64
	CloseFee    float64
	OpenSize    float64
	CloseSize   float64
	Wallet      float64 // cash wallet right after the close
}

// PnL is the net result of the trade including both fees.
func (t Trade) PnL() float64 {
	return t.CloseSize - t.OpenSize - t.OpenFee - t.CloseFee
}

// Return is PnL relative to the entry notional.
func (t Trade) Return() float64 {
	if t.OpenSize == 0 {
		return 0
	}
	return t.PnL() / t.OpenSize
}

// Sizing decides the notional of new positions.
type Sizing struct {
	Leverage        float64
	DefaultFraction float64
	Fractions       map[string]float64 // per instrument override
}

func (s Sizing) fraction(instrument string) float64 {
	if f, ok := s.Fractions[instrument]; ok {
		return f
	}
	return s.DefaultFraction
}

// Ledger holds the cash wallet, at most one open position per instrument
// and the append-only trade history.
type Ledger struct {
	fees      Fees
	sizing    Sizing
	wallet    float64
	positions map[string]Position
	trades    []Trade
}

func NewLedger(wallet float64, sizing Sizing, fees Fees) *Ledger {
	return &Ledger{
		fees:      fees,
		sizing:    sizing,
		wallet:    wallet,
		positions: map[string]Position{},
	}
}

func (l *Ledger) Wallet() float64 {
	return l.wallet
}

// Position returns the open position of an instrument.
func (l *Ledger) Position(instrument string) (Position, bool) {
	p, ok := l.positions[instrument]
	return p, ok
}

// OpenCount is the number of open positions.
func (l *Ledger) OpenCount() int {
	return len(l.positions)
}

// TryOpen opens a position at the bar close. It does nothing and returns
// false when the instrument already has an open position.
// The entry fee is paid from the wallet; the notional itself stays in cash.
func (l *Ledger) TryOpen(instrument string, side market.Side, bar market.Bar, reason string) bool {
	if _, ok := l.positions[instrument]; ok {
		return false
	}

	size := l.sizing.fraction(instrument) * l.wallet * l.sizing.Leverage
	fee := size * l.fees.Taker
	l.wallet -= fee

	l.positions[instrument] = Position{
		Instrument: instrument,
		Side:       side,
		EntryPrice: bar.Close,
		EntrySize:  size - fee,
		EntryFee:   fee,
		EntryTime:  bar.Time,
		Reason:     reason,
	}
	return true
}

// Close realizes the open position of an instrument at the bar close.
// It does nothing and returns false when there is no open position.
func (l *Ledger) Close(instrument string, bar market.Bar, reason string) bool {
	p, ok := l.positions[instrument]
	if !ok {
		return false
	}

	size, fee := p.closeAt(bar.Close, l.fees.Taker)
	l.wallet += size - p.EntrySize - fee

	l.trades = append(l.trades, Trade{
		Instrument:  instrument,
		OpenTime:    p.EntryTime,
		CloseTime:   bar.Time,
		Side:        p.Side,
		OpenReason:  p.Reason,
		CloseReason: reason,
		OpenPrice:   p.EntryPrice,
		ClosePrice:  bar.Close,
		OpenFee:     p.EntryFee,
		CloseFee:    fee,
		OpenSize:    p.EntrySize,
		CloseSize:   size,
		Wallet:      l.wallet,
	})
	delete(l.positions, instrument)
	return true
}

// MarkToMarket returns the wallet plus the value every open position would
// realize if closed at the price returned by priceOf, fees included.
// Positions for which priceOf has no price are left out.
func (l *Ledger) MarkToMarket(priceOf func(instrument string) (float64, bool)) float64 {
	total := l.wallet
	for _, p := range l.Open() {
		price, ok := priceOf(p.Instrument)
		if !ok {
			continue
		}
		size, fee := p.closeAt(price, l.fees.Taker)
		total += size - p.EntrySize - fee
	}
	return total
}

// Exposure sums the entry notional of open positions per side.
func (l *Ledger) Exposure() (long, short float64) {
	for _, p := range l.Open() {
		if p.Side == market.Long {
			long += p.EntrySize
		} else {
			short += p.EntrySize
		}
	}
	return long, short
}

// Open returns the open positions sorted by instrument.
func (l *Ledger) Open() []Position {
	out := make([]Position, 0, len(l.positions))
	for _, p := range l.positions {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Instrument < out[j].Instrument
	})
	return out
}

// Trades returns a copy of the realized trades in close order.
func (l *Ledger) Trades() []Trade {
	return append([]Trade(nil), l.trades...)
}
