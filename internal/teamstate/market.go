package teamstate

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Market prices scale by MarketPriceStep per trade and clamp to
// [MinPrice, MaxPrice], then decay back toward BaseSellPrice/BaseBuyPrice
// over time. Grounded on the teacher's internal/economy.Market
// (MarketEntry.Price, AdjustPrice, Decay), scoped down from its 15-good
// catalog to the two trades spec.md Section 4.4 actually names:
// Wood->Gold and Gold->Food.
const (
	BaseSellPrice  = 100 // gold received per unit sold, before adjustment
	BaseBuyPrice   = 100 // gold paid per unit bought, before adjustment
	MarketPriceStep = 2  // percent shift per trade
	MinPrice        = 20
	MaxPrice        = 300
	MarketDecayStep = 1 // percent reverted toward base per decay tick
)

// MarketEntry tracks one resource's current sell/buy price, each
// expressed as a percentage of BaseSellPrice/BaseBuyPrice.
type MarketEntry struct {
	SellPricePct int // falls as more is sold
	BuyPricePct  int // rises as more is bought
}

// Market holds the tradeable-resource price entries for a team. Gold is
// not tradeable (it is the settlement currency all trades convert
// through), so it has no entry.
type Market struct {
	Entries map[Resource]*MarketEntry
}

// NewMarket returns a Market with Wood and Food entries at par (100%).
func NewMarket() Market {
	return Market{
		Entries: map[Resource]*MarketEntry{
			ResourceWood: {SellPricePct: 100, BuyPricePct: 100},
			ResourceFood: {SellPricePct: 100, BuyPricePct: 100},
		},
	}
}

// SellPrice returns the gold received for one unit of r at the current
// price, or 0 if r is not tradeable.
func (m Market) SellPrice(r Resource) int64 {
	e := m.Entries[r]
	if e == nil {
		return 0
	}
	return int64(BaseSellPrice) * int64(e.SellPricePct) / 100
}

// BuyPrice returns the gold cost of one unit of r at the current price,
// or 0 if r is not tradeable.
func (m Market) BuyPrice(r Resource) int64 {
	e := m.Entries[r]
	if e == nil {
		return 0
	}
	return int64(BaseBuyPrice) * int64(e.BuyPricePct) / 100
}

// Sell converts qty units of r into gold at the current sell price, then
// nudges the sell price down (each sale makes the next one worth less).
// Returns the gold credited. A no-op (returns 0) if r is not tradeable or
// the team can't cover qty.
func (t *Team) Sell(r Resource, qty int64) int64 {
	e := t.Market.Entries[r]
	if e == nil || qty <= 0 || t.Stockpile[r] < qty {
		return 0
	}
	gold := int64(BaseSellPrice) * int64(e.SellPricePct) / 100 * qty
	t.Stockpile[r] -= qty
	t.Stockpile[ResourceGold] += gold
	e.SellPricePct -= MarketPriceStep
	if e.SellPricePct < MinPrice {
		e.SellPricePct = MinPrice
	}
	return gold
}

// Buy converts gold into qty units of r at the current buy price, then
// nudges the buy price up. Returns the quantity bought, or 0 if r is not
// tradeable or the team can't cover the gold cost.
func (t *Team) Buy(r Resource, qty int64) int64 {
	e := t.Market.Entries[r]
	if e == nil || qty <= 0 {
		return 0
	}
	cost := int64(BaseBuyPrice) * int64(e.BuyPricePct) / 100 * qty
	if t.Stockpile[ResourceGold] < cost {
		return 0
	}
	t.Stockpile[ResourceGold] -= cost
	t.Stockpile[r] += qty
	e.BuyPricePct += MarketPriceStep
	if e.BuyPricePct > MaxPrice {
		e.BuyPricePct = MaxPrice
	}
	return qty
}

// Decay reverts both prices of every entry one step toward par (100%),
// called every MarketDecayInterval ticks by the engine's
// tickMarketCooldowns so idle markets slowly recover instead of staying
// pinned at an extreme. Walks
// maps.Keys in a fixed sorted order rather than ranging over m.Entries
// directly: each entry updates independently, but spec.md Section 5's
// determinism contract asks for a single fixed sequence of state
// mutations, and plain map iteration order is randomized per Go process.
func (m Market) Decay() {
	keys := maps.Keys(m.Entries)
	slices.Sort(keys)
	for _, r := range keys {
		e := m.Entries[r]
		e.SellPricePct = stepToward(e.SellPricePct, 100, MarketDecayStep)
		e.BuyPricePct = stepToward(e.BuyPricePct, 100, MarketDecayStep)
	}
}

func stepToward(cur, target, step int) int {
	if cur < target {
		cur += step
		if cur > target {
			cur = target
		}
	} else if cur > target {
		cur -= step
		if cur < target {
			cur = target
		}
	}
	return cur
}
