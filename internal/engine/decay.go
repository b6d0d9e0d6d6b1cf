// Building autonomics and per-tick decay: tower fire, market cooldown and
// price decay, monastery relic income, and the various small per-entity
// counters that tick down every step (spec.md Section 4.1 phases 6 and 8).
// Grounded on the teacher's Settlement upkeep-tick shape: a handful of
// small, independent per-category sweeps run every tick rather than one
// monolithic update.
package engine

import (
	"github.com/talgya/rts-sim/internal/gridworld"
	"github.com/talgya/rts-sim/internal/teamstate"
)

// GuardTowerRange/Damage/FireInterval are the representative stats for a
// GuardTower's autonomous fire (spec.md names GuardTower as a building
// kind but leaves its behavior to the implementer; grounded on Castle's
// documented role as a defensive structure, generalized down a tier).
const (
	GuardTowerRange        = 5
	GuardTowerDamage       = 8
	GuardTowerFireInterval = 10
)

// tickTowers fires each live GuardTower at the nearest enemy agent within
// range, once its fire-interval cooldown (stored on Cooldown2) has
// elapsed.
func (s *Simulation) tickTowers() {
	w := s.World
	for _, h := range w.ByKind(gridworld.KindGuardTower) {
		tower := w.Entity(h)
		if tower == nil || !tower.Alive {
			continue
		}
		if tower.Cooldown2 > 0 {
			tower.Cooldown2--
			continue
		}
		target := s.nearestEnemyAgent(tower.Pos, tower.EffectiveTeam(), GuardTowerRange)
		if target == nil {
			continue
		}
		target.HP -= GuardTowerDamage
		w.Grid.MarkDirty(target.Pos)
		if target.HP <= 0 {
			s.killEntity(target)
		}
		tower.Cooldown2 = GuardTowerFireInterval
	}
}

// nearestEnemyAgent scans every live agent within range tiles (Manhattan)
// of pos not allied with team, returning the closest.
func (s *Simulation) nearestEnemyAgent(pos gridworld.Coord, team, rangeTiles int) *gridworld.Entity {
	w := s.World
	var best *gridworld.Entity
	bestDist := rangeTiles + 1
	for _, h := range w.ByKind(gridworld.KindAgent) {
		e := w.Entity(h)
		if e == nil || !e.Alive {
			continue
		}
		if e.EffectiveTeam() == team || w.Teams[team].Allied(e.EffectiveTeam()) {
			continue
		}
		d := gridworld.ManhattanDist(pos, e.Pos)
		if d <= rangeTiles && d < bestDist {
			bestDist = d
			best = e
		}
	}
	return best
}

// tickTownBell is a named pipeline seam for parity with spec.md's phase
// list (spec.md Section 4.5's town bell is a one-shot recall triggered by
// a Use action, handled synchronously in production.go's
// handleTownBell); no building carries a standing alarm state that needs
// a per-tick update.
func (s *Simulation) tickTownBell() {}

// MonasteryGoldInterval/PerRelic give monastery-held relics a small,
// steady trade income (spec.md Section 4.7 names relics as a victory
// resource but, per original_source, they also generate income while
// garrisoned — a feature the distilled spec drops; see DESIGN.md).
const (
	MonasteryGoldInterval = 20
	MonasteryGoldPerRelic = 1
)

// tickMonasteryGold credits each team gold for every relic its
// Monasteries hold, once every MonasteryGoldInterval ticks (tracked per
// building via Cooldown2, a field otherwise unused by Monastery).
func (s *Simulation) tickMonasteryGold() {
	w := s.World
	for _, h := range w.ByKind(gridworld.KindMonastery) {
		m := w.Entity(h)
		if m == nil || !m.Alive || m.GarrisonedRelics <= 0 {
			continue
		}
		if m.Cooldown2 > 0 {
			m.Cooldown2--
			continue
		}
		w.Teams[m.EffectiveTeam()].Credit(teamstate.ResourceGold, int64(m.GarrisonedRelics*MonasteryGoldPerRelic))
		m.Cooldown2 = MonasteryGoldInterval
	}
}

// tickMarketCooldowns counts down every Market's trade cooldown and
// decays every team's prices toward par (spec.md Section 4.4: "Prices
// decay toward BasePrice every PriceDecayInterval ticks").
const MarketDecayInterval = 25

func (s *Simulation) tickMarketCooldowns() {
	w := s.World
	for _, h := range w.ByKind(gridworld.KindMarket) {
		market := w.Entity(h)
		if market == nil || !market.Alive {
			continue
		}
		if market.Cooldown2 > 0 {
			market.Cooldown2--
		}
	}
	if w.CurrentStep%MarketDecayInterval == 0 {
		for _, team := range w.Teams {
			team.Market.Decay()
		}
	}
}

// tickDecay advances every small per-entity counter by one step: attack
// cooldown, frozen status, monk faith recharge, wildlife scatter, and the
// death-tint timer (spec.md Section 4.3's DeathTintDuration).
func (s *Simulation) tickDecay() {
	w := s.World

	for _, h := range w.ByKind(gridworld.KindAgent) {
		e := w.Entity(h)
		if e == nil || !e.Alive {
			continue
		}
		if e.Cooldown > 0 {
			e.Cooldown--
		}
		if e.Frozen > 0 {
			e.Frozen--
		}
		if e.UnitClass == gridworld.ClassMonk && e.Faith < MonkMaxFaith {
			e.Faith += MonkFaithRechargeRate
			if e.Faith > MonkMaxFaith {
				e.Faith = MonkMaxFaith
			}
		}
	}

	for _, kind := range [3]gridworld.EntityKind{gridworld.KindCow, gridworld.KindWolf, gridworld.KindBear} {
		for _, h := range w.ByKind(kind) {
			e := w.Entity(h)
			if e != nil && e.Alive && e.ScatteredSteps > 0 {
				e.ScatteredSteps--
			}
		}
	}

	for _, h := range w.ByKind(gridworld.KindCorpse) {
		e := w.Entity(h)
		if e == nil || !e.Alive {
			continue
		}
		if e.DeathTintTicksLeft > 0 {
			e.DeathTintTicksLeft--
		} else {
			w.Destroy(h)
		}
	}

	for t := range w.Teams {
		if w.Teams[t].CastleTechs.Cooldown > 0 {
			w.Teams[t].CastleTechs.Cooldown--
		}
	}
}
