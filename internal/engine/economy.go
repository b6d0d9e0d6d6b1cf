// Gathering, drop-off, market trade, and trade-route economy (spec.md
// Section 4.4). Grounded on the teacher's internal/economy.Market
// (percent-adjusted buy/sell prices) adapted to operate on a unit's
// carried Inventory instead of a settlement ledger directly, and on
// internal/social.Settlement.Treasury's simple credit/debit accessors.
package engine

import (
	"github.com/talgya/rts-sim/internal/gridworld"
	"github.com/talgya/rts-sim/internal/teamstate"
)

// villagerBaseCarryCap is a villager's unmodified carry capacity (spec.md
// Section 4.4).
const villagerBaseCarryCap = 10

// baseGatherYield is the unmodified amount harvested per Use action
// (spec.md Section 4.4: "gather-rate bonuses ... add integers to the
// per-action yield").
const baseGatherYield = 1

// MarketCooldownTicks is how long a Market stays unusable after a trade
// (spec.md Section 4.4).
const MarketCooldownTicks = 50

// TradeDistanceDivisor and TradeGoldPerDistance compute a Trade Cog's
// delivery payout (spec.md Section 4.4 / Section 8 scenario 6).
const (
	TradeDistanceDivisor  = 5
	TradeGoldPerDistance = 2
)

// handleUse resolves one Use action. arg 0..7 names a target direction;
// 8/9/10 are the sentinel pack-unpack / ungarrison-all / town-bell
// arguments (spec.md Section 6).
func (s *Simulation) handleUse(agentID int, arg uint8) {
	w := s.World
	h := w.AgentEntity[agentID]
	e := w.Entity(h)
	if e == nil || !e.Alive || e.IsGarrisoned {
		return
	}

	switch arg {
	case 8:
		s.handlePackToggle(e)
		return
	case 9:
		s.handleUngarrisonAll(e)
		return
	case gridworld.TownBellArg:
		s.handleTownBell(e)
		return
	}
	if arg > 7 {
		return
	}

	o := gridworld.Orientation(arg)
	e.Orientation = o
	target := w.EntityAt(e.Pos.Add(o))
	if target == nil || !target.Alive {
		return
	}
	friendly := target.EffectiveTeam() == e.EffectiveTeam()

	switch {
	case target.Kind.IsResourceNode() && e.UnitClass == gridworld.ClassVillager:
		s.handleGather(e, target)
	case friendly && isDropoffBuilding(target.Kind) && e.UnitClass == gridworld.ClassVillager:
		s.handleDropoff(e, target)
	case friendly && target.Kind == gridworld.KindMarket:
		s.handleMarketTrade(e, target)
	case friendly && target.Kind == gridworld.KindUniversity && e.UnitClass == gridworld.ClassVillager:
		s.handleUniversityResearch(e, target)
	case friendly && target.Kind == gridworld.KindBlacksmith && e.UnitClass == gridworld.ClassVillager:
		s.handleBlacksmithResearch(e, target)
	case friendly && target.Kind == gridworld.KindCastle && e.UnitClass == gridworld.ClassVillager:
		s.handleCastleUse(e, target)
	case friendly && target.Kind.IsTrainingBuilding() && e.UnitClass == gridworld.ClassVillager:
		s.handleTrainingUse(e, target)
	case friendly && target.Kind.IsGarrisonable():
		s.handleGarrison(e, target)
	}
}

// handleGather removes one (plus gather-rate bonus) unit of node's resource
// into e's inventory, up to carry capacity, destroying the node once
// depleted (spec.md Section 4.4).
func (s *Simulation) handleGather(e, node *gridworld.Entity) {
	w := s.World
	resource := gatherResourceKind(node.Kind)
	available := node.Inventory[resource]
	if available <= 0 {
		return
	}
	cap := carryCapacity(w.Teams[e.EffectiveTeam()])
	room := cap - e.Inventory.Total()
	if room <= 0 {
		return
	}

	amount := baseGatherYield + gatherRateBonus(w.Teams[e.EffectiveTeam()], resource)
	if amount > room {
		amount = room
	}
	if amount > available {
		amount = available
	}
	if amount <= 0 {
		return
	}

	node.Inventory[resource] -= amount
	e.Inventory[resource] += amount
	if node.Inventory[resource] <= 0 {
		w.Destroy(node.Handle)
	}
}

// gatherResourceKind maps a resource-node kind to the inventory slot it
// yields; Fish yields Meat directly rather than Food (spec.md Section 4.4
// names Wheat as the only field crop requiring Mill processing).
func gatherResourceKind(kind gridworld.EntityKind) gridworld.ResourceType {
	switch kind {
	case gridworld.KindTree:
		return gridworld.ResourceWood
	case gridworld.KindGold:
		return gridworld.ResourceGold
	case gridworld.KindStone:
		return gridworld.ResourceStone
	case gridworld.KindWheat:
		return gridworld.ResourceWheat
	case gridworld.KindFish:
		return gridworld.ResourceMeat
	default:
		return gridworld.ResourceWood
	}
}

// carryCapacity returns a villager's current carry capacity: base plus
// the team's Wheelbarrow/HandCart economy-tech bonus.
func carryCapacity(team *teamstate.Team) int {
	return villagerBaseCarryCap + team.Modifiers.CarryCapacityBonus
}

// gatherRateBonus returns the flat per-action yield bonus from the team's
// wood/gold/stone/food economy techs for the carried resource (Wheat and
// Food share the food-chain bonus), 0 for resources with no matching
// chain (Meat).
func gatherRateBonus(team *teamstate.Team, r gridworld.ResourceType) int {
	switch r {
	case gridworld.ResourceWood:
		return team.Modifiers.GatherRateBonus[teamstate.ResourceWood]
	case gridworld.ResourceGold:
		return team.Modifiers.GatherRateBonus[teamstate.ResourceGold]
	case gridworld.ResourceStone:
		return team.Modifiers.GatherRateBonus[teamstate.ResourceStone]
	case gridworld.ResourceWheat, gridworld.ResourceFood:
		return team.Modifiers.GatherRateBonus[teamstate.ResourceFood]
	default:
		return 0
	}
}

// isDropoffBuilding reports whether k accepts at least one resource type
// (spec.md Section 4.4: "TownCenter for any; LumberCamp for wood;
// MiningCamp for gold/stone; Mill for wheat").
func isDropoffBuilding(k gridworld.EntityKind) bool {
	switch k {
	case gridworld.KindTownCenter, gridworld.KindLumberCamp, gridworld.KindMiningCamp, gridworld.KindMill:
		return true
	default:
		return false
	}
}

// dropoffAccepts reports whether building kind k accepts resource r.
func dropoffAccepts(k gridworld.EntityKind, r gridworld.ResourceType) bool {
	switch k {
	case gridworld.KindTownCenter:
		return true
	case gridworld.KindLumberCamp:
		return r == gridworld.ResourceWood
	case gridworld.KindMiningCamp:
		return r == gridworld.ResourceGold || r == gridworld.ResourceStone
	case gridworld.KindMill:
		return r == gridworld.ResourceWheat
	default:
		return false
	}
}

// handleDropoff transfers every resource e carries that building accepts
// into the team stockpile, converting Wheat to Food via a Mill (spec.md
// Section 4.4).
func (s *Simulation) handleDropoff(e, building *gridworld.Entity) {
	team := s.World.Teams[e.EffectiveTeam()]
	for r := gridworld.ResourceType(0); r <= gridworld.ResourceWheat; r++ {
		qty := e.Inventory[r]
		if qty <= 0 || !dropoffAccepts(building.Kind, r) {
			continue
		}
		team.Credit(stockpileResourceFor(r), int64(qty))
		e.Inventory[r] = 0
	}
}

// stockpileResourceFor maps a carried resource to its stockpile bucket;
// Wheat deposits as Food.
func stockpileResourceFor(r gridworld.ResourceType) teamstate.Resource {
	switch r {
	case gridworld.ResourceWood:
		return teamstate.ResourceWood
	case gridworld.ResourceGold:
		return teamstate.ResourceGold
	case gridworld.ResourceStone:
		return teamstate.ResourceStone
	default: // Food, Wheat
		return teamstate.ResourceFood
	}
}

// handleMarketTrade converts e's carried Wood into stockpile Gold and its
// carried Gold into stockpile Food, simultaneously, then puts the
// building on cooldown (spec.md Section 4.4, Section 8 scenario 3).
func (s *Simulation) handleMarketTrade(e, market *gridworld.Entity) {
	if market.Cooldown2 > 0 {
		return
	}
	team := s.World.Teams[e.EffectiveTeam()]
	traded := false

	if wood := e.Inventory[gridworld.ResourceWood]; wood > 0 {
		entry := team.Market.Entries[teamstate.ResourceWood]
		gold := int64(teamstate.BaseSellPrice) * int64(entry.SellPricePct) / 100 * int64(wood)
		team.Credit(teamstate.ResourceGold, gold)
		e.Inventory[gridworld.ResourceWood] = 0
		entry.SellPricePct -= teamstate.MarketPriceStep
		if entry.SellPricePct < teamstate.MinPrice {
			entry.SellPricePct = teamstate.MinPrice
		}
		traded = true
	}

	if gold := e.Inventory[gridworld.ResourceGold]; gold > 0 {
		entry := team.Market.Entries[teamstate.ResourceFood]
		pricePerFood := int64(teamstate.BaseBuyPrice) * int64(entry.BuyPricePct) / 100
		if pricePerFood < 1 {
			pricePerFood = 1
		}
		food := int64(gold) / pricePerFood
		if food > 0 {
			team.Credit(teamstate.ResourceFood, food)
			e.Inventory[gridworld.ResourceGold] -= int(food * pricePerFood)
			entry.BuyPricePct += teamstate.MarketPriceStep
			if entry.BuyPricePct > teamstate.MaxPrice {
				entry.BuyPricePct = teamstate.MaxPrice
			}
			traded = true
		}
	}

	if traded {
		market.Cooldown2 = MarketCooldownTicks
	}
}

// handleTradeCogArrival awards gold when a Trade Cog arrives adjacent to
// a friendly Dock other than its home dock, then flips its home dock
// (spec.md Section 4.4, Section 8 scenario 6). Called from movement
// whenever a Trade Cog's step lands it adjacent to a Dock.
func (s *Simulation) handleTradeCogArrival(cog *gridworld.Entity) {
	w := s.World
	if cog.UnitClass != gridworld.ClassTradeCog {
		return
	}
	for _, n := range gridworld.EightNeighbors(cog.Pos) {
		dock := w.EntityAt(n)
		if dock == nil || !dock.Alive || dock.Kind != gridworld.KindDock {
			continue
		}
		if dock.EffectiveTeam() != cog.EffectiveTeam() || dock.Handle == cog.TradeHomeDock {
			continue
		}
		home := w.Entity(cog.TradeHomeDock)
		dist := 1
		if home != nil {
			dist = gridworld.ManhattanDist(home.Pos, dock.Pos)
		}
		gold := dist / TradeDistanceDivisor * TradeGoldPerDistance
		if gold < 1 {
			gold = 1
		}
		w.Teams[cog.EffectiveTeam()].Credit(teamstate.ResourceGold, int64(gold))
		cog.TradeHomeDock = dock.Handle
		return
	}
}

// handleGive transfers e's entire inventory to an adjacent friendly
// agent in direction o, up to the receiver's carry capacity. Give has no
// dedicated spec.md narrative beyond the action-encoding table (verb=5);
// this direct inventory hand-off is the natural complement to
// gather/dropoff for villager chains that relay resources toward a
// distant depot.
func (s *Simulation) handleGive(agentID int, o gridworld.Orientation) {
	w := s.World
	h := w.AgentEntity[agentID]
	giver := w.Entity(h)
	if giver == nil || !giver.Alive || giver.IsGarrisoned {
		return
	}
	giver.Orientation = o
	target := w.EntityAt(giver.Pos.Add(o))
	if target == nil || !target.Alive || target.Kind != gridworld.KindAgent {
		return
	}
	if target.EffectiveTeam() != giver.EffectiveTeam() {
		return
	}

	cap := carryCapacity(w.Teams[target.EffectiveTeam()])
	for r := gridworld.ResourceType(0); int(r) < gridworld.ResourceTypeCount; r++ {
		room := cap - target.Inventory.Total()
		if room <= 0 {
			break
		}
		qty := giver.Inventory[r]
		if qty <= 0 {
			continue
		}
		if qty > room {
			qty = room
		}
		target.Inventory[r] += qty
		giver.Inventory[r] -= qty
	}
}
