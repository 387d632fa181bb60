package testutils

import (
	"github.com/KirkDiggler/craft-sim/internal/catalogs"
	"github.com/KirkDiggler/craft-sim/internal/domain/mods"
)

// CreateClawSimulatorPayload creates the two-id physical damage scenario:
// S1 (ilvl 1, 10-19, weight 1000) and S2 (ilvl 35, 20-29, weight 500) share
// one text on base type "claw".
func CreateClawSimulatorPayload() *catalogs.SimulatorPayload {
	return &catalogs.SimulatorPayload{
		Mods: map[string]catalogs.SimulatorMod{
			"S1": {Text: "increased physical damage", Affix: "prefix", Group: "LocalPhysicalDamagePercent"},
			"S2": {Text: "increased physical damage", Affix: "prefix", Group: "LocalPhysicalDamagePercent"},
		},
		Tiers: map[string][]catalogs.SimulatorTierRow{
			"S1": {{Base: "claw", ILvl: 1, Values: [][2]int{{10, 19}}, Weight: 1000}},
			"S2": {{Base: "claw", ILvl: 35, Values: [][2]int{{20, 29}}, Weight: 500}},
		},
	}
}

// CreateClawOfficialPayload creates the official side of the claw scenario
func CreateClawOfficialPayload() *catalogs.OfficialPayload {
	return &catalogs.OfficialPayload{
		Mods: []catalogs.OfficialMod{
			{ID: "O1", Text: "increased physical damage", Type: "explicit"},
		},
	}
}

// CreateMixedSimulatorPayload creates a small catalog with prefixes,
// suffixes, an unmatched mod and two base types
func CreateMixedSimulatorPayload() *catalogs.SimulatorPayload {
	return &catalogs.SimulatorPayload{
		Mods: map[string]catalogs.SimulatorMod{
			"1": {Text: "+# to maximum Life", Affix: "prefix", Group: "IncreasedLife"},
			"2": {Text: "+#% to [Fire|Fire] Resistance", Affix: "suffix", Group: "FireResistance"},
			"3": {Text: "+#% to [Cold|Cold] Resistance", Affix: "suffix", Group: "ColdResistance"},
			"4": {Text: "Adds # to # Physical Damage", Affix: "prefix", Group: "PhysicalDamage"},
			"5": {Text: "#% increased Attack Speed", Affix: "suffix", Group: "IncreasedAttackSpeed"},
			"6": {Text: "+# to Accuracy Ratingg", Affix: "prefix", Group: "IncreasedAccuracy"},
		},
		Tiers: map[string][]catalogs.SimulatorTierRow{
			"1": {
				{Base: "boots", ILvl: 1, Values: [][2]int{{10, 14}}, Weight: 1000},
				{Base: "boots", ILvl: 11, Values: [][2]int{{15, 24}}, Weight: 1000},
				{Base: "boots", ILvl: 44, Values: [][2]int{{40, 49}}, Weight: 500},
			},
			"2": {
				{Base: "boots", ILvl: 1, Values: [][2]int{{6, 11}}, Weight: 1000},
				{Base: "claw", ILvl: 1, Values: [][2]int{{6, 11}}, Weight: 800},
			},
			"3": {
				{Base: "boots", ILvl: 1, Values: [][2]int{{6, 11}}, Weight: 1000},
			},
			"4": {
				{Base: "claw", ILvl: 1, Values: [][2]int{{1, 2}, {4, 5}}, Weight: 1000},
			},
			"5": {
				{Base: "claw", ILvl: 1, Values: [][2]int{{5, 7}}, Weight: 1000},
				{Base: "claw", ILvl: 22, Values: [][2]int{{8, 10}}, Weight: 0},
			},
			"6": {
				{Base: "claw", ILvl: 1, Values: [][2]int{{10, 20}}, Weight: 1000},
			},
		},
	}
}

// CreateMixedOfficialPayload creates the official side of the mixed catalog.
// "+# to Accuracy Ratingg" is deliberately absent so it stays unmatched.
func CreateMixedOfficialPayload() *catalogs.OfficialPayload {
	return &catalogs.OfficialPayload{
		Mods: []catalogs.OfficialMod{
			{ID: "explicit.stat_3299347043", Text: "+# to maximum life", Type: "explicit"},
			{ID: "explicit.stat_3372524247", Text: "+#% to fire resistance", Type: "suffix"},
			{ID: "explicit.stat_4220027924", Text: "+#% to cold resistance", Type: "explicit"},
			{ID: "explicit.stat_1940865751", Text: "adds # to # physical damage", Type: "explicit"},
			{ID: "explicit.stat_210067635", Text: "#% increased attack speed", Type: "explicit"},
			{ID: "explicit.stat_803737631", Text: "+# to accuracy rating", Type: "explicit"},
		},
	}
}

// CreateTestItem creates an item with no mods
func CreateTestItem(baseType string, ilvl int, rarity mods.ItemRarity) *mods.Item {
	return &mods.Item{
		BaseType: baseType,
		ILvl:     ilvl,
		Rarity:   rarity,
		Mods:     make(map[mods.AffixClass][]mods.AppliedMod),
	}
}
