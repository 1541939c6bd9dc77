package metric

import "fmt"

// Type categorizes how a metric is measured on the remote hiscores.
type Type string

const (
	TypeSkill    Type = "skill"
	TypeBoss     Type = "boss"
	TypeActivity Type = "activity"
	TypeComputed Type = "computed"
)

// Metric identifies one tracked hiscores figure.
type Metric string

const (
	Overall      Metric = "overall"
	Attack       Metric = "attack"
	Defence      Metric = "defence"
	Strength     Metric = "strength"
	Hitpoints    Metric = "hitpoints"
	Ranged       Metric = "ranged"
	Prayer       Metric = "prayer"
	Magic        Metric = "magic"
	Cooking      Metric = "cooking"
	Woodcutting  Metric = "woodcutting"
	Fletching    Metric = "fletching"
	Fishing      Metric = "fishing"
	Firemaking   Metric = "firemaking"
	Crafting     Metric = "crafting"
	Smithing     Metric = "smithing"
	Mining       Metric = "mining"
	Herblore     Metric = "herblore"
	Agility      Metric = "agility"
	Thieving     Metric = "thieving"
	Slayer       Metric = "slayer"
	Farming      Metric = "farming"
	Runecrafting Metric = "runecrafting"
	Hunter       Metric = "hunter"
	Construction Metric = "construction"

	Barrows         Metric = "barrows_chests"
	Bryophyta       Metric = "bryophyta"
	Cerberus        Metric = "cerberus"
	ChambersOfXeric Metric = "chambers_of_xeric"
	CorporealBeast  Metric = "corporeal_beast"
	GeneralGraardor Metric = "general_graardor"
	GiantMole       Metric = "giant_mole"
	KalphiteQueen   Metric = "kalphite_queen"
	KingBlackDragon Metric = "king_black_dragon"
	Kraken          Metric = "kraken"
	Nightmare       Metric = "nightmare"
	Obor            Metric = "obor"
	TheatreOfBlood  Metric = "theatre_of_blood"
	TzKalZuk        Metric = "tzkal_zuk"
	TzTokJad        Metric = "tztok_jad"
	Vorkath         Metric = "vorkath"
	Zulrah          Metric = "zulrah"

	BountyHunter      Metric = "bounty_hunter_hunter"
	ClueScrollsAll    Metric = "clue_scrolls_all"
	LastManStanding   Metric = "last_man_standing"
	LeaguePoints      Metric = "league_points"
	SoulWarsZeal      Metric = "soul_wars_zeal"
	RiftsClosed       Metric = "rifts_closed"

	EHP Metric = "ehp"
	EHB Metric = "ehb"
)

// Descriptor carries a metric's static display and interpretation properties.
type Descriptor struct {
	Name    Metric
	Display string
	Measure string
	Type    Type
	// Minimum is the smallest value the remote hiscores expose a rank for.
	// Values below it exist but must be presented as "< Minimum".
	Minimum int64
}

const (
	MeasureExperience = "experience"
	MeasureKills      = "kills"
	MeasureScore      = "score"
	MeasureValue      = "value"
)

var descriptors = buildDescriptors()

func buildDescriptors() map[Metric]Descriptor {
	out := make(map[Metric]Descriptor, 64)

	skills := map[Metric]string{
		Overall: "Overall", Attack: "Attack", Defence: "Defence", Strength: "Strength",
		Hitpoints: "Hitpoints", Ranged: "Ranged", Prayer: "Prayer", Magic: "Magic",
		Cooking: "Cooking", Woodcutting: "Woodcutting", Fletching: "Fletching",
		Fishing: "Fishing", Firemaking: "Firemaking", Crafting: "Crafting",
		Smithing: "Smithing", Mining: "Mining", Herblore: "Herblore", Agility: "Agility",
		Thieving: "Thieving", Slayer: "Slayer", Farming: "Farming",
		Runecrafting: "Runecrafting", Hunter: "Hunter", Construction: "Construction",
	}
	for name, display := range skills {
		out[name] = Descriptor{Name: name, Display: display, Measure: MeasureExperience, Type: TypeSkill}
	}

	bosses := map[Metric]string{
		Barrows: "Barrows Chests", Bryophyta: "Bryophyta", Cerberus: "Cerberus",
		ChambersOfXeric: "Chambers Of Xeric", CorporealBeast: "Corporeal Beast",
		GeneralGraardor: "General Graardor", GiantMole: "Giant Mole",
		KalphiteQueen: "Kalphite Queen", KingBlackDragon: "King Black Dragon",
		Kraken: "Kraken", Nightmare: "Nightmare", Obor: "Obor",
		TheatreOfBlood: "Theatre Of Blood", TzKalZuk: "TzKal-Zuk", TzTokJad: "TzTok-Jad",
		Vorkath: "Vorkath", Zulrah: "Zulrah",
	}
	for name, display := range bosses {
		out[name] = Descriptor{Name: name, Display: display, Measure: MeasureKills, Type: TypeBoss, Minimum: minimumBossKC(name)}
	}

	activities := map[Metric]string{
		BountyHunter: "Bounty Hunter (Hunter)", ClueScrollsAll: "Clue Scrolls (All)",
		LastManStanding: "Last Man Standing", LeaguePoints: "League Points",
		SoulWarsZeal: "Soul Wars Zeal", RiftsClosed: "Rifts Closed",
	}
	for name, display := range activities {
		out[name] = Descriptor{Name: name, Display: display, Measure: MeasureScore, Type: TypeActivity, Minimum: 1}
	}

	out[EHP] = Descriptor{Name: EHP, Display: "EHP", Measure: MeasureValue, Type: TypeComputed}
	out[EHB] = Descriptor{Name: EHB, Display: "EHB", Measure: MeasureValue, Type: TypeComputed}

	return out
}

// The hiscores hide boss kill counts below 50, except a handful of
// one-off encounters ranked from the first kill.
func minimumBossKC(name Metric) int64 {
	switch name {
	case TzKalZuk, TzTokJad, Bryophyta, Obor:
		return 1
	default:
		return 50
	}
}

func Lookup(name Metric) (Descriptor, bool) {
	d, ok := descriptors[name]
	return d, ok
}

func IsValid(name Metric) bool {
	_, ok := descriptors[name]
	return ok
}

func All() []Descriptor {
	out := make([]Descriptor, 0, len(descriptors))
	for _, d := range descriptors {
		out = append(out, d)
	}
	return out
}

// MinimumValue returns the hiscores exposure floor for a metric, 0 when the
// metric has none (skills, computed metrics) or is unknown.
func MinimumValue(name Metric) int64 {
	d, ok := descriptors[name]
	if !ok {
		return 0
	}
	return d.Minimum
}

func (m Metric) Validate() error {
	if _, ok := descriptors[m]; !ok {
		return fmt.Errorf("unknown metric: %s", string(m))
	}
	return nil
}
