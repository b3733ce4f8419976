package transport

import "github.com/udisondev/tilepath/internal/geo"

// FairyRing is a fairy ring location, identified by its dial code.
type FairyRing struct {
	Code  string
	Point geo.Point
	Quest string
}

// SpiritTree is a spirit tree location.
type SpiritTree struct {
	Name     string
	Point    geo.Point
	ObjectID int
	Option   string
}

// FairyRings is the fixed fairy ring network.
var FairyRings = []FairyRing{
	{Code: "AIQ", Point: geo.Point{X: 2996, Y: 3114}},
	{Code: "AIR", Point: geo.Point{X: 2700, Y: 3247}},
	{Code: "AJQ", Point: geo.Point{X: 2735, Y: 5221}, Quest: "Death to the Dorgeshuun"},
	{Code: "AJR", Point: geo.Point{X: 2780, Y: 3613}},
	{Code: "AJS", Point: geo.Point{X: 2500, Y: 3896}},
	{Code: "AJP", Point: geo.Point{X: 1651, Y: 3010}, Quest: "Children of the Sun"},
	{Code: "AKP", Point: geo.Point{X: 3284, Y: 2706}, Quest: "Beneath Cursed Sands"},
	{Code: "AKQ", Point: geo.Point{X: 2319, Y: 3619}},
	{Code: "AKR", Point: geo.Point{X: 1826, Y: 3540}},
	{Code: "AKS", Point: geo.Point{X: 2571, Y: 2956}},
	{Code: "ALP", Point: geo.Point{X: 2503, Y: 3636}},
	{Code: "ALQ", Point: geo.Point{X: 3597, Y: 3495}},
	{Code: "ALR", Point: geo.Point{X: 3059, Y: 4875}},
	{Code: "ALS", Point: geo.Point{X: 2644, Y: 3495}},
	{Code: "BIP", Point: geo.Point{X: 3410, Y: 3324}},
	{Code: "BIQ", Point: geo.Point{X: 3251, Y: 3095}},
	{Code: "BIS", Point: geo.Point{X: 2635, Y: 3266}},
	{Code: "BJP", Point: geo.Point{X: 2267, Y: 2976}},
	{Code: "BJR", Point: geo.Point{X: 2650, Y: 4730}, Quest: "Holy Grail"},
	{Code: "BJS", Point: geo.Point{X: 2150, Y: 3070}, Quest: "Regicide"},
	{Code: "BKP", Point: geo.Point{X: 2385, Y: 3035}},
	{Code: "BKQ", Point: geo.Point{X: 3041, Y: 4532}},
	{Code: "BKR", Point: geo.Point{X: 3469, Y: 3431}},
	{Code: "BKS", Point: geo.Point{X: 2412, Y: 4434}},
	{Code: "BLP", Point: geo.Point{X: 2437, Y: 5126}},
	{Code: "BLR", Point: geo.Point{X: 2740, Y: 3351}},
	{Code: "BLS", Point: geo.Point{X: 1295, Y: 3493}},
	{Code: "CIP", Point: geo.Point{X: 2513, Y: 3884}, Quest: "The Fremennik Trials"},
	{Code: "CIQ", Point: geo.Point{X: 2528, Y: 3127}},
	{Code: "CIR", Point: geo.Point{X: 1302, Y: 3762}},
	{Code: "CIS", Point: geo.Point{X: 1639, Y: 3868}},
	{Code: "CJR", Point: geo.Point{X: 2705, Y: 3576}},
	{Code: "CKP", Point: geo.Point{X: 2075, Y: 4848}},
	{Code: "CKR", Point: geo.Point{X: 2801, Y: 3003}},
	{Code: "CKS", Point: geo.Point{X: 3447, Y: 3470}},
	{Code: "CLP", Point: geo.Point{X: 3082, Y: 3206}},
	{Code: "CLR", Point: geo.Point{X: 2740, Y: 2738}, Quest: "Monkey Madness I"},
	{Code: "CLS", Point: geo.Point{X: 2682, Y: 3081}},
	{Code: "DIP", Point: geo.Point{X: 3037, Y: 4763}},
	{Code: "DIQ", Point: geo.Point{X: 2027, Y: 5700}},
	{Code: "DIR", Point: geo.Point{X: 3038, Y: 5348}},
	{Code: "DIS", Point: geo.Point{X: 3108, Y: 3149}},
	{Code: "DJP", Point: geo.Point{X: 2658, Y: 3230}},
	{Code: "DJR", Point: geo.Point{X: 1455, Y: 3658}},
	{Code: "DKP", Point: geo.Point{X: 2900, Y: 3111}},
	{Code: "DKR", Point: geo.Point{X: 3129, Y: 3496}},
	{Code: "DKS", Point: geo.Point{X: 2744, Y: 3719}},
	{Code: "DLQ", Point: geo.Point{X: 3423, Y: 3016}},
	{Code: "DLR", Point: geo.Point{X: 2213, Y: 3099}},
	{Code: "DLS", Point: geo.Point{X: 3447, Y: 9824}, Quest: "In Search of the Myreque"},
}

// SpiritTrees is the fixed spirit tree network.
var SpiritTrees = []SpiritTree{
	{Name: "Tree Gnome Village", Point: geo.Point{X: 2542, Y: 3170}, ObjectID: 1293, Option: "1"},
	{Name: "Gnome Stronghold", Point: geo.Point{X: 2461, Y: 3444}, ObjectID: 1294, Option: "2"},
	{Name: "Battlefield of Khazard", Point: geo.Point{X: 2555, Y: 3259}, ObjectID: 1295, Option: "3"},
	{Name: "Grand Exchange", Point: geo.Point{X: 3185, Y: 3508}, ObjectID: 1295, Option: "4"},
	{Name: "Feldip Hills", Point: geo.Point{X: 2488, Y: 2850}, ObjectID: 1295, Option: "5"},
	{Name: "Prifddinas", Point: geo.Point{X: 3274, Y: 6123}, ObjectID: 37329, Option: "6"},
	{Name: "Port Sarim", Point: geo.Point{X: 3058, Y: 3257}, ObjectID: 8338, Option: "7"},
	{Name: "Etceteria", Point: geo.Point{X: 2613, Y: 3855}, ObjectID: 8382, Option: "8"},
	{Name: "Brimhaven", Point: geo.Point{X: 2800, Y: 3203}, ObjectID: 8383, Option: "9"},
	{Name: "Hosidius", Point: geo.Point{X: 1693, Y: 3540}, ObjectID: 27116, Option: "A"},
	{Name: "Farming Guild", Point: geo.Point{X: 1251, Y: 3750}, ObjectID: 33733, Option: "B"},
	{Name: "Poison Waste", Point: geo.Point{X: 2339, Y: 3109}, ObjectID: 49598, Option: "D"},
}

// Catalogue is the static edge list before capability filtering.
type Catalogue struct {
	Records     []Record
	FairyRings  []FairyRing
	SpiritTrees []SpiritTree
}

// NewCatalogue combines CSV-style records with the built-in networks.
func NewCatalogue(records []Record) *Catalogue {
	return &Catalogue{Records: records, FairyRings: FairyRings, SpiritTrees: SpiritTrees}
}

// Edges returns every edge the capabilities unlock.
func (c *Catalogue) Edges(caps Capabilities) []Edge {
	edges := make([]Edge, 0, len(c.Records))
	for _, r := range c.Records {
		if r.Met(caps) {
			edges = append(edges, r.Edge)
		}
	}

	if caps.FairyRings {
		var open []FairyRing
		for _, ring := range c.FairyRings {
			if ring.Quest == "" || caps.QuestCompleted(ring.Quest) {
				open = append(open, ring)
			}
		}
		for _, src := range open {
			for _, dst := range open {
				if src.Code == dst.Code {
					continue
				}
				edges = append(edges, Edge{
					Origin:      src.Point.Pack(),
					Destination: dst.Point.Pack(),
					Cost:        CostFairyRing,
					Kind:        KindFairyRing,
					Option:      dst.Code,
				})
			}
		}
	}

	if caps.SpiritTrees {
		for _, src := range c.SpiritTrees {
			for _, dst := range c.SpiritTrees {
				if src.Name == dst.Name {
					continue
				}
				edges = append(edges, Edge{
					Origin:      src.Point.Pack(),
					Destination: dst.Point.Pack(),
					Cost:        CostSpiritTree,
					Kind:        KindSpiritTree,
					ObjectID:    src.ObjectID,
					Option:      dst.Option,
				})
			}
		}
	}
	return edges
}

// Table builds the lookup table for caps.
func (c *Catalogue) Table(caps Capabilities) (*Table, error) {
	return NewTable(c.Edges(caps))
}
