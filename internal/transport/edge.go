package transport

import (
	"fmt"

	"github.com/udisondev/tilepath/internal/geo"
)

// Kind tags the mechanism behind an edge. The search treats every kind the
// same way: a non-adjacent link with a fixed surcharge.
type Kind uint8

const (
	KindTransport Kind = iota
	KindFairyRing
	KindSpiritTree
)

// Default surcharges per kind.
const (
	CostTransport  = 5
	CostSpiritTree = 6
	CostFairyRing  = 15
)

var kindNames = [...]string{
	KindTransport:  "transport",
	KindFairyRing:  "fairy_ring",
	KindSpiritTree: "spirit_tree",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", k)
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, error) {
	for i, name := range kindNames {
		if name == s {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown transport kind %q", s)
}

// DefaultCost returns the surcharge used when a catalogue entry does not set one.
func (k Kind) DefaultCost() int {
	switch k {
	case KindFairyRing:
		return CostFairyRing
	case KindSpiritTree:
		return CostSpiritTree
	default:
		return CostTransport
	}
}

// Edge is a fixed-cost link from Origin to Destination.
type Edge struct {
	Origin      geo.PackedPoint
	Destination geo.PackedPoint
	Cost        int
	Kind        Kind
	ObjectID    int
	Option      string // menu option, e.g. "Climb-up"
	Target      string // menu target, e.g. "Ladder"
}

func (e Edge) String() string {
	return fmt.Sprintf("%s %s -> %s (+%d)", e.Kind, e.Origin, e.Destination, e.Cost)
}
