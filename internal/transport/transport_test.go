package transport

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/tilepath/internal/geo"
)

const sampleCSV = `Origin,Destination,menuOption,menuTarget,objectID,Skills,Quests,Diary,Cost
3143 3514 0,3137 3515 0,Climb-into,Pipe,16509,51 agility,,,
2880 5311 2,2881 5310 0,Climb-down,Ladder,26418,,,,
# 3000 3000 0,3001 3001 0,Disabled,Thing,1,,,,
,,,,,,,,
3200 3200 0,3210 3210 1,Enter,Portal,99,,Dragon Slayer I,Varrock easy diary,2
`

func TestParseCSV(t *testing.T) {
	records, err := ParseCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	require.Len(t, records, 3)

	first := records[0]
	assert.Equal(t, geo.Pack(3143, 3514, 0), first.Origin)
	assert.Equal(t, geo.Pack(3137, 3515, 0), first.Destination)
	assert.Equal(t, "Climb-into", first.Option)
	assert.Equal(t, "Pipe", first.Target)
	assert.Equal(t, 16509, first.ObjectID)
	assert.Equal(t, CostTransport, first.Cost)
	assert.Equal(t, KindTransport, first.Kind)
	assert.Equal(t, []SkillReq{{Skill: "agility", Level: 51}}, first.Skills)

	assert.Equal(t, 2, records[1].Origin.Plane())
	assert.Empty(t, records[1].Skills)

	last := records[2]
	assert.Equal(t, "Dragon Slayer I", last.Quest)
	assert.Equal(t, "Varrock easy diary", last.Diary)
	assert.Equal(t, 2, last.Cost)
}

func TestParseCSVErrors(t *testing.T) {
	tests := []struct {
		name string
		row  string
	}{
		{"short point", "3143 3514,3137 3515 0,x,y,1"},
		{"non numeric", "a b c,3137 3515 0,x,y,1"},
		{"out of range", "40000 3514 0,3137 3515 0,x,y,1"},
		{"bad object id", "3143 3514 0,3137 3515 0,x,y,abc"},
		{"bad skill", "3143 3514 0,3137 3515 0,x,y,1,agility"},
		{"negative cost", "3143 3514 0,3137 3515 0,x,y,1,,,,-3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCSV(strings.NewReader("header\n" + tt.row + "\n"))
			assert.Error(t, err)
		})
	}
}

func TestParseCSVEmpty(t *testing.T) {
	records, err := ParseCSV(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestParsePoint(t *testing.T) {
	p, err := ParsePoint(" 3222  3218 1 ")
	require.NoError(t, err)
	assert.Equal(t, geo.Point{X: 3222, Y: 3218, Plane: 1}, p)

	_, err = ParsePoint("1 2 4")
	assert.ErrorIs(t, err, ErrBadPoint)
}

func TestSkillReqsRoundTrip(t *testing.T) {
	reqs, err := ParseSkillReqs("70 Agility; 52 thieving")
	require.NoError(t, err)
	assert.Equal(t, []SkillReq{{"agility", 70}, {"thieving", 52}}, reqs)
	assert.Equal(t, "70 agility;52 thieving", FormatSkillReqs(reqs))
}

func TestRequirementsMet(t *testing.T) {
	caps := Capabilities{
		Skills:  map[string]int{"Agility": 60},
		Quests:  []string{"Dragon Slayer I"},
		Diaries: []string{"varrock easy diary"},
	}

	tests := []struct {
		name string
		req  Requirements
		want bool
	}{
		{"none", Requirements{}, true},
		{"skill met", Requirements{Skills: []SkillReq{{"agility", 60}}}, true},
		{"skill short", Requirements{Skills: []SkillReq{{"agility", 61}}}, false},
		{"unknown skill defaults to 1", Requirements{Skills: []SkillReq{{"mining", 2}}}, false},
		{"quest met", Requirements{Quest: "dragon slayer i"}, true},
		{"quest missing", Requirements{Quest: "Regicide"}, false},
		{"diary met", Requirements{Diary: "Varrock Easy Diary"}, true},
		{"diary missing", Requirements{Diary: "Ardougne hard diary"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.req.Met(caps))
		})
	}
}

func TestCatalogueEdges(t *testing.T) {
	records := []Record{
		{Edge: Edge{Origin: geo.Pack(1, 1, 0), Destination: geo.Pack(2, 2, 0), Cost: 5}},
		{
			Edge:         Edge{Origin: geo.Pack(3, 3, 0), Destination: geo.Pack(4, 4, 0), Cost: 5},
			Requirements: Requirements{Quest: "Regicide"},
		},
	}
	c := NewCatalogue(records)

	plain := c.Edges(Capabilities{})
	assert.Len(t, plain, 1)

	withQuest := c.Edges(Capabilities{Quests: []string{"Regicide"}})
	assert.Len(t, withQuest, 2)

	trees := len(SpiritTrees)
	withTrees := c.Edges(Capabilities{SpiritTrees: true})
	assert.Len(t, withTrees, 1+trees*(trees-1))

	open := 0
	for _, r := range FairyRings {
		if r.Quest == "" {
			open++
		}
	}
	withRings := c.Edges(Capabilities{FairyRings: true})
	assert.Len(t, withRings, 1+open*(open-1))
	for _, e := range withRings[1:] {
		assert.Equal(t, KindFairyRing, e.Kind)
		assert.Equal(t, CostFairyRing, e.Cost)
		assert.NotEqual(t, e.Origin, e.Destination)
	}
}

func TestTable(t *testing.T) {
	a, b := geo.Pack(10, 10, 0), geo.Pack(20, 20, 0)
	table, err := NewTable([]Edge{
		{Origin: a, Destination: b, Cost: 3},
		{Origin: a, Destination: geo.Pack(30, 30, 0), Cost: 4},
		{Origin: b, Destination: a, Cost: 3},
	})
	require.NoError(t, err)

	assert.Equal(t, 3, table.Len())
	assert.Equal(t, 2, table.Origins())
	assert.Len(t, table.Edges(a), 2)
	assert.Len(t, table.Edges(b), 1)
	assert.Empty(t, table.Edges(geo.Pack(1, 1, 0)))

	var nilTable *Table
	assert.Empty(t, nilTable.Edges(a))
	assert.Zero(t, nilTable.Len())
}

func TestKind(t *testing.T) {
	for _, k := range []Kind{KindTransport, KindFairyRing, KindSpiritTree} {
		parsed, err := ParseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, parsed)
	}
	_, err := ParseKind("balloon")
	assert.Error(t, err)
	assert.Equal(t, CostFairyRing, KindFairyRing.DefaultCost())
}

func TestLoadCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transports.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o644))

	records, err := LoadCSV(path)
	require.NoError(t, err)
	assert.Len(t, records, 3)

	_, err = LoadCSV(filepath.Join(t.TempDir(), "missing.csv"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
