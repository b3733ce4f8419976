package transport

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/udisondev/tilepath/internal/geo"
)

// ErrBadPoint is returned for a malformed "x y plane" cell.
var ErrBadPoint = errors.New("malformed point")

// CSV columns.
const (
	colOrigin = iota
	colDestination
	colOption
	colTarget
	colObjectID
	colSkills
	colQuest
	colDiary
	colCost
)

// LoadCSV reads the catalogue file at path.
func LoadCSV(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening transports %s: %w", path, err)
	}
	defer f.Close()

	records, err := ParseCSV(f)
	if err != nil {
		return nil, fmt.Errorf("parsing transports %s: %w", path, err)
	}
	slog.Info("transports loaded", "path", path, "records", len(records))
	return records, nil
}

// ParseCSV reads a transport catalogue. The first row is a header; rows
// starting with '#' and rows without an origin are skipped.
func ParseCSV(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	if _, err := cr.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading transport header: %w", err)
	}

	var records []Record
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return records, nil
		}
		if err != nil {
			return nil, fmt.Errorf("reading transport row: %w", err)
		}
		line, _ := cr.FieldPos(0)

		if strings.TrimSpace(field(row, colOrigin)) == "" {
			continue
		}
		rec, err := parseRow(row)
		if err != nil {
			return nil, fmt.Errorf("transport line %d: %w", line, err)
		}
		records = append(records, rec)
	}
}

func parseRow(row []string) (Record, error) {
	origin, err := ParsePoint(field(row, colOrigin))
	if err != nil {
		return Record{}, fmt.Errorf("origin: %w", err)
	}
	dest, err := ParsePoint(field(row, colDestination))
	if err != nil {
		return Record{}, fmt.Errorf("destination: %w", err)
	}

	rec := Record{
		Edge: Edge{
			Origin:      origin.Pack(),
			Destination: dest.Pack(),
			Kind:        KindTransport,
			Cost:        CostTransport,
			Option:      strings.TrimSpace(field(row, colOption)),
			Target:      strings.TrimSpace(field(row, colTarget)),
		},
	}

	if s := strings.TrimSpace(field(row, colObjectID)); s != "" {
		id, err := strconv.Atoi(s)
		if err != nil {
			return Record{}, fmt.Errorf("object id %q: %w", s, err)
		}
		rec.ObjectID = id
	}
	if s := strings.TrimSpace(field(row, colCost)); s != "" {
		cost, err := strconv.Atoi(s)
		if err != nil || cost < 0 {
			return Record{}, fmt.Errorf("cost %q: invalid", s)
		}
		rec.Cost = cost
	}

	rec.Skills, err = ParseSkillReqs(field(row, colSkills))
	if err != nil {
		return Record{}, err
	}
	rec.Quest = strings.TrimSpace(field(row, colQuest))
	rec.Diary = strings.TrimSpace(field(row, colDiary))
	return rec, nil
}

// ParsePoint parses "x y plane".
func ParsePoint(s string) (geo.Point, error) {
	parts := strings.Fields(s)
	if len(parts) != 3 {
		return geo.Point{}, fmt.Errorf("%q: %w", s, ErrBadPoint)
	}
	var v [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return geo.Point{}, fmt.Errorf("%q: %w", s, ErrBadPoint)
		}
		v[i] = n
	}
	pt := geo.Point{X: v[0], Y: v[1], Plane: v[2]}
	if !pt.Valid() {
		return geo.Point{}, fmt.Errorf("%q out of range: %w", s, ErrBadPoint)
	}
	return pt, nil
}

// ParseSkillReqs parses "70 agility;52 thieving".
func ParseSkillReqs(s string) ([]SkillReq, error) {
	var reqs []SkillReq
	for _, part := range strings.Split(s, ";") {
		fields := strings.Fields(part)
		if len(fields) == 0 {
			continue
		}
		if len(fields) != 2 {
			return nil, fmt.Errorf("skill requirement %q: want \"<level> <skill>\"", part)
		}
		lvl, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, fmt.Errorf("skill requirement %q: %w", part, err)
		}
		reqs = append(reqs, SkillReq{Skill: strings.ToLower(fields[1]), Level: lvl})
	}
	return reqs, nil
}

// FormatSkillReqs is the inverse of ParseSkillReqs.
func FormatSkillReqs(reqs []SkillReq) string {
	parts := make([]string, len(reqs))
	for i, r := range reqs {
		parts[i] = strconv.Itoa(r.Level) + " " + r.Skill
	}
	return strings.Join(parts, ";")
}

func field(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}
