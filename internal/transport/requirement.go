package transport

import "strings"

// SkillReq is a minimum skill level.
type SkillReq struct {
	Skill string
	Level int
}

// Requirements gate a catalogue entry on player progress.
type Requirements struct {
	Skills []SkillReq
	Quest  string
	Diary  string
}

// Record is a catalogue entry: an edge plus the progress it needs.
type Record struct {
	Edge
	Requirements
}

// Capabilities describe what a player has unlocked.
type Capabilities struct {
	FairyRings  bool           `json:"fairy_rings"`
	SpiritTrees bool           `json:"spirit_trees"`
	Skills      map[string]int `json:"skills,omitempty"`
	Quests      []string       `json:"quests,omitempty"`
	Diaries     []string       `json:"diaries,omitempty"`
}

// SkillLevel returns the player's level in skill, 1 when unknown.
func (c Capabilities) SkillLevel(skill string) int {
	for name, lvl := range c.Skills {
		if strings.EqualFold(name, skill) {
			return lvl
		}
	}
	return 1
}

// QuestCompleted reports whether quest is in the completed list.
func (c Capabilities) QuestCompleted(quest string) bool {
	return containsFold(c.Quests, quest)
}

// DiaryCompleted reports whether diary is in the completed list.
func (c Capabilities) DiaryCompleted(diary string) bool {
	return containsFold(c.Diaries, diary)
}

// Met reports whether every requirement is satisfied.
func (r Requirements) Met(c Capabilities) bool {
	for _, s := range r.Skills {
		if c.SkillLevel(s.Skill) < s.Level {
			return false
		}
	}
	if r.Quest != "" && !c.QuestCompleted(r.Quest) {
		return false
	}
	if r.Diary != "" && !c.DiaryCompleted(r.Diary) {
		return false
	}
	return true
}

func containsFold(list []string, s string) bool {
	s = strings.TrimSpace(s)
	for _, v := range list {
		if strings.EqualFold(strings.TrimSpace(v), s) {
			return true
		}
	}
	return false
}
