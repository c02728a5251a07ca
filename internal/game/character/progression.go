package character

import "math"

// XPToNextLevel returns floor(C × level^E).
//
// Precondition: level >= 1.
func XPToNextLevel(r Rules, level int) int {
	return int(math.Floor(r.XPCurveC * math.Pow(float64(level), r.XPCurveE)))
}

// BaseAttack returns floor(10 × 1.025^level).
func BaseAttack(level int) float64 {
	return math.Floor(BaseAttackStart * math.Pow(BaseAttackScaling, float64(level)))
}

// AwardsTalentPoint reports whether reaching level grants a talent point.
func AwardsTalentPoint(level int) bool {
	return level >= TalentPointStartLevel && (level-TalentPointStartLevel)%TalentPointInterval == 0
}

// LevelUp describes one level gained.
type LevelUp struct {
	Level       int
	TalentPoint bool
}

// GainXP adds amount experience and applies every level-up it pays for.
// Overflow past a threshold carries into the next level.
//
// Precondition: amount >= 0.
// Postcondition: XP() < XPToNextLevel() below MaxLevel; at MaxLevel XP() is
// clamped to XPToNextLevel(); returns the level-ups in order.
func (c *Character) GainXP(amount int) []LevelUp {
	if c.level >= MaxLevel {
		c.xp = c.xpToNextLevel
		return nil
	}
	c.xp += amount
	var ups []LevelUp
	for c.level < MaxLevel && c.xp >= c.xpToNextLevel {
		c.xp -= c.xpToNextLevel
		ups = append(ups, c.levelUp())
	}
	if c.level >= MaxLevel {
		c.xp = c.xpToNextLevel
	}
	return ups
}

func (c *Character) levelUp() LevelUp {
	c.level++
	c.base.Attack = BaseAttack(c.level)
	c.base.MaxHP += LevelUpMaxHP
	c.base.Defense += LevelUpDefense
	c.base.HealthRegen += LevelUpHealthRegen
	c.xpToNextLevel = XPToNextLevel(c.rules, c.level)

	up := LevelUp{Level: c.level}
	if AwardsTalentPoint(c.level) {
		c.talents.unspent++
		up.TalentPoint = true
	}
	c.Recompute()
	c.HealToFull()
	return up
}
