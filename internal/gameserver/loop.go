package gameserver

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/idlequest/internal/game/character"
	"github.com/cory-johannsen/idlequest/internal/game/combat"
	"github.com/cory-johannsen/idlequest/internal/game/inventory"
)

// All methods in this file require g.mu to be held.

func (g *Game) every(key combat.TaskKey, interval time.Duration, fn func()) {
	g.sched.Every(key, interval, g.guard(key, fn))
}

func (g *Game) after(key combat.TaskKey, d time.Duration, fn func()) {
	g.sched.After(key, d, g.guard(key, fn))
}

func (g *Game) cancel(keys ...combat.TaskKey) {
	for _, key := range keys {
		g.gens[key]++
		g.sched.Cancel(key)
	}
}

func (g *Game) cancelAll() {
	for _, key := range []combat.TaskKey{
		combat.TaskPlayerAttack, combat.TaskEnemyAttack, combat.TaskRegen, combat.TaskGhostForm, combat.TaskSpawn,
	} {
		g.gens[key]++
	}
	g.sched.CancelAll()
}

// armForMode (re)creates every task the current mode needs.
func (g *Game) armForMode() {
	g.cancelAll()
	switch g.mode {
	case combat.ModeActive:
		g.armRegen()
		switch {
		case g.enemy.Alive():
			g.startCadences()
		case g.spawnPending:
			g.scheduleSpawn(combat.SpawnDelay(g.speed))
		default:
			g.spawnNow()
		}
	case combat.ModeResting:
		g.armRegen()
	case combat.ModeGhostForm:
		g.after(combat.TaskGhostForm, g.cfg.Tuning.GhostFormDuration, g.ghostExpired)
	case combat.ModeGameOver:
	}
}

func (g *Game) armRegen() {
	g.every(combat.TaskRegen, combat.RegenInterval(g.speed), g.regenTick)
}

func (g *Game) startCadences() {
	haste := g.player.Effective().Haste
	g.every(combat.TaskPlayerAttack, combat.PlayerAttackInterval(haste, g.speed), g.playerTick)
	g.every(combat.TaskEnemyAttack, combat.EnemyAttackInterval(g.speed), g.enemyTick)
}

func (g *Game) stopCadences() {
	g.cancel(combat.TaskPlayerAttack, combat.TaskEnemyAttack)
}

// cadencesRunning reports whether the attack cadences should be live.
func (g *Game) cadencesRunning() bool {
	return g.started && g.mode == combat.ModeActive && g.enemy.Alive()
}

// rearmPlayerCadence restarts the player attack at the current haste.
func (g *Game) rearmPlayerCadence() {
	if !g.cadencesRunning() {
		return
	}
	haste := g.player.Effective().Haste
	g.every(combat.TaskPlayerAttack, combat.PlayerAttackInterval(haste, g.speed), g.playerTick)
}

func (g *Game) scheduleSpawn(d time.Duration) {
	g.spawnPending = true
	g.after(combat.TaskSpawn, d, g.spawnNow)
}

func (g *Game) spawnNow() {
	g.cancel(combat.TaskSpawn)
	g.spawnPending = false
	zone := g.nav.Current()
	g.enemy = g.enemies.Spawn(zone, g.nav.Floor(), g.player.Level())
	g.logger.Debug("enemy spawned",
		zap.String("zone", zone.Name),
		zap.String("enemy", g.enemy.Name),
		zap.Int("level", g.enemy.Level),
		zap.Int("hp", g.enemy.MaxHP),
	)
	g.sink.LogMessage(fmt.Sprintf("A level %d %s appears!", g.enemy.Level, g.enemy.Name))
	g.startCadences()
	g.sink.StateChanged()
}

func (g *Game) playerTick() {
	if g.mode != combat.ModeActive || !g.enemy.Alive() {
		return
	}
	eff := g.player.Effective()
	miss := combat.MissChance(g.enemy.Level, g.player.Level(), g.player.Level() >= character.MaxLevel,
		eff.Critical+eff.Haste+eff.Mastery)
	hit := combat.PlayerAttack(g.roller, combat.Attacker{
		Attack:   eff.Attack,
		Critical: eff.Critical,
		Mastery:  eff.Mastery,
	}, miss)
	if hit.Miss {
		g.sink.CombatText(CombatText{Miss: true, Target: combat.TargetEnemy})
		g.sink.LogMessage("You missed!")
		return
	}
	defeated := g.enemy.TakeDamage(hit.Damage)
	g.sink.CombatText(CombatText{Amount: hit.Damage, Critical: hit.Critical, Target: combat.TargetEnemy})
	if hit.Critical {
		g.sink.LogMessage(fmt.Sprintf("You deal %d (Critical!)", hit.Damage))
	} else {
		g.sink.LogMessage(fmt.Sprintf("You deal %d", hit.Damage))
	}
	if defeated {
		g.enemyDefeated()
	}
	g.sink.StateChanged()
}

func (g *Game) enemyTick() {
	if g.mode != combat.ModeActive || !g.enemy.Alive() || g.player.HP() <= 0 {
		return
	}
	levelsBelow := g.nav.Current().MinLevel - g.player.Level()
	hit := g.cfg.Tuning.EnemyAttack(g.roller, g.enemy.Attack, g.player.Effective().Defense, levelsBelow)
	dead := g.player.TakeDamage(float64(hit.Damage))
	g.sink.CombatText(CombatText{Amount: hit.Damage, Target: combat.TargetPlayer})
	g.sink.LogMessage(fmt.Sprintf("%s hits you for %d", g.enemy.Name, hit.Damage))
	if dead {
		g.enterGhostForm()
	}
	g.sink.StateChanged()
}

// enemyDefeated handles a kill as one step: stop cadences, loot, XP, then
// either rest or queue the next spawn.
func (g *Game) enemyDefeated() {
	g.stopCadences()
	e := g.enemy
	g.logger.Debug("enemy defeated", zap.String("enemy", e.Name), zap.Int("level", e.Level))

	res := g.loot.Roll(e.Level, g.player.Level(), func(it *inventory.Item) bool {
		return g.autoSell.ShouldSell(g.player, it)
	})
	if res.Gold > 0 {
		g.player.AddGold(res.Gold)
		g.sink.LogMessage(fmt.Sprintf("You loot %d gold.", res.Gold))
	}
	for _, it := range res.Items {
		g.inv.Add(it)
		g.sink.LogMessage(fmt.Sprintf("You loot %s.", it.DisplayName()))
	}
	if len(res.AutoSold) > 0 {
		g.player.AddGold(res.AutoSoldGold)
		g.sink.LogMessage(fmt.Sprintf("Auto-sold %d item(s) for %d gold.", len(res.AutoSold), res.AutoSoldGold))
	}

	if g.player.Level() >= character.MaxLevel {
		g.player.GainXP(0)
		g.sink.LogMessage(fmt.Sprintf("%s defeated!", e.Name))
	} else {
		g.sink.LogMessage(fmt.Sprintf("%s defeated! You gained %d XP!", e.Name, e.XPReward))
		for _, up := range g.player.GainXP(e.XPReward) {
			g.logger.Info("level up", zap.Int("level", up.Level), zap.Bool("talent_point", up.TalentPoint))
			g.sink.LogMessage(fmt.Sprintf("You reached level %d!", up.Level))
			if up.TalentPoint {
				g.sink.LogMessage("You gained a talent point!")
			}
		}
		if n := g.shop.OnLevelUp(g.player.Level()); n > 0 {
			g.sink.LogMessage(fmt.Sprintf("Gained %d free vendor refresh charge(s).", n))
		}
	}

	if g.shouldAutoRest() {
		g.enterRest("You are badly hurt and begin resting...")
		return
	}
	g.scheduleSpawn(combat.SpawnDelay(g.speed))
}

func (g *Game) shouldAutoRest() bool {
	return g.autoRest &&
		g.mode == combat.ModeActive &&
		!g.enemy.Alive() &&
		g.player.HPRatio() <= combat.RestingThreshold
}

func (g *Game) regenTick() {
	switch g.mode {
	case combat.ModeResting:
		maxHP := g.player.Effective().MaxHP
		g.player.Heal(maxHP * combat.RestHealFraction)
		if g.player.HP() >= maxHP {
			g.endRest()
		}
	case combat.ModeActive:
		if g.player.HP() < g.player.Effective().MaxHP {
			g.player.Heal(g.player.Effective().HealthRegen)
		}
		if g.shouldAutoRest() {
			g.enterRest("You are badly hurt and begin resting...")
		}
	default:
		return
	}
	g.sink.StateChanged()
}

// enterRest stops combat; a live enemy flees without rewards.
func (g *Game) enterRest(msg string) {
	g.stopCadences()
	g.cancel(combat.TaskSpawn)
	g.spawnPending = false
	if g.enemy.Alive() {
		g.sink.LogMessage(fmt.Sprintf("%s flees.", g.enemy.Name))
		g.enemy.HP = 0
	}
	g.mode = combat.ModeResting
	g.logger.Debug("resting", zap.Float64("hp_ratio", g.player.HPRatio()))
	g.sink.LogMessage(msg)
}

func (g *Game) endRest() {
	g.mode = combat.ModeActive
	g.sink.LogMessage("You finish resting and feel refreshed!")
	g.scheduleSpawn(combat.RestEndSpawnDelay(g.speed))
}

func (g *Game) enterGhostForm() {
	g.stopCadences()
	g.cancel(combat.TaskSpawn)
	g.spawnPending = false
	g.player.SetHP(0)
	g.mode = combat.ModeGhostForm
	g.logger.Info("player defeated",
		zap.String("zone", g.nav.Current().Name),
		zap.String("enemy", g.enemy.Name),
	)
	g.sink.LogMessage(fmt.Sprintf("You have been defeated! You will return in %s.", g.cfg.Tuning.GhostFormDuration))
	g.after(combat.TaskGhostForm, g.cfg.Tuning.GhostFormDuration, g.ghostExpired)
}

func (g *Game) ghostExpired() {
	g.mode = combat.ModeActive
	g.player.HealToFull()
	g.enemy = nil
	if g.nav.StepBack() {
		g.sink.LogMessage(fmt.Sprintf("You return to life in %s.", g.nav.Current().Name))
	} else {
		g.sink.LogMessage("You return to life.")
	}
	g.spawnNow()
}
