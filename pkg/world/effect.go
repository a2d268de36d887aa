package world

import (
	"math/rand"

	"github.com/wayfarer-mud/wayfarer/pkg/dialogue"
	"github.com/wayfarer-mud/wayfarer/pkg/events"
)

// MaxEffectDuration bounds any timed effect, in ms.
const MaxEffectDuration int64 = 600000

// EffectKind says how an effect's stat deltas play out over time.
type EffectKind int

const (
	// Permanent applies once and is never reversed.
	Permanent EffectKind = iota
	// Temporary applies once and reverses when the duration elapses.
	Temporary
	// Repeating applies every interval until the duration elapses, with
	// no reversal.
	Repeating
)

// Effect is a bundle of stat deltas applied to an entity. Zero fields do
// nothing. An applied Temporary effect stores the deltas that actually
// landed after clamping, so its reversal restores the exact prior state.
type Effect struct {
	Name     string
	Level    int
	Kind     EffectKind
	Duration int64 // ms, Temporary and Repeating
	Interval int64 // ms, Repeating

	Health      int
	MaxHealth   int
	BaseDamage  int
	Money       int
	AttackSpeed int64
	ItemSpeed   int64

	BreakHealthCap bool
	BreakAttackCap bool
	BreakItemCap   bool
}

// Apply puts the effect on the target. Permanent deltas land now and the
// effect is immediately discharged; Temporary deltas land now and a
// removal is scheduled; Repeating deltas land every interval with an
// unconditional removal at the end. All timers are tagged with the
// target's id and the effect name so they cancel together.
func (e Effect) Apply(ctx *dialogue.Context, w *World, target Entity) {
	body := target.Body()
	acc := accessorFor(target)
	tags := events.Tags{EntityID: body.ID(), Label: e.Name}

	switch e.Kind {
	case Permanent:
		e.applyTo(body)
		refreshHealthBar(target)
		if p, ok := target.(*Player); ok {
			ctx.SendShort(p.Meta, "You got a permanent "+e.Name+" effect.")
		}
		checkDeath(ctx, w, target)

	case Temporary:
		applied := e.applyTo(body)
		body.AddEffect(&applied)
		refreshHealthBar(target)
		checkDeath(ctx, w, target)
		ctx.Scheduler.AfterTagged(e.Duration, tags, func() {
			removeEffect(ctx, w, acc, e.Name)
		})

	case Repeating:
		stored := e
		body.AddEffect(&stored)
		ctx.Scheduler.RepeatTagged(e.Interval, e.Duration, tags, func() bool {
			ent, err := w.Entity(acc)
			if err != nil {
				return false
			}
			e.applyTo(ent.Body())
			refreshHealthBar(ent)
			checkDeath(ctx, w, ent)
			return true
		})
		ctx.Scheduler.After(e.Duration, func() {
			removeEffect(ctx, w, acc, e.Name)
		})
	}
}

// removeEffect discharges the named effect from whatever the accessor
// resolves to now. Only Temporary effects reverse their deltas.
func removeEffect(ctx *dialogue.Context, w *World, acc Accessor, name string) {
	ent, err := w.Entity(acc)
	if err != nil {
		return
	}
	stored := ent.Body().RemoveEffectNamed(name)
	if stored == nil || stored.Kind != Temporary {
		return
	}
	stored.opposite().applyTo(ent.Body())
	refreshHealthBar(ent)
	if p, ok := ent.(*Player); ok {
		ctx.SendShort(p.Meta, name+" effect wore off.")
	}
}

// applyTo lands every nonzero delta on the body and returns a copy of
// the effect holding the deltas that actually took hold after clamping.
func (e Effect) applyTo(b *Body) Effect {
	applied := e

	if e.MaxHealth != 0 {
		before := b.MaxHealth()
		b.SetMaxHealth(before+e.MaxHealth, e.BreakHealthCap)
		applied.MaxHealth = b.MaxHealth() - before
	}
	if e.Health != 0 {
		before := b.Health()
		b.AddHealth(e.Health)
		applied.Health = b.Health() - before
	}
	if e.BaseDamage != 0 {
		before := b.BaseDamage()
		b.SetBaseDamage(before+e.BaseDamage, e.BreakAttackCap)
		applied.BaseDamage = b.BaseDamage() - before
	}
	if e.AttackSpeed != 0 {
		before := b.AttackSpeed()
		b.AddAttackSpeed(e.AttackSpeed, e.BreakAttackCap)
		applied.AttackSpeed = b.AttackSpeed() - before
	}
	if e.ItemSpeed != 0 {
		before := b.ItemSpeed()
		b.AddItemSpeed(e.ItemSpeed, e.BreakItemCap)
		applied.ItemSpeed = b.ItemSpeed() - before
	}
	if e.Money != 0 {
		before := b.Money()
		b.AddMoney(e.Money)
		applied.Money = b.Money() - before
	}
	return applied
}

func (e Effect) opposite() Effect {
	return Effect{
		Health:      -e.Health,
		MaxHealth:   -e.MaxHealth,
		BaseDamage:  -e.BaseDamage,
		AttackSpeed: -e.AttackSpeed,
		ItemSpeed:   -e.ItemSpeed,
		Money:       -e.Money,
	}
}

func accessorFor(e Entity) Accessor {
	if _, ok := e.(*Player); ok {
		return Accessor{Coords: e.Body().Coords(), EntityID: e.Body().ID(), IsPlayer: true}
	}
	return Accessor{Coords: e.Body().Coords(), EntityID: e.Body().ID()}
}

func refreshHealthBar(e Entity) {
	if p, ok := e.(*Player); ok {
		p.RefreshBar()
	}
}

// randRange picks uniformly from [min, max). A degenerate range returns
// min.
func randRange(min, max int) int {
	if max <= min {
		return min
	}
	return min + rand.Intn(max-min)
}

func clampLevel(level, max int) int {
	if level < 1 {
		level = 1
	}
	if max > 0 && level > max {
		level = max
	}
	return level
}

// townLevel rolls an effect level that scales with town depth: base
// grows at one per div towns, spread grows at one per varDiv towns.
func townLevel(town, div, varDiv int) int {
	base := town/div + 1
	spread := 0
	if varDiv > 0 {
		spread = town / varDiv
	}
	return randRange(base-spread, base+spread+1)
}

func minuteDuration(levels int) int64 {
	d := int64(60000) * int64(levels)
	if d > MaxEffectDuration {
		d = MaxEffectDuration
	}
	return d
}

// HealingEffect restores 5 + 5 per level health, at most level 10.
func HealingEffect(level int) Effect {
	level = clampLevel(level, 10)
	return Effect{Name: "Healing", Level: level, Health: 5 + level*5}
}

// GenericHealing restores a fixed amount.
func GenericHealing(amount int) Effect {
	return Effect{Name: "Healing", Health: amount}
}

// HarmingEffect deals 5 per level damage, at most level 20.
func HarmingEffect(level int) Effect {
	level = clampLevel(level, 20)
	return Effect{Name: "Harming", Level: level, Health: -5 * level}
}

// GenericHarming deals a fixed amount of damage.
func GenericHarming(amount int) Effect {
	return Effect{Name: "Harming", Health: -amount}
}

// AbsorptionEffect grants 5 health and max health per level for one
// minute per two levels, at most level 10.
func AbsorptionEffect(level int) Effect {
	level = clampLevel(level, 10)
	return Effect{
		Name:      "Absorption",
		Level:     level,
		Kind:      Temporary,
		Duration:  minuteDuration(level/2 + 1),
		Health:    level * 5,
		MaxHealth: level * 5,
	}
}

// FragileSkinEffect drains 5 health and max health per level for one
// minute per three levels, at most level 10.
func FragileSkinEffect(level int) Effect {
	level = clampLevel(level, 10)
	return Effect{
		Name:      "Fragile Skin",
		Level:     level,
		Kind:      Temporary,
		Duration:  minuteDuration(level/3 + 1),
		Health:    level * -5,
		MaxHealth: level * -5,
	}
}

// StrengthEffect grants 5 damage per level for one minute per two
// levels.
func StrengthEffect(level int) Effect {
	level = clampLevel(level, 0)
	return Effect{
		Name:       "Strength",
		Level:      level,
		Kind:       Temporary,
		Duration:   minuteDuration(level/2 + 1),
		BaseDamage: level * 5,
	}
}

// WeaknessEffect drains 5 damage per level for one minute per three
// levels.
func WeaknessEffect(level int) Effect {
	level = clampLevel(level, 0)
	return Effect{
		Name:       "Weakness",
		Level:      level,
		Kind:       Temporary,
		Duration:   minuteDuration(level/3 + 1),
		BaseDamage: level * -5,
	}
}

// AttackSwiftnessEffect cuts half a second off the swing interval per
// level for one minute per three levels.
func AttackSwiftnessEffect(level int) Effect {
	level = clampLevel(level, 0)
	return Effect{
		Name:        "Attack Swiftness",
		Level:       level,
		Kind:        Temporary,
		Duration:    minuteDuration(level/3 + 1),
		AttackSpeed: int64(level) * -500,
	}
}

// AttackSlownessEffect adds half a second per level, at most level 15.
func AttackSlownessEffect(level int) Effect {
	level = clampLevel(level, 15)
	return Effect{
		Name:        "Attack Slowness",
		Level:       level,
		Kind:        Temporary,
		Duration:    minuteDuration(level/3 + 1),
		AttackSpeed: int64(level) * 500,
	}
}

// ItemSwiftnessEffect cuts half a second off the item interval per
// level for one minute per two levels.
func ItemSwiftnessEffect(level int) Effect {
	level = clampLevel(level, 0)
	return Effect{
		Name:      "Item Swiftness",
		Level:     level,
		Kind:      Temporary,
		Duration:  minuteDuration(level/2 + 1),
		ItemSpeed: int64(level) * -500,
	}
}

// ItemSlownessEffect adds half a second per level, at most level 15.
func ItemSlownessEffect(level int) Effect {
	level = clampLevel(level, 15)
	return Effect{
		Name:      "Item Slowness",
		Level:     level,
		Kind:      Temporary,
		Duration:  minuteDuration(level/3 + 1),
		ItemSpeed: int64(level) * 500,
	}
}

// GamblingEffect grants 750 gold per level, at most level 5, for 15
// seconds plus 10 per level. When it wears off the gold goes with it.
func GamblingEffect(level int) Effect {
	level = clampLevel(level, 5)
	return Effect{
		Name:     "Gambling",
		Level:    level,
		Kind:     Temporary,
		Duration: 15000 + 10000*int64(level),
		Money:    level * 750,
	}
}

// Town-scaled rolls used by fountains.

func TownAbsorption(town int) Effect      { return AbsorptionEffect(townLevel(town, 3, 5)) }
func TownFragileSkin(town int) Effect     { return FragileSkinEffect(townLevel(town, 3, 5)) }
func TownStrength(town int) Effect        { return StrengthEffect(townLevel(town, 3, 4)) }
func TownWeakness(town int) Effect        { return WeaknessEffect(townLevel(town, 3, 4)) }
func TownAttackSwiftness(town int) Effect { return AttackSwiftnessEffect(townLevel(town, 2, 2)) }
func TownItemSwiftness(town int) Effect   { return ItemSwiftnessEffect(townLevel(town, 2, 2)) }
func TownGambling(town int) Effect {
	// The spread equals the base level, so the roll spans [0, 2*base]
	// and GamblingEffect clamps the low end back up to level 1.
	base := town/7 + 1
	return GamblingEffect(randRange(0, 2*base+1))
}

// FountainEffect rolls one of the fountain's five boons, scaled to the
// town.
func FountainEffect(town int) Effect {
	switch rand.Intn(5) {
	case 0:
		return TownAbsorption(town)
	case 1:
		return TownStrength(town)
	case 2:
		return TownAttackSwiftness(town)
	case 3:
		return TownItemSwiftness(town)
	default:
		return TownGambling(town)
	}
}

// Permanent stat nudges handed out by altars.

func HealthUp(amount int) Effect   { return Effect{Name: "Health Up", MaxHealth: amount} }
func HealthDown(amount int) Effect { return Effect{Name: "Health Down", MaxHealth: -amount} }

func DamageUp(min, max int) Effect {
	return Effect{Name: "Damage Up", BaseDamage: randRange(min, max)}
}

func DamageDown(min, max int) Effect {
	return Effect{Name: "Damage Down", BaseDamage: randRange(-max, -min)}
}

func AttackSpeedUp(min, max int) Effect {
	return Effect{Name: "Atk Speed Up", AttackSpeed: int64(randRange(-max, -min))}
}

func AttackSpeedDown(min, max int) Effect {
	return Effect{Name: "Atk Speed Down", AttackSpeed: int64(randRange(min, max))}
}

func ItemSpeedUp(min, max int) Effect {
	return Effect{Name: "Item Speed Up", ItemSpeed: int64(randRange(-max, -min))}
}

func ItemSpeedDown(min, max int) Effect {
	return Effect{Name: "Item Speed Down", ItemSpeed: int64(randRange(min, max))}
}

func MoneyUp(min, max int) Effect   { return Effect{Name: "Money Up", Money: randRange(min, max)} }
func MoneyDown(min, max int) Effect { return Effect{Name: "Money Down", Money: randRange(-max, -min)} }

type blessingStat int

const (
	statHealth blessingStat = iota
	statDamage
	statAtkSpeed
	statItemSpeed
	statMoney
)

func weightedStat(weights [5]int) blessingStat {
	total := 0
	for _, w := range weights {
		total += w
	}
	roll := rand.Intn(total)
	for i, w := range weights {
		if roll < w {
			return blessingStat(i)
		}
		roll -= w
	}
	return statMoney
}

// RandomBlessing rolls a permanent boon, the kind a same-god altar
// grants.
func RandomBlessing() Effect {
	switch weightedStat([5]int{1, 3, 4, 4, 4}) {
	case statHealth:
		return HealthUp(5)
	case statDamage:
		return DamageUp(0, 11)
	case statAtkSpeed:
		return AttackSpeedUp(0, 500)
	case statItemSpeed:
		return ItemSpeedUp(0, 500)
	default:
		return MoneyUp(250, 1000)
	}
}

// RandomCurse rolls a permanent bane.
func RandomCurse() Effect {
	switch weightedStat([5]int{1, 2, 3, 3, 3}) {
	case statHealth:
		return HealthDown(5)
	case statDamage:
		return DamageDown(0, 11)
	case statAtkSpeed:
		return AttackSpeedDown(0, 500)
	case statItemSpeed:
		return ItemSpeedDown(0, 500)
	default:
		return MoneyDown(250, 1000)
	}
}

// AltarEffect rolls the mixed outcome of praying to a foreign god: a
// blessing and a curse on two different stats.
func AltarEffect() (blessing, curse Effect) {
	weights := [5]int{1, 2, 3, 3, 3}
	b := weightedStat(weights)
	c := weightedStat(weights)
	for c == b {
		c = weightedStat(weights)
	}

	switch b {
	case statHealth:
		blessing = HealthUp(5)
	case statDamage:
		blessing = DamageUp(5, 11)
	case statAtkSpeed:
		blessing = AttackSpeedUp(250, 500)
	case statItemSpeed:
		blessing = ItemSpeedUp(250, 500)
	default:
		blessing = MoneyUp(350, 1000)
	}
	switch c {
	case statHealth:
		curse = HealthDown(3)
	case statDamage:
		curse = DamageDown(2, 10)
	case statAtkSpeed:
		curse = AttackSpeedDown(100, 450)
	case statItemSpeed:
		curse = ItemSpeedDown(100, 450)
	default:
		curse = MoneyDown(100, 900)
	}
	return blessing, curse
}

// PositiveAltarEffect rolls the richer boon granted when the altar's god
// is the player's own.
func PositiveAltarEffect() Effect {
	switch weightedStat([5]int{1, 3, 4, 4, 4}) {
	case statHealth:
		return HealthUp(8)
	case statDamage:
		return DamageUp(10, 16)
	case statAtkSpeed:
		return AttackSpeedUp(450, 900)
	case statItemSpeed:
		return ItemSpeedUp(450, 900)
	default:
		return MoneyUp(550, 1500)
	}
}
