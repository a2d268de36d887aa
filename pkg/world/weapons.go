package world

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/google/uuid"

	"github.com/wayfarer-mud/wayfarer/pkg/dialogue"
	"github.com/wayfarer-mud/wayfarer/pkg/player"
)

const (
	swordDamagePerLevel    = 4.5
	swordSharpnessPerLevel = 3.2
	swordUseEffectChance   = 3.75 // percent per level
	swordHoldEffectChance  = 3.75 // percent per level
	swordSpeedPerLevel     = -250
	swordBaseSpeed         = 9000
	swordMinSpeed          = 2000
	swordDullChance        = 0.15
)

// Sword is the procedural melee weapon. Damage rides on a sharpness
// counter that dulls with use and can go negative, down to the negated
// maximum.
type Sword struct {
	id           uuid.UUID
	name         string
	level        int
	damage       int
	sharpness    int
	maxSharpness int
	speed        int64
	price        int
	numRepairs   int
	uses         int
	maxUses      int
	holdEffect   *Effect
	useEffect    *Effect
}

// NewSword rolls a sword for the town's level band: one level per two
// towns, spread widening by one per three.
func NewSword(town int) *Sword {
	base := town/2 + 1
	spread := town / 3
	return SwordFromLevel(randRange(base-spread, base+spread+1))
}

func SwordFromLevel(level int) *Sword {
	if level < 1 {
		level = 1
	}
	damage := int(swordDamagePerLevel * float64(level))
	maxSharp := int(swordSharpnessPerLevel * float64(level))
	sharpness := randRange(0, maxSharp)
	speed := swordSpeed(level)
	uses := swordUses(level)
	hold := rollHoldEffect(level)
	use := rollUseEffect(level)

	return &Sword{
		id:           uuid.New(),
		name:         swordName(),
		level:        level,
		damage:       damage,
		sharpness:    sharpness,
		maxSharpness: maxSharp,
		speed:        speed,
		price:        swordPrice(damage, sharpness, use != nil, hold != nil, uses, speed),
		uses:         uses,
		maxUses:      uses,
		holdEffect:   hold,
		useEffect:    use,
	}
}

func swordSpeed(level int) int64 {
	speed := int64(swordBaseSpeed + swordSpeedPerLevel*level)
	if speed < swordMinSpeed {
		speed = swordMinSpeed
	}
	return speed
}

// swordUses rolls durability: +50 per two levels, spread of 10 per
// three.
func swordUses(level int) int {
	base := (level/2 + 1) * 50
	spread := (level / 3) * 10
	return randRange(base-spread, base+spread+1)
}

func swordPrice(damage, sharpness int, hasUse, hasHold bool, maxUses int, speed int64) int {
	price := damage + sharpness
	if hasUse {
		price += 100
	}
	if hasHold {
		price += 100
	}
	price += maxUses
	price += int((swordBaseSpeed - speed) / 100)
	return price
}

// rollHoldEffect sometimes grants a permanent boost that lasts while the
// sword is equipped.
func rollHoldEffect(level int) *Effect {
	if rand.Float64()*100 > float64(level)*swordHoldEffectChance {
		return nil
	}
	var e Effect
	switch rand.Intn(3) {
	case 0:
		e = HealthUp(randRange(1, level*3+1))
	case 1:
		e = DamageUp(1, level*2)
	default:
		e = AttackSpeedUp(50*level, 150*level)
	}
	return &e
}

// rollUseEffect sometimes grants an effect inflicted on whatever the
// sword strikes.
func rollUseEffect(level int) *Effect {
	if rand.Float64()*100 > float64(level)*swordUseEffectChance {
		return nil
	}
	var e Effect
	switch rand.Intn(3) {
	case 0:
		e = HarmingEffect(level)
	case 1:
		e = WeaknessEffect(level)
	default:
		e = AttackSlownessEffect(level)
	}
	return &e
}

func (s *Sword) ID() uuid.UUID { return s.id }
func (s *Sword) Name() string  { return s.name }
func (s *Sword) Kind() string  { return "sword" }
func (s *Sword) Level() int    { return s.level }
func (s *Sword) Price() int    { return s.price }
func (s *Sword) MaxStack() int { return 1 }
func (s *Sword) Uses() int     { return s.uses }
func (s *Sword) SetUses(n int) { s.uses = n }
func (s *Sword) MaxUses() int  { return s.maxUses }
func (s *Sword) Speed() int64  { return s.speed }

// Damage is the effective strike damage: base plus current sharpness,
// never below zero.
func (s *Sword) Damage() int {
	d := s.damage + s.sharpness
	if d < 0 {
		return 0
	}
	return d
}

func (s *Sword) SetDamage(n int) { s.damage = n }

func (s *Sword) Sharpness() int    { return s.sharpness }
func (s *Sword) MaxSharpness() int { return s.maxSharpness }
func (s *Sword) MinSharpness() int { return -s.maxSharpness }

func (s *Sword) SetSharpness(n int) {
	if n > s.maxSharpness {
		n = s.maxSharpness
	}
	if n < s.MinSharpness() {
		n = s.MinSharpness()
	}
	s.sharpness = n
}

// Spend wears the sword: a dull chance against the edge, then one use
// gone.
func (s *Sword) Spend() {
	if rand.Float64() <= swordDullChance {
		s.SetSharpness(s.sharpness - 1)
	}
	if s.uses > 0 {
		s.uses--
	}
}

// RepairPrice grows with every repair already done.
func (s *Sword) RepairPrice() int {
	base := s.price / 2
	return base + int(math.Ceil(float64(base)/2))*s.numRepairs
}

// Repair restores durability and grinds a dulled edge back to neutral.
func (s *Sword) Repair() {
	s.numRepairs++
	s.uses = s.maxUses
	if s.sharpness < 0 {
		s.sharpness = 0
	}
}

func (s *Sword) Clone() Item {
	c := *s
	if s.holdEffect != nil {
		h := *s.holdEffect
		c.holdEffect = &h
	}
	if s.useEffect != nil {
		u := *s.useEffect
		c.useEffect = &u
	}
	return &c
}

func (s *Sword) HoldEffect() *Effect { return s.holdEffect }
func (s *Sword) UseEffect() *Effect  { return s.useEffect }

// Use strikes the target directly, landing the attack effect when the
// sword carries one.
func (s *Sword) Use(ctx *dialogue.Context, w *World, user, target Entity) string {
	if target == nil {
		return "This item has no effect here."
	}
	target.Body().AddHealth(-s.Damage())
	refreshHealthBar(target)
	if s.useEffect != nil {
		s.useEffect.Apply(ctx, w, target)
	}
	return ""
}

func (s *Sword) OnEquip(ctx *dialogue.Context, w *World, owner Entity) {
	if s.holdEffect != nil {
		s.holdEffect.Apply(ctx, w, owner)
	}
}

// OnUnequip reverses the hold effect. Only permanent effects reverse
// accurately; timed ones expire on their own.
func (s *Sword) OnUnequip(ctx *dialogue.Context, w *World, owner Entity) {
	if s.holdEffect == nil || s.holdEffect.Kind != Permanent {
		return
	}
	s.holdEffect.opposite().applyTo(owner.Body())
	refreshHealthBar(owner)
	if p, ok := owner.(*Player); ok {
		ctx.SendShort(p.Meta, s.holdEffect.Name+" effect wore off.")
	}
}

func (s *Sword) Info(priceFactor float64) string {
	info := fmt.Sprintf("%s\n  * Type: lvl %d %s\n  * Dps: (%s)\n  * Sharpness: (%d / %d)\n  * Uses: (%s)\n  * Price: %dg",
		s.name, s.level, s.Kind(),
		FormatDamage(s.Damage(), s.speed),
		s.sharpness, s.maxSharpness,
		FormatUses(s.uses, s.maxUses),
		AdjustedPrice(s.price, priceFactor))
	if s.holdEffect != nil {
		info += "\n  * When equipped: " + s.holdEffect.Name
	}
	if s.useEffect != nil {
		info += "\n  * Attack effect: " + s.useEffect.Name
	}
	return info
}

// Bow is the ranged weapon. There is a single tier for now; piercing is
// reserved for armor.
type Bow struct {
	id         uuid.UUID
	name       string
	level      int
	damage     int
	piercing   int
	speed      int64
	price      int
	numRepairs int
	uses       int
	maxUses    int
}

func NewBow(_ int) *Bow {
	return &Bow{
		id:      uuid.New(),
		name:    bowName(),
		level:   1,
		damage:  5,
		speed:   1500,
		price:   500,
		uses:    100,
		maxUses: 100,
	}
}

func (b *Bow) ID() uuid.UUID   { return b.id }
func (b *Bow) Name() string    { return b.name }
func (b *Bow) Kind() string    { return "bow" }
func (b *Bow) Level() int      { return b.level }
func (b *Bow) Price() int      { return b.price }
func (b *Bow) MaxStack() int   { return 1 }
func (b *Bow) Uses() int       { return b.uses }
func (b *Bow) SetUses(n int)   { b.uses = n }
func (b *Bow) MaxUses() int    { return b.maxUses }
func (b *Bow) Damage() int     { return b.damage }
func (b *Bow) SetDamage(n int) { b.damage = n }
func (b *Bow) Speed() int64    { return b.speed }
func (b *Bow) Piercing() int   { return b.piercing }

func (b *Bow) Spend() {
	if b.uses > 0 {
		b.uses--
	}
}

func (b *Bow) RepairPrice() int {
	base := b.price / 2
	return base + int(math.Ceil(float64(base)/2))*b.numRepairs
}

func (b *Bow) Repair() {
	b.numRepairs++
	b.uses = b.maxUses
}

func (b *Bow) Clone() Item {
	c := *b
	return &c
}

func (b *Bow) OnEquip(ctx *dialogue.Context, w *World, owner Entity)   {}
func (b *Bow) OnUnequip(ctx *dialogue.Context, w *World, owner Entity) {}

func (b *Bow) Info(priceFactor float64) string {
	return fmt.Sprintf("%s\n  * Type: lvl %d %s\n  * Dps: (%s)\n  * Piercing: %d\n  * Uses: (%s)\n  * Price: %dg",
		b.name, b.level, b.Kind(),
		FormatDamage(b.damage, b.speed),
		b.piercing,
		FormatUses(b.uses, b.maxUses),
		AdjustedPrice(b.price, priceFactor))
}

// weaponEntry is one constructor in the weighted weapon pool.
type weaponEntry struct {
	weight  int
	classes []player.Class
	build   func(town int) Weapon
}

var weaponPool = []weaponEntry{
	{weight: 100, classes: []player.Class{player.Melee}, build: func(town int) Weapon { return NewSword(town) }},
	{weight: 100, classes: []player.Class{player.Ranged}, build: func(town int) Weapon { return NewBow(town) }},
}

// RandomWeapon rolls a weapon for the town from the weighted pool. A
// non-nil class restricts the pool to weapons that class can use; nil
// draws from everything. Returns nil when the pool has nothing for the
// class.
func RandomWeapon(town int, class *player.Class) Weapon {
	var eligible []weaponEntry
	total := 0
	for _, e := range weaponPool {
		if class != nil && !class.AllowedBy(e.classes) {
			continue
		}
		eligible = append(eligible, e)
		total += e.weight
	}
	if total == 0 {
		return nil
	}
	roll := rand.Intn(total)
	for _, e := range eligible {
		roll -= e.weight
		if roll < 0 {
			return e.build(town)
		}
	}
	return nil
}
