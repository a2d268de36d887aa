package game

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/wayfarer-mud/wayfarer/pkg/dialogue"
	"github.com/wayfarer-mud/wayfarer/pkg/player"
	"github.com/wayfarer-mud/wayfarer/pkg/world"
)

// globalCommands builds the "Commands" dialogue every player sees.
// Cheats ride along only when enabled.
func (g *Game) globalCommands() *dialogue.Dialogue {
	cs := []dialogue.Command{
		g.settingsCommand(),
		g.playersCommand(),
		g.messageCommand(),
	}
	if g.tune.cheats.Load() {
		cs = append(cs,
			g.tpCommand(),
			g.moneyCommand(),
			g.godCommand(),
		)
	}
	return dialogue.NewCommands(dialogue.Global, "Commands", cs)
}

// tpCommand teleports without playing the entrance message.
func (g *Game) tpCommand() dialogue.Command {
	return dialogue.ActionCommand("tp #", "Teleport to town #.",
		func(ctx *dialogue.Context, m *player.Meta, args []string) {
			if len(args) < 1 {
				m.AddShort("Error: Missing town #.")
				return
			}
			var to player.Coordinates
			if num, err := strconv.Atoi(args[0]); err == nil {
				to = world.StartingCoords(num)
			} else {
				c, ok := g.World.Town(m.Coords.Town).LocateArea(args[0])
				if !ok {
					ctx.SendShort(m, "Your town does not contain this kind of area.")
					return
				}
				to = c
			}
			if err := g.teleport(ctx, m, to); err != nil {
				ctx.SendShort(m, err.Error())
			}
		})
}

func (g *Game) teleport(ctx *dialogue.Context, m *player.Meta, to player.Coordinates) error {
	if to == m.Coords {
		return errors.New("There is nowhere to go.")
	}
	// Resolve everything fallible before touching the registry, so a
	// refusal leaves the player's current screen intact.
	body, err := g.World.PlayerBody(m)
	if err != nil {
		return errors.New("Currently unable to handle player dialogue.")
	}
	a, err := g.World.Area(to)
	if err != nil {
		return errors.New("There is nowhere to go.")
	}
	// Exactly one player-owned dialogue must be up; none or several means
	// the player is mid-flow and teleporting would corrupt it.
	prev, err := g.Registry.TryDeleteExclusive(m.ID)
	if err != nil {
		return errors.New("Currently unable to handle player dialogue.")
	}
	if err := g.World.MoveEntity(body, to); err != nil {
		g.Registry.Register(prev)
		return errors.New("There is nowhere to go.")
	}
	m.RecordVisit(to)
	d := world.AreaDialogue(g.World, a, m)
	d.Text = ""
	g.Registry.Register(d)
	ctx.SendOptions(m)
	return nil
}

func (g *Game) moneyCommand() dialogue.Command {
	return dialogue.ActionCommand("money #", "Get # money.",
		func(ctx *dialogue.Context, m *player.Meta, args []string) {
			if len(args) < 1 {
				ctx.SendShort(m, "Error: You need to specify how much.")
				return
			}
			quantity, err := strconv.Atoi(args[0])
			if err != nil {
				ctx.SendShort(m, "Unable to parse arguments.")
				return
			}
			body, err := g.World.PlayerBody(m)
			if err != nil {
				return
			}
			body.Body().AddMoney(quantity)
			body.RefreshBar()
			ctx.SendOptions(m)
		})
}

func (g *Game) godCommand() dialogue.Command {
	return dialogue.ActionCommand("god x", "Change your god to x.",
		func(ctx *dialogue.Context, m *player.Meta, args []string) {
			if len(args) < 1 {
				ctx.SendShort(m, "Error: You need to specify which one.")
				return
			}
			ctx.SendShort(m, fmt.Sprintf("Setting your god to %s.", args[0]))
			m.God = args[0]
		})
}

// settingsCommand opens the settings dialogue. It closes itself after
// a while unless invoked as "settings open".
func (g *Game) settingsCommand() dialogue.Command {
	return dialogue.ActionCommand("settings", "Change your settings.",
		func(ctx *dialogue.Context, m *player.Meta, args []string) {
			d := g.settingsDialogue(m)
			if len(args) == 0 || args[0] != "open" {
				dialogue.DeleteIn(ctx, m.ID, d.ID, dialogue.TempDialogueDuration)
			} else {
				m.AddShort("Your settings dialogue will stay open.")
			}
			g.Registry.Register(d)
			ctx.SendOptions(m)
		})
}

func (g *Game) settingsDialogue(m *player.Meta) *dialogue.Dialogue {
	return dialogue.NewOptions(m.ID, "Player Settings",
		[]dialogue.Response{
			dialogue.Closing("Close Settings", nil),
		},
		[]dialogue.Command{
			dialogue.ActionCommand("tspeed #", "Set your text speed (ms per pause).",
				func(ctx *dialogue.Context, m *player.Meta, args []string) {
					v, ok := parseSetting(ctx, m, args)
					if !ok {
						return
					}
					m.TextSpeed = int64(v)
					ctx.SendShort(m, fmt.Sprintf("Text speed set to %dms.", v))
				}),
			dialogue.ActionCommand("tlength #", "Set your line length (characters).",
				func(ctx *dialogue.Context, m *player.Meta, args []string) {
					v, ok := parseSetting(ctx, m, args)
					if !ok {
						return
					}
					if v < 20 {
						v = 20
					}
					m.LineLength = v
					ctx.SendShort(m, fmt.Sprintf("Line length set to %d.", v))
				}),
		})
}

func parseSetting(ctx *dialogue.Context, m *player.Meta, args []string) (int, bool) {
	if len(args) < 1 {
		ctx.SendShort(m, "Error: You need to specify how much.")
		return 0, false
	}
	v, err := strconv.Atoi(args[0])
	if err != nil || v < 0 {
		ctx.SendShort(m, "Unable to parse arguments.")
		return 0, false
	}
	return v, true
}

func (g *Game) playersCommand() dialogue.Command {
	return dialogue.ActionCommand("players", "Display all active players.",
		func(ctx *dialogue.Context, m *player.Meta, _ []string) {
			ctx.SendGeneral(m, g.playersMessage())
		})
}

func (g *Game) playersMessage() string {
	var b strings.Builder
	b.WriteString("Connected players:")
	for i, p := range g.World.Players() {
		if i%2 == 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, " * %s T%d (%d, %d)", p.Name, p.Coords.Town, p.Coords.X, p.Coords.Z)
	}
	return b.String()
}

// messageCommand relays a short message to another player by name.
func (g *Game) messageCommand() dialogue.Command {
	return dialogue.ActionCommand("msg x", "Send a message to x (username).",
		func(ctx *dialogue.Context, m *player.Meta, args []string) {
			if len(args) < 1 {
				ctx.SendShort(m, "Error: You need to specify a username.")
				return
			}
			if len(args) < 2 {
				ctx.SendShort(m, "Error: No message to send.")
				return
			}
			target, ok := g.World.PlayerByName(args[0])
			if !ok {
				ctx.SendShort(m, fmt.Sprintf("No player named %q is connected.", args[0]))
				return
			}
			ctx.SendShort(target, fmt.Sprintf("%s: %s", m.Name, strings.Join(args[1:], " ")))
			ctx.SendShort(m, "Message sent.")
		})
}
