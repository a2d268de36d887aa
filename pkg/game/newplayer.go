package game

import (
	"fmt"
	"log"
	"math/rand"

	"github.com/wayfarer-mud/wayfarer/pkg/dialogue"
	"github.com/wayfarer-mud/wayfarer/pkg/player"
	"github.com/wayfarer-mud/wayfarer/pkg/text"
	"github.com/wayfarer-mud/wayfarer/pkg/world"
)

var newSenderTexts = []string{
	"§Hello? Is there someone there? ∫0.2.∫0.2.∫0.2.∫0.5\n" +
		"Oh, yes. That's right. I've been expecting you.∫\n" +
		"Go ahead and sit down. We have much to discuss. But " +
		"before we begin, please, remind me your name.",

	"§Hello? Who's there? ∫0.2.∫0.2.∫0.2.∫0.5\n" +
		"Ah, yes. Very good. I was hoping you would find me here.∫\n" +
		"Please, sit down. I have big plans for us to discuss, but " +
		"before we can get started, do remind me your name.",

	"§What's that? Is someone there? ∫0.2.∫0.2.∫0.2.∫0.5\n" +
		"Ah, I see. Good day. I'm glad you found me here.∫\n" +
		"If you don't mind, please have a seat. I can't wait to " +
		"share my plans with you. Now, before we begin, " +
		"please remind me your name.",

	"§Hello? Is someone there? ∫0.2.∫0.2.∫0.2.∫0.5\n" +
		"Ah, I see. I'm glad to see you made it all the way here.∫\n" +
		"If you don't mind, you should go ahead and sit down. " +
		"This might take us a few minutes.∫\n" +
		"Now, then. I want you to tell me who it is you think " +
		"you are.",

	"§What's that? Who goes there? ∫0.2.∫0.2.∫0.2.∫0.5\n" +
		"Ah. Good day, there. I'm glad to see you arrived safely.∫\n" +
		"Now, please, do have a seat. This won't take long.∫\n" +
		"Let me just start by asking: who exactly do you think " +
		"you are?",
}

var nameLearnedTexts = []string{
	"\"<name>.\" Is that right?",
	"\"<name>,\" you say. Is that so?",
	"You say your name is \"<name>?\"",
	"Ohh, I see. \"<name>,\" you say?",
	"So, \"<name>\" is what you remember?",
}

var classSelectedTexts = []string{
	"§Ahh, yes. \"<name>.\" I remember it well, but " +
		"you see, it's been a long time.∫\n" +
		"After all these years, you may have forgotten " +
		"my face, but yours is not one I could forget.∫\n" +
		"Now, <name>, I want you to tell me: " +
		"What is it that defines you?",

	"§Ahh, that's right. \"<name>.\" As I expected. " +
		"There was a time when we knew each other so well.∫\n" +
		"But, after all these years, I suppose some memories " +
		"fade. You may have forgotten me, <name>, " +
		"but I still know who you are.∫\n" +
		"Now, the only question is: do you?",

	"§Very well. You are just as I remember, <name>. " +
		"You see, there was a time when we knew each other " +
		"so well.∫\n" +
		"But, I suppose some memories do fade. It's curious, " +
		"<name>, seeing as you've changed so much and yet you " +
		"are completely unaware.∫\n" +
		"I want you to think, <name>. Tell me what it is that " +
		"defines you.",

	"§I see, then. \"<name>.\" Very well. " +
		"It's a shame to discover just how much you've forgotten. " +
		"There was a time when we knew each other so well " +
		"but some memories just don't last.∫\n" +
		"Let us try an exercise, <name>. I want you to try and " +
		"think about what it is that makes you who you are.",
}

var meleeChosenTexts = []string{
	"§Ahh, yes of course. A warrior; one " +
		"who acts with courage and vigilance.",
	"§A master of face to face combat and " +
		"purveyor of blades. A true warrior.",
}

var rangedChosenTexts = []string{
	"§Ahh, of course. An archer; one who " +
		"calculates his actions at range and " +
		"thrives on stealth.",
	"§A master of stealth and ranged combat. " +
		"A true archer.",
}

var magicChosenTexts = []string{
	"§Yes, of course. A mage; conductor of " +
		"darkness and conjurer of the mysterious.",
	"§A master of illusions and evoker of " +
		"the mysterious. A true wizard.",
	"§An illusionist and conjurer of the " +
		"mysterious. A veritable wizard.",
}

func classChosenText(c player.Class) string {
	switch c {
	case player.Ranged:
		return text.ChooseText(rangedChosenTexts)
	case player.Magic:
		return text.ChooseText(magicChosenTexts)
	default:
		return text.ChooseText(meleeChosenTexts)
	}
}

// startNewPlayer opens character creation: an unseen host asks for the
// player's name, and each answer generates the next screen until the
// player is spawned into a town.
func (g *Game) startNewPlayer(m *player.Meta) {
	g.Registry.Register(g.namePrompt(m))
	g.Ctx.UpdateOptions(m)
	g.Ctx.SendBlocking(m, text.ChooseText(newSenderTexts))
}

func (g *Game) namePrompt(m *player.Meta) *dialogue.Dialogue {
	d := dialogue.New("New Player", m.ID)
	d.Handler = &dialogue.TextHandler{
		Prompt: "Enter your name:",
		Run: func(_ *dialogue.Context, m *player.Meta, input string) {
			m.Name = input
		},
		Next: dialogue.Generate(func(_ *dialogue.Context, m *player.Meta) *dialogue.Dialogue {
			return g.nameConfirm(m, 0)
		}),
	}
	return d
}

// nameConfirm double-checks the name. One correction is free; a player
// who keeps going gets a random name and moves on regardless.
func (g *Game) nameConfirm(m *player.Meta, corrections int) *dialogue.Dialogue {
	d := dialogue.New("New Player", m.ID)
	d.Info = text.Generate(nameLearnedTexts, "<name>", m.Name)
	d.Responses = []dialogue.Response{
		dialogue.Goto("Confirm", func(_ *dialogue.Context, m *player.Meta) *dialogue.Dialogue {
			return g.classPrompt(m)
		}),
	}
	d.Handler = &dialogue.TextHandler{
		Prompt: "Enter a different name:",
		Run: func(_ *dialogue.Context, m *player.Meta, input string) {
			if corrections > 0 {
				m.Name = world.RandomName()
			} else {
				m.Name = input
			}
		},
		Next: dialogue.Generate(func(_ *dialogue.Context, m *player.Meta) *dialogue.Dialogue {
			if corrections > 0 {
				return g.classPrompt(m)
			}
			return g.nameConfirm(m, corrections+1)
		}),
	}
	return d
}

func (g *Game) classPrompt(m *player.Meta) *dialogue.Dialogue {
	d := dialogue.New("New Player", m.ID)
	d.Text = text.Generate(classSelectedTexts, "<name>", m.Name)
	d.Info = "Choose a class:"
	for _, c := range player.Classes {
		c := c
		d.Responses = append(d.Responses, dialogue.Response{
			Text: c.String(),
			Run: func(_ *dialogue.Context, m *player.Meta) {
				m.Class = c
			},
			Next: dialogue.Generate(func(_ *dialogue.Context, m *player.Meta) *dialogue.Dialogue {
				return g.godPrompt(m)
			}),
		})
	}
	return d
}

func (g *Game) godPrompt(m *player.Meta) *dialogue.Dialogue {
	d := dialogue.New("New Player", m.ID)
	d.Text = classChosenText(m.Class)
	d.Info = fmt.Sprintf("Choose a god from the %s class:", m.Class)
	for _, god := range world.Gods(m.Class) {
		name := god.Name
		d.Responses = append(d.Responses, dialogue.Response{
			Text: name,
			Run: func(_ *dialogue.Context, m *player.Meta) {
				m.God = name
			},
			Next: dialogue.Generate(func(_ *dialogue.Context, m *player.Meta) *dialogue.Dialogue {
				return g.readyPrompt(m)
			}),
		})
	}
	return d
}

func (g *Game) readyPrompt(m *player.Meta) *dialogue.Dialogue {
	d := dialogue.New("New Player", m.ID)
	d.Text = world.GodInfo(m.God, m.Class)
	d.Responses = []dialogue.Response{
		dialogue.Goto("Start game.", func(_ *dialogue.Context, m *player.Meta) *dialogue.Dialogue {
			return g.spawn(m)
		}),
	}
	return d
}

// spawn drops the finished character at a random town's gate with their
// starting gold, saves the record and hands back the gate's screen.
func (g *Game) spawn(m *player.Meta) *dialogue.Dialogue {
	towns := g.Conf.StartingTowns
	if towns < 1 {
		towns = 1
	}
	m.Coords = world.StartingCoords(rand.Intn(towns) + 1)

	a, err := g.World.Area(m.Coords)
	if err != nil {
		log.Printf("WARNING: No starting area at %v: %v", m.Coords, err)
		return nil
	}
	body := world.NewPlayer(m)
	body.Body().AddMoney(g.Conf.StartingGold)
	a.Base().AddEntity(body)
	body.RefreshBar()

	if g.Store != nil {
		if err := g.Store.SavePlayer(m); err != nil {
			log.Printf("WARNING: Could not save new player %s: %v", m.Name, err)
		} else if g.Metrics != nil {
			g.Metrics.savesTotal.Inc()
		}
	}
	log.Printf("GAME: New player %s (%s of %s) spawned in town %d",
		m.Name, m.Class, m.God, m.Coords.Town)
	return world.AreaDialogue(g.World, a, m)
}
