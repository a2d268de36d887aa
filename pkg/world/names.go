package world

import (
	"math/rand"

	"github.com/wayfarer-mud/wayfarer/pkg/player"
	"github.com/wayfarer-mud/wayfarer/pkg/text"
)

// Flavor pools for generated places, items, and people. Every
// generator here returns a ready-to-display string; callers never
// index the pools directly.

var pathAdjectives = []string{
	"Overgrown",
	"Worn",
	"Fragile",
	"Lone",
	"Wallowing",
	"Mysterious",
	"Tumbling",
}

var pathNouns = []string{
	"Forest",
	"Groves",
	"Forest",
	"Stones",
	"Fallow",
	"Elm",
}

func pathName() string {
	return text.Choose(pathAdjectives) + " " + text.Choose(pathNouns)
}

var swordAdjectives = []string{
	"Rusted",
	"Polished",
	"Jagged",
	"Sturdy",
	"Gleaming",
	"Notched",
	"Balanced",
}

var swordNouns = []string{
	"Shortsword",
	"Longsword",
	"Sabre",
	"Cutlass",
	"Falchion",
	"Claymore",
}

func swordName() string {
	return text.Choose(swordAdjectives) + " " + text.Choose(swordNouns)
}

var bowAdjectives = []string{
	"Warped",
	"Oiled",
	"Supple",
	"Carved",
	"Weathered",
	"Limber",
}

var bowNouns = []string{
	"Shortbow",
	"Longbow",
	"Recurve",
	"Hunting Bow",
	"Flatbow",
}

func bowName() string {
	return text.Choose(bowAdjectives) + " " + text.Choose(bowNouns)
}

var npcNamesFemale = []string{
	"Naomi", "Mable", "Beatrice", "Ava", "Nora", "Cait",
	"Cara", "Bláthnaid", "Aoife", "Alannah", "Máire",
}

var npcNamesMale = []string{
	"Silas", "Oliver", "Alexander", "James", "Edgar", "Enoch",
	"Elijah", "Eli", "Lemuel", "Arthur", "Abe",
}

var npcNamesNeutral = []string{
	"Per", "Nils", "Freja", "Elias", "Jere", "Aatami",
	"Kai", "Kyösti", "Deva", "Khursh", "Sutra",
}

var npcNamesCreature = []string{
	"Havarr", "Sindri", "Cyrus", "Emil", "Dyra", "Kolli",
	"Ása", "Eydís", "Aurora", "Draven", "Reznor",
}

var npcDescriptionsFemale = []string{
	"elegant lady",
	"elderly woman",
	"enigmatic caricature of a female",
	"somewhat bitter broad",
	"restless dame",
	"dark mistress",
	"tall, graceful mistress",
	"confident and powerful woman",
	"peaceful townswoman",
}

var npcDescriptionsMale = []string{
	"strange, towering man",
	"fairly tall gentleman",
	"young swain",
	"suspiciously quiet man",
	"very taciturn fellow",
	"rather well-kept, proud gentleman",
	"strange old man",
	"tranquil townsman",
	"nice old man",
}

var npcDescriptionsNeutral = []string{
	"ordinary citizen",
	"fair singleton",
	"surprisingly radiant character",
	"well-kept denizen",
	"friendly commoner",
	"seemingly important civilian",
	"fairly short individual",
	"nearby occupant",
	"fellow voyager",
}

var npcDescriptionsCreature = []string{
	"tall, dark entity",
	"rather unpleasant figure",
	"disfigured creature",
	"mysterious humanoid figure",
	"tall, menacing beast",
	"stunningly vibrant being",
	"ghastly personage",
	"somewhat shocking brute",
	"swift, graceful character",
}

// randNPCName draws from the named pools only. Pub owners and
// renamed players use this.
func randNPCName() string {
	pool := text.Choose([][]string{npcNamesFemale, npcNamesMale})
	return text.Choose(pool)
}

// RandomName picks a name from the townsfolk pools. Players who keep
// second-guessing their own name during creation get one of these.
func RandomName() string {
	return randNPCName()
}

// randNPCDetails keeps the name and description in the same pool so
// the pair reads consistently.
func randNPCDetails() (name, description string) {
	switch rand.Intn(4) {
	case 0:
		return text.Choose(npcNamesMale), text.Choose(npcDescriptionsMale)
	case 1:
		return text.Choose(npcNamesFemale), text.Choose(npcDescriptionsFemale)
	case 2:
		return text.Choose(npcNamesNeutral), text.Choose(npcDescriptionsNeutral)
	default:
		return text.Choose(npcNamesCreature), text.Choose(npcDescriptionsCreature)
	}
}

// article returns the indefinite article for a description.
func article(description string) string {
	if description == "" {
		return "a"
	}
	switch description[0] {
	case 'a', 'e', 'i', 'o', 'u':
		return "an"
	}
	return "a"
}

// God pairs a deity's name with the blurb shown when choosing or
// praying to it. Each class worships one pantheon.
type God struct {
	Name string
	Info string
}

var celticGods = []God{
	{"Danu", "§Matriarch of the Tuatha Dé Danann; caretaker of the Earth."},
	{"Ogma", "§God of eloquence and learning, master of speech and language."},
	{"Epona", "§Goddess of fertility, maternity, protector of horses, horse breeding, prosperity, dogs, healing springs, crops."},
	{"Arwan", "§god of the underground; kingdom of the dead. Evoker of revenge, terror, and war."},
	{"Scathach", "§Goddess of shadows and destruction, patroness of blacksmiths, healing, magic, prophecy, and martial arts."},
	{"Merlin", "§The great sorcerer, druid, and magician; master of illusion, shape-shifting, healing, nature, and counseling."},
}

var hinduGods = []God{
	{"Durga", "Goddess of victory; bane of evil."},
	{"Kali", "§Goddess of time, creation, destruction, and power; mother of the universe and bestower of moksha."},
	{"Ganesha", "§God of beginnings and remover of obstacles; patron of wisdom, letters, and new ventures."},
	{"Vishnu", "§The preserver; protector of order and sustainer of the universe through its ages."},
	{"Surya", "§God of the sun; dispeller of darkness and rider of the seven-horse chariot."},
	{"Krishna", "§God of compassion, tenderness, and love; speaker of the Gita and friend of the lost."},
}

var babylonianGods = []God{
	{"Ereshkigal", "§Queen of the underworld and lady of the great below."},
	{"Gilgamesh", "§Great king of Uruk; slayer of Humbaba and seeker of life eternal."},
}

// Gods returns the pantheon worshipped by a class.
func Gods(class player.Class) []God {
	switch class {
	case player.Melee:
		return babylonianGods
	case player.Ranged:
		return celticGods
	default:
		return hinduGods
	}
}

func RandomGod(class player.Class) God {
	return text.Choose(Gods(class))
}

// GodInfo looks a god up by name within its class's pantheon.
// Returns "" when the name is not found there.
func GodInfo(name string, class player.Class) string {
	for _, g := range Gods(class) {
		if g.Name == name {
			return g.Info
		}
	}
	return ""
}

var sameGodMessages = []string{
	"What's that? You also worship <god>? I might have something else to show you.",
	"What's that? You also worship <god>? Maybe there's something else I can do for you...",
	"I see you're a follower of <god>. Praise be. Let me help you with something good.",
	"I see you've found light in the path of <god>. Let us share in this blessing.",
	"Ahh. Another acolyte of <god>, greatness be. Let us share in this blessing.",
}

// sameGodGreeting opens an NPC's dialogue when the player worships
// the same god. The trailing colon leads into the NPC's own text.
func sameGodGreeting(god string) string {
	return "§" + text.Generate(sameGodMessages, "<god>", god) + ": "
}

var donationRejectedMessages = []string{
	"§The gods accept your offering, but do not believe in your faith.",
	"§The gods smile upon you, but expect further praise on your behalf.",
	"§The gods welcome your sacrifice, but still question your devotion.",
}

func donationRejected() string {
	return text.Choose(donationRejectedMessages)
}
