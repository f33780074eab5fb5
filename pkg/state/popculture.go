package state

import "math/rand"

// Pop culture references by decade, used to season generated content.
var popCultureRefs = map[string][]string{
	"1970s": {
		"Holy Hand Grenade", "disco ball", "pet rock", "lava lamp", "8-track tape",
		"mood ring", "Rubik's Cube prototype", "bell-bottoms", "platform shoes",
		"Pong arcade machine", "rotary phone", "vinyl record", "cassette tape",
		"Atari 2600", "Star Wars action figure",
	},
	"1980s": {
		"DeLorean", "Rubik's Cube", "Walkman", "boom box", "Pac-Man",
		"Cabbage Patch Kid", "Transformers", "He-Man figure", "Trapper Keeper",
		"Swatch watch", "Members Only jacket", "parachute pants", "Atari joystick",
		"VHS tape", "Nintendo Entertainment System",
	},
	"1990s": {
		"Beanie Babies", "Tamagotchi", "pager", "Discman", "Game Boy", "Furby",
		"Pogs", "slap bracelet", "Troll doll", "Super Soaker", "Tickle Me Elmo",
		"Pokémon card", "dial-up modem", "floppy disk", "CD-ROM",
	},
	"2000s": {
		"flip phone", "iPod", "MySpace profile", "Razor scooter", "Heelys",
		"Silly Bandz", "Webkinz", "Nintendo DS", "PSP", "USB flash drive",
		"Bluetooth headset", "BlackBerry", "Wii remote", "Guitar Hero controller",
		"Crocs",
	},
	"2010s": {
		"fidget spinner", "selfie stick", "dabbing pose", "hoverboard",
		"Minecraft block", "Fortnite dance", "emoji pillow", "Apple Watch",
		"AirPods", "Ring doorbell", "Amazon Echo", "Tesla key card",
		"Nintendo Switch", "VR headset", "wireless charger",
	},
	"2020s": {
		"Among Us crewmate", "sourdough starter", "Zoom fatigue",
		"hand sanitizer dispenser", "face mask", "TikTok dance", "NFT artwork",
		"cryptocurrency wallet", "ChatGPT prompt", "AI-generated image",
		"smart home hub", "electric scooter", "reusable water bottle", "AirTag",
		"foldable phone",
	},
}

var decades = []string{"1970s", "1980s", "1990s", "2000s", "2010s", "2020s"}

// DecadeForDoor maps a door number to the decade whose references flavor
// its world.
func DecadeForDoor(n int) string {
	return decades[n%len(decades)]
}

// RandomReferences picks up to n distinct references from a decade's
// pool. An unknown decade yields nil.
func RandomReferences(decade string, n int) []string {
	pool, ok := popCultureRefs[decade]
	if !ok || n <= 0 {
		return nil
	}
	if n > len(pool) {
		n = len(pool)
	}
	picks := rand.Perm(len(pool))[:n]
	out := make([]string, 0, n)
	for _, idx := range picks {
		out = append(out, pool[idx])
	}
	return out
}
