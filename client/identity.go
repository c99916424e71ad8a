package client

import (
	"strings"

	"github.com/samber/lo"
)

// Identity is the display identity prepended to every outgoing line.
// The relay never interprets it.
type Identity struct {
	Username string
	Emoji    string
}

type IdentityGenerator func() Identity

var usernameWords = []string{
	"abyss", "almond", "amethyst", "blossom", "blaze", "butterfly", "cactus",
	"caramel", "cascade", "diamond", "delight", "dusk", "effervescent", "emerald",
	"enigma", "falcon", "feather", "frost", "galaxy", "gazelle", "glimmer", "hazel",
	"harmony", "hurricane", "illusion", "indigo", "ivory", "jade", "jewel",
	"jubilee", "kaleidoscope", "karma", "koala", "labyrinth", "lighthouse", "luna",
	"mimosa", "mist", "mystic", "nebula", "nectar", "oasis", "opal", "onyx",
	"paradise", "peony", "penguin", "quartz", "quasar", "quench", "radiance",
	"raven", "ruby", "sapphire", "serene", "serenity", "thunder", "triumph",
	"twilight", "universe", "urchin", "utopia", "velvet", "vivid", "vortex",
	"whisper", "xanadu", "xenon", "yoga", "yonder", "zeppelin", "zenith",
}

var emojis = []string{
	"🌟", "🚀", "💡", "🔥", "🌈", "🐢", "🌺", "🌊", "🎉", "🍕", "🎸", "📚", "🌙", "⚡", "🍦",
	"🌸", "🌞", "🐳", "🌼", "🎻", "🎁", "🍔", "🎹", "🔒", "🌍", "🌩", "🍭", "🌹", "🌄", "🐬",
	"🌻", "💧", "🎈", "🌮", "🔑", "🌎", "🌪", "🍩", "🌷", "🌅", "🦈", "🌧", "🎊", "🍟",
	"🎷", "🔓", "🌏", "⛈", "🍰", "🌇", "🐠", "💨", "🎀", "🌭", "🎺", "🔐", "🌕",
	"🍪", "🌆", "🐙", "💫", "🎵", "🍿", "🥁", "🌖", "🍨", "🌉", "🦀", "🎶", "🥤", "🎼",
	"🌗", "🏞️", "🐌", "🍺", "🪕", "🐝", "🌘", "🏙️", "☀️",
}

// RandomIdentity joins two random words with "_" and picks one emoji.
func RandomIdentity() Identity {
	words := lo.Times(2, func(_ int) string {
		return lo.Sample(usernameWords)
	})
	return Identity{
		Username: strings.Join(words, "_"),
		Emoji:    lo.Sample(emojis),
	}
}
