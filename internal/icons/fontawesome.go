package icons

// fontAwesome maps Font Awesome 5 (free) icon names to their glyphs.
var fontAwesome = map[string]string{
	"address-book":         "\uf2b9",
	"address-card":         "\uf2bb",
	"android":              "\uf17b",
	"apple":                "\uf179",
	"archive":              "\uf187",
	"at":                   "\uf1fa",
	"atom":                 "\uf5d2",
	"bell":                 "\uf0f3",
	"bolt":                 "\uf0e7",
	"book":                 "\uf02d",
	"bookmark":             "\uf02e",
	"box":                  "\uf466",
	"briefcase":            "\uf0b1",
	"broadcast-tower":      "\uf519",
	"bug":                  "\uf188",
	"calculator":           "\uf1ec",
	"calendar":             "\uf133",
	"calendar-alt":         "\uf073",
	"camera":               "\uf030",
	"chart-bar":            "\uf080",
	"chart-line":           "\uf201",
	"chart-pie":            "\uf200",
	"check":                "\uf00c",
	"chess":                "\uf439",
	"chrome":               "\uf268",
	"circle":               "\uf111",
	"clock":                "\uf017",
	"cloud":                "\uf0c2",
	"code":                 "\uf121",
	"code-branch":          "\uf126",
	"coffee":               "\uf0f4",
	"cog":                  "\uf013",
	"cogs":                 "\uf085",
	"comment":              "\uf075",
	"comment-alt":          "\uf27a",
	"comment-dots":         "\uf4ad",
	"comments":             "\uf086",
	"compact-disc":         "\uf51f",
	"copy":                 "\uf0c5",
	"cut":                  "\uf0c4",
	"database":             "\uf1c0",
	"desktop":              "\uf108",
	"discord":              "\uf392",
	"docker":               "\uf395",
	"download":             "\uf019",
	"dropbox":              "\uf16b",
	"edge":                 "\uf282",
	"edit":                 "\uf044",
	"envelope":             "\uf0e0",
	"envelope-open":        "\uf2b6",
	"evernote":             "\uf839",
	"exclamation":          "\uf12a",
	"exclamation-triangle": "\uf071",
	"facebook":             "\uf09a",
	"file":                 "\uf15b",
	"file-alt":             "\uf15c",
	"file-audio":           "\uf1c7",
	"file-code":            "\uf1c9",
	"file-excel":           "\uf1c3",
	"file-image":           "\uf1c5",
	"file-pdf":             "\uf1c1",
	"file-powerpoint":      "\uf1c4",
	"file-video":           "\uf1c8",
	"file-word":            "\uf1c2",
	"film":                 "\uf008",
	"fire":                 "\uf06d",
	"firefox":              "\uf269",
	"flask":                "\uf0c3",
	"folder":               "\uf07b",
	"folder-open":          "\uf07c",
	"gamepad":              "\uf11b",
	"git":                  "\uf1d3",
	"github":               "\uf09b",
	"gitlab":               "\uf296",
	"globe":                "\uf0ac",
	"google-drive":         "\uf3aa",
	"graduation-cap":       "\uf19d",
	"hashtag":              "\uf292",
	"hdd":                  "\uf0a0",
	"headphones":           "\uf025",
	"heart":                "\uf004",
	"home":                 "\uf015",
	"id-card":              "\uf2c2",
	"image":                "\uf03e",
	"images":               "\uf302",
	"inbox":                "\uf01c",
	"info":                 "\uf129",
	"info-circle":          "\uf05a",
	"internet-explorer":    "\uf26b",
	"java":                 "\uf4e4",
	"key":                  "\uf084",
	"keyboard":             "\uf11c",
	"laptop":               "\uf109",
	"link":                 "\uf0c1",
	"linux":                "\uf17c",
	"list":                 "\uf03a",
	"lock":                 "\uf023",
	"magic":                "\uf0d0",
	"map":                  "\uf279",
	"map-marker-alt":       "\uf3c5",
	"memory":               "\uf538",
	"microchip":            "\uf2db",
	"minus":                "\uf068",
	"mobile":               "\uf10b",
	"moon":                 "\uf186",
	"mouse-pointer":        "\uf245",
	"music":                "\uf001",
	"network-wired":        "\uf6ff",
	"newspaper":            "\uf1ea",
	"opera":                "\uf26a",
	"paint-brush":          "\uf1fc",
	"palette":              "\uf53f",
	"paper-plane":          "\uf1d8",
	"paste":                "\uf0ea",
	"pause":                "\uf04c",
	"pencil-alt":           "\uf303",
	"phone":                "\uf095",
	"play":                 "\uf04b",
	"play-circle":          "\uf144",
	"plug":                 "\uf1e6",
	"plus":                 "\uf067",
	"podcast":              "\uf2ce",
	"print":                "\uf02f",
	"python":               "\uf3e2",
	"question":             "\uf128",
	"question-circle":      "\uf059",
	"reddit":               "\uf1a1",
	"rocket":               "\uf135",
	"rss":                  "\uf09e",
	"safari":               "\uf267",
	"save":                 "\uf0c7",
	"search":               "\uf002",
	"server":               "\uf233",
	"shield-alt":           "\uf3ed",
	"shopping-cart":        "\uf07a",
	"sitemap":              "\uf0e8",
	"skype":                "\uf17e",
	"slack":                "\uf198",
	"sms":                  "\uf7cd",
	"spinner":              "\uf110",
	"spotify":              "\uf1bc",
	"square":               "\uf0c8",
	"stack-overflow":       "\uf16c",
	"star":                 "\uf005",
	"steam":                "\uf1b6",
	"sticky-note":          "\uf249",
	"stop":                 "\uf04d",
	"stream":               "\uf550",
	"sun":                  "\uf185",
	"sync":                 "\uf021",
	"table":                "\uf0ce",
	"tablet":               "\uf10a",
	"tasks":                "\uf0ae",
	"telegram":             "\uf2c6",
	"terminal":             "\uf120",
	"th":                   "\uf00a",
	"th-large":             "\uf009",
	"times":                "\uf00d",
	"tools":                "\uf7d9",
	"trash":                "\uf1f8",
	"trello":               "\uf181",
	"tv":                   "\uf26c",
	"twitter":              "\uf099",
	"upload":               "\uf093",
	"user":                 "\uf007",
	"user-circle":          "\uf2bd",
	"user-secret":          "\uf21b",
	"users":                "\uf0c0",
	"video":                "\uf03d",
	"volume-up":            "\uf028",
	"whatsapp":             "\uf232",
	"wifi":                 "\uf1eb",
	"window-maximize":      "\uf2d0",
	"window-restore":       "\uf2d2",
	"windows":              "\uf17a",
	"wordpress":            "\uf19a",
	"wrench":               "\uf0ad",
	"youtube":              "\uf167",
}
