package normalize

// brandDictionary is the curated list of known gear brands, checked in
// order. Substring matching against it is deliberately loose; the ordering
// here and the tier ordering in brand.go are load-bearing, because merge
// deduplication keys on (name, brand) and reclassifying a brand between
// scrapes would fork duplicate catalog rows.
var brandDictionary = []string{
	"Khalil Mamoon", "KM", "Shika", "Starbuzz", "Fumari", "Tangiers",
	"Al Fakher", "Nakhla", "Dokha", "Kaloud", "Provost", "D-Hose",
	"Mya", "Egyptian", "Turkish", "Syrian", "Modern", "Traditional",
	"Aeon", "Alpha", "Amira", "Amy Deluxe", "Amotion", "Anima",
	"Apocalypse", "ATH", "Aura", "Avion", "B2", "BYO", "Chaos",
	"Cocoyaya", "Corsair", "Cube", "Damla", "Darkside", "D-Hookahs",
	"Deezer", "Don", "Draco", "Dschinni", "DSH", "DUD", "El Bomber",
	"El Nefes", "Electric", "Elmas", "Enso", "Euphoria", "Everember",
	"Evolution", "Fantasia", "Flume", "Fumant", "Glass", "Golden Desert",
	"HJ", "Honey Sigh", "Hoob", "Hookah King", "Hooky Steel", "Hume",
	"Japona", "Jetpack", "Kalle", "Koress", "KVZE", "Lavoo", "Luna",
	"Maestro", "Magdy Zidan", "Make", "Mamay Customs", "Mansory",
	"Mattpear", "Marajah", "Mexanika Smoke", "Midas", "Misha", "MG",
	"MIG", "Mob", "Moze", "Na-Grani", "NAYB", "Nova Smoke",
	"Nube Unique", "Nuvo", "Oduman", "Omar", "Overdozz", "OVO 360",
	"Pandora", "Portable", "Regal", "Retrofit", "RF", "Roden",
	"Sahara Smoke", "Shi Carver", "Shisha Kings", "Shishabucks",
	"SHISHATECH", "Smokah", "Social Smoke", "Spaceman", "Square",
	"Steamulation", "Supra", "Tempus", "Thunder", "Triton", "Tyrant",
	"Union", "Vesper", "Vogue", "VZ", "Wookah", "Zahrah", "Zomo",
	"Zord", "Alpaca", "OBLAKO", "LeRook", "Harmony", "Musthave",
	"Trifecta", "Titanium", "CocoUrth", "Coco Nara", "Coco Mazaya",
	"Coco Riki", "COCOUS", "Coco Primo", "Coco Ultimate",
	"D'schinni", "Exotica", "Fumax", "Ghost", "Green Flame",
	"King of Fire", "LeOrange", "Medwakh", "Native", "Natural",
	"Nour", "One Nation", "Pharaoh's", "Prestige",
}

// brandIndicators maps lowercase keywords to canonical brand names for
// brands whose tokenization is irregular (apostrophes, spacing, casing).
// Checked in order after the dictionary tiers.
var brandIndicators = []struct {
	keyword string
	brand   string
}{
	{"aeon", "Aeon"},
	{"alpaca", "Alpaca"},
	{"oblako", "OBLAKO"},
	{"musthave", "Musthave"},
	{"trifecta", "Trifecta"},
	{"titanium", "Titanium"},
	{"cocourth", "CocoUrth"},
	{"coco nara", "Coco Nara"},
	{"coco mazaya", "Coco Mazaya"},
	{"coco riki", "Coco Riki"},
	{"cocous", "COCOUS"},
	{"coco primo", "Coco Primo"},
	{"coco ultimate", "Coco Ultimate"},
	{"d'schinni", "D'schinni"},
	{"exotica", "Exotica"},
	{"fumax", "Fumax"},
	{"ghost", "Ghost"},
	{"green flame", "Green Flame"},
	{"king of fire", "King of Fire"},
	{"leorange", "LeOrange"},
	{"medwakh", "Medwakh"},
	{"native", "Native"},
	{"natural", "Natural"},
	{"nour", "Nour"},
	{"one nation", "One Nation"},
	{"pharaoh's", "Pharaoh's"},
	{"prestige", "Prestige"},
}
