package segment

// abbreviations seeds the Punkt storage of each language, on top of the
// bundled English data for "en". Entries are lower case, without the final period.
var abbreviations = map[string][]string{
	"ro": {
		// titles and forms of address
		"dl", "dna", "dnul", "d-na", "d-l", "dra", "prof", "conf", "lect", "asist",
		"dr", "ing", "acad", "gen", "col", "mr", "lt", "sf", "st",
		// legal and editorial
		"art", "alin", "lit", "nr", "pct", "pag", "p", "pp", "cap", "vol", "ed",
		"fig", "tab", "ex", "obs", "cf", "vs", "etc", "ș.a", "ş.a", "ș.a.m.d", "ş.a.m.d",
		"i.e", "e.g", "aprox", "cca", "resp", "max", "min",
		// dates and addresses
		"ian", "feb", "mart", "apr", "iun", "iul", "aug", "sept", "oct", "nov", "dec",
		"str", "bd", "bld", "jud", "mun", "sect", "ap", "sc", "et",
		// physics and units written with a period
		"sec", "temp", "const", "coef", "rel", "ec",
	},
	"en": {
		"mr", "mrs", "ms", "dr", "prof", "st", "jr", "sr", "vs", "etc", "fig", "eq",
		"no", "vol", "pp", "approx", "e.g", "i.e", "cf",
	},
	"fr": {
		"m", "mm", "mme", "mlle", "dr", "pr", "me", "st", "ste", "cf", "etc", "fig",
		"p", "pp", "vol", "chap", "art", "al", "env", "max", "min", "n°", "éd",
	},
}

// Languages returns the language codes with built-in segmentation data.
func Languages() []string {
	return []string{"ro", "en", "fr"}
}
