package reference

// CoteDIvoire is the ASCII-safe canonical spelling every encoding variant maps to.
const CoteDIvoire = "Cote d'Ivoire"

// teamAliases maps raw team spellings to canonical names. Keys are matched
// exactly first, then against the title-cased raw value.
var teamAliases = map[string]string{
	// State mergers and successors
	"West Germany":   "Germany",
	"FR Germany":     "Germany",
	"Germany FR":     "Germany",
	"FRG":            "Germany",
	"Frg":            "Germany",
	"German DR":      "East Germany",
	"Soviet Union":   "Russia",
	"USSR":           "Russia",
	"Ussr":           "Russia",
	"Yugoslavia":     "Serbia",
	"Czechoslovakia": "Czech Republic",

	// Korea
	"Korea Republic": "South Korea",
	"Korea DPR":      "North Korea",
	"Korea Dpr":      "North Korea",
	"South Korea":    "South Korea",

	// USA
	"United States": "USA",
	"US":            "USA",
	"Usa":           "USA",

	// Cote d'Ivoire and its encoding variants
	"Ivory Coast":       CoteDIvoire,
	"Côte d'Ivoire":     CoteDIvoire,
	"CÃ´te d'Ivoire":    CoteDIvoire,
	"C�te d'Ivoire": CoteDIvoire,
	"C_¯_¿_e d'Ivoire":  CoteDIvoire,
	"CTe d'Ivoire":      CoteDIvoire,
	"Cote D'Ivoire":     CoteDIvoire,

	"Bosnia-Herzegovina": "Bosnia and Herzegovina",
	"Bosnia Herzegovina": "Bosnia and Herzegovina",

	"Iran":    "Iran",
	"IR Iran": "Iran",
	"Ir Iran": "Iran",

	"Irish Republic":   "Republic of Ireland",
	"Northern Ireland": "Northern Ireland",

	"Trinidad & Tobago": "Trinidad and Tobago",

	// Casing
	"FRANCE":    "France",
	"BRAZIL":    "Brazil",
	"ARGENTINA": "Argentina",
}

// teams2018 resolves numeric team IDs of the 2018 document.
var teams2018 = map[int]string{
	1: "Russia", 2: "Saudi Arabia", 3: "Egypt", 4: "Uruguay",
	5: "Portugal", 6: "Spain", 7: "Morocco", 8: "Iran",
	9: "France", 10: "Australia", 11: "Peru", 12: "Denmark",
	13: "Argentina", 14: "Iceland", 15: "Croatia", 16: "Nigeria",
	17: "Brazil", 18: "Switzerland", 19: "Costa Rica", 20: "Serbia",
	21: "Germany", 22: "Mexico", 23: "Sweden", 24: "South Korea",
	25: "Belgium", 26: "Panama", 27: "Tunisia", 28: "England",
	29: "Poland", 30: "Senegal", 31: "Colombia", 32: "Japan",
}
