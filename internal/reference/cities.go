package reference

// cityAliases maps raw host-city spellings to canonical names.
var cityAliases = map[string]string{
	"MONTEVIDEO": "Montevideo",

	"MEXICO CITY":     "Mexico City",
	"Mexico (México)": "Mexico City",
	"México":          "Mexico City",
	"Mexico":          "Mexico City",

	"Sao Paulo": "São Paulo",
	"São Paulo": "São Paulo",
	"SAO PAULO": "São Paulo",

	"Rio de Janeiro": "Rio de Janeiro",
	"Rio De Janeiro": "Rio de Janeiro",

	// Saint-Denis is folded into Paris.
	"Saint-Denis": "Paris",
	"Saint Denis": "Paris",

	"ROME":         "Rome",
	"PARIS":        "Paris",
	"BERLIN":       "Berlin",
	"LONDON":       "London",
	"MADRID":       "Madrid",
	"BARCELONA":    "Barcelona",
	"BUENOS AIRES": "Buenos Aires",

	"Brasilia": "Brasília",
	"Brasília": "Brasília",

	"Belo Horizonte": "Belo Horizonte",
	"Porto Alegre":   "Porto Alegre",
	"Curitiba":       "Curitiba",
	"Manaus":         "Manaus",
	"Fortaleza":      "Fortaleza",
	"Recife":         "Recife",
	"Salvador":       "Salvador",
	"Natal":          "Natal",
	"Cuiaba":         "Cuiabá",
}

// stadiums2018 names the 2018 venues by ID.
var stadiums2018 = map[int]string{
	1:  "Luzhniki Stadium",
	2:  "Otkrytiye Arena",
	3:  "Krestovsky Stadium",
	4:  "Kaliningrad Stadium",
	5:  "Kazan Arena",
	6:  "Nizhny Novgorod Stadium",
	7:  "Cosmos Arena",
	8:  "Volgograd Arena",
	9:  "Mordovia Arena",
	10: "Rostov Arena",
	11: "Fisht Olympic Stadium",
	12: "Central Stadium",
}
