package collect

import "strings"

var eplAbbr = map[string]string{
	"Arsenal FC":                 "ARS",
	"Aston Villa FC":             "AVL",
	"AFC Bournemouth":            "BOU",
	"Brentford FC":               "BRE",
	"Brighton & Hove Albion FC":  "BHA",
	"Burnley FC":                 "BUR",
	"Chelsea FC":                 "CHE",
	"Crystal Palace FC":          "CRY",
	"Everton FC":                 "EVE",
	"Fulham FC":                  "FUL",
	"Ipswich Town FC":            "IPS",
	"Leeds United FC":            "LEE",
	"Leicester City FC":          "LEI",
	"Liverpool FC":               "LIV",
	"Luton Town FC":              "LUT",
	"Manchester City FC":         "MCI",
	"Manchester United FC":       "MUN",
	"Newcastle United FC":        "NEW",
	"Nottingham Forest FC":       "NFO",
	"Sheffield United FC":        "SHU",
	"Southampton FC":             "SOU",
	"Sunderland AFC":             "SUN",
	"Tottenham Hotspur FC":       "TOT",
	"West Ham United FC":         "WHU",
	"Wolverhampton Wanderers FC": "WOL",
}

var mlbAbbr = map[string]string{
	"Arizona Diamondbacks":  "ARI",
	"Athletics":             "OAK",
	"Atlanta Braves":        "ATL",
	"Baltimore Orioles":     "BAL",
	"Boston Red Sox":        "BOS",
	"Chicago Cubs":          "CHC",
	"Chicago White Sox":     "CWS",
	"Cincinnati Reds":       "CIN",
	"Cleveland Guardians":   "CLE",
	"Colorado Rockies":      "COL",
	"Detroit Tigers":        "DET",
	"Houston Astros":        "HOU",
	"Kansas City Royals":    "KC",
	"Los Angeles Angels":    "LAA",
	"Los Angeles Dodgers":   "LAD",
	"Miami Marlins":         "MIA",
	"Milwaukee Brewers":     "MIL",
	"Minnesota Twins":       "MIN",
	"New York Mets":         "NYM",
	"New York Yankees":      "NYY",
	"Philadelphia Phillies": "PHI",
	"Pittsburgh Pirates":    "PIT",
	"San Diego Padres":      "SD",
	"San Francisco Giants":  "SF",
	"Seattle Mariners":      "SEA",
	"St. Louis Cardinals":   "STL",
	"Tampa Bay Rays":        "TB",
	"Texas Rangers":         "TEX",
	"Toronto Blue Jays":     "TOR",
	"Washington Nationals":  "WSH",
}

// eplTeamAbbr maps a football-data.org team name, falling back to the
// API's own three-letter code.
func eplTeamAbbr(name, tla string) string {
	if abbr, ok := eplAbbr[name]; ok {
		return abbr
	}
	if tla != "" {
		return tla
	}
	return "UNK"
}

// mlbTeamAbbr maps a full MLB club name. Unknown names use their first
// three letters.
func mlbTeamAbbr(name string) string {
	if abbr, ok := mlbAbbr[name]; ok {
		return abbr
	}
	r := []rune(name)
	if len(r) > 3 {
		r = r[:3]
	}
	return strings.ToUpper(string(r))
}
