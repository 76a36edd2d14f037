package nhl

import "strings"

// Team abbreviations follow the NHL API convention (TOR, BOS, ...).

type Division string

const (
	Atlantic     Division = "Atlantic"
	Metropolitan Division = "Metropolitan"
	Central      Division = "Central"
	Pacific      Division = "Pacific"
)

type Conference string

const (
	Eastern Conference = "Eastern"
	Western Conference = "Western"
)

var divisions = map[Division][]string{
	Atlantic:     {"BOS", "BUF", "DET", "FLA", "MTL", "OTT", "TBL", "TOR"},
	Metropolitan: {"CAR", "CBJ", "NJD", "NYI", "NYR", "PHI", "PIT", "WSH"},
	Central:      {"CHI", "COL", "DAL", "MIN", "NSH", "STL", "WPG", "UTA"},
	Pacific:      {"ANA", "CGY", "EDM", "LAK", "SJS", "SEA", "VAN", "VGK"},
}

var conferences = map[Conference][]Division{
	Eastern: {Atlantic, Metropolitan},
	Western: {Central, Pacific},
}

// timezones holds each team's home UTC offset in hours. Used for
// cross-country travel detection.
var timezones = map[string]int{
	"VAN": -8, "SEA": -8, "LAK": -8, "ANA": -8, "SJS": -8,
	"CGY": -7, "EDM": -7, "COL": -7, "UTA": -7, "VGK": -8,
	"DAL": -6, "MIN": -6, "WPG": -6, "CHI": -6, "STL": -6, "NSH": -6,
	"TOR": -5, "BOS": -5, "BUF": -5, "DET": -5, "MTL": -5, "OTT": -5,
	"NYR": -5, "NYI": -5, "NJD": -5, "PHI": -5, "PIT": -5, "WSH": -5,
	"CAR": -5, "CBJ": -5, "FLA": -5, "TBL": -5,
}

var fullNames = map[string]string{
	"ANA": "Anaheim Ducks", "BOS": "Boston Bruins", "BUF": "Buffalo Sabres",
	"CGY": "Calgary Flames", "CAR": "Carolina Hurricanes", "CHI": "Chicago Blackhawks",
	"COL": "Colorado Avalanche", "CBJ": "Columbus Blue Jackets", "DAL": "Dallas Stars",
	"DET": "Detroit Red Wings", "EDM": "Edmonton Oilers", "FLA": "Florida Panthers",
	"LAK": "Los Angeles Kings", "MIN": "Minnesota Wild", "MTL": "Montreal Canadiens",
	"NSH": "Nashville Predators", "NJD": "New Jersey Devils", "NYI": "New York Islanders",
	"NYR": "New York Rangers", "OTT": "Ottawa Senators", "PHI": "Philadelphia Flyers",
	"PIT": "Pittsburgh Penguins", "SJS": "San Jose Sharks", "SEA": "Seattle Kraken",
	"STL": "St. Louis Blues", "TBL": "Tampa Bay Lightning", "TOR": "Toronto Maple Leafs",
	"UTA": "Utah Hockey Club", "VAN": "Vancouver Canucks", "VGK": "Vegas Golden Knights",
	"WSH": "Washington Capitals", "WPG": "Winnipeg Jets",
}

// AllTeams returns every team abbreviation in a stable order.
func AllTeams() []string {
	teams := make([]string, 0, len(fullNames))
	for _, div := range []Division{Atlantic, Metropolitan, Central, Pacific} {
		teams = append(teams, divisions[div]...)
	}
	return teams
}

func FullName(abbrev string) string {
	if name, ok := fullNames[abbrev]; ok {
		return name
	}
	return abbrev
}

// AbbrevFromName matches a full or partial team name ("Toronto Maple Leafs",
// "Maple Leafs") to its abbreviation. Empty string when nothing matches.
func AbbrevFromName(name string) string {
	needle := Normalize(name)
	if needle == "" {
		return ""
	}
	for abbrev, full := range fullNames {
		full = Normalize(full)
		if full == needle || strings.Contains(full, needle) || strings.Contains(needle, full) {
			return abbrev
		}
	}
	return ""
}

func DivisionOf(abbrev string) (Division, bool) {
	for div, teams := range divisions {
		for _, t := range teams {
			if t == abbrev {
				return div, true
			}
		}
	}
	return "", false
}

func ConferenceOf(abbrev string) (Conference, bool) {
	div, ok := DivisionOf(abbrev)
	if !ok {
		return "", false
	}
	for conf, divs := range conferences {
		for _, d := range divs {
			if d == div {
				return conf, true
			}
		}
	}
	return "", false
}

// TimezoneOffset returns the team's home UTC offset in hours. Unknown teams
// default to Eastern.
func TimezoneOffset(abbrev string) int {
	if tz, ok := timezones[abbrev]; ok {
		return tz
	}
	return -5
}
