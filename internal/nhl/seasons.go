package nhl

import (
	"fmt"
	"time"
)

// SeasonCurrent asks a schedule fetch for the in-progress season ("now" on
// the NHL API) rather than a specific season code.
const SeasonCurrent = "current"

// Seasons returns the current and previous season codes ("20252026",
// "20242025") for the given date. An NHL season rolls over in October.
func Seasons(at time.Time) (current, previous string) {
	year := at.Year()
	if at.Month() < time.October {
		year--
	}
	current = fmt.Sprintf("%d%d", year, year+1)
	previous = fmt.Sprintf("%d%d", year-1, year)
	return current, previous
}
