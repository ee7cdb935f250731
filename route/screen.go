package route

import "fmt"

// ScreenID names one native navigation destination.
type ScreenID int

const (
	Login ScreenID = iota
	Dashboard
	History
	DailyTrend
)

// AllScreens lists every screen identifier in declaration order.
var AllScreens = []ScreenID{Login, Dashboard, History, DailyTrend}

var screenNames = map[ScreenID]string{
	Login:      "login",
	Dashboard:  "dashboard",
	History:    "history",
	DailyTrend: "dailytrend",
}

// String returns the config-file name of the screen.
func (s ScreenID) String() string {
	if name, ok := screenNames[s]; ok {
		return name
	}
	return fmt.Sprintf("screen(%d)", int(s))
}

// ParseScreenID maps a config-file name ("dashboard", "dailytrend", ...) to
// its ScreenID.
func ParseScreenID(name string) (ScreenID, error) {
	for id, n := range screenNames {
		if n == name {
			return id, nil
		}
	}
	return 0, fmt.Errorf("unknown screen %q", name)
}
