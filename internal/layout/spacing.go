package layout

import "strings"

// SpaceOut letter-spaces a name by replacing every single space with a run of
// spacing spaces. Adjacent spaces expand independently.
func SpaceOut(name string, spacing int) string {
	if spacing <= 1 || !strings.Contains(name, " ") {
		return name
	}
	return strings.ReplaceAll(name, " ", strings.Repeat(" ", spacing))
}
