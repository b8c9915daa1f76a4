package viz

import "github.com/charmbracelet/lipgloss"

// Theme is a color scheme for the live view.
type Theme struct {
	Name          string
	Header        lipgloss.Color
	Text          lipgloss.Color
	Muted         lipgloss.Color
	Accent        lipgloss.Color
	Kinetic       lipgloss.Color
	Gravitational lipgloss.Color
	Elastic       lipgloss.Color
	Warning       lipgloss.Color
}

var (
	ThemeGym = Theme{
		Name:          "gym",
		Header:        lipgloss.Color("86"),
		Text:          lipgloss.Color("252"),
		Muted:         lipgloss.Color("240"),
		Accent:        lipgloss.Color("205"),
		Kinetic:       lipgloss.Color("203"),
		Gravitational: lipgloss.Color("75"),
		Elastic:       lipgloss.Color("114"),
		Warning:       lipgloss.Color("214"),
	}

	ThemeChalkboard = Theme{
		Name:          "chalkboard",
		Header:        lipgloss.Color("230"),
		Text:          lipgloss.Color("255"),
		Muted:         lipgloss.Color("245"),
		Accent:        lipgloss.Color("229"),
		Kinetic:       lipgloss.Color("229"),
		Gravitational: lipgloss.Color("195"),
		Elastic:       lipgloss.Color("157"),
		Warning:       lipgloss.Color("217"),
	}

	ThemeRetro = Theme{
		Name:          "retro",
		Header:        lipgloss.Color("46"),
		Text:          lipgloss.Color("40"),
		Muted:         lipgloss.Color("22"),
		Accent:        lipgloss.Color("118"),
		Kinetic:       lipgloss.Color("118"),
		Gravitational: lipgloss.Color("34"),
		Elastic:       lipgloss.Color("82"),
		Warning:       lipgloss.Color("226"),
	}

	Themes = []Theme{ThemeGym, ThemeChalkboard, ThemeRetro}

	CurrentTheme = ThemeGym
)

func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeGym
}

func SetTheme(name string) {
	CurrentTheme = GetTheme(name)
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
