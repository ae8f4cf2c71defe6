package models

type Team struct {
	ID       int    `json:"id"`
	LeagueID int    `json:"league_id"`
	GroupID  int    `json:"group_id"`
	Name     string `json:"name"`
	// Classification — сложность команды по шкале 1..5, входит в расчёт
	// сложности матча.
	Classification int     `json:"classification"`
	LogoKey        *string `json:"-"`
	LogoURL        *string `json:"logo_url,omitempty"`
}
