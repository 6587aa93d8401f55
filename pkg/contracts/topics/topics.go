package topics

const (
	GameResolved = "games.resolved"
)
