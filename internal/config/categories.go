package config

// CategoryWeights orders command categories in generated docs, lower first.
var CategoryWeights = map[string]int{
	"Moderation": 0,
	"Utility":    10,
	"Fun":        20,
}
