package object

// Category is the kind of a falling token.
type Category int

const (
	CategoryHuman Category = iota
	CategoryAI
	CategoryDiscord
	CategoryReferral
	CategoryZK
	CategoryFake
	CategorySybil
)

// GoodCategories are the categories that score when caught.
var GoodCategories = []Category{
	CategoryHuman,
	CategoryAI,
	CategoryDiscord,
	CategoryReferral,
	CategoryZK,
}

// BadCategories are the categories that cost a life when caught.
var BadCategories = []Category{
	CategoryFake,
	CategorySybil,
}

var categoryNames = map[Category]string{
	CategoryHuman:    "HUMAN",
	CategoryAI:       "AI",
	CategoryDiscord:  "DISCORD",
	CategoryReferral: "REFERRAL",
	CategoryZK:       "ZK",
	CategoryFake:     "FAKE",
	CategorySybil:    "SYBIL",
}

var categoryLabels = map[Category]string{
	CategoryHuman:    "Human",
	CategoryAI:       "AI Agent",
	CategoryDiscord:  "Discord",
	CategoryReferral: "Referral",
	CategoryZK:       "ZK Proof",
	CategoryFake:     "Fake",
	CategorySybil:    "Sybil",
}

// Good reports whether the category belongs to the good set.
func (c Category) Good() bool {
	return c >= CategoryHuman && c <= CategoryZK
}

// String returns the category's identifier, e.g. "SYBIL".
func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return "UNKNOWN"
}

// Label returns the human-readable name shown on the token.
func (c Category) Label() string {
	if label, ok := categoryLabels[c]; ok {
		return label
	}
	return "?"
}

// Token is a falling collectible.
// Coordinates are normalized: X in [0,1], Y grows downward from the top edge.
type Token struct {
	ID       ID
	X, Y     float64 // Position
	VY       float64 // Fall speed (units/sec, always > 0)
	Category Category
	Good     bool // Derived from Category at creation
}

// NewToken creates a token. Good is derived from the category so the two can
// never disagree.
func NewToken(id ID, x, y, vy float64, category Category) Token {
	return Token{
		ID:       id,
		X:        x,
		Y:        y,
		VY:       vy,
		Category: category,
		Good:     category.Good(),
	}
}
