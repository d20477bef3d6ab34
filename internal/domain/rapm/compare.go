package rapm

// Comparison pairs a player's standard and luck-adjusted ratings.
type Comparison struct {
	PlayerID string
	Name     string
	Basic    Rating
	Adjusted Rating

	LA  float64 // adjusted RAPM - RAPM
	OLA float64 // adjusted O-RAPM - O-RAPM
	DLA float64 // adjusted D-RAPM - D-RAPM
}

// Compare joins two tables on player id, keeping players present in both,
// in the order of basic.
func Compare(basic, adjusted Table) []Comparison {
	adj := make(map[string]Rating, len(adjusted.Ratings))
	for _, r := range adjusted.Ratings {
		adj[r.PlayerID] = r
	}
	out := make([]Comparison, 0, len(basic.Ratings))
	for _, b := range basic.Ratings {
		a, ok := adj[b.PlayerID]
		if !ok {
			continue
		}
		name := b.Name
		if name == "" {
			name = a.Name
		}
		out = append(out, Comparison{
			PlayerID: b.PlayerID,
			Name:     name,
			Basic:    b,
			Adjusted: a,
			LA:       a.Total - b.Total,
			OLA:      a.Offense - b.Offense,
			DLA:      a.Defense - b.Defense,
		})
	}
	return out
}
