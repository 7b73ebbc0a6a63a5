package quest

import "github.com/geoquest/api/internal/geo"

// Registry returns the static Kutaisi landmark set. The slice is built
// fresh on every call so callers can never mutate the seed data.
func Registry() []Landmark {
	return []Landmark{
		{
			ID:         "bagrati",
			Name:       "Bagrati Cathedral",
			Category:   CategoryQuest,
			Position:   geo.Point{Lat: 42.2773, Lng: 42.7043},
			RewardIcon: "👑",
			Riddle:     "A crown of stone upon Ukimerioni hill, rebuilt from ruin, watching the city still.",
			Hints: []string{
				"Cross the White Bridge and keep climbing.",
				"King Bagrat III gave it his name a thousand years ago.",
			},
			Facts: []string{
				"Completed in 1003 under Bagrat III, king of a newly united Georgia.",
				"Stood roofless for nearly three centuries after a 1692 explosion.",
			},
		},
		{
			ID:         "colchis",
			Name:       "Colchis Fountain",
			Category:   CategoryQuest,
			Position:   geo.Point{Lat: 42.2706, Lng: 42.7060},
			RewardIcon: "🐎",
			Riddle:     "Golden beasts circle where the city's heart beats, thirty guardians from a kingdom of myths.",
			Hints: []string{
				"Stand in the middle of the central roundabout.",
			},
			Facts: []string{
				"Its gilded animals are enlarged replicas of Colchian bronzes dug up nearby.",
				"Jason and the Argonauts sailed to this very kingdom for the Golden Fleece.",
			},
		},
		{
			ID:         "gelati",
			Name:       "Gelati Monastery",
			Category:   CategoryQuest,
			Position:   geo.Point{Lat: 42.2946, Lng: 42.7619},
			RewardIcon: "📜",
			Riddle:     "A king of builders sleeps beneath the gate he raised, where golden mosaics outshone an academy's pages.",
			Hints: []string{
				"Take the road northeast out of town toward Motsameta.",
				"David the Builder founded it in 1106.",
			},
			Facts: []string{
				"A UNESCO World Heritage site and medieval Georgia's main center of learning.",
				"King David IV is buried under the south gate so every visitor steps over his grave.",
			},
		},
		{
			ID:         "white-bridge",
			Name:       "White Bridge",
			Category:   CategoryQuest,
			Position:   geo.Point{Lat: 42.2716, Lng: 42.7048},
			RewardIcon: "🎩",
			Riddle:     "A boy with two hats sits above the green river, on a crossing painted the color of snow.",
			Hints: []string{
				"Listen for the Rioni rushing underneath.",
			},
			Facts: []string{
				"The bronze boy statue comes from a beloved Kutaisi film scene.",
				"Built in the 1850s, its ironwork came from France.",
			},
		},
		{
			ID:         "opera",
			Name:       "Meskhishvili Theatre",
			Category:   CategoryQuest,
			Position:   geo.Point{Lat: 42.2700, Lng: 42.7072},
			RewardIcon: "🎭",
			Riddle:     "Columns guard a hall of voices on the central square; applause has echoed here since the tsars.",
			Hints: []string{
				"Face the Colchis Fountain and turn around.",
			},
			Facts: []string{
				"Named after Lado Meskhishvili, a celebrated Georgian actor and director.",
			},
		},
		{
			ID:         "green-bazaar",
			Name:       "Green Bazaar",
			Category:   CategoryDining,
			Position:   geo.Point{Lat: 42.2683, Lng: 42.7034},
			RewardIcon: "🧀",
			Riddle:     "Mountains of sulguni and strings of churchkhela; haggle softly and leave heavier than you came.",
			Hints: []string{
				"Follow the smell of fresh bread off Paliashvili street.",
			},
			Facts: []string{
				"The covered market has fed Kutaisi since the Soviet era.",
				"Imeretian khachapuri — the round one — was born in this region.",
			},
		},
		{
			ID:         "motsameta",
			Name:       "Motsameta Monastery",
			Category:   CategoryQuest,
			Position:   geo.Point{Lat: 42.2836, Lng: 42.7597},
			RewardIcon: "🕊️",
			Riddle:     "Two martyred brothers rest on a cliff above a river bend, where a wish is granted to those who crawl beneath them.",
			Hints: []string{
				"It shares the canyon road with Gelati.",
			},
			Facts: []string{
				"Named for the martyrs David and Constantine Mkheidze.",
			},
		},
		{
			ID:         "hotel-argo",
			Name:       "Hotel Argo",
			Category:   CategoryHotel,
			Position:   geo.Point{Lat: 42.2665, Lng: 42.7089},
			RewardIcon: "⚓",
			Riddle:     "Named for the ship that carried heroes east, it offers rest where the quest begins.",
			Facts: []string{
				"Partner hotel — show your passport stamps at the desk for a discount.",
			},
		},
	}
}

// LandmarkByID looks up a registry entry by ID.
func LandmarkByID(id string) (Landmark, bool) {
	for _, lm := range Registry() {
		if lm.ID == id {
			return lm, true
		}
	}
	return Landmark{}, false
}

// RegistryNames returns the display names in registry order, used as
// disambiguation context in the vision prompt.
func RegistryNames() []string {
	reg := Registry()
	names := make([]string, len(reg))
	for i, lm := range reg {
		names[i] = lm.Name
	}
	return names
}
