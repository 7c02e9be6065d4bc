package mood

// Descriptor describes the music that suits a mood.
type Descriptor struct {
	Genre       string   `json:"genre"`
	Energy      string   `json:"energy"`
	Emoji       string   `json:"emoji"`
	SearchTerms []string `json:"search_terms"`
	Tags        []string `json:"tags"`
}

var catalog = [numMoods]Descriptor{
	{
		Genre:       "Heavy & Intense",
		Energy:      "High",
		Emoji:       "😤",
		SearchTerms: []string{"heavy metal coding", "intense electronic", "aggressive beats", "hard rock programming"},
		Tags:        []string{"metal", "hard-rock", "aggressive", "intense"},
	},
	{
		Genre:       "Upbeat & Electronic",
		Energy:      "Very High",
		Emoji:       "🎉",
		SearchTerms: []string{"upbeat electronic", "energetic dance", "uplifting house", "happy coding"},
		Tags:        []string{"electronic", "dance", "uplifting", "energetic"},
	},
	{
		Genre:       "Indie & Alternative",
		Energy:      "Medium",
		Emoji:       "😌",
		SearchTerms: []string{"indie rock", "alternative coding", "chill indie", "relaxed alternative"},
		Tags:        []string{"indie", "alternative", "chill", "relaxed"},
	},
	{
		Genre:       "Ambient & Chill",
		Energy:      "Low",
		Emoji:       "😴",
		SearchTerms: []string{"ambient chill", "lo-fi hip hop", "relaxing instrumental", "sleepy beats"},
		Tags:        []string{"ambient", "lo-fi", "chill", "relaxing"},
	},
	{
		Genre:       "Euphoric & Uplifting",
		Energy:      "Maximum",
		Emoji:       "🚀",
		SearchTerms: []string{"euphoric trance", "uplifting electronic", "progressive house", "epic instrumental"},
		Tags:        []string{"trance", "euphoric", "uplifting", "epic"},
	},
}

// Describe returns the music descriptor for m. Unknown moods fall back to
// Satisfied, the most neutral entry.
func Describe(m Mood) Descriptor {
	i := m.Index()
	if i < 0 {
		i = Satisfied.Index()
	}
	d := catalog[i]
	d.SearchTerms = append([]string(nil), d.SearchTerms...)
	d.Tags = append([]string(nil), d.Tags...)
	return d
}
