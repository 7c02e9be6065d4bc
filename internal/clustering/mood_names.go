package clustering

import "github.com/justestif/go-commit-mood/internal/mood"

// blendRatio is how close the runner-up mood must come to the dominant one
// to be named alongside it.
const blendRatio = 0.75

// generatePhaseName names a phase after the dominant mood of its centroid.
// A runner-up scoring at least 75% of the dominant mood is appended:
//
//   - {frustrated: 2.0, tired: 1.6} = "Frustrated & Tired"
//   - {frustrated: 2.0, tired: 1.0} = "Frustrated"
//   - all zero                      = "Neutral"
func generatePhaseName(centroid mood.Scores) string {
	top := centroid.Max()
	if top <= 0 {
		return "Neutral"
	}

	dominant := centroid.Dominant()
	name := dominant.Title()

	var runnerUp mood.Mood
	var runnerUpScore float64
	for _, m := range mood.Moods {
		if m == dominant {
			continue
		}
		if v := centroid.Get(m); v > runnerUpScore {
			runnerUp, runnerUpScore = m, v
		}
	}

	if runnerUp != "" && runnerUpScore >= top*blendRatio {
		name += " & " + runnerUp.Title()
	}
	return name
}

// PhaseCategory describes a phase for display purposes.
type PhaseCategory struct {
	Name        string
	Mood        mood.Mood
	Genre       string
	Energy      string
	Description string
}

// GetPhaseCategory returns display details for a phase centroid.
func GetPhaseCategory(centroid mood.Scores) PhaseCategory {
	dominant := centroid.Dominant()
	desc := mood.Describe(dominant)

	var description string
	switch dominant {
	case mood.Frustrated:
		description = "Firefighting - lots of fixes and breakage"
	case mood.Excited:
		description = "Building new things at full speed"
	case mood.Satisfied:
		description = "Steady cleanup and improvement"
	case mood.Tired:
		description = "Small, late, incremental changes"
	case mood.Euphoric:
		description = "Breakthroughs and finished work"
	}
	if centroid.Max() <= 0 {
		description = "No clear mood signal"
	}

	return PhaseCategory{
		Name:        generatePhaseName(centroid),
		Mood:        dominant,
		Genre:       desc.Genre,
		Energy:      desc.Energy,
		Description: description,
	}
}
