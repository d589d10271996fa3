package analysis

// The genre classifier is a hand-written decision table, not a learned
// model: an ordered list of (predicate, label) pairs evaluated first
// match wins. Order matters because the conditions overlap; a fast bright
// electronic track also satisfies the Pop/Rock rule.

// Genre labels the classifier can emit
const (
	GenreElectronicDance = "Electronic/Dance"
	GenrePopRock         = "Pop/Rock"
	GenreClassical       = "Classical"
	GenreJazz            = "Jazz"
	GenreOther           = "Other"
)

type genreRule struct {
	label   string
	matches func(bpm, centroid, zcr float64) bool
}

var genreRules = []genreRule{
	{GenreElectronicDance, func(bpm, centroid, _ float64) bool { return bpm > 140 && centroid > 3000 }},
	{GenrePopRock, func(bpm, _, _ float64) bool { return bpm > 120 }},
	{GenreClassical, func(_, centroid, zcr float64) bool { return centroid < 2000 && zcr < 0.1 }},
	{GenreJazz, func(bpm, centroid, _ float64) bool { return centroid > 2500 && bpm < 100 }},
}

// ClassifyGenre maps tempo, brightness and noisiness to a coarse genre
// label. Pure function: identical inputs always yield the identical label.
// centroid is the spectral centroid mean in Hz; zcr is the normalized
// zero-crossing rate mean in [0,1].
func ClassifyGenre(bpm, centroid, zcr float64) string {
	for _, rule := range genreRules {
		if rule.matches(bpm, centroid, zcr) {
			return rule.label
		}
	}
	return GenreOther
}

// GenreLabels returns every label the classifier can produce
func GenreLabels() []string {
	labels := make([]string, 0, len(genreRules)+1)
	for _, rule := range genreRules {
		labels = append(labels, rule.label)
	}
	return append(labels, GenreOther)
}
