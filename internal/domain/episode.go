package domain

type Classification string

const (
	ClassificationNormal    Classification = "normal"
	ClassificationAnomalous Classification = "anomalous"
)

// EpisodeState is the per-subject debounce state.
type EpisodeState struct {
	Count          int            `json:"count"`
	Classification Classification `json:"classification"`
	// Alerted is set once the sustained alert fired for the current episode.
	Alerted bool `json:"alerted"`
}

func NewEpisodeState() EpisodeState {
	return EpisodeState{Classification: ClassificationNormal}
}

func (s EpisodeState) IsAnomalous() bool {
	return s.Classification == ClassificationAnomalous
}
