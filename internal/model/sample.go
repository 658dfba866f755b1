package model

// Sample is a single plotted point. Position is the independent axis
// coordinate (a target time in milliseconds); Value is a percentage in
// [0, 100] but is not clamped.
type Sample struct {
	Position float64
	Value    float64
}

// FailureMarker annotates a position whose measurement could not be computed.
type FailureMarker struct {
	Position float64
}

// RunIdentity identifies one measurement run. Two identities are the same run
// when both parameters are equal; comparison is by value.
type RunIdentity struct {
	LapCount    int
	PlayerCount int
}

// Measurement is the outcome of computing one target for a run: the subsets
// that were drawn and their mean pairwise similarity in [0, 1].
type Measurement struct {
	Target     int
	Run        RunIdentity
	Similarity float64
	Subsets    [][]int
}
