package model

// UnknownGroup aggregates unclassified transactions sharing a description.
type UnknownGroup struct {
	Keyword       string
	Direction     Direction
	Count         int
	AverageDebit  float64
	AverageCredit float64
}
