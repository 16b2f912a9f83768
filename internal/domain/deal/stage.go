package deal

import "strings"

// StageCode is a single-letter pipeline position, K (lead) through A (closed)
type StageCode string

const (
	StageK StageCode = "K"
	StageJ StageCode = "J"
	StageI StageCode = "I"
	StageH StageCode = "H"
	StageG StageCode = "G"
	StageF StageCode = "F"
	StageE StageCode = "E"
	StageD StageCode = "D"
	StageC StageCode = "C"
	StageB StageCode = "B"
	StageA StageCode = "A"
)

// Stage is the static definition of one pipeline stage
type Stage struct {
	Code     StageCode `json:"code"`
	Name     string    `json:"name"`
	Progress int       `json:"progress_percent"`
	Order    int       `json:"order"`
}

// stages is ordered from lead to close
var stages = []Stage{
	{Code: StageK, Name: "Lead Identified", Progress: 5},
	{Code: StageJ, Name: "Initial Contact", Progress: 10},
	{Code: StageI, Name: "NDA Signed", Progress: 20},
	{Code: StageH, Name: "Teaser Shared", Progress: 30},
	{Code: StageG, Name: "Information Memorandum", Progress: 40},
	{Code: StageF, Name: "Management Meeting", Progress: 50},
	{Code: StageE, Name: "Indicative Offer (LOI)", Progress: 60},
	{Code: StageD, Name: "Due Diligence", Progress: 70},
	{Code: StageC, Name: "Final Negotiation", Progress: 80},
	{Code: StageB, Name: "SPA Signing", Progress: 90},
	{Code: StageA, Name: "Deal Closed", Progress: 100},
}

var stageIndex = func() map[StageCode]Stage {
	m := make(map[StageCode]Stage, len(stages))
	for i := range stages {
		stages[i].Order = i + 1
		m[stages[i].Code] = stages[i]
	}
	return m
}()

// Stages returns the stage catalog in pipeline order
func Stages() []Stage {
	out := make([]Stage, len(stages))
	copy(out, stages)
	return out
}

// LookupStage returns the stage for a code, case-insensitively
func LookupStage(code string) (Stage, bool) {
	s, ok := stageIndex[StageCode(strings.ToUpper(strings.TrimSpace(code)))]
	return s, ok
}

// ParseStageCode validates a stage code
func ParseStageCode(code string) (StageCode, bool) {
	s, ok := LookupStage(code)
	return s.Code, ok
}

// Progress returns the static progress percentage of the stage
func (c StageCode) Progress() int {
	return stageIndex[c].Progress
}

// Name returns the display name of the stage
func (c StageCode) Name() string {
	return stageIndex[c].Name
}

// IsValid reports whether the code is in the catalog
func (c StageCode) IsValid() bool {
	_, ok := stageIndex[c]
	return ok
}
