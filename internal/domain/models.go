package domain

import "time"

// Pole is one letter of a bipolar dimension.
type Pole byte

const (
	PoleE Pole = 'E'
	PoleI Pole = 'I'
	PoleS Pole = 'S'
	PoleN Pole = 'N'
	PoleT Pole = 'T'
	PoleF Pole = 'F'
	PoleJ Pole = 'J'
	PoleP Pole = 'P'
)

func (p Pole) String() string { return string(p) }

// Dimension is one of the four bipolar axes. The zero value is invalid.
type Dimension int

const (
	Energy Dimension = iota + 1
	Information
	Decision
	Structure
)

// Dimensions lists the axes in label order.
var Dimensions = [4]Dimension{Energy, Information, Decision, Structure}

var dimensionPoles = map[Dimension][2]Pole{
	Energy:      {PoleE, PoleI},
	Information: {PoleS, PoleN},
	Decision:    {PoleT, PoleF},
	Structure:   {PoleJ, PoleP},
}

// Poles returns the (first, second) letters of the axis.
func (d Dimension) Poles() (Pole, Pole) {
	p := dimensionPoles[d]
	return p[0], p[1]
}

// Code returns the two-letter axis code, e.g. "EI".
func (d Dimension) Code() string {
	first, second := d.Poles()
	if first == 0 {
		return ""
	}
	return string([]byte{byte(first), byte(second)})
}

func (d Dimension) Valid() bool {
	_, ok := dimensionPoles[d]
	return ok
}

func (d Dimension) String() string {
	switch d {
	case Energy:
		return "energy"
	case Information:
		return "information"
	case Decision:
		return "decision"
	case Structure:
		return "structure"
	}
	return "unknown"
}

// ParseDimension accepts an axis code ("EI", "SN", "TF", "JP").
func ParseDimension(code string) (Dimension, error) {
	for _, d := range Dimensions {
		if d.Code() == code {
			return d, nil
		}
	}
	return 0, ErrUnknownDimension
}

// MarshalText encodes the dimension as its axis code.
func (d Dimension) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, ErrUnknownDimension
	}
	return []byte(d.Code()), nil
}

func (d *Dimension) UnmarshalText(text []byte) error {
	parsed, err := ParseDimension(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Statement is a scored catalog entry. Polarity +1 maps agreement to the
// first pole of the dimension, -1 to the second.
type Statement struct {
	ID        int       `json:"id" yaml:"id" validate:"min=1"`
	Text      string    `json:"text" yaml:"text" validate:"required"`
	Dimension Dimension `json:"dimension" yaml:"dimension" validate:"min=1,max=4"`
	Polarity  int       `json:"polarity" yaml:"polarity" validate:"oneof=-1 1"`
}

// Answer is a five-point agreement response to one statement.
type Answer struct {
	StatementID int `json:"statementId"`
	Score       int `json:"score" validate:"min=1,max=5"`
}

const (
	MinScore     = 1
	MaxScore     = 5
	NeutralScore = 3
)

// Tier selects catalog size and question count for an attempt.
type Tier string

const (
	TierBasic        Tier = "basic"
	TierStandard     Tier = "standard"
	TierProfessional Tier = "professional"
)

func ParseTier(raw string) (Tier, error) {
	switch t := Tier(raw); t {
	case TierBasic, TierStandard, TierProfessional:
		return t, nil
	}
	return "", ErrUnknownTier
}

// TierSpec is the configured shape of a tier: its catalog is the first
// CatalogSize statements of the master catalog.
type TierSpec struct {
	Tier        Tier `json:"tier" yaml:"name" validate:"oneof=basic standard professional"`
	CatalogSize int  `json:"catalogSize" yaml:"catalogSize" validate:"min=1"`
	TargetCount int  `json:"targetCount" yaml:"targetCount" validate:"min=0"`
}

// Catalog is the master statement list ordered by ID.
type Catalog struct {
	Name       string      `json:"name"`
	Statements []Statement `json:"statements"`
}

// Scores holds one integer percentage per pole. Each pair sums to 100.
type Scores struct {
	E int `json:"E"`
	I int `json:"I"`
	S int `json:"S"`
	N int `json:"N"`
	T int `json:"T"`
	F int `json:"F"`
	J int `json:"J"`
	P int `json:"P"`
}

// Pair returns the (first, second) percentages for an axis.
func (s Scores) Pair(d Dimension) (int, int) {
	switch d {
	case Energy:
		return s.E, s.I
	case Information:
		return s.S, s.N
	case Decision:
		return s.T, s.F
	case Structure:
		return s.J, s.P
	}
	return 0, 0
}

// SetPair assigns both percentages of an axis.
func (s *Scores) SetPair(d Dimension, first, second int) {
	switch d {
	case Energy:
		s.E, s.I = first, second
	case Information:
		s.S, s.N = first, second
	case Decision:
		s.T, s.F = first, second
	case Structure:
		s.J, s.P = first, second
	}
}

// Result is an immutable finalized attempt.
type Result struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	Type      string    `json:"type"`
	Tier      Tier      `json:"tier"`
	Scores    Scores    `json:"scores"`
}

// TypeDescription is the narrative content for one four-letter type.
type TypeDescription struct {
	Type             string             `json:"type" yaml:"type"`
	Title            string             `json:"title" yaml:"title"`
	Subtitle         string             `json:"subtitle" yaml:"subtitle"`
	Description      string             `json:"description" yaml:"description"`
	Characteristics  []string           `json:"characteristics" yaml:"characteristics"`
	Strengths        []string           `json:"strengths" yaml:"strengths"`
	Weaknesses       []string           `json:"weaknesses" yaml:"weaknesses"`
	Careers          []string           `json:"careers" yaml:"careers"`
	Growth           []string           `json:"growth" yaml:"growth"`
	Relationships    Relationships      `json:"relationships" yaml:"relationships"`
	WorkStyle        WorkStyle          `json:"workStyle" yaml:"workStyle"`
	LearningStyle    LearningStyle      `json:"learningStyle" yaml:"learningStyle"`
	StressManagement StressManagement   `json:"stressManagement" yaml:"stressManagement"`
	Communication    CommunicationStyle `json:"communicationStyle" yaml:"communicationStyle"`
}

type Relationships struct {
	Strengths  []string `json:"strengths" yaml:"strengths"`
	Challenges []string `json:"challenges" yaml:"challenges"`
}

type WorkStyle struct {
	Preferences []string `json:"preferences" yaml:"preferences"`
	Challenges  []string `json:"challenges" yaml:"challenges"`
}

type LearningStyle struct {
	Preferences []string `json:"preferences" yaml:"preferences"`
	Strategies  []string `json:"strategies" yaml:"strategies"`
}

type StressManagement struct {
	Triggers         []string `json:"triggers" yaml:"triggers"`
	CopingStrategies []string `json:"copingStrategies" yaml:"copingStrategies"`
}

type CommunicationStyle struct {
	Strengths  []string `json:"strengths" yaml:"strengths"`
	Challenges []string `json:"challenges" yaml:"challenges"`
	Tips       []string `json:"tips" yaml:"tips"`
}

// Report joins a stored result with its narrative content, if any.
type Report struct {
	Result      Result           `json:"result"`
	Description *TypeDescription `json:"description,omitempty"`
}

// Progress is a snapshot of an attempt for the UI.
type Progress struct {
	Tier     Tier `json:"tier"`
	Cursor   int  `json:"cursor"`
	Answered int  `json:"answered"`
	Total    int  `json:"total"`
}
