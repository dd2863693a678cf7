package advisory

import (
	"time"

	"github.com/yanqian/agri-advisor/pkg/metrics"
)

// Config wires runtime knobs for advisory generation.
type Config struct {
	Model           string
	MaxTokens       int
	Temperature     float32
	RequestTimeout  time.Duration
	FallbackEnabled bool
}

// RiskPreference is the farmer's appetite for risk as captured by the form.
type RiskPreference string

const (
	RiskHighYield    RiskPreference = "high_yield"
	RiskStableIncome RiskPreference = "stable_income"
	RiskLow          RiskPreference = "low_risk"
)

// Coordinates is a WGS84 point.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Location identifies the farm.
type Location struct {
	Village     string       `json:"village"`
	State       string       `json:"state"`
	District    string       `json:"district"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
}

// LandArea is the cultivable area in the unit chosen by the farmer.
type LandArea struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

// NPK holds lab tested nutrient levels.
type NPK struct {
	N float64 `json:"N"`
	P float64 `json:"P"`
	K float64 `json:"K"`
}

// SoilType describes the soil, optionally with lab results.
type SoilType struct {
	Texture        string   `json:"texture"`
	PhotoURL       string   `json:"photoUrl,omitempty"`
	LabTested      bool     `json:"labTested"`
	NPK            *NPK     `json:"NPK,omitempty"`
	PH             *float64 `json:"pH,omitempty"`
	OrganicContent string   `json:"organicContent,omitempty"`
}

// WaterAvailability describes the water source and irrigation habits.
type WaterAvailability struct {
	Type                string   `json:"type"`
	Depth               *float64 `json:"depth,omitempty"`
	Frequency           string   `json:"frequency"`
	IrrigationAvailable bool     `json:"irrigationAvailable"`
}

// PastCrop is one entry of the farmer's crop history.
type PastCrop struct {
	Crop    string `json:"crop"`
	Season  string `json:"season"`
	Year    int    `json:"year"`
	Disease string `json:"disease,omitempty"`
}

// FarmerInput is the structured form submission handed to the pipeline.
// Sections are pointers so that absent sections can be told apart from zero values.
type FarmerInput struct {
	Location          *Location          `json:"location,omitempty"`
	LandArea          *LandArea          `json:"landArea,omitempty"`
	SoilType          *SoilType          `json:"soilType,omitempty"`
	WaterAvailability *WaterAvailability `json:"waterAvailability,omitempty"`
	BudgetINR         float64            `json:"budgetINR"`
	TimelineDays      int                `json:"timelineDays"`
	LaborCount        int                `json:"laborCount"`
	RiskPreference    RiskPreference     `json:"riskPreference"`
	PastCropHistory   []PastCrop         `json:"pastCropHistory,omitempty"`
}

// PriceRange is a market price band in INR per quintal.
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// RecommendedCrop is a single crop suggestion.
type RecommendedCrop struct {
	Name             string     `json:"name"`
	SuitabilityScore float64    `json:"suitabilityScore"`
	ExpectedYield    float64    `json:"expectedYield"`
	InputCost        float64    `json:"inputCost"`
	TimeToHarvest    int        `json:"timeToHarvest"`
	ProsCons         string     `json:"prosCons"`
	MarketPrice      PriceRange `json:"marketPrice"`
	RiskLevel        string     `json:"riskLevel"`
}

// FertilizerStep is one stage of the fertilizer plan.
type FertilizerStep struct {
	Stage     string  `json:"stage"`
	Inputs    string  `json:"inputs"`
	Frequency string  `json:"frequency"`
	Quantity  float64 `json:"quantity"`
	Timing    string  `json:"timing"`
}

// PestEntry is one row of the pest schedule.
type PestEntry struct {
	Crop              string `json:"crop"`
	RiskLevel         string `json:"riskLevel"`
	Symptoms          string `json:"symptoms"`
	RecommendedAction string `json:"recommendedAction"`
	Timing            string `json:"timing"`
}

// CalendarEntry is one operation on the crop calendar.
type CalendarEntry struct {
	Period    string `json:"period"`
	Operation string `json:"operation"`
	Details   string `json:"details"`
}

// Output is the advisory bundle returned to farmers.
type Output struct {
	RecommendedCrops []RecommendedCrop `json:"recommendedCrops"`
	FertilizerPlan   []FertilizerStep  `json:"fertilizerPlan"`
	PestSchedule     []PestEntry       `json:"pestSchedule"`
	CropCalendar     []CalendarEntry   `json:"cropCalendar"`
	GeneratedAt      time.Time         `json:"generatedAt"`
	Confidence       float64           `json:"confidence"`
}

// Source tells whether an advisory came from the model or the canned fallback.
type Source string

const (
	SourceModel    Source = "model"
	SourceFallback Source = "fallback"
)

// Result is the outcome of one generation.
// Cause is set when Source is SourceFallback and explains why the model result was discarded.
type Result struct {
	Advisory Output
	Source   Source
	Cause    error
	Usage    metrics.TokenUsage
}
