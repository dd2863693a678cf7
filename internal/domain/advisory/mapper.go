package advisory

import (
	"encoding/json"
	"math"
	"time"
)

// Defaults applied to every model reply; the model is never asked for these fields.
const (
	defaultMarketMin   = 1500
	defaultMarketMax   = 3000
	defaultCropRisk    = "medium"
	defaultFertTiming  = "As recommended"
	defaultPestTiming  = "Monitor regularly"
	modelConfidence    = 0.85
	fallbackConfidence = 0.75
)

// Reply is the JSON object the model is asked to produce.
type Reply struct {
	RecommendedCrops []struct {
		Name             string  `json:"name"`
		SuitabilityScore float64 `json:"suitabilityScore"`
		ExpectedYield    float64 `json:"expectedYield"`
		InputCost        float64 `json:"inputCost"`
		TimeToHarvest    float64 `json:"timeToHarvest"`
		ProsCons         string  `json:"prosCons"`
	} `json:"recommendedCrops"`
	FertilizerPlan []struct {
		Stage     string  `json:"stage"`
		Inputs    string  `json:"inputs"`
		Frequency string  `json:"frequency"`
		Quantity  float64 `json:"quantity"`
	} `json:"fertilizerPlan"`
	PestSchedule []struct {
		Crop              string `json:"crop"`
		RiskLevel         string `json:"riskLevel"`
		Symptoms          string `json:"symptoms"`
		RecommendedAction string `json:"recommendedAction"`
	} `json:"pestSchedule"`
	CropCalendar []struct {
		Period    string `json:"period"`
		Operation string `json:"operation"`
		Details   string `json:"details"`
	} `json:"cropCalendar"`
}

func decodeReply(data []byte) (Reply, error) {
	var wire Reply
	if err := json.Unmarshal(data, &wire); err != nil {
		return Reply{}, err
	}
	return wire, nil
}

// MapReply copies the model fields into an Output and fills in the fixed defaults.
func MapReply(wire Reply, now time.Time) Output {
	out := Output{
		RecommendedCrops: make([]RecommendedCrop, 0, len(wire.RecommendedCrops)),
		FertilizerPlan:   make([]FertilizerStep, 0, len(wire.FertilizerPlan)),
		PestSchedule:     make([]PestEntry, 0, len(wire.PestSchedule)),
		CropCalendar:     make([]CalendarEntry, 0, len(wire.CropCalendar)),
		GeneratedAt:      now,
		Confidence:       modelConfidence,
	}
	for _, c := range wire.RecommendedCrops {
		out.RecommendedCrops = append(out.RecommendedCrops, RecommendedCrop{
			Name:             c.Name,
			SuitabilityScore: c.SuitabilityScore,
			ExpectedYield:    c.ExpectedYield,
			InputCost:        c.InputCost,
			TimeToHarvest:    int(math.Round(c.TimeToHarvest)),
			ProsCons:         c.ProsCons,
			MarketPrice:      PriceRange{Min: defaultMarketMin, Max: defaultMarketMax},
			RiskLevel:        defaultCropRisk,
		})
	}
	for _, f := range wire.FertilizerPlan {
		out.FertilizerPlan = append(out.FertilizerPlan, FertilizerStep{
			Stage:     f.Stage,
			Inputs:    f.Inputs,
			Frequency: f.Frequency,
			Quantity:  f.Quantity,
			Timing:    defaultFertTiming,
		})
	}
	for _, p := range wire.PestSchedule {
		out.PestSchedule = append(out.PestSchedule, PestEntry{
			Crop:              p.Crop,
			RiskLevel:         p.RiskLevel,
			Symptoms:          p.Symptoms,
			RecommendedAction: p.RecommendedAction,
			Timing:            defaultPestTiming,
		})
	}
	for _, c := range wire.CropCalendar {
		out.CropCalendar = append(out.CropCalendar, CalendarEntry{
			Period:    c.Period,
			Operation: c.Operation,
			Details:   c.Details,
		})
	}
	return out
}
