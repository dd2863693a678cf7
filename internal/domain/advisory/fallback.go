package advisory

import "time"

// FallbackAdvisory returns the canned advisory served when the model step fails.
func FallbackAdvisory(now time.Time) Output {
	return Output{
		RecommendedCrops: []RecommendedCrop{
			{
				Name:             "Rice",
				SuitabilityScore: 0.85,
				ExpectedYield:    3000,
				InputCost:        15000,
				TimeToHarvest:    120,
				ProsCons:         "High yield potential, requires good water management",
				MarketPrice:      PriceRange{Min: 1800, Max: 2500},
				RiskLevel:        "medium",
			},
			{
				Name:             "Wheat",
				SuitabilityScore: 0.78,
				ExpectedYield:    2500,
				InputCost:        12000,
				TimeToHarvest:    90,
				ProsCons:         "Stable income, lower water requirement",
				MarketPrice:      PriceRange{Min: 2000, Max: 2800},
				RiskLevel:        "low",
			},
		},
		FertilizerPlan: []FertilizerStep{
			{
				Stage:     "Pre-planting",
				Inputs:    "Farmyard manure",
				Frequency: "Once",
				Quantity:  5,
				Timing:    "15 days before planting",
			},
			{
				Stage:     "Vegetative",
				Inputs:    "NPK 20:20:20",
				Frequency: "Every 15 days",
				Quantity:  2,
				Timing:    "30, 60, 90 days after planting",
			},
		},
		PestSchedule: []PestEntry{
			{
				Crop:              "Rice",
				RiskLevel:         "Medium",
				Symptoms:          "Yellowing leaves, stunted growth",
				RecommendedAction: "Apply neem oil spray, monitor regularly",
				Timing:            "Around 60 days after planting",
			},
		},
		CropCalendar: []CalendarEntry{
			{Period: "Week 1", Operation: "Land preparation", Details: "Plow and level the field, remove weeds"},
			{Period: "Week 2", Operation: "Seedling preparation", Details: "Prepare nursery bed, sow seeds"},
			{Period: "Week 3", Operation: "Transplanting", Details: "Transplant seedlings to main field"},
		},
		GeneratedAt: now,
		Confidence:  fallbackConfidence,
	}
}
