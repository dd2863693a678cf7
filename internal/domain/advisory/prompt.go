package advisory

import (
	"strconv"
	"strings"
)

const unknown = "unknown"

// SystemPrompt frames every completion request.
const SystemPrompt = "You are an expert agricultural advisor specializing in Indian farming conditions. Always respond with valid JSON format."

const promptHeader = "You are an expert agricultural advisor for Indian farmers. Based on the following farmer information, provide detailed crop recommendations."

const replySchemaExample = `{
  "recommendedCrops": [
    {
      "name": "Crop Name",
      "suitabilityScore": 0.85,
      "expectedYield": 3000,
      "inputCost": 15000,
      "timeToHarvest": 120,
      "prosCons": "Detailed pros and cons"
    }
  ],
  "fertilizerPlan": [
    {
      "stage": "Pre-planting",
      "inputs": "Farmyard Manure",
      "frequency": "Once",
      "quantity": 5
    }
  ],
  "pestSchedule": [
    {
      "crop": "Crop Name",
      "riskLevel": "Medium",
      "symptoms": "Common symptoms",
      "recommendedAction": "Prevention/treatment advice"
    }
  ],
  "cropCalendar": [
    {
      "period": "Week 1",
      "operation": "Land Preparation",
      "details": "Detailed operation description"
    }
  ]
}`

const promptFooter = "Focus on crops suitable for Indian climate and conditions. suitabilityScore must be between 0 and 1. Provide practical, actionable advice and return only the JSON object."

// BuildPrompt renders the user prompt for a farmer submission.
// It never validates: missing sections and fields are rendered as "unknown".
func BuildPrompt(in FarmerInput) string {
	var b strings.Builder
	b.WriteString(promptHeader)
	b.WriteString("\n\nFarmer Information:\n")

	loc := in.Location
	if loc == nil {
		loc = &Location{}
	}
	line(&b, "Location", orUnknown(loc.Village)+", "+orUnknown(loc.District)+", "+orUnknown(loc.State))
	if loc.Coordinates != nil {
		line(&b, "Coordinates", formatFloat(loc.Coordinates.Latitude)+", "+formatFloat(loc.Coordinates.Longitude))
	} else {
		line(&b, "Coordinates", unknown)
	}

	if in.LandArea != nil && in.LandArea.Value > 0 {
		line(&b, "Land Area", formatFloat(in.LandArea.Value)+" "+orUnknown(in.LandArea.Unit))
	} else {
		line(&b, "Land Area", unknown)
	}

	soil := in.SoilType
	if soil == nil {
		soil = &SoilType{}
	}
	ph := unknown
	if soil.PH != nil {
		ph = formatFloat(*soil.PH)
	}
	line(&b, "Soil Type", orUnknown(soil.Texture)+" (pH: "+ph+")")
	line(&b, "Soil Lab Tested", yesNo(soil.LabTested))
	if soil.NPK != nil {
		line(&b, "Soil NPK", "N="+formatFloat(soil.NPK.N)+", P="+formatFloat(soil.NPK.P)+", K="+formatFloat(soil.NPK.K))
	} else {
		line(&b, "Soil NPK", unknown)
	}
	line(&b, "Organic Content", orUnknown(soil.OrganicContent))
	if strings.TrimSpace(soil.PhotoURL) != "" {
		line(&b, "Soil Photo", "provided")
	} else {
		line(&b, "Soil Photo", unknown)
	}

	water := in.WaterAvailability
	if water == nil {
		water = &WaterAvailability{}
	}
	line(&b, "Water Source", orUnknown(water.Type))
	if water.Depth != nil {
		line(&b, "Water Depth", formatFloat(*water.Depth)+" m")
	} else {
		line(&b, "Water Depth", unknown)
	}
	line(&b, "Irrigation Frequency", orUnknown(water.Frequency))
	line(&b, "Irrigation Available", yesNo(water.IrrigationAvailable))

	line(&b, "Budget", positiveOrUnknown(in.BudgetINR, "₹", ""))
	line(&b, "Timeline", positiveOrUnknown(float64(in.TimelineDays), "", " days"))
	line(&b, "Labor Count", positiveOrUnknown(float64(in.LaborCount), "", " people"))
	line(&b, "Risk Preference", orUnknown(string(in.RiskPreference)))
	line(&b, "Past Crops", pastCrops(in.PastCropHistory))

	b.WriteString("\nPlease provide recommendations in the following JSON format:\n")
	b.WriteString(replySchemaExample)
	b.WriteString("\n\n")
	b.WriteString(promptFooter)
	return b.String()
}

func line(b *strings.Builder, label, value string) {
	b.WriteString("- ")
	b.WriteString(label)
	b.WriteString(": ")
	b.WriteString(value)
	b.WriteByte('\n')
}

func pastCrops(history []PastCrop) string {
	if len(history) == 0 {
		return unknown
	}
	parts := make([]string, 0, len(history))
	for _, h := range history {
		entry := orUnknown(h.Crop) + " (" + orUnknown(h.Season)
		if h.Year > 0 {
			entry += " " + strconv.Itoa(h.Year)
		}
		if d := strings.TrimSpace(h.Disease); d != "" {
			entry += ", disease: " + d
		}
		parts = append(parts, entry+")")
	}
	return strings.Join(parts, "; ")
}

func orUnknown(v string) string {
	if s := strings.TrimSpace(v); s != "" {
		return s
	}
	return unknown
}

func positiveOrUnknown(v float64, prefix, suffix string) string {
	if v <= 0 {
		return unknown
	}
	return prefix + formatFloat(v) + suffix
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
