package fieldscan

import "github.com/yanqian/agri-advisor/internal/domain/advisory"

// Canned analyses served until image models are integrated.

func soilAnalysis() SoilAnalysis {
	return SoilAnalysis{
		Texture:        "Clay loam",
		PH:             6.8,
		OrganicContent: "Medium",
		NPK:            advisory.NPK{N: 45, P: 25, K: 180},
		Recommendations: []string{
			"Add organic compost to improve soil structure",
			"Apply phosphorus fertilizer for better root development",
			"Monitor pH levels regularly",
		},
		NearbyLabs: []Lab{
			{Name: "Regional Soil Testing Lab", Distance: "15 km", Contact: "+91-9876543210"},
		},
	}
}

func pestAnalysis() PestAnalysis {
	return PestAnalysis{
		PestIdentified: "Aphids",
		Confidence:     0.92,
		Severity:       "Medium",
		Symptoms: []string{
			"Curled leaves",
			"Sticky honeydew on leaves",
			"Stunted growth",
		},
		Treatment: Treatment{
			Immediate: []string{
				"Spray neem oil solution",
				"Remove heavily infested leaves",
				"Increase air circulation",
			},
			Preventive: []string{
				"Introduce beneficial insects",
				"Use companion planting",
				"Regular monitoring",
			},
		},
		Timeline: Timeline{
			Immediate:  "Apply treatment within 24 hours",
			FollowUp:   "Monitor every 3 days for 2 weeks",
			Prevention: "Weekly inspection during growing season",
		},
	}
}
