package recommendation

import (
	generativeAI "github.com/FACorreiaa/go-chat-recommendations/internal/api/generative_ai"
)

var profileSchema = generativeAI.MustSchema(`{
	"type": "object",
	"required": ["interests", "placeTypes", "preferences"],
	"properties": {
		"interests": {"type": "array", "items": {"type": "string"}},
		"placeTypes": {"type": "array", "items": {"type": "string"}},
		"preferences": {
			"type": "object",
			"properties": {
				"budget": {"type": "string"},
				"atmosphere": {"type": "string"},
				"cuisine": {"type": "array", "items": {"type": "string"}},
				"activities": {"type": "array", "items": {"type": "string"}}
			}
		},
		"constraints": {"type": "array", "items": {"type": "string"}},
		"groupInfo": {
			"type": "object",
			"properties": {
				"size": {"type": "string"},
				"demographics": {"type": "string"}
			}
		},
		"keywords": {"type": "array", "items": {"type": "string"}},
		"summary": {"type": "string"}
	}
}`)

var planSchema = generativeAI.MustSchema(`{
	"type": "object",
	"required": ["searchStrategies"],
	"properties": {
		"searchStrategies": {
			"type": "array",
			"minItems": 1,
			"items": {
				"type": "object",
				"required": ["type", "value", "priority"],
				"properties": {
					"type": {"enum": ["place_type", "keyword"]},
					"value": {"type": "string", "minLength": 1},
					"priority": {"type": "integer", "minimum": 1},
					"reason": {"type": "string"}
				}
			}
		},
		"keywords": {"type": "array", "items": {"type": "string"}},
		"filters": {
			"type": "object",
			"properties": {
				"priceLevel": {"type": "string"},
				"rating": {"type": "string"},
				"openNow": {"type": "boolean"}
			}
		},
		"recommendationReason": {"type": "string"},
		"alternativeOptions": {"type": "array", "items": {"type": "string"}},
		"tips": {"type": "array", "items": {"type": "string"}}
	}
}`)

var personalizationSchema = generativeAI.MustSchema(`{
	"type": "object",
	"required": ["places"],
	"properties": {
		"places": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["place_id"],
				"properties": {
					"place_id": {"type": "string"},
					"personalizedDescription": {"type": "string"},
					"matchScore": {"type": "number"},
					"highlights": {"type": "array", "items": {"type": "string"}},
					"groupAppeal": {"type": "string"}
				}
			}
		}
	}
}`)

var activitiesSchema = generativeAI.MustSchema(`{
	"type": "object",
	"required": ["activities"],
	"properties": {
		"activities": {
			"type": "array",
			"minItems": 1,
			"items": {
				"type": "object",
				"required": ["activity", "description"],
				"properties": {
					"activity": {"type": "string", "minLength": 1},
					"description": {"type": "string"},
					"duration": {"type": "string"},
					"cost": {"type": "string"},
					"groupSize": {"type": "string"},
					"whyRecommended": {"type": "string"},
					"tips": {"type": "array", "items": {"type": "string"}}
				}
			}
		}
	}
}`)
