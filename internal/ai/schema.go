package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	genai "google.golang.org/genai"

	"evidenceapi/internal/model"
)

const analysisInstruction = "You are an expert AI assistant for the British Transport Police. " +
	"Analyze the attached file, which is a piece of digital evidence. Provide a concise summary. " +
	"Identify key objects, entities, and any text visible. If it's a video with audio, provide a transcription. " +
	"Structure your response in JSON format according to the provided schema. " +
	"Focus on details relevant to a police investigation, such as people, actions, objects, locations, and text."

const keywordInstruction = "You are a search query optimizer for police investigators. " +
	"Extract the most important keywords from the user's query. Return a JSON object with a 'keywords' array. " +
	`Example: for 'person with a black hoodie', return {"keywords": ["person", "black hoodie"]}.`

func analysisSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"summary": {
				Type:        genai.TypeString,
				Description: "A detailed summary of the file content, focusing on elements relevant to a police investigation.",
			},
			"objects": {
				Type:        genai.TypeArray,
				Description: "List of objects detected in the image or video.",
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"name":       {Type: genai.TypeString, Description: "Name of the object."},
						"confidence": {Type: genai.TypeNumber, Description: "Confidence score from 0 to 1."},
						"timestamp":  {Type: genai.TypeString, Description: "Timestamp in video where object appears (if applicable)."},
					},
					Required: []string{"name", "confidence"},
				},
			},
			"entities": {
				Type:        genai.TypeArray,
				Description: "Key entities (like people, locations, organizations) found in the document.",
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"type":       {Type: genai.TypeString, Description: "Type of entity (e.g., PERSON, LOCATION)."},
						"value":      {Type: genai.TypeString, Description: "The entity itself."},
						"confidence": {Type: genai.TypeNumber, Description: "Confidence score."},
						"location":   {Type: genai.TypeString, Description: "Location in the document (e.g., Page 2, Paragraph 5)."},
					},
					Required: []string{"type", "value", "confidence"},
				},
			},
			"ocrText": {
				Type:        genai.TypeString,
				Description: "All text extracted from the image or document using Optical Character Recognition (OCR).",
			},
			"transcription": {
				Type:        genai.TypeString,
				Description: "A word-for-word transcription of any speech in the audio or video file.",
			},
		},
		Required: []string{"summary"},
	}
}

func keywordSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"keywords": {
				Type:        genai.TypeArray,
				Description: "An array of critical keywords from the user's search query.",
				Items:       &genai.Schema{Type: genai.TypeString},
			},
		},
		Required: []string{"keywords"},
	}
}

// DecodeAnalysis parses a model response against the analysis schema.
// Confidence values are clamped to [0,1].
func DecodeAnalysis(raw string) (*model.AnalysisResult, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrInvalidJSON
	}
	var out model.AnalysisResult
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	if strings.TrimSpace(out.Summary) == "" {
		return nil, fmt.Errorf("%w: summary is required", ErrInvalidJSON)
	}
	out.FileID = ""
	for i := range out.Objects {
		out.Objects[i].Confidence = clamp01(out.Objects[i].Confidence)
	}
	for i := range out.Entities {
		out.Entities[i].Confidence = clamp01(out.Entities[i].Confidence)
	}
	return &out, nil
}

// DecodeKeywords parses a model response against the keyword schema.
func DecodeKeywords(raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrInvalidJSON
	}
	var out struct {
		Keywords *[]string `json:"keywords"`
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	if out.Keywords == nil {
		return nil, fmt.Errorf("%w: keywords is required", ErrInvalidJSON)
	}
	return *out.Keywords, nil
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
