package domain

// Rewrite is the result of a tone rewrite.
type Rewrite struct {
	OriginalText     string `json:"original_text"`
	RewrittenText    string `json:"rewritten_text"`
	TonePreset       string `json:"tone_preset"`
	Intensity        string `json:"intensity"`
	EmotionalOverlay string `json:"emotional_overlay,omitempty"`
}
