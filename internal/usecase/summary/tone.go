package summary

import (
	"context"
	"fmt"
	"strings"

	"github.com/whispers-app/journal-api/internal/domain"
)

// Tone presets and their defaults.
const (
	DefaultPreset    = "conversational"
	DefaultIntensity = "moderate"
)

// toneSpec describes one preset of the tone rewriting guide.
type toneSpec struct {
	style       string
	tone        string
	voice       string
	vocabulary  string
	structure   string
	punctuation string
}

var tonePresets = map[string]toneSpec{
	"professional": {
		style:       "Academic, Business, Legal",
		tone:        "Authoritative, Precise, Objective",
		voice:       "Third-person, Passive constructions",
		vocabulary:  "Technical, Industry-specific",
		structure:   "Complex, Compound",
		punctuation: "Conservative, Traditional",
	},
	"conversational": {
		style:       "Personal, Social, Informal",
		tone:        "Warm, Approachable, Relatable",
		voice:       "First/second-person, Active voice",
		vocabulary:  "Everyday, Accessible",
		structure:   "Simple, Direct",
		punctuation: "Liberal, Expressive",
	},
	"inspirational": {
		style:       "Self-help, Leadership, Coaching",
		tone:        "Encouraging, Empowering, Hopeful",
		voice:       "Second-person, Direct address",
		vocabulary:  "Aspirational, Action-oriented",
		structure:   "Varied, Rhythmic",
		punctuation: "Dynamic, Emphatic",
	},
	"technical": {
		style:       "Scientific, Research, Documentation",
		tone:        "Objective, Systematic, Detailed",
		voice:       "Third-person, Impersonal",
		vocabulary:  "Precise, Specialized",
		structure:   "Structured, Logical",
		punctuation: "Standard, Clear",
	},
	"creative": {
		style:       "Literary, Marketing, Artistic",
		tone:        "Imaginative, Vivid, Engaging",
		voice:       "Varied, Experimental",
		vocabulary:  "Rich, Descriptive, Metaphorical",
		structure:   "Artistic, Varied",
		punctuation: "Creative, Expressive",
	},
}

var intensityLevels = map[string]string{
	"subtle":   "Gentle adjustments, preserve 90% original",
	"moderate": "Balanced changes, preserve 70% original",
	"strong":   "Significant transformation, preserve 50% original",
	"complete": "Full rewrite, preserve core message only",
}

var emotionalOverlays = map[string]string{
	"optimistic": "Add hope, possibility, positive outcomes",
	"cautious":   "Add warnings, considerations, careful language",
	"urgent":     "Add immediacy, deadlines, action words",
	"calm":       "Add reassurance, patience, measured tone",
}

// RewriteTone rewrites text according to a tone preset, intensity, and
// optional emotional overlay. Unknown presets and intensities fall back to
// the defaults; an unknown overlay is ignored.
func (s *Service) RewriteTone(
	ctx context.Context, text, preset, intensity, overlay string,
) (domain.Rewrite, error) {
	if strings.TrimSpace(text) == "" {
		return domain.Rewrite{}, domain.ErrEmptyText
	}

	if _, ok := tonePresets[preset]; !ok {
		preset = DefaultPreset
	}
	if _, ok := intensityLevels[intensity]; !ok {
		intensity = DefaultIntensity
	}
	if _, ok := emotionalOverlays[overlay]; !ok {
		overlay = ""
	}

	rewritten, err := s.gen.Generate(ctx, tonePrompt(text, preset, intensity, overlay), rewriteMaxTokens)
	if err != nil {
		return domain.Rewrite{}, fmt.Errorf("rewrite tone: %w", err)
	}

	return domain.Rewrite{
		OriginalText:     text,
		RewrittenText:    strings.TrimSpace(rewritten),
		TonePreset:       preset,
		Intensity:        intensity,
		EmotionalOverlay: overlay,
	}, nil
}

func tonePrompt(text, preset, intensity, overlay string) string {
	spec := tonePresets[preset]

	var b strings.Builder
	fmt.Fprintf(&b, "Rewrite the following text using these specifications:\n\n")
	fmt.Fprintf(&b, "TONE PRESET: %s\n", strings.ToUpper(preset))
	fmt.Fprintf(&b, "- Style: %s\n", spec.style)
	fmt.Fprintf(&b, "- Tone: %s\n", spec.tone)
	fmt.Fprintf(&b, "- Voice: %s\n", spec.voice)
	fmt.Fprintf(&b, "- Vocabulary: %s\n", spec.vocabulary)
	fmt.Fprintf(&b, "- Sentence Structure: %s\n", spec.structure)
	fmt.Fprintf(&b, "- Punctuation: %s\n\n", spec.punctuation)
	fmt.Fprintf(&b, "INTENSITY: %s\n- %s\n\n", strings.ToUpper(intensity), intensityLevels[intensity])
	if overlay != "" {
		fmt.Fprintf(&b, "EMOTIONAL OVERLAY: %s\n- %s\n\n", strings.ToUpper(overlay), emotionalOverlays[overlay])
	}
	fmt.Fprintf(&b, "ORIGINAL TEXT:\n%s\n\n", text)
	b.WriteString("Please rewrite the text according to these specifications while maintaining " +
		"the core message and meaning. Return only the rewritten text without any explanations " +
		"or additional formatting.")
	return b.String()
}
