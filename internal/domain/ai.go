package domain

// AIAnalysis is the AI metadata summary accumulated from a product's storage
// objects. Empty fields are omitted.
type AIAnalysis struct {
	Colors            []string `json:"colors,omitempty"`
	Materials         []string `json:"materials,omitempty"`
	VisualHarmonyTags []string `json:"visual_harmony_tags,omitempty"`
	Keywords          []string `json:"keywords,omitempty"`
	UseCases          []string `json:"use_cases,omitempty"`
	Features          []string `json:"features,omitempty"`
	TargetAudience    []string `json:"target_audience,omitempty"`
	EmotionalAppeal   []string `json:"emotional_appeal,omitempty"`
	Style             string   `json:"style,omitempty"`
	LayoutNotes       string   `json:"layout_notes,omitempty"`
	DominantColors    []string `json:"dominant_colors,omitempty"`
	ColorPalette      string   `json:"color_palette,omitempty"`
	SuggestedTitle    string   `json:"suggested_title,omitempty"`
	SuggestedSubtitle string   `json:"suggested_subtitle,omitempty"`
	Collections       []string `json:"collections,omitempty"`
}

// IsEmpty reports whether no field carries data.
func (a *AIAnalysis) IsEmpty() bool {
	if a == nil {
		return true
	}
	return len(a.Colors) == 0 && len(a.Materials) == 0 && len(a.VisualHarmonyTags) == 0 &&
		len(a.Keywords) == 0 && len(a.UseCases) == 0 && len(a.Features) == 0 &&
		len(a.TargetAudience) == 0 && len(a.EmotionalAppeal) == 0 && a.Style == "" &&
		a.LayoutNotes == "" && len(a.DominantColors) == 0 && a.ColorPalette == "" &&
		a.SuggestedTitle == "" && a.SuggestedSubtitle == "" && len(a.Collections) == 0
}
