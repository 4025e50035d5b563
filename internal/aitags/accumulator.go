// Package aitags folds the AI metadata attached to storage objects into a
// per-product summary.
package aitags

import (
	"reflect"
	"slices"

	"github.com/tidwall/gjson"

	"github.com/utafrali/gearcatalog/internal/domain"
)

type set map[string]struct{}

func (s set) add(v string) {
	if v != "" {
		s[v] = struct{}{}
	}
}

// addAll adds the string or number members of an array. Other shapes are
// ignored.
func (s set) addAll(r gjson.Result) {
	if !r.IsArray() {
		return
	}
	r.ForEach(func(_, v gjson.Result) bool {
		s.add(scalar(v))
		return true
	})
}

// addValues adds the truthy scalar values of an object.
func (s set) addValues(r gjson.Result) {
	if !r.IsObject() {
		return
	}
	r.ForEach(func(_, v gjson.Result) bool {
		s.add(scalar(v))
		return true
	})
}

func (s set) sorted() []string {
	if len(s) == 0 {
		return nil
	}
	out := make([]string, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	slices.Sort(out)
	return out
}

// scalar returns the text of a string or a non-zero number, "" otherwise.
func scalar(v gjson.Result) string {
	switch v.Type {
	case gjson.String:
		return v.Str
	case gjson.Number:
		if v.Num == 0 {
			return ""
		}
		return v.Raw
	default:
		return ""
	}
}

// Accumulator merges the AI metadata of several storage objects. Lists are
// merged as sets, scalar fields keep the last non-empty value seen.
type Accumulator struct {
	colors            set
	materials         set
	visualHarmonyTags set
	keywords          set
	useCases          set
	features          set
	targetAudience    set
	emotionalAppeal   set
	dominantColors    set
	collections       set
	tags              set

	style             string
	layoutNotes       string
	colorPalette      string
	suggestedTitle    string
	suggestedSubtitle string
}

// New returns an empty Accumulator.
func New() *Accumulator {
	return &Accumulator{
		colors:            set{},
		materials:         set{},
		visualHarmonyTags: set{},
		keywords:          set{},
		useCases:          set{},
		features:          set{},
		targetAudience:    set{},
		emotionalAppeal:   set{},
		dominantColors:    set{},
		collections:       set{},
		tags:              set{},
	}
}

func setIfPresent(dst *string, v gjson.Result) {
	if s := scalar(v); s != "" {
		*dst = s
	}
}

// firstObject returns the first candidate that is a non-empty object.
func firstObject(candidates ...gjson.Result) gjson.Result {
	for _, c := range candidates {
		if c.IsObject() && len(c.Map()) > 0 {
			return c
		}
	}
	return gjson.Result{}
}

// Add merges one raw storage object payload. Invalid or empty payloads are
// skipped.
func (a *Accumulator) Add(raw []byte) {
	if !gjson.ValidBytes(raw) {
		return
	}
	obj := gjson.ParseBytes(raw)
	if !obj.IsObject() || len(obj.Map()) == 0 {
		return
	}

	a.tags.addAll(obj.Get("ai_tags"))

	meta := obj.Get("ai_context_metadata")
	extracted := meta.Get("extracted_tags")
	a.colors.addAll(extracted.Get("colors"))
	a.materials.addAll(extracted.Get("materials"))
	a.visualHarmonyTags.addAll(extracted.Get("visual_harmony_tags"))
	a.keywords.addAll(extracted.Get("keywords"))

	embedding := meta.Get("embedding_info.metadata")
	a.mergeProductAnalysis(firstObject(embedding.Get("product_analysis"), meta.Get("product_analysis")))
	a.mergeVisualAnalysis(firstObject(embedding.Get("visual_analysis"), meta.Get("visual_analysis")))
	a.mergeLayout(meta.Get("layoutIntelligence"))
	a.mergeSemantic(meta.Get("semanticProperties"))
	a.mergeMediaAnalysis(meta.Get("mediaAnalysis"))

	setIfPresent(&a.style, embedding.Get("style"))
	a.colors.addAll(embedding.Get("colors"))
}

func (a *Accumulator) mergeProductAnalysis(pa gjson.Result) {
	if !pa.Exists() {
		return
	}
	a.colors.addAll(pa.Get("colors"))
	a.materials.addAll(pa.Get("materials"))
	a.features.addAll(pa.Get("features"))

	usage := pa.Get("usageContext")
	if usage.IsObject() {
		a.useCases.addValues(usage)
	} else {
		a.useCases.addAll(usage)
	}
	a.targetAudience.addValues(pa.Get("targetAudience"))
	setIfPresent(&a.style, pa.Get("style"))
}

func (a *Accumulator) mergeVisualAnalysis(va gjson.Result) {
	if !va.Exists() {
		return
	}
	colors := va.Get("colorAnalysis")
	a.dominantColors.addAll(colors.Get("dominantColors"))
	setIfPresent(&a.colorPalette, colors.Get("colorPalette"))
}

func (a *Accumulator) mergeLayout(layout gjson.Result) {
	if !layout.IsObject() {
		return
	}
	a.visualHarmonyTags.addAll(layout.Get("visualHarmonyTags"))
	setIfPresent(&a.layoutNotes, layout.Get("pairingSuggestions"))
}

func (a *Accumulator) mergeSemantic(sem gjson.Result) {
	if !sem.IsObject() {
		return
	}
	a.keywords.addAll(sem.Get("keywords"))
	a.useCases.addAll(sem.Get("useCases"))
	a.targetAudience.addValues(sem.Get("targetAudience"))
	a.emotionalAppeal.addAll(sem.Get("emotionalAppeal"))
}

func (a *Accumulator) mergeMediaAnalysis(media gjson.Result) {
	if !media.IsObject() {
		return
	}
	title := media.Get("suggestedTitle")
	if scalar(title) == "" {
		title = media.Get("suggested_title")
	}
	subtitle := media.Get("suggestedSubtitle")
	if scalar(subtitle) == "" {
		subtitle = media.Get("suggested_subtitle")
	}
	setIfPresent(&a.suggestedTitle, title)
	setIfPresent(&a.suggestedSubtitle, subtitle)
	a.collections.addAll(media.Get("collectionSuggestions"))
}

// Analysis returns the merged summary, or nil when nothing was collected.
func (a *Accumulator) Analysis() *domain.AIAnalysis {
	out := &domain.AIAnalysis{
		Colors:            a.colors.sorted(),
		Materials:         a.materials.sorted(),
		VisualHarmonyTags: a.visualHarmonyTags.sorted(),
		Keywords:          a.keywords.sorted(),
		UseCases:          a.useCases.sorted(),
		Features:          a.features.sorted(),
		TargetAudience:    a.targetAudience.sorted(),
		EmotionalAppeal:   a.emotionalAppeal.sorted(),
		Style:             a.style,
		LayoutNotes:       a.layoutNotes,
		DominantColors:    a.dominantColors.sorted(),
		ColorPalette:      a.colorPalette,
		SuggestedTitle:    a.suggestedTitle,
		SuggestedSubtitle: a.suggestedSubtitle,
		Collections:       a.collections.sorted(),
	}
	if out.IsEmpty() {
		return nil
	}
	return out
}

// Tags returns the sorted flat object tags, or nil when there are none.
func (a *Accumulator) Tags() []string {
	return a.tags.sorted()
}

// Apply writes the summary to p, clearing fields that ended up empty. It
// reports whether p changed.
func (a *Accumulator) Apply(p *domain.Product) bool {
	analysis := a.Analysis()
	tags := a.Tags()

	changed := !equalAnalysis(p.AIAnalysis, analysis) || !slices.Equal(p.AITags, tags)
	p.AIAnalysis = analysis
	p.AITags = tags
	return changed
}

func equalAnalysis(a, b *domain.AIAnalysis) bool {
	if a.IsEmpty() || b.IsEmpty() {
		return a.IsEmpty() == b.IsEmpty()
	}
	return reflect.DeepEqual(*a, *b)
}
