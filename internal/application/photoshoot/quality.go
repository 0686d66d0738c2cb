package photoshoot

import "strings"

// QualityPreset 一组推理参数，按内容类别选择
type QualityPreset struct {
	Name              string
	GuidanceScale     float64
	NumInferenceSteps int
	Megapixels        string
	OutputFormat      string
	OutputQuality     int
	LoraScale         float64
}

var qualityPresets = map[string]QualityPreset{
	"default": {
		Name:              "default",
		GuidanceScale:     3.5,
		NumInferenceSteps: 28,
		Megapixels:        "1",
		OutputFormat:      "png",
		OutputQuality:     95,
		LoraScale:         1.0,
	},
	"editorial": {
		Name:              "editorial",
		GuidanceScale:     3.0,
		NumInferenceSteps: 32,
		Megapixels:        "1",
		OutputFormat:      "png",
		OutputQuality:     100,
		LoraScale:         1.1,
	},
	"lifestyle": {
		Name:              "lifestyle",
		GuidanceScale:     2.8,
		NumInferenceSteps: 28,
		Megapixels:        "1",
		OutputFormat:      "jpg",
		OutputQuality:     95,
		LoraScale:         1.0,
	},
	"portrait": {
		Name:              "portrait",
		GuidanceScale:     3.5,
		NumInferenceSteps: 36,
		Megapixels:        "1",
		OutputFormat:      "png",
		OutputQuality:     100,
		LoraScale:         1.2,
	},
}

// QualityPresetFor 未知类别返回 default
func QualityPresetFor(category string) QualityPreset {
	if p, ok := qualityPresets[strings.ToLower(strings.TrimSpace(category))]; ok {
		return p
	}
	return qualityPresets["default"]
}
