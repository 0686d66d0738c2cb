// Package rendering 提供图像渲染服务（Replicate 风格 predictions API）客户端
package rendering

import (
	"strings"

	"github.com/sandrasocial/sselfie-9g-sub000/internal/domain/entity"
)

type predictionRequest struct {
	Version string          `json:"version"`
	Input   predictionInput `json:"input"`
}

type predictionInput struct {
	Prompt               string  `json:"prompt"`
	Seed                 int64   `json:"seed"`
	AspectRatio          string  `json:"aspect_ratio,omitempty"`
	GuidanceScale        float64 `json:"guidance_scale,omitempty"`
	NumInferenceSteps    int     `json:"num_inference_steps,omitempty"`
	Megapixels           string  `json:"megapixels,omitempty"`
	OutputFormat         string  `json:"output_format,omitempty"`
	OutputQuality        int     `json:"output_quality,omitempty"`
	LoraWeights          string  `json:"lora_weights,omitempty"`
	LoraScale            float64 `json:"lora_scale,omitempty"`
	ExtraLora            string  `json:"extra_lora,omitempty"`
	ExtraLoraScale       float64 `json:"extra_lora_scale,omitempty"`
	DisableSafetyChecker bool    `json:"disable_safety_checker"`
	NumOutputs           int     `json:"num_outputs"`
}

type predictionResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type errorResponse struct {
	Title      string  `json:"title"`
	Detail     string  `json:"detail"`
	Error      string  `json:"error"`
	RetryAfter float64 `json:"retry_after"`
}

func (e errorResponse) message() string {
	switch {
	case e.Detail != "":
		return e.Detail
	case e.Error != "":
		return e.Error
	default:
		return e.Title
	}
}

// versionID 模型引用形如 owner/name:version 时只取版本号
func versionID(ref string) string {
	if i := strings.LastIndexByte(ref, ':'); i >= 0 {
		return ref[i+1:]
	}
	return ref
}

func newPredictionRequest(spec entity.RenderJobSpec) predictionRequest {
	numOutputs := spec.NumOutputs
	if numOutputs <= 0 {
		numOutputs = 1
	}
	return predictionRequest{
		Version: versionID(spec.ModelVersion),
		Input: predictionInput{
			Prompt:               spec.Prompt,
			Seed:                 spec.Seed,
			AspectRatio:          spec.AspectRatio,
			GuidanceScale:        spec.GuidanceScale,
			NumInferenceSteps:    spec.NumInferenceSteps,
			Megapixels:           spec.Megapixels,
			OutputFormat:         spec.OutputFormat,
			OutputQuality:        spec.OutputQuality,
			LoraWeights:          spec.LoraWeights,
			LoraScale:            spec.LoraScale,
			ExtraLora:            spec.ExtraLora,
			ExtraLoraScale:       spec.ExtraLoraScale,
			DisableSafetyChecker: spec.DisableSafetyChecker,
			NumOutputs:           numOutputs,
		},
	}
}
