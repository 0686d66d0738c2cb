package entity

// RenderJobSpec 提交给渲染服务的单个任务规格
type RenderJobSpec struct {
	ModelVersion         string
	Prompt               string
	Seed                 int64
	AspectRatio          string
	GuidanceScale        float64
	NumInferenceSteps    int
	Megapixels           string
	OutputFormat         string
	OutputQuality        int
	LoraWeights          string
	LoraScale            float64
	ExtraLora            string
	ExtraLoraScale       float64
	DisableSafetyChecker bool
	NumOutputs           int
}
