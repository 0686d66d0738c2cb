package model

type PhotoshootPlanInput struct {
	BasePrompt         string
	TriggerWord        string
	NumImages          int
	Seed               int64
	Category           string
	ConceptTitle       string
	ConceptDescription string

	Provider string
	Model    string

	Temperature *float32
	MaxTokens   *int
}

// PhotoshootPlanOutput 模型返回的 JSON 计划
type PhotoshootPlanOutput struct {
	BaseOutfit    string        `json:"baseOutfit"`
	LocationTheme string        `json:"locationTheme"`
	LightingStyle string        `json:"lightingStyle"`
	CameraSpecs   string        `json:"cameraSpecs"`
	Poses         []PlannedPose `json:"poses"`
}

type PlannedPose struct {
	Title       string `json:"title"`
	ShotType    string `json:"shotType"`
	Scenery     string `json:"scenery"`
	Action      string `json:"action"`
	CameraAngle string `json:"cameraAngle"`
	LensChoice  string `json:"lensChoice"`
	Prompt      string `json:"prompt"`
}
