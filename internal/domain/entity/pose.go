package entity

import (
	"strings"
)

// ShotType 景别
type ShotType string

const (
	ShotTypeFullBody   ShotType = "full body"
	ShotTypeMediumShot ShotType = "medium shot"
	ShotTypeCloseUp    ShotType = "close-up"
)

// CameraAngle 机位角度
type CameraAngle string

const (
	CameraAngleStraightOn    CameraAngle = "straight on"
	CameraAngleSideAngle     CameraAngle = "side angle"
	CameraAngleOverShoulder  CameraAngle = "over shoulder"
	CameraAngleSlightlyAbove CameraAngle = "slightly above"
)

// LensChoice 镜头焦段
type LensChoice string

const (
	Lens35mm LensChoice = "35mm"
	Lens50mm LensChoice = "50mm"
	Lens85mm LensChoice = "85mm"
)

// canonical 把模型输出统一成小写、单空格、连字符归一的形式
func canonical(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer("_", " ", "-", " ").Replace(s)
	return strings.Join(strings.Fields(s), " ")
}

// ParseShotType 解析景别，未知值返回 ShotTypeMediumShot 和 false
func ParseShotType(s string) (ShotType, bool) {
	switch canonical(s) {
	case "full body", "fullbody", "full length", "full shot":
		return ShotTypeFullBody, true
	case "medium shot", "medium", "mid shot", "half body":
		return ShotTypeMediumShot, true
	case "close up", "closeup", "close":
		return ShotTypeCloseUp, true
	}
	return ShotTypeMediumShot, false
}

// ParseCameraAngle 解析机位，未知值返回 CameraAngleStraightOn 和 false
func ParseCameraAngle(s string) (CameraAngle, bool) {
	switch canonical(s) {
	case "straight on", "eye level", "front":
		return CameraAngleStraightOn, true
	case "side angle", "side", "profile":
		return CameraAngleSideAngle, true
	case "over shoulder", "over the shoulder":
		return CameraAngleOverShoulder, true
	case "slightly above", "high angle", "above":
		return CameraAngleSlightlyAbove, true
	}
	return CameraAngleStraightOn, false
}

// ParseLensChoice 解析焦段，未知值返回 Lens50mm 和 false
func ParseLensChoice(s string) (LensChoice, bool) {
	c := strings.ReplaceAll(canonical(s), " ", "")
	switch {
	case strings.HasPrefix(c, "35"):
		return Lens35mm, true
	case strings.HasPrefix(c, "50"):
		return Lens50mm, true
	case strings.HasPrefix(c, "85"):
		return Lens85mm, true
	}
	return Lens50mm, false
}

// PoseVariation 规划出的单个姿势，仅存在于规划与派发之间
type PoseVariation struct {
	Title       string      `json:"title"`
	ShotType    ShotType    `json:"shot_type"`
	Scenery     string      `json:"scenery"`
	Action      string      `json:"action"`
	CameraAngle CameraAngle `json:"camera_angle"`
	LensChoice  LensChoice  `json:"lens_choice"`
	Prompt      string      `json:"prompt"`
}

// PoseJob 已提交到渲染服务的任务（prediction）
type PoseJob struct {
	ID           string   `json:"id"`
	Index        int      `json:"index"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Pose         string   `json:"pose"`
	Location     string   `json:"location"`
	Seed         int64    `json:"seed"`
	ShotDistance ShotType `json:"shot_distance"`
}

// NewPoseJob 由姿势与任务句柄构造 PoseJob
func NewPoseJob(index int, handleID string, seed int64, p PoseVariation) PoseJob {
	return PoseJob{
		ID:           handleID,
		Index:        index,
		Title:        p.Title,
		Description:  p.Action,
		Pose:         string(p.ShotType) + ", " + string(p.CameraAngle) + ", " + string(p.LensChoice),
		Location:     p.Scenery,
		Seed:         seed,
		ShotDistance: p.ShotType,
	}
}
