package config

type Screen struct {
	Width  int `yaml:"width" json:"width"`
	Height int `yaml:"height" json:"height"`
}

type Render struct {
	TaintLimit      int     `yaml:"taintLimit" json:"taintLimit"`
	ShowTainted     bool    `yaml:"showTainted" json:"showTainted"`
	RefusalLogRate  float64 `yaml:"refusalLogRate" json:"refusalLogRate"`
	RefusalLogBurst int     `yaml:"refusalLogBurst" json:"refusalLogBurst"`
}

type Scene string

const (
	SceneFacing  Scene = "facing"
	SceneSkybox  Scene = "skybox"
	ScenePlane   Scene = "plane"
	SceneHorizon Scene = "horizon"
	SceneAll     Scene = "all"
)

type Demo struct {
	Frames int   `yaml:"frames" json:"frames"`
	Scene  Scene `yaml:"scene" json:"scene"`
}

type Config struct {
	Screen Screen `yaml:"screen" json:"screen"`
	Render Render `yaml:"render" json:"render"`
	Demo   Demo   `yaml:"demo" json:"demo"`
}
