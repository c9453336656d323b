package defaultproject

import "github.com/goliatone/go-projectstorage/pkg/translate"

// variableID is the stable identifier of the stage variable; only its display
// name is translated.
const variableID = "`jEk@4|i[#Fk?(8x)AV.-my variable"

type project struct {
	Targets    []target `json:"targets"`
	Monitors   []any    `json:"monitors"`
	Extensions []string `json:"extensions"`
	Meta       meta     `json:"meta"`
}

type meta struct {
	Semver string `json:"semver"`
	VM     string `json:"vm"`
	Agent  string `json:"agent"`
}

type target struct {
	IsStage        bool              `json:"isStage"`
	Name           string            `json:"name"`
	Variables      map[string][2]any `json:"variables"`
	Lists          map[string]any    `json:"lists"`
	Broadcasts     map[string]string `json:"broadcasts"`
	Blocks         map[string]any    `json:"blocks"`
	Comments       map[string]any    `json:"comments"`
	CurrentCostume int               `json:"currentCostume"`
	Costumes       []costume         `json:"costumes"`
	Sounds         []sound           `json:"sounds"`
	Volume         int               `json:"volume"`
	LayerOrder     int               `json:"layerOrder"`
	Tempo          *int              `json:"tempo,omitempty"`
	VideoState     string            `json:"videoState,omitempty"`
	Visible        *bool             `json:"visible,omitempty"`
	X              *float64          `json:"x,omitempty"`
	Y              *float64          `json:"y,omitempty"`
	Size           *float64          `json:"size,omitempty"`
	Direction      *float64          `json:"direction,omitempty"`
	Draggable      *bool             `json:"draggable,omitempty"`
	RotationStyle  string            `json:"rotationStyle,omitempty"`
}

type costume struct {
	AssetID          string `json:"assetId"`
	Name             string `json:"name"`
	MD5Ext           string `json:"md5ext"`
	DataFormat       string `json:"dataFormat"`
	RotationCenterX  int    `json:"rotationCenterX"`
	RotationCenterY  int    `json:"rotationCenterY"`
	BitmapResolution int    `json:"bitmapResolution,omitempty"`
}

type sound struct {
	AssetID     string `json:"assetId"`
	Name        string `json:"name"`
	MD5Ext      string `json:"md5ext"`
	DataFormat  string `json:"dataFormat"`
	Format      string `json:"format"`
	Rate        int    `json:"rate"`
	SampleCount int    `json:"sampleCount"`
}

func buildProject(t translate.Translator) project {
	tempo := 60
	visible := true
	draggable := false
	zero, hundred, ninety := 0.0, 100.0, 90.0

	stage := target{
		IsStage: true,
		Name:    "Stage",
		Variables: map[string][2]any{
			variableID: {t.Translate(msgVariable), 0},
		},
		Lists:      map[string]any{},
		Broadcasts: map[string]string{},
		Blocks:     map[string]any{},
		Comments:   map[string]any{},
		Costumes: []costume{{
			AssetID:         backdropSVG.id,
			Name:            t.Translate(msgBackdrop),
			MD5Ext:          backdropSVG.md5ext(),
			DataFormat:      backdropSVG.format,
			RotationCenterX: 240,
			RotationCenterY: 180,
		}},
		Sounds:     []sound{},
		Volume:     100,
		LayerOrder: 0,
		Tempo:      &tempo,
		VideoState: "on",
	}

	sprite := target{
		IsStage:    false,
		Name:       t.Translate(msgSprite),
		Variables:  map[string][2]any{},
		Lists:      map[string]any{},
		Broadcasts: map[string]string{},
		Blocks:     map[string]any{},
		Comments:   map[string]any{},
		Costumes: []costume{
			{
				AssetID:         costume1SVG.id,
				Name:            t.Translate(msgCostume1),
				MD5Ext:          costume1SVG.md5ext(),
				DataFormat:      costume1SVG.format,
				RotationCenterX: 48,
				RotationCenterY: 48,
			},
			{
				AssetID:         costume2SVG.id,
				Name:            t.Translate(msgCostume2),
				MD5Ext:          costume2SVG.md5ext(),
				DataFormat:      costume2SVG.format,
				RotationCenterX: 48,
				RotationCenterY: 48,
			},
		},
		Sounds: []sound{{
			AssetID:     popWAV.id,
			Name:        t.Translate(msgPop),
			MD5Ext:      popWAV.md5ext(),
			DataFormat:  popWAV.format,
			Rate:        22050,
			SampleCount: 1123,
		}},
		Volume:        100,
		LayerOrder:    1,
		Visible:       &visible,
		X:             &zero,
		Y:             &zero,
		Size:          &hundred,
		Direction:     &ninety,
		Draggable:     &draggable,
		RotationStyle: "all around",
	}

	return project{
		Targets:    []target{stage, sprite},
		Monitors:   []any{},
		Extensions: []string{},
		Meta:       meta{Semver: "3.0.0", VM: "0.2.0", Agent: "go-projectstorage"},
	}
}
