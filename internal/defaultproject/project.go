// Package defaultproject describes the project loaded into the embedded store
// before any network access: a stage with one backdrop and a sprite with two
// costumes and a sound. Display names are localized through a Translator.
package defaultproject

import (
	"embed"
	"encoding/json"
	"fmt"

	"github.com/goliatone/go-projectstorage/pkg/translate"
)

//go:embed assets/*
var assetFS embed.FS

// ProjectID is the identifier the default project is stored under.
const ProjectID = "0"

// Asset is one entry of the default project description. Type and Format use
// the storage package's names ("Project", "ImageVector", "json", "svg", ...).
type Asset struct {
	Type   string
	Format string
	ID     string
	Data   []byte
}

var (
	msgBackdrop = translate.Message{ID: "gui.defaultProject.backdrop", Default: "backdrop1", Description: "Name for the default backdrop"}
	msgCostume1 = translate.Message{ID: "gui.defaultProject.costume1", Default: "costume1", Description: "Name for the first default costume"}
	msgCostume2 = translate.Message{ID: "gui.defaultProject.costume2", Default: "costume2", Description: "Name for the second default costume"}
	msgPop      = translate.Message{ID: "gui.defaultProject.pop", Default: "pop", Description: "Name for the default sound"}
	msgVariable = translate.Message{ID: "gui.defaultProject.variable", Default: "my variable", Description: "Name for the default variable"}
	msgSprite   = translate.Message{ID: "gui.defaultProject.sprite", Default: "Sprite1", Description: "Name for the default sprite"}
)

// Messages lists every message the description translates.
func Messages() []translate.Message {
	return []translate.Message{msgBackdrop, msgCostume1, msgCostume2, msgPop, msgVariable, msgSprite}
}

type media struct {
	id        string
	format    string
	assetType string
}

var (
	backdropSVG = media{id: "3c7ca68f283485b1ddf6b8263de0eccb", format: "svg", assetType: "ImageVector"}
	costume1SVG = media{id: "3bf984c36260c120d82d00458e1f94a9", format: "svg", assetType: "ImageVector"}
	costume2SVG = media{id: "cf21e0593f00d38e9b2ad4f1d3fe3d56", format: "svg", assetType: "ImageVector"}
	popWAV      = media{id: "c1d9a32894bea7d0da6e97d0fa405ee9", format: "wav", assetType: "Sound"}
)

func (m media) md5ext() string {
	return m.id + "." + m.format
}

// Describe returns the default project and its media. The result only depends
// on t; a nil translator yields the English defaults.
func Describe(t translate.Translator) ([]Asset, error) {
	doc := buildProject(t)
	projectJSON, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("defaultproject: encode project: %w", err)
	}

	assets := []Asset{{
		Type:   "Project",
		Format: "json",
		ID:     ProjectID,
		Data:   projectJSON,
	}}
	for _, m := range []media{backdropSVG, costume1SVG, costume2SVG, popWAV} {
		data, err := assetFS.ReadFile("assets/" + m.md5ext())
		if err != nil {
			return nil, fmt.Errorf("defaultproject: read %s: %w", m.md5ext(), err)
		}
		assets = append(assets, Asset{
			Type:   m.assetType,
			Format: m.format,
			ID:     m.id,
			Data:   data,
		})
	}
	return assets, nil
}
