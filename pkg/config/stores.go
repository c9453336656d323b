package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-projectstorage"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// File is a store definition document. Hosts set here are overridden by
// non-empty Settings.
type File struct {
	AssetHost    string            `yaml:"asset_host"    json:"asset_host"`
	ProjectHost  string            `yaml:"project_host"  json:"project_host"`
	ProjectToken string            `yaml:"project_token" json:"project_token"`
	OfficialWeb  bool              `yaml:"official_web"  json:"official_web"`
	Stores       []StoreDefinition `yaml:"stores"        json:"stores"`
}

// StoreDefinition declares one expression store.
type StoreDefinition struct {
	Name   string             `yaml:"name"             json:"name"`
	Types  []string           `yaml:"types"            json:"types"`
	Engine string             `yaml:"engine,omitempty" json:"engine,omitempty"`
	Get    *RequestDefinition `yaml:"get,omitempty"    json:"get,omitempty"`
	Create *RequestDefinition `yaml:"create,omitempty" json:"create,omitempty"`
	Update *RequestDefinition `yaml:"update,omitempty" json:"update,omitempty"`
}

// RequestDefinition declares one operation; URL is an expression.
type RequestDefinition struct {
	Method      string            `yaml:"method,omitempty"      json:"method,omitempty"`
	URL         string            `yaml:"url"                   json:"url"`
	Header      map[string]string `yaml:"header,omitempty"      json:"header,omitempty"`
	Credentials bool              `yaml:"credentials,omitempty" json:"credentials,omitempty"`
}

// Format selects the store file syntax.
type Format string

const (
	FormatYAML  Format = "yaml"
	FormatJSONC Format = "jsonc"
)

// FormatFromPath picks the format from the file extension. JSON files are
// read as JSONC.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json", ".jsonc":
		return FormatJSONC, nil
	}
	return "", fmt.Errorf("config: unsupported store file extension %q", filepath.Ext(path))
}

// Parse decodes data in format. Unknown keys are rejected.
func Parse(data []byte, format Format) (*File, error) {
	var file File
	switch format {
	case FormatYAML:
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		if err := decoder.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("config: parsing yaml: %w", err)
		}
	case FormatJSONC:
		decoder := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&file); err != nil {
			return nil, fmt.Errorf("config: parsing jsonc: %w", err)
		}
	default:
		return nil, fmt.Errorf("config: unknown format %q", format)
	}
	if err := file.Validate(); err != nil {
		return nil, err
	}
	return &file, nil
}

// ReadFile reads and parses a store file, choosing the format by extension.
func ReadFile(path string) (*File, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	file, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return file, nil
}

// Validate checks names, asset types and that each store declares at least
// one operation.
func (f *File) Validate() error {
	seen := make(map[string]struct{}, len(f.Stores))
	for i, def := range f.Stores {
		if strings.TrimSpace(def.Name) == "" {
			return fmt.Errorf("config: store %d has no name", i)
		}
		if _, dup := seen[def.Name]; dup {
			return fmt.Errorf("config: store %q declared twice", def.Name)
		}
		seen[def.Name] = struct{}{}
		if _, err := def.assetTypes(); err != nil {
			return err
		}
		if def.Get == nil && def.Create == nil && def.Update == nil {
			return fmt.Errorf("config: store %q declares no operations", def.Name)
		}
	}
	return nil
}

// ExpressionStore converts the definition into a storage.ExpressionStore.
func (d StoreDefinition) ExpressionStore() (storage.ExpressionStore, error) {
	types, err := d.assetTypes()
	if err != nil {
		return storage.ExpressionStore{}, err
	}
	return storage.ExpressionStore{
		Name:   d.Name,
		Types:  types,
		Engine: d.Engine,
		Get:    d.Get.expressionRequest(),
		Create: d.Create.expressionRequest(),
		Update: d.Update.expressionRequest(),
	}, nil
}

func (d StoreDefinition) assetTypes() ([]storage.AssetType, error) {
	if len(d.Types) == 0 {
		return nil, fmt.Errorf("config: store %q lists no asset types", d.Name)
	}
	types := make([]storage.AssetType, 0, len(d.Types))
	for _, name := range d.Types {
		t, ok := storage.LookupAssetType(name)
		if !ok {
			return nil, fmt.Errorf("config: store %q lists unknown asset type %q", d.Name, name)
		}
		types = append(types, t)
	}
	return types, nil
}

func (r *RequestDefinition) expressionRequest() *storage.ExpressionRequest {
	if r == nil {
		return nil
	}
	var header map[string]string
	if len(r.Header) > 0 {
		header = make(map[string]string, len(r.Header))
		for key, value := range r.Header {
			header[key] = value
		}
	}
	return &storage.ExpressionRequest{
		Method:          r.Method,
		URL:             r.URL,
		Header:          header,
		WithCredentials: r.Credentials,
	}
}
