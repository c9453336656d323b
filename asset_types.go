package storage

import "strings"

// AssetType is the routing key for stores. The set is closed.
type AssetType string

const (
	AssetTypeProject     AssetType = "Project"
	AssetTypeImageVector AssetType = "ImageVector"
	AssetTypeImageBitmap AssetType = "ImageBitmap"
	AssetTypeSound       AssetType = "Sound"
)

// assetTypeImmutable records which types are content addressed.
var assetTypeImmutable = map[AssetType]bool{
	AssetTypeProject:     false,
	AssetTypeImageVector: true,
	AssetTypeImageBitmap: true,
	AssetTypeSound:       true,
}

var assetTypeOrder = []AssetType{AssetTypeImageBitmap, AssetTypeImageVector, AssetTypeProject, AssetTypeSound}

// Valid reports whether t belongs to the closed set.
func (t AssetType) Valid() bool {
	_, ok := assetTypeImmutable[t]
	return ok
}

// Immutable reports whether assets of this type are content addressed and
// never updated in place.
func (t AssetType) Immutable() bool {
	return assetTypeImmutable[t]
}

func (t AssetType) String() string {
	return string(t)
}

// AssetTypes returns every asset type. The slice is a fresh copy.
func AssetTypes() []AssetType {
	return append([]AssetType(nil), assetTypeOrder...)
}

// LookupAssetType resolves a type by name, case-insensitively.
func LookupAssetType(name string) (AssetType, bool) {
	name = strings.TrimSpace(name)
	for _, t := range assetTypeOrder {
		if strings.EqualFold(string(t), name) {
			return t, true
		}
	}
	return "", false
}

// DataFormat qualifies an asset's encoding. Values are the wire extensions.
type DataFormat string

const (
	DataFormatJPG  DataFormat = "jpg"
	DataFormatJSON DataFormat = "json"
	DataFormatMP3  DataFormat = "mp3"
	DataFormatPNG  DataFormat = "png"
	DataFormatSB2  DataFormat = "sb2"
	DataFormatSB3  DataFormat = "sb3"
	DataFormatSVG  DataFormat = "svg"
	DataFormatWAV  DataFormat = "wav"
)

var dataFormatOrder = []DataFormat{
	DataFormatJPG,
	DataFormatJSON,
	DataFormatMP3,
	DataFormatPNG,
	DataFormatSB2,
	DataFormatSB3,
	DataFormatSVG,
	DataFormatWAV,
}

var dataFormatContentType = map[DataFormat]string{
	DataFormatJPG:  "image/jpeg",
	DataFormatJSON: "application/json",
	DataFormatMP3:  "audio/mpeg",
	DataFormatPNG:  "image/png",
	DataFormatSB2:  "application/x.scratch.sb2",
	DataFormatSB3:  "application/x.scratch.sb3",
	DataFormatSVG:  "image/svg+xml",
	DataFormatWAV:  "audio/x-wav",
}

// Valid reports whether f belongs to the closed set.
func (f DataFormat) Valid() bool {
	_, ok := dataFormatContentType[f]
	return ok
}

// ContentType is the MIME type of payloads in this format, or "" for an
// unknown format.
func (f DataFormat) ContentType() string {
	return dataFormatContentType[f]
}

func (f DataFormat) String() string {
	return string(f)
}

// DataFormats returns every data format. The slice is a fresh copy.
func DataFormats() []DataFormat {
	return append([]DataFormat(nil), dataFormatOrder...)
}

// LookupDataFormat resolves a format by name ("WAV", "wav"), case-insensitively.
func LookupDataFormat(name string) (DataFormat, bool) {
	name = strings.TrimSpace(name)
	for _, f := range dataFormatOrder {
		if strings.EqualFold(string(f), name) {
			return f, true
		}
	}
	return "", false
}
