package schemac

// Names of the built-in asset types.
const (
	ImageAssetTypeName  = "sanity.imageAsset"
	FileAssetTypeName   = "sanity.fileAsset"
	VideoAssetTypeName  = "sanity.videoAsset"
	ImageCropTypeName   = "sanity.imageCrop"
	ImageHotspotName    = "sanity.imageHotspot"
	ImageDimensionsName = "sanity.imageDimensions"
	ImageMetadataName   = "sanity.imageMetadata"
	ImagePaletteName    = "sanity.imagePalette"
	PaletteSwatchName   = "sanity.imagePaletteSwatch"
	AssetSourceDataName = "sanity.assetSourceData"
)

func field(name, typ string, extra ...any) map[string]any {
	f := map[string]any{"name": name, "type": typ}
	for i := 0; i+1 < len(extra); i += 2 {
		f[extra[i].(string)] = extra[i+1]
	}
	return f
}

func fields(fs ...map[string]any) []any {
	out := make([]any, len(fs))
	for i, f := range fs {
		out[i] = f
	}
	return out
}

func readOnly(name, typ string) map[string]any { return field(name, typ, "readOnly", true) }

func assetFields(extra ...map[string]any) []any {
	base := []map[string]any{
		readOnly("originalFilename", "string"),
		readOnly("label", "string"),
		readOnly("title", "string"),
		readOnly("description", "string"),
		readOnly("altText", "string"),
		readOnly("sha1hash", "string"),
		readOnly("extension", "string"),
		readOnly("mimeType", "string"),
		readOnly("size", "number"),
		readOnly("assetId", "string"),
		readOnly("uploadId", "string"),
		readOnly("path", "string"),
		readOnly("url", "string"),
	}
	return fields(append(base, extra...)...)
}

// Builtins returns fresh declarations of the built-in asset types, ordered so
// that every type follows the types it uses.
func Builtins() []Declaration {
	return []Declaration{
		{
			"name": ImageCropTypeName, "type": "object", "title": "Image crop",
			"fields": fields(field("top", "number"), field("bottom", "number"), field("left", "number"), field("right", "number")),
		},
		{
			"name": ImageHotspotName, "type": "object", "title": "Image hotspot",
			"fields": fields(field("x", "number"), field("y", "number"), field("height", "number"), field("width", "number")),
		},
		{
			"name": ImageDimensionsName, "type": "object", "title": "Image dimensions",
			"fields": fields(readOnly("height", "number"), readOnly("width", "number"), readOnly("aspectRatio", "number")),
		},
		{
			"name": PaletteSwatchName, "type": "object", "title": "Image palette swatch",
			"fields": fields(
				readOnly("background", "string"),
				readOnly("foreground", "string"),
				readOnly("population", "number"),
				readOnly("title", "string"),
			),
		},
		{
			"name": ImagePaletteName, "type": "object", "title": "Image palette",
			"fields": fields(
				field("darkMuted", PaletteSwatchName),
				field("lightVibrant", PaletteSwatchName),
				field("darkVibrant", PaletteSwatchName),
				field("vibrant", PaletteSwatchName),
				field("dominant", PaletteSwatchName),
				field("lightMuted", PaletteSwatchName),
				field("muted", PaletteSwatchName),
			),
		},
		{
			"name": ImageMetadataName, "type": "object", "title": "Image metadata",
			"fields": fields(
				field("location", "geopoint"),
				field("dimensions", ImageDimensionsName, "title", "Dimensions"),
				field("palette", ImagePaletteName, "title", "Palette"),
				readOnly("lqip", "string"),
				readOnly("blurHash", "string"),
				readOnly("hasAlpha", "boolean"),
				readOnly("isOpaque", "boolean"),
			),
		},
		{
			"name": AssetSourceDataName, "type": "object", "title": "Asset Source Data",
			"fields": fields(readOnly("name", "string"), readOnly("id", "string"), readOnly("url", "string")),
		},
		{
			"name": ImageAssetTypeName, "type": "document", "title": "Image",
			"fields": assetFields(
				field("metadata", ImageMetadataName, "readOnly", true),
				field("source", AssetSourceDataName, "readOnly", true),
			),
			"preview": map[string]any{"select": map[string]any{"title": "originalFilename", "path": "path", "mimeType": "mimeType", "size": "size"}},
			"orderings": []any{
				map[string]any{"title": "File size", "name": "fileSizeDesc", "by": []any{map[string]any{"field": "size", "direction": "desc"}}},
			},
		},
		{
			"name": FileAssetTypeName, "type": "document", "title": "File",
			"fields": assetFields(field("source", AssetSourceDataName, "readOnly", true)),
			"preview": map[string]any{"select": map[string]any{"title": "originalFilename", "path": "path", "mimeType": "mimeType", "size": "size"}},
		},
		{
			"name": VideoAssetTypeName, "type": "document", "title": "Video",
			"fields": assetFields(
				readOnly("playbackId", "string"),
				readOnly("duration", "number"),
				field("source", AssetSourceDataName, "readOnly", true),
			),
			"preview": map[string]any{"select": map[string]any{"title": "originalFilename", "path": "path"}},
		},
	}
}

// IsBuiltinTypeName reports whether name is one of the built-in asset types.
func IsBuiltinTypeName(name string) bool {
	switch name {
	case ImageAssetTypeName, FileAssetTypeName, VideoAssetTypeName, ImageCropTypeName,
		ImageHotspotName, ImageDimensionsName, ImageMetadataName, ImagePaletteName,
		PaletteSwatchName, AssetSourceDataName:
		return true
	}
	return false
}
