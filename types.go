package schemac

// JSONType is the serialization shape a type ultimately reduces to.
type JSONType string

const (
	JSONString  JSONType = "string"
	JSONNumber  JSONType = "number"
	JSONBoolean JSONType = "boolean"
	JSONObject  JSONType = "object"
	JSONArray   JSONType = "array"
	JSONNull    JSONType = "null"
)

// IsPrimitive reports whether values of this JSON type are stored without
// type information.
func (j JSONType) IsPrimitive() bool {
	return j == JSONString || j == JSONNumber || j == JSONBoolean
}

// Kind identifies a core type. Every compiled type has the kind of the core
// type its inheritance chain terminates at.
type Kind int

const (
	KindUnknown Kind = iota
	KindArray
	KindBlock
	KindBoolean
	KindCrossDatasetReference
	KindDate
	KindDatetime
	KindDocument
	KindEmail
	KindFile
	KindGeopoint
	KindGlobalDocumentReference
	KindImage
	KindNumber
	KindObject
	KindReference
	KindSlug
	KindSpan
	KindString
	KindTelephone
	KindText
	KindURL
	KindVideo
)

type coreType struct {
	name     string
	kind     Kind
	jsonType JSONType
}

// coreTypes is ordered the way core type names are reported.
var coreTypes = []coreType{
	{"array", KindArray, JSONArray},
	{"block", KindBlock, JSONObject},
	{"boolean", KindBoolean, JSONBoolean},
	{"crossDatasetReference", KindCrossDatasetReference, JSONObject},
	{"date", KindDate, JSONString},
	{"datetime", KindDatetime, JSONString},
	{"document", KindDocument, JSONObject},
	{"email", KindEmail, JSONString},
	{"file", KindFile, JSONObject},
	{"geopoint", KindGeopoint, JSONObject},
	{"globalDocumentReference", KindGlobalDocumentReference, JSONObject},
	{"image", KindImage, JSONObject},
	{"number", KindNumber, JSONNumber},
	{"object", KindObject, JSONObject},
	{"reference", KindReference, JSONObject},
	{"slug", KindSlug, JSONObject},
	{"span", KindSpan, JSONObject},
	{"string", KindString, JSONString},
	{"telephone", KindTelephone, JSONString},
	{"text", KindText, JSONString},
	{"url", KindURL, JSONString},
	{"video", KindVideo, JSONObject},
}

var kindsByName = func() map[string]int {
	m := make(map[string]int, len(coreTypes))
	for i, ct := range coreTypes {
		m[ct.name] = i
	}
	return m
}()

// futureReserved names cannot be declared even though no core type uses them yet.
var futureReserved = []string{"any", "time", "date"}

// KindOf returns the kind of a core type name.
func KindOf(name string) (Kind, bool) {
	i, ok := kindsByName[name]
	if !ok {
		return KindUnknown, false
	}
	return coreTypes[i].kind, true
}

// String returns the core type name of the kind.
func (k Kind) String() string {
	for _, ct := range coreTypes {
		if ct.kind == k {
			return ct.name
		}
	}
	return "unknown"
}

// JSONType returns the JSON type of the kind's core type.
func (k Kind) JSONType() JSONType {
	for _, ct := range coreTypes {
		if ct.kind == k {
			return ct.jsonType
		}
	}
	return ""
}

// IsReference reports whether the kind is one of the three reference kinds.
func (k Kind) IsReference() bool {
	return k == KindReference || k == KindCrossDatasetReference || k == KindGlobalDocumentReference
}

// IsCoreTypeName reports whether name is a core type.
func IsCoreTypeName(name string) bool {
	_, ok := kindsByName[name]
	return ok
}

// CoreTypeNames lists the core type names in their reporting order.
func CoreTypeNames() []string {
	out := make([]string, len(coreTypes))
	for i, ct := range coreTypes {
		out[i] = ct.name
	}
	return out
}

// CoreDeclarations returns a fresh declaration per core type:
// {name, type: "type", jsonType}.
func CoreDeclarations() []Declaration {
	out := make([]Declaration, len(coreTypes))
	for i, ct := range coreTypes {
		out[i] = Declaration{"name": ct.name, "type": "type", "jsonType": string(ct.jsonType)}
	}
	return out
}

// ReservedTypeNames returns the names user declarations may not take:
// "type", every core type name, and the future-reserved names.
func ReservedTypeNames() []string {
	out := append([]string{"type"}, futureReserved...)
	return append(out, CoreTypeNames()...)
}
