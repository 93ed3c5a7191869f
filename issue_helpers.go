package schemac

import "fmt"

// HelpID identifies a documentation entry describing a class of problems.
// Several checks share one id.
type HelpID string

const (
	HelpTypeInvalid                       HelpID = "schema-type-invalid"
	HelpTypeIsESMModule                   HelpID = "schema-type-is-esm-module"
	HelpTypeNameReserved                  HelpID = "schema-type-name-reserved"
	HelpTypeMissingName                   HelpID = "schema-type-missing-name-or-type"
	HelpTypeMissingType                   HelpID = "schema-type-missing-name-or-type"
	HelpTypeTitleRecommended              HelpID = "schema-type-title-is-recommended"
	HelpTypeTitleInvalid                  HelpID = "schema-type-title-is-recommended"
	HelpTypeUnknownType                   HelpID = "schema-type-unknown-type"
	HelpObjectFieldsInvalid               HelpID = "schema-object-fields-invalid"
	HelpObjectFieldNotUnique              HelpID = "schema-object-fields-invalid"
	HelpObjectFieldNameInvalid            HelpID = "schema-object-fields-invalid"
	HelpObjectFieldDefinitionInvalidType  HelpID = "schema-object-fields-invalid"
	HelpFieldTypeIsDocument               HelpID = "schema-field-type-is-document"
	HelpArrayPredefinedChoicesInvalid     HelpID = "schema-predefined-choices-invalid"
	HelpArrayOfArray                      HelpID = "schema-array-of-array"
	HelpArrayOfInvalid                    HelpID = "schema-array-of-invalid"
	HelpArrayOfNotUnique                  HelpID = "schema-array-of-invalid"
	HelpArrayOfTypeGlobalTypeConflict     HelpID = "schema-array-of-type-global-type-conflict"
	HelpArrayOfTypeBuiltinTypeConflict    HelpID = "schema-array-of-type-builtin-type-conflict"
	HelpArrayOfDuplicatePrimitiveJSONType HelpID = "schema-array-of-duplicate-primitive-json-type"
	HelpReferenceToInvalid                HelpID = "schema-reference-to-invalid"
	HelpReferenceToNotUnique              HelpID = "schema-reference-to-invalid"
	HelpReferenceInvalidOptions           HelpID = "schema-reference-invalid-options"
	HelpReferenceInvalidOptionsLocation   HelpID = "schema-reference-options-nesting"
	HelpReferenceFilterParamsCombination  HelpID = "schema-reference-filter-params-combination"
	HelpSlugSlugifyFnRenamed              HelpID = "slug-slugifyfn-renamed"
	HelpAssetMetadataFieldInvalid         HelpID = "asset-metadata-field-invalid"
	HelpCrossDatasetReferenceInvalid      HelpID = "cross-dataset-reference-invalid"
	HelpGlobalDocumentReferenceInvalid    HelpID = "global-document-reference-invalid"
	HelpDeprecatedBlockEditorKey          HelpID = "schema-deprecated-blockeditor-key"
	HelpStandaloneBlockType               HelpID = "schema-standalone-block-type"
	HelpDeprecatedProperty                HelpID = "schema-deprecated-property"
)

// Error creates an error-severity problem.
func Error(msg string, help ...HelpID) Problem { return newProblem(SeverityError, msg, help) }

// Warning creates a warning-severity problem.
func Warning(msg string, help ...HelpID) Problem { return newProblem(SeverityWarning, msg, help) }

// Info creates an info-severity problem.
func Info(msg string, help ...HelpID) Problem { return newProblem(SeverityInfo, msg, help) }

// Errorf is Error with a formatted message and no help id.
func Errorf(format string, args ...any) Problem {
	return Problem{Severity: SeverityError, Message: fmt.Sprintf(format, args...)}
}

func newProblem(s Severity, msg string, help []HelpID) Problem {
	p := Problem{Severity: s, Message: msg}
	if len(help) > 0 {
		p.HelpID = help[0]
	}
	return p
}
