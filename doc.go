// Package schemac provides the shared vocabulary of the schema compiler:
//
// - Declarations: raw, user-authored type records (never mutated)
// - Kinds and JSON types of the core types, plus the built-in asset types
// - A stable problem model via Problems (severity, message, help id)
// - Hard-error sentinels for the compile path
// - WarningSink for de-duplicated deprecation notices
//
// Design policy:
// - Keep only shared types in the root package; compilation lives in registry/,
// validation in validation/, extraction in extract/ and synchronization in descriptor/.
// - Put traversal and loading details under internal/.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	res := validation.Validate(decls)
//	if groups := validation.GroupProblems(res); validation.HasErrors(groups) { ... }
//
//	reg, err := registry.Compile(decls)
//	types, err := extract.Schema(reg, extract.Option{EnforceRequiredFields: true})
//	set, err := descriptor.NewConverter().Get(reg)
package schemac
