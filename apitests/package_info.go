// Package apitests contains the Titanic API contract tests and their supporting API.
//
// Test harness infrastructure that is not specific to this API, such as test contexts,
// results, filtering, and the setup/case/teardown lifecycle, is in the lower-level
// framework package. This package adds the state that lives for one run (actor tokens
// and the cleanup registry), the coordinator that deletes passengers created by each
// case, and the cases themselves.
package apitests
