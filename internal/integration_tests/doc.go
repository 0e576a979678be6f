// Package integration_tests holds end-to-end tests that write manifests to
// a temporary directory and run the application over them. Tests are
// grouped by behavior in subpackages.
package integration_tests
