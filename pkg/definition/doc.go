// Package definition builds form.Form values from declarative documents:
// YAML or JSON files listing forms, their controls and groups, and OpenAPI
// request bodies.
package definition
