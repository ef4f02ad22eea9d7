// Package jobs ships the job implementations dagrun is typically deployed
// with: geo-containment classification, polygon area computation, a
// simulated notification sender, and an upstream-payload summarizer.
//
// The engine itself only depends on the api.Job contract; these
// implementations are ordinary collaborators and can be replaced or
// extended freely. RegisterAll binds them under their canonical type names:
//
//	containment, area, notify, summary
package jobs
