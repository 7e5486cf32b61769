// Package services assembles the pipeline's service instances into a
// single registry so wiring lives in one place.
package services
