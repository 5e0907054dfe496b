// Package sketch defines the 2D sketch model that the exporter reads.
// A Document holds named sketches; each Sketch is an ordered list of
// geometry elements flagged as construction or profile geometry.
package sketch
