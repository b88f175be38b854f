// Package formats provides parsers for the viewer's input files: Wavefront
// OBJ meshes (obj.go) and JSON scene descriptions (scenefile.go).
package formats
