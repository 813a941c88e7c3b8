// Package poly reads and writes polygon files.
//
// A polygon file is a 40-byte little-endian header followed by npoly
// polygons:
//
//	header   code:int32 min_x:f64 min_y:f64 max_x:f64 max_y:f64 npoly:int32
//	polygon  count:uint32 then count points of (x:f64, y:f64)
//
// The per-polygon prefix is the number of points, not a byte length. code and
// npoly are signed; a negative npoly is rejected.
//
// The header can also be viewed with nested points, as code, xy1, xy2 and
// npoly, where xy1 holds the minimum corner and xy2 the maximum. Both views
// share the same bytes.
package poly
