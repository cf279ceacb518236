// Package softrast implements a small CPU rasterization pipeline: affine
// model matrices, a vertex stage, triangle and line rasterizers producing
// depth-interpolated fragments, procedural fragment shaders and an RGBA
// framebuffer.
//
// Coordinates handed to the rasterizers are already in pixel space. There is
// no projection stage; z is carried only as a depth value for shading and
// the optional depth test.
package softrast
