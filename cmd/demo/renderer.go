package main

import (
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// Point-sprite shaders, trimmed from the teacher's particleVertSrc/
// particleFragSrc (internal/game/shaders.go) down to what a bare
// colored-dot renderer needs: no camera zoom, no sun/ambient tinting.
const demoVertSrc = `#version 410 core

layout(location = 0) in vec2 aWorldPos;
layout(location = 1) in float aSize;
layout(location = 2) in vec4 aColor;

uniform vec2 uResolution;

out vec4 vColor;

void main() {
    vec2 ndc = (aWorldPos / uResolution) * 2.0;
    ndc.y = -ndc.y;
    gl_Position = vec4(ndc, 0.0, 1.0);
    gl_PointSize = max(1.0, aSize);
    vColor = aColor;
}
` + "\x00"

const demoFragSrc = `#version 410 core

in vec4 vColor;
out vec4 FragColor;

void main() {
    vec2 uv = gl_PointCoord - vec2(0.5);
    if (dot(uv, uv) > 0.25) discard;
    FragColor = vColor;
}
` + "\x00"

// vertex is one point sprite: world position, point size, RGBA color.
type vertex struct {
	x, y, size    float32
	r, g, b, a    float32
}

const vertexFloats = 7

// renderer draws every live point sprite in one GL_POINTS draw call per
// frame. Grounded on internal/game/shaders.go's compileShader/linkProgram
// and the particle-pass VBO shape; the teacher's textured-sprite and
// chunk/UI passes have no analogue here since this demo only shows
// projectiles/enemies/the player as colored dots.
type renderer struct {
	program  uint32
	vao, vbo uint32
	resLoc   int32

	verts []vertex
}

func newRenderer() (*renderer, error) {
	program, err := linkProgram(demoVertSrc, demoFragSrc)
	if err != nil {
		return nil, err
	}

	r := &renderer{program: program, resLoc: gl.GetUniformLocation(program, gl.Str("uResolution\x00"))}

	gl.GenVertexArrays(1, &r.vao)
	gl.GenBuffers(1, &r.vbo)
	gl.BindVertexArray(r.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)

	stride := int32(vertexFloats * 4)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, stride, unsafe.Pointer(uintptr(0)))
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(1, 1, gl.FLOAT, false, stride, unsafe.Pointer(uintptr(2*4)))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(2, 4, gl.FLOAT, false, stride, unsafe.Pointer(uintptr(3*4)))
	gl.EnableVertexAttribArray(2)

	gl.BindVertexArray(0)

	gl.Enable(gl.PROGRAM_POINT_SIZE)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	return r, nil
}

// Push queues one point sprite for the next Flush.
func (r *renderer) Push(x, y, size, red, green, blue, alpha float64) {
	r.verts = append(r.verts, vertex{
		x: float32(x), y: float32(y), size: float32(size),
		r: float32(red), g: float32(green), b: float32(blue), a: float32(alpha),
	})
}

// Flush uploads every pushed sprite and draws them in a single call,
// then clears the queue for the next frame.
func (r *renderer) Flush(fbW, fbH int32) {
	gl.Viewport(0, 0, fbW, fbH)
	gl.ClearColor(0.02, 0.02, 0.05, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT)

	if len(r.verts) == 0 {
		r.verts = r.verts[:0]
		return
	}

	gl.UseProgram(r.program)
	gl.Uniform2f(r.resLoc, float32(fbW), float32(fbH))

	gl.BindVertexArray(r.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(r.verts)*int(vertexFloats)*4, gl.Ptr(r.verts), gl.STREAM_DRAW)
	gl.DrawArrays(gl.POINTS, 0, int32(len(r.verts)))
	gl.BindVertexArray(0)

	r.verts = r.verts[:0]
}

func (r *renderer) Destroy() {
	gl.DeleteBuffers(1, &r.vbo)
	gl.DeleteVertexArrays(1, &r.vao)
	gl.DeleteProgram(r.program)
}
