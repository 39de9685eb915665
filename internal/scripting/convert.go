package scripting

import (
	"github.com/dop251/goja"

	"github.com/taisei-project/core/internal/cmplx2d"
	"github.com/taisei-project/core/internal/colorx"
	"github.com/taisei-project/core/internal/move"
)

// prop reads a named property off v, returning goja's undefined value (not
// an error) when v isn't an object or the property is absent — every
// reader below treats "absent" the same as "use the default".
func prop(v goja.Value, name string) goja.Value {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return goja.Undefined()
	}
	obj, ok := v.(*goja.Object)
	if !ok {
		return goja.Undefined()
	}
	return obj.Get(name)
}

func numProp(v goja.Value, name string, def float64) float64 {
	p := prop(v, name)
	if p == nil || goja.IsUndefined(p) || goja.IsNull(p) {
		return def
	}
	return p.ToFloat()
}

func intProp(v goja.Value, name string, def int) int {
	return int(numProp(v, name, float64(def)))
}

func boolProp(v goja.Value, name string, def bool) bool {
	p := prop(v, name)
	if p == nil || goja.IsUndefined(p) || goja.IsNull(p) {
		return def
	}
	return p.ToBoolean()
}

func strProp(v goja.Value, name string, def string) string {
	p := prop(v, name)
	if p == nil || goja.IsUndefined(p) || goja.IsNull(p) {
		return def
	}
	return p.String()
}

// vecProp reads a {x, y} object property into a cmplx2d.Vec, defaulting
// to the origin when absent — the JS-side shape for every position and
// velocity value §6's create_* functions accept.
func vecProp(v goja.Value, name string) cmplx2d.Vec {
	return vecValue(prop(v, name))
}

func vecValue(v goja.Value) cmplx2d.Vec {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return 0
	}
	return complex(numProp(v, "x", 0), numProp(v, "y", 0))
}

// colorProp reads a {r, g, b, a} object property into a colorx.Color,
// defaulting to opaque white (the original engine's default particle tint).
func colorProp(v goja.Value, name string) colorx.Color {
	return colorValue(prop(v, name))
}

func colorValue(v goja.Value) colorx.Color {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return colorx.White
	}
	return colorx.RGBA(
		numProp(v, "r", 1),
		numProp(v, "g", 1),
		numProp(v, "b", 1),
		numProp(v, "a", 1),
	)
}

// moveProp reads a {vel, accel, retention, attraction, attraction_point}
// object property into a move.Params, defaulting to move.Default() (unit
// retention, no acceleration, no attraction) so a script that only ever
// sets vel never silently kills velocity retention (mirrors move.Default's
// own rationale).
func moveProp(v goja.Value, name string) move.Params {
	return moveValue(prop(v, name))
}

func moveValue(v goja.Value) move.Params {
	p := move.Default()
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return p
	}
	p.Velocity = vecProp(v, "vel")
	p.Acceleration = vecProp(v, "accel")
	if retention := numProp(v, "retention", 0); retention != 0 {
		p.Retention = complex(retention, 0)
	}
	if attraction := numProp(v, "attraction", 0); attraction != 0 {
		p.HasAttraction = true
		p.Attraction = attraction
		p.AttractionPoint = vecProp(v, "attraction_point")
	}
	return p
}

// funcProp reads a named function property, returning (nil, false) when
// absent so callers can fall back to a nil Go rule rather than a
// call-into-nothing wrapper.
func funcProp(v goja.Value, name string) (goja.Callable, bool) {
	return funcValue(prop(v, name))
}

func funcValue(v goja.Value) (goja.Callable, bool) {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return nil, false
	}
	return goja.AssertFunction(v)
}
