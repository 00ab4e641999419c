// Package rendertest provides a recording render backend for tests. Every
// draw call lands, in order, in the Renderer's op log.
package rendertest

import (
	"image"
	"image/color"

	"chosenoffset.com/plaza/internal/render"
)

var (
	_ render.Renderer     = (*Renderer)(nil)
	_ render.Image        = (*Image)(nil)
	_ render.InputManager = (*Input)(nil)
)

func init() {
	render.NewGeoM = func() render.GeoM {
		return &GeoM{}
	}
}

// Op kinds
const (
	OpImage        = "image"
	OpFillCircle   = "fill_circle"
	OpStrokeCircle = "stroke_circle"
	OpFillRect     = "fill_rect"
	OpStrokeRect   = "stroke_rect"
	OpText         = "text"
	OpFill         = "fill"
)

// Op is one recorded draw call
type Op struct {
	Kind   string
	Target *Image
	Src    *Image  // OpImage
	Geo    []GeoOp // OpImage transform, in call order
	Text   string  // OpText
	X, Y   float64
	W, H   float64
	Color  color.Color
}

// Renderer records draw calls
type Renderer struct {
	ops []Op
}

// NewRenderer creates an empty recorder
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Ops returns every recorded op
func (r *Renderer) Ops() []Op {
	return r.ops
}

// Reset drops recorded ops
func (r *Renderer) Reset() {
	r.ops = nil
}

// OpsOf returns the recorded ops of one kind
func (r *Renderer) OpsOf(kind string) []Op {
	var out []Op
	for _, op := range r.ops {
		if op.Kind == kind {
			out = append(out, op)
		}
	}
	return out
}

// Texts returns drawn strings in draw order
func (r *Renderer) Texts() []string {
	var out []string
	for _, op := range r.OpsOf(OpText) {
		out = append(out, op.Text)
	}
	return out
}

// Index returns the position of the first op matching fn, or -1
func (r *Renderer) Index(fn func(Op) bool) int {
	for i, op := range r.ops {
		if fn(op) {
			return i
		}
	}
	return -1
}

func (r *Renderer) record(op Op) {
	r.ops = append(r.ops, op)
}

// NewImage creates a blank recorded image
func (r *Renderer) NewImage(width, height int) render.Image {
	return r.NewNamedImage("image", width, height)
}

// NewNamedImage creates a recorded image with a name for assertions
func (r *Renderer) NewNamedImage(name string, width, height int) *Image {
	return &Image{Name: name, rec: r, rect: image.Rect(0, 0, width, height)}
}

// NewImageFromImage wraps a decoded image's bounds
func (r *Renderer) NewImageFromImage(src image.Image) render.Image {
	b := src.Bounds()
	return r.NewNamedImage("decoded", b.Dx(), b.Dy())
}

func (r *Renderer) FillCircle(dst render.Image, x, y, radius float32, clr color.Color) {
	r.record(Op{Kind: OpFillCircle, Target: asImage(dst), X: float64(x), Y: float64(y), W: float64(radius), Color: clr})
}

func (r *Renderer) StrokeCircle(dst render.Image, x, y, radius float32, strokeWidth float32, clr color.Color) {
	r.record(Op{Kind: OpStrokeCircle, Target: asImage(dst), X: float64(x), Y: float64(y), W: float64(radius), Color: clr})
}

func (r *Renderer) FillRect(dst render.Image, x, y, width, height float32, clr color.Color) {
	r.record(Op{Kind: OpFillRect, Target: asImage(dst), X: float64(x), Y: float64(y), W: float64(width), H: float64(height), Color: clr})
}

func (r *Renderer) StrokeRect(dst render.Image, x, y, width, height float32, strokeWidth float32, clr color.Color) {
	r.record(Op{Kind: OpStrokeRect, Target: asImage(dst), X: float64(x), Y: float64(y), W: float64(width), H: float64(height), Color: clr})
}

func (r *Renderer) DrawText(dst render.Image, text string, x, y int, clr color.Color, scale float64) {
	r.record(Op{Kind: OpText, Target: asImage(dst), Text: text, X: float64(x), Y: float64(y), Color: clr})
}

// MeasureText assumes a 7x13 monospace face
func (r *Renderer) MeasureText(text string, scale float64) (width, height int) {
	return int(float64(len(text)) * 7 * scale), int(13 * scale)
}

func asImage(img render.Image) *Image {
	if i, ok := img.(*Image); ok {
		return i
	}
	return nil
}

// Image is a recorded surface
type Image struct {
	Name     string
	rec      *Renderer
	rect     image.Rectangle
	Disposed bool
}

func (i *Image) Bounds() image.Rectangle { return i.rect }

func (i *Image) Size() (width, height int) { return i.rect.Dx(), i.rect.Dy() }

// SubImage returns a view sharing the name with a "#sub" suffix
func (i *Image) SubImage(r image.Rectangle) render.Image {
	return &Image{Name: i.Name + "#sub", rec: i.rec, rect: r.Intersect(i.rect)}
}

func (i *Image) Fill(clr color.Color) {
	if i.rec != nil {
		i.rec.record(Op{Kind: OpFill, Target: i, Color: clr})
	}
}

func (i *Image) Clear() {}

func (i *Image) Dispose() { i.Disposed = true }

func (i *Image) DrawImage(src render.Image, opts *render.DrawImageOptions) {
	if i.rec == nil {
		return
	}
	op := Op{Kind: OpImage, Target: i, Src: asImage(src)}
	if opts != nil {
		if g, ok := opts.GeoM.(*GeoM); ok && g != nil {
			op.Geo = append([]GeoOp(nil), g.Ops...)
		}
	}
	i.rec.record(op)
}

// GeoOp is one recorded transform step
type GeoOp struct {
	Kind string // "translate" or "scale"
	X, Y float64
}

// GeoM records transform calls
type GeoM struct {
	Ops []GeoOp
}

func (g *GeoM) Translate(tx, ty float64) { g.Ops = append(g.Ops, GeoOp{Kind: "translate", X: tx, Y: ty}) }

func (g *GeoM) Scale(sx, sy float64) { g.Ops = append(g.Ops, GeoOp{Kind: "scale", X: sx, Y: sy}) }

func (g *GeoM) Reset() { g.Ops = nil }

// Mirrored reports whether the transform flips horizontally
func Mirrored(ops []GeoOp) bool {
	sx := 1.0
	for _, op := range ops {
		if op.Kind == "scale" {
			sx *= op.X
		}
	}
	return sx < 0
}

// Input is a scriptable InputManager. Set the fields before each Update.
type Input struct {
	Pressed     map[render.Key]bool
	JustPressed map[render.Key]bool
	MouseJust   map[render.MouseButton]bool
	CursorX     int
	CursorY     int
}

// NewInput creates an idle input source
func NewInput() *Input {
	in := &Input{}
	in.Clear()
	return in
}

// Clear forgets edge-triggered state; call between frames
func (in *Input) Clear() {
	if in.Pressed == nil {
		in.Pressed = make(map[render.Key]bool)
	}
	in.JustPressed = make(map[render.Key]bool)
	in.MouseJust = make(map[render.MouseButton]bool)
}

// Press simulates a key-down edge
func (in *Input) Press(k render.Key) {
	in.Pressed[k] = true
	in.JustPressed[k] = true
}

// Release simulates a key-up; the client reads key levels, so only Pressed changes
func (in *Input) Release(k render.Key) {
	in.Pressed[k] = false
}

func (in *Input) IsKeyPressed(key render.Key) bool { return in.Pressed[key] }

func (in *Input) IsKeyJustPressed(key render.Key) bool { return in.JustPressed[key] }

func (in *Input) GetCursorPosition() (x, y int) { return in.CursorX, in.CursorY }

func (in *Input) IsMouseButtonJustPressed(b render.MouseButton) bool { return in.MouseJust[b] }
