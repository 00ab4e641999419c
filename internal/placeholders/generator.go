// Package placeholders draws stand-in art for local development: a tiled
// world background and simple avatar frame sets, written as PNGs together
// with an avatars.json manifest a test server can hand out in join replies.
package placeholders

import (
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"

	"chosenoffset.com/plaza/internal/protocol"
)

// TileSize is the edge of one background tile
const TileSize = 64

// FrameSize is the edge of one avatar frame
const FrameSize = 48

// FramesPerFacing is the length of each generated walk sequence
const FramesPerFacing = 2

// ColorPalette defines the background colors
var ColorPalette = struct {
	Grass1 color.RGBA
	Grass2 color.RGBA
	Path   color.RGBA
	Border color.RGBA
	Eye    color.RGBA
}{
	Grass1: color.RGBA{74, 112, 64, 255},   // Meadow green
	Grass2: color.RGBA{66, 102, 58, 255},   // Slightly darker
	Path:   color.RGBA{150, 130, 100, 255}, // Dirt path
	Border: color.RGBA{40, 40, 40, 255},    // World edge
	Eye:    color.RGBA{20, 20, 20, 255},
}

// AvatarSpec names one generated avatar and its body color
type AvatarSpec struct {
	Name string
	Body color.RGBA
}

// DefaultAvatars is the set written when no other is given
var DefaultAvatars = []AvatarSpec{
	{Name: "fox", Body: color.RGBA{230, 120, 40, 255}},
	{Name: "owl", Body: color.RGBA{140, 110, 80, 255}},
	{Name: "frog", Body: color.RGBA{90, 190, 90, 255}},
}

// CreateSolidTile creates a simple solid-colored tile
func CreateSolidTile(col color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, TileSize, TileSize))
	draw.Draw(img, img.Bounds(), &image.Uniform{col}, image.Point{}, draw.Src)
	return img
}

// Background creates a size x size checkerboard of grass tiles crossed by two
// paths through the world centre, with a border on the edge.
func Background(size int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	tiles := [2]*image.RGBA{CreateSolidTile(ColorPalette.Grass1), CreateSolidTile(ColorPalette.Grass2)}

	for ty := 0; ty*TileSize < size; ty++ {
		for tx := 0; tx*TileSize < size; tx++ {
			r := image.Rect(tx*TileSize, ty*TileSize, (tx+1)*TileSize, (ty+1)*TileSize)
			draw.Draw(img, r, tiles[(tx+ty)%2], image.Point{}, draw.Src)
		}
	}

	mid := size / 2
	half := TileSize / 4
	path := &image.Uniform{ColorPalette.Path}
	draw.Draw(img, image.Rect(mid-half, 0, mid+half, size), path, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(0, mid-half, size, mid+half), path, image.Point{}, draw.Src)

	border := &image.Uniform{ColorPalette.Border}
	for _, r := range []image.Rectangle{
		image.Rect(0, 0, size, 2),
		image.Rect(0, size-2, size, size),
		image.Rect(0, 0, 2, size),
		image.Rect(size-2, 0, size, size),
	} {
		draw.Draw(img, r, border, image.Point{}, draw.Src)
	}
	return img
}

// Frame draws one avatar frame: a round body with eyes showing the facing and
// feet that alternate between frames. Only north, south and east are drawn;
// west is east mirrored at render time.
func Frame(body color.RGBA, facing protocol.Facing, frame int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, FrameSize, FrameSize))

	center := FrameSize / 2
	radius := FrameSize/2 - 6
	outline := Darken(body, 0.6)
	for y := 0; y < FrameSize; y++ {
		for x := 0; x < FrameSize; x++ {
			dx := x - center
			dy := y - center + 2
			distSq := dx*dx + dy*dy
			if distSq <= radius*radius {
				img.Set(x, y, body)
			} else if distSq <= (radius+1)*(radius+1) {
				img.Set(x, y, outline)
			}
		}
	}

	// Feet
	step := 3
	if frame%2 == 1 {
		step = -3
	}
	feet := &image.Uniform{outline}
	footY := FrameSize - 6
	draw.Draw(img, image.Rect(center-9, footY+step/3, center-3, footY+4+step/3), feet, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(center+3, footY-step/3, center+9, footY+4-step/3), feet, image.Point{}, draw.Src)

	eye := &image.Uniform{ColorPalette.Eye}
	eyeY := center - 6
	switch facing {
	case protocol.FacingSouth:
		draw.Draw(img, image.Rect(center-7, eyeY, center-3, eyeY+4), eye, image.Point{}, draw.Src)
		draw.Draw(img, image.Rect(center+3, eyeY, center+7, eyeY+4), eye, image.Point{}, draw.Src)
	case protocol.FacingEast:
		draw.Draw(img, image.Rect(center+6, eyeY, center+10, eyeY+4), eye, image.Point{}, draw.Src)
	case protocol.FacingNorth:
		// back of the head
		draw.Draw(img, image.Rect(center-6, eyeY-4, center+6, eyeY), &image.Uniform{Lighten(body, 0.3)}, image.Point{}, draw.Src)
	}
	return img
}

// FrameRef is the ref of one generated frame, relative to the output dir
func FrameRef(avatar string, facing protocol.Facing, frame int) string {
	return fmt.Sprintf("avatars/%s-%s%d.png", avatar, facing[:1], frame)
}

// Generate writes world.png, the avatar frames and avatars.json under dir and
// returns the manifest it wrote.
func Generate(dir string, worldSize int, avatars []AvatarSpec) (map[string]protocol.Avatar, error) {
	if worldSize <= 0 {
		return nil, fmt.Errorf("world size must be positive, got %d", worldSize)
	}
	if err := os.MkdirAll(filepath.Join(dir, "avatars"), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output dir: %w", err)
	}

	if err := SavePNG(Background(worldSize), filepath.Join(dir, "world.png")); err != nil {
		return nil, fmt.Errorf("failed to save background: %w", err)
	}

	manifest := make(map[string]protocol.Avatar, len(avatars))
	for _, av := range avatars {
		a := protocol.Avatar{Name: av.Name}
		for _, facing := range []protocol.Facing{protocol.FacingNorth, protocol.FacingSouth, protocol.FacingEast} {
			var seq []string
			for i := 0; i < FramesPerFacing; i++ {
				ref := FrameRef(av.Name, facing, i)
				if err := SavePNG(Frame(av.Body, facing, i), filepath.Join(dir, filepath.FromSlash(ref))); err != nil {
					return nil, fmt.Errorf("failed to save %s: %w", ref, err)
				}
				seq = append(seq, ref)
			}
			switch facing {
			case protocol.FacingNorth:
				a.Frames.North = seq
			case protocol.FacingSouth:
				a.Frames.South = seq
			case protocol.FacingEast:
				a.Frames.East = seq
			}
		}
		manifest[av.Name] = a
	}

	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "avatars.json"), data, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write manifest: %w", err)
	}
	return manifest, nil
}

// SavePNG saves an image to a PNG file
func SavePNG(img image.Image, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return png.Encode(file, img)
}

// Darken returns a darker version of a color
func Darken(c color.RGBA, factor float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(c.R) * factor),
		G: uint8(float64(c.G) * factor),
		B: uint8(float64(c.B) * factor),
		A: c.A,
	}
}

// Lighten returns a lighter version of a color
func Lighten(c color.RGBA, factor float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(c.R) + (255-float64(c.R))*factor),
		G: uint8(float64(c.G) + (255-float64(c.G))*factor),
		B: uint8(float64(c.B) + (255-float64(c.B))*factor),
		A: c.A,
	}
}
