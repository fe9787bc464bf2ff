package glbackend

import (
	"image"
	"unsafe"

	gl "github.com/go-gl/gl/v3.1/gles2"
	mgl "github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/draw"
)

const (
	quadVertexShader = `
    precision highp float;
    attribute vec2 a_position;
    attribute vec2 a_texcoord;
    uniform mat4 u_transform;
    varying vec2 v_texcoord;
    void main(void) {
      gl_Position = u_transform * vec4(a_position, 0.0, 1.0);
      v_texcoord = a_texcoord;
    }`
	quadFragmentShader = `
    precision highp float;
    uniform sampler2D u_tex;
    varying vec2 v_texcoord;
    void main(void) {
      gl_FragColor = texture2D(u_tex, v_texcoord);
    }`
)

type quadVertex struct {
	position [2]float32
	texcoord [2]float32
}

// The unit quad spans (0,0)-(1,-1); u_transform places it in clip space.
var unitQuad = [6]quadVertex{
	{position: [2]float32{0, 0}, texcoord: [2]float32{0, 0}},
	{position: [2]float32{0, -1}, texcoord: [2]float32{0, 1}},
	{position: [2]float32{1, -1}, texcoord: [2]float32{1, 1}},
	{position: [2]float32{1, -1}, texcoord: [2]float32{1, 1}},
	{position: [2]float32{1, 0}, texcoord: [2]float32{1, 0}},
	{position: [2]float32{0, 0}, texcoord: [2]float32{0, 0}},
}

type cachedTexture struct {
	tex  *texture
	used bool
}

// quadRenderer draws images as textured quads. Textures are cached per
// image value and released at the end of the first frame that did not
// draw them, so images must not be modified after they were drawn.
type quadRenderer struct {
	program     *program
	a_position  uint32
	a_texcoord  uint32
	u_transform int32
	u_tex       int32
	textures    map[image.Image]*cachedTexture
}

func newQuadRenderer() (*quadRenderer, error) {
	p, err := linkProgram(quadVertexShader, quadFragmentShader)
	if err != nil {
		return nil, err
	}
	return &quadRenderer{
		program:     p,
		a_position:  p.attrib("a_position"),
		a_texcoord:  p.attrib("a_texcoord"),
		u_transform: p.uniform("u_transform"),
		u_tex:       p.uniform("u_tex"),
		textures:    make(map[image.Image]*cachedTexture),
	}, nil
}

func (qr *quadRenderer) texture(img image.Image) *texture {
	if cached, ok := qr.textures[img]; ok {
		cached.used = true
		return cached.tex
	}
	rgba, ok := img.(*image.RGBA)
	if !ok || rgba.Bounds().Min != (image.Point{}) || rgba.Stride != 4*rgba.Bounds().Dx() {
		rgba = image.NewRGBA(image.Rectangle{Max: img.Bounds().Size()})
		draw.Draw(rgba, rgba.Bounds(), img, img.Bounds().Min, draw.Src)
	}
	tex := createTexture(rgba)
	qr.textures[img] = &cachedTexture{tex: tex, used: true}
	return tex
}

// draw renders img with its top left corner at the framebuffer pixel
// at.
func (qr *quadRenderer) draw(img image.Image, at image.Point, fbSize image.Point) {
	if fbSize.X <= 0 || fbSize.Y <= 0 {
		return
	}
	tex := qr.texture(img)
	qr.program.use()
	gl.ActiveTexture(gl.TEXTURE0)
	tex.bind()
	gl.Uniform1i(qr.u_tex, 0)
	stride := int32(unsafe.Sizeof(quadVertex{}))
	gl.EnableVertexAttribArray(qr.a_position)
	gl.VertexAttribPointer(qr.a_position, 2, gl.FLOAT, false, stride,
		gl.Ptr(&unitQuad[0].position[0]))
	gl.EnableVertexAttribArray(qr.a_texcoord)
	gl.VertexAttribPointer(qr.a_texcoord, 2, gl.FLOAT, false, stride,
		gl.Ptr(&unitQuad[0].texcoord[0]))
	ux := 2.0 / float32(fbSize.X)
	uy := 2.0 / float32(fbSize.Y)
	mScale := mgl.Scale3D(ux*float32(tex.size.X), uy*float32(tex.size.Y), 1)
	mTranslate := mgl.Translate3D(-1.0+ux*float32(at.X), 1.0-uy*float32(at.Y), 0)
	mTransform := mTranslate.Mul4(mScale)
	gl.UniformMatrix4fv(qr.u_transform, 1, false, &mTransform[0])
	gl.Enable(gl.BLEND)
	gl.BlendEquation(gl.FUNC_ADD)
	// image.RGBA is alpha-premultiplied
	gl.BlendFunc(gl.ONE, gl.ONE_MINUS_SRC_ALPHA)
	gl.DrawArrays(gl.TRIANGLES, 0, int32(len(unitQuad)))
	gl.Disable(gl.BLEND)
	gl.DisableVertexAttribArray(qr.a_position)
	gl.DisableVertexAttribArray(qr.a_texcoord)
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

// endFrame releases the textures no image used since the previous call.
func (qr *quadRenderer) endFrame() {
	for img, cached := range qr.textures {
		if !cached.used {
			cached.tex.close()
			delete(qr.textures, img)
			continue
		}
		cached.used = false
	}
}

func (qr *quadRenderer) close() {
	for img, cached := range qr.textures {
		cached.tex.close()
		delete(qr.textures, img)
	}
	qr.program.close()
}
