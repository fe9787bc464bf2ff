package glbackend

import (
	"fmt"
	"image"

	gl "github.com/go-gl/gl/v3.1/gles2"
)

type texture struct {
	tex  uint32
	size image.Point
}

func createTexture(img *image.RGBA) *texture {
	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	size := img.Bounds().Size()
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA,
		int32(size.X), int32(size.Y),
		0, gl.RGBA, gl.UNSIGNED_BYTE,
		gl.Ptr(img.Pix))
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return &texture{tex: tex, size: size}
}

func (t *texture) bind() {
	gl.BindTexture(gl.TEXTURE_2D, t.tex)
}

func (t *texture) close() {
	if t.tex != 0 {
		gl.DeleteTextures(1, &t.tex)
		t.tex = 0
	}
}

func shaderInfoLog(shader uint32) string {
	var length int32
	gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &length)
	if length == 0 {
		return ""
	}
	log := make([]uint8, length)
	var logLen int32
	gl.GetShaderInfoLog(shader, length, &logLen, &log[0])
	return string(log[:logLen])
}

func compileShader(shaderType uint32, source string) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	data, free := gl.Strs(source)
	defer free()
	length := int32(len(source))
	gl.ShaderSource(shader, 1, data, &length)
	gl.CompileShader(shader)
	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		msg := shaderInfoLog(shader)
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("shader compilation failed: %s", msg)
	}
	return shader, nil
}

func programInfoLog(program uint32) string {
	var length int32
	gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &length)
	if length == 0 {
		return ""
	}
	log := make([]uint8, length)
	var logLen int32
	gl.GetProgramInfoLog(program, length, &logLen, &log[0])
	return string(log[:logLen])
}

type program struct {
	program uint32
	shaders [2]uint32
}

func linkProgram(vertexShader, fragmentShader string) (*program, error) {
	vs, err := compileShader(gl.VERTEX_SHADER, vertexShader)
	if err != nil {
		return nil, err
	}
	fs, err := compileShader(gl.FRAGMENT_SHADER, fragmentShader)
	if err != nil {
		gl.DeleteShader(vs)
		return nil, err
	}
	p := gl.CreateProgram()
	gl.AttachShader(p, vs)
	gl.AttachShader(p, fs)
	gl.LinkProgram(p)
	var status int32
	gl.GetProgramiv(p, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		msg := programInfoLog(p)
		gl.DeleteProgram(p)
		gl.DeleteShader(vs)
		gl.DeleteShader(fs)
		return nil, fmt.Errorf("program link failed: %s", msg)
	}
	return &program{program: p, shaders: [2]uint32{vs, fs}}, nil
}

func (p *program) attrib(name string) uint32 {
	return uint32(gl.GetAttribLocation(p.program, gl.Str(name+"\x00")))
}

func (p *program) uniform(name string) int32 {
	return gl.GetUniformLocation(p.program, gl.Str(name+"\x00"))
}

func (p *program) use() {
	gl.UseProgram(p.program)
}

func (p *program) close() {
	for i, shader := range p.shaders {
		if shader != 0 {
			gl.DeleteShader(shader)
			p.shaders[i] = 0
		}
	}
	if p.program != 0 {
		gl.DeleteProgram(p.program)
		p.program = 0
	}
}
