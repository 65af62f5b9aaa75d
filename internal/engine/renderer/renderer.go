// Package renderer draws a scene graph with OpenGL.
package renderer

import (
	"fmt"
	"image"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/sofa-configurator/internal/engine/camera"
	"github.com/Faultbox/sofa-configurator/internal/engine/model"
	"github.com/Faultbox/sofa-configurator/internal/engine/scene"
	"github.com/Faultbox/sofa-configurator/internal/engine/shader"
	"github.com/Faultbox/sofa-configurator/internal/logger"
)

// Config holds renderer configuration.
type Config struct {
	Width  int
	Height int
}

type gpuMesh struct {
	vao, vbo, ebo uint32
}

type gpuTexture struct {
	id        uint32
	uploaded  uint64
	lastFrame uint64
}

// Renderer uploads meshes and textures on first use and draws every visible
// drawable of a scene.Graph. Must be created and used on the GL thread.
type Renderer struct {
	config  Config
	program *shader.Program
	white   uint32

	meshes   map[*model.Mesh]*gpuMesh
	textures map[*scene.Texture]*gpuTexture
	frame    uint64
	fallback *scene.Material
}

// New creates a renderer. The OpenGL context must already exist.
func New(cfg Config) (*Renderer, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	logger.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)

	program, err := shader.New(vertexShader, fragmentShader)
	if err != nil {
		return nil, fmt.Errorf("failed to create shader program: %w", err)
	}

	r := &Renderer{
		config:   cfg,
		program:  program,
		meshes:   make(map[*model.Mesh]*gpuMesh),
		textures: make(map[*scene.Texture]*gpuTexture),
		fallback: scene.NewMaterial(""),
	}
	r.white = uploadImage(solid(1, 1), scene.WrapClamp, scene.WrapClamp)
	r.Resize(cfg.Width, cfg.Height)
	return r, nil
}

// Close releases every GL resource the renderer owns.
func (r *Renderer) Close() {
	logger.Info("closing renderer")
	for m, gm := range r.meshes {
		gm.delete()
		delete(r.meshes, m)
	}
	for t, gt := range r.textures {
		gl.DeleteTextures(1, &gt.id)
		delete(r.textures, t)
	}
	if r.white != 0 {
		gl.DeleteTextures(1, &r.white)
	}
	r.program.Delete()
}

// Resize sets the GL viewport.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	logger.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// ReadPixels reads back the current framebuffer as bottom-up RGBA rows.
// Call it after Draw and before the buffers are swapped.
func (r *Renderer) ReadPixels() (pixels []byte, width, height int) {
	width, height = r.config.Width, r.config.Height
	pixels = make([]byte, width*height*4)
	if len(pixels) == 0 {
		return pixels, width, height
	}
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels, width, height
}

// Draw renders one frame of g as seen from cam.
func (r *Renderer) Draw(g *scene.Graph, cam *camera.Camera) error {
	r.frame++

	bg := g.Background
	gl.ClearColor(bg[0], bg[1], bg[2], 1)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	p := r.program
	p.Use()
	p.SetMat4("uProjection", cam.ProjectionMatrix())
	p.SetMat4("uView", cam.ViewMatrix())

	l := collectLights(g.Lights)
	p.SetVec3("uAmbient", l.ambient)
	p.SetVec3("uLightDir", l.direction)
	p.SetVec3("uLightColor", l.directional)
	p.SetInt("uMap", 0)

	gl.ActiveTexture(gl.TEXTURE0)
	for _, item := range g.Drawables() {
		mesh := item.Node.Mesh()
		if len(mesh.Indices) == 0 {
			continue
		}
		gm := r.mesh(mesh)
		p.SetMat4("uModel", item.World)
		gl.BindVertexArray(gm.vao)

		mats := item.Node.Materials()
		for _, grp := range mesh.Groups {
			mat := mats.At(grp.MaterialIdx)
			if mat == nil {
				mat = r.fallback
			}
			r.bindMaterial(mat)
			gl.DrawElementsWithOffset(gl.TRIANGLES, grp.Count, gl.UNSIGNED_INT, uintptr(grp.Start)*4)
		}
	}
	gl.BindVertexArray(0)

	r.sweep()
	if code := gl.GetError(); code != gl.NO_ERROR {
		return fmt.Errorf("gl error 0x%x", code)
	}
	return nil
}

func (r *Renderer) bindMaterial(mat *scene.Material) {
	p := r.program
	p.SetVec4("uBaseColor", mat.BaseColor)

	tex := mat.Map
	if tex != nil && tex.Image != nil {
		gl.BindTexture(gl.TEXTURE_2D, r.texture(tex, mat.NeedsUpdate))
		p.SetInt("uHasMap", 1)
		p.SetVec2("uRepeat", tex.Repeat)
	} else {
		gl.BindTexture(gl.TEXTURE_2D, r.white)
		p.SetInt("uHasMap", 0)
		p.SetVec2("uRepeat", mgl32.Vec2{1, 1})
	}
	mat.NeedsUpdate = false

	if mat.DoubleSided {
		gl.Disable(gl.CULL_FACE)
	} else {
		gl.Enable(gl.CULL_FACE)
	}
}

// mesh returns the GPU buffers for m, uploading them on first use.
func (r *Renderer) mesh(m *model.Mesh) *gpuMesh {
	if gm, ok := r.meshes[m]; ok {
		return gm
	}
	gm := &gpuMesh{}
	gl.GenVertexArrays(1, &gm.vao)
	gl.BindVertexArray(gm.vao)

	gl.GenBuffers(1, &gm.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, gm.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(m.Vertices)*model.VertexStride, gl.Ptr(m.Vertices), gl.STATIC_DRAW)

	gl.GenBuffers(1, &gm.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, gm.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(m.Indices)*4, gl.Ptr(m.Indices), gl.STATIC_DRAW)

	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, model.VertexStride, 0)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, model.VertexStride, 12)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointerWithOffset(2, 2, gl.FLOAT, false, model.VertexStride, 24)
	gl.EnableVertexAttribArray(2)

	gl.BindVertexArray(0)
	r.meshes[m] = gm

	logger.Debug("mesh uploaded",
		zap.String("name", m.Name),
		zap.Int("vertices", len(m.Vertices)),
		zap.Int("triangles", m.Triangles()),
	)
	return gm
}

func (gm *gpuMesh) delete() {
	gl.DeleteVertexArrays(1, &gm.vao)
	gl.DeleteBuffers(1, &gm.vbo)
	gl.DeleteBuffers(1, &gm.ebo)
}

// texture returns the GL texture for t, uploading it on first use or
// again when reupload is set. A texture is uploaded at most once per frame.
func (r *Renderer) texture(t *scene.Texture, reupload bool) uint32 {
	gt, ok := r.textures[t]
	if ok && reupload && gt.uploaded != r.frame {
		gl.DeleteTextures(1, &gt.id)
		ok = false
	}
	if !ok {
		gt = &gpuTexture{id: uploadImage(t.Image, t.WrapS, t.WrapT), uploaded: r.frame}
		r.textures[t] = gt
		logger.Debug("texture uploaded",
			zap.String("source", t.Source),
			zap.Int("width", t.Image.Bounds().Dx()),
			zap.Int("height", t.Image.Bounds().Dy()),
		)
	}
	gt.lastFrame = r.frame
	return gt.id
}

// sweep frees textures that no material referenced this frame.
func (r *Renderer) sweep() {
	for t, gt := range r.textures {
		if gt.lastFrame != r.frame {
			gl.DeleteTextures(1, &gt.id)
			delete(r.textures, t)
		}
	}
}

func uploadImage(img *image.RGBA, wrapS, wrapT scene.WrapMode) uint32 {
	img = packed(img)
	w, h := img.Bounds().Dx(), img.Bounds().Dy()

	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_2D, id)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(w), int32(h), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, glWrap(wrapS))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, glWrap(wrapT))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.GenerateMipmap(gl.TEXTURE_2D)
	return id
}

func glWrap(m scene.WrapMode) int32 {
	switch m {
	case scene.WrapRepeat:
		return gl.REPEAT
	case scene.WrapMirror:
		return gl.MIRRORED_REPEAT
	default:
		return gl.CLAMP_TO_EDGE
	}
}

// packed returns img with tightly packed rows starting at the origin.
func packed(img *image.RGBA) *image.RGBA {
	b := img.Bounds()
	if b.Min == (image.Point{}) && img.Stride == b.Dx()*4 {
		return img
	}
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		copy(out.Pix[y*out.Stride:(y+1)*out.Stride], img.Pix[img.PixOffset(b.Min.X, b.Min.Y+y):])
	}
	return out
}

func solid(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	return img
}

type lights struct {
	ambient     mgl32.Vec3
	direction   mgl32.Vec3
	directional mgl32.Vec3
}

// collectLights sums ambient lights and picks the first directional light.
func collectLights(ls []scene.Light) lights {
	out := lights{direction: mgl32.Vec3{0, 1, 0}}
	found := false
	for _, l := range ls {
		switch l.Kind {
		case scene.LightAmbient:
			out.ambient = out.ambient.Add(l.Color.Mul(l.Intensity))
		case scene.LightDirectional:
			if found || l.Position.Len() == 0 {
				continue
			}
			found = true
			out.direction = l.Position.Normalize()
			out.directional = l.Color.Mul(l.Intensity)
		}
	}
	return out
}
