package main

import (
	"context"
	"fmt"
	"log"
	"reflect"
	"runtime"
	"strings"
	"unsafe"

	"github.com/go-gl/gl/v4.6-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/stewi1014/glmandel/programs"
	"github.com/stewi1014/glmandel/view"
)

// The full-screen quad. Two triangles spanning clip space; the
// fragment shader does the rest.
var (
	quadVertices = []float32{
		-1, -1,
		-1, 1,
		1, 1,
		1, -1,
	}
	quadIndices = []uint32{0, 1, 2, 0, 2, 3}
)

func NewRenderWindow(ctx context.Context, quit func(error)) (*RenderWindow, error) {
	w := &RenderWindow{
		ctx:  ctx,
		quit: quit,
		view: view.NewState(),
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 6)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Samples, 4)
	glfw.WindowHint(glfw.SRGBCapable, glfw.True)

	var err error
	w.Window, err = glfw.CreateWindow(getWindowSize())
	if err != nil {
		return nil, fmt.Errorf("glfw.CreateWindow failed: %w", err)
	}

	w.MakeContextCurrent()
	glfw.SwapInterval(1)

	err = gl.Init()
	if err != nil {
		return nil, fmt.Errorf("gl.Init failed: %w", err)
	}
	log.Println("OpenGL version", gl.GoStr(gl.GetString(gl.VERSION)))

	gl.DebugMessageCallback(glDebugMessage, nil)
	if debug {
		gl.Enable(gl.DEBUG_OUTPUT)
	}

	gl.GenVertexArrays(1, &w.vao)
	gl.BindVertexArray(w.vao)

	gl.GenBuffers(1, &w.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, w.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(quadVertices)*4, gl.Ptr(quadVertices), gl.STATIC_DRAW)

	gl.GenBuffers(1, &w.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, w.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(quadIndices)*4, gl.Ptr(quadIndices), gl.STATIC_DRAW)

	w.uniforms.DefaultValues()
	err = w.loadProgram(programs.GetProgram(0))
	if err != nil {
		return nil, err
	}

	gl.ClearColor(0.2, 0.2, 0.2, 1)
	gl.Enable(gl.MULTISAMPLE)
	gl.Enable(gl.FRAMEBUFFER_SRGB)

	w.width, w.height = w.GetFramebufferSize()
	// Assume the viewport is dirty on the first frame.
	w.dirty = true

	w.SetKeyCallback(w.keyCallback)
	w.SetScrollCallback(w.scrollCallback)
	w.SetMouseButtonCallback(w.mouseButtonCallback)
	w.SetFramebufferSizeCallback(w.framebufferSizeCallback)

	return w, nil
}

func getWindowSize() (width, height int, title string, monitor *glfw.Monitor, share *glfw.Window) {
	width = 1200
	height = 800
	title = "Mandelbrot"

	primary := glfw.GetPrimaryMonitor()
	if primary == nil {
		return
	}

	mode := primary.GetVideoMode()
	if mode == nil {
		return
	}

	width = int(float32(mode.Width) * .6)
	height = int(float32(mode.Height) * .6)
	return
}

type RenderWindow struct {
	*glfw.Window

	ctx  context.Context
	quit func(error)

	view         *view.State
	uniforms     programs.Uniforms
	programIndex int

	width  int
	height int
	dirty  bool

	vao     uint32
	vbo     uint32
	ebo     uint32
	program uint32

	vertexAttrib     uint32
	uniformLocations map[string]int32
}

// Run drives the frame loop until the escape key, a window-system
// close request, or context cancellation. Events are fully drained
// before the view state advances, so every frame reflects all input
// received since the previous one.
func (w *RenderWindow) Run() {
	last := glfw.GetTime()

	for !w.ShouldClose() && w.ctx.Err() == nil {
		glfw.PollEvents()
		if w.view.Escape() {
			break
		}

		now := glfw.GetTime()
		snap := w.view.Advance(now - last)
		last = now

		w.uniforms.Zoom = snap.Zoom
		w.uniforms.Pos = mgl64.Vec2{snap.OffsetX, snap.OffsetY}

		if w.dirty {
			w.width, w.height = w.GetFramebufferSize()
			gl.Viewport(0, 0, int32(w.width), int32(w.height))
			w.uniforms.Width = uint32(w.width)
			w.uniforms.Height = uint32(w.height)
			w.dirty = false
		}

		gl.Clear(gl.COLOR_BUFFER_BIT)
		gl.UseProgram(w.program)
		w.loadUniforms()
		gl.BindVertexArray(w.vao)
		gl.DrawElementsWithOffset(gl.TRIANGLES, int32(len(quadIndices)), gl.UNSIGNED_INT, 0)

		w.SwapBuffers()
	}

	gl.DeleteBuffers(1, &w.ebo)
	gl.DeleteBuffers(1, &w.vbo)
	gl.DeleteVertexArrays(1, &w.vao)
	gl.DeleteProgram(w.program)
}

func (w *RenderWindow) keyCallback(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
	var pressed bool
	switch action {
	case glfw.Press:
		pressed = true
	case glfw.Release:
		pressed = false
	default:
		// Held flags track physical transitions; repeats would lie.
		return
	}

	if pressed && key >= glfw.Key1 && int(key-glfw.Key1) < programs.NumPrograms() {
		w.selectProgram(int(key - glfw.Key1))
		return
	}
	if pressed && key == glfw.KeyF12 {
		w.saveImage()
		return
	}

	w.view.ApplyKey(mapKey(key), pressed)
}

// mapKey translates physical keys to view keys. Each direction has a
// WASD alias and an arrow-key alias.
func mapKey(key glfw.Key) view.Key {
	switch key {
	case glfw.KeyW, glfw.KeyUp:
		return view.KeyUp
	case glfw.KeyS, glfw.KeyDown:
		return view.KeyDown
	case glfw.KeyA, glfw.KeyLeft:
		return view.KeyLeft
	case glfw.KeyD, glfw.KeyRight:
		return view.KeyRight
	case glfw.KeyEscape:
		return view.KeyEscape
	default:
		return view.KeyNone
	}
}

func (w *RenderWindow) scrollCallback(_ *glfw.Window, _, yoff float64) {
	w.view.ApplyWheel(scrollDelta(yoff))
}

// scrollDelta reduces a wheel offset to its sign; scroll magnitude is
// deliberately ignored.
func scrollDelta(yoff float64) int {
	switch {
	case yoff > 0:
		return 1
	case yoff < 0:
		return -1
	default:
		return 0
	}
}

func (w *RenderWindow) mouseButtonCallback(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
	if button == glfw.MouseButtonMiddle && action == glfw.Release {
		w.view.Reset()
	}
}

func (w *RenderWindow) framebufferSizeCallback(_ *glfw.Window, _, _ int) {
	w.dirty = true
}

func (w *RenderWindow) selectProgram(i int) {
	if i == w.programIndex {
		return
	}
	err := w.loadProgram(programs.GetProgram(i))
	if err != nil {
		log.Println(err)
		return
	}
	w.programIndex = i
	log.Println("program:", programs.GetProgram(i).Name)
}

func (w *RenderWindow) saveImage() {
	program := programs.GetProgram(w.programIndex)
	uniforms := w.uniforms

	opts := SaveOptions{
		Name:        imageName(program.Name),
		Width:       w.width,
		Height:      w.height,
		Supersample: 3,
	}

	go func() {
		defer CatchPanicToContext(w.quit)

		err := save(w.ctx, opts, program, uniforms)
		if err != nil {
			log.Println("image export failed:", err)
			return
		}
		log.Println("saved", opts.Name)
	}()
}

func (w *RenderWindow) loadUniforms() {
	v := reflect.ValueOf(&w.uniforms).Elem()
	for i := 0; i < v.NumField(); i++ {
		f := v.Field(i)

		ptr := f.Addr().UnsafePointer()
		loc := w.uniformLocations[v.Type().Field(i).Tag.Get("uniform")]

		count := int32(1)

	SwitchElem:
		switch f.Type() {
		case reflect.TypeOf(mgl32.Vec2{}):
			gl.Uniform2fv(loc, count, (*float32)(ptr))
			continue
		case reflect.TypeOf(mgl32.Vec3{}):
			gl.Uniform3fv(loc, count, (*float32)(ptr))
			continue
		case reflect.TypeOf(mgl64.Vec2{}):
			gl.Uniform2dv(loc, count, (*float64)(ptr))
			continue
		case reflect.TypeOf(int32(0)):
			gl.Uniform1iv(loc, count, (*int32)(ptr))
			continue
		case reflect.TypeOf(uint32(0)):
			gl.Uniform1uiv(loc, count, (*uint32)(ptr))
			continue
		case reflect.TypeOf(float32(0)):
			gl.Uniform1fv(loc, count, (*float32)(ptr))
			continue
		case reflect.TypeOf(float64(0)):
			gl.Uniform1dv(loc, count, (*float64)(ptr))
			continue
		}

		if f.Kind() == reflect.Array {
			count = int32(f.Len())
			f = f.Index(0)
			goto SwitchElem
		}

		log.Printf("unsupported uniform type %v", f.Type())
	}
}

func (w *RenderWindow) loadProgram(program programs.Program) error {
	vertexShader, err := compileShader(program.VertexShader+"\x00", gl.VERTEX_SHADER)
	if err != nil {
		return err
	}
	defer gl.DeleteShader(vertexShader)

	fragmentShader, err := compileShader(program.FragmentShader+"\x00", gl.FRAGMENT_SHADER)
	if err != nil {
		return err
	}
	defer gl.DeleteShader(fragmentShader)

	handle := gl.CreateProgram()
	gl.AttachShader(handle, vertexShader)
	gl.AttachShader(handle, fragmentShader)
	gl.LinkProgram(handle)

	var status int32
	gl.GetProgramiv(handle, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var l int32
		gl.GetProgramiv(handle, gl.INFO_LOG_LENGTH, &l)

		infoLog := strings.Repeat("\x00", int(l+1))
		gl.GetProgramInfoLog(handle, l, nil, gl.Str(infoLog))
		gl.DeleteProgram(handle)
		return fmt.Errorf("failed to link program %v: %v", program.Name, infoLog)
	}

	if w.program != 0 {
		gl.DeleteProgram(w.program)
	}
	w.program = handle
	gl.UseProgram(w.program)

	w.uniformLocations = make(map[string]int32)
	t := reflect.TypeOf(w.uniforms)
	for i := 0; i < t.NumField(); i++ {
		name := strings.ToLower(t.Field(i).Tag.Get("uniform"))
		w.uniformLocations[name] = gl.GetUniformLocation(w.program, gl.Str(name+"\x00"))
	}

	gl.BindFragDataLocation(w.program, 0, gl.Str("outputColor\x00"))

	w.vertexAttrib = uint32(gl.GetAttribLocation(w.program, gl.Str("vert\x00")))
	gl.EnableVertexAttribArray(w.vertexAttrib)
	gl.VertexAttribPointerWithOffset(w.vertexAttrib, 2, gl.FLOAT, false, 2*4, 0)

	return nil
}

func compileShader(source string, shaderType uint32) (uint32, error) {
	defer runtime.KeepAlive(source)
	cstring, free := gl.Strs(source)
	defer free()

	shader := gl.CreateShader(shaderType)
	gl.ShaderSource(shader, 1, cstring, nil)
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var l int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &l)

		infoLog := strings.Repeat("\x00", int(l+1))
		gl.GetShaderInfoLog(shader, l, nil, gl.Str(infoLog))
		return 0, fmt.Errorf("shader\n\"\n%v\n\"\nfailed to compile: %v", source, infoLog)
	}

	return shader, nil
}

func glDebugMessage(
	source,
	gltype,
	id,
	severity uint32,
	length int32,
	message string,
	user unsafe.Pointer,
) {
	severityStr := "unknown"
	switch severity {
	case gl.DEBUG_SEVERITY_HIGH:
		severityStr = "high"
	case gl.DEBUG_SEVERITY_MEDIUM:
		severityStr = "medium"
	case gl.DEBUG_SEVERITY_LOW:
		severityStr = "low"
	}

	sourceStr := "unknownSource"
	switch source {
	case gl.DEBUG_SOURCE_API:
		sourceStr = "api"
	case gl.DEBUG_SOURCE_APPLICATION:
		sourceStr = "application"
	case gl.DEBUG_SOURCE_OTHER:
		sourceStr = "other"
	case gl.DEBUG_SOURCE_SHADER_COMPILER:
		sourceStr = "shaderCompiler"
	case gl.DEBUG_SOURCE_THIRD_PARTY:
		sourceStr = "thirdParty"
	case gl.DEBUG_SOURCE_WINDOW_SYSTEM:
		sourceStr = "windowSystem"
	}

	typeStr := "unknownType"
	switch gltype {
	case gl.DEBUG_TYPE_ERROR:
		typeStr = "error"
	case gl.DEBUG_TYPE_DEPRECATED_BEHAVIOR:
		typeStr = "deprecatedBehavior"
	case gl.DEBUG_TYPE_MARKER:
		typeStr = "marker"
	case gl.DEBUG_TYPE_OTHER:
		typeStr = "other"
	case gl.DEBUG_TYPE_PERFORMANCE:
		typeStr = "performance"
	case gl.DEBUG_TYPE_POP_GROUP:
		typeStr = "popGroup"
	case gl.DEBUG_TYPE_PORTABILITY:
		typeStr = "portability"
	case gl.DEBUG_TYPE_PUSH_GROUP:
		typeStr = "pushGroup"
	case gl.DEBUG_TYPE_UNDEFINED_BEHAVIOR:
		typeStr = "undefinedBehavior"
	}

	log.Printf("%v(%v): %v; %v\n", sourceStr, severityStr, typeStr, message)
}
