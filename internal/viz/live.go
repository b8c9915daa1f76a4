package viz

import (
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss"
	"github.com/fsnotify/fsnotify"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/jumpsim/internal/dynamo"
)

const (
	canvasWidth     = 70
	canvasHeight    = 22
	historyCapacity = 900
	frameRate       = 60
)

// Snapshot stores one instant for time travel.
type Snapshot struct {
	State    dynamo.State
	Time     float64
	Energies dynamo.Partition
}

type TickMsg time.Time

type reloadMsg struct{}

type watchErrMsg struct{ err error }

// Rebuild produces a fresh system, controller and initial state, used
// when the watched config file changes on disk.
type Rebuild func() (dynamo.System, dynamo.Controller, dynamo.State, error)

// smoothed is one harmonica-driven bar value chasing its target.
type smoothed struct {
	pos, vel float64
}

// Live is the Bubble Tea model for a running jump simulation.
type Live struct {
	dyn        dynamo.System
	integrator dynamo.Integrator
	controller dynamo.Controller
	state      dynamo.State
	u          dynamo.Control
	t, dt      float64

	scene  *Scene
	canvas *Canvas

	budget  float64 // initial mechanical energy, normalizes the bars
	bars    [4]progress.Model
	spring  harmonica.Spring
	smooth  [4]smoothed
	history []Snapshot

	energyHistory []float64
	playHead      int
	running       bool
	showHelp      bool

	params        map[string]float64
	initialParams map[string]float64
	paramKeys     []string
	selected      int
	initialState  dynamo.State

	recording bool
	frames    []*image.Paletted

	watcher    *fsnotify.Watcher
	rebuild    Rebuild
	reloadNote string

	// OnStep, when set, observes every live integration step. Used to
	// feed the sonifier.
	OnStep func(state dynamo.State, t float64)

	title string
}

// NewLive sets up a live view. The scene fixes the vertical scale; the
// simulation starts running immediately.
func NewLive(dyn dynamo.System, integ dynamo.Integrator, ctrl dynamo.Controller, x0 dynamo.State, dt float64, scene *Scene, title string) *Live {
	params := make(map[string]float64)
	if t, ok := dyn.(dynamo.Configurable); ok {
		for k, v := range t.GetParams() {
			params[k] = v
		}
	}
	keys := make([]string, 0, len(params))
	initialParams := make(map[string]float64, len(params))
	for k, v := range params {
		keys = append(keys, k)
		initialParams[k] = v
	}
	sort.Strings(keys)

	budget := 0.0
	if h, ok := dyn.(dynamo.Hamiltonian); ok {
		budget = h.Energy(x0)
	}

	l := &Live{
		dyn:           dyn,
		integrator:    integ,
		controller:    ctrl,
		state:         x0.Clone(),
		u:             make(dynamo.Control, dyn.ControlDim()),
		dt:            dt,
		scene:         scene,
		canvas:        NewCanvas(canvasWidth, canvasHeight),
		budget:        budget,
		spring:        harmonica.NewSpring(harmonica.FPS(frameRate), 8.0, 0.9),
		history:       make([]Snapshot, 0, historyCapacity),
		energyHistory: make([]float64, 0, historyCapacity),
		playHead:      -1,
		running:       true,
		params:        params,
		initialParams: initialParams,
		paramKeys:     keys,
		initialState:  x0.Clone(),
		title:         title,
	}

	for i := range l.bars {
		l.bars[i] = progress.New(
			progress.WithDefaultGradient(),
			progress.WithoutPercentage(),
			progress.WithWidth(24),
		)
	}

	return l
}

// WatchConfig reloads the simulation through rebuild whenever the file
// at path changes. Errors here are not fatal: the view keeps running on
// the old settings.
func (l *Live) WatchConfig(path string, rebuild Rebuild) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := w.Add(path); err != nil {
		w.Close()
		return err
	}
	l.watcher = w
	l.rebuild = rebuild
	return nil
}

func (l *Live) Close() {
	if l.watcher != nil {
		l.watcher.Close()
	}
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (l *Live) waitForChange() tea.Cmd {
	w := l.watcher
	return func() tea.Msg {
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return nil
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create) != 0 {
					return reloadMsg{}
				}
			case err, ok := <-w.Errors:
				if !ok {
					return nil
				}
				return watchErrMsg{err}
			}
		}
	}
}

func (l *Live) Init() tea.Cmd {
	cmds := []tea.Cmd{tick()}
	if l.watcher != nil {
		cmds = append(cmds, l.waitForChange())
	}
	return tea.Batch(cmds...)
}

func (l *Live) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			l.Close()
			return l, tea.Quit
		case " ":
			l.running = !l.running
		case "r":
			l.reset()
		case "[":
			l.scrub(-1)
		case "]":
			l.scrub(1)
		case "tab":
			l.cycleParam()
		case "up", "k":
			l.adjustParam(1.05)
		case "down", "j":
			l.adjustParam(0.95)
		case "g":
			if l.recording {
				l.saveGIF()
				l.recording = false
				l.frames = nil
			} else {
				l.recording = true
				l.frames = make([]*image.Paletted, 0)
			}
		case "t":
			names := ThemeNames()
			for i, name := range names {
				if name == CurrentTheme.Name {
					SetTheme(names[(i+1)%len(names)])
					break
				}
			}
		case "?":
			l.showHelp = !l.showHelp
		}

	case TickMsg:
		if l.running {
			if l.playHead == -1 {
				l.step()
			} else {
				l.playHead++
				if l.playHead >= len(l.history) {
					l.playHead = -1
				}
			}
		}
		l.settleBars()
		l.draw()
		if l.recording {
			l.captureFrame()
		}
		return l, tick()

	case reloadMsg:
		l.reload()
		return l, l.waitForChange()

	case watchErrMsg:
		l.reloadNote = fmt.Sprintf("watch error: %v", msg.err)
		return l, l.waitForChange()
	}

	return l, nil
}

func (l *Live) reload() {
	if l.rebuild == nil {
		return
	}
	dyn, ctrl, x0, err := l.rebuild()
	if err != nil {
		l.reloadNote = fmt.Sprintf("reload failed: %v", err)
		return
	}

	l.dyn = dyn
	l.controller = ctrl
	l.state = x0.Clone()
	l.initialState = x0.Clone()
	l.u = make(dynamo.Control, dyn.ControlDim())
	l.t = 0
	l.history = l.history[:0]
	l.energyHistory = l.energyHistory[:0]
	l.playHead = -1
	l.scene.Reset()

	l.params = make(map[string]float64)
	if t, ok := dyn.(dynamo.Configurable); ok {
		for k, v := range t.GetParams() {
			l.params[k] = v
		}
	}
	l.paramKeys = l.paramKeys[:0]
	l.initialParams = make(map[string]float64, len(l.params))
	for k, v := range l.params {
		l.paramKeys = append(l.paramKeys, k)
		l.initialParams[k] = v
	}
	sort.Strings(l.paramKeys)
	l.selected = 0

	if h, ok := dyn.(dynamo.Hamiltonian); ok {
		l.budget = h.Energy(l.state)
	}
	l.reloadNote = "config reloaded"
}

func (l *Live) cycleParam() {
	if len(l.paramKeys) == 0 {
		return
	}
	l.selected = (l.selected + 1) % len(l.paramKeys)
}

func (l *Live) adjustParam(factor float64) {
	if len(l.paramKeys) == 0 {
		return
	}
	key := l.paramKeys[l.selected]
	newVal := l.params[key] * factor
	if t, ok := l.dyn.(dynamo.Configurable); ok {
		if err := t.SetParam(key, newVal); err != nil {
			return
		}
		l.params[key] = newVal
	}
}

func (l *Live) step() {
	if l.controller != nil {
		l.u = l.controller.Compute(l.state, l.t)
	}
	l.state = l.integrator.Step(l.dyn, l.state, l.u, l.t, l.dt)
	l.t += l.dt

	if l.OnStep != nil {
		l.OnStep(l.state, l.t)
	}

	var part dynamo.Partition
	if p, ok := l.dyn.(dynamo.Partitioned); ok {
		part = p.Energies(l.state)
	}

	l.energyHistory = append(l.energyHistory, part.Mechanical())
	if len(l.energyHistory) > historyCapacity {
		l.energyHistory = l.energyHistory[1:]
	}

	l.history = append(l.history, Snapshot{State: l.state.Clone(), Time: l.t, Energies: part})
	if len(l.history) > historyCapacity {
		l.history = l.history[1:]
	}
}

// settleBars moves the displayed bar values toward the current energy
// split on a critically damped spring, so the bars glide rather than
// jitter at contact transitions.
func (l *Live) settleBars() {
	part := l.currentPartition()
	if l.budget <= 0 {
		return
	}

	targets := [4]float64{
		part.Mechanical() / l.budget,
		part.Kinetic / l.budget,
		part.Gravitational / l.budget,
		part.Elastic / l.budget,
	}
	for i := range l.smooth {
		target := targets[i]
		if target > 1 {
			target = 1
		}
		l.smooth[i].pos, l.smooth[i].vel = l.spring.Update(l.smooth[i].pos, l.smooth[i].vel, target)
	}
}

func (l *Live) currentPartition() dynamo.Partition {
	if l.playHead >= 0 && l.playHead < len(l.history) {
		return l.history[l.playHead].Energies
	}
	if p, ok := l.dyn.(dynamo.Partitioned); ok {
		return p.Energies(l.state)
	}
	return dynamo.Partition{}
}

func (l *Live) currentState() (dynamo.State, float64) {
	if l.playHead >= 0 && l.playHead < len(l.history) {
		snap := l.history[l.playHead]
		return snap.State, snap.Time
	}
	return l.state, l.t
}

func (l *Live) scrub(dir int) {
	if l.playHead == -1 {
		if len(l.history) == 0 {
			return
		}
		l.playHead = len(l.history) - 1
		l.running = false
	}
	l.playHead += dir
	if l.playHead < 0 {
		l.playHead = 0
	}
	if l.playHead >= len(l.history) {
		l.playHead = -1
	}
}

func (l *Live) reset() {
	l.t = 0
	l.state = l.initialState.Clone()
	l.u = make(dynamo.Control, l.dyn.ControlDim())
	l.energyHistory = l.energyHistory[:0]
	l.history = l.history[:0]
	l.playHead = -1
	l.scene.Reset()
	l.reloadNote = ""
	for k, v := range l.initialParams {
		if t, ok := l.dyn.(dynamo.Configurable); ok {
			if err := t.SetParam(k, v); err == nil {
				l.params[k] = v
			}
		}
	}
}

func (l *Live) draw() {
	state, _ := l.currentState()
	if len(state) > 0 {
		l.scene.Draw(l.canvas, state[0])
	}
}

func (l *Live) View() string {
	state, t := l.currentState()
	l.draw()

	part := l.currentPartition()

	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(l.title)) + "\n")

	status := "RUNNING"
	if l.playHead != -1 {
		status = fmt.Sprintf("REPLAY (t=%.2fs)", t)
	} else if !l.running {
		status = "PAUSED"
	}
	if l.recording {
		status += "  " + recordingStyle.Render("● REC")
	}
	s.WriteString(status + "\n\n")

	height, velocity := 0.0, 0.0
	if len(state) > 0 {
		height = state[0]
	}
	if len(state) > 1 {
		velocity = state[1]
	}

	s.WriteString(labelStyle.Render("Time") + valueStyle.Render(fmt.Sprintf("%.2f s", t)) + "\n")
	s.WriteString(labelStyle.Render("Height") + valueStyle.Render(fmt.Sprintf("%.3f m", height)) + "\n")
	s.WriteString(labelStyle.Render("Velocity") + valueStyle.Render(fmt.Sprintf("%+.3f m/s", velocity)) + "\n")
	if len(l.u) > 0 && l.u[0] != 0 {
		s.WriteString(labelStyle.Render("Push") + valueStyle.Render(fmt.Sprintf("%.0f N", l.u[0])) + "\n")
	}
	s.WriteString("\n")

	s.WriteString("ENERGY\n")
	stores := []struct {
		label string
		value float64
		bar   int
	}{
		{"Mechanical", part.Mechanical(), 0},
		{"Kinetic", part.Kinetic, 1},
		{"Potential", part.Gravitational, 2},
		{"Elastic", part.Elastic, 3},
	}
	for _, st := range stores {
		s.WriteString(labelStyle.Render(st.label) +
			l.bars[st.bar].ViewAs(l.smooth[st.bar].pos) +
			valueStyle.Render(fmt.Sprintf(" %7.1f J", st.value)) + "\n")
	}

	if len(l.energyHistory) > 1 {
		chart := asciigraph.Plot(l.energyHistory,
			asciigraph.Height(4),
			asciigraph.Width(34),
			asciigraph.Caption("mechanical energy"),
		)
		s.WriteString(graphStyle.Render(chart) + "\n")
	}

	if len(l.paramKeys) > 0 {
		s.WriteString("\nPARAMETERS\n")
		for i, k := range l.paramKeys {
			line := fmt.Sprintf("%-12s %10.3f", k, l.params[k])
			if i == l.selected {
				s.WriteString(activeParamStyle.Render("> "+line) + "\n")
			} else {
				s.WriteString("  " + labelStyle.Render(line) + "\n")
			}
		}
	}

	if l.reloadNote != "" {
		s.WriteString("\n" + helpStyle.Render(l.reloadNote) + "\n")
	}

	s.WriteString(helpStyle.Render("\nSP:pause R:reset Q:quit T:theme G:record\n[ ]:time-travel Tab/↑↓:tune ?:help"))

	statsView := statsStyle.Render(s.String())
	canvasView := canvasStyle.Render(l.canvas.String())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)

	if l.showHelp {
		return helpOverlay + "\n\n" + mainView
	}
	return mainView
}

const helpOverlay = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume             ║
║  R        - Reset simulation         ║
║  Q        - Quit                     ║
║  Tab      - Cycle parameters         ║
║  Up/K     - Increase parameter (+5%) ║
║  Down/J   - Decrease parameter (-5%) ║
║  [        - Rewind (time travel)     ║
║  ]        - Forward (time travel)    ║
║  G        - Toggle GIF recording     ║
║  T        - Cycle themes             ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝`

func (l *Live) captureFrame() {
	charW, charH := 8, 16
	imgW, imgH := l.canvas.Width*charW, l.canvas.Height*charH
	img := image.NewPaletted(image.Rect(0, 0, imgW, imgH), color.Palette{color.Black, color.White})

	for row := 0; row < l.canvas.Height; row++ {
		for col := 0; col < l.canvas.Width; col++ {
			r := l.canvas.Grid[row][col]
			if r <= 0x2800 {
				continue
			}
			pattern := int(r - 0x2800)
			dotW, dotH := charW/2, charH/4
			baseX, baseY := col*charW, row*charH
			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&pixelMap[dy][dx] == 0 {
						continue
					}
					for py := 0; py < dotH; py++ {
						for px := 0; px < dotW; px++ {
							img.SetColorIndex(baseX+dx*dotW+px, baseY+dy*dotH+py, 1)
						}
					}
				}
			}
		}
	}
	l.frames = append(l.frames, img)
}

func (l *Live) saveGIF() {
	if len(l.frames) == 0 {
		return
	}
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range l.frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, 2)
	}
	f, err := os.Create("jump.gif")
	if err != nil {
		return
	}
	defer f.Close()
	gif.EncodeAll(f, &anim)
}
