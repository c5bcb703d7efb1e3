// Package traceplot renders solver runs to image files without a window.
package traceplot

import (
	"fmt"
	"image/color"
	"io"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/pthm-cable/reach/kinematics"
)

// Bounds is the world rectangle shown on the plot.
type Bounds struct {
	XMin, XMax, YMin, YMax float64
}

// Recorder collects an end-effector trace, goals and sampled chain poses. It
// implements kinematics.Observer.
type Recorder struct {
	// PoseEvery keeps one chain pose per this many iterations; 0 keeps only
	// poses passed to AddPose.
	PoseEvery int

	trace []r2.Vec
	goals []r2.Vec
	poses [][]r2.Vec
	seen  int
}

// NewRecorder creates a recorder that samples a pose every poseEvery iterations.
func NewRecorder(poseEvery int) *Recorder {
	return &Recorder{PoseEvery: poseEvery}
}

// ObserveIteration appends the end effector to the trace.
func (r *Recorder) ObserveIteration(it kinematics.Iteration) {
	r.seen++
	r.trace = append(r.trace, it.EndEffector)
	if len(r.goals) == 0 || r.goals[len(r.goals)-1] != it.Goal {
		r.goals = append(r.goals, it.Goal)
	}
	if r.PoseEvery > 0 && r.seen%r.PoseEvery == 0 {
		r.AddPose(it.Positions)
	}
}

// AddPose keeps a copy of a chain pose.
func (r *Recorder) AddPose(positions []r2.Vec) {
	r.poses = append(r.poses, append([]r2.Vec(nil), positions...))
}

// Len returns the number of recorded iterations.
func (r *Recorder) Len() int {
	return len(r.trace)
}

// Plot builds the figure: faded poses, the end-effector trace, the goals and
// the last pose on top.
func (r *Recorder) Plot(title string, b Bounds) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"
	p.X.Min, p.X.Max = b.XMin, b.XMax
	p.Y.Min, p.Y.Max = b.YMin, b.YMax
	p.Add(plotter.NewGrid())

	for i, pose := range r.poses {
		l, err := plotter.NewLine(toXYs(pose))
		if err != nil {
			return nil, fmt.Errorf("pose %d: %w", i, err)
		}
		l.LineStyle.Width = vg.Points(0.5)
		l.LineStyle.Color = color.RGBA{R: 70, G: 80, B: 95, A: 60}
		p.Add(l)
	}

	if len(r.trace) > 0 {
		trace, err := plotter.NewLine(toXYs(r.trace))
		if err != nil {
			return nil, fmt.Errorf("trace: %w", err)
		}
		trace.LineStyle.Width = vg.Points(1)
		trace.LineStyle.Color = color.RGBA{R: 255, G: 150, B: 50, A: 255}
		p.Add(trace)
		p.Legend.Add("end effector", trace)
	}

	if len(r.goals) > 0 {
		goals, err := plotter.NewScatter(toXYs(r.goals))
		if err != nil {
			return nil, fmt.Errorf("goals: %w", err)
		}
		goals.GlyphStyle.Shape = draw.CrossGlyph{}
		goals.GlyphStyle.Radius = vg.Points(3)
		goals.GlyphStyle.Color = color.RGBA{R: 40, G: 160, B: 90, A: 255}
		p.Add(goals)
		p.Legend.Add("goals", goals)
	}

	if n := len(r.poses); n > 0 {
		last := toXYs(r.poses[n-1])
		l, s, err := plotter.NewLinePoints(last)
		if err != nil {
			return nil, fmt.Errorf("final pose: %w", err)
		}
		l.LineStyle.Width = vg.Points(2)
		l.LineStyle.Color = color.RGBA{R: 70, G: 80, B: 95, A: 255}
		s.GlyphStyle.Shape = draw.CircleGlyph{}
		s.GlyphStyle.Radius = vg.Points(3)
		s.GlyphStyle.Color = color.RGBA{R: 230, G: 40, B: 40, A: 255}
		p.Add(l, s)
		p.Legend.Add("chain", l, s)
	}

	return p, nil
}

// Save writes the figure to file; the format follows the file extension.
func (r *Recorder) Save(file, title string, b Bounds) error {
	p, err := r.Plot(title, b)
	if err != nil {
		return err
	}
	if err := p.Save(6*vg.Inch, 6*vg.Inch, file); err != nil {
		return fmt.Errorf("saving plot: %w", err)
	}
	return nil
}

// Encode writes the figure to w in the given format ("png", "svg", ...).
func (r *Recorder) Encode(w io.Writer, format, title string, b Bounds) error {
	p, err := r.Plot(title, b)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(6*vg.Inch, 6*vg.Inch, format)
	if err != nil {
		return fmt.Errorf("encoding plot: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("writing plot: %w", err)
	}
	return nil
}

func toXYs(pts []r2.Vec) plotter.XYs {
	xys := make(plotter.XYs, len(pts))
	for i, p := range pts {
		xys[i].X = p.X
		xys[i].Y = p.Y
	}
	return xys
}
