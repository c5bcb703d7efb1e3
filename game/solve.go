package game

import (
	"context"
	"errors"
	"iter"
	"log/slog"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/reach/animate"
	"github.com/pthm-cable/reach/components"
	"github.com/pthm-cable/reach/kinematics"
	"github.com/pthm-cable/reach/path"
)

// solveTo replaces any pending work with a solve toward goal, routed through
// the planner waypoint when enabled.
func (g *Game) solveTo(goal r2.Vec) {
	g.cancelSolve()
	g.stopPath()
	g.targets = g.targets[:0]
	g.queue(goal)
	g.startNext()
}

// queue appends goal, preceded by its waypoint when the planner is on. The
// waypoint is taken from the end effector at queue time, so callers queue
// only while the chain is idle.
func (g *Game) queue(goal r2.Vec) {
	v := g.tuning.Values
	if v.UsePlanner {
		wp := kinematics.Waypoint(g.chain.EndEffector(), goal, v.Planner.VerticalOffset)
		g.targets = append(g.targets, wp)
		g.trail.Emit(components.MarkerWaypoint, wp)
	}
	g.targets = append(g.targets, goal)
	g.trail.Emit(components.MarkerGoal, goal)
}

// startNext starts a solve for the next target, pulling one from the path
// when following and the queue is empty.
func (g *Game) startNext() {
	if len(g.targets) == 0 && g.following {
		p, ok := g.pathNext()
		if !ok {
			slog.Info("path finished")
			g.stopPath()
			return
		}
		g.queue(p)
	}
	if len(g.targets) == 0 {
		return
	}

	goal := g.targets[0]
	g.targets = g.targets[1:]
	g.activeGoal = goal
	g.lastIteration = 0

	chain := g.chain
	cfg := g.tuning.Values.Solver
	g.animator.Start(g.ctx, func(ctx context.Context, obs kinematics.Observer) ([]kinematics.Result, error) {
		res, err := chain.Solve(ctx, goal, cfg, obs)
		return []kinematics.Result{res}, err
	})
}

// stepAnimation shows up to itersPerFrame published iterations and collects
// the solve once it finishes.
func (g *Game) stepAnimation() {
	for range g.itersPerFrame {
		it, ok := g.animator.Next()
		if !ok {
			break
		}
		g.showIteration(it)
	}

	if done, ok := g.animator.Poll(); ok {
		g.finishSolve(done)
		g.startNext()
	}
}

func (g *Game) showIteration(it kinematics.Iteration) {
	g.pose = it.Positions
	g.lastIteration = it.Index
	g.trail.Emit(components.MarkerTrail, it.EndEffector)
	g.collector.ObserveIteration(it)
	g.perf.AddIterations(1)
}

func (g *Game) finishSolve(done animate.Done) {
	if done.Err != nil && !errors.Is(done.Err, context.Canceled) {
		slog.Error("solve failed", "error", done.Err)
	}
	for _, res := range done.Results {
		g.solves++
		g.last = &res
		g.pose = g.chain.Positions()
		g.recordSolve(res)

		slog.Info("finished solving", "result", res)
		if res.Outcome != kinematics.Converged && res.Outcome != kinematics.Cancelled {
			slog.Warn("solve did not converge", "outcome", res.Outcome.String(), "error", res.Error)
		}
	}
}

// cancelSolve stops the running solve, if any, and shows the chain where the
// solver left it. Iterations of the cancelled solve are not recorded.
func (g *Game) cancelSolve() {
	if !g.animator.Running() {
		return
	}
	g.animator.Stop()
	g.collector.DrainIterations()
	g.pose = g.chain.Positions()
}

// togglePath starts or stops following the configured path shape.
func (g *Game) togglePath() {
	if g.following {
		g.cancelSolve()
		g.stopPath()
		g.targets = g.targets[:0]
		return
	}

	points, ok := path.Named(g.cfg.Derived.Path)
	if !ok {
		slog.Error("unknown path shape", "shape", g.cfg.Path.Shape)
		return
	}
	if g.cfg.Path.Loop {
		points = path.Repeat(points)
	}

	g.cancelSolve()
	g.targets = g.targets[:0]
	g.startPath(points)
	g.startNext()
}

func (g *Game) startPath(points iter.Seq[r2.Vec]) {
	g.stopPath()
	g.pathNext, g.pathStop = iter.Pull(points)
	g.following = true
	g.tuning.Following = true
	slog.Info("following path", "shape", g.cfg.Path.Shape, "loop", g.cfg.Path.Loop)
}

func (g *Game) stopPath() {
	if g.pathStop != nil {
		g.pathStop()
	}
	g.pathNext, g.pathStop = nil, nil
	g.following = false
	g.tuning.Following = false
}

// resetChain cancels all work and returns every rotator to its initial angle.
func (g *Game) resetChain() {
	g.cancelSolve()
	g.stopPath()
	g.targets = g.targets[:0]
	g.chain.ResetAll()
	g.pose = g.chain.Positions()
	g.activeGoal = g.chain.EndEffector()
	g.lastIteration = 0
	g.trail.Clear()
	slog.Info("chain reset")
}
