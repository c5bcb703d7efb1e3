package systems

import (
	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/reach/components"
)

// Marker lifetimes relative to the trail lifetime.
const (
	goalLifeScale     = 2.0
	waypointLifeScale = 1.5
)

// TrailSystem keeps fading scene markers in an ECS world: a breadcrumb trail
// of end-effector positions plus goal and waypoint markers.
type TrailSystem struct {
	world  *ecs.World
	mapper *ecs.Map2[components.Position, components.Marker]
	filter *ecs.Filter2[components.Position, components.Marker]

	maxMarkers int
	lifetime   float32
	count      int
}

// NewTrailSystem creates a trail system on world. maxMarkers caps the number
// of trail markers; lifetime is how long a trail marker lasts in seconds.
func NewTrailSystem(world *ecs.World, maxMarkers int, lifetime float32) *TrailSystem {
	return &TrailSystem{
		world:      world,
		mapper:     ecs.NewMap2[components.Position, components.Marker](world),
		filter:     ecs.NewFilter2[components.Position, components.Marker](world),
		maxMarkers: maxMarkers,
		lifetime:   lifetime,
	}
}

// Emit adds a marker at p and returns its entity. Trail markers are dropped
// once the cap is reached, returning the zero entity; goal and waypoint
// markers are always added.
func (s *TrailSystem) Emit(kind components.MarkerKind, p r2.Vec) ecs.Entity {
	life := s.lifetime
	switch kind {
	case components.MarkerTrail:
		if s.count >= s.maxMarkers {
			return ecs.Entity{}
		}
		s.count++
	case components.MarkerGoal:
		life *= goalLifeScale
	case components.MarkerWaypoint:
		life *= waypointLifeScale
	}

	pos := components.Position{X: p.X, Y: p.Y}
	marker := components.Marker{Kind: kind, Life: life, MaxLife: life}
	return s.mapper.NewEntity(&pos, &marker)
}

// Update ages every marker by dt seconds and removes expired ones.
func (s *TrailSystem) Update(dt float32) {
	var expired []expiredMarker

	query := s.filter.Query()
	for query.Next() {
		_, marker := query.Get()
		marker.Life -= dt
		if marker.Life <= 0 {
			expired = append(expired, expiredMarker{query.Entity(), marker.Kind})
		}
	}

	// Second pass: remove entities (query iteration complete)
	s.remove(expired)
}

// Clear removes every marker.
func (s *TrailSystem) Clear() {
	var all []expiredMarker
	query := s.filter.Query()
	for query.Next() {
		_, marker := query.Get()
		all = append(all, expiredMarker{query.Entity(), marker.Kind})
	}
	s.remove(all)
}

// Each calls fn for every live marker.
func (s *TrailSystem) Each(fn func(p r2.Vec, m components.Marker)) {
	query := s.filter.Query()
	for query.Next() {
		pos, marker := query.Get()
		fn(r2.Vec{X: pos.X, Y: pos.Y}, *marker)
	}
}

// TrailCount returns the number of live trail markers.
func (s *TrailSystem) TrailCount() int {
	return s.count
}

type expiredMarker struct {
	entity ecs.Entity
	kind   components.MarkerKind
}

func (s *TrailSystem) remove(markers []expiredMarker) {
	for _, m := range markers {
		if m.kind == components.MarkerTrail {
			s.count--
		}
		s.world.RemoveEntity(m.entity)
	}
}
