package jobs

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/petrijr/dagrun/pkg/api"
)

// Point is an (x, y) coordinate pair.
type Point [2]float64

// Region is a named polygon.
type Region struct {
	Name    string  `json:"name"`
	Polygon []Point `json:"polygon"`
}

// ContainmentInput is the part of the workflow input the containment job
// reads: a point and a set of candidate regions.
type ContainmentInput struct {
	Point   Point    `json:"point"`
	Regions []Region `json:"regions"`
}

// ContainmentOutput reports which region, if any, contains the point.
type ContainmentOutput struct {
	Contained bool   `json:"contained"`
	Region    string `json:"region,omitempty"`
}

// ContainmentJob classifies a point against a set of named polygonal
// regions from the workflow input. The first region containing the point
// wins; points on an edge count as contained.
type ContainmentJob struct{}

var _ api.Job = ContainmentJob{}

func (ContainmentJob) Execute(ctx context.Context, task *api.Task, ec *api.ExecutionContext) (any, error) {
	var in ContainmentInput
	if err := json.Unmarshal(ec.WorkflowInput, &in); err != nil {
		return nil, fmt.Errorf("containment: bad input: %w", err)
	}
	if len(in.Regions) == 0 {
		return nil, fmt.Errorf("containment: no regions in input")
	}

	for _, region := range in.Regions {
		if len(region.Polygon) < 3 {
			return nil, fmt.Errorf("containment: region %q has fewer than 3 vertices", region.Name)
		}
		if pointInPolygon(in.Point, region.Polygon) {
			return ContainmentOutput{Contained: true, Region: region.Name}, nil
		}
	}

	return ContainmentOutput{Contained: false}, nil
}

// pointInPolygon implements the even-odd ray casting rule with an explicit
// edge check so boundary points are treated as inside.
func pointInPolygon(p Point, polygon []Point) bool {
	inside := false
	n := len(polygon)

	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a, b := polygon[j], polygon[i]

		if onSegment(p, a, b) {
			return true
		}

		if (a[1] > p[1]) != (b[1] > p[1]) {
			x := a[0] + (p[1]-a[1])/(b[1]-a[1])*(b[0]-a[0])
			if p[0] < x {
				inside = !inside
			}
		}
	}

	return inside
}

func onSegment(p, a, b Point) bool {
	cross := (b[0]-a[0])*(p[1]-a[1]) - (b[1]-a[1])*(p[0]-a[0])
	if cross != 0 {
		return false
	}
	return min(a[0], b[0]) <= p[0] && p[0] <= max(a[0], b[0]) &&
		min(a[1], b[1]) <= p[1] && p[1] <= max(a[1], b[1])
}
