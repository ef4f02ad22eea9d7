package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"github.com/petrijr/dagrun/pkg/api"
)

// AreaInput is the part of the workflow input the area job reads.
type AreaInput struct {
	Regions []Region `json:"regions"`
}

// RegionArea is the computed area of one region.
type RegionArea struct {
	Name string  `json:"name"`
	Area float64 `json:"area"`
}

// AreaOutput lists per-region areas and their total.
type AreaOutput struct {
	Areas []RegionArea `json:"areas"`
	Total float64      `json:"total"`
}

// AreaJob computes the area of every region polygon in the workflow input
// using the shoelace formula.
type AreaJob struct{}

var _ api.Job = AreaJob{}

func (AreaJob) Execute(ctx context.Context, task *api.Task, ec *api.ExecutionContext) (any, error) {
	var in AreaInput
	if err := json.Unmarshal(ec.WorkflowInput, &in); err != nil {
		return nil, fmt.Errorf("area: bad input: %w", err)
	}
	if len(in.Regions) == 0 {
		return nil, fmt.Errorf("area: no regions in input")
	}

	out := AreaOutput{Areas: make([]RegionArea, 0, len(in.Regions))}
	for _, region := range in.Regions {
		if len(region.Polygon) < 3 {
			return nil, fmt.Errorf("area: region %q has fewer than 3 vertices", region.Name)
		}
		a := polygonArea(region.Polygon)
		out.Areas = append(out.Areas, RegionArea{Name: region.Name, Area: a})
		out.Total += a
	}

	return out, nil
}

func polygonArea(polygon []Point) float64 {
	var sum float64
	n := len(polygon)
	for i := 0; i < n; i++ {
		a := polygon[i]
		b := polygon[(i+1)%n]
		sum += a[0]*b[1] - b[0]*a[1]
	}
	return math.Abs(sum) / 2
}
