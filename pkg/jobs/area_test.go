package jobs

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petrijr/dagrun/pkg/api"
)

func runArea(t *testing.T, input string) (AreaOutput, error) {
	t.Helper()

	out, err := AreaJob{}.Execute(context.Background(), &api.Task{}, &api.ExecutionContext{
		WorkflowInput: json.RawMessage(input),
	})
	if err != nil {
		return AreaOutput{}, err
	}
	return out.(AreaOutput), nil
}

func TestAreaUnitSquare(t *testing.T) {
	out, err := runArea(t, `{"regions":[{"name":"sq","polygon":[[0,0],[1,0],[1,1],[0,1]]}]}`)
	require.NoError(t, err)
	require.Len(t, out.Areas, 1)
	assert.InDelta(t, 1.0, out.Areas[0].Area, 1e-9)
	assert.InDelta(t, 1.0, out.Total, 1e-9)
}

func TestAreaTriangle(t *testing.T) {
	out, err := runArea(t, `{"regions":[{"name":"tri","polygon":[[0,0],[4,0],[0,3]]}]}`)
	require.NoError(t, err)
	assert.InDelta(t, 6.0, out.Total, 1e-9)
}

func TestAreaWindingOrderDoesNotMatter(t *testing.T) {
	cw, err := runArea(t, `{"regions":[{"name":"sq","polygon":[[0,0],[0,1],[1,1],[1,0]]}]}`)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, cw.Total, 1e-9)
}

func TestAreaSumsMultipleRegions(t *testing.T) {
	out, err := runArea(t, `{"regions":[
		{"name":"a","polygon":[[0,0],[1,0],[1,1],[0,1]]},
		{"name":"b","polygon":[[0,0],[2,0],[2,2],[0,2]]}
	]}`)
	require.NoError(t, err)
	require.Len(t, out.Areas, 2)
	assert.InDelta(t, 5.0, out.Total, 1e-9)
}

func TestAreaRejectsDegeneratePolygon(t *testing.T) {
	_, err := runArea(t, `{"regions":[{"name":"line","polygon":[[0,0],[1,1]]}]}`)
	require.Error(t, err)
}

func TestAreaRejectsEmptyInput(t *testing.T) {
	_, err := runArea(t, `{}`)
	require.Error(t, err)
}
