package portal_test

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/brightacademy/core"
	"github.com/trezcool/brightacademy/portal"
	"github.com/trezcool/brightacademy/portal/listview"
	"github.com/trezcool/brightacademy/portal/query"
	"github.com/trezcool/brightacademy/portal/record"
)

func scores(n int) record.Entity {
	return record.Entity{"english": n, "chichewa": n, "math": n, "science": n, "socialStudies": n}
}

func TestGradeSchema_Columns(t *testing.T) {
	schema := portal.GradeSchema(5)
	hdr := listview.Render(schema, nil).Headers
	require.Equal(t, "Average", hdr[len(hdr)-2])
	require.Equal(t, "Grade", hdr[len(hdr)-1])

	tests := []struct {
		score  int
		letter string
	}{
		{80, "A"}, {79, "B"}, {70, "B"}, {69, "C"}, {60, "C"}, {59, "D"}, {50, "D"}, {49, "F"},
	}
	for _, tt := range tests {
		t.Run(strconv.Itoa(tt.score), func(t *testing.T) {
			e := scores(tt.score)
			e["id"] = 1
			row := listview.Render(schema, []record.Entity{e}).Rows[0]
			assert.Equal(t, strconv.Itoa(tt.score), row.Cells[len(row.Cells)-2])
			assert.Equal(t, tt.letter, row.Cells[len(row.Cells)-1])
		})
	}

	t.Run("average of mixed scores", func(t *testing.T) {
		e := record.Entity{"id": 1, "english": 75.0, "chichewa": 80.0, "math": 85.0, "science": 78.0, "socialStudies": 82.0}
		row := listview.Render(schema, []record.Entity{e}).Rows[0]
		assert.Equal(t, []string{"80", "A"}, row.Cells[len(row.Cells)-2:])
	})
}

func TestGradeView_DenormalizesStudent(t *testing.T) {
	ctx := context.Background()
	backend, err := portal.DemoBackend()
	require.NoError(t, err)

	students := record.NewStore(portal.KindStudents, backend)
	view := listview.NewView(portal.GradeSchema(5), record.NewStore(portal.KindGrades, backend), listview.WithRelated(students))
	require.NoError(t, view.Load(ctx))

	fs := view.Snapshot().Form
	require.Equal(t, "studentId", fs.Fields[0].Name)
	require.Len(t, fs.Fields[0].Choices, 6)
	assert.Equal(t, listview.Option{Value: "2", Label: "Mary Phiri"}, fs.Fields[0].Choices[1])

	created, err := view.Submit(ctx, map[string]string{
		"studentId": "2", "term": core.Term2,
		"english": "60", "chichewa": "60", "math": "60", "science": "60", "socialStudies": "59",
	})
	require.NoError(t, err)
	assert.Equal(t, "Mary Phiri", created.String("studentName"))
	assert.Equal(t, "Standard 4", created.String("studentClass"))

	t.Run("required scores", func(t *testing.T) {
		_, err := view.Submit(ctx, map[string]string{"studentId": "2", "term": core.Term3})
		vErr, ok := err.(*core.ValidationError)
		require.True(t, ok)
		assert.Len(t, vErr.Fields, 5)
	})
}

// searchingBackend answers searches server side, like the API does.
type searchingBackend struct {
	*record.MemoryBackend
}

func (b searchingBackend) List(ctx context.Context, kind string, params record.Params) ([]record.Entity, error) {
	items, err := b.MemoryBackend.List(ctx, kind, params)
	if err != nil || params.Search == "" {
		return items, err
	}
	filter := query.Filter{Search: params.Search, SearchFields: []string{"firstName", "lastName"}}
	return filter.Apply(items), nil
}

func TestNewListView_OwnsItsStores(t *testing.T) {
	ctx := context.Background()
	mem, err := portal.DemoBackend()
	require.NoError(t, err)
	backend := searchingBackend{mem}

	grades := portal.NewListView(portal.GradeSchema(5), backend)
	require.NoError(t, grades.Load(ctx))
	require.Len(t, grades.Snapshot().Form.Fields[0].Choices, 6)

	students := portal.NewListView(portal.StudentSchema(5), backend)
	require.NoError(t, students.Search(ctx, "mary"))
	assert.Equal(t, 1, students.Snapshot().Page.Total)

	assert.Len(t, grades.Snapshot().Form.Fields[0].Choices, 6)
	created, err := grades.Submit(ctx, map[string]string{
		"studentId": "1", "term": core.Term3,
		"english": "70", "chichewa": "70", "math": "70", "science": "70", "socialStudies": "70",
	})
	require.NoError(t, err)
	assert.Equal(t, "John Banda", created.String("studentName"))
	assert.Equal(t, "Standard 5", created.String("studentClass"))
}

func TestDashboard(t *testing.T) {
	defer func(f func() time.Time) { core.NowFunc = f }(core.NowFunc)
	core.NowFunc = func() time.Time { return time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC) }

	backend, err := portal.DemoBackend()
	require.NoError(t, err)

	dash, err := portal.LoadDashboard(context.Background(), backend, 100)
	require.NoError(t, err)

	assert.Equal(t, 6, dash.Students.Total)
	assert.Equal(t, 3, dash.Teachers)
	assert.Equal(t, 4, dash.Grades.Total)
	assert.Equal(t, 1, dash.ECD)
	assert.Equal(t, "5–10", dash.Students.Ranges["age"].String())
	assert.Equal(t, 3, dash.Students.Groups["gender"][0].Count)
	assert.Equal(t, "Female", dash.Students.Groups["gender"][0].Key)
	assert.Equal(t, core.Term1, dash.Grades.Groups["term"][0].Key)

	empty := portal.Summarize(nil, nil, nil)
	assert.Zero(t, empty.Students.Total)
	assert.Equal(t, "0–0", empty.Students.Ranges["age"].String())
	assert.Empty(t, empty.Students.Groups["class"])
}
