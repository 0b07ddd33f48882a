package grade

import (
	"encoding/json"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/brightacademy/core"
)

func TestLetter(t *testing.T) {
	tests := []struct {
		avg  int
		want string
	}{
		{100, "A"}, {80, "A"}, {79, "B"}, {70, "B"}, {69, "C"}, {60, "C"},
		{59, "D"}, {50, "D"}, {49, "F"}, {0, "F"},
	}
	for _, tt := range tests {
		if got := Letter(tt.avg); got != tt.want {
			t.Errorf("Letter(%d) = %q, want %q", tt.avg, got, tt.want)
		}
	}
}

func TestAverage(t *testing.T) {
	tests := []struct {
		name   string
		scores []int
		want   int
	}{
		{name: "none", want: 0},
		{name: "exact", scores: []int{80, 80, 80, 80, 80}, want: 80},
		{name: "rounds to nearest", scores: []int{85, 92, 78, 90, 88}, want: 87}, // 86.6
		{name: "rounds up on half", scores: []int{79, 80}, want: 80},
		{name: "below half", scores: []int{65, 70, 72, 68, 75}, want: 70}, // 70.0
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Average(tt.scores...))
		})
	}
}

func TestGrade_MarshalJSON(t *testing.T) {
	g := Grade{ID: "g1", StudentID: "s1", StudentName: "John Banda", Term: core.Term1,
		English: 78, Chichewa: 82, Math: 88, Science: 80, SocialStudies: 85}

	data, err := json.Marshal(g)
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "g1", got["id"])
	assert.Equal(t, "John Banda", got["studentName"])
	assert.EqualValues(t, 83, got["average"])
	assert.Equal(t, "A", got["grade"])
}

func TestNewGrade_Validate(t *testing.T) {
	validate := validator.New()
	core.InitValidators(validate, core.NewTranslator())
	iPtr := func(i int) *int { return &i }

	valid := func() NewGrade {
		return NewGrade{StudentID: "s1", Term: core.Term2, English: iPtr(0), Chichewa: iPtr(50),
			Math: iPtr(100), Science: iPtr(60), SocialStudies: iPtr(70)}
	}

	tests := []struct {
		name    string
		mutate  func(ng *NewGrade)
		wantErr bool
	}{
		{name: "valid (zero score allowed)", mutate: func(ng *NewGrade) {}},
		{name: "missing student", mutate: func(ng *NewGrade) { ng.StudentID = "  " }, wantErr: true},
		{name: "unknown term", mutate: func(ng *NewGrade) { ng.Term = "Term 9" }, wantErr: true},
		{name: "missing score", mutate: func(ng *NewGrade) { ng.Math = nil }, wantErr: true},
		{name: "score too high", mutate: func(ng *NewGrade) { ng.Science = iPtr(101) }, wantErr: true},
		{name: "negative score", mutate: func(ng *NewGrade) { ng.English = iPtr(-1) }, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ng := valid()
			tt.mutate(&ng)
			err := ng.Validate(validate)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestUpdateGrade_Apply(t *testing.T) {
	orig := Grade{ID: "g1", Term: core.Term1, English: 50, Math: 60, Comments: "ok"}
	math, comments := 90, ""

	got := UpdateGrade{Math: &math, Comments: &comments}.Apply(orig)
	assert.Equal(t, "g1", got.ID)
	assert.Equal(t, core.Term1, got.Term)
	assert.Equal(t, 50, got.English)
	assert.Equal(t, 90, got.Math)
	assert.Equal(t, "", got.Comments)
}
