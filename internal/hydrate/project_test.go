package hydrate

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type document struct {
	Targets []struct {
		Name    string `json:"name"`
		IsStage bool   `json:"isStage"`
	} `json:"targets"`
	Meta struct {
		Semver string `json:"semver"`
	} `json:"meta"`
}

func TestProjectDecodesDocument(t *testing.T) {
	got, err := Project[document]("0", []byte(`
		{"targets":[{"name":"Stage","isStage":true},{"name":"Sprite1"}],"meta":{"semver":"3.0.0"}}`))
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	names := []string{got.Targets[0].Name, got.Targets[1].Name}
	if diff := cmp.Diff([]string{"Stage", "Sprite1"}, names); diff != "" {
		t.Fatalf("targets (-want +got):\n%s", diff)
	}
	if !got.Targets[0].IsStage || got.Meta.Semver != "3.0.0" {
		t.Fatalf("unexpected document %+v", got)
	}
}

func TestProjectRejectsNonDocuments(t *testing.T) {
	cases := []struct {
		name string
		data string
		is   error
		msg  string
	}{
		{name: "empty", data: "  \n", msg: `project "p" is empty`},
		{name: "sb3 archive", data: "PK\x03\x04project.json", is: ErrArchive},
		{name: "array", data: `[{"name":"Stage"}]`, is: ErrNotObject},
		{name: "truncated", data: `{"targets":[`, msg: `decode project "p"`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Project[document]("p", []byte(tc.data))
			if err == nil {
				t.Fatalf("expected error")
			}
			if tc.is != nil && !errors.Is(err, tc.is) {
				t.Fatalf("expected %v, got %v", tc.is, err)
			}
			if tc.msg != "" && !strings.Contains(err.Error(), tc.msg) {
				t.Fatalf("expected %q in %v", tc.msg, err)
			}
		})
	}
}

func TestProjectRunsValidatorsInOrder(t *testing.T) {
	var order []string
	errNoStage := errors.New("no stage")
	_, err := Project[document]("9", []byte(`{"targets":[]}`),
		func(*document) error { order = append(order, "first"); return nil },
		nil,
		func(d *document) error {
			order = append(order, "stage")
			if len(d.Targets) == 0 {
				return errNoStage
			}
			return nil
		},
		func(*document) error { order = append(order, "unreached"); return nil },
	)
	if !errors.Is(err, errNoStage) || !strings.Contains(err.Error(), "validation 2") {
		t.Fatalf("expected wrapped validator error, got %v", err)
	}
	if diff := cmp.Diff([]string{"first", "stage"}, order); diff != "" {
		t.Fatalf("validator order (-want +got):\n%s", diff)
	}
}
