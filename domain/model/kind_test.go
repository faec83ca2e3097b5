package model

import (
	"errors"
	"net/http"
	"testing"

	"github.com/emergentmethods/flowctl/domain/value"
)

func TestParseKind(t *testing.T) {
	for _, k := range Kinds() {
		got, err := ParseKind(k.String())
		if err != nil || got != k {
			t.Errorf("ParseKind(%q) = %v, %v", k.String(), got, err)
		}
	}
	if _, err := ParseKind("run"); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("ParseKind(run) should only accept canonical names, got %v", err)
	}
}

func TestDefinitionKinds(t *testing.T) {
	want := map[Kind]bool{KindWorkflow: true, KindTriggerRule: true, KindConfig: true}
	for _, k := range Kinds() {
		if k.IsDefinitionKind() != want[k] {
			t.Errorf("%s.IsDefinitionKind() = %v", k, k.IsDefinitionKind())
		}
	}
	if Kind(0).Valid() {
		t.Error("zero Kind must be invalid")
	}
}

func TestRemoteErrorIs(t *testing.T) {
	nf := NewNotFoundError(KindWorkflow, "wf")
	if !errors.Is(nf, ErrRemoteNotFound) || !errors.Is(nf, ErrRemote) {
		t.Errorf("not found error does not match sentinels: %v", nf)
	}
	other := &RemoteError{StatusCode: http.StatusConflict, Message: "exists"}
	if errors.Is(other, ErrRemoteNotFound) {
		t.Error("409 must not match ErrRemoteNotFound")
	}
	if got := other.Error(); got != "exists (status 409)" {
		t.Errorf("Error() = %q", got)
	}
}

func TestResourceName(t *testing.T) {
	meta := value.NewMap().Set("metadata", value.NewMap().Set("name", value.String("wf")).Set("uid", value.String("u1")))
	top := value.NewMap().Set("name", value.String("r1")).Set("uid", value.String("u2"))
	tests := []struct {
		kind Kind
		doc  value.Value
		want string
	}{
		{KindWorkflow, meta, "wf"},
		{KindTriggerRule, meta, "wf"},
		{KindConfig, meta, "wf"},
		{KindWorkflowRun, top, "r1"},
		{KindPlugin, top, "r1"},
		{KindWorkflow, top, ""},
		{KindConfig, value.Null{}, ""},
	}
	for _, tt := range tests {
		if got := ResourceName(tt.kind, tt.doc); got != tt.want {
			t.Errorf("ResourceName(%s) = %q, want %q", tt.kind, got, tt.want)
		}
	}
	if got := ResourceUID(KindWorkflowRun, top); got != "u2" {
		t.Errorf("ResourceUID(run) = %q", got)
	}
}
