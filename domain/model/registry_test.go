package model

import (
	"errors"
	"testing"

	"k8s.io/apimachinery/pkg/util/sets"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		input      string
		wantKind   Kind
		wantPlural bool
		wantErr    bool
	}{
		{"workflow", KindWorkflow, false, false},
		{"Workflows", KindWorkflow, true, false},
		{"run", KindWorkflowRun, false, false},
		{"RUNS", KindWorkflowRun, true, false},
		{"workflow_runs", KindWorkflowRun, true, false},
		{"trigger", KindTriggerRule, false, false},
		{"triggers", KindTriggerRule, true, false},
		{"trigger_rule", KindTriggerRule, false, false},
		{"configs", KindConfig, true, false},
		{"plugin", KindPlugin, false, false},
		{"plugins", KindPlugin, true, false},
		{"widget", 0, false, true},
		{"", 0, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			kind, plural, err := Normalize(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownKind) {
					t.Fatalf("Normalize(%q) error = %v, want ErrUnknownKind", tt.input, err)
				}
				var ke *KindError
				if !errors.As(err, &ke) || ke.Input != tt.input {
					t.Errorf("KindError.Input = %v, want %q", ke, tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("Normalize(%q) unexpected error: %v", tt.input, err)
			}
			if kind != tt.wantKind || plural != tt.wantPlural {
				t.Errorf("Normalize(%q) = (%s, %v), want (%s, %v)", tt.input, kind, plural, tt.wantKind, tt.wantPlural)
			}
		})
	}
}

func TestAliasTablesDisjoint(t *testing.T) {
	for name, table := range map[string][]aliasEntry{"singular": singularAliases, "plural": pluralAliases} {
		seen := sets.New[string]()
		for _, e := range table {
			names := sets.New(e.Names...)
			if dup := seen.Intersection(names); dup.Len() > 0 {
				t.Errorf("%s table: aliases %v map to more than one kind", name, sets.List(dup))
			}
			seen = seen.Union(names)
		}
	}
}

func TestEveryKindHasAliasesAndVersions(t *testing.T) {
	for _, k := range Kinds() {
		if !sets.New(SingularAliases(k)...).Has(k.String()) {
			t.Errorf("%s: canonical name missing from singular aliases", k)
		}
		if len(PluralAliases(k)) == 0 {
			t.Errorf("%s: no plural alias", k)
		}
		versions, err := SupportedVersions(k)
		if err != nil || len(versions) == 0 {
			t.Fatalf("%s: SupportedVersions = %v, %v", k, versions, err)
		}
		latest, err := LatestVersion(k)
		if err != nil {
			t.Fatalf("%s: LatestVersion: %v", k, err)
		}
		if latest != versions[len(versions)-1] {
			t.Errorf("%s: LatestVersion = %s, want %s", k, latest, versions[len(versions)-1])
		}
	}
}

func TestLatestVersionUnknownKind(t *testing.T) {
	if _, err := LatestVersion(Kind(99)); !errors.Is(err, ErrUnknownKind) {
		t.Fatalf("LatestVersion(99) error = %v, want ErrUnknownKind", err)
	}
}

func TestResolveVersion(t *testing.T) {
	cases := []struct {
		name    string
		version string
		want    string
		wantErr error
	}{
		{"empty resolves latest", "", "v1alpha1", nil},
		{"listed version", "v1alpha1", "v1alpha1", nil},
		{"unlisted version", "v9", "", ErrUnsupportedVersion},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := ResolveVersion(KindWorkflow, c.version)
			if c.wantErr != nil {
				if !errors.Is(err, c.wantErr) {
					t.Fatalf("error = %v, want %v", err, c.wantErr)
				}
				var ve *VersionError
				if !errors.As(err, &ve) || ve.Version != c.version || len(ve.Supported) == 0 {
					t.Errorf("VersionError = %+v", ve)
				}
				return
			}
			if err != nil || got != c.want {
				t.Fatalf("ResolveVersion = %q, %v; want %q", got, err, c.want)
			}
		})
	}
}

func TestSupportedVersionsReturnsCopy(t *testing.T) {
	v, _ := SupportedVersions(KindConfig)
	v[0] = "mutated"
	latest, _ := LatestVersion(KindConfig)
	if latest == "mutated" {
		t.Fatal("SupportedVersions exposed internal slice")
	}
}
