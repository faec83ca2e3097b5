package model

import "strings"

// aliasEntry maps a group of accepted spellings to one kind.
type aliasEntry struct {
	Names []string
	Kind  Kind
}

// singularAliases and pluralAliases must stay pairwise disjoint within each table.
var singularAliases = []aliasEntry{
	{Names: []string{"workflow"}, Kind: KindWorkflow},
	{Names: []string{"workflow_run", "run"}, Kind: KindWorkflowRun},
	{Names: []string{"trigger_rule", "trigger"}, Kind: KindTriggerRule},
	{Names: []string{"config"}, Kind: KindConfig},
	{Names: []string{"plugin"}, Kind: KindPlugin},
}

var pluralAliases = []aliasEntry{
	{Names: []string{"workflows"}, Kind: KindWorkflow},
	{Names: []string{"workflow_runs", "runs"}, Kind: KindWorkflowRun},
	{Names: []string{"trigger_rules", "triggers"}, Kind: KindTriggerRule},
	{Names: []string{"configs"}, Kind: KindConfig},
	{Names: []string{"plugins"}, Kind: KindPlugin},
}

// supportedVersions is ordered oldest to newest per kind.
var supportedVersions = map[Kind][]string{
	KindWorkflow:    {"v1alpha1"},
	KindWorkflowRun: {"v1alpha1"},
	KindTriggerRule: {"v1alpha1"},
	KindConfig:      {"v1alpha1"},
	KindPlugin:      {"v1alpha1"},
}

// Normalize resolves a user supplied kind spelling. The plural table is checked
// first so that a spelling present in both resolves as a listing request.
func Normalize(input string) (kind Kind, plural bool, err error) {
	s := strings.ToLower(input)
	if k, ok := lookupAlias(pluralAliases, s); ok {
		return k, true, nil
	}
	if k, ok := lookupAlias(singularAliases, s); ok {
		return k, false, nil
	}
	return 0, false, &KindError{Input: input}
}

func lookupAlias(table []aliasEntry, s string) (Kind, bool) {
	for _, e := range table {
		for _, n := range e.Names {
			if n == s {
				return e.Kind, true
			}
		}
	}
	return 0, false
}

// SingularAliases returns the accepted singular spellings of kind.
func SingularAliases(kind Kind) []string { return aliasesOf(singularAliases, kind) }

// PluralAliases returns the accepted plural spellings of kind.
func PluralAliases(kind Kind) []string { return aliasesOf(pluralAliases, kind) }

func aliasesOf(table []aliasEntry, kind Kind) []string {
	var out []string
	for _, e := range table {
		if e.Kind == kind {
			out = append(out, e.Names...)
		}
	}
	return out
}

// SupportedVersions returns the schema versions of kind, oldest first.
func SupportedVersions(kind Kind) ([]string, error) {
	v, ok := supportedVersions[kind]
	if !ok || len(v) == 0 {
		return nil, &KindError{Input: kind.String()}
	}
	out := make([]string, len(v))
	copy(out, v)
	return out, nil
}

// LatestVersion returns the newest supported schema version of kind.
func LatestVersion(kind Kind) (string, error) {
	v, err := SupportedVersions(kind)
	if err != nil {
		return "", err
	}
	return v[len(v)-1], nil
}

// ResolveVersion returns version when it is supported by kind, or the latest
// version when version is empty.
func ResolveVersion(kind Kind, version string) (string, error) {
	versions, err := SupportedVersions(kind)
	if err != nil {
		return "", err
	}
	if version == "" {
		return versions[len(versions)-1], nil
	}
	for _, v := range versions {
		if v == version {
			return v, nil
		}
	}
	return "", &VersionError{Kind: kind, Version: version, Supported: versions}
}
