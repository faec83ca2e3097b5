package naming

import (
	"fmt"
	"strings"

	utilvalidation "k8s.io/apimachinery/pkg/util/validation"
)

// ValidateResourceName checks a metadata.name: alphanumerics separated by
// '-', '_' or '.', at most 63 characters.
func ValidateResourceName(kind, name string) error {
	if name == "" {
		return fmt.Errorf("%s name must not be empty", kind)
	}
	if strings.Contains(name, "/") {
		return fmt.Errorf("invalid %s name %q: must not contain '/'", kind, name)
	}
	if errs := utilvalidation.IsQualifiedName(name); len(errs) > 0 {
		return fmt.Errorf("invalid %s name %q: %s", kind, name, strings.Join(errs, ", "))
	}
	return nil
}
