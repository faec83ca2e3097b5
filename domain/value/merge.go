package value

// Merge deep merges patch into base and returns a new mapping. Neither input
// is modified.
//
// For every key of patch: a key absent from base is copied; two mappings are
// merged recursively; two sequences are merged with MergeLists; anything else
// is replaced by the patch value.
func Merge(base, patch *Map) *Map {
	merged := base.Clone()
	if merged == nil {
		merged = NewMap()
	}
	patch.Range(func(key string, pv Value) bool {
		bv, ok := merged.Get(key)
		if !ok {
			merged.Set(key, Clone(pv))
			return true
		}
		merged.Set(key, mergeValue(bv, pv))
		return true
	})
	return merged
}

// MergeLists merges patch into base position by position and returns a new
// sequence of length max(len(base), len(patch)). Two mappings at the same index
// are deep merged; otherwise a non-null patch element replaces the base element
// and a null patch element keeps it.
func MergeLists(base, patch *List) *List {
	merged := base.Clone()
	if merged == nil {
		merged = NewList()
	}
	for i, pv := range patch.Items() {
		if i >= merged.Len() {
			merged.Append(Clone(pv))
			continue
		}
		bv := merged.Index(i)
		bm, bIsMap := bv.(*Map)
		pm, pIsMap := pv.(*Map)
		switch {
		case bIsMap && pIsMap && bm != nil && pm != nil:
			merged.SetIndex(i, Merge(bm, pm))
		case !IsNull(pv):
			merged.SetIndex(i, Clone(pv))
		}
	}
	return merged
}

// mergeValue combines an existing value with the patch value for the same key.
// The result never aliases pv.
func mergeValue(bv, pv Value) Value {
	switch b := bv.(type) {
	case *Map:
		if p, ok := pv.(*Map); ok && b != nil && p != nil {
			return Merge(b, p)
		}
	case *List:
		if p, ok := pv.(*List); ok && b != nil && p != nil {
			return MergeLists(b, p)
		}
	}
	return Clone(pv)
}
