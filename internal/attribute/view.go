package attribute

import (
	"fmt"
	"slices"
	"strings"

	"github.com/pipedev/pipedev/internal/ir"
)

// ValueSeparator joins multiple values of one key in Get.
const ValueSeparator = ";"

// View is a read-only attribute bag over one FileRecord.
type View struct {
	rec ir.FileRecord
}

// New returns a View over rec. The record is not copied; callers must not
// mutate it afterwards.
func New(rec ir.FileRecord) View {
	return View{rec: rec}
}

// Record returns the underlying record.
func (v View) Record() ir.FileRecord { return v.rec }

// Path returns the file path.
func (v View) Path() string { return v.rec.Path }

// Get returns the value for key. Multiple values are returned as their
// sorted set joined with ValueSeparator. ok is false when the key is absent.
func (v View) Get(key ir.Key) (value string, ok bool, err error) {
	vals, err := v.values(key)
	if err != nil {
		return "", false, err
	}
	if len(vals) == 0 {
		return "", false, nil
	}
	if len(vals) == 1 {
		return vals[0], true, nil
	}
	return strings.Join(ir.SortedSet(vals...), ValueSeparator), true, nil
}

// Required is like Get but fails with ErrCodeMissingAttribute when the key
// is absent.
func (v View) Required(key ir.Key) (string, error) {
	val, ok, err := v.Get(key)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", &KeyError{Code: ErrCodeMissingAttribute, Key: key.String(), Path: v.rec.Path}
	}
	return val, nil
}

// All returns every value of key as a sorted set. An absent key yields an
// empty slice.
func (v View) All(key ir.Key) ([]string, error) {
	vals, err := v.values(key)
	if err != nil {
		return nil, err
	}
	return ir.SortedSet(vals...), nil
}

// Keys lists the keys present in namespace ns, sorted by name.
func (v View) Keys(ns ir.Namespace) []ir.Key {
	var keys []ir.Key
	switch ns {
	case ir.NamespaceHeader:
		seen := make(map[string]bool)
		for name, vals := range v.rec.Header {
			if len(vals) > 0 {
				seen[name] = true
			}
		}
		for k, val := range v.typedFields() {
			if val != "" {
				seen[string(k)] = true
			}
		}
		for _, name := range ir.SortedKeys(seen) {
			keys = append(keys, ir.HeaderKey(name))
		}
	case ir.NamespaceLims:
		for _, name := range ir.SortedKeys(v.rec.Lims) {
			if len(v.rec.Lims[name]) > 0 {
				keys = append(keys, ir.LimsKey(name))
			}
		}
	}
	return keys
}

func (v View) values(key ir.Key) ([]string, error) {
	switch k := key.(type) {
	case ir.HeaderKey:
		if val := v.typedFields()[k]; val != "" {
			return []string{val}, nil
		}
		return v.rec.Header[string(k)], nil
	case ir.LimsKey:
		return v.rec.Lims[string(k)], nil
	default:
		return nil, &KeyError{Code: ErrCodeInvalidKeyType, Key: fmt.Sprintf("%T", key), Path: v.rec.Path}
	}
}

// typedFields maps the record's well-known fields onto their report
// columns. A non-empty typed field wins over the Header entry.
func (v View) typedFields() map[ir.HeaderKey]string {
	skip := ""
	if v.rec.Skip {
		skip = "true"
	}
	return map[ir.HeaderKey]string{
		ir.HeaderFilePath:          v.rec.Path,
		ir.HeaderFileMetaType:      v.rec.MetaType,
		ir.HeaderFileSWID:          v.rec.Accession,
		ir.HeaderWorkflowRunStatus: v.rec.Status,
		ir.HeaderLastModified:      v.rec.ProcessedAt,
		ir.HeaderSkip:              skip,
	}
}

// ContainsValue reports whether any key in namespace ns whose name contains
// fragment has a value equal to want.
func (v View) ContainsValue(ns ir.Namespace, fragment, want string) (ir.Key, bool) {
	for _, k := range v.Keys(ns) {
		if !strings.Contains(k.String(), fragment) {
			continue
		}
		vals, _ := v.values(k)
		if slices.Contains(vals, want) {
			return k, true
		}
	}
	return nil, false
}
