// Package attribute exposes a FileRecord as a queryable attribute bag.
//
// A View resolves an ir.Key in one of two namespaces: report header columns
// (ir.HeaderKey) and LIMS sample attributes (ir.LimsKey). The namespace is
// chosen by the key's type, so a header column and a LIMS attribute that
// happen to share a name never shadow each other.
//
// Values are sets. A key with no values is absent; an explicitly blank value
// is present and returned as "".
package attribute
