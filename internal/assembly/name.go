package assembly

import (
	"strings"

	"github.com/pipedev/pipedev/internal/attribute"
	"github.com/pipedev/pipedev/internal/grouping"
	"github.com/pipedev/pipedev/internal/ir"
)

// Separators used in combined names.
const (
	ValueJoiner  = "-"
	BlockJoiner  = "_"
	IUSBlockName = "ius"
)

// nameBlocks are the LIMS attributes contributing to a combined name, after
// the donor and in name order.
var nameBlocks = []ir.LimsKey{
	ir.LimsTissueOrigin,
	ir.LimsTissueType,
	ir.LimsLibraryType,
	ir.LimsLibrarySize,
	ir.LimsLibraryTemplateType,
	ir.LimsGroupID,
}

// nameParts accumulates the distinct values of each name block.
type nameParts struct {
	donor map[string]struct{}
	lims  []map[string]struct{}
	ius   map[string]struct{}
}

func newNameParts() *nameParts {
	p := &nameParts{
		donor: make(map[string]struct{}),
		lims:  make([]map[string]struct{}, len(nameBlocks)),
		ius:   make(map[string]struct{}),
	}
	for i := range p.lims {
		p.lims[i] = make(map[string]struct{})
	}
	return p
}

func (p *nameParts) add(v attribute.View) {
	donors, _ := v.All(ir.HeaderRootSampleName)
	for _, d := range donors {
		addValue(p.donor, grouping.TrailingComponent(d))
	}
	for i, key := range nameBlocks {
		vals, _ := v.All(key)
		for _, val := range vals {
			addValue(p.lims[i], val)
		}
	}
	ius, _ := v.All(ir.HeaderIUSSWID)
	for _, id := range ius {
		addValue(p.ius, id)
	}
}

func addValue(set map[string]struct{}, val string) {
	if val != "" {
		set[val] = struct{}{}
	}
}

func (p *nameParts) String() string {
	var b strings.Builder
	writeBlock(&b, p.donor, BlockJoiner)
	for _, set := range p.lims {
		writeBlock(&b, set, BlockJoiner)
	}
	b.WriteString(IUSBlockName)
	writeBlock(&b, p.ius, "")
	return b.String()
}

func writeBlock(b *strings.Builder, set map[string]struct{}, end string) {
	if len(set) == 0 {
		return
	}
	b.WriteString(strings.Join(ir.SortedKeys(set), ValueJoiner))
	b.WriteString(end)
}

// CombinedName builds the name of a run over files: donor, tissue origin,
// tissue type, library type, library size, library template type and group
// id, each as the sorted set of its values joined with ValueJoiner, then
// "ius" and the sorted IUS accessions. Empty blocks are left out.
//
// Two files {donor ABCD_0001, origin Ly, IUS 12345} and {donor ABCD_0001,
// origin Pa, IUS 12346} give "ABCD_0001_Ly-Pa_ius12345-12346" in either order.
func CombinedName(files []attribute.View) string {
	p := newNameParts()
	for _, f := range files {
		p.add(f)
	}
	return p.String()
}
