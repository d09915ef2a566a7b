package assembly

import (
	"fmt"
	"strings"

	"github.com/pipedev/pipedev/internal/attribute"
)

// Mate is a read position in paired-end sequencing data.
type Mate int

const (
	MateUnknown Mate = iota
	Mate1
	Mate2
)

func (m Mate) String() string {
	switch m {
	case Mate1:
		return "mate 1"
	case Mate2:
		return "mate 2"
	}
	return "unknown mate"
}

// MateMarkers are the path fragments that identify each mate. Mate 1
// markers are tried first.
var MateMarkers = map[Mate][]string{
	Mate1: {"_R1_", "1_sequence.txt", ".1.fastq"},
	Mate2: {"_R2_", "2_sequence.txt", ".2.fastq"},
}

// MateOf returns the mate a path's markers resolve to.
func MateOf(path string) Mate {
	for _, m := range []Mate{Mate1, Mate2} {
		for _, marker := range MateMarkers[m] {
			if strings.Contains(path, marker) {
				return m
			}
		}
	}
	return MateUnknown
}

// ArrangeMates orders a pair of files as [mate 1, mate 2]. Anything other
// than two files resolving to distinct mates is returned in input order,
// with a warning when the input was a pair.
func ArrangeMates(files []attribute.View) ([]attribute.View, string) {
	if len(files) != 2 {
		return files, ""
	}
	a, b := MateOf(files[0].Path()), MateOf(files[1].Path())
	switch {
	case a == MateUnknown || b == MateUnknown:
		return files, "unidentifiable read number; keeping input order"
	case a == b:
		return files, fmt.Sprintf("both files resolve to %s; keeping input order", a)
	case a == Mate2:
		return []attribute.View{files[1], files[0]}, ""
	}
	return files, ""
}
