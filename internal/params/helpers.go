package params

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/pipedev/pipedev/internal/attribute"
	"github.com/pipedev/pipedev/internal/ir"
)

// EscapeString replaces every character outside [0-9A-Za-z _-] with its
// HTML numeric character reference: "a/b" becomes "a&#47;b".
func EscapeString(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z',
			r == ' ', r == '_', r == '-':
			b.WriteRune(r)
		default:
			fmt.Fprintf(&b, "&#%d;", r)
		}
	}
	return b.String()
}

// FilePrefix builds the conventional fastq name prefix for a file:
//
//	SWID_{IUS SWID}_{Sample Name}[_{group id}]_{Sequencer Run Name}_{IUS Tag}_L00{Lane Number}_R1_001_
//
// The group id block is present only when the file has one. Every other
// attribute is required.
func FilePrefix(v attribute.View) (string, error) {
	var b strings.Builder
	b.WriteString("SWID")

	required := func(key ir.Key) error {
		val, err := v.Required(key)
		if err != nil {
			return err
		}
		b.WriteString("_")
		b.WriteString(val)
		return nil
	}

	if err := required(ir.HeaderIUSSWID); err != nil {
		return "", err
	}
	if err := required(ir.HeaderSampleName); err != nil {
		return "", err
	}
	if _, ok, err := v.Get(ir.LimsGroupID); err != nil {
		return "", err
	} else if ok {
		if err := required(ir.LimsGroupID); err != nil {
			return "", err
		}
	}
	for _, key := range []ir.Key{ir.HeaderSequencerRunName, ir.HeaderIUSTag} {
		if err := required(key); err != nil {
			return "", err
		}
	}
	lane, err := v.Required(ir.HeaderLaneNumber)
	if err != nil {
		return "", err
	}
	b.WriteString("_L00")
	b.WriteString(lane)
	b.WriteString("_R1_001_")
	return b.String(), nil
}

// RenderINI writes params as sorted key=value lines.
func RenderINI(w io.Writer, params map[string]string) error {
	bw := bufio.NewWriter(w)
	for _, k := range ir.SortedKeys(params) {
		if strings.ContainsAny(k, "=\n") {
			return fmt.Errorf("invalid parameter name %q", k)
		}
		if strings.Contains(params[k], "\n") {
			return fmt.Errorf("parameter %s: value contains a newline", k)
		}
		if _, err := fmt.Fprintf(bw, "%s=%s\n", k, params[k]); err != nil {
			return err
		}
	}
	return bw.Flush()
}
