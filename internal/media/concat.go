package media

import (
	"fmt"
	"os"
	"strings"
)

// concatList is the temporary file-list manifest the concat demuxer reads.
type concatList struct {
	path string
}

func writeConcatList(segments []string) (*concatList, error) {
	var b strings.Builder
	for _, s := range segments {
		// The concat demuxer treats single quotes as delimiters.
		escaped := strings.ReplaceAll(s, "'", `'\''`)
		fmt.Fprintf(&b, "file '%s'\n", escaped)
	}

	tmp, err := os.CreateTemp("", "clipforge-concat-*.txt")
	if err != nil {
		return nil, fmt.Errorf("cannot create concat list: %w", err)
	}
	if _, err := tmp.WriteString(b.String()); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return nil, fmt.Errorf("cannot write concat list: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return nil, fmt.Errorf("cannot close concat list: %w", err)
	}

	return &concatList{path: tmp.Name()}, nil
}

func (l *concatList) cleanup() {
	os.Remove(l.path)
}
