package export

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/de-tools/spot-stats/pkg/models/domain"
)

// ProgressReporter prints one line per finished region.
type ProgressReporter struct {
	mu     sync.Mutex
	writer io.Writer
}

func NewProgressReporter(writer io.Writer) *ProgressReporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &ProgressReporter{writer: writer}
}

func (p *ProgressReporter) RegionDone(region domain.Region, _ int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.writer, "Finished %s\n", region)
}
