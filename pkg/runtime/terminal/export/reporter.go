package export

import (
	"fmt"
	"io"
	"os"

	"github.com/de-tools/spot-stats/pkg/models/api"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

const (
	instanceTypeColumn = "Instance Type"
	zoneColumn         = "Availability Zone"
	memoryColumn       = "Memory GiB"
	vCPUColumn         = "vCPUs"
	archColumn         = "Arch"
	priceColumn        = "USD/Hour"
	dailyPriceColumn   = "USD/Day"
	powerColumn        = "Power"
)

// powerColors maps a power class (0 weakest .. 4 strongest) to a color.
var powerColors = []text.Color{
	text.FgHiRed,
	text.FgHiMagenta,
	text.FgHiYellow,
	text.FgGreen,
	text.FgHiGreen,
}

type TableConfig struct {
	Colors bool
	Style  table.Style
}

func DefaultTableConfig() TableConfig {
	return TableConfig{
		Colors: false,
		Style:  table.StyleLight,
	}
}

// TableReporter renders query results as a text table.
type TableReporter struct {
	writer io.Writer
	config TableConfig
}

func NewTableReporter(writer io.Writer) *TableReporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &TableReporter{
		writer: writer,
		config: DefaultTableConfig(),
	}
}

func (r *TableReporter) WithConfig(config TableConfig) *TableReporter {
	r.config = config
	return r
}

func (r *TableReporter) Render(rows []api.QueryRow, meta api.StatsMeta) error {
	t := table.NewWriter()
	t.SetOutputMirror(r.writer)
	t.SetStyle(r.config.Style)
	t.SetTitle(fmt.Sprintf("Prices last updated %d minutes ago", meta.UpdatedMinutesAgo))
	t.Style().Title.Align = text.AlignCenter

	t.AppendHeader(table.Row{
		instanceTypeColumn, zoneColumn, memoryColumn, vCPUColumn, archColumn,
		priceColumn, dailyPriceColumn, powerColumn,
	})
	for _, row := range rows {
		t.AppendRow(table.Row{
			row.InstanceType,
			row.AvailabilityZone,
			row.MemoryGiB,
			row.VCPUs,
			row.Architecture,
			fmt.Sprintf("$%.4f", row.DollarsPerHour),
			fmt.Sprintf("$%.4f", row.DollarsPerDay),
			r.power(row),
		})
	}
	t.AppendFooter(table.Row{fmt.Sprintf("%d of %d offers", len(rows), meta.Records)})

	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: memoryColumn, Align: text.AlignRight},
		{Name: vCPUColumn, Align: text.AlignRight},
		{Name: priceColumn, Align: text.AlignRight},
		{Name: dailyPriceColumn, Align: text.AlignRight},
	})

	t.Render()
	return nil
}

func (r *TableReporter) power(row api.QueryRow) string {
	value := fmt.Sprintf("%.4f", row.Power)
	if !r.config.Colors || row.PowerClass < 0 || row.PowerClass >= len(powerColors) {
		return value
	}
	return text.Colors{powerColors[row.PowerClass]}.Sprint(value)
}
