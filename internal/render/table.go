package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/naka-gawa/github-trends/internal/domain"
)

const dayLayout = "2006-01-02"

// Printer writes trends as text tables.
type Printer struct {
	out       io.Writer
	useColors bool
}

// NewPrinter creates a printer writing to out.
func NewPrinter(out io.Writer, useColors bool) *Printer {
	return &Printer{out: out, useColors: useColors}
}

func (p *Printer) paint(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if p.useColors {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c
}

// Trends prints the summary and daily tables of t, or its placeholder title
// when there is no traffic to show.
func (p *Printer) Trends(repository string, t domain.Trends) error {
	p.paint(color.FgWhite, color.Bold).Fprintf(p.out, "\n%s\n", repository)

	if t.EmptyDataViewVisible() {
		placeholder := p.paint(color.FgYellow)
		if t.EmptyDataViewTitle == domain.UnableToRetrieveDataTitle {
			placeholder = p.paint(color.FgRed)
		}
		placeholder.Fprintln(p.out, t.EmptyDataViewTitle)
		return nil
	}

	p.summary(t)

	if err := p.trafficTable(t); err != nil {
		return err
	}
	return p.starsTable(t)
}

func (p *Printer) summary(t domain.Trends) {
	label := p.paint(color.FgCyan)
	line := func(name, text string) {
		label.Fprintf(p.out, "%-14s", name)
		fmt.Fprintln(p.out, text)
	}
	if t.Visibility.Views {
		line("Views", t.ViewsText)
	}
	if t.Visibility.UniqueViews {
		line("Unique Views", t.UniqueViewsText)
	}
	if t.Visibility.Clones {
		line("Clones", t.ClonesText)
	}
	if t.Visibility.UniqueClones {
		line("Unique Clones", t.UniqueClonesText)
	}
	line("Stars", t.StarsText)
	p.paint(color.Faint).Fprintf(p.out, "%s .. %s, axis %d-%d\n\n",
		t.MinViewsClonesDate.Format(dayLayout), t.MaxViewsClonesDate.Format(dayLayout),
		t.ViewsClonesMinValue, t.ViewsClonesMaxValue)
}

func (p *Printer) trafficTable(t domain.Trends) error {
	type column struct {
		series domain.Series
		header string
		value  func(v domain.DailyViews, c domain.DailyClones) int
	}
	columns := []column{
		{domain.SeriesViews, "Views", func(v domain.DailyViews, _ domain.DailyClones) int { return v.TotalViews }},
		{domain.SeriesUniqueViews, "Unique Views", func(v domain.DailyViews, _ domain.DailyClones) int { return v.TotalUniqueViews }},
		{domain.SeriesClones, "Clones", func(_ domain.DailyViews, c domain.DailyClones) int { return c.TotalClones }},
		{domain.SeriesUniqueClones, "Unique Clones", func(_ domain.DailyViews, c domain.DailyClones) int { return c.TotalUniqueClones }},
	}

	header := []string{"Day"}
	visible := make([]column, 0, len(columns))
	for _, col := range columns {
		if t.Visibility.IsVisible(col.series) {
			header = append(header, col.header)
			visible = append(visible, col)
		}
	}
	if len(visible) == 0 {
		return nil
	}

	clonesByDay := make(map[time.Time]domain.DailyClones, len(t.DailyClones))
	for _, c := range t.DailyClones {
		clonesByDay[c.Day] = c
	}
	rows := make([][]string, 0, len(t.DailyViews))
	for _, v := range t.DailyViews {
		c := clonesByDay[v.Day]
		row := []string{v.Day.Format(dayLayout)}
		for _, col := range visible {
			row = append(row, strconv.Itoa(col.value(v, c)))
		}
		rows = append(rows, row)
	}
	return p.table(header, rows)
}

// starsTable prints the running star count at the end of each day that received stars.
func (p *Printer) starsTable(t domain.Trends) error {
	if len(t.DailyStars) == 0 {
		return nil
	}
	rows := make([][]string, 0, len(t.DailyStars))
	for i, s := range t.DailyStars {
		if i+1 < len(t.DailyStars) && t.DailyStars[i+1].Day.Equal(s.Day) {
			continue
		}
		rows = append(rows, []string{s.Day.Format(dayLayout), strconv.Itoa(s.TotalStars)})
	}
	fmt.Fprintln(p.out)
	return p.table([]string{"Day", "Stars"}, rows)
}

func (p *Printer) table(header []string, rows [][]string) error {
	table := tablewriter.NewTable(p.out,
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Formatting: tw.CellFormatting{
					AutoWrap: tw.WrapNone,
				},
				Alignment: tw.CellAlignment{
					Global: tw.AlignRight,
				},
			},
			Header: tw.CellConfig{
				Formatting: tw.CellFormatting{
					AutoFormat: tw.On,
				},
				Alignment: tw.CellAlignment{
					Global: tw.AlignRight,
				},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Separators: tw.Separators{
					ShowHeader: tw.Off,
				},
			},
		}),
	)
	table.Header(header)
	if err := table.Bulk(rows); err != nil {
		return fmt.Errorf("failed to add table rows: %w", err)
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}
	return nil
}

// jsonTrends adds the computed visibility flags to the serialized state.
type jsonTrends struct {
	Repository string `json:"repository"`
	domain.Trends
	ChartVisible         bool `json:"chart_visible"`
	EmptyDataViewVisible bool `json:"empty_data_view_visible"`
}

// JSON writes t as indented JSON.
func JSON(w io.Writer, repository string, t domain.Trends) error {
	jsonData, err := json.MarshalIndent(jsonTrends{
		Repository:           repository,
		Trends:               t,
		ChartVisible:         t.ChartVisible(),
		EmptyDataViewVisible: t.EmptyDataViewVisible(),
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal trends to JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(jsonData))
	return err
}
