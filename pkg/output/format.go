// Package output provides utilities for formatting and displaying calculated
// projects.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/iwvelando/builduction/internal/calculator"
	"github.com/iwvelando/builduction/internal/project"
	"github.com/iwvelando/builduction/pkg/format"
	"github.com/iwvelando/builduction/pkg/optional"
)

// Result pairs a calculated project with its summary for machine-readable
// output.
type Result struct {
	Project *project.Project   `json:"project"`
	Summary calculator.Summary `json:"summary"`
}

type column struct {
	header   string
	decimals int
	value    func(p *project.Project) optional.Float
}

var csvColumns = []column{
	{"landSize", 2, func(p *project.Project) optional.Float { return p.LandSize }},
	{"floorCount", 0, func(p *project.Project) optional.Float { return p.FloorCount }},
	{"eachFloorLegalAreaToBuild", 2, func(p *project.Project) optional.Float { return p.EachFloorLegalAreaToBuild }},
	{"eachFloorAreaToBuild", 2, func(p *project.Project) optional.Float { return p.EachFloorAreaToBuild }},
	{"maximumParkingCount", 0, func(p *project.Project) optional.Float { return p.MaximumParkingCount }},
	{"totalAreaToBuild", 2, func(p *project.Project) optional.Float { return p.TotalAreaToBuild }},
	{"totalAreaToSell", 2, func(p *project.Project) optional.Float { return p.TotalAreaToSell }},
	{"totalValueOfProperty", 0, func(p *project.Project) optional.Float { return p.TotalValueOfProperty }},
	{"buildCost", 0, func(p *project.Project) optional.Float { return p.BuildCost }},
	{"purchasePricePerMeter", 2, func(p *project.Project) optional.Float { return p.PurchasePricePerMeter }},
	{"landPrice", 0, func(p *project.Project) optional.Float { return p.LandPrice }},
	{"totalCostInCaseOfPurchase", 0, func(p *project.Project) optional.Float { return p.TotalCostInCaseOfPurchase }},
	{"builderProfitInCaseOfPurchase", 0, func(p *project.Project) optional.Float { return p.BuilderProfitInCaseOfPurchase }},
	{"builderShareOfArea", 2, func(p *project.Project) optional.Float { return p.BuilderShareOfArea }},
	{"totalCostInCaseOfParticipation", 0, func(p *project.Project) optional.Float { return p.TotalCostInCaseOfParticipation }},
	{"builderProfitInCaseOfParticipation", 0, func(p *project.Project) optional.Float { return p.BuilderProfitInCaseOfParticipation }},
}

// PrettyFormat outputs a human-readable rather than machine-readable table.
func PrettyFormat(projects []*project.Project, locale string) {
	_ = WritePretty(os.Stdout, projects, locale)
}

// WritePretty writes the human-readable table for every project to w.
func WritePretty(w io.Writer, projects []*project.Project, locale string) error {
	f := format.New(locale)
	var b strings.Builder

	for i, p := range projects {
		s := calculator.Summarize(p)
		fmt.Fprintf(&b, "--- Results for project %s (%s) ---\n", s.Title, s.Mode)
		fmt.Fprintf(&b, "%-34s | %s\n", "Item", "Value")
		fmt.Fprintf(&b, "%-34s | %s\n", "____", "_____")

		row := func(label, value string) {
			fmt.Fprintf(&b, "%-34s | %s\n", label, value)
		}

		row("Legal area per floor", f.Area(s.Areas.EachFloorLegal))
		row("Area per floor", f.Area(s.Areas.EachFloor))
		row("Maximum parking", f.Count(s.Areas.MaximumParking))
		row("Total area to build", f.Area(s.Areas.TotalToBuild))
		row("Total area to sell", f.Area(s.Areas.TotalToSell))
		row("Total value of property", f.Money(s.Value.TotalValueOfProperty))
		row("Build cost", f.Money(s.Value.BuildCost))
		row("Other costs", f.Money(s.Value.OtherCosts))

		if s.Purchase.Enabled {
			row("Land price", f.Money(s.Purchase.LandPrice))
			if v, ok := s.Purchase.PurchasePricePerMeter.Get(); ok {
				row("Purchase price per meter", f.Money(v))
			}
			row("Total cost (purchase)", f.Money(s.Purchase.TotalCost))
			row("Builder profit (purchase)", f.Money(s.Purchase.Profit))
		} else {
			row("Purchase", "not applicable")
		}

		if s.Participation.Enabled {
			row("Builder share of area", f.Area(s.Participation.BuilderShareOfArea))
			row("Total cost (participation)", f.Money(s.Participation.TotalCost))
			row("Builder profit (participation)", f.Money(s.Participation.Profit))
		} else {
			row("Participation", "not applicable")
		}

		if i < len(projects)-1 {
			b.WriteString("\n")
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// CsvFormat outputs in comma-separated value format.
func CsvFormat(projects []*project.Project) {
	fmt.Print(CsvString(projects))
}

// WriteCSV writes the comma-separated values for every project to w.
func WriteCSV(w io.Writer, projects []*project.Project) error {
	_, err := io.WriteString(w, CsvString(projects))
	return err
}

// CsvString renders the projects as comma-separated values, one row per
// project. Unset figures are left empty.
func CsvString(projects []*project.Project) string {
	var b strings.Builder

	b.WriteString(`"id","title","mode"`)
	for _, c := range csvColumns {
		fmt.Fprintf(&b, `,"%s"`, c.header)
	}
	b.WriteString("\n")

	for _, p := range projects {
		fmt.Fprintf(&b, `"%s","%s","%s"`, p.ID, csvEscape(p.DisplayTitle()), calculator.Mode(p))
		for _, c := range csvColumns {
			v, ok := c.value(p).Get()
			if !ok {
				b.WriteString(`,""`)
				continue
			}
			fmt.Fprintf(&b, `,"%.*f"`, c.decimals, v)
		}
		b.WriteString("\n")
	}

	return b.String()
}

// JSONFormat outputs the projects and their summaries as indented JSON.
func JSONFormat(projects []*project.Project) {
	_ = WriteJSON(os.Stdout, projects)
}

// WriteJSON writes the projects and their summaries to w as indented JSON.
func WriteJSON(w io.Writer, projects []*project.Project) error {
	results := make([]Result, 0, len(projects))
	for _, p := range projects {
		results = append(results, Result{Project: p, Summary: calculator.Summarize(p)})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(results); err != nil {
		return fmt.Errorf("encoding results: %w", err)
	}
	return nil
}

func csvEscape(s string) string {
	return strings.ReplaceAll(s, `"`, `""`)
}
