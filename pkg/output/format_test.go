package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/iwvelando/builduction/internal/calculator"
	"github.com/iwvelando/builduction/internal/project"
	"github.com/iwvelando/builduction/pkg/optional"
)

func some(v float64) optional.Float {
	return optional.Some(v)
}

// calculatedProjects returns one purchase project and one participation
// project on the same 200 m² plot.
func calculatedProjects() []*project.Project {
	base := func(title string) *project.Project {
		p := project.New()
		p.Title = optional.Some(title)
		p.LandSize = some(200)
		p.DensityPercentage = some(60)
		p.FloorCount = some(5)
		p.WarehouseCount = some(5)
		p.WarehouseArea = some(5)
		p.BuildCostPerMeter = some(10_000_000)
		p.SalesPricePerMeter = some(30_000_000)
		p.DelictArea = some(10)
		p.DelictPenaltyPerMeter = some(3_000_000)
		p.OtherCosts = some(500_000_000)
		return p
	}

	purchase := base("Purchase tower")
	purchase.PurchasePricePerMeter = some(25_000_000)

	participation := base("Participation tower")
	participation.BuilderPercentage = some(50)
	participation.Over = some(1_000_000_000)

	return []*project.Project{
		calculator.Calculate(purchase),
		calculator.Calculate(participation),
	}
}

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()

	oldStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe() error = %v", err)
	}
	os.Stdout = w

	fn()

	_ = w.Close()
	os.Stdout = oldStdout

	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	return buf.String()
}

func TestPrettyFormat(t *testing.T) {
	output := captureStdout(t, func() {
		PrettyFormat(calculatedProjects(), "en")
	})

	expected := []string{
		"--- Results for project Purchase tower (purchase) ---",
		"--- Results for project Participation tower (participation) ---",
		"Item",
		"Legal area per floor",
		"120 m²",
		"675 m²",
		"5 units",
		"20,250,000,000 toman",
		"Land price",
		"5,000,000,000 toman",
		"8,100,000,000 toman",
		"337.5 m²",
		"1,975,000,000 toman",
		"not applicable",
	}
	for _, element := range expected {
		if !strings.Contains(output, element) {
			t.Errorf("PrettyFormat missing %q", element)
		}
	}
}

func TestPrettyFormatScenarioSections(t *testing.T) {
	projects := calculatedProjects()

	var purchase bytes.Buffer
	if err := WritePretty(&purchase, projects[:1], "en"); err != nil {
		t.Fatalf("WritePretty() error = %v", err)
	}
	if !strings.Contains(purchase.String(), fmt.Sprintf("%-34s | %s", "Participation", "not applicable")) {
		t.Errorf("purchase project should mark participation as not applicable:\n%s", purchase.String())
	}
	if strings.Contains(purchase.String(), "Builder share of area") {
		t.Errorf("purchase project should not show the builder share")
	}

	var participation bytes.Buffer
	if err := WritePretty(&participation, projects[1:], "en"); err != nil {
		t.Fatalf("WritePretty() error = %v", err)
	}
	if !strings.Contains(participation.String(), fmt.Sprintf("%-34s | %s", "Purchase", "not applicable")) {
		t.Errorf("participation project should mark purchase as not applicable:\n%s", participation.String())
	}
}

func TestPrettyFormatPersian(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePretty(&buf, calculatedProjects()[:1], "fa"); err != nil {
		t.Fatalf("WritePretty() error = %v", err)
	}
	if !strings.Contains(buf.String(), "۱۲۰ متر") {
		t.Errorf("expected Persian digits and units, got:\n%s", buf.String())
	}
}

func TestPrettyFormatEmptyResults(t *testing.T) {
	output := captureStdout(t, func() {
		PrettyFormat(nil, "en")
	})
	if output != "" {
		t.Errorf("PrettyFormat with no projects should print nothing, got %q", output)
	}
}

func TestCsvFormat(t *testing.T) {
	projects := calculatedProjects()
	output := captureStdout(t, func() {
		CsvFormat(projects)
	})

	lines := strings.Split(strings.TrimSpace(output), "\n")
	if len(lines) != 3 {
		t.Fatalf("CsvFormat should produce 3 lines (header + 2 data), got %d", len(lines))
	}

	header := lines[0]
	for _, element := range []string{`"id"`, `"title"`, `"mode"`, `"totalAreaToBuild"`, `"builderProfitInCaseOfParticipation"`} {
		if !strings.Contains(header, element) {
			t.Errorf("CsvFormat header missing: %s", element)
		}
	}

	purchaseRow := lines[1]
	for _, element := range []string{
		`"` + projects[0].ID.String() + `"`,
		`"Purchase tower"`,
		`"purchase"`,
		`"650.00"`,
		`"5000000000"`,
		`"8100000000"`,
	} {
		if !strings.Contains(purchaseRow, element) {
			t.Errorf("CsvFormat purchase row missing: %s", element)
		}
	}

	participationRow := lines[2]
	for _, element := range []string{`"participation"`, `"337.50"`, `"1975000000"`} {
		if !strings.Contains(participationRow, element) {
			t.Errorf("CsvFormat participation row missing: %s", element)
		}
	}

	if got, want := strings.Count(participationRow, ","), strings.Count(header, ","); got != want {
		t.Errorf("row has %d separators, header has %d", got, want)
	}
}

func TestCsvStringMatchesCsvFormat(t *testing.T) {
	projects := calculatedProjects()
	expected := CsvString(projects)

	output := captureStdout(t, func() {
		CsvFormat(projects)
	})

	if strings.TrimSpace(expected) != strings.TrimSpace(output) {
		t.Fatalf("CsvString and CsvFormat output mismatch\nCsvString:\n%s\nCsvFormat:\n%s", expected, output)
	}
}

func TestCsvStringUnsetFigures(t *testing.T) {
	p := project.New()
	p.Title = optional.Some(`The "corner" plot`)

	output := CsvString([]*project.Project{p})
	lines := strings.Split(strings.TrimSpace(output), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header and one row, got %d lines", len(lines))
	}
	if !strings.Contains(lines[1], `"The ""corner"" plot"`) {
		t.Errorf("title should be escaped: %s", lines[1])
	}
	if !strings.Contains(lines[1], `,"",""`) {
		t.Errorf("unset figures should be empty: %s", lines[1])
	}
}

func TestWriteJSON(t *testing.T) {
	projects := calculatedProjects()

	var buf bytes.Buffer
	if err := WriteJSON(&buf, projects); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}

	var results []Result
	if err := json.Unmarshal(buf.Bytes(), &results); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Project.ID != projects[0].ID {
		t.Errorf("id mismatch: %s != %s", results[0].Project.ID, projects[0].ID)
	}
	if results[0].Summary.Mode != "purchase" {
		t.Errorf("Summary.Mode = %s, expected purchase", results[0].Summary.Mode)
	}
	if results[1].Summary.Participation.Profit != 1_975_000_000 {
		t.Errorf("Participation.Profit = %v", results[1].Summary.Participation.Profit)
	}
}

func TestJSONFormatNonFinite(t *testing.T) {
	p := project.New()
	p.LandPrice = some(1_000_000)
	calculator.Calculate(p)

	output := captureStdout(t, func() {
		JSONFormat([]*project.Project{p})
	})
	if !strings.Contains(output, `"purchasePricePerMeter": null`) {
		t.Errorf("non-finite values should be written as null, got:\n%s", output)
	}
}
