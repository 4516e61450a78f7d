package config

import (
	"strings"
	"testing"
)

func TestValidateConfigurationTestConfig(t *testing.T) {
	conf, err := LoadConfiguration("../../test/test_config.yaml")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	if warnings := conf.ValidateConfiguration(); len(warnings) != 0 {
		t.Errorf("Expected no warnings for the test config, got %v", warnings)
	}
}

func TestValidateConfigurationEdgeCases(t *testing.T) {
	conf := Configuration{
		Projects: []ProjectInput{
			{
				Title:             "Overbuilt",
				DensityPercentage: float(140),
				FloorCount:        float(3.5),
			},
			{
				LandPrice: float(2_000_000_000),
			},
		},
		Storage: StorageConfig{Driver: "mongo"},
	}

	warnings := conf.ValidateConfiguration()

	// Verify we get appropriate warnings for edge cases
	if len(warnings) == 0 {
		t.Fatal("Expected validation warnings for edge cases but got none")
	}

	t.Logf("Found %d warnings:", len(warnings))
	for i, warning := range warnings {
		t.Logf("%d. %s", i+1, warning)
	}

	expected := []string{
		"'Overbuilt' densityPercentage",
		"'Overbuilt' floorCount is not a whole number",
		"'project #2' sets landPrice without a landSize",
		"Storage:",
	}
	for _, fragment := range expected {
		found := false
		for _, warning := range warnings {
			if strings.Contains(warning, fragment) {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Expected a warning containing %q", fragment)
		}
	}
}

func TestValidateConfigurationDuplicateIDs(t *testing.T) {
	id := "3b0e6f2a-8c41-4d2b-9f7a-1e5c9d0a7b21"
	conf := Configuration{
		Projects: []ProjectInput{
			{ID: id, Title: "First"},
			{ID: id, Title: "Second"},
		},
	}

	warnings := conf.ValidateConfiguration()
	if len(warnings) != 1 || !strings.Contains(warnings[0], "'Second' reuses the id of project 'First'") {
		t.Errorf("Expected a duplicate id warning, got %v", warnings)
	}
}
