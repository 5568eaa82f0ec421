package main

import (
	"testing"

	"golang.org/x/tools/go/analysis/analysistest"
)

func TestOsExitAnalyzer(t *testing.T) {
	analysistest.Run(t, analysistest.TestData(), OsExitAnalyzer, "exitmain", "exitlib")
}

func TestAnalyzers(t *testing.T) {
	seen := map[string]bool{}
	for _, a := range analyzers() {
		if seen[a.Name] {
			t.Errorf("duplicate analyzer %s", a.Name)
		}
		seen[a.Name] = true
	}

	for _, name := range []string{"printf", "SA1000", "S1000", "ST1005", "QF1001", "osexit"} {
		if !seen[name] {
			t.Errorf("analyzer %s is not enabled", name)
		}
	}
	if seen["ST1000"] {
		t.Error("ST1000 should stay disabled")
	}
}
