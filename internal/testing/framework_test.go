package testing

import (
	"testing"
)

func TestTestFramework_RunTestSuite_ReportsDeobfuscationOutcomes(t *testing.T) {
	tf, err := NewTestFramework(nil)
	if err != nil {
		t.Fatalf("NewTestFramework: %v", err)
	}
	defer tf.Cleanup()

	cases := []*DeobfuscationCase{
		{
			Name:        "const_folding",
			SourceCode:  "const a = 5;\nvar b = a + 1;\n",
			ExpectedOut: "var b = 6",
		},
		{
			Name:        "syntax_error",
			SourceCode:  "var a = ;",
			ShouldError: true,
		},
	}

	tf.RunTestSuite(cases, t)
}

func TestTestFramework_RunTest_FlagsUnmetExpectation(t *testing.T) {
	tf, err := NewTestFramework(nil)
	if err != nil {
		t.Fatalf("NewTestFramework: %v", err)
	}
	defer tf.Cleanup()

	result := tf.RunTest(&DeobfuscationCase{
		Name:        "unmet_expectation",
		SourceCode:  "var a = 1;\n",
		ExpectedOut: "this text never appears",
	})
	if result.Success {
		t.Fatalf("expected the case to fail on an unmet expectation")
	}
}
