// Package testing provides a component testing harness for reflow.
//
// # Quick Start
//
// Create a tester, render a tree, and make assertions:
//
//	func TestCounter(t *testing.T) {
//	    tester := reflowtest.NewTesterWithT(t)
//	    tester.Render(core.CreateElement(Counter, nil))
//
//	    tester.Tap(reflowtest.ByText("+"))
//	    tester.Pump()
//
//	    if !tester.Find(reflowtest.ByText("1")).Exists() {
//	        t.Error("expected the count to be 1")
//	    }
//	}
//
// The tester owns a TaskQueue scheduler, so batched re-renders and passive
// effects run exactly when Pump is called.
//
// # Snapshot Testing
//
// Capture and compare presentation tree snapshots:
//
//	snapshot := tester.CaptureSnapshot()
//	snapshot.MatchesFile(t, "testdata/counter.snapshot.json")
//
// Update snapshots with:
//
//	REFLOW_UPDATE_SNAPSHOTS=1 go test ./...
//
// # Import Alias
//
// Since this package has the same name as the standard library testing
// package, import it with an alias:
//
//	import reflowtest "github.com/go-drift/reflow/pkg/testing"
package testing
