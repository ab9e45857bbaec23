package testing_test

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/reflow/pkg/core"
	"github.com/go-drift/reflow/pkg/errors"
	"github.com/go-drift/reflow/pkg/host"
	"github.com/go-drift/reflow/pkg/reconcile"
	reflowtest "github.com/go-drift/reflow/pkg/testing"
)

func Counter(ctx *core.BuildContext, props core.Props) core.Node {
	n, set := core.UseState(ctx, 0)
	return core.H("div", core.Props{"id": "counter"},
		core.H("span", core.Props{"className": "value"}, n),
		core.H("button", core.Props{"onClick": func() {
			set.Update(func(v int) int { return v + 1 })
		}}, "+"),
	)
}

func TestTester_TapAndPump(t *testing.T) {
	tester := reflowtest.NewTesterWithT(t)
	require.NoError(t, tester.Render(core.CreateElement(Counter, nil)))

	require.NoError(t, tester.Tap(reflowtest.ByText("+")))
	require.NoError(t, tester.Tap(reflowtest.ByText("+")))
	assert.Equal(t, 1, tester.Pending())
	assert.Equal(t, "0", tester.Find(reflowtest.ByTag("span")).First().TextContent())

	tester.Pump()
	assert.Equal(t, "2", tester.Find(reflowtest.ByTag("span")).First().TextContent())
	assert.Equal(t, `<div id="counter"><span class="value">2</span><button>+</button></div>`, tester.HTML())
}

func TestTester_Mutations(t *testing.T) {
	tester := reflowtest.NewTesterWithT(t)
	require.NoError(t, tester.Render(core.H("p", nil, "a")))
	require.NoError(t, tester.Render(core.H("p", nil, "b")))

	muts := tester.Mutations()
	require.Len(t, muts, 1)
	assert.Equal(t, reconcile.Update, muts[0].Kind)
}

func TestTester_FireErrors(t *testing.T) {
	tester := reflowtest.NewTesterWithT(t)
	require.NoError(t, tester.Render(core.H("p", nil, "static")))

	err := tester.Tap(reflowtest.ByText("missing"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `ByText("missing")`)

	err = tester.Tap(reflowtest.ByText("static"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no onClick handler")
}

func TestTester_FireWithPayload(t *testing.T) {
	input := func(ctx *core.BuildContext, props core.Props) core.Node {
		v, set := core.UseState(ctx, "")
		return core.Group(
			core.H("input", core.Props{"onInput": func(e *host.Event) {
				set.Set(fmt.Sprint(e.Payload))
			}}),
			core.H("output", nil, v),
		)
	}
	tester := reflowtest.NewTesterWithT(t)
	require.NoError(t, tester.Render(core.CreateElement(input, nil)))

	require.NoError(t, tester.Fire(reflowtest.ByTag("input"), "input", "hello"))
	tester.Pump()
	assert.Equal(t, []string{"hello"}, tester.Find(reflowtest.ByTag("output")).Texts())
}

func TestTester_RecordsErrors(t *testing.T) {
	broken := func(ctx *core.BuildContext, props core.Props) core.Node {
		core.UseEffect(ctx, func() func() { panic("effect") }, core.Deps{})
		panic("render")
	}
	tester := reflowtest.NewTesterWithT(t)
	require.NoError(t, tester.Render(core.CreateElement(broken, nil)))
	tester.Pump()

	require.Len(t, tester.Errors().BuildErrors(), 1)
	assert.Equal(t, "render", tester.Errors().BuildErrors()[0].Recovered)
	assert.Empty(t, tester.Errors().Panics(), "the effect of a failed render is never committed")

	tester.Errors().Reset()
	assert.Zero(t, tester.Errors().Count())
}

func TestTester_RestoresHandler(t *testing.T) {
	before := errors.Handler()
	tester := reflowtest.NewTester()
	assert.NotSame(t, before, errors.Handler())
	tester.Cleanup()
	assert.Same(t, before, errors.Handler())
}

func TestTester_MisuseIsRecorded(t *testing.T) {
	tester := reflowtest.NewTesterWithT(t)
	n := core.CreateElement("", nil)
	assert.Equal(t, core.KindInvalid, n.Kind())
	assert.Len(t, tester.Errors().Errors(errors.KindMisuse), 1)
	assert.Error(t, tester.Render(n))
}

func TestTester_PumpUntil(t *testing.T) {
	profile := func(ctx *core.BuildContext, props core.Props) core.Node {
		res := core.UseFetch(ctx, "tester/profile", func(context.Context) (string, error) {
			time.Sleep(5 * time.Millisecond)
			return "loaded", nil
		})
		if res.Loading {
			return core.Text("…")
		}
		return core.H("p", nil, res.Data)
	}
	tester := reflowtest.NewTesterWithT(t)
	require.NoError(t, tester.Render(core.CreateElement(profile, nil)))

	err := tester.PumpUntil(func() bool {
		return tester.Find(reflowtest.ByText("loaded")).Exists()
	}, 2*time.Second)
	require.NoError(t, err)

	err = tester.PumpUntil(func() bool { return false }, 10*time.Millisecond)
	assert.ErrorIs(t, err, reflowtest.ErrSettleTimeout)
}

func TestTester_Remount(t *testing.T) {
	tester := reflowtest.NewTesterWithT(t)
	require.NoError(t, tester.Render(core.CreateElement(Counter, nil)))
	require.NoError(t, tester.Tap(reflowtest.ByText("+")))
	tester.Pump()

	require.NoError(t, tester.Remount(core.CreateElement(Counter, nil)))
	assert.Equal(t, "0", tester.Find(reflowtest.ByTag("span")).First().TextContent())
}

func TestFinders(t *testing.T) {
	tester := reflowtest.NewTesterWithT(t)
	require.NoError(t, tester.Render(core.H("ul", core.Props{"id": "list"},
		core.H("li", core.Props{"data-n": 1}, "alpha"),
		core.H("li", core.Props{"data-n": 2}, "beta"),
	)))

	assert.Equal(t, 2, tester.Find(reflowtest.ByTag("li")).Count())
	assert.Equal(t, "li", tester.Find(reflowtest.ByText("beta")).First().Tag())
	assert.Equal(t, "ul", tester.Find(reflowtest.ByID("list")).First().Tag())
	assert.Equal(t, "beta", tester.Find(reflowtest.ByProp("data-n", 2)).First().TextContent())
	assert.Equal(t, []string{"alpha"}, tester.Find(reflowtest.ByTextContaining("alp")).Texts())
	assert.False(t, tester.Find(reflowtest.ByText("gamma")).Exists())
	assert.Nil(t, tester.Find(reflowtest.ByText("gamma")).FirstOrNil())
	assert.Panics(t, func() { tester.Find(reflowtest.ByTag("li")).At(5) })

	odd := reflowtest.ByPredicate("odd", func(n *host.Node) bool {
		v, _ := n.Prop("data-n")
		return v == 1
	})
	assert.Equal(t, "alpha", tester.Find(odd).First().TextContent())
}

type fakeT struct {
	name   string
	errors []string
	fatal  []string
}

func (f *fakeT) Helper()                        {}
func (f *fakeT) Name() string                   { return f.name }
func (f *fakeT) Errorf(format string, a ...any) { f.errors = append(f.errors, fmt.Sprintf(format, a...)) }
func (f *fakeT) Fatalf(format string, a ...any) { f.fatal = append(f.fatal, fmt.Sprintf(format, a...)) }

func TestSnapshot_MatchesFile(t *testing.T) {
	tester := reflowtest.NewTesterWithT(t)
	require.NoError(t, tester.Render(core.CreateElement(Counter, nil)))
	path := filepath.Join(t.TempDir(), "counter.snapshot.json")

	snap := tester.CaptureSnapshot()
	require.Len(t, snap.Tree, 1)
	assert.Equal(t, "<func()>", snap.Tree[0].Children[1].Props["onClick"])
	require.NoError(t, snap.UpdateFile(path))

	ft := &fakeT{name: "TestSnapshot"}
	snap.MatchesFile(ft, path)
	assert.Empty(t, ft.errors)
	assert.Empty(t, ft.fatal)

	require.NoError(t, tester.Tap(reflowtest.ByText("+")))
	tester.Pump()
	tester.CaptureSnapshot().MatchesFile(ft, path)
	require.Len(t, ft.errors, 1)
	assert.True(t, strings.Contains(ft.errors[0], "snapshot mismatch"))

	missing := &fakeT{name: "TestMissing"}
	snap.MatchesFile(missing, filepath.Join(t.TempDir(), "none.json"))
	require.Len(t, missing.fatal, 1)
	assert.Contains(t, missing.fatal[0], "REFLOW_UPDATE_SNAPSHOTS=1")
}
