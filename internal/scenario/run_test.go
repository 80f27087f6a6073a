package scenario

import (
	"bytes"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baxromumarov/futility"
	"github.com/baxromumarov/futility/promhook"
)

func trace(buf *bytes.Buffer) []string {
	return strings.Split(strings.TrimSpace(buf.String()), "\n")
}

func TestRun_MainFails(t *testing.T) {
	var buf bytes.Buffer
	s := &Scenario{
		Name: "boom",
		Main: []Step{{Name: "work", Fail: "boom"}},
	}

	err := Run(s, Options{Out: &buf})

	require.Error(t, err)
	assert.Equal(t, `step "work": boom`, err.Error())
	assert.Equal(t, []string{
		"scenario: boom",
		"main: work failed: boom",
		"exit: after main",
		`result: error: step "work": boom`,
	}, trace(&buf))
}

func TestRun_InstallFailsSkipsMain(t *testing.T) {
	var buf bytes.Buffer
	s := &Scenario{
		Name:    "bad-setup",
		OnError: "setup",
		Install: []Step{{Name: "configure", Fail: "bad-setup"}},
		Main:    []Step{{Name: "work"}},
	}

	err := Run(s, Options{Out: &buf})

	require.Error(t, err)
	assert.Equal(t, `setup: step "configure": bad-setup`, err.Error())
	assert.Equal(t, []string{
		"scenario: bad-setup",
		"install: configure failed: bad-setup",
		"exit: after install",
		`result: error: setup: step "configure": bad-setup`,
	}, trace(&buf))
}

func TestRun_RecoveredStepContinues(t *testing.T) {
	var buf bytes.Buffer
	s := &Scenario{
		Name:    "flaky",
		Install: []Step{{Name: "configure"}},
		Main: []Step{
			{Name: "fetch", Fail: "connection refused", Recover: "cached"},
			{Name: "render"},
		},
	}

	err := Run(s, Options{Out: &buf})

	require.NoError(t, err)
	assert.Equal(t, []string{
		"scenario: flaky",
		"install: configure ok",
		"exit: after install",
		"main: fetch caught: connection refused",
		"main: fetch -> cached",
		"main: render ok",
		"exit: after main",
		"result: ok",
	}, trace(&buf))
}

func TestRun_RecoverWithoutFailureYieldsTryValue(t *testing.T) {
	var buf bytes.Buffer
	s := &Scenario{
		Name: "steady",
		Main: []Step{{Name: "fetch", Recover: "cached"}},
	}

	require.NoError(t, Run(s, Options{Out: &buf}))
	assert.Contains(t, trace(&buf), "main: fetch -> ok")
	assert.NotContains(t, buf.String(), "caught")
}

func TestRun_PanicIsFault(t *testing.T) {
	saved := futility.FaultHandlers()
	t.Cleanup(func() { futility.RestoreFaultHandlers(saved) })
	futility.SetFaultHandler(func(*futility.PanicError) {})

	var buf bytes.Buffer
	reg := prometheus.NewRegistry()
	metrics := promhook.New(reg)
	s := &Scenario{
		Name: "crash",
		Main: []Step{{Name: "explode", Panic: "nil map write", Recover: "unused"}},
	}

	assert.Panics(t, func() {
		_ = Run(s, Options{Out: &buf, Metrics: metrics, ReportFaults: true})
	})

	assert.Equal(t, []string{
		"scenario: crash",
		"fault: nil map write",
	}, trace(&buf))
	expected := `
# HELP futility_faults_total Total number of faults reported to the fault handlers.
# TYPE futility_faults_total counter
futility_faults_total 1
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "futility_faults_total"))
}

func TestRun_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := promhook.New(reg)
	s := &Scenario{
		Name:    "metered",
		Install: []Step{{Name: "a"}},
		Main:    []Step{{Name: "b", Fail: "x"}},
	}

	require.Error(t, Run(s, Options{Metrics: metrics}))

	expected := `
# HELP futility_phases_total Total number of lifecycle phases run, by phase and outcome.
# TYPE futility_phases_total counter
futility_phases_total{outcome="error",phase="main"} 1
futility_phases_total{outcome="ok",phase="install"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "futility_phases_total"))
}

func TestRun_RestoresFaultHandlers(t *testing.T) {
	saved := futility.FaultHandlers()
	t.Cleanup(func() { futility.RestoreFaultHandlers(saved) })
	futility.SetFaultHandler(func(*futility.PanicError) {})

	metrics := promhook.New(prometheus.NewRegistry())
	ok := &Scenario{Name: "ok", Main: []Step{{Name: "a"}}}
	crash := &Scenario{Name: "crash", Main: []Step{{Name: "a", Panic: "boom"}}}

	for range 5 {
		require.NoError(t, Run(ok, Options{Metrics: metrics, ReportFaults: true}))
	}
	assert.Len(t, futility.FaultHandlers(), 1)

	assert.Panics(t, func() {
		_ = Run(crash, Options{ReportFaults: true})
	})
	assert.Len(t, futility.FaultHandlers(), 1)
}
