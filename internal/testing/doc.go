// Package testing provides test doubles and fixtures shared by package tests.
//
//   - FakeRunner: records commands and answers them with scripted exit codes
//   - MockRunner: testify mock of shell.Runner for strict expectations
//   - FakeProber: serves canned host facts
//   - RecordingReporter: captures operator-facing output
//   - JammyFacts, WSLFacts: common host fixtures
//
// Usage:
//
//	runner := testutil.NewFakeRunner()
//	runner.Respond("python3 -m pip install", 1)
//	prober := testutil.NewFakeProber(testutil.JammyFacts())
package testing
