package service

import "github.com/unisg-scs-asse/pitas-hs25-auction-bidder/internal/config"

// JobRunner produces the output payload for an assigned job. The real
// computation is out of scope; both observed stub behaviors are available.
type JobRunner func(jobType, inputData string) string

const staticOutput = "Cloudflare is having a little issue at the moment, grab a coffee and come back in 5 days"

// StaticRunner ignores its input and returns a fixed placeholder message.
func StaticRunner(_, _ string) string {
	return staticOutput
}

// EchoRunner reflects the assignment's input back to the auction house.
func EchoRunner(_, inputData string) string {
	if inputData == "" {
		return "Testing: no input"
	}
	return "Testing: " + inputData
}

// RunnerFor selects the job body for the configured output mode. Unknown
// modes fall back to the static runner.
func RunnerFor(mode string) JobRunner {
	if mode == config.JobOutputEcho {
		return EchoRunner
	}
	return StaticRunner
}
