// Package headless runs scripted browsing sessions without a terminal UI.
//
// A script is a YAML list of steps. Each step performs one action against
// the shell (typing into the omnibar, asking the agent, switching tabs,
// history navigation) or waits for the shell to reach a state:
//
//	name: agent smoke test
//	expect_timeout: 30s
//	steps:
//	  - input: openai.com
//	  - expect:
//	      address: "https://openai.com*"
//	  - agent: create tic tac toe app
//	  - expect:
//	      status: "Agent generated app*"
//	      tabs: 2
//	artifacts:
//	  enabled: true
//
// Expectations are polled until every field matches or their timeout
// elapses. Address, status and label are glob patterns.
package headless
