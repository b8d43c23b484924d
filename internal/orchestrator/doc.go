// Package orchestrator drives the INTAKE → PLAN → DECIDE → EXECUTE →
// OBSERVE → LOOP_CHECK control loop over an explicit state machine. The
// reasoning client only proposes structured decisions; this package
// validates, executes, and records them. Execution is single-threaded and
// synchronous: each phase handler blocks on its collaborator before the
// driver proceeds, and the only bounded resource is the iteration ceiling.
package orchestrator
