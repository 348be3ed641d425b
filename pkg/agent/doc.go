// Package agent is the command pipeline's front door. It wires the
// classifier, policy store, enforcement gate, and audit ledger into a
// single ProcessCommand call.
//
// Every command that enters the pipeline leaves exactly one audit record,
// including commands rejected before classification. The agent itself
// never evaluates policy; that stays inside the gate.
package agent
