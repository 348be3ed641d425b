// Package executor carries out commands that survived policy enforcement.
//
// The executor only ever sees requests the gate has already allowed and
// constraint-checked; it re-checks nothing about policy. It honors the
// resource constraints the gate passes through (data point caps, file size
// caps) because only the executor knows the size of what it is producing.
//
// Three actions are implemented: report generation, air quality analysis
// over JSON data files, and alert dispatch. Destructive actions have no
// implementation here; a policy that allows them still yields a failed
// outcome rather than an effect.
package executor
