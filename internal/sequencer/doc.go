// Package sequencer drives the device load pipeline: for each manifest, in
// the declared order, it resolves factory identifiers, constructs device
// instances, and publishes them into the session namespace.
//
// Loading is strictly sequential. Later manifests may assume devices from
// earlier manifests already exist in the namespace, so there is no
// concurrency and no reordering. A single bad device never aborts the
// sequence: every failure is recorded and the load continues, because some
// hardware being offline is a normal state for a beamline session, not an
// error in the session itself.
package sequencer
