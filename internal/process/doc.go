// Package process runs the external tools crucible drives (qemu-img, dd,
// shred, lvs, lvremove, blockdev, rbd, cp, rsync, scp).
//
// Every component that shells out accepts a Runner. ExecRunner is the
// production implementation; processtest.FakeRunner records invocations
// for tests.
//
// Commands that need privileges set RunAsRoot and are prefixed with the
// configured root helper (for example "sudo"). Commands that may fail
// transiently set Attempts; ExecRunner retries them on failure and reports
// a single pass/fail outcome.
package process
