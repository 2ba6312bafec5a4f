// Package shell is the single chokepoint through which every side-effecting
// provisioning action passes.
//
// A step describes what it wants executed as a CommandSpec and hands it to a
// Runner. The runner decides how to elevate, streams output to the operator's
// console and reports the outcome as a Result. Dynamic values must pass through
// Quote before they are embedded in a command line.
package shell
