package common

import "github.com/nspcc-dev/neo-go/pkg/interop/runtime"

// ErrWitnessFailed appears when the method must be called
// using certain account but was not.
const ErrWitnessFailed = "witness check failed"

// CheckWitness checks witness of the passed caller.
// It panics with ErrWitnessFailed message on fail.
func CheckWitness(caller []byte) {
	CheckWitnessWithPanic(caller, ErrWitnessFailed)
}

// CheckWitnessWithPanic checks witness of the passed caller and panics with
// the given message on fail. Contract callers are witnessed when they are the
// calling script.
func CheckWitnessWithPanic(caller []byte, panicMsg string) {
	if !runtime.CheckWitness(caller) {
		panic(panicMsg)
	}
}
