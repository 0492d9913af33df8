// Command ridesim runs the ride dispatch simulation: N drivers serve randomly
// generated rides for T seconds, then the simulation shuts down gracefully.
//
// Usage:
//
//	ridesim N T [flags]
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
