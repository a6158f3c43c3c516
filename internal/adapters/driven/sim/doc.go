// Package sim provides simulated robot hardware implementing the driven
// hardware ports. It backs the sim command and end-to-end tests.
//
// Components are safe for concurrent use so a display goroutine can read
// them while the scheduler drives them.
package sim
