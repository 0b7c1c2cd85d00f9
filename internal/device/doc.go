// Package device simulates a small home IoT installation: a light, a
// thermostat and a security camera held in a mutex-guarded Store, plus a
// motion simulator that stamps camera events at random intervals.
package device
