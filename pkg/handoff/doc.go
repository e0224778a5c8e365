// Package handoff carries the navigation arrow from one page to the next.
//
// When a visitor clicks the arrow, the leaving page computes where the
// arrow should land on the next page ([Exit]) and stores a single-use
// [Value] keyed by client. The arriving page takes it exactly once
// ([Store.Take]), builds an [Entrance] flight from the stored box into the
// real arrow, and animates it ([Flight.Animate]). If the flight never
// reports completion, navigation proceeds after [FlightTimeout].
package handoff
