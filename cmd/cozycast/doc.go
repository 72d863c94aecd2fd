// Command cozycast produces a narrated radio broadcast from household and
// weather events and mixes it over a music bed.
package main
