// Package energy accumulates per-device energy use and checks it against a
// household threshold.
//
// Usage is tracked in kWh keyed by device ID. Each record is also forwarded
// to an optional Sink, normally the InfluxDB client, so the history can be
// charted outside the console.
package energy
