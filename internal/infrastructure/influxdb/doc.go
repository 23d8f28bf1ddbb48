// Package influxdb writes Hearth's energy history to InfluxDB v2.
//
// Every amount the energy monitor accumulates becomes one point in the
// configured measurement (default "energy"). Points are tagged with
// device_id, and with home when the installation is named, and carry
// energy_kwh plus power_kw when the amount came from a rated draw.
//
// # Usage
//
//	client, err := influxdb.Connect(ctx, influxdb.Options{
//	    Config: cfg.InfluxDB,
//	    Home:   cfg.Home.Name,
//	    Logger: log,
//	})
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	monitor.SetSink(client)
//
// Writes are batched according to batch_size and flush_interval. Close
// flushes whatever is still buffered.
package influxdb
