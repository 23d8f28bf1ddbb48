package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// Tag and field keys of an energy point.
const (
	tagDeviceID    = "device_id"
	tagHome        = "home"
	fieldPowerKW   = "power_kw"
	fieldEnergyKWh = "energy_kwh"

	defaultMeasurement = "energy"
)

// schema holds the measurement and the fixed tags of every energy point.
type schema struct {
	measurement string
	tags        map[string]string
}

func newSchema(measurement, home string) schema {
	if measurement == "" {
		measurement = defaultMeasurement
	}
	s := schema{measurement: measurement, tags: map[string]string{}}
	if home != "" {
		s.tags[tagHome] = home
	}
	return s
}

// point builds one energy reading. power_kw is omitted when zero.
func (s schema) point(deviceID string, powerKW, energyKWh float64, at time.Time) *write.Point {
	tags := make(map[string]string, len(s.tags)+1)
	for k, v := range s.tags {
		tags[k] = v
	}
	tags[tagDeviceID] = deviceID

	fields := map[string]interface{}{
		fieldEnergyKWh: energyKWh,
	}
	if powerKW > 0 {
		fields[fieldPowerKW] = powerKW
	}
	return write.NewPoint(s.measurement, tags, fields, at)
}

// WriteEnergyMetric queues one energy reading for a device. Readings are
// dropped once the client is closed.
//
// Parameters:
//   - deviceID: Device identifier
//   - powerKW: Rated draw in kW, 0 when the amount was measured directly
//   - energyKWh: Energy used in this interval, in kWh
func (c *Client) WriteEnergyMetric(deviceID string, powerKW, energyKWh float64) {
	if !c.open() {
		return
	}
	c.writeAPI.WritePoint(c.schema.point(deviceID, powerKW, energyKWh, time.Now()))
}
